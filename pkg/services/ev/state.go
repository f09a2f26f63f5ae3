package ev

import (
	"errors"
	"fmt"

	"github.com/fadedpez/blackjackev/pkg/entities"
	"github.com/fadedpez/blackjackev/pkg/services/blackjack"
)

var ErrNoPlayerCards = errors.New("at least one player card is required")

// State is one position in the evaluation tree. States are values: every
// transition returns a new State and leaves the receiver untouched.
type State struct {
	Player blackjack.Hand
	Upcard entities.Card
	// Dealer starts as the up-card alone and grows as the dealer draws
	Dealer        blackjack.Hand
	Shoe          entities.Composition
	Decks         int
	DealerChecked bool
	WasSplit      bool
	NumHands      int
}

// NewState deals the player ranks and the dealer up-card out of a fresh shoe
func NewState(playerRanks []entities.Rank, upcard entities.Rank, decks int, dealerChecked bool) (State, error) {
	if len(playerRanks) == 0 {
		return State{}, ErrNoPlayerCards
	}
	return deal(playerRanks, upcard, decks, dealerChecked)
}

// NewDealerState is NewState for analysing the dealer alone. The player
// cards only leave the shoe and may be empty.
func NewDealerState(upcard entities.Rank, decks int, dealerChecked bool, playerRanks ...entities.Rank) (State, error) {
	return deal(playerRanks, upcard, decks, dealerChecked)
}

func deal(playerRanks []entities.Rank, upcard entities.Rank, decks int, dealerChecked bool) (State, error) {
	if decks < 1 {
		return State{}, fmt.Errorf("%w: decks must be positive, got %d", entities.ErrInvalidRules, decks)
	}

	shoe := entities.NewShoe(decks)

	cards := make([]entities.Card, 0, len(playerRanks))
	for _, rank := range playerRanks {
		card, err := shoe.DealRank(rank)
		if err != nil {
			return State{}, fmt.Errorf("dealing player card: %w", err)
		}
		cards = append(cards, card)
	}

	up, err := shoe.DealRank(upcard)
	if err != nil {
		return State{}, fmt.Errorf("dealing dealer up-card: %w", err)
	}

	return State{
		Player:        blackjack.NewHand(cards...),
		Upcard:        up,
		Dealer:        blackjack.NewHand(up),
		Shoe:          shoe.Composition(),
		Decks:         decks,
		DealerChecked: dealerChecked,
		NumHands:      1,
	}, nil
}

// DealToDealer moves one card of rank r from the shoe to the dealer's hand.
// Once the dealer draws the peek no longer says anything about later cards.
func (s State) DealToDealer(r entities.Rank) (State, error) {
	shoe, err := s.Shoe.Remove(r)
	if err != nil {
		return s, err
	}
	s.Shoe = shoe
	s.Dealer = s.Dealer.WithCard(entities.NewCard(entities.Hearts, r))
	s.DealerChecked = false
	return s, nil
}

// DealToPlayer moves one card of rank r from the shoe to the player's hand
func (s State) DealToPlayer(r entities.Rank) (State, error) {
	shoe, err := s.Shoe.Remove(r)
	if err != nil {
		return s, err
	}
	s.Shoe = shoe
	s.Player = s.Player.WithCard(entities.NewCard(entities.Hearts, r))
	return s, nil
}

// Split keeps one card of the pair as a new single-card hand. The other
// hand is never tracked; its value is estimated from this one.
func (s State) Split(keep entities.Card) State {
	s.Player = blackjack.NewHand(keep)
	s.WasSplit = true
	s.NumHands++
	return s
}

// mustDeal unwraps a transition the engine only requests for ranks with
// a positive count.
func mustDeal(s State, err error) State {
	if err != nil {
		panic(fmt.Sprintf("ev: impossible transition: %v", err))
	}
	return s
}
