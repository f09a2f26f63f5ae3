package entities

import "fmt"

// Deck is a physical shoe of one or more 52 card decks
type Deck struct {
	Cards []Card
	decks int
}

// NewDeck creates a new deck of 52 cards, one of each rank and suit
func NewDeck() *Deck {
	return NewShoe(1)
}

// NewShoe creates an unshuffled shoe holding the given number of decks
func NewShoe(decks int) *Deck {
	cards := make([]Card, 0, 52*decks)
	for d := 0; d < decks; d++ {
		for _, suit := range Suits {
			for _, rank := range Ranks {
				cards = append(cards, NewCard(suit, rank))
			}
		}
	}

	return &Deck{Cards: cards, decks: decks}
}

// Decks returns how many decks the shoe was built from
func (d *Deck) Decks() int {
	return d.decks
}

// DealRank removes and returns the first card of the requested rank
func (d *Deck) DealRank(rank Rank) (Card, error) {
	if !rank.Valid() {
		return Card{}, fmt.Errorf("%w: %q", ErrInvalidRank, rank)
	}
	for i, card := range d.Cards {
		if card.Rank == rank {
			d.Cards = append(d.Cards[:i], d.Cards[i+1:]...)
			return card, nil
		}
	}
	return Card{}, fmt.Errorf("too many cards of rank %s requested: %w", rank, ErrRankExhausted)
}

// Composition summarises the undealt cards by rank
func (d *Deck) Composition() Composition {
	var c Composition
	for _, card := range d.Cards {
		c.counts[card.Rank.Index()]++
	}
	c.total = len(d.Cards)
	return c
}
