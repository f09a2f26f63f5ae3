package entities

import (
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidRank = errors.New("invalid rank")

// Suit represents a card suit

type Suit string

const (
	Hearts   Suit = "HEARTS"
	Diamonds Suit = "DIAMONDS"
	Clubs    Suit = "CLUBS"
	Spades   Suit = "SPADES"
)

// Suits lists the four suits in dealing order
var Suits = []Suit{Hearts, Diamonds, Clubs, Spades}

// Rank represents a card rank

type Rank string

const (
	Ace   Rank = "A"
	Two   Rank = "2"
	Three Rank = "3"
	Four  Rank = "4"
	Five  Rank = "5"
	Six   Rank = "6"
	Seven Rank = "7"
	Eight Rank = "8"
	Nine  Rank = "9"
	Ten   Rank = "10"
	Jack  Rank = "J"
	Queen Rank = "Q"
	King  Rank = "K"
)

// NumRanks is the number of distinct ranks in a standard deck
const NumRanks = 13

// Ranks lists every rank, ordered by Index
var Ranks = [NumRanks]Rank{Ace, Two, Three, Four, Five, Six, Seven, Eight, Nine, Ten, Jack, Queen, King}

// Index returns the position of the rank in Ranks, or -1 for an unknown rank
func (r Rank) Index() int {
	switch r {
	case Ace:
		return 0
	case Two:
		return 1
	case Three:
		return 2
	case Four:
		return 3
	case Five:
		return 4
	case Six:
		return 5
	case Seven:
		return 6
	case Eight:
		return 7
	case Nine:
		return 8
	case Ten:
		return 9
	case Jack:
		return 10
	case Queen:
		return 11
	case King:
		return 12
	}
	return -1
}

// Value returns the blackjack value of the rank, counting an Ace as 11
func (r Rank) Value() int {
	switch r {
	case Ace:
		return 11
	case Ten, Jack, Queen, King:
		return 10
	}
	if i := r.Index(); i > 0 {
		return i + 1
	}
	return 0
}

// IsTenValue reports whether the rank counts as ten
func (r Rank) IsTenValue() bool {
	return r.Value() == 10
}

// Valid reports whether r is one of the thirteen ranks
func (r Rank) Valid() bool {
	return r.Index() >= 0
}

// ParseRank converts user input such as "10", "T", "k" or "a" into a Rank
func ParseRank(s string) (Rank, error) {
	switch v := strings.ToUpper(strings.TrimSpace(s)); v {
	case "T", "10":
		return Ten, nil
	case "A", "J", "Q", "K", "2", "3", "4", "5", "6", "7", "8", "9":
		return Rank(v), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidRank, s)
}

// ParseRanks converts a comma separated list such as "A,7" into ranks
func ParseRanks(s string) ([]Rank, error) {
	parts := strings.Split(s, ",")
	ranks := make([]Rank, 0, len(parts))
	for _, p := range parts {
		r, err := ParseRank(p)
		if err != nil {
			return nil, err
		}
		ranks = append(ranks, r)
	}
	return ranks, nil
}

// Card represents a playing card

type Card struct {
	Suit Suit
	Rank Rank
}

// NewCard creates a new card

func NewCard(suit Suit, rank Rank) Card {
	return Card{
		Suit: suit,
		Rank: rank,
	}
}

// String returns the string representation of the card

func (c Card) String() string {
	return fmt.Sprintf("%s of %s", c.Rank, c.Suit)
}
