package strategy

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/fadedpez/blackjackev/pkg/entities"
)

// StartingHand is a two card hand the chart has a row for
type StartingHand struct {
	First  entities.Rank
	Second entities.Rank
}

// Cards returns the hand as "first,second"
func (h StartingHand) Cards() string {
	return string(h.First) + "," + string(h.Second)
}

// Label is the chart row name. Hard totals are named by their sum;
// soft hands and pairs keep their cards.
func (h StartingHand) Label() string {
	if h.First == h.Second || h.First == entities.Ace || h.Second == entities.Ace {
		return h.Cards()
	}
	return strconv.Itoa(h.First.Value() + h.Second.Value())
}

// Ranks returns the hand's ranks in deal order
func (h StartingHand) Ranks() []entities.Rank {
	return []entities.Rank{h.First, h.Second}
}

var ErrInvalidHand = errors.New("starting hand must have exactly two cards")

// ParseStartingHand reads "A,7" style input
func ParseStartingHand(s string) (StartingHand, error) {
	ranks, err := entities.ParseRanks(s)
	if err != nil {
		return StartingHand{}, err
	}
	if len(ranks) != 2 {
		return StartingHand{}, fmt.Errorf("%w: %q", ErrInvalidHand, s)
	}
	return StartingHand{First: ranks[0], Second: ranks[1]}, nil
}

var twoToTen = []entities.Rank{
	entities.Two, entities.Three, entities.Four, entities.Five, entities.Six,
	entities.Seven, entities.Eight, entities.Nine, entities.Ten,
}

// CanonicalHands lists the chart rows in order: hard 5 through 12 as x,2,
// hard 13 through 19 as x,10, soft A,2 through A,9, then every pair.
func CanonicalHands() []StartingHand {
	var hands []StartingHand

	for _, r := range twoToTen[1:] {
		hands = append(hands, StartingHand{First: r, Second: entities.Two})
	}
	for _, r := range twoToTen[1:8] {
		hands = append(hands, StartingHand{First: r, Second: entities.Ten})
	}
	for _, r := range twoToTen[:8] {
		hands = append(hands, StartingHand{First: entities.Ace, Second: r})
	}
	for _, r := range twoToTen {
		hands = append(hands, StartingHand{First: r, Second: r})
	}
	hands = append(hands, StartingHand{First: entities.Ace, Second: entities.Ace})

	return hands
}

// CanonicalUpcards lists the dealer up-cards in chart column order
func CanonicalUpcards() []entities.Rank {
	upcards := make([]entities.Rank, 0, len(twoToTen)+1)
	upcards = append(upcards, twoToTen...)
	return append(upcards, entities.Ace)
}
