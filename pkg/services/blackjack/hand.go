package blackjack

import (
	"strings"

	"github.com/fadedpez/blackjackev/pkg/entities"
)

// Hand is an ordered set of cards. Hands are values: WithCard returns a new hand
// and never writes into the receiver's backing array.
type Hand struct {
	Cards []entities.Card
}

// NewHand creates a hand holding the given cards
func NewHand(cards ...entities.Card) Hand {
	h := Hand{Cards: make([]entities.Card, len(cards))}
	copy(h.Cards, cards)
	return h
}

// WithCard returns a copy of the hand with card appended
func (h Hand) WithCard(card entities.Card) Hand {
	cards := make([]entities.Card, len(h.Cards), len(h.Cards)+1)
	copy(cards, h.Cards)
	return Hand{Cards: append(cards, card)}
}

// Len returns the number of cards in the hand
func (h Hand) Len() int {
	return len(h.Cards)
}

// HardTotal counts every Ace as one
func (h Hand) HardTotal() int {
	total := 0
	for _, card := range h.Cards {
		if IsAce(card) {
			total++
		} else {
			total += GetCardValue(card)
		}
	}
	return total
}

// Value returns the best possible score for the hand
func (h Hand) Value() int {
	return GetBestScore(h.Cards)
}

// IsSoft reports whether an Ace is currently being counted as eleven
func (h Hand) IsSoft() bool {
	hard := h.HardTotal()
	return h.hasAce() && hard+10 <= 21
}

// IsBust reports whether the hand exceeds 21
func (h Hand) IsBust() bool {
	return IsBust(h.Cards)
}

// IsBlackjack reports whether the hand is two cards totalling 21
func (h Hand) IsBlackjack() bool {
	return IsBlackjack(h.Cards)
}

// CanSplit reports whether the hand is a pair of the same rank
func (h Hand) CanSplit() bool {
	return len(h.Cards) == 2 && h.Cards[0].Rank == h.Cards[1].Rank
}

func (h Hand) hasAce() bool {
	for _, card := range h.Cards {
		if IsAce(card) {
			return true
		}
	}
	return false
}

func (h Hand) String() string {
	ranks := make([]string, len(h.Cards))
	for i, card := range h.Cards {
		ranks[i] = string(card.Rank)
	}
	return strings.Join(ranks, ",")
}
