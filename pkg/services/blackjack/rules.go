package blackjack

import (
	"github.com/fadedpez/blackjackev/pkg/entities"
)

const (
	BlackjackScore = 21
	DealerStandsOn = 17
	BustScore      = 22 // any score above 21 is settled as a bust
)

func GetCardValue(card entities.Card) int {
	return card.Rank.Value()
}

func IsAce(card entities.Card) bool {
	return card.Rank == entities.Ace
}

func GetBestScore(cards []entities.Card) int {
	score := 0
	aces := 0

	// First count non-aces

	for _, card := range cards {
		if IsAce(card) {
			aces++
		} else {
			score += GetCardValue(card)
		}
	}

	// Then handle aces. At most one can be worth 11.

	for i := 0; i < aces; i++ {
		if i == aces-1 && score+11 <= 21 {
			score += 11
		} else {
			score += 1
		}
	}

	return score
}

func IsBlackjack(cards []entities.Card) bool {
	return len(cards) == 2 && GetBestScore(cards) == BlackjackScore
}

// IsBust checks if a hand exceeds 21
func IsBust(cards []entities.Card) bool {
	return GetBestScore(cards) > BlackjackScore
}

// Payout returns the result of a settled hand in units of the original bet.
// Bust precedence is the caller's concern: a player bust always loses, so callers
// pass dealer scores above 21 only for hands the player has not busted.
func Payout(blackjackPayout float64, playerScore, dealerScore int, playerBlackjack, dealerBlackjack, doubled bool) float64 {
	var base float64

	switch {
	case playerScore > BlackjackScore:
		base = -1
	case dealerScore > BlackjackScore:
		base = 1
	case playerBlackjack && dealerBlackjack:
		base = 0
	case playerBlackjack:
		base = blackjackPayout
	case dealerBlackjack:
		base = -1
	case playerScore < dealerScore:
		base = -1
	case playerScore > dealerScore:
		base = 1
	}

	if doubled {
		base *= 2
	}
	return base
}
