package blackjack

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPayout(t *testing.T) {
	testCases := []struct {
		name           string
		player, dealer int
		playerBJ       bool
		dealerBJ       bool
		doubled        bool
		expected       float64
	}{
		{name: "player bust", player: 22, dealer: 20, expected: -1},
		{name: "player bust beats dealer bust", player: 23, dealer: 22, expected: -1},
		{name: "dealer bust", player: 12, dealer: 22, expected: 1},
		{name: "double blackjack push", player: 21, dealer: 21, playerBJ: true, dealerBJ: true, expected: 0},
		{name: "player blackjack", player: 21, dealer: 21, playerBJ: true, expected: 1.5},
		{name: "dealer blackjack", player: 21, dealer: 21, dealerBJ: true, expected: -1},
		{name: "player lower", player: 18, dealer: 19, expected: -1},
		{name: "push", player: 19, dealer: 19, expected: 0},
		{name: "player higher", player: 20, dealer: 17, expected: 1},
		{name: "doubled loss", player: 20, dealer: 21, doubled: true, expected: -2},
		{name: "doubled win", player: 11, dealer: 22, doubled: true, expected: 2},
		{name: "doubled push", player: 18, dealer: 18, doubled: true, expected: 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := Payout(1.5, tc.player, tc.dealer, tc.playerBJ, tc.dealerBJ, tc.doubled)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestPayoutUsesConfiguredBlackjackMultiple(t *testing.T) {
	assert.Equal(t, 1.2, Payout(1.2, 21, 20, true, false, false), "6:5 tables")
}
