package ev

import (
	"fmt"

	"github.com/fadedpez/blackjackev/pkg/entities"
)

// DrawProbability returns the chance that the next card out of the shoe has rank r.
//
// When forDealer is set and the dealer has already peeked, the hole card is known
// not to complete a blackjack: a ten-valued up-card rules out Aces and an Ace
// up-card rules out the ten group. Player draws are never conditioned.
func (c *Calculator) DrawProbability(s State, r entities.Rank, forDealer bool) float64 {
	c.draws.Add(1)

	count, ok := s.Shoe.Count(r)
	if !ok {
		panic(fmt.Sprintf("ev: draw probability requested for unknown rank %q", r))
	}

	total := s.Shoe.Total()
	if total <= 0 || count <= 0 {
		return 0
	}

	if forDealer && s.DealerChecked {
		switch {
		case s.Upcard.Rank.IsTenValue():
			if r == entities.Ace {
				return 0
			}
			aces, _ := s.Shoe.Count(entities.Ace)
			total -= aces
		case s.Upcard.Rank == entities.Ace:
			if r.IsTenValue() {
				return 0
			}
			total -= s.Shoe.TenCount()
		}
		if total <= 0 {
			return 0
		}
	}

	return float64(count) / float64(total)
}
