package ev

import (
	"fmt"
	"strings"

	"github.com/fadedpez/blackjackev/pkg/entities"
	"github.com/fadedpez/blackjackev/pkg/services/blackjack"
)

// Indexes into DealerOutcomes
const (
	Dealer17 = iota
	Dealer18
	Dealer19
	Dealer20
	Dealer21
	DealerBlackjack
	DealerBust
	numOutcomes
)

var outcomeLabels = [numOutcomes]string{"17", "18", "19", "20", "21", "Blackjack", "Bust"}

// DealerOutcomes is the probability of each final dealer result
type DealerOutcomes [numOutcomes]float64

// Sum returns the total probability mass
func (d DealerOutcomes) Sum() float64 {
	total := 0.0
	for _, p := range d {
		total += p
	}
	return total
}

// Map returns the outcomes keyed by label
func (d DealerOutcomes) Map() map[string]float64 {
	m := make(map[string]float64, numOutcomes)
	for i, p := range d {
		m[outcomeLabels[i]] = p
	}
	return m
}

func (d DealerOutcomes) String() string {
	var b strings.Builder
	for i, p := range d {
		fmt.Fprintf(&b, "%s: %.6f\n", outcomeLabels[i], p)
	}
	return b.String()
}

// DealerOutcomes computes the distribution of the dealer's final hand from s
// by enumerating every card sequence the dealer can draw.
func (c *Calculator) DealerOutcomes(s State) DealerOutcomes {
	key := newDealerKey(s)
	if out, ok := c.memo.getDealer(key); ok {
		return out
	}

	var out DealerOutcomes
	if bucket, done := c.dealerFinished(s.Dealer); done {
		out[bucket] = 1
	} else {
		for _, r := range entities.Ranks {
			p := c.DrawProbability(s, r, true)
			if p == 0 {
				continue
			}
			sub := c.DealerOutcomes(mustDeal(s.DealToDealer(r)))
			for i := range out {
				out[i] += p * sub[i]
			}
		}
	}

	c.memo.putDealer(key, out)
	return out
}

// dealerFinished reports whether the dealer stops drawing and where the hand lands
func (c *Calculator) dealerFinished(h blackjack.Hand) (int, bool) {
	v := h.Value()
	switch {
	case v > blackjack.BlackjackScore:
		return DealerBust, true
	case v == blackjack.DealerStandsOn:
		if h.IsSoft() && c.rules.DealerHitsSoft17 {
			return 0, false
		}
		return Dealer17, true
	case v == blackjack.BlackjackScore && h.Len() == 2:
		return DealerBlackjack, true
	case v > blackjack.DealerStandsOn:
		return Dealer17 + v - blackjack.DealerStandsOn, true
	}
	return 0, false
}
