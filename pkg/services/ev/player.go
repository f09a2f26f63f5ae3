package ev

import (
	"github.com/fadedpez/blackjackev/pkg/entities"
	"github.com/fadedpez/blackjackev/pkg/services/blackjack"
)

const surrenderEV = -0.5

// OptimalStrategy evaluates every action for s and picks the best one.
// Stand is the baseline; another action only replaces it when strictly better,
// checked in the order hit, double, split, surrender.
func (c *Calculator) OptimalStrategy(s State) Result {
	if s.Player.IsBust() {
		lost := Of(-1)
		return Result{Hit: lost, Stand: lost, Double: lost, Split: lost, Surrender: lost, Optimal: ActionNone, OptimalEV: -1}
	}

	key := newPlayerKey(s)
	if r, ok := c.memo.getPlayer(key); ok {
		return r
	}

	r := Result{
		Stand:     Of(c.StandEV(s)),
		Hit:       c.HitEV(s),
		Double:    c.DoubleEV(s),
		Split:     c.SplitEV(s),
		Surrender: c.SurrenderEV(s),
	}
	r.Optimal, r.OptimalEV = ActionStand, r.Stand.Value

	for _, a := range []Action{ActionHit, ActionDouble, ActionSplit, ActionSurrender} {
		if e := r.EV(a); e.Available && e.Value > r.OptimalEV {
			r.Optimal, r.OptimalEV = a, e.Value
		}
	}

	c.memo.putPlayer(key, r)
	return r
}

// StandEV settles the player's current total against the dealer distribution
func (c *Calculator) StandEV(s State) float64 {
	if s.Player.IsBust() {
		return -1
	}

	dealer := c.DealerOutcomes(s)
	if s.Player.IsBlackjack() {
		return (1 - dealer[DealerBlackjack]) * c.rules.BlackjackPayout
	}

	score := s.Player.Value()
	ev := 0.0
	for i := Dealer17; i <= Dealer21; i++ {
		ev += dealer[i] * c.Payout(score, blackjack.DealerStandsOn+i, false, false, false)
	}
	ev += dealer[DealerBlackjack] * c.Payout(score, blackjack.BlackjackScore, false, true, false)
	ev += dealer[DealerBust] * c.Payout(score, blackjack.BustScore, false, false, false)
	return ev
}

// HitEV draws one card and continues with the best play from there
func (c *Calculator) HitEV(s State) EV {
	if s.Player.Value() >= blackjack.BlackjackScore {
		return NotApplicable
	}

	ev := 0.0
	for _, r := range entities.Ranks {
		p := c.DrawProbability(s, r, false)
		if p == 0 {
			continue
		}
		ev += p * c.OptimalStrategy(mustDeal(s.DealToPlayer(r))).OptimalEV
	}
	return Of(ev)
}

// DoubleEV doubles the bet, draws exactly one card and stands
func (c *Calculator) DoubleEV(s State) EV {
	if s.Player.Len() != 2 || s.Player.Value() == blackjack.BlackjackScore {
		return NotApplicable
	}
	if s.WasSplit && !c.rules.DoubleAfterSplit {
		return NotApplicable
	}

	ev := 0.0
	for _, r := range entities.Ranks {
		p := c.DrawProbability(s, r, false)
		if p == 0 {
			continue
		}
		ev += p * c.StandEV(mustDeal(s.DealToPlayer(r)))
	}
	return Of(2 * ev)
}

// SplitEV estimates a split as twice the value of one of the resulting hands.
// The two hands' draws are treated as independent.
func (c *Calculator) SplitEV(s State) EV {
	if !s.Player.CanSplit() || s.NumHands >= c.rules.MaxSplits+1 {
		return NotApplicable
	}
	first := s.Player.Cards[0]
	if first.Rank == entities.Ace && !c.rules.CanSplitAces {
		return NotApplicable
	}

	split := s.Split(first)
	ev := 0.0
	for _, r := range entities.Ranks {
		p := c.DrawProbability(split, r, false)
		if p == 0 {
			continue
		}
		ev += p * c.OptimalStrategy(mustDeal(split.DealToPlayer(r))).OptimalEV
	}
	return Of(2 * ev)
}

// SurrenderEV forfeits half the bet on the original two cards
func (c *Calculator) SurrenderEV(s State) EV {
	if c.rules.Surrender == entities.SurrenderNone || s.Player.Len() != 2 || s.WasSplit {
		return NotApplicable
	}

	if up := s.Upcard.Rank; up == entities.Ace || up.IsTenValue() {
		switch c.rules.Surrender {
		case entities.SurrenderLate:
			if !s.DealerChecked {
				return NotApplicable
			}
		case entities.SurrenderEarly:
			if s.DealerChecked {
				return NotApplicable
			}
		}
	}
	return Of(surrenderEV)
}

// InsuranceEV values the side bet that the hole card completes a dealer
// blackjack. It is only offered on an Ace before the dealer peeks.
func (c *Calculator) InsuranceEV(s State) EV {
	if s.Upcard.Rank != entities.Ace || s.DealerChecked {
		return NotApplicable
	}

	p := 0.0
	for _, r := range entities.Ranks {
		if r.IsTenValue() {
			p += c.DrawProbability(s, r, true)
		}
	}
	return Of(p*c.rules.InsurancePayout - (1 - p))
}
