package ev

import (
	"fmt"
	"sync/atomic"

	"github.com/fadedpez/blackjackev/internal/logging"
	"github.com/fadedpez/blackjackev/pkg/entities"
	"github.com/fadedpez/blackjackev/pkg/services/blackjack"
)

// Calculator evaluates states under one fixed set of rules. Results are
// memoized for the lifetime of the Calculator; call ClearMemos before
// reusing it for an unrelated analysis. A Calculator is safe for concurrent use.
type Calculator struct {
	rules  entities.Rules
	logger *logging.Logger
	memo   *memo
	draws  atomic.Uint64
}

// Option configures a Calculator
type Option func(*Calculator)

// WithLogger sets the logger used for diagnostics
func WithLogger(logger *logging.Logger) Option {
	return func(c *Calculator) {
		c.logger = logger
	}
}

// Stats describes the work a Calculator has done since it was created or cleared
type Stats struct {
	DrawProbabilityCalls uint64
	DealerEntries        int
	PlayerEntries        int
}

// New validates rules and returns a Calculator with empty caches
func New(rules entities.Rules, opts ...Option) (*Calculator, error) {
	if err := rules.Validate(); err != nil {
		return nil, err
	}

	c := &Calculator{
		rules:  rules,
		logger: logging.Default,
		memo:   newMemo(),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.logger.Debug("Calculator created: decks=%d h17=%t das=%t surrender=%s bj=%g",
		rules.Decks, rules.DealerHitsSoft17, rules.DoubleAfterSplit, rules.Surrender, rules.BlackjackPayout)
	return c, nil
}

// Rules returns the rules the Calculator was built with
func (c *Calculator) Rules() entities.Rules {
	return c.rules
}

// NewState builds a state from the Calculator's deck count
func (c *Calculator) NewState(playerRanks []entities.Rank, upcard entities.Rank, dealerChecked bool) (State, error) {
	return NewState(playerRanks, upcard, c.rules.Decks, dealerChecked)
}

// Payout settles a hand using the configured blackjack multiple
func (c *Calculator) Payout(playerScore, dealerScore int, playerBlackjack, dealerBlackjack, doubled bool) float64 {
	return blackjack.Payout(c.rules.BlackjackPayout, playerScore, dealerScore, playerBlackjack, dealerBlackjack, doubled)
}

// ClearMemos empties both caches and resets the statistics
func (c *Calculator) ClearMemos() {
	dealer, player := c.memo.size()
	c.memo.clear()
	c.draws.Store(0)
	c.logger.Debug("Cleared memos: dealer=%d player=%d", dealer, player)
}

func (c *Calculator) Stats() Stats {
	dealer, player := c.memo.size()
	return Stats{
		DrawProbabilityCalls: c.draws.Load(),
		DealerEntries:        dealer,
		PlayerEntries:        player,
	}
}

func (s Stats) String() string {
	return fmt.Sprintf("draws=%d dealer=%d player=%d", s.DrawProbabilityCalls, s.DealerEntries, s.PlayerEntries)
}
