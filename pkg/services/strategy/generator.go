package strategy

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/coder/quartz"
	"github.com/fadedpez/blackjackev/internal/logging"
	"github.com/fadedpez/blackjackev/pkg/entities"
	"github.com/fadedpez/blackjackev/pkg/repositories/chart"
	"github.com/fadedpez/blackjackev/pkg/services/ev"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Progress reports how far a generation run has got
type Progress struct {
	Done  int    `json:"done"`
	Total int    `json:"total"`
	Hand  string `json:"hand"`
	Up    string `json:"upcard"`
}

// ProgressFunc receives progress updates. Calls are serialized.
type ProgressFunc func(Progress)

// Generator builds strategy charts by evaluating every starting hand
// against every up-card after the dealer has peeked.
type Generator struct {
	workers int
	clock   quartz.Clock
	logger  *logging.Logger
	repo    chart.Repository
	hands   []StartingHand
	upcards []entities.Rank
	newID   func() string
}

// Option configures a Generator
type Option func(*Generator)

// WithWorkers sets the number of concurrent evaluations
func WithWorkers(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.workers = n
		}
	}
}

// WithClock sets the clock used to stamp and time charts
func WithClock(clock quartz.Clock) Option {
	return func(g *Generator) {
		g.clock = clock
	}
}

// WithLogger sets the logger
func WithLogger(logger *logging.Logger) Option {
	return func(g *Generator) {
		g.logger = logger
	}
}

// WithRepository saves every generated chart
func WithRepository(repo chart.Repository) Option {
	return func(g *Generator) {
		g.repo = repo
	}
}

// WithHands restricts the chart to the given rows and columns
func WithHands(hands []StartingHand, upcards []entities.Rank) Option {
	return func(g *Generator) {
		g.hands = hands
		g.upcards = upcards
	}
}

// NewGenerator creates a generator covering the canonical chart
func NewGenerator(opts ...Option) *Generator {
	g := &Generator{
		workers: runtime.NumCPU(),
		clock:   quartz.NewReal(),
		logger:  logging.Default,
		hands:   CanonicalHands(),
		upcards: CanonicalUpcards(),
		newID:   func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

type job struct {
	index  int
	hand   StartingHand
	upcard entities.Rank
}

// Generate evaluates every hand and up-card pair under rules. Each worker owns
// its own Calculator so memo tables are never shared. Generation stops at the
// next hand when ctx is cancelled.
func (g *Generator) Generate(ctx context.Context, rules entities.Rules, progress ProgressFunc) (*entities.StrategyChart, error) {
	if err := rules.Validate(); err != nil {
		return nil, err
	}

	start := g.clock.Now()
	total := len(g.hands) * len(g.upcards)
	entries := make([]entities.StrategyEntry, total)

	g.logger.Info("Generating strategy chart: %d hands, %d workers", total, g.workers)

	var (
		mu   sync.Mutex
		done int
	)
	report := func(j job) {
		mu.Lock()
		defer mu.Unlock()
		done++
		if progress != nil {
			progress(Progress{Done: done, Total: total, Hand: j.hand.Label(), Up: string(j.upcard)})
		}
	}

	eg, gctx := errgroup.WithContext(ctx)
	jobs := make(chan job)

	eg.Go(func() error {
		defer close(jobs)
		i := 0
		for _, hand := range g.hands {
			for _, up := range g.upcards {
				select {
				case jobs <- job{index: i, hand: hand, upcard: up}:
				case <-gctx.Done():
					return gctx.Err()
				}
				i++
			}
		}
		return nil
	})

	for w := 0; w < g.workers; w++ {
		eg.Go(func() error {
			calc, err := ev.New(rules, ev.WithLogger(g.logger))
			if err != nil {
				return err
			}

			for j := range jobs {
				if err := gctx.Err(); err != nil {
					return err
				}

				state, err := ev.NewState(j.hand.Ranks(), j.upcard, rules.Decks, true)
				if err != nil {
					return fmt.Errorf("building state for %s vs %s: %w", j.hand.Cards(), j.upcard, err)
				}

				result := calc.OptimalStrategy(state)
				entries[j.index] = entities.StrategyEntry{
					PlayerHand:   j.hand.Label(),
					DealerUpcard: string(j.upcard),
					Action:       result.Optimal.String(),
					EV:           result.OptimalEV,
				}
				report(j)
			}

			g.logger.Debug("Worker finished: %s", calc.Stats())
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	out := &entities.StrategyChart{
		ID:        g.newID(),
		Rules:     rules,
		CreatedAt: start,
		Duration:  g.clock.Since(start),
		Entries:   entries,
	}

	if g.repo != nil {
		if err := g.repo.SaveChart(ctx, out); err != nil {
			return nil, fmt.Errorf("error saving chart: %w", err)
		}
	}

	g.logger.Info("Generated chart %s in %s", out.ID, out.Duration)
	return out, nil
}
