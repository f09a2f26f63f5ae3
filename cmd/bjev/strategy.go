package main

import (
	"fmt"
	"os"

	"github.com/fadedpez/blackjackev/pkg/entities"
	"github.com/fadedpez/blackjackev/pkg/report"
	"github.com/fadedpez/blackjackev/pkg/services/strategy"
)

// StrategyCmd generates a chart and writes it as CSV
type StrategyCmd struct {
	Output  string   `short:"o" default:"strategy.csv" help:"CSV file to write, - for stdout"`
	Workers int      `short:"w" help:"Concurrent evaluations; overrides WORKERS"`
	Save    bool     `help:"Store the chart in the repository"`
	Hands   []string `sep:"none" help:"Only these starting hands, e.g. --hands 10,6 --hands A,7"`
	Upcards []string `sep:"none" help:"Only these dealer up-cards"`

	RuleFlags `embed:""`
}

func (c *StrategyCmd) Run(app *App) error {
	rules, err := app.Rules(c.RuleFlags)
	if err != nil {
		return err
	}

	workers := app.Config.Workers
	if c.Workers > 0 {
		workers = c.Workers
	}
	opts := []strategy.Option{
		strategy.WithWorkers(workers),
		strategy.WithLogger(app.Logger),
	}

	if len(c.Hands) > 0 || len(c.Upcards) > 0 {
		hands, upcards, err := c.selection()
		if err != nil {
			return err
		}
		opts = append(opts, strategy.WithHands(hands, upcards))
	}

	ctx, stop := signalContext()
	defer stop()

	if c.Save {
		repo, err := app.OpenRepository(ctx)
		if err != nil {
			return err
		}
		defer repo.Close()
		opts = append(opts, strategy.WithRepository(repo))
	}

	step := 0
	generated, err := strategy.NewGenerator(opts...).Generate(ctx, rules, func(p strategy.Progress) {
		// Roughly every tenth of the way
		if p.Done*10/p.Total > step || p.Done == p.Total {
			step = p.Done * 10 / p.Total
			app.Logger.Info("Progress %d/%d (last %s vs %s)", p.Done, p.Total, p.Hand, p.Up)
		}
	})
	if err != nil {
		return err
	}

	if err := c.write(app, generated); err != nil {
		return err
	}
	if c.Save {
		fmt.Fprintf(app.Out, "Saved chart %s\n", handStyle.Render(generated.ID))
	}
	return nil
}

// selection turns --hands and --upcards into generator rows and columns,
// defaulting whichever is missing to the full chart
func (c *StrategyCmd) selection() ([]strategy.StartingHand, []entities.Rank, error) {
	hands := strategy.CanonicalHands()
	if len(c.Hands) > 0 {
		hands = hands[:0:0]
		for _, s := range c.Hands {
			h, err := strategy.ParseStartingHand(s)
			if err != nil {
				return nil, nil, err
			}
			hands = append(hands, h)
		}
	}

	upcards := strategy.CanonicalUpcards()
	if len(c.Upcards) > 0 {
		upcards = upcards[:0:0]
		for _, s := range c.Upcards {
			r, err := entities.ParseRank(s)
			if err != nil {
				return nil, nil, err
			}
			upcards = append(upcards, r)
		}
	}
	return hands, upcards, nil
}

func (c *StrategyCmd) write(app *App, generated *entities.StrategyChart) error {
	if c.Output == "-" {
		return report.WriteCSV(app.Out, generated)
	}

	f, err := os.Create(c.Output)
	if err != nil {
		return fmt.Errorf("error creating %s: %w", c.Output, err)
	}
	if err := report.WriteCSV(f, generated); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	fmt.Fprintf(app.Out, "Wrote %d entries to %s in %s\n", len(generated.Entries), c.Output, generated.Duration)
	return nil
}
