package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/fadedpez/blackjackev/internal/types"
	"github.com/fadedpez/blackjackev/pkg/report"
	"github.com/fadedpez/blackjackev/pkg/repositories/chart"
	"github.com/google/uuid"
)

// ChartsCmd groups the repository commands
type ChartsCmd struct {
	List    ChartsListCmd    `cmd:"" help:"List stored charts, newest first"`
	Show    ChartsShowCmd    `cmd:"" help:"Print a stored chart"`
	Export  ChartsExportCmd  `cmd:"" help:"Write a stored chart as CSV"`
	Import  ChartsImportCmd  `cmd:"" help:"Store a chart read from CSV"`
	Delete  ChartsDeleteCmd  `cmd:"" help:"Delete a stored chart"`
	History ChartsHistoryCmd `cmd:"" help:"Compare one chart cell across stored charts (needs Elasticsearch)"`
}

// withRepository opens the repository for the duration of fn
func withRepository(app *App, fn func(ctx context.Context, repo chart.Repository) error) error {
	ctx, stop := signalContext()
	defer stop()

	repo, err := app.OpenRepository(ctx)
	if err != nil {
		return err
	}
	defer repo.Close()

	return fn(ctx, repo)
}

type ChartsListCmd struct {
	Limit int `short:"n" help:"Maximum charts to list (0 = all)"`
}

func (c *ChartsListCmd) Run(app *App) error {
	return withRepository(app, func(ctx context.Context, repo chart.Repository) error {
		summaries, err := repo.ListCharts(ctx, c.Limit)
		if err != nil {
			return types.WrapError(types.ErrDatabaseError, "failed to list charts", err)
		}
		if len(summaries) == 0 {
			fmt.Fprintln(app.Out, "No charts stored")
			return nil
		}

		w := tabwriter.NewWriter(app.Out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tCREATED\tDECKS\tH17\tDAS\tSURRENDER\tENTRIES")
		for _, s := range summaries {
			fmt.Fprintf(w, "%s\t%s\t%d\t%t\t%t\t%s\t%d\n",
				s.ID, s.CreatedAt.Format("2006-01-02 15:04:05"), s.Rules.Decks,
				s.Rules.DealerHitsSoft17, s.Rules.DoubleAfterSplit, s.Rules.Surrender, s.EntryCount)
		}
		return w.Flush()
	})
}

type ChartsShowCmd struct {
	ID string `arg:"" help:"Chart id"`
}

func (c *ChartsShowCmd) Run(app *App) error {
	return withRepository(app, func(ctx context.Context, repo chart.Repository) error {
		stored, err := repo.GetChart(ctx, c.ID)
		if err != nil {
			return err
		}
		fmt.Fprintf(app.Out, "%s %s\n\n", headerStyle.Render("Chart"), handStyle.Render(stored.ID))
		return report.WriteCSV(app.Out, stored)
	})
}

type ChartsExportCmd struct {
	ID   string `arg:"" help:"Chart id"`
	File string `arg:"" help:"CSV file to write" type:"path"`
}

func (c *ChartsExportCmd) Run(app *App) error {
	return withRepository(app, func(ctx context.Context, repo chart.Repository) error {
		stored, err := repo.GetChart(ctx, c.ID)
		if err != nil {
			return err
		}

		f, err := os.Create(c.File)
		if err != nil {
			return fmt.Errorf("error creating %s: %w", c.File, err)
		}
		if err := report.WriteCSV(f, stored); err != nil {
			f.Close()
			return err
		}
		return f.Close()
	})
}

type ChartsImportCmd struct {
	File string `arg:"" help:"CSV file to read" type:"existingfile"`
}

func (c *ChartsImportCmd) Run(app *App) error {
	f, err := os.Open(c.File)
	if err != nil {
		return err
	}
	defer f.Close()

	imported, err := report.ReadCSV(f)
	if err != nil {
		return types.WrapError(types.ErrInvalidArgument, "failed to read chart", err)
	}
	imported.ID = uuid.New().String()
	imported.CreatedAt = time.Now()

	return withRepository(app, func(ctx context.Context, repo chart.Repository) error {
		if err := repo.SaveChart(ctx, imported); err != nil {
			return types.WrapError(types.ErrDatabaseError, "failed to save chart", err)
		}
		fmt.Fprintf(app.Out, "Imported %d entries as chart %s\n", len(imported.Entries), handStyle.Render(imported.ID))
		return nil
	})
}

type ChartsDeleteCmd struct {
	ID string `arg:"" help:"Chart id"`
}

func (c *ChartsDeleteCmd) Run(app *App) error {
	return withRepository(app, func(ctx context.Context, repo chart.Repository) error {
		if err := repo.DeleteChart(ctx, c.ID); err != nil {
			return err
		}
		fmt.Fprintf(app.Out, "Deleted chart %s\n", c.ID)
		return nil
	})
}

type ChartsHistoryCmd struct {
	Hand   string `arg:"" help:"Chart row, e.g. 16 or A,7"`
	Upcard string `arg:"" help:"Dealer up-card column, e.g. 10 or A"`
	Limit  int    `short:"n" default:"20" help:"Maximum entries"`
}

func (c *ChartsHistoryCmd) Run(app *App) error {
	return withRepository(app, func(ctx context.Context, repo chart.Repository) error {
		indexed, ok := repo.(*chart.ElasticsearchRepository)
		if !ok {
			return types.NewGameError(types.ErrInvalidArgument, "chart history needs ELASTICSEARCH_URL")
		}

		docs, err := indexed.EntryHistory(ctx, c.Hand, c.Upcard, c.Limit)
		if err != nil {
			return types.WrapError(types.ErrDatabaseError, "failed to search entries", err)
		}

		w := tabwriter.NewWriter(app.Out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "CHART\tCREATED\tDECKS\tH17\tDAS\tSURRENDER\tACTION\tEV")
		for _, d := range docs {
			fmt.Fprintf(w, "%s\t%s\t%d\t%t\t%t\t%s\t%s\t%s\n",
				d.ChartID, d.CreatedAt.Format("2006-01-02 15:04:05"), d.Decks,
				d.DealerHitsSoft17, d.DoubleAfterSplit, d.Surrender, d.Action, formatEV(d.EV))
		}
		return w.Flush()
	})
}
