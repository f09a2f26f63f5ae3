package main

import (
	"github.com/fadedpez/blackjackev/internal/api"
	"github.com/fadedpez/blackjackev/pkg/services/strategy"
)

// ServeCmd runs the HTTP API until interrupted
type ServeCmd struct {
	Addr string `help:"Listen address; overrides HTTP_ADDR"`

	RuleFlags `embed:""`
}

func (c *ServeCmd) Run(app *App) error {
	rules, err := app.Rules(c.RuleFlags)
	if err != nil {
		return err
	}

	addr := app.Config.ListenAddr
	if c.Addr != "" {
		addr = c.Addr
	}

	ctx, stop := signalContext()
	defer stop()

	repo, err := app.OpenRepository(ctx)
	if err != nil {
		return err
	}
	defer repo.Close()

	server := api.NewServer(api.Options{
		Rules:      rules,
		Repository: repo,
		Generator: strategy.NewGenerator(
			strategy.WithRepository(repo),
			strategy.WithWorkers(app.Config.Workers),
			strategy.WithLogger(app.Logger),
		),
		AllowedOrigins: app.Config.AllowedOrigins,
		Logger:         app.Logger,
	})

	return server.ListenAndServe(ctx, addr)
}
