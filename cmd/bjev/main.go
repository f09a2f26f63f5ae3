package main

import (
	"os"

	"github.com/alecthomas/kong"
	"github.com/fadedpez/blackjackev/internal/api"
	"github.com/fadedpez/blackjackev/internal/config"
	"github.com/fadedpez/blackjackev/internal/logging"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	Version  kong.VersionFlag `short:"v" help:"Show version"`
	LogLevel string           `help:"Log level (debug, info, warn, error); overrides LOG_LEVEL"`
	Profiles string           `help:"HCL file of named rule profiles" default:"rules.hcl" type:"path"`
	Profile  string           `short:"p" help:"Rule profile to start from instead of the environment rules"`

	EV       EVCmd       `cmd:"ev" help:"Show the EV of every action for one hand"`
	Dealer   DealerCmd   `cmd:"" help:"Show the dealer's final hand distribution"`
	Strategy StrategyCmd `cmd:"" help:"Generate a basic strategy chart"`
	Charts   ChartsCmd   `cmd:"" help:"Manage stored strategy charts"`
	Migrate  MigrateCmd  `cmd:"" help:"Manage the SQLite schema"`
	Serve    ServeCmd    `cmd:"" help:"Serve the HTTP API"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("bjev"),
		kong.Description("Exact expected values for blackjack decisions"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)

	cfg, err := config.Load()
	if err != nil {
		logging.Default.Error("Failed to load config: %v", err)
		os.Exit(1)
	}

	level := cfg.LogLevel
	if cli.LogLevel != "" {
		if level, err = logging.ParseLevel(cli.LogLevel); err != nil {
			ctx.FatalIfErrorf(err)
		}
	}
	logger := logging.NewLogger(level)

	app := &App{
		Config:      cfg,
		Logger:      logger,
		Out:         os.Stdout,
		ProfileFile: cli.Profiles,
		ProfileName: cli.Profile,
	}

	if err := ctx.Run(app); err != nil {
		logger.LogError(api.Classify(err))
		os.Exit(1)
	}
}
