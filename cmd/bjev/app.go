package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/fadedpez/blackjackev/internal/config"
	"github.com/fadedpez/blackjackev/internal/logging"
	"github.com/fadedpez/blackjackev/internal/types"
	"github.com/fadedpez/blackjackev/pkg/entities"
	"github.com/fadedpez/blackjackev/pkg/repositories/chart"
)

// App carries what every command needs once flags and config are read
type App struct {
	Config      *config.Config
	Logger      *logging.Logger
	Out         io.Writer
	ProfileFile string
	ProfileName string
}

// RuleFlags override individual rules. Unset flags keep the profile or environment value.
type RuleFlags struct {
	Decks           *int     `help:"Number of decks in the shoe (1-8)"`
	HitSoft17       *bool    `name:"hit-soft-17" help:"Dealer hits soft 17"`
	DAS             *bool    `name:"das" help:"Double after split allowed"`
	Surrender       string   `help:"Surrender type: none, late or early"`
	BlackjackPayout *float64 `help:"Blackjack payout multiple, 1.5 for 3:2"`
	InsurancePayout *float64 `help:"Insurance payout multiple"`
	SplitAces       *bool    `help:"Aces may be split"`
	MaxSplits       *int     `help:"Maximum number of splits (0-3)"`
}

// Rules resolves the rules for a command: environment, then profile, then flags
func (a *App) Rules(flags RuleFlags) (entities.Rules, error) {
	rules := a.Config.Rules

	if a.ProfileName != "" {
		profiles, err := config.LoadRuleProfiles(a.ProfileFile, rules)
		if err != nil {
			return rules, types.WrapError(types.ErrInvalidRules, "failed to load rule profiles", err)
		}
		p, ok := profiles[a.ProfileName]
		if !ok {
			return rules, types.NewGameError(types.ErrInvalidArgument, fmt.Sprintf("no profile %q in %s", a.ProfileName, a.ProfileFile))
		}
		rules = p
	}

	if flags.Decks != nil {
		rules.Decks = *flags.Decks
	}
	if flags.HitSoft17 != nil {
		rules.DealerHitsSoft17 = *flags.HitSoft17
	}
	if flags.DAS != nil {
		rules.DoubleAfterSplit = *flags.DAS
	}
	if flags.Surrender != "" {
		s, err := entities.ParseSurrender(flags.Surrender)
		if err != nil {
			return rules, err
		}
		rules.Surrender = s
	}
	if flags.BlackjackPayout != nil {
		rules.BlackjackPayout = *flags.BlackjackPayout
	}
	if flags.InsurancePayout != nil {
		rules.InsurancePayout = *flags.InsurancePayout
	}
	if flags.SplitAces != nil {
		rules.CanSplitAces = *flags.SplitAces
	}
	if flags.MaxSplits != nil {
		rules.MaxSplits = *flags.MaxSplits
	}

	return rules, rules.Validate()
}

// OpenRepository opens the configured chart store, indexed in Elasticsearch when configured
func (a *App) OpenRepository(ctx context.Context) (chart.Repository, error) {
	var base chart.Repository
	switch a.Config.StorageType {
	case config.StorageSQLite:
		repo, err := chart.NewSQLiteRepository(a.Config.DBPath, a.Logger)
		if err != nil {
			return nil, types.WrapError(types.ErrDatabaseError, "failed to open chart database", err)
		}
		base = repo
	case config.StorageFile:
		repo, err := chart.NewFileRepository(a.Config.ChartsFile)
		if err != nil {
			return nil, types.WrapError(types.ErrDatabaseError, "failed to open chart file", err)
		}
		base = repo
	default:
		a.Logger.Warn("Using in-memory chart storage; charts are lost when the process exits")
		base = chart.NewMemoryRepository()
	}

	if !a.Config.ElasticsearchEnabled() {
		return base, nil
	}

	esConfig := &chart.ElasticsearchConfig{
		URL:         a.Config.ElasticsearchURL,
		Username:    a.Config.ElasticsearchUsername,
		Password:    a.Config.ElasticsearchPassword,
		IndexPrefix: a.Config.ElasticsearchIndexPrefix,
	}
	repo, err := chart.NewElasticsearchRepository(ctx, base, esConfig, a.Logger)
	if err != nil {
		base.Close()
		return nil, types.WrapError(types.ErrDatabaseError, "failed to connect to Elasticsearch", err)
	}
	return repo, nil
}

// signalContext is cancelled on SIGINT or SIGTERM
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
