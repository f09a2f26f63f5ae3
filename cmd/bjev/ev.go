package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/fadedpez/blackjackev/pkg/entities"
	"github.com/fadedpez/blackjackev/pkg/services/ev"
)

// EVCmd evaluates one hand against one up-card
type EVCmd struct {
	Player        string `required:"" help:"Player cards, e.g. 10,6 or A,7"`
	Upcard        string `required:"" help:"Dealer up-card, e.g. T or A"`
	DealerChecked bool   `help:"The dealer has peeked and does not have blackjack"`

	RuleFlags `embed:""`
}

var evActions = []ev.Action{ev.ActionHit, ev.ActionStand, ev.ActionDouble, ev.ActionSplit, ev.ActionSurrender}

func (c *EVCmd) Run(app *App) error {
	rules, err := app.Rules(c.RuleFlags)
	if err != nil {
		return err
	}
	player, err := entities.ParseRanks(c.Player)
	if err != nil {
		return err
	}
	upcard, err := entities.ParseRank(c.Upcard)
	if err != nil {
		return err
	}

	calc, err := ev.New(rules, ev.WithLogger(app.Logger))
	if err != nil {
		return err
	}
	state, err := calc.NewState(player, upcard, c.DealerChecked)
	if err != nil {
		return err
	}

	result := calc.OptimalStrategy(state)
	insurance := calc.InsuranceEV(state)
	app.Logger.Debug("Evaluated %s vs %s: %s", state.Player, upcard, calc.Stats())

	fmt.Fprintf(app.Out, "%s %s vs %s\n\n",
		headerStyle.Render("Hand"), handStyle.Render(state.Player.String()), handStyle.Render(string(upcard)))

	w := tabwriter.NewWriter(app.Out, 0, 0, 2, ' ', 0)
	for _, a := range evActions {
		fmt.Fprintf(w, "%s\t%s\n", labelStyle.Render(a.String()), renderEV(result.EV(a), a == result.Optimal))
	}
	fmt.Fprintf(w, "%s\t%s\n", labelStyle.Render("Insurance"), renderEV(insurance, false))
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(app.Out, "\n%s %s (%s)\n",
		headerStyle.Render("Optimal:"), bestStyle.Render(result.Optimal.String()), formatEV(result.OptimalEV))
	return nil
}

func formatEV(v float64) string {
	return fmt.Sprintf("%+.6f", v)
}

func renderEV(e ev.EV, best bool) string {
	switch {
	case !e.Available:
		return unavailableStyle.Render(e.String())
	case best:
		return bestStyle.Render(formatEV(e.Value))
	}
	return formatEV(e.Value)
}

// DealerCmd prints the dealer outcome distribution for an up-card
type DealerCmd struct {
	Upcard        string `required:"" help:"Dealer up-card"`
	Player        string `help:"Player cards to remove from the shoe first"`
	DealerChecked bool   `help:"The dealer has peeked and does not have blackjack"`

	RuleFlags `embed:""`
}

func (c *DealerCmd) Run(app *App) error {
	rules, err := app.Rules(c.RuleFlags)
	if err != nil {
		return err
	}
	upcard, err := entities.ParseRank(c.Upcard)
	if err != nil {
		return err
	}
	var player []entities.Rank
	if c.Player != "" {
		if player, err = entities.ParseRanks(c.Player); err != nil {
			return err
		}
	}

	calc, err := ev.New(rules, ev.WithLogger(app.Logger))
	if err != nil {
		return err
	}
	state, err := ev.NewDealerState(upcard, rules.Decks, c.DealerChecked, player...)
	if err != nil {
		return err
	}

	outcomes := calc.DealerOutcomes(state)
	fmt.Fprintf(app.Out, "%s %s\n\n", headerStyle.Render("Dealer showing"), handStyle.Render(string(upcard)))
	fmt.Fprint(app.Out, outcomes.String())
	return nil
}
