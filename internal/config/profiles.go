package config

import (
	"fmt"

	"github.com/fadedpez/blackjackev/pkg/entities"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// ProfileFile is the layout of a rule profile file:
//
//	profile "downtown" {
//	  decks       = 2
//	  hit_soft_17 = true
//	  surrender   = "none"
//	}
type ProfileFile struct {
	Profiles []Profile `hcl:"profile,block"`
}

// Profile overrides some or all of the base rules. Unset attributes keep the base value.
type Profile struct {
	Name             string   `hcl:"name,label"`
	Decks            *int     `hcl:"decks,optional"`
	HitSoft17        *bool    `hcl:"hit_soft_17,optional"`
	DoubleAfterSplit *bool    `hcl:"double_after_split,optional"`
	Surrender        *string  `hcl:"surrender,optional"`
	BlackjackPayout  *float64 `hcl:"blackjack_payout,optional"`
	InsurancePayout  *float64 `hcl:"insurance_payout,optional"`
	SplitAces        *bool    `hcl:"split_aces,optional"`
	MaxSplits        *int     `hcl:"max_splits,optional"`
}

// Apply returns base with the profile's overrides
func (p Profile) Apply(base entities.Rules) (entities.Rules, error) {
	rules := base
	if p.Decks != nil {
		rules.Decks = *p.Decks
	}
	if p.HitSoft17 != nil {
		rules.DealerHitsSoft17 = *p.HitSoft17
	}
	if p.DoubleAfterSplit != nil {
		rules.DoubleAfterSplit = *p.DoubleAfterSplit
	}
	if p.Surrender != nil {
		s, err := entities.ParseSurrender(*p.Surrender)
		if err != nil {
			return base, err
		}
		rules.Surrender = s
	}
	if p.BlackjackPayout != nil {
		rules.BlackjackPayout = *p.BlackjackPayout
	}
	if p.InsurancePayout != nil {
		rules.InsurancePayout = *p.InsurancePayout
	}
	if p.SplitAces != nil {
		rules.CanSplitAces = *p.SplitAces
	}
	if p.MaxSplits != nil {
		rules.MaxSplits = *p.MaxSplits
	}
	return rules, rules.Validate()
}

// LoadRuleProfiles reads named rule sets from an HCL file, each layered over base
func LoadRuleProfiles(filename string, base entities.Rules) (map[string]entities.Rules, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var pf ProfileFile
	diags = gohcl.DecodeBody(file.Body, nil, &pf)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	profiles := make(map[string]entities.Rules, len(pf.Profiles))
	for _, p := range pf.Profiles {
		if _, dup := profiles[p.Name]; dup {
			return nil, fmt.Errorf("profile %q defined more than once", p.Name)
		}
		rules, err := p.Apply(base)
		if err != nil {
			return nil, fmt.Errorf("profile %q: %w", p.Name, err)
		}
		profiles[p.Name] = rules
	}

	return profiles, nil
}
