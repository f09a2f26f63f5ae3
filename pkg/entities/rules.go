package entities

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

var ErrInvalidRules = errors.New("invalid rules")

// SurrenderType controls when a player may give up half the bet
type SurrenderType string

const (
	SurrenderNone  SurrenderType = "none"
	SurrenderLate  SurrenderType = "late"
	SurrenderEarly SurrenderType = "early"
)

func (s SurrenderType) String() string {
	switch s {
	case SurrenderLate:
		return "Late"
	case SurrenderEarly:
		return "Early"
	}
	return "None"
}

// ParseSurrender converts "none", "late" or "early" into a SurrenderType
func ParseSurrender(s string) (SurrenderType, error) {
	switch t := SurrenderType(strings.ToLower(strings.TrimSpace(s))); t {
	case SurrenderNone, SurrenderLate, SurrenderEarly:
		return t, nil
	}
	return "", fmt.Errorf("%w: surrender must be none, late or early, got %q", ErrInvalidRules, s)
}

const (
	MinDecks     = 1
	MaxDecks     = 8
	MaxSplitsCap = 3
)

// Rules is the table configuration an analysis runs under
type Rules struct {
	Decks            int           `json:"decks"`
	DealerHitsSoft17 bool          `json:"dealer_hits_soft_17"`
	DoubleAfterSplit bool          `json:"double_after_split"`
	Surrender        SurrenderType `json:"surrender"`
	BlackjackPayout  float64       `json:"blackjack_payout"`
	InsurancePayout  float64       `json:"insurance_payout"`
	CanSplitAces     bool          `json:"can_split_aces"`
	MaxSplits        int           `json:"max_splits"`
}

// DefaultRules returns a six deck H17 game with late surrender, DAS and 3:2 blackjacks
func DefaultRules() Rules {
	return Rules{
		Decks:            6,
		DealerHitsSoft17: true,
		DoubleAfterSplit: true,
		Surrender:        SurrenderLate,
		BlackjackPayout:  1.5,
		InsurancePayout:  2.0,
		CanSplitAces:     true,
		MaxSplits:        3,
	}
}

// Validate checks every field is within the supported range
func (r Rules) Validate() error {
	if r.Decks < MinDecks || r.Decks > MaxDecks {
		return fmt.Errorf("%w: decks must be between %d and %d, got %d", ErrInvalidRules, MinDecks, MaxDecks, r.Decks)
	}
	if r.MaxSplits < 0 || r.MaxSplits > MaxSplitsCap {
		return fmt.Errorf("%w: max splits must be between 0 and %d, got %d", ErrInvalidRules, MaxSplitsCap, r.MaxSplits)
	}
	if !validPayout(r.BlackjackPayout) {
		return fmt.Errorf("%w: blackjack payout must be at least 1.0, got %g", ErrInvalidRules, r.BlackjackPayout)
	}
	if !validPayout(r.InsurancePayout) {
		return fmt.Errorf("%w: insurance payout must be at least 1.0, got %g", ErrInvalidRules, r.InsurancePayout)
	}
	if _, err := ParseSurrender(string(r.Surrender)); err != nil {
		return err
	}
	return nil
}

// validPayout rejects NaN and infinities, which would otherwise compare past the minimum
func validPayout(p float64) bool {
	return p >= 1.0 && !math.IsInf(p, 0)
}
