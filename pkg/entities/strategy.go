package entities

import "time"

// StrategyEntry is the optimal play for one starting hand against one up-card
type StrategyEntry struct {
	PlayerHand   string  `json:"player_hand"`
	DealerUpcard string  `json:"dealer_upcard"`
	Action       string  `json:"action"`
	EV           float64 `json:"ev"`
}

// StrategyChart is a full strategy table generated under one set of rules
type StrategyChart struct {
	ID        string          `json:"id"`
	Rules     Rules           `json:"rules"`
	CreatedAt time.Time       `json:"created_at"`
	Duration  time.Duration   `json:"duration"`
	Entries   []StrategyEntry `json:"entries"`
}

// Lookup returns the entry for a hand label and up-card label
func (c *StrategyChart) Lookup(playerHand, dealerUpcard string) (StrategyEntry, bool) {
	for _, e := range c.Entries {
		if e.PlayerHand == playerHand && e.DealerUpcard == dealerUpcard {
			return e, true
		}
	}
	return StrategyEntry{}, false
}

// ChartSummary describes a stored chart without its entries
type ChartSummary struct {
	ID         string    `json:"id"`
	Rules      Rules     `json:"rules"`
	CreatedAt  time.Time `json:"created_at"`
	EntryCount int       `json:"entry_count"`
}
