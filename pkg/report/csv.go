package report

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fadedpez/blackjackev/pkg/entities"
)

var ErrMalformed = errors.New("malformed strategy csv")

const (
	rulesHeader  = "#Rules Used for Generation:"
	columnHeader = "Player Hand,Dealer Upcard,Optimal Action,Expected Value"

	decksLabel     = "Number of Decks"
	h17Label       = "Dealer Hits Soft 17"
	dasLabel       = "Can Double After Split"
	surrenderLabel = "Surrender Type"
	splitAcesLabel = "Can Split Aces"
	maxSplitsLabel = "Max Splits"
)

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

// WriteCSV writes the chart's rules as '#' comment lines followed by one row
// per entry. Hands are always quoted so "A,7" stays one field.
func WriteCSV(w io.Writer, chart *entities.StrategyChart) error {
	bw := bufio.NewWriter(w)
	r := chart.Rules

	fmt.Fprintln(bw, rulesHeader)
	fmt.Fprintf(bw, "#%s: %d\n", decksLabel, r.Decks)
	fmt.Fprintf(bw, "#%s: %s\n", h17Label, yesNo(r.DealerHitsSoft17))
	fmt.Fprintf(bw, "#%s: %s\n", dasLabel, yesNo(r.DoubleAfterSplit))
	fmt.Fprintf(bw, "#%s: %s\n", surrenderLabel, r.Surrender)
	fmt.Fprintf(bw, "#%s: %s\n", splitAcesLabel, yesNo(r.CanSplitAces))
	fmt.Fprintf(bw, "#%s: %d\n", maxSplitsLabel, r.MaxSplits)
	fmt.Fprintln(bw, columnHeader)

	for _, e := range chart.Entries {
		fmt.Fprintf(bw, "%q,%s,%s,%s\n", e.PlayerHand, e.DealerUpcard, e.Action, strconv.FormatFloat(e.EV, 'f', 6, 64))
	}

	return bw.Flush()
}

// ReadCSV parses a file produced by WriteCSV. Rules missing from the header
// keep their default values; payouts are not part of the format.
func ReadCSV(r io.Reader) (*entities.StrategyChart, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	chart := &entities.StrategyChart{Rules: entities.DefaultRules()}
	if err := parseRules(string(data), &chart.Rules); err != nil {
		return nil, err
	}

	reader := csv.NewReader(strings.NewReader(string(data)))
	reader.Comment = '#'
	reader.FieldsPerRecord = 4

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if len(records) == 0 || strings.Join(records[0], ",") != columnHeader {
		return nil, fmt.Errorf("%w: missing column header", ErrMalformed)
	}

	for i, rec := range records[1:] {
		value, err := strconv.ParseFloat(rec[3], 64)
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %v", ErrMalformed, i+1, err)
		}
		chart.Entries = append(chart.Entries, entities.StrategyEntry{
			PlayerHand:   rec[0],
			DealerUpcard: rec[1],
			Action:       rec[2],
			EV:           value,
		})
	}

	return chart, nil
}

func parseRules(text string, rules *entities.Rules) error {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(strings.TrimPrefix(line, "#"), ":")
		if !ok {
			continue
		}
		value = strings.TrimSpace(value)

		var err error
		switch strings.TrimSpace(key) {
		case decksLabel:
			rules.Decks, err = strconv.Atoi(value)
		case h17Label:
			rules.DealerHitsSoft17 = value == "Yes"
		case dasLabel:
			rules.DoubleAfterSplit = value == "Yes"
		case surrenderLabel:
			rules.Surrender, err = entities.ParseSurrender(value)
		case splitAcesLabel:
			rules.CanSplitAces = value == "Yes"
		case maxSplitsLabel:
			rules.MaxSplits, err = strconv.Atoi(value)
		}
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrMalformed, key, err)
		}
	}
	return nil
}
