package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fadedpez/blackjackev/pkg/entities"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleChart() *entities.StrategyChart {
	rules := entities.DefaultRules()
	rules.Decks = 2
	rules.DealerHitsSoft17 = false
	rules.Surrender = entities.SurrenderNone
	rules.MaxSplits = 1

	return &entities.StrategyChart{
		Rules: rules,
		Entries: []entities.StrategyEntry{
			{PlayerHand: "11", DealerUpcard: "6", Action: "Double", EV: 0.667421},
			{PlayerHand: "A,7", DealerUpcard: "A", Action: "Hit", EV: -0.1},
		},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleChart()))

	expected := `#Rules Used for Generation:
#Number of Decks: 2
#Dealer Hits Soft 17: No
#Can Double After Split: Yes
#Surrender Type: None
#Can Split Aces: Yes
#Max Splits: 1
Player Hand,Dealer Upcard,Optimal Action,Expected Value
"11",6,Double,0.667421
"A,7",A,Hit,-0.100000
`
	assert.Equal(t, expected, buf.String())
}

func TestReadCSVRestoresWrittenChart(t *testing.T) {
	chart := sampleChart()

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, chart))

	got, err := ReadCSV(&buf)
	require.NoError(t, err)
	assert.Equal(t, chart.Rules, got.Rules)
	assert.Equal(t, chart.Entries, got.Entries)
}

func TestReadCSVErrors(t *testing.T) {
	testCases := []struct {
		name  string
		input string
	}{
		{name: "empty", input: ""},
		{name: "wrong header", input: "Hand,Up,Action,EV\n\"11\",6,Double,0.5\n"},
		{name: "short row", input: columnHeader + "\n\"11\",6,Double\n"},
		{name: "bad ev", input: columnHeader + "\n\"11\",6,Double,lots\n"},
		{name: "bad decks", input: "#Number of Decks: many\n" + columnHeader + "\n"},
		{name: "bad surrender", input: "#Surrender Type: Sometimes\n" + columnHeader + "\n"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ReadCSV(strings.NewReader(tc.input))
			assert.ErrorIs(t, err, ErrMalformed)
		})
	}
}
