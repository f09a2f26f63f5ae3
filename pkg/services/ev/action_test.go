package ev

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestActionString(t *testing.T) {
	assert.Equal(t, "None", ActionNone.String())
	assert.Equal(t, "Hit", ActionHit.String())
	assert.Equal(t, "Stand", ActionStand.String())
	assert.Equal(t, "Double", ActionDouble.String())
	assert.Equal(t, "Split", ActionSplit.String())
	assert.Equal(t, "Surrender", ActionSurrender.String())
}

func TestEVString(t *testing.T) {
	assert.Equal(t, "n/a", NotApplicable.String())
	assert.Equal(t, "-0.500000", Of(-0.5).String())
}

func TestDealerOutcomesString(t *testing.T) {
	var d DealerOutcomes
	d[DealerBust] = 1
	out := d.String()
	assert.Contains(t, out, "Bust: 1.000000")
	assert.Contains(t, out, "Blackjack: 0.000000")
	assert.Contains(t, out, "17: 0.000000")
}

func TestDealerOutcomesMap(t *testing.T) {
	var d DealerOutcomes
	d[Dealer20] = 0.25
	d[DealerBust] = 0.75
	m := d.Map()
	assert.Len(t, m, 7)
	assert.Equal(t, 0.25, m["20"])
	assert.Equal(t, 0.75, m["Bust"])
}
