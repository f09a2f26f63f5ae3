package strategy

import (
	"testing"

	"github.com/fadedpez/blackjackev/pkg/entities"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalHands(t *testing.T) {
	hands := CanonicalHands()
	require.Len(t, hands, 33)

	labels := make([]string, len(hands))
	for i, h := range hands {
		labels[i] = h.Label()
	}

	assert.Equal(t, "5", labels[0], "3,2")
	assert.Equal(t, "12", labels[7], "10,2")
	assert.Equal(t, "13", labels[8], "3,10")
	assert.Equal(t, "19", labels[14], "9,10")
	assert.Equal(t, "A,2", labels[15])
	assert.Equal(t, "A,9", labels[22])
	assert.Equal(t, "2,2", labels[23])
	assert.Equal(t, "10,10", labels[31])
	assert.Equal(t, "A,A", labels[32])
}

func TestCanonicalUpcards(t *testing.T) {
	upcards := CanonicalUpcards()
	require.Len(t, upcards, 10)
	assert.Equal(t, entities.Two, upcards[0])
	assert.Equal(t, entities.Ten, upcards[8])
	assert.Equal(t, entities.Ace, upcards[9])
}

func TestParseStartingHand(t *testing.T) {
	h, err := ParseStartingHand("a, 7")
	require.NoError(t, err)
	assert.Equal(t, StartingHand{First: entities.Ace, Second: entities.Seven}, h)
	assert.Equal(t, "A,7", h.Cards())
	assert.Equal(t, "A,7", h.Label())

	h, err = ParseStartingHand("T,6")
	require.NoError(t, err)
	assert.Equal(t, "16", h.Label())

	_, err = ParseStartingHand("10,6,2")
	assert.ErrorIs(t, err, ErrInvalidHand)

	_, err = ParseStartingHand("10,X")
	assert.ErrorIs(t, err, entities.ErrInvalidRank)
}
