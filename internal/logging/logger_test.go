package logging

import (
	"bytes"
	"errors"
	"testing"

	"github.com/fadedpez/blackjackev/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	for input, expected := range map[string]Level{
		"debug":   DEBUG,
		"INFO":    INFO,
		"warn":    WARN,
		"warning": WARN,
		"Error":   ERROR,
	} {
		level, err := ParseLevel(input)
		require.NoError(t, err, input)
		assert.Equal(t, expected, level, input)
	}

	_, err := ParseLevel("loud")
	assert.Error(t, err)
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, WARN)

	logger.Info("hidden %d", 1)
	assert.Empty(t, buf.String())

	logger.Warn("shown %d", 2)
	assert.Contains(t, buf.String(), "shown 2")
}

func TestLogError(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, INFO)

	logger.LogError(types.WrapError(types.ErrInvalidComposition, "bad hand", errors.New("five aces")))
	out := buf.String()
	assert.Contains(t, out, "bad hand")
	assert.Contains(t, out, "INVALID_COMPOSITION")
	assert.Contains(t, out, "five aces")

	buf.Reset()
	logger.LogError(errors.New("plain"))
	assert.Contains(t, buf.String(), "Unexpected error: plain")
}

func TestWith(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, INFO).With("worker", 3)

	logger.Info("started")
	assert.Contains(t, buf.String(), "worker=3")
}
