package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fadedpez/blackjackev/internal/logging"
	"github.com/fadedpez/blackjackev/pkg/entities"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, entities.DefaultRules(), cfg.Rules)
	assert.Equal(t, StorageMemory, cfg.StorageType)
	assert.Equal(t, filepath.Join(cfg.DataDir, "charts.db"), cfg.DBPath)
	assert.Equal(t, filepath.Join(cfg.DataDir, "charts.json"), cfg.ChartsFile)
	assert.Equal(t, logging.INFO, cfg.LogLevel)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
	assert.False(t, cfg.ElasticsearchEnabled())
	assert.GreaterOrEqual(t, cfg.Workers, 1)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("BJ_DECKS", "2")
	t.Setenv("BJ_HIT_SOFT_17", "false")
	t.Setenv("BJ_SURRENDER", "early")
	t.Setenv("BJ_BLACKJACK_PAYOUT", "1.2")
	t.Setenv("BJ_MAX_SPLITS", "1")
	t.Setenv("STORAGE_TYPE", "SQLite")
	t.Setenv("DB_PATH", "/tmp/x.db")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("WORKERS", "3")
	t.Setenv("ELASTICSEARCH_URL", "http://es:9200")
	t.Setenv("CORS_ORIGINS", "http://a.test, http://b.test")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 2, cfg.Rules.Decks)
	assert.False(t, cfg.Rules.DealerHitsSoft17)
	assert.Equal(t, entities.SurrenderEarly, cfg.Rules.Surrender)
	assert.Equal(t, 1.2, cfg.Rules.BlackjackPayout)
	assert.Equal(t, 1, cfg.Rules.MaxSplits)
	assert.Equal(t, StorageSQLite, cfg.StorageType)
	assert.Equal(t, "/tmp/x.db", cfg.DBPath)
	assert.Equal(t, logging.DEBUG, cfg.LogLevel)
	assert.Equal(t, 3, cfg.Workers)
	assert.True(t, cfg.ElasticsearchEnabled())
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.AllowedOrigins)
}

func TestLoadReadsDotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("BJ_DECKS=4\n"), 0644))
	t.Cleanup(func() { os.Unsetenv("BJ_DECKS") })

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Rules.Decks)
}

func TestLoadErrors(t *testing.T) {
	testCases := []struct {
		name  string
		key   string
		value string
	}{
		{name: "deck count not a number", key: "BJ_DECKS", value: "six"},
		{name: "too many decks", key: "BJ_DECKS", value: "9"},
		{name: "too many splits", key: "BJ_MAX_SPLITS", value: "4"},
		{name: "low payout", key: "BJ_BLACKJACK_PAYOUT", value: "0.5"},
		{name: "nan payout", key: "BJ_BLACKJACK_PAYOUT", value: "NaN"},
		{name: "infinite insurance payout", key: "BJ_INSURANCE_PAYOUT", value: "+Inf"},
		{name: "bad bool", key: "BJ_HIT_SOFT_17", value: "sometimes"},
		{name: "bad surrender", key: "BJ_SURRENDER", value: "always"},
		{name: "bad storage", key: "STORAGE_TYPE", value: "postgres"},
		{name: "bad level", key: "LOG_LEVEL", value: "loud"},
		{name: "no workers", key: "WORKERS", value: "0"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Chdir(t.TempDir())
			t.Setenv(tc.key, tc.value)

			_, err := Load()
			assert.Error(t, err)
		})
	}
}
