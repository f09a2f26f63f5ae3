package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/fadedpez/blackjackev/internal/logging"
	"github.com/fadedpez/blackjackev/pkg/entities"
	"github.com/joho/godotenv"
)

const (
	StorageMemory = "memory"
	StorageFile   = "file"
	StorageSQLite = "sqlite"
)

// Config holds all configuration for the application
type Config struct {
	// Rules used when a command does not override them
	Rules entities.Rules

	// Storage
	StorageType string
	DataDir     string
	DBPath      string
	ChartsFile  string

	// Elasticsearch indexing is enabled when URL is set
	ElasticsearchURL         string
	ElasticsearchUsername    string
	ElasticsearchPassword    string
	ElasticsearchIndexPrefix string

	// HTTP API
	ListenAddr     string
	AllowedOrigins []string

	LogLevel logging.Level
	Workers  int
}

// Load reads the configuration from environment variables, loading .env first if present
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		// Only return error if file exists but couldn't be loaded
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("error loading .env file: %w", err)
		}
	}

	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}

	p := &envParser{}
	defaults := entities.DefaultRules()

	cfg := &Config{
		Rules: entities.Rules{
			Decks:            p.int("BJ_DECKS", defaults.Decks),
			DealerHitsSoft17: p.bool("BJ_HIT_SOFT_17", defaults.DealerHitsSoft17),
			DoubleAfterSplit: p.bool("BJ_DOUBLE_AFTER_SPLIT", defaults.DoubleAfterSplit),
			Surrender:        p.surrender("BJ_SURRENDER", defaults.Surrender),
			BlackjackPayout:  p.float("BJ_BLACKJACK_PAYOUT", defaults.BlackjackPayout),
			InsurancePayout:  p.float("BJ_INSURANCE_PAYOUT", defaults.InsurancePayout),
			CanSplitAces:     p.bool("BJ_SPLIT_ACES", defaults.CanSplitAces),
			MaxSplits:        p.int("BJ_MAX_SPLITS", defaults.MaxSplits),
		},
		StorageType:              strings.ToLower(getEnvWithDefault("STORAGE_TYPE", StorageMemory)),
		DataDir:                  getEnvWithDefault("DATA_DIR", filepath.Join(wd, "data")),
		ElasticsearchURL:         os.Getenv("ELASTICSEARCH_URL"),
		ElasticsearchUsername:    os.Getenv("ELASTICSEARCH_USERNAME"),
		ElasticsearchPassword:    os.Getenv("ELASTICSEARCH_PASSWORD"),
		ElasticsearchIndexPrefix: getEnvWithDefault("ELASTICSEARCH_INDEX_PREFIX", "blackjackev"),
		ListenAddr:               getEnvWithDefault("HTTP_ADDR", ":8080"),
		AllowedOrigins:           splitList(getEnvWithDefault("CORS_ORIGINS", "*")),
		LogLevel:                 p.level("LOG_LEVEL", logging.INFO),
		Workers:                  p.int("WORKERS", runtime.NumCPU()),
	}
	cfg.DBPath = getEnvWithDefault("DB_PATH", filepath.Join(cfg.DataDir, "charts.db"))
	cfg.ChartsFile = getEnvWithDefault("CHARTS_FILE", filepath.Join(cfg.DataDir, "charts.json"))

	if p.err != nil {
		return nil, p.err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validate checks every setting is usable
func (c *Config) validate() error {
	if err := c.Rules.Validate(); err != nil {
		return err
	}
	switch c.StorageType {
	case StorageMemory, StorageFile, StorageSQLite:
	default:
		return fmt.Errorf("STORAGE_TYPE must be %q, %q or %q, got %q", StorageMemory, StorageFile, StorageSQLite, c.StorageType)
	}
	if c.Workers < 1 {
		return fmt.Errorf("WORKERS must be at least 1, got %d", c.Workers)
	}
	return nil
}

// ElasticsearchEnabled returns true when entries should also be indexed
func (c *Config) ElasticsearchEnabled() bool {
	return c.ElasticsearchURL != ""
}

// getEnvWithDefault returns environment variable value or default if not set
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// envParser keeps the first conversion error so Load can report it after
// reading every variable.
type envParser struct {
	err error
}

func (p *envParser) fail(key, value string, err error) {
	if p.err == nil {
		p.err = fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
}

func (p *envParser) int(key string, def int) int {
	value := os.Getenv(key)
	if value == "" {
		return def
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		p.fail(key, value, err)
		return def
	}
	return n
}

func (p *envParser) float(key string, def float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return def
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		p.fail(key, value, err)
		return def
	}
	return f
}

func (p *envParser) bool(key string, def bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return def
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		p.fail(key, value, err)
		return def
	}
	return b
}

func (p *envParser) surrender(key string, def entities.SurrenderType) entities.SurrenderType {
	value := os.Getenv(key)
	if value == "" {
		return def
	}
	s, err := entities.ParseSurrender(value)
	if err != nil {
		p.fail(key, value, err)
		return def
	}
	return s
}

func (p *envParser) level(key string, def logging.Level) logging.Level {
	value := os.Getenv(key)
	if value == "" {
		return def
	}
	l, err := logging.ParseLevel(value)
	if err != nil {
		p.fail(key, value, err)
		return def
	}
	return l
}
