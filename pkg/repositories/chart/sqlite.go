package chart

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fadedpez/blackjackev/internal/logging"
	"github.com/fadedpez/blackjackev/pkg/db/migrations"
	"github.com/fadedpez/blackjackev/pkg/entities"
	_ "github.com/mattn/go-sqlite3"
)

// SQLiteRepository implements the Repository interface using SQLite
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository opens the database at dbPath and applies pending migrations
func NewSQLiteRepository(dbPath string, logger *logging.Logger) (*SQLiteRepository, error) {
	dbDir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return nil, fmt.Errorf("error creating database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	migrator := migrations.NewMigrator(db, migrations.Embedded(), logger)
	if _, err := migrator.MigrateUp(); err != nil {
		db.Close()
		return nil, fmt.Errorf("error applying migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

// SaveChart stores a chart and its entries, replacing any chart with the same id
func (r *SQLiteRepository) SaveChart(ctx context.Context, chart *entities.StrategyChart) error {
	if chart == nil || chart.ID == "" {
		return fmt.Errorf("chart must have an id")
	}

	rulesJSON, err := json.Marshal(chart.Rules)
	if err != nil {
		return fmt.Errorf("error marshaling rules: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error starting transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM strategy_entries WHERE chart_id = ?", chart.ID); err != nil {
		return fmt.Errorf("error clearing entries: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT OR REPLACE INTO strategy_charts (id, rules, created_at, duration_ms)
		VALUES (?, ?, ?, ?)`,
		chart.ID, string(rulesJSON), chart.CreatedAt.UTC(), chart.Duration.Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("error saving chart: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO strategy_entries (chart_id, position, player_hand, dealer_upcard, action, ev)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("error preparing entry insert: %w", err)
	}
	defer stmt.Close()

	for i, e := range chart.Entries {
		if _, err := stmt.ExecContext(ctx, chart.ID, i, e.PlayerHand, e.DealerUpcard, e.Action, e.EV); err != nil {
			return fmt.Errorf("error saving entry %s vs %s: %w", e.PlayerHand, e.DealerUpcard, err)
		}
	}

	return tx.Commit()
}

// GetChart retrieves a chart and its entries in generation order
func (r *SQLiteRepository) GetChart(ctx context.Context, id string) (*entities.StrategyChart, error) {
	var (
		rulesJSON  string
		durationMS int64
		chart      = &entities.StrategyChart{ID: id}
	)

	err := r.db.QueryRowContext(ctx,
		"SELECT rules, created_at, duration_ms FROM strategy_charts WHERE id = ?", id,
	).Scan(&rulesJSON, &chart.CreatedAt, &durationMS)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrChartNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("error getting chart: %w", err)
	}

	if err := json.Unmarshal([]byte(rulesJSON), &chart.Rules); err != nil {
		return nil, fmt.Errorf("error unmarshaling rules: %w", err)
	}
	chart.Duration = time.Duration(durationMS) * time.Millisecond

	rows, err := r.db.QueryContext(ctx, `
		SELECT player_hand, dealer_upcard, action, ev
		FROM strategy_entries
		WHERE chart_id = ?
		ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("error getting entries: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var e entities.StrategyEntry
		if err := rows.Scan(&e.PlayerHand, &e.DealerUpcard, &e.Action, &e.EV); err != nil {
			return nil, fmt.Errorf("error scanning entry: %w", err)
		}
		chart.Entries = append(chart.Entries, e)
	}

	return chart, rows.Err()
}

// ListCharts returns chart summaries, newest first
func (r *SQLiteRepository) ListCharts(ctx context.Context, limit int) ([]*entities.ChartSummary, error) {
	if limit <= 0 {
		limit = -1 // SQLite treats a negative limit as unbounded
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT c.id, c.rules, c.created_at, COUNT(e.position)
		FROM strategy_charts c
		LEFT JOIN strategy_entries e ON e.chart_id = c.id
		GROUP BY c.id
		ORDER BY c.created_at DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("error listing charts: %w", err)
	}
	defer rows.Close()

	var summaries []*entities.ChartSummary
	for rows.Next() {
		var (
			summary   entities.ChartSummary
			rulesJSON string
		)
		if err := rows.Scan(&summary.ID, &rulesJSON, &summary.CreatedAt, &summary.EntryCount); err != nil {
			return nil, fmt.Errorf("error scanning chart: %w", err)
		}
		if err := json.Unmarshal([]byte(rulesJSON), &summary.Rules); err != nil {
			return nil, fmt.Errorf("error unmarshaling rules: %w", err)
		}
		summaries = append(summaries, &summary)
	}

	return summaries, rows.Err()
}

// DeleteChart removes a chart and its entries
func (r *SQLiteRepository) DeleteChart(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error starting transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM strategy_entries WHERE chart_id = ?", id); err != nil {
		return fmt.Errorf("error deleting entries: %w", err)
	}

	res, err := tx.ExecContext(ctx, "DELETE FROM strategy_charts WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("error deleting chart: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s", ErrChartNotFound, id)
	}

	return tx.Commit()
}

// Close closes the database connection
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}
