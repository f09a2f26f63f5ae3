package chart

import (
	"context"
	"errors"

	"github.com/fadedpez/blackjackev/pkg/entities"
)

//go:generate mockgen -source=$GOFILE -destination=mock/mock.go -package=mock_chart

var ErrChartNotFound = errors.New("chart not found")

// Repository defines storage operations for generated strategy charts
type Repository interface {
	SaveChart(ctx context.Context, chart *entities.StrategyChart) error
	// GetChart returns ErrChartNotFound when no chart has the id
	GetChart(ctx context.Context, id string) (*entities.StrategyChart, error)
	// ListCharts returns summaries, newest first. A limit <= 0 means no limit.
	ListCharts(ctx context.Context, limit int) ([]*entities.ChartSummary, error)
	DeleteChart(ctx context.Context, id string) error

	// Close closes any resources used by the repository
	Close() error
}
