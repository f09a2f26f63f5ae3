package chart

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/fadedpez/blackjackev/pkg/entities"
)

// MemoryRepository implements Repository with in-memory storage
type MemoryRepository struct {
	mu     sync.RWMutex
	charts map[string]*entities.StrategyChart
}

// NewMemoryRepository creates a new in-memory repository
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		charts: make(map[string]*entities.StrategyChart),
	}
}

// SaveChart stores a copy of the chart, replacing any chart with the same id
func (r *MemoryRepository) SaveChart(ctx context.Context, chart *entities.StrategyChart) error {
	if chart == nil || chart.ID == "" {
		return fmt.Errorf("chart must have an id")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.charts[chart.ID] = copyChart(chart)
	return nil
}

// GetChart retrieves a chart by id
func (r *MemoryRepository) GetChart(ctx context.Context, id string) (*entities.StrategyChart, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	chart, exists := r.charts[id]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrChartNotFound, id)
	}
	return copyChart(chart), nil
}

// ListCharts returns chart summaries, newest first
func (r *MemoryRepository) ListCharts(ctx context.Context, limit int) ([]*entities.ChartSummary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	summaries := make([]*entities.ChartSummary, 0, len(r.charts))
	for _, chart := range r.charts {
		summaries = append(summaries, &entities.ChartSummary{
			ID:         chart.ID,
			Rules:      chart.Rules,
			CreatedAt:  chart.CreatedAt,
			EntryCount: len(chart.Entries),
		})
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].CreatedAt.After(summaries[j].CreatedAt)
	})

	if limit > 0 && len(summaries) > limit {
		summaries = summaries[:limit]
	}
	return summaries, nil
}

// DeleteChart removes a chart
func (r *MemoryRepository) DeleteChart(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.charts[id]; !exists {
		return fmt.Errorf("%w: %s", ErrChartNotFound, id)
	}
	delete(r.charts, id)
	return nil
}

// Close implements Repository
func (r *MemoryRepository) Close() error {
	return nil
}

func copyChart(chart *entities.StrategyChart) *entities.StrategyChart {
	c := *chart
	c.Entries = make([]entities.StrategyEntry, len(chart.Entries))
	copy(c.Entries, chart.Entries)
	return &c
}
