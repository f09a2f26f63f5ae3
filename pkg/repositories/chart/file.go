package chart

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/fadedpez/blackjackev/pkg/entities"
)

// FileRepository keeps charts in memory and rewrites a JSON file on every change
type FileRepository struct {
	*MemoryRepository
	path string
	mu   sync.Mutex
}

// NewFileRepository loads the charts stored at path, if any
func NewFileRepository(path string) (*FileRepository, error) {
	r := &FileRepository{
		MemoryRepository: NewMemoryRepository(),
		path:             path,
	}
	if err := r.load(); err != nil {
		return nil, fmt.Errorf("failed to load charts: %w", err)
	}
	return r, nil
}

// SaveChart stores the chart and writes the file
func (r *FileRepository) SaveChart(ctx context.Context, chart *entities.StrategyChart) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.MemoryRepository.SaveChart(ctx, chart); err != nil {
		return err
	}
	return r.save()
}

// DeleteChart removes the chart and writes the file
func (r *FileRepository) DeleteChart(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.MemoryRepository.DeleteChart(ctx, id); err != nil {
		return err
	}
	return r.save()
}

func (r *FileRepository) load() error {
	data, err := os.ReadFile(r.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}

	r.MemoryRepository.mu.Lock()
	defer r.MemoryRepository.mu.Unlock()
	return json.Unmarshal(data, &r.MemoryRepository.charts)
}

// save writes to a temporary file and renames it so a crash never leaves a partial file
func (r *FileRepository) save() error {
	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	r.MemoryRepository.mu.RLock()
	data, err := json.Marshal(r.MemoryRepository.charts)
	r.MemoryRepository.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("failed to marshal charts: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(r.path)+".*")
	if err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write file: %w", err)
	}
	return os.Rename(tmp.Name(), r.path)
}
