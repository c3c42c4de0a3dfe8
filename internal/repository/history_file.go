package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spec-kit/bugreport-service/internal/domain"
)

type fileHistoryRepository struct {
	path string
}

// NewFileHistoryRepository stores the history as a single JSON array on
// disk, the default backend.
func NewFileHistoryRepository(path string) HistoryRepository {
	return &fileHistoryRepository{path: path}
}

func (r *fileHistoryRepository) Load(ctx context.Context) ([]domain.HistoryEntry, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read history file: %w", err)
	}

	var entries []domain.HistoryEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("decode history file: %w", err)
	}
	return entries, nil
}

func (r *fileHistoryRepository) Save(ctx context.Context, entries []domain.HistoryEntry) error {
	if entries == nil {
		entries = []domain.HistoryEntry{}
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}

	// Write-then-rename so a crash mid-write never corrupts the store.
	tmp := r.path + ".tmp"
	if dir := filepath.Dir(r.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write history file: %w", err)
	}
	return os.Rename(tmp, r.path)
}

func (r *fileHistoryRepository) Clear(ctx context.Context) error {
	if err := os.Remove(r.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
