package repository

import (
	"context"
	"sync"

	"github.com/spec-kit/bugreport-service/internal/domain"
)

// HistoryRepository persists the ordered history list, newest first. The
// whole list is the unit of storage; mutations go through the history
// service, which serializes its load-mutate-save cycles. Lists stay small
// (one user's submissions), so full replacement per mutation is fine.
type HistoryRepository interface {
	Load(ctx context.Context) ([]domain.HistoryEntry, error)
	Save(ctx context.Context, entries []domain.HistoryEntry) error
	Clear(ctx context.Context) error
}

type memoryHistoryRepository struct {
	mu      sync.Mutex
	entries []domain.HistoryEntry
}

// NewMemoryHistoryRepository keeps history in process memory, used for
// tests and throwaway runs.
func NewMemoryHistoryRepository() HistoryRepository {
	return &memoryHistoryRepository{}
}

func (r *memoryHistoryRepository) Load(ctx context.Context) ([]domain.HistoryEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.HistoryEntry, len(r.entries))
	copy(out, r.entries)
	return out, nil
}

func (r *memoryHistoryRepository) Save(ctx context.Context, entries []domain.HistoryEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = make([]domain.HistoryEntry, len(entries))
	copy(r.entries, entries)
	return nil
}

func (r *memoryHistoryRepository) Clear(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = nil
	return nil
}
