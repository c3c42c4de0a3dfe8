package repository

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/bugreport-service/internal/domain"
)

func sampleEntries() []domain.HistoryEntry {
	created := time.Date(2026, 7, 1, 9, 0, 0, 0, time.UTC)
	return []domain.HistoryEntry{
		{IssueKey: "PB-2", Summary: "Web - Checkout - newer", CreatedAt: created.Add(time.Hour), Status: "To Do", LastStatusCheckAt: created.Add(time.Hour)},
		{IssueKey: "PB-1", Summary: "Web - Checkout - older", CreatedAt: created, Status: "Done", LastStatusCheckAt: created, IsDeleted: true},
	}
}

func TestFileRepositoryRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	repo := NewFileHistoryRepository(path)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, sampleEntries()))

	loaded, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	assert.Equal(t, "PB-2", loaded[0].IssueKey)
	assert.Equal(t, "PB-1", loaded[1].IssueKey)
	assert.True(t, loaded[1].IsDeleted)
	assert.True(t, loaded[0].CreatedAt.Equal(sampleEntries()[0].CreatedAt))
}

func TestFileRepositoryMissingFileIsEmpty(t *testing.T) {
	repo := NewFileHistoryRepository(filepath.Join(t.TempDir(), "absent.json"))

	loaded, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestFileRepositoryCorruptFileErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := NewFileHistoryRepository(path).Load(context.Background())
	assert.Error(t, err)
}

func TestFileRepositoryClear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	repo := NewFileHistoryRepository(path)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, sampleEntries()))
	require.NoError(t, repo.Clear(ctx))
	// Clearing twice is fine.
	require.NoError(t, repo.Clear(ctx))

	loaded, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestMemoryRepositoryIsolation(t *testing.T) {
	repo := NewMemoryHistoryRepository()
	ctx := context.Background()

	entries := sampleEntries()
	require.NoError(t, repo.Save(ctx, entries))
	entries[0].Status = "mutated"

	loaded, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "To Do", loaded[0].Status)
}
