package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/bugreport-service/internal/adf"
	"github.com/spec-kit/bugreport-service/internal/domain"
	"github.com/spec-kit/bugreport-service/internal/jira"
	"github.com/spec-kit/bugreport-service/internal/ratelimit"
	"github.com/spec-kit/bugreport-service/internal/repository"
)

func newHistoryFixture(tracker *fakeTracker, seed []domain.HistoryEntry) (*HistoryService, repository.HistoryRepository) {
	repo := repository.NewMemoryHistoryRepository()
	if len(seed) > 0 {
		_ = repo.Save(context.Background(), seed)
	}
	history := NewHistoryService("PB", 0, HistoryDependencies{
		Repo:    repo,
		Tracker: tracker,
		Pacer:   ratelimit.NewPacer(0),
	}, zap.NewNop())
	return history, repo
}

func historyEntry(key, status string) domain.HistoryEntry {
	created := time.Date(2026, 7, 1, 9, 0, 0, 0, time.UTC)
	return domain.HistoryEntry{
		IssueKey:          key,
		Summary:           "Web - Checkout - " + key,
		CreatedAt:         created,
		Status:            status,
		LastStatusCheckAt: created,
	}
}

func seedStatus(tracker *fakeTracker, key, status string) {
	doc := adf.NewDocument([]adf.Node{adf.Paragraph("body")})
	issue := &jira.Issue{Key: key}
	issue.Fields.Description = &doc
	issue.Fields.Status = &jira.IssueStatus{Name: status}
	tracker.issues[key] = issue
}

func TestHistoryAppendPrependsNewest(t *testing.T) {
	history, _ := newHistoryFixture(newFakeTracker(), []domain.HistoryEntry{
		historyEntry("PB-1", "Done"),
	})

	require.NoError(t, history.Append(context.Background(), historyEntry("PB-2", "To Do")))

	entries, err := history.List(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "PB-2", entries[0].IssueKey)
	assert.Equal(t, "PB-1", entries[1].IssueKey)
}

func TestHistoryLegacySentinelClearsStore(t *testing.T) {
	history, repo := newHistoryFixture(newFakeTracker(), []domain.HistoryEntry{
		historyEntry("PB-1", "Done"),
		historyEntry(domain.LegacySentinelKey, ""),
		historyEntry("PB-2", "To Do"),
	})

	entries, err := history.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, entries)

	stored, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestHistoryFiltersForeignProjectKeys(t *testing.T) {
	history, _ := newHistoryFixture(newFakeTracker(), []domain.HistoryEntry{
		historyEntry("PB-1", "Done"),
		historyEntry("OTHER-9", "Done"),
	})

	entries, err := history.List(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "PB-1", entries[0].IssueKey)
}

func TestRefreshStatusesUpdatesAndMarksDeleted(t *testing.T) {
	tracker := newFakeTracker()
	seedStatus(tracker, "PB-1", "In Progress")
	// PB-2 is unknown to the tracker and resolves to 404.

	history, repo := newHistoryFixture(tracker, []domain.HistoryEntry{
		historyEntry("PB-1", "To Do"),
		historyEntry("PB-2", "To Do"),
	})

	entries, err := history.RefreshStatuses(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "In Progress", entries[0].Status)
	assert.False(t, entries[0].IsDeleted)
	assert.True(t, entries[0].LastStatusCheckAt.After(entries[0].CreatedAt))

	assert.True(t, entries[1].IsDeleted)
	assert.Equal(t, "To Do", entries[1].Status)

	stored, err := repo.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, stored, 2)
	assert.Equal(t, "In Progress", stored[0].Status)
}

func TestRefreshStatusesKeepsEntryOnLookupError(t *testing.T) {
	tracker := newFakeTracker()
	tracker.issueErrs["PB-1"] = context.DeadlineExceeded

	history, _ := newHistoryFixture(tracker, []domain.HistoryEntry{
		historyEntry("PB-1", "In Review"),
	})

	entries, err := history.RefreshStatuses(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "In Review", entries[0].Status)
	assert.False(t, entries[0].IsDeleted)
}
