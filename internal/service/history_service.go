package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/bugreport-service/internal/domain"
	"github.com/spec-kit/bugreport-service/internal/events"
	"github.com/spec-kit/bugreport-service/internal/persistence"
	"github.com/spec-kit/bugreport-service/internal/ratelimit"
	"github.com/spec-kit/bugreport-service/internal/repository"
	apperrors "github.com/spec-kit/bugreport-service/pkg/util"
)

// HistoryDependencies bundles collaborators for the history service.
type HistoryDependencies struct {
	Repo       repository.HistoryRepository
	Tracker    TrackerClient
	Cache      *persistence.Redis
	Pacer      *ratelimit.Pacer
	Dispatcher events.Dispatcher
}

// HistoryService owns the append-only record of created issues. All
// load-mutate-save cycles are serialized behind one mutex so overlapping
// operations never lose updates.
type HistoryService struct {
	mu         sync.Mutex
	repo       repository.HistoryRepository
	tracker    TrackerClient
	cache      *persistence.Redis
	cacheTTL   time.Duration
	pacer      *ratelimit.Pacer
	dispatcher events.Dispatcher
	projectKey string
	logger     *zap.Logger
}

// NewHistoryService constructs the service.
func NewHistoryService(projectKey string, cacheTTL time.Duration, deps HistoryDependencies, logger *zap.Logger) *HistoryService {
	return &HistoryService{
		repo:       deps.Repo,
		tracker:    deps.Tracker,
		cache:      deps.Cache,
		cacheTTL:   cacheTTL,
		pacer:      deps.Pacer,
		dispatcher: deps.Dispatcher,
		projectKey: projectKey,
		logger:     logger,
	}
}

// Append prepends a new entry, newest first.
func (s *HistoryService) Append(ctx context.Context, entry domain.HistoryEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.load(ctx)
	if err != nil {
		return err
	}
	entries = append([]domain.HistoryEntry{entry}, entries...)
	return s.repo.Save(ctx, entries)
}

// List returns the stored entries. A load failure resets to an empty list
// rather than propagating.
func (s *HistoryService) List(ctx context.Context) ([]domain.HistoryEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

// RefreshStatuses queries the tracker once per entry, serialized with a
// small delay between calls. Entries the tracker can no longer resolve are
// marked deleted; the rest get a fresh status and check timestamp. Transient
// lookup failures leave the entry untouched.
func (s *HistoryService) RefreshStatuses(ctx context.Context) ([]domain.HistoryEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	deleted := 0
	for i := range entries {
		if err := s.pacer.Wait(ctx); err != nil {
			return nil, err
		}

		status, gone, err := s.fetchStatus(ctx, entries[i].IssueKey)
		switch {
		case err != nil:
			s.logger.Warn("status lookup failed; keeping previous status",
				zap.String("issue_key", entries[i].IssueKey),
				zap.Error(err),
			)
			continue
		case gone:
			entries[i].IsDeleted = true
			entries[i].LastStatusCheckAt = time.Now()
			deleted++
		default:
			entries[i].Status = status
			entries[i].IsDeleted = false
			entries[i].LastStatusCheckAt = time.Now()
		}
	}

	if err := s.repo.Save(ctx, entries); err != nil {
		return nil, err
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventHistoryRefreshed,
			Timestamp: time.Now(),
			Payload:   events.HistoryRefreshedPayload{Checked: len(entries), Deleted: deleted},
		})
	}

	return entries, nil
}

// load reads and sanitizes the stored list. A legacy sentinel anywhere in
// it means the store predates the current format; the whole store is reset
// instead of repaired per entry.
func (s *HistoryService) load(ctx context.Context) ([]domain.HistoryEntry, error) {
	entries, err := s.repo.Load(ctx)
	if err != nil {
		s.logger.Warn("failed to load history; resetting to empty", zap.Error(err))
		if clearErr := s.repo.Clear(ctx); clearErr != nil {
			s.logger.Error("failed to clear history store", zap.Error(clearErr))
		}
		return []domain.HistoryEntry{}, nil
	}

	for _, entry := range entries {
		if entry.IsLegacy() {
			s.logger.Warn("legacy sentinel found in history; clearing store")
			if err := s.repo.Clear(ctx); err != nil {
				return nil, err
			}
			return []domain.HistoryEntry{}, nil
		}
	}

	prefix := s.projectKey + "-"
	valid := make([]domain.HistoryEntry, 0, len(entries))
	for _, entry := range entries {
		if strings.HasPrefix(entry.IssueKey, prefix) {
			valid = append(valid, entry)
		}
	}
	return valid, nil
}

// fetchStatus resolves the current status name for an issue, consulting the
// Redis cache first. gone is true when the tracker reports the issue no
// longer resolvable.
func (s *HistoryService) fetchStatus(ctx context.Context, issueKey string) (status string, gone bool, err error) {
	cacheKey := "status:" + issueKey
	if s.cache != nil && s.cache.Client != nil {
		cached, cacheErr := s.cache.Client.Get(ctx, cacheKey).Result()
		if cacheErr == nil && cached != "" {
			return cached, false, nil
		}
		if cacheErr != nil && !errors.Is(cacheErr, redis.Nil) {
			s.logger.Debug("status cache read failed", zap.Error(cacheErr))
		}
	}

	issue, err := s.tracker.GetIssue(ctx, issueKey)
	if err != nil {
		var remoteErr *apperrors.RemoteError
		if errors.As(err, &remoteErr) && remoteErr.StatusCode == 404 {
			return "", true, nil
		}
		return "", false, err
	}
	if issue.Fields.Status == nil {
		return "", true, nil
	}

	status = issue.Fields.Status.Name
	if s.cache != nil && s.cache.Client != nil && s.cacheTTL > 0 {
		if err := s.cache.Client.Set(ctx, cacheKey, status, s.cacheTTL).Err(); err != nil {
			s.logger.Debug("status cache write failed", zap.Error(err))
		}
	}
	return status, false, nil
}
