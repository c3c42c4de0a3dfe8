package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/bugreport-service/internal/config"
)

// RetryPolicy controls probe retries: attempt count and the pause before
// each retry.
type RetryPolicy struct {
	MaxAttempts int
	Backoff     func(attempt int) time.Duration
}

// PolicyFromConfig builds the linear-backoff policy used at startup.
func PolicyFromConfig(cfg config.ProbeConfig) RetryPolicy {
	step := time.Duration(cfg.BackoffSeconds) * time.Second
	return RetryPolicy{
		MaxAttempts: cfg.MaxAttempts,
		Backoff: func(attempt int) time.Duration {
			return time.Duration(attempt) * step
		},
	}
}

// ConnectivityService probes the tracker at startup and on demand. A
// failed probe degrades the application into offline mode: the form stays
// usable, submission is disabled.
type ConnectivityService struct {
	tracker TrackerClient
	policy  RetryPolicy
	timeout time.Duration
	logger  *zap.Logger
}

// NewConnectivityService constructs the service.
func NewConnectivityService(tracker TrackerClient, policy RetryPolicy, timeout time.Duration, logger *zap.Logger) *ConnectivityService {
	if policy.MaxAttempts <= 0 {
		policy.MaxAttempts = 1
	}
	return &ConnectivityService{tracker: tracker, policy: policy, timeout: timeout, logger: logger}
}

// Check runs the probe under the retry policy. It returns true when the
// tracker answered, false with a human-readable message otherwise.
func (s *ConnectivityService) Check(ctx context.Context) (bool, string) {
	for attempt := 1; attempt <= s.policy.MaxAttempts; attempt++ {
		if err := s.probeOnce(ctx); err == nil {
			return true, "Connected to Jira API"
		} else {
			s.logger.Warn("connectivity probe failed",
				zap.Int("attempt", attempt),
				zap.Error(err),
			)
		}

		if attempt == s.policy.MaxAttempts || s.policy.Backoff == nil {
			continue
		}
		timer := time.NewTimer(s.policy.Backoff(attempt))
		select {
		case <-ctx.Done():
			timer.Stop()
			return false, "Network error - check connection"
		case <-timer.C:
		}
	}
	return false, "Network error - check connection"
}

// probeOnce races the project lookup against a hard timeout. Whichever
// resolves first wins; the loser is discarded, never awaited further.
func (s *ConnectivityService) probeOnce(ctx context.Context) error {
	probeCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	resultCh := make(chan error, 1)
	go func() {
		resultCh <- s.tracker.GetProject(probeCtx)
	}()

	timer := time.NewTimer(s.timeout)
	defer timer.Stop()

	select {
	case err := <-resultCh:
		return err
	case <-timer.C:
		return context.DeadlineExceeded
	case <-ctx.Done():
		return ctx.Err()
	}
}
