package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/bugreport-service/internal/service"
)

// StartStatusRefreshWorker periodically re-checks tracked issues against the
// tracker so the history view stays current. It stops when ctx is done. An
// interval of zero disables the worker.
func StartStatusRefreshWorker(ctx context.Context, history *service.HistoryService, interval time.Duration, logger *zap.Logger) {
	if history == nil || interval <= 0 {
		return
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if _, err := history.RefreshStatuses(ctx); err != nil {
					logger.Warn("periodic status refresh failed", zap.Error(err))
				}
			}
		}
	}()
}
