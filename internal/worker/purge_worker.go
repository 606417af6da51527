package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/auth-service/internal/repository"
)

// StartPurgeWorker periodically removes expired denylist entries. Purging
// is a growth bound only: an expired token is already rejected by its
// expiry check, so a missed pass never changes revocation behavior. The
// worker stops when ctx is cancelled.
func StartPurgeWorker(ctx context.Context, purger repository.DenylistPurger, interval time.Duration, logger *zap.Logger) {
	if purger == nil || interval <= 0 {
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
				removed, err := purger.Purge(ctx, time.Now())
				if err != nil {
					logger.Warn("denylist purge failed", zap.Error(err))
					continue
				}
				if removed > 0 {
					logger.Info("denylist purged", zap.Int64("removed", removed))
				}
			}
		}
	}()
}
