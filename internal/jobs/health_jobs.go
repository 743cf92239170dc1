package jobs

import (
	"context"

	"rentshare-backend/internal/logger"
)

// CheckHealth pings the database and publishes the result. The cache is
// optional, so a cache failure is logged but keeps the service serving.
func (jr *JobRunner) CheckHealth() {
	jr.runWithRecovery("CheckHealth", func(ctx context.Context) {
		serving := true
		if err := jr.db.PingContext(ctx); err != nil {
			logger.Error("Database health check failed", "error", err)
			serving = false
		}

		if jr.cache != nil {
			if err := jr.cache.PingContext(ctx); err != nil {
				logger.Warn("Cache health check failed", "error", err)
			}
		}

		if jr.health != nil {
			jr.health.SetServing(serving)
		}
		logger.Debug("Health check finished", "serving", serving)
	})
}
