package scheduler

import (
	"testing"

	"rentshare-backend/internal/config"
	"rentshare-backend/internal/jobs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewScheduler(t *testing.T) {
	t.Run("Registers both jobs", func(t *testing.T) {
		cfg := &config.Config{Scheduler: config.SchedulerConfig{
			ReconcileStock: "0 0 * * * *",
			CheckHealth:    "*/30 * * * * *",
		}}
		s, err := NewScheduler(jobs.NewJobRunner(jobs.Dependencies{}, cfg))
		require.NoError(t, err)
		assert.True(t, s.IsRunning())
		assert.Len(t, s.cron.Entries(), 2)
		s.Start()
		s.Stop()
	})

	t.Run("Rejects a bad cron expression", func(t *testing.T) {
		cfg := &config.Config{Scheduler: config.SchedulerConfig{
			ReconcileStock: "every hour",
			CheckHealth:    "*/30 * * * * *",
		}}
		_, err := NewScheduler(jobs.NewJobRunner(jobs.Dependencies{}, cfg))
		assert.Error(t, err)
	})
}
