package jobs

import (
	"context"
	"time"

	"rentshare-backend/internal/config"
	"rentshare-backend/internal/domain"
	"rentshare-backend/internal/logger"
)

// StockAuditor finds listings whose available quantity disagrees with the
// bookings holding a unit.
type StockAuditor interface {
	FindStockDrift(ctx context.Context) ([]domain.StockDrift, error)
}

// Pinger reports whether a backing dependency is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthReporter publishes the result of CheckHealth.
type HealthReporter interface {
	SetServing(serving bool)
}

// JobRunner coordinates all scheduled jobs
type JobRunner struct {
	stock  StockAuditor
	db     Pinger
	cache  Pinger
	health HealthReporter
	config *config.Config
}

// Dependencies holds everything the jobs touch. Cache and Health are optional.
type Dependencies struct {
	Stock  StockAuditor
	DB     Pinger
	Cache  Pinger
	Health HealthReporter
}

// NewJobRunner creates a new job runner with all dependencies
func NewJobRunner(deps Dependencies, cfg *config.Config) *JobRunner {
	return &JobRunner{
		stock:  deps.Stock,
		db:     deps.DB,
		cache:  deps.Cache,
		health: deps.Health,
		config: cfg,
	}
}

// Config returns the configuration the runner was built with.
func (jr *JobRunner) Config() *config.Config {
	return jr.config
}

// runWithRecovery wraps job execution with panic recovery
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func(ctx context.Context)) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Job panicked", "job", jobName, "panic", r)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	logger.Info("Starting job", "job", jobName)
	jobFunc(ctx)
	logger.Info("Job completed", "job", jobName)
}

// RunAll runs every job once (for manual execution)
func (jr *JobRunner) RunAll() {
	jr.ReconcileStock()
	jr.CheckHealth()
}
