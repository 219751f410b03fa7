package jobs

import (
	"context"
	"time"

	"github.com/cotiza-app/quote-gateway/internal/notify"
	"go.uber.org/zap"
)

// RefdataRefreshJobName is the name of the reference data refresh job
const RefdataRefreshJobName = "refdata_refresh"

// RefdataReloader reloads the reference data cache. This interface lets the
// job call the cache without importing the refdata package directly.
type RefdataReloader interface {
	Reload(ctx context.Context) error
}

// RefdataRefreshJob periodically reloads clients, items and item types so
// price changes on the backend reach already-open drafts. A failed reload is
// reported and the stale cache keeps serving; the draft controllers reprice
// from whatever snapshot is current on their next aggregation.
type RefdataRefreshJob struct {
	cache     RefdataReloader
	presenter notify.Presenter
	logger    *zap.Logger
	timeout   time.Duration
}

// NewRefdataRefreshJob creates a new reference data refresh job.
func NewRefdataRefreshJob(cache RefdataReloader, presenter notify.Presenter, logger *zap.Logger, timeout time.Duration) *RefdataRefreshJob {
	return &RefdataRefreshJob{
		cache:     cache,
		presenter: presenter,
		logger:    logger,
		timeout:   timeout,
	}
}

// Run executes one reload. Called by the scheduler; the SkipIfStillRunning
// chain guarantees reloads never overlap, so last-writer-wins races between
// two refreshes cannot occur.
func (j *RefdataRefreshJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	start := time.Now()
	if err := j.cache.Reload(ctx); err != nil {
		j.logger.Error("reference data refresh failed",
			zap.Error(err),
			zap.Duration("duration", time.Since(start)))
		j.presenter.Present("Reference data refresh failed, showing cached data", notify.KindError)
		return
	}

	j.logger.Info("reference data refresh completed",
		zap.Duration("duration", time.Since(start)))
}

// RegisterRefdataRefreshJob registers the refresh job with the scheduler.
func RegisterRefdataRefreshJob(scheduler *Scheduler, cache RefdataReloader, presenter notify.Presenter, logger *zap.Logger, cronExpr string, timeout time.Duration) error {
	job := NewRefdataRefreshJob(cache, presenter, logger, timeout)
	return scheduler.AddJob(RefdataRefreshJobName, cronExpr, job.Run)
}
