package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"fulfillment/internal/core/application/usecases/commands"
)

// StaleRiderSweepJob flips riders whose last location report is older than
// the staleness window to OFFLINE. A rider whose app died mid-shift would
// otherwise stay AVAILABLE forever and keep looking like claimable capacity.
type StaleRiderSweepJob struct {
	uowFactory commands.RiderUoWFactory
	window     time.Duration
	schedule   string
	cron       *cron.Cron
	logger     *slog.Logger
}

// NewStaleRiderSweepJob creates the sweep job. Riders silent for longer
// than window are swept on each tick of the cron schedule.
func NewStaleRiderSweepJob(
	uowFactory commands.RiderUoWFactory,
	window time.Duration,
	schedule string,
	logger *slog.Logger,
) *StaleRiderSweepJob {
	return &StaleRiderSweepJob{
		uowFactory: uowFactory,
		window:     window,
		schedule:   schedule,
		cron:       cron.New(cron.WithSeconds()),
		logger:     logger.With("component", "stale_rider_sweep_job"),
	}
}

// Start begins the sweep job on its configured schedule.
func (j *StaleRiderSweepJob) Start() error {
	_, err := j.cron.AddFunc(j.schedule, func() {
		j.run(context.Background())
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(),
		"Stale rider sweep job started", "schedule", j.schedule, "window", j.window)
	return nil
}

// Stop stops the sweep job.
func (j *StaleRiderSweepJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Stale rider sweep job stopped")
}

func (j *StaleRiderSweepJob) run(ctx context.Context) {
	uow := j.uowFactory.Create()

	if err := uow.Begin(ctx); err != nil {
		j.logger.ErrorContext(ctx, "Stale rider sweep job failed to begin", "error", err)
		return
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	cutoff := time.Now().UTC().Add(-j.window)
	affected, err := uow.RiderRepository().MarkStaleOffline(ctx, cutoff)
	if err != nil {
		j.logger.ErrorContext(ctx, "Stale rider sweep job failed", "error", err)
		return
	}

	if err := uow.Commit(ctx); err != nil {
		j.logger.ErrorContext(ctx, "Stale rider sweep job failed to commit", "error", err)
		return
	}

	if affected > 0 {
		j.logger.InfoContext(ctx, "Swept stale riders offline", "count", affected)
	}
}
