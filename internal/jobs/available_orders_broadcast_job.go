package jobs

import (
	"context"
	"log/slog"

	"github.com/robfig/cron/v3"

	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
)

// availableOrdersSource is the slice of the query side this job reads.
type availableOrdersSource interface {
	Handle(ctx context.Context, query queries.GetAvailableOrdersQuery) ([]order.Snapshot, error)
}

// AvailableOrdersBroadcastJob periodically republishes the claimable-order
// pool to every connected rider. The event channel is non-durable, so a
// rider who connects between order:created events would otherwise see
// nothing until the next order appears; this job closes that gap.
type AvailableOrdersBroadcastJob struct {
	source   availableOrdersSource
	eventBus ports.EventBus
	schedule string
	cron     *cron.Cron
	logger   *slog.Logger
}

// NewAvailableOrdersBroadcastJob creates the broadcast job with a cron
// schedule expression, e.g. "*/15 * * * * *" for every fifteen seconds.
func NewAvailableOrdersBroadcastJob(
	source availableOrdersSource,
	eventBus ports.EventBus,
	schedule string,
	logger *slog.Logger,
) *AvailableOrdersBroadcastJob {
	return &AvailableOrdersBroadcastJob{
		source:   source,
		eventBus: eventBus,
		schedule: schedule,
		cron:     cron.New(cron.WithSeconds()),
		logger:   logger.With("component", "available_orders_broadcast_job"),
	}
}

// Start begins the broadcast job on its configured schedule.
func (j *AvailableOrdersBroadcastJob) Start() error {
	_, err := j.cron.AddFunc(j.schedule, func() {
		j.run(context.Background())
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(),
		"Available orders broadcast job started", "schedule", j.schedule)
	return nil
}

// Stop stops the broadcast job.
func (j *AvailableOrdersBroadcastJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Available orders broadcast job stopped")
}

func (j *AvailableOrdersBroadcastJob) run(ctx context.Context) {
	snapshots, err := j.source.Handle(ctx, queries.NewGetAvailableOrdersQuery())
	if err != nil {
		j.logger.ErrorContext(ctx, "Available orders broadcast job failed", "error", err)
		return
	}
	if len(snapshots) == 0 {
		return
	}

	j.eventBus.PublishToRole(ctx, string(order.RoleRider), ports.EventOrderAvailable, snapshots)
}
