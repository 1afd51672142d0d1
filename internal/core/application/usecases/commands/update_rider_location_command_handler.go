package commands

import (
	"context"
	"time"

	"fulfillment/internal/core/ports"
)

// UpdateRiderLocationCommandHandler records a rider's last-known position
// and broadcasts it for live delivery tracking. The stored timestamp also
// feeds the stale-rider sweep: riders that stop reporting eventually go
// OFFLINE.
type UpdateRiderLocationCommandHandler struct {
	uowFactory RiderUoWFactory
	eventBus   ports.EventBus
}

// NewUpdateRiderLocationCommandHandler creates a handler for position reports.
func NewUpdateRiderLocationCommandHandler(uowFactory RiderUoWFactory, eventBus ports.EventBus) UpdateRiderLocationCommandHandler {
	return UpdateRiderLocationCommandHandler{
		uowFactory: uowFactory,
		eventBus:   eventBus,
	}
}

// Handle processes the position report.
// Persists the coordinates with a report timestamp, then broadcasts
// rider:location so customers tracking a delivery see movement.
func (h UpdateRiderLocationCommandHandler) Handle(ctx context.Context, cmd UpdateRiderLocationCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	riderRepo := uow.RiderRepository()
	aggregate, err := riderRepo.Get(ctx, cmd.RiderID())
	if err != nil {
		return err
	}

	if err = aggregate.UpdateLocation(cmd.Location(), time.Now().UTC()); err != nil {
		return err
	}
	if err = riderRepo.Update(ctx, aggregate); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.eventBus.Broadcast(ctx, ports.EventRiderLocation, aggregate.Snapshot())
	return nil
}
