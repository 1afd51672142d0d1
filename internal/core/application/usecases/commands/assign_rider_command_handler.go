package commands

import (
	"context"

	"fulfillment/internal/core/ports"
)

// AssignRiderCommandHandler handles privileged direct rider assignment.
// Unlike the claim path there is no race to resolve: the coordinator's
// choice stands, and may replace a previously assigned rider. The order
// keeps its current status; only ownership changes.
type AssignRiderCommandHandler struct {
	uowFactory UoWFactory
	eventBus   ports.EventBus
}

// NewAssignRiderCommandHandler creates a handler for direct assignments.
func NewAssignRiderCommandHandler(uowFactory UoWFactory, eventBus ports.EventBus) AssignRiderCommandHandler {
	return AssignRiderCommandHandler{
		uowFactory: uowFactory,
		eventBus:   eventBus,
	}
}

// Handle processes the direct assignment command.
// Rejects offline riders, sets the rider on the order, marks the rider
// BUSY, and commits both in one transaction. Emits the usual order:updated
// fan-out plus a targeted order:assigned to the rider.
func (h AssignRiderCommandHandler) Handle(ctx context.Context, cmd AssignRiderCommand) error {
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
	assignedRider, err := riderRepo.Get(ctx, cmd.RiderID())
	if err != nil {
		return err
	}
	if assignedRider.IsOffline() {
		return ErrRiderIsOffline
	}

	orderRepo := uow.OrderRepository()
	aggregate, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	if err = aggregate.AssignRider(cmd.RiderID()); err != nil {
		return err
	}
	if err = orderRepo.Update(ctx, aggregate); err != nil {
		return err
	}

	if err = assignedRider.MarkBusy(); err != nil {
		return err
	}
	if err = riderRepo.Update(ctx, assignedRider); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	publishOrderUpdated(ctx, h.eventBus, aggregate)
	h.eventBus.PublishToUser(ctx, cmd.RiderID().String(), ports.EventOrderAssigned, aggregate.Snapshot())
	return nil
}
