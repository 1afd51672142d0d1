package commands

import (
	"context"
	"time"

	"fulfillment/internal/core/ports"
)

// UpdateOrderStatusCommandHandler handles order lifecycle transitions.
// The aggregate's transition table decides whether the (current, requested,
// actor) triple is allowed; this handler owns the cross-aggregate side
// effect of freeing the assigned rider when an order reaches a terminal
// status, and the notification fan-out after commit.
type UpdateOrderStatusCommandHandler struct {
	uowFactory UoWFactory
	eventBus   ports.EventBus
}

// NewUpdateOrderStatusCommandHandler creates a handler for status transitions.
// Requires a UoWFactory because terminal transitions update both the order
// and its rider in one transaction.
func NewUpdateOrderStatusCommandHandler(uowFactory UoWFactory, eventBus ports.EventBus) UpdateOrderStatusCommandHandler {
	return UpdateOrderStatusCommandHandler{
		uowFactory: uowFactory,
		eventBus:   eventBus,
	}
}

// Handle processes the status transition command.
// Reads the order, applies the transition through the aggregate, and on a
// terminal outcome returns the assigned rider to AVAILABLE within the same
// transaction. Emits order:updated to the customer, the merchant, and the
// assigned rider after a successful commit.
func (h UpdateOrderStatusCommandHandler) Handle(ctx context.Context, cmd UpdateOrderStatusCommand) error {
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

	orderRepo := uow.OrderRepository()
	aggregate, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	if err = aggregate.TransitionTo(cmd.Status(), cmd.Actor(), cmd.Reason(), time.Now().UTC()); err != nil {
		return err
	}

	if err = orderRepo.Update(ctx, aggregate); err != nil {
		return err
	}

	if aggregate.Status().IsTerminal() && aggregate.RiderID() != nil {
		riderRepo := uow.RiderRepository()
		assignedRider, err := riderRepo.Get(ctx, *aggregate.RiderID())
		if err != nil {
			return err
		}
		if err = assignedRider.MarkAvailable(); err != nil {
			return err
		}
		if err = riderRepo.Update(ctx, assignedRider); err != nil {
			return err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	publishOrderUpdated(ctx, h.eventBus, aggregate)
	return nil
}
