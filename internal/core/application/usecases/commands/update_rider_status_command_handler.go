package commands

import (
	"context"
)

// UpdateRiderStatusCommandHandler handles rider-initiated availability
// changes. Status flips caused by order transitions (BUSY on claim,
// AVAILABLE on terminal) live in their respective handlers; this one only
// covers the rider toggling their own state.
type UpdateRiderStatusCommandHandler struct {
	uowFactory RiderUoWFactory
}

// NewUpdateRiderStatusCommandHandler creates a handler for rider status changes.
func NewUpdateRiderStatusCommandHandler(uowFactory RiderUoWFactory) UpdateRiderStatusCommandHandler {
	return UpdateRiderStatusCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the rider status change command.
func (h UpdateRiderStatusCommandHandler) Handle(ctx context.Context, cmd UpdateRiderStatusCommand) error {
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

	if err = aggregate.SetStatus(cmd.Status()); err != nil {
		return err
	}
	if err = riderRepo.Update(ctx, aggregate); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	return nil
}
