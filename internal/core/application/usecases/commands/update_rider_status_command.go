package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/rider"
	"fulfillment/internal/pkg/guard"
)

var ErrUpdateRiderStatusCommandIsNotConstructed = errors.New(
	"UpdateRiderStatusCommand must be created via NewUpdateRiderStatusCommand constructor",
)

// UpdateRiderStatusCommand represents a rider's own availability change:
// going AVAILABLE to receive claims, BUSY, or OFFLINE at end of shift.
type UpdateRiderStatusCommand struct { //nolint:recvcheck //using for validation
	riderID kernel.UUID
	status  rider.Status

	guard guard.ConstructorGuard
}

// NewUpdateRiderStatusCommand creates a command to change a rider's status.
func NewUpdateRiderStatusCommand(riderID kernel.UUID, status rider.Status) (UpdateRiderStatusCommand, error) {
	statusCommand := UpdateRiderStatusCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		statusCommand.setRiderID(riderID),
		statusCommand.setStatus(status),
	); err != nil {
		return UpdateRiderStatusCommand{}, err
	}

	return statusCommand, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrUpdateRiderStatusCommandIsNotConstructed if validation fails.
func (c UpdateRiderStatusCommand) Validate() error {
	return c.guard.Validate(ErrUpdateRiderStatusCommandIsNotConstructed)
}

// RiderID returns the rider changing status.
func (c UpdateRiderStatusCommand) RiderID() kernel.UUID {
	return c.riderID
}

// Status returns the requested status.
func (c UpdateRiderStatusCommand) Status() rider.Status {
	return c.status
}

func (c *UpdateRiderStatusCommand) setRiderID(riderID kernel.UUID) error {
	if err := riderID.Validate(); err != nil {
		return err
	}

	c.riderID = riderID
	return nil
}

func (c *UpdateRiderStatusCommand) setStatus(status rider.Status) error {
	if err := status.Validate(); err != nil {
		return err
	}

	c.status = status
	return nil
}
