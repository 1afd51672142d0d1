package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/guard"
)

var (
	ErrUpdateOrderStatusCommandIsNotConstructed = errors.New(
		"UpdateOrderStatusCommand must be created via NewUpdateOrderStatusCommand constructor",
	)
	ErrActorRoleIsRequired = errors.New("actor role is required")
)

// UpdateOrderStatusCommand represents a request to move an order to a new
// lifecycle status on behalf of a specific actor role. The reason field is
// only meaningful for cancellations.
type UpdateOrderStatusCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	status  order.Status
	actor   order.ActorRole
	reason  string

	guard guard.ConstructorGuard
}

// NewUpdateOrderStatusCommand creates a command to transition an order.
// Validates the order id, target status, and actor role. Whether the actor
// may perform this particular transition is decided by the aggregate's
// transition table, not here.
func NewUpdateOrderStatusCommand(
	orderID kernel.UUID,
	status order.Status,
	actor order.ActorRole,
	reason string,
) (UpdateOrderStatusCommand, error) {
	statusCommand := UpdateOrderStatusCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		statusCommand.setOrderID(orderID),
		statusCommand.setStatus(status),
		statusCommand.setActor(actor),
	); err != nil {
		return UpdateOrderStatusCommand{}, err
	}

	statusCommand.reason = reason
	return statusCommand, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrUpdateOrderStatusCommandIsNotConstructed if validation fails.
func (c UpdateOrderStatusCommand) Validate() error {
	return c.guard.Validate(ErrUpdateOrderStatusCommandIsNotConstructed)
}

// OrderID returns the order to transition.
func (c UpdateOrderStatusCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Status returns the requested target status.
func (c UpdateOrderStatusCommand) Status() order.Status {
	return c.status
}

// Actor returns the role requesting the transition.
func (c UpdateOrderStatusCommand) Actor() order.ActorRole {
	return c.actor
}

// Reason returns the free-text cancellation reason, empty otherwise.
func (c UpdateOrderStatusCommand) Reason() string {
	return c.reason
}

func (c *UpdateOrderStatusCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *UpdateOrderStatusCommand) setStatus(status order.Status) error {
	if err := status.Validate(); err != nil {
		return err
	}

	c.status = status
	return nil
}

func (c *UpdateOrderStatusCommand) setActor(actor order.ActorRole) error {
	if actor == "" {
		return ErrActorRoleIsRequired
	}

	c.actor = actor
	return nil
}
