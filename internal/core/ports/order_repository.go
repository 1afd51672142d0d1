package ports

import (
	"context"
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
)

var (
	// ErrOrderAlreadyTaken is returned by ClaimForRider when the conditional
	// write matched no row: another rider won the race, the order left
	// READY_FOR_PICKUP, or it does not exist. Callers treat it as a
	// non-fatal, retryable outcome and re-query the available-order list.
	ErrOrderAlreadyTaken = errors.New("order already taken")

	// ErrRiderHasActiveDelivery is returned when granting the order would
	// give the rider a second DELIVERING or PICKED_UP order. The storage
	// layer enforces this at write time, so it also covers two claims by
	// the same rider racing on different orders.
	ErrRiderHasActiveDelivery = errors.New("rider already has an active delivery")
)

// OrderRepository defines the persistence contract for order aggregates.
type OrderRepository interface {
	// Add persists a new order aggregate to storage.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes to an existing order aggregate.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order aggregate by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetActiveByRider retrieves the rider's order in an active-delivery
	// status (DELIVERING or PICKED_UP), if any. Returns an
	// errs.ObjectNotFoundError when the rider holds no active order.
	GetActiveByRider(ctx context.Context, riderID kernel.UUID) (*order.Order, error)

	// ClaimForRider atomically grants the rider exclusive delivery ownership
	// of the order. The implementation re-checks both predicates at write
	// time, never via a read followed by an unconditional write: the order
	// must still be READY_FOR_PICKUP with no rider assigned, and the rider
	// must not already hold a DELIVERING or PICKED_UP order.
	//
	// On success the order has the rider set, status DELIVERING, and its
	// pickup timestamp stamped with at; the updated aggregate is returned.
	// A lost race on the order returns ErrOrderAlreadyTaken; a grant that
	// would double-book the rider returns ErrRiderHasActiveDelivery.
	ClaimForRider(ctx context.Context, orderID, riderID kernel.UUID, at time.Time) (*order.Order, error)
}
