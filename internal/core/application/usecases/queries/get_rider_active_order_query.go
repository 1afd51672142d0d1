package queries

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrGetRiderActiveOrderQueryIsNotConstructed = errors.New(
	"GetRiderActiveOrderQuery must be created via NewGetRiderActiveOrderQuery constructor",
)

// GetRiderActiveOrderQuery retrieves the rider's delivery in flight, if any.
// A rider holds at most one order in DELIVERING or PICKED_UP at a time.
type GetRiderActiveOrderQuery struct { //nolint:recvcheck //using for validation
	riderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetRiderActiveOrderQuery creates a query for a rider's active delivery.
func NewGetRiderActiveOrderQuery(riderID kernel.UUID) (GetRiderActiveOrderQuery, error) {
	if err := riderID.Validate(); err != nil {
		return GetRiderActiveOrderQuery{}, err
	}

	return GetRiderActiveOrderQuery{
		riderID: riderID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
// Returns ErrGetRiderActiveOrderQueryIsNotConstructed if validation fails.
func (q GetRiderActiveOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetRiderActiveOrderQueryIsNotConstructed)
}

// RiderID returns the rider whose active delivery is requested.
func (q GetRiderActiveOrderQuery) RiderID() kernel.UUID {
	return q.riderID
}
