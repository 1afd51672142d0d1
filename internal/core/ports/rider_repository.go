// Package ports defines the contracts between the fulfillment core and its
// collaborators: persistence, the routing provider, the event broadcaster,
// and the storefront read side. These interfaces establish dependency
// inversion between the domain layer and infrastructure.
package ports

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/rider"
)

// RiderRepository defines the persistence contract for rider aggregates.
type RiderRepository interface {
	// Add persists a new rider aggregate to storage.
	Add(ctx context.Context, aggregate *rider.Rider) error

	// Update persists changes to an existing rider aggregate.
	Update(ctx context.Context, aggregate *rider.Rider) error

	// Get retrieves a rider aggregate by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*rider.Rider, error)

	// MarkStaleOffline flips every non-OFFLINE rider whose location has not
	// refreshed since the cutoff to OFFLINE, returning how many were
	// affected. Riders that never reported a location are left alone.
	MarkStaleOffline(ctx context.Context, cutoff time.Time) (int64, error)
}
