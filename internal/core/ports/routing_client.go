package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
)

// Route is the routing provider's answer for one origin/destination pair.
type Route struct {
	// DistanceMeters is the driving distance in meters.
	DistanceMeters float64

	// DurationSeconds is the estimated driving time in seconds.
	DurationSeconds float64
}

// RoutingClient is the outbound dependency on an external routing provider.
// Implementations must carry a bounded timeout: the provider is treated as
// unreliable, and callers recover from any error with a safe default fee
// rather than failing checkout.
type RoutingClient interface {
	Route(ctx context.Context, origin, destination kernel.GeoPoint) (Route, error)
}
