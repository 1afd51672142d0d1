package rider

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
)

// ErrRiderIsNotConstructed is returned when a Rider instance was not created
// through NewRider or RestoreRider.
var ErrRiderIsNotConstructed = errors.New("Rider must be created via NewRider or RestoreRider")

// Rider is the aggregate tracking one delivery rider's availability and
// last-known location.
//
// Invariant (enforced by the claim use case, visible here through status):
// a rider holds at most one order in an active-delivery status at any time.
type Rider struct {
	id     kernel.UUID
	status Status

	// location is nil until the rider reports a position
	location *kernel.GeoPoint

	// locationAt records when location was last refreshed; the stale
	// sweep flips riders OFFLINE when it falls too far behind
	locationAt *time.Time

	isConstructed bool
}

// NewRider creates a rider in OFFLINE status with no known location.
func NewRider(id kernel.UUID) (*Rider, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	return &Rider{
		id:            id,
		status:        StatusOffline,
		isConstructed: true,
	}, nil
}

// RestoreRider rebuilds a rider aggregate from persistence.
func RestoreRider(id kernel.UUID, status Status, location *kernel.GeoPoint, locationAt *time.Time) (*Rider, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if err := status.Validate(); err != nil {
		return nil, err
	}

	return &Rider{
		id:            id,
		status:        status,
		location:      location,
		locationAt:    locationAt,
		isConstructed: true,
	}, nil
}

// Validate ensures the Rider instance was properly constructed.
func (r *Rider) Validate() error {
	if r == nil || !r.isConstructed {
		return ErrRiderIsNotConstructed
	}
	return nil
}

// ID returns the rider's unique identifier.
func (r *Rider) ID() kernel.UUID {
	return r.id
}

// Status returns the rider's availability status.
func (r *Rider) Status() Status {
	return r.status
}

// Location returns the last-known position, or nil if never reported.
func (r *Rider) Location() *kernel.GeoPoint {
	return r.location
}

// LocationAt returns when the location was last refreshed, or nil.
func (r *Rider) LocationAt() *time.Time {
	return r.locationAt
}

// IsOffline reports whether the rider is offline.
func (r *Rider) IsOffline() bool {
	return r.status == StatusOffline
}

// SetStatus applies a rider-initiated availability change.
func (r *Rider) SetStatus(status Status) error {
	if err := r.Validate(); err != nil {
		return err
	}
	if err := status.Validate(); err != nil {
		return err
	}

	r.status = status
	return nil
}

// MarkBusy puts the rider in BUSY status; called when a claim succeeds.
func (r *Rider) MarkBusy() error {
	return r.SetStatus(StatusBusy)
}

// MarkAvailable returns the rider to AVAILABLE; called when their order
// reaches a terminal status.
func (r *Rider) MarkAvailable() error {
	return r.SetStatus(StatusAvailable)
}

// UpdateLocation stores the rider's reported position and refresh time.
func (r *Rider) UpdateLocation(location kernel.GeoPoint, at time.Time) error {
	if err := r.Validate(); err != nil {
		return err
	}
	if err := location.Validate(); err != nil {
		return err
	}

	r.location = &location
	r.locationAt = &at
	return nil
}

// Snapshot is the full denormalized rider state, used as the payload for
// rider events.
type Snapshot struct {
	ID         string     `json:"id"`
	Status     string     `json:"status"`
	Latitude   *float64   `json:"latitude,omitempty"`
	Longitude  *float64   `json:"longitude,omitempty"`
	LocationAt *time.Time `json:"locationAt,omitempty"`
}

// Snapshot returns the rider's denormalized current state.
func (r *Rider) Snapshot() Snapshot {
	snap := Snapshot{
		ID:         r.id.String(),
		Status:     r.status.String(),
		LocationAt: r.locationAt,
	}
	if r.location != nil {
		lat := r.location.Latitude()
		lon := r.location.Longitude()
		snap.Latitude = &lat
		snap.Longitude = &lon
	}
	return snap
}
