// Package services contains stateless domain services that coordinate logic
// across aggregates and outbound ports.
package services

import (
	"context"
	"fmt"
	"log/slog"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

// DefaultFeePesos is the safe default delivery fee charged when no tiers are
// configured or the routing provider is unavailable. Checkout must never
// hard-fail because a third-party mapping service is down.
const DefaultFeePesos = 50

// FeeTier is one half-open distance interval [MinKm, MaxKm) mapped to a flat
// delivery fee. A boundary distance belongs to the tier whose MinKm equals it.
type FeeTier struct {
	minKm float64
	maxKm float64
	fee   kernel.Money
}

// NewFeeTier creates a validated tier. MinKm must be non-negative and
// strictly less than MaxKm.
func NewFeeTier(minKm, maxKm float64, fee kernel.Money) (FeeTier, error) {
	if minKm < 0 {
		return FeeTier{}, errs.NewValueIsInvalidErrorWithCause("fee tier",
			fmt.Errorf("min distance %.2f is negative", minKm))
	}
	if maxKm <= minKm {
		return FeeTier{}, errs.NewValueIsInvalidErrorWithCause("fee tier",
			fmt.Errorf("max distance %.2f is not greater than min distance %.2f", maxKm, minKm))
	}
	return FeeTier{minKm: minKm, maxKm: maxKm, fee: fee}, nil
}

// MinKm returns the inclusive lower bound in kilometers.
func (t FeeTier) MinKm() float64 { return t.minKm }

// MaxKm returns the exclusive upper bound in kilometers.
func (t FeeTier) MaxKm() float64 { return t.maxKm }

// Fee returns the flat fee for the tier.
func (t FeeTier) Fee() kernel.Money { return t.fee }

// FeeSchedule is an ordered, non-overlapping list of distance tiers.
type FeeSchedule struct {
	tiers []FeeTier
}

// NewFeeSchedule creates a schedule after checking the tiers are sorted by
// distance and do not overlap. An empty schedule is valid; quoting against
// it falls back to the default fee.
func NewFeeSchedule(tiers []FeeTier) (FeeSchedule, error) {
	for i := 1; i < len(tiers); i++ {
		if tiers[i].minKm < tiers[i-1].maxKm {
			return FeeSchedule{}, errs.NewValueIsInvalidErrorWithCause("fee schedule",
				fmt.Errorf("tier [%.2f, %.2f) overlaps tier [%.2f, %.2f)",
					tiers[i].minKm, tiers[i].maxKm, tiers[i-1].minKm, tiers[i-1].maxKm))
		}
	}
	return FeeSchedule{tiers: tiers}, nil
}

// IsEmpty reports whether the schedule has no tiers.
func (s FeeSchedule) IsEmpty() bool {
	return len(s.tiers) == 0
}

// FeeFor matches a distance against the tiers. Half-open matching: a
// distance of exactly a tier boundary belongs to the tier whose MinKm equals
// it. A distance beyond every tier's MaxKm uses the last (largest) tier's
// fee. Returns false when the schedule is empty.
func (s FeeSchedule) FeeFor(distanceKm float64) (kernel.Money, bool) {
	if len(s.tiers) == 0 {
		return kernel.Money{}, false
	}

	for _, tier := range s.tiers {
		if distanceKm >= tier.minKm && distanceKm < tier.maxKm {
			return tier.fee, true
		}
	}

	return s.tiers[len(s.tiers)-1].fee, true
}

// Quote is the result of a delivery fee calculation: the flat fee plus the
// routing provider's distance and duration (zero when the fallback applied).
type Quote struct {
	Fee             kernel.Money
	DistanceKm      float64
	DurationSeconds float64
}

// DeliveryFeeCalculator turns an origin/destination pair into a flat fee via
// the distance-tier schedule, backed by the external routing provider.
type DeliveryFeeCalculator struct {
	routing  ports.RoutingClient
	schedule FeeSchedule
	logger   *slog.Logger
}

// NewDeliveryFeeCalculator creates a calculator over the given routing
// client and tier schedule.
func NewDeliveryFeeCalculator(
	routing ports.RoutingClient,
	schedule FeeSchedule,
	logger *slog.Logger,
) DeliveryFeeCalculator {
	return DeliveryFeeCalculator{
		routing:  routing,
		schedule: schedule,
		logger:   logger.With("component", "delivery_fee_calculator"),
	}
}

// defaultQuote is the recovery value for any failure path.
func defaultQuote() Quote {
	fee, _ := kernel.NewMoneyFromPesos(DefaultFeePesos)
	return Quote{Fee: fee}
}

// Calculate returns the delivery fee quote for an origin/destination pair.
//
// It never returns an error: if no tiers are configured, or the routing call
// fails or times out, the quote is the fixed safe default (fee 50, distance
// 0, duration 0) so that checkout keeps working while the provider is down.
func (c DeliveryFeeCalculator) Calculate(ctx context.Context, origin, destination kernel.GeoPoint) Quote {
	if c.schedule.IsEmpty() {
		return defaultQuote()
	}

	route, err := c.routing.Route(ctx, origin, destination)
	if err != nil {
		c.logger.WarnContext(ctx, "routing lookup failed, using default fee",
			"origin", origin.String(), "destination", destination.String(), "error", err)
		return defaultQuote()
	}

	distanceKm := route.DistanceMeters / 1000
	fee, ok := c.schedule.FeeFor(distanceKm)
	if !ok {
		return defaultQuote()
	}

	return Quote{
		Fee:             fee,
		DistanceKm:      distanceKm,
		DurationSeconds: route.DurationSeconds,
	}
}
