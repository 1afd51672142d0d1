package order

import (
	"fmt"

	"fulfillment/internal/pkg/errs"
)

// Status represents the lifecycle state of an order.
//
// Canonical forward path:
//
//	PENDING → CONFIRMED → PREPARING → READY_FOR_PICKUP → {DELIVERING | PICKED_UP} → DELIVERED
//
// CANCELLED is reachable from any non-terminal state. DELIVERED and CANCELLED
// are terminal: once reached, the order is never mutated again except for
// audit fields.
type Status int

const (
	// StatusUnknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	StatusUnknown Status = iota

	// StatusPending is the initial status of a newly created order.
	StatusPending

	// StatusConfirmed indicates the merchant accepted the order.
	StatusConfirmed

	// StatusPreparing indicates the merchant is preparing the order.
	StatusPreparing

	// StatusReadyForPickup indicates the order is ready and claimable by riders.
	StatusReadyForPickup

	// StatusDelivering indicates a rider holds the order and is en route.
	StatusDelivering

	// StatusPickedUp indicates a rider has collected the order from the merchant.
	StatusPickedUp

	// StatusDelivered indicates successful delivery. Terminal.
	StatusDelivered

	// StatusCancelled indicates the order was cancelled with a reason. Terminal.
	StatusCancelled
)

// getStatusStrings returns the wire/persistence names for every status.
func getStatusStrings() map[Status]string {
	return map[Status]string{
		StatusUnknown:        "UNKNOWN",
		StatusPending:        "PENDING",
		StatusConfirmed:      "CONFIRMED",
		StatusPreparing:      "PREPARING",
		StatusReadyForPickup: "READY_FOR_PICKUP",
		StatusDelivering:     "DELIVERING",
		StatusPickedUp:       "PICKED_UP",
		StatusDelivered:      "DELIVERED",
		StatusCancelled:      "CANCELLED",
	}
}

// StatusFromString parses a persistence/wire status name.
// Returns an error for unknown names, including "UNKNOWN".
func StatusFromString(s string) (Status, error) {
	for status, name := range getStatusStrings() {
		if name == s && status != StatusUnknown {
			return status, nil
		}
	}
	return StatusUnknown, errs.NewValueIsInvalidErrorWithCause("status",
		fmt.Errorf("%q is not a valid order status", s))
}

// Validate checks if the Status value is a defined, non-Unknown status.
func (s Status) Validate() error {
	if s == StatusUnknown {
		return errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("%d is not a valid status", int(s)))
	}
	if _, ok := getStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("%d is not a valid status", int(s)))
	}
	return nil
}

// String returns the wire name of the status, e.g. "READY_FOR_PICKUP".
// Implements fmt.Stringer and is safe on any Status value.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "UNKNOWN"
}

// IsTerminal reports whether the status ends the order lifecycle.
func (s Status) IsTerminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// IsActiveDelivery reports whether a rider currently holds the order.
// A rider may hold at most one order in an active-delivery status.
func (s Status) IsActiveDelivery() bool {
	return s == StatusDelivering || s == StatusPickedUp
}
