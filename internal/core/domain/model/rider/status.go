package rider

import (
	"fmt"

	"fulfillment/internal/pkg/errs"
)

// Status represents a rider's availability for deliveries.
//
// AVAILABLE riders may claim ready orders; BUSY riders hold an active
// delivery; OFFLINE riders receive no work. Status is mutated both directly
// (rider-initiated) and as a side effect of order terminal transitions,
// which return the assigned rider to AVAILABLE.
type Status int

const (
	// StatusUnknown represents an invalid or undefined status.
	StatusUnknown Status = iota

	// StatusAvailable means the rider can claim ready orders.
	StatusAvailable

	// StatusBusy means the rider holds an active delivery.
	StatusBusy

	// StatusOffline means the rider is not working.
	StatusOffline
)

// getStatusStrings returns the wire/persistence names for every status.
func getStatusStrings() map[Status]string {
	return map[Status]string{
		StatusUnknown:   "UNKNOWN",
		StatusAvailable: "AVAILABLE",
		StatusBusy:      "BUSY",
		StatusOffline:   "OFFLINE",
	}
}

// StatusFromString parses a persistence/wire status name.
func StatusFromString(s string) (Status, error) {
	for status, name := range getStatusStrings() {
		if name == s && status != StatusUnknown {
			return status, nil
		}
	}
	return StatusUnknown, errs.NewValueIsInvalidErrorWithCause("rider status",
		fmt.Errorf("%q is not a valid rider status", s))
}

// Validate checks if the Status value is a defined, non-Unknown status.
func (s Status) Validate() error {
	if s == StatusUnknown {
		return errs.NewValueIsInvalidErrorWithCause("rider status",
			fmt.Errorf("%d is not a valid rider status", int(s)))
	}
	if _, ok := getStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("rider status",
			fmt.Errorf("%d is not a valid rider status", int(s)))
	}
	return nil
}

// String returns the wire name of the status, e.g. "AVAILABLE".
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "UNKNOWN"
}
