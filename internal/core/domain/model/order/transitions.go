package order

import (
	"errors"
	"fmt"
)

// ActorRole identifies which party requests a status transition.
// The role comes from the caller's authenticated identity; transitions
// are permitted per (current status, requested status, role) triple.
type ActorRole string

const (
	// RoleCustomer is the ordering customer.
	RoleCustomer ActorRole = "customer"
	// RoleMerchant is the merchant preparing the order.
	RoleMerchant ActorRole = "merchant"
	// RoleRider is the delivery rider.
	RoleRider ActorRole = "rider"
	// RoleCoordinator is a privileged operator, used for buy-for-you flows
	// and support interventions.
	RoleCoordinator ActorRole = "coordinator"
)

// ErrInvalidTransition is the sentinel wrapped by every rejected transition.
var ErrInvalidTransition = errors.New("invalid transition")

// transitionKey identifies one legal edge of the order state machine.
type transitionKey struct {
	from  Status
	to    Status
	actor ActorRole
}

// transitionTable is the authoritative state machine definition. A
// (current, requested, actor) triple absent from this table is rejected.
// CANCELLED rows are added programmatically below: the coordinator may
// cancel from any non-terminal state, the customer before preparation
// starts, the merchant until the order leaves the kitchen.
var transitionTable = func() map[transitionKey]bool {
	edges := []transitionKey{
		{StatusPending, StatusConfirmed, RoleMerchant},
		{StatusPending, StatusConfirmed, RoleCoordinator},
		{StatusConfirmed, StatusPreparing, RoleMerchant},
		{StatusConfirmed, StatusPreparing, RoleCoordinator},
		{StatusPreparing, StatusReadyForPickup, RoleMerchant},
		{StatusPreparing, StatusReadyForPickup, RoleCoordinator},
		{StatusReadyForPickup, StatusDelivering, RoleRider},
		{StatusReadyForPickup, StatusPickedUp, RoleRider},
		{StatusReadyForPickup, StatusDelivering, RoleCoordinator},
		{StatusReadyForPickup, StatusPickedUp, RoleCoordinator},
		{StatusDelivering, StatusDelivered, RoleRider},
		{StatusPickedUp, StatusDelivered, RoleRider},
		{StatusDelivering, StatusDelivered, RoleCoordinator},
		{StatusPickedUp, StatusDelivered, RoleCoordinator},
	}

	for from := range getStatusStrings() {
		if from == StatusUnknown || from.IsTerminal() {
			continue
		}
		edges = append(edges, transitionKey{from, StatusCancelled, RoleCoordinator})
	}
	edges = append(edges,
		transitionKey{StatusPending, StatusCancelled, RoleCustomer},
		transitionKey{StatusConfirmed, StatusCancelled, RoleCustomer},
		transitionKey{StatusPending, StatusCancelled, RoleMerchant},
		transitionKey{StatusConfirmed, StatusCancelled, RoleMerchant},
		transitionKey{StatusPreparing, StatusCancelled, RoleMerchant},
	)

	table := make(map[transitionKey]bool, len(edges))
	for _, e := range edges {
		table[e] = true
	}
	return table
}()

// CanTransition checks whether actor may move an order from one status to
// another. Returns nil if the edge exists in the transition table, otherwise
// an error wrapping ErrInvalidTransition that names both states.
func CanTransition(from, to Status, actor ActorRole) error {
	if transitionTable[transitionKey{from, to, actor}] {
		return nil
	}
	return fmt.Errorf("%w: %s -> %s is not allowed for actor %q",
		ErrInvalidTransition, from, to, actor)
}

// ValidNextStatuses returns every status reachable from the given status
// by any actor. Useful for error payloads and documentation.
func ValidNextStatuses(from Status) []Status {
	seen := make(map[Status]bool)
	var next []Status
	for key := range transitionTable {
		if key.from == from && !seen[key.to] {
			seen[key.to] = true
			next = append(next, key.to)
		}
	}
	return next
}
