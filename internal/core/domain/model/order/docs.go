// Package order implements the order aggregate and its lifecycle state machine.
//
// An order moves through the canonical path PENDING → CONFIRMED → PREPARING →
// READY_FOR_PICKUP → {DELIVERING | PICKED_UP} → DELIVERED, with CANCELLED
// reachable from any non-terminal state. Every legal transition is an explicit
// (current status, requested status, actor role) entry in the transition table,
// so the full state machine is enumerable and testable.
//
// The aggregate guards the structural invariants of the data model: exactly
// one of item lines or a linked buy-for-you request is populated, rider
// assignment happens only through claim or direct assignment, and terminal
// orders are never mutated again.
package order
