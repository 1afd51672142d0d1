package kernel

import (
	"fmt"

	"fulfillment/internal/pkg/errs"

	"github.com/google/uuid"
)

// ErrUUIDIsNotConstructed is returned when validating a nil UUID. UUIDs must
// be created via NewUUID, UUIDFromString, or UUIDFromBytes.
var ErrUUIDIsNotConstructed = errs.NewValueIsRequiredError(
	"UUID must be created via NewUUID, UUIDFromString, or UUIDFromBytes")

// UUID is an immutable value object identifying aggregates: orders, riders,
// merchants, addresses, menu items, and buy-for-you requests all carry one.
// It wraps github.com/google/uuid behind a private field so an identifier
// cannot be mutated or swapped after construction.
//
// The zero value is invalid and fails Validate. NewUUID mints fresh
// identifiers, UUIDFromString parses inbound request and token values, and
// UUIDFromBytes reconstructs identifiers loaded from persistence.
type UUID struct {
	id uuid.UUID
}

// NewUUID mints a random version 4 UUID.
func NewUUID() UUID {
	return UUID{
		id: uuid.New(),
	}
}

// UUIDFromString parses a UUID from its textual form. Standard, braced,
// urn-prefixed, and unhyphenated representations are all accepted.
func UUIDFromString(s string) (UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return UUID{}, fmt.Errorf("invalid UUID format: %w", err)
	}
	return UUID{id: id}, nil
}

// UUIDFromBytes reconstructs a UUID from its 16-byte wire or storage form.
// This is the path repository DTO mapping takes when rehydrating aggregates,
// so unlike UUIDFromString it also rejects the all-zero value: a nil
// identifier coming back from storage is a data problem, not a legal UUID.
func UUIDFromBytes(b []byte) (UUID, error) {
	id, err := uuid.FromBytes(b)
	if err != nil {
		return UUID{}, fmt.Errorf("invalid UUID format: %w", err)
	}
	newID := UUID{id: id}
	if err = newID.Validate(); err != nil {
		return UUID{}, err
	}

	return newID, nil
}

// String returns the canonical hyphenated representation.
func (u UUID) String() string {
	return u.id.String()
}

// Bytes exposes the wrapped uuid.UUID, a 16-byte array. DTO mapping stores
// this directly in postgres uuid columns; slice it ([:]) when a []byte is
// needed. The array is returned by value, so callers cannot mutate the
// identifier through it.
func (u UUID) Bytes() uuid.UUID {
	return u.id
}

// IsEqual reports whether two UUIDs carry the same value.
func (u UUID) IsEqual(other UUID) bool {
	return u.id == other.id
}

// Validate returns ErrUUIDIsNotConstructed for the nil UUID, whether it is
// a zero value or was explicitly parsed from an all-zero representation.
func (u UUID) Validate() error {
	if u.id == uuid.Nil {
		return ErrUUIDIsNotConstructed
	}
	return nil
}
