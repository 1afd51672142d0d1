package kernel

import (
	"fmt"

	"fulfillment/internal/pkg/errs"
)

// Money is an immutable value object holding a monetary amount in centavos.
// Integer centavos avoid the rounding drift of floating-point peso arithmetic
// when summing item lines and delivery fees.
//
// The zero value is a valid zero amount; negative amounts are rejected
// by the constructors.
type Money struct {
	centavos int64
}

// NewMoney creates a Money amount from centavos.
// Returns an error for negative amounts.
func NewMoney(centavos int64) (Money, error) {
	if centavos < 0 {
		return Money{}, errs.NewValueIsInvalidErrorWithCause("money",
			fmt.Errorf("%d centavos is negative", centavos))
	}
	return Money{centavos: centavos}, nil
}

// NewMoneyFromPesos creates a Money amount from whole pesos.
// Returns an error for negative amounts.
func NewMoneyFromPesos(pesos int64) (Money, error) {
	return NewMoney(pesos * 100)
}

// Centavos returns the amount in centavos.
func (m Money) Centavos() int64 {
	return m.centavos
}

// Pesos returns the amount in pesos as a float, for display and payloads.
func (m Money) Pesos() float64 {
	return float64(m.centavos) / 100
}

// Add returns the sum of two amounts.
func (m Money) Add(other Money) Money {
	return Money{centavos: m.centavos + other.centavos}
}

// MultiplyBy returns the amount multiplied by a non-negative quantity.
func (m Money) MultiplyBy(quantity int) (Money, error) {
	if quantity < 0 {
		return Money{}, errs.NewValueIsInvalidErrorWithCause("quantity",
			fmt.Errorf("%d is negative", quantity))
	}
	return Money{centavos: m.centavos * int64(quantity)}, nil
}

// IsZero reports whether the amount is zero.
func (m Money) IsZero() bool {
	return m.centavos == 0
}

// IsEqual compares two amounts.
func (m Money) IsEqual(other Money) bool {
	return m.centavos == other.centavos
}

// String formats the amount as pesos with two decimal places.
func (m Money) String() string {
	return fmt.Sprintf("%.2f", m.Pesos())
}
