package order

import (
	"fmt"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

// ErrItemLineIsNotConstructed is returned when an ItemLine was not created
// through NewItemLine.
var ErrItemLineIsNotConstructed = errs.NewValueIsRequiredError(
	"item line must be created via NewItemLine constructor")

// ItemLine is an immutable value object for one menu-item line of a merchant
// order: which item, how many, at what unit price it was sold, plus free-text
// preparation notes. The unit price is a snapshot taken at order time; later
// menu edits do not affect persisted orders.
type ItemLine struct {
	menuItemID kernel.UUID
	quantity   int
	unitPrice  kernel.Money
	notes      string

	guard guard.ConstructorGuard
}

// NewItemLine creates a validated item line. Quantity must be positive.
func NewItemLine(menuItemID kernel.UUID, quantity int, unitPrice kernel.Money, notes string) (ItemLine, error) {
	if err := menuItemID.Validate(); err != nil {
		return ItemLine{}, err
	}
	if quantity <= 0 {
		return ItemLine{}, errs.NewValueIsInvalidErrorWithCause("quantity",
			fmt.Errorf("%d is not greater than 0", quantity))
	}

	return ItemLine{
		menuItemID: menuItemID,
		quantity:   quantity,
		unitPrice:  unitPrice,
		notes:      notes,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

// MenuItemID returns the referenced menu item's identifier.
func (l ItemLine) MenuItemID() kernel.UUID {
	return l.menuItemID
}

// Quantity returns the ordered quantity.
func (l ItemLine) Quantity() int {
	return l.quantity
}

// UnitPrice returns the per-unit price snapshot.
func (l ItemLine) UnitPrice() kernel.Money {
	return l.unitPrice
}

// Notes returns the customer's free-text preparation notes.
func (l ItemLine) Notes() string {
	return l.notes
}

// Total returns quantity times unit price.
func (l ItemLine) Total() kernel.Money {
	total, _ := l.unitPrice.MultiplyBy(l.quantity)
	return total
}

// Validate ensures the ItemLine was created through NewItemLine.
func (l ItemLine) Validate() error {
	return l.guard.Validate(ErrItemLineIsNotConstructed)
}
