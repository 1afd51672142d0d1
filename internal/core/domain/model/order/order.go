package order

import (
	"errors"
	"strings"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not created
	// through one of the factory functions. This ensures all orders are properly validated.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewMerchantOrder, NewBuyForYouOrder or RestoreOrder")

	// ErrCancellationReasonRequired is returned when a transition to CANCELLED
	// carries no reason.
	ErrCancellationReasonRequired = errors.New("cancellation requires a reason")

	// ErrOrderIsTerminal is returned when mutating an order that already reached
	// DELIVERED or CANCELLED.
	ErrOrderIsTerminal = errors.New("order is in a terminal status")
)

// PaymentStatus tracks whether the order has been paid.
// DELIVERED transitions mark the order paid as a side effect.
type PaymentStatus int

const (
	// PaymentStatusUnknown represents an invalid or undefined payment status.
	PaymentStatusUnknown PaymentStatus = iota
	// PaymentStatusUnpaid is the initial payment status.
	PaymentStatusUnpaid
	// PaymentStatusPaid indicates payment settled on delivery.
	PaymentStatusPaid
)

// String returns the wire name of the payment status.
func (p PaymentStatus) String() string {
	switch p {
	case PaymentStatusUnpaid:
		return "UNPAID"
	case PaymentStatusPaid:
		return "PAID"
	default:
		return "UNKNOWN"
	}
}

// PaymentStatusFromString parses a persistence/wire payment status name.
func PaymentStatusFromString(s string) (PaymentStatus, error) {
	switch s {
	case "UNPAID":
		return PaymentStatusUnpaid, nil
	case "PAID":
		return PaymentStatusPaid, nil
	default:
		return PaymentStatusUnknown, errs.NewValueIsInvalidError("payment status")
	}
}

// Order is the aggregate root for one fulfillment order. It owns the status
// state machine, the money totals, and the rider assignment, and is the only
// place those are mutated.
//
// Invariants:
//   - Exactly one of {non-empty item lines, linked buy-for-you request} is populated.
//   - riderID is set only via the claim or direct-assign operations.
//   - Status changes only through guarded transitions; DELIVERED and CANCELLED
//     are terminal.
//
// Orders must be created through NewMerchantOrder, NewBuyForYouOrder, or
// RestoreOrder (when loading from persistence).
type Order struct {
	id          kernel.UUID
	orderNumber string
	customerID  kernel.UUID

	// merchantID is nil for buy-for-you fulfillment
	merchantID *kernel.UUID

	// riderID is nil until a rider claims the order or is directly assigned
	riderID *kernel.UUID

	addressID kernel.UUID
	status    Status
	payment   PaymentStatus

	subtotal    kernel.Money
	deliveryFee kernel.Money
	total       kernel.Money

	items              []ItemLine
	buyForYouRequestID *kernel.UUID

	createdAt          time.Time
	confirmedAt        *time.Time
	preparingAt        *time.Time
	readyAt            *time.Time
	pickedUpAt         *time.Time
	deliveredAt        *time.Time
	cancelledAt        *time.Time
	cancellationReason string

	isConstructed bool
}

// NewMerchantOrder creates a PENDING order priced from merchant menu item
// lines. The subtotal is the sum of all line totals; the total adds the
// computed delivery fee.
func NewMerchantOrder(
	id kernel.UUID,
	orderNumber string,
	customerID kernel.UUID,
	merchantID kernel.UUID,
	addressID kernel.UUID,
	items []ItemLine,
	deliveryFee kernel.Money,
	createdAt time.Time,
) (*Order, error) {
	if err := errors.Join(
		id.Validate(),
		customerID.Validate(),
		merchantID.Validate(),
		addressID.Validate(),
	); err != nil {
		return nil, err
	}
	if orderNumber == "" {
		return nil, errs.NewValueIsRequiredError("orderNumber")
	}
	if len(items) == 0 {
		return nil, errs.NewValueIsRequiredError("items")
	}

	subtotal := kernel.Money{}
	for _, line := range items {
		if err := line.Validate(); err != nil {
			return nil, err
		}
		subtotal = subtotal.Add(line.Total())
	}

	return &Order{
		id:            id,
		orderNumber:   orderNumber,
		customerID:    customerID,
		merchantID:    &merchantID,
		addressID:     addressID,
		status:        StatusPending,
		payment:       PaymentStatusUnpaid,
		subtotal:      subtotal,
		deliveryFee:   deliveryFee,
		total:         subtotal.Add(deliveryFee),
		items:         items,
		createdAt:     createdAt,
		isConstructed: true,
	}, nil
}

// NewBuyForYouOrder creates a PENDING buy-for-you order. Instead of item
// lines it links the customer's shopping request and carries the operator's
// pre-quoted service fee as the delivery fee; the subtotal is zero until the
// shopper settles actual purchase costs outside this core.
func NewBuyForYouOrder(
	id kernel.UUID,
	orderNumber string,
	customerID kernel.UUID,
	requestID kernel.UUID,
	addressID kernel.UUID,
	serviceFee kernel.Money,
	createdAt time.Time,
) (*Order, error) {
	if err := errors.Join(
		id.Validate(),
		customerID.Validate(),
		requestID.Validate(),
		addressID.Validate(),
	); err != nil {
		return nil, err
	}
	if orderNumber == "" {
		return nil, errs.NewValueIsRequiredError("orderNumber")
	}

	return &Order{
		id:                 id,
		orderNumber:        orderNumber,
		customerID:         customerID,
		addressID:          addressID,
		status:             StatusPending,
		payment:            PaymentStatusUnpaid,
		deliveryFee:        serviceFee,
		total:              serviceFee,
		buyForYouRequestID: &requestID,
		createdAt:          createdAt,
		isConstructed:      true,
	}, nil
}

// RestoreOrderParams carries every persisted field needed to rebuild an
// order aggregate from storage.
type RestoreOrderParams struct {
	ID                 kernel.UUID
	OrderNumber        string
	CustomerID         kernel.UUID
	MerchantID         *kernel.UUID
	RiderID            *kernel.UUID
	AddressID          kernel.UUID
	Status             Status
	Payment            PaymentStatus
	Subtotal           kernel.Money
	DeliveryFee        kernel.Money
	Total              kernel.Money
	Items              []ItemLine
	BuyForYouRequestID *kernel.UUID
	CreatedAt          time.Time
	ConfirmedAt        *time.Time
	PreparingAt        *time.Time
	ReadyAt            *time.Time
	PickedUpAt         *time.Time
	DeliveredAt        *time.Time
	CancelledAt        *time.Time
	CancellationReason string
}

// RestoreOrder rebuilds an order aggregate from persistence, re-checking the
// structural invariants (valid identifiers, valid status, exactly one of
// items or buy-for-you link).
func RestoreOrder(p RestoreOrderParams) (*Order, error) {
	if err := errors.Join(
		p.ID.Validate(),
		p.CustomerID.Validate(),
		p.AddressID.Validate(),
		p.Status.Validate(),
	); err != nil {
		return nil, err
	}
	if (len(p.Items) == 0) == (p.BuyForYouRequestID == nil) {
		return nil, errs.NewValueIsInvalidError(
			"order must have exactly one of item lines or a buy-for-you request")
	}

	return &Order{
		id:                 p.ID,
		orderNumber:        p.OrderNumber,
		customerID:         p.CustomerID,
		merchantID:         p.MerchantID,
		riderID:            p.RiderID,
		addressID:          p.AddressID,
		status:             p.Status,
		payment:            p.Payment,
		subtotal:           p.Subtotal,
		deliveryFee:        p.DeliveryFee,
		total:              p.Total,
		items:              p.Items,
		buyForYouRequestID: p.BuyForYouRequestID,
		createdAt:          p.CreatedAt,
		confirmedAt:        p.ConfirmedAt,
		preparingAt:        p.PreparingAt,
		readyAt:            p.ReadyAt,
		pickedUpAt:         p.PickedUpAt,
		deliveredAt:        p.DeliveredAt,
		cancelledAt:        p.CancelledAt,
		cancellationReason: p.CancellationReason,
		isConstructed:      true,
	}, nil
}

// Validate ensures the Order instance was properly constructed through a factory.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// IsEqual compares two orders by their unique identifiers.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the order's unique identifier.
func (o *Order) ID() kernel.UUID {
	return o.id
}

// OrderNumber returns the human-readable order number.
func (o *Order) OrderNumber() string {
	return o.orderNumber
}

// CustomerID returns the ordering customer's identifier.
func (o *Order) CustomerID() kernel.UUID {
	return o.customerID
}

// MerchantID returns the merchant's identifier, or nil for buy-for-you orders.
func (o *Order) MerchantID() *kernel.UUID {
	return o.merchantID
}

// RiderID returns the assigned rider's identifier, or nil if unclaimed.
func (o *Order) RiderID() *kernel.UUID {
	return o.riderID
}

// AddressID returns the delivery address identifier.
func (o *Order) AddressID() kernel.UUID {
	return o.addressID
}

// Status returns the current lifecycle status.
func (o *Order) Status() Status {
	return o.status
}

// Payment returns the current payment status.
func (o *Order) Payment() PaymentStatus {
	return o.payment
}

// Subtotal returns the sum of item line totals.
func (o *Order) Subtotal() kernel.Money {
	return o.subtotal
}

// DeliveryFee returns the computed delivery fee or quoted service fee.
func (o *Order) DeliveryFee() kernel.Money {
	return o.deliveryFee
}

// Total returns subtotal plus delivery fee.
func (o *Order) Total() kernel.Money {
	return o.total
}

// Items returns the item lines. Empty for buy-for-you orders.
func (o *Order) Items() []ItemLine {
	return o.items
}

// BuyForYouRequestID returns the linked request identifier, or nil for
// merchant orders.
func (o *Order) BuyForYouRequestID() *kernel.UUID {
	return o.buyForYouRequestID
}

// IsBuyForYou reports whether the order fulfills a buy-for-you request.
func (o *Order) IsBuyForYou() bool {
	return o.buyForYouRequestID != nil
}

// CreatedAt returns the creation time.
func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

// ConfirmedAt returns when the order was confirmed, or nil.
func (o *Order) ConfirmedAt() *time.Time { return o.confirmedAt }

// PreparingAt returns when preparation started, or nil.
func (o *Order) PreparingAt() *time.Time { return o.preparingAt }

// ReadyAt returns when the order became ready for pickup, or nil.
func (o *Order) ReadyAt() *time.Time { return o.readyAt }

// PickedUpAt returns when a rider collected the order, or nil.
func (o *Order) PickedUpAt() *time.Time { return o.pickedUpAt }

// DeliveredAt returns when the order was delivered, or nil.
func (o *Order) DeliveredAt() *time.Time { return o.deliveredAt }

// CancelledAt returns when the order was cancelled, or nil.
func (o *Order) CancelledAt() *time.Time { return o.cancelledAt }

// CancellationReason returns the reason recorded on cancellation.
func (o *Order) CancellationReason() string { return o.cancellationReason }

// TransitionTo moves the order to a new status on behalf of an actor.
//
// The transition must exist in the actor-gated transition table; otherwise an
// error wrapping ErrInvalidTransition names both the current and requested
// states. A transition to CANCELLED requires a non-blank reason.
//
// Side effects applied atomically with the status change:
//   - the matching per-transition timestamp is stamped with at
//   - DELIVERED additionally marks the order paid
//
// Returning the rider to AVAILABLE on terminal transitions is a cross-aggregate
// effect handled by the calling use case within the same unit of work.
func (o *Order) TransitionTo(to Status, actor ActorRole, reason string, at time.Time) error {
	if err := o.Validate(); err != nil {
		return err
	}
	if err := to.Validate(); err != nil {
		return err
	}
	if err := CanTransition(o.status, to, actor); err != nil {
		return err
	}

	if to == StatusCancelled && strings.TrimSpace(reason) == "" {
		return ErrCancellationReasonRequired
	}

	switch to {
	case StatusConfirmed:
		o.confirmedAt = &at
	case StatusPreparing:
		o.preparingAt = &at
	case StatusReadyForPickup:
		o.readyAt = &at
	case StatusDelivering, StatusPickedUp:
		if o.pickedUpAt == nil {
			o.pickedUpAt = &at
		}
	case StatusDelivered:
		o.deliveredAt = &at
		o.payment = PaymentStatusPaid
	case StatusCancelled:
		o.cancelledAt = &at
		o.cancellationReason = strings.TrimSpace(reason)
	}

	o.status = to
	return nil
}

// AssignRider directly assigns a rider, bypassing the claim protocol. Used
// when a coordinator initiates the match, e.g. buy-for-you flows. Unlike
// claim it does not require the order to be unclaimed, but it never touches
// terminal orders.
func (o *Order) AssignRider(riderID kernel.UUID) error {
	if err := o.Validate(); err != nil {
		return err
	}
	if err := riderID.Validate(); err != nil {
		return err
	}
	if o.status.IsTerminal() {
		return ErrOrderIsTerminal
	}

	o.riderID = &riderID
	return nil
}
