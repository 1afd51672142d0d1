package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var (
	ErrCreateOrderCommandIsNotConstructed = errors.New(
		"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
	)
	ErrOrderContentsAmbiguous = errors.New(
		"exactly one of menu items or a buy-for-you request must be provided",
	)
	ErrItemQuantityIsInvalid = errors.New("item quantity must be greater than 0")
)

// ItemRequest is one requested order line: which menu item, how many, and
// optional preparation notes. Prices are never taken from the client; the
// handler resolves them from the storefront at creation time.
type ItemRequest struct {
	MenuItemID kernel.UUID
	Quantity   int
	Notes      string
}

// CreateOrderCommand represents a request to place a new order. It carries
// either merchant menu items (regular order) or a buy-for-you request link
// (personal shopping order), never both.
//
// Example:
//
//	cmd, err := NewCreateOrderCommand(
//	    kernel.NewUUID(), customerID, addressID,
//	    &merchantID, items, nil,
//	)
//	if err != nil {
//	    return fmt.Errorf("invalid order data: %w", err)
//	}
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("failed to create order: %w", err)
//	}
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	orderID            kernel.UUID
	customerID         kernel.UUID
	addressID          kernel.UUID
	merchantID         *kernel.UUID
	items              []ItemRequest
	buyForYouRequestID *kernel.UUID

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand creates a command to place a new order. Exactly one
// of (merchantID + items) or buyForYouRequestID must be set, every quantity
// must be positive, and all identifiers must be valid.
func NewCreateOrderCommand(
	orderID kernel.UUID,
	customerID kernel.UUID,
	addressID kernel.UUID,
	merchantID *kernel.UUID,
	items []ItemRequest,
	buyForYouRequestID *kernel.UUID,
) (CreateOrderCommand, error) {
	orderCommand := CreateOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		orderCommand.setOrderID(orderID),
		orderCommand.setCustomerID(customerID),
		orderCommand.setAddressID(addressID),
		orderCommand.setContents(merchantID, items, buyForYouRequestID),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	return orderCommand, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrCreateOrderCommandIsNotConstructed if validation fails.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

// OrderID returns the identifier the new order will carry.
func (c CreateOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// CustomerID returns the ordering customer's identifier.
func (c CreateOrderCommand) CustomerID() kernel.UUID {
	return c.customerID
}

// AddressID returns the delivery address identifier.
func (c CreateOrderCommand) AddressID() kernel.UUID {
	return c.addressID
}

// MerchantID returns the merchant identifier, nil for buy-for-you orders.
func (c CreateOrderCommand) MerchantID() *kernel.UUID {
	return c.merchantID
}

// Items returns the requested order lines, empty for buy-for-you orders.
func (c CreateOrderCommand) Items() []ItemRequest {
	return c.items
}

// BuyForYouRequestID returns the linked shopping request, nil for merchant orders.
func (c CreateOrderCommand) BuyForYouRequestID() *kernel.UUID {
	return c.buyForYouRequestID
}

// IsBuyForYou reports whether the command places a personal shopping order.
func (c CreateOrderCommand) IsBuyForYou() bool {
	return c.buyForYouRequestID != nil
}

func (c *CreateOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *CreateOrderCommand) setCustomerID(customerID kernel.UUID) error {
	if err := customerID.Validate(); err != nil {
		return err
	}

	c.customerID = customerID
	return nil
}

func (c *CreateOrderCommand) setAddressID(addressID kernel.UUID) error {
	if err := addressID.Validate(); err != nil {
		return err
	}

	c.addressID = addressID
	return nil
}

func (c *CreateOrderCommand) setContents(
	merchantID *kernel.UUID,
	items []ItemRequest,
	buyForYouRequestID *kernel.UUID,
) error {
	hasMenuContents := merchantID != nil && len(items) > 0
	hasRequest := buyForYouRequestID != nil
	if hasMenuContents == hasRequest {
		return ErrOrderContentsAmbiguous
	}

	if hasRequest {
		if err := buyForYouRequestID.Validate(); err != nil {
			return err
		}
		c.buyForYouRequestID = buyForYouRequestID
		return nil
	}

	if err := merchantID.Validate(); err != nil {
		return err
	}
	for _, item := range items {
		if err := item.MenuItemID.Validate(); err != nil {
			return err
		}
		if item.Quantity <= 0 {
			return ErrItemQuantityIsInvalid
		}
	}

	c.merchantID = merchantID
	c.items = items
	return nil
}
