package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
)

// Merchant is the read model of a merchant as the fulfillment core sees it:
// whether it is accepting orders and where pickups happen.
type Merchant struct {
	ID       kernel.UUID
	Open     bool
	Location kernel.GeoPoint
}

// CustomerAddress is the read model of a customer's delivery address.
type CustomerAddress struct {
	ID         kernel.UUID
	CustomerID kernel.UUID
	Location   kernel.GeoPoint
}

// MenuItem is the read model of one sellable menu item.
type MenuItem struct {
	ID         kernel.UUID
	MerchantID kernel.UUID
	Price      kernel.Money
	Available  bool
}

// BuyForYouRequest is the read model of a customer's free-text shopping
// request with its operator-quoted service fee.
type BuyForYouRequest struct {
	ID         kernel.UUID
	CustomerID kernel.UUID
	ServiceFee kernel.Money
}

// StorefrontGateway exposes the read-only slices of external entities the
// order creation preconditions touch. The storefront itself (menu editing,
// address books, request intake) is an external collaborator; the core only
// reads the fields enumerated here.
type StorefrontGateway interface {
	// GetMerchant retrieves a merchant read model by id.
	GetMerchant(ctx context.Context, id kernel.UUID) (Merchant, error)

	// GetCustomerAddress retrieves an address read model by id.
	GetCustomerAddress(ctx context.Context, id kernel.UUID) (CustomerAddress, error)

	// GetMenuItems retrieves the menu item read models for the given ids,
	// keyed by id. Missing ids are simply absent from the result.
	GetMenuItems(ctx context.Context, ids []kernel.UUID) (map[kernel.UUID]MenuItem, error)

	// GetBuyForYouRequest retrieves a buy-for-you request read model by id.
	GetBuyForYouRequest(ctx context.Context, id kernel.UUID) (BuyForYouRequest, error)
}
