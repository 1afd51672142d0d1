package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

// MerchantDTO mirrors the storefront's merchants table. The fulfillment core
// only reads it; merchant management lives in the storefront service.
type MerchantDTO struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Open      bool
	Latitude  float64
	Longitude float64
}

// TableName specifies the merchants table.
func (MerchantDTO) TableName() string { return "merchants" }

// CustomerAddressDTO mirrors the storefront's customer_addresses table.
type CustomerAddressDTO struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	CustomerID uuid.UUID `gorm:"type:uuid;index"`
	Latitude   float64
	Longitude  float64
}

// TableName specifies the customer_addresses table.
func (CustomerAddressDTO) TableName() string { return "customer_addresses" }

// MenuItemDTO mirrors the storefront's menu_items table.
type MenuItemDTO struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	MerchantID    uuid.UUID `gorm:"type:uuid;index"`
	PriceCentavos int64
	Available     bool
}

// TableName specifies the menu_items table.
func (MenuItemDTO) TableName() string { return "menu_items" }

// BuyForYouRequestDTO mirrors the storefront's buy_for_you_requests table.
type BuyForYouRequestDTO struct {
	ID                 uuid.UUID `gorm:"type:uuid;primaryKey"`
	CustomerID         uuid.UUID `gorm:"type:uuid;index"`
	ServiceFeeCentavos int64
}

// TableName specifies the buy_for_you_requests table.
func (BuyForYouRequestDTO) TableName() string { return "buy_for_you_requests" }

// GormStorefrontGateway implements ports.StorefrontGateway over the shared
// database, exposing only the read slices the order preconditions touch.
type GormStorefrontGateway struct {
	db *gorm.DB
}

// NewGormStorefrontGateway creates a read-only storefront gateway.
func NewGormStorefrontGateway(db *gorm.DB) *GormStorefrontGateway {
	return &GormStorefrontGateway{db: db}
}

// GetMerchant retrieves a merchant read model by id.
func (g *GormStorefrontGateway) GetMerchant(ctx context.Context, id kernel.UUID) (ports.Merchant, error) {
	if err := id.Validate(); err != nil {
		return ports.Merchant{}, err
	}

	var dto MerchantDTO
	if err := g.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.Merchant{}, errs.NewObjectNotFoundError("merchant", id.String())
		}
		return ports.Merchant{}, err
	}

	location, err := kernel.NewGeoPoint(dto.Latitude, dto.Longitude)
	if err != nil {
		return ports.Merchant{}, err
	}

	merchantID, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return ports.Merchant{}, err
	}

	return ports.Merchant{
		ID:       merchantID,
		Open:     dto.Open,
		Location: location,
	}, nil
}

// GetCustomerAddress retrieves an address read model by id.
func (g *GormStorefrontGateway) GetCustomerAddress(ctx context.Context, id kernel.UUID) (ports.CustomerAddress, error) {
	if err := id.Validate(); err != nil {
		return ports.CustomerAddress{}, err
	}

	var dto CustomerAddressDTO
	if err := g.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.CustomerAddress{}, errs.NewObjectNotFoundError("customer address", id.String())
		}
		return ports.CustomerAddress{}, err
	}

	location, err := kernel.NewGeoPoint(dto.Latitude, dto.Longitude)
	if err != nil {
		return ports.CustomerAddress{}, err
	}

	addressID, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return ports.CustomerAddress{}, err
	}
	customerID, err := kernel.UUIDFromBytes(dto.CustomerID[:])
	if err != nil {
		return ports.CustomerAddress{}, err
	}

	return ports.CustomerAddress{
		ID:         addressID,
		CustomerID: customerID,
		Location:   location,
	}, nil
}

// GetMenuItems retrieves the menu item read models for the given ids, keyed
// by id. Missing ids are simply absent from the result.
func (g *GormStorefrontGateway) GetMenuItems(
	ctx context.Context,
	ids []kernel.UUID,
) (map[kernel.UUID]ports.MenuItem, error) {
	items := make(map[kernel.UUID]ports.MenuItem, len(ids))
	if len(ids) == 0 {
		return items, nil
	}

	rawIDs := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if err := id.Validate(); err != nil {
			return nil, err
		}
		rawIDs = append(rawIDs, id.Bytes())
	}

	var dtos []MenuItemDTO
	if err := g.db.WithContext(ctx).Find(&dtos, "id IN ?", rawIDs).Error; err != nil {
		return nil, err
	}

	for _, dto := range dtos {
		itemID, err := kernel.UUIDFromBytes(dto.ID[:])
		if err != nil {
			return nil, err
		}
		merchantID, err := kernel.UUIDFromBytes(dto.MerchantID[:])
		if err != nil {
			return nil, err
		}
		price, err := kernel.NewMoney(dto.PriceCentavos)
		if err != nil {
			return nil, err
		}

		items[itemID] = ports.MenuItem{
			ID:         itemID,
			MerchantID: merchantID,
			Price:      price,
			Available:  dto.Available,
		}
	}

	return items, nil
}

// GetBuyForYouRequest retrieves a buy-for-you request read model by id.
func (g *GormStorefrontGateway) GetBuyForYouRequest(
	ctx context.Context,
	id kernel.UUID,
) (ports.BuyForYouRequest, error) {
	if err := id.Validate(); err != nil {
		return ports.BuyForYouRequest{}, err
	}

	var dto BuyForYouRequestDTO
	if err := g.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.BuyForYouRequest{}, errs.NewObjectNotFoundError("buy-for-you request", id.String())
		}
		return ports.BuyForYouRequest{}, err
	}

	requestID, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return ports.BuyForYouRequest{}, err
	}
	customerID, err := kernel.UUIDFromBytes(dto.CustomerID[:])
	if err != nil {
		return ports.BuyForYouRequest{}, err
	}
	serviceFee, err := kernel.NewMoney(dto.ServiceFeeCentavos)
	if err != nil {
		return ports.BuyForYouRequest{}, err
	}

	return ports.BuyForYouRequest{
		ID:         requestID,
		CustomerID: customerID,
		ServiceFee: serviceFee,
	}, nil
}
