// Package orderrepo provides data transfer objects and mapping functions for order persistence.
// This package implements the repository pattern for the order domain aggregate, handling
// the conversion between domain entities and database representations.
package orderrepo

import (
	"time"

	"github.com/google/uuid"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
)

// OrderDTO represents the database structure for persisting order aggregates.
// Indexed for the hot read paths: the claimable list (status + rider) and a
// rider's active delivery. The partial unique index on RiderID backs the
// one-active-delivery-per-rider rule: two claims by the same rider racing on
// different rows both pass the per-row claim predicate, so the invariant has
// to be a table-level constraint.
type OrderDTO struct {
	ID                  uuid.UUID  `gorm:"type:uuid;primaryKey"`
	OrderNumber         string     `gorm:"size:32;uniqueIndex"`
	CustomerID          uuid.UUID  `gorm:"type:uuid;index"`
	MerchantID          *uuid.UUID `gorm:"type:uuid;index"`
	RiderID             *uuid.UUID `gorm:"type:uuid;index;uniqueIndex:uniq_orders_active_rider,where:status = 'DELIVERING' OR status = 'PICKED_UP'"`
	AddressID           uuid.UUID  `gorm:"type:uuid"`
	Status              string     `gorm:"size:32;index"`
	PaymentStatus       string     `gorm:"size:16"`
	SubtotalCentavos    int64
	DeliveryFeeCentavos int64
	TotalCentavos       int64
	BuyForYouRequestID  *uuid.UUID `gorm:"type:uuid"`
	CreatedAt           time.Time
	ConfirmedAt         *time.Time
	PreparingAt         *time.Time
	ReadyAt             *time.Time
	PickedUpAt          *time.Time
	DeliveredAt         *time.Time
	CancelledAt         *time.Time
	CancellationReason  string

	Items []OrderItemDTO `gorm:"foreignKey:OrderID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the database table name for order entities.
func (OrderDTO) TableName() string {
	return "orders"
}

// OrderItemDTO represents one persisted item line. Lines are immutable after
// order creation, so only Create ever writes them.
type OrderItemDTO struct {
	OrderID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	MenuItemID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Quantity          int
	UnitPriceCentavos int64
	Notes             string
}

// TableName specifies the database table name for order item lines.
func (OrderItemDTO) TableName() string {
	return "order_items"
}

func uuidPtrFromDomain(id *kernel.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	raw := id.Bytes()
	return &raw
}

func uuidPtrToDomain(id *uuid.UUID) (*kernel.UUID, error) {
	if id == nil {
		return nil, nil
	}
	domainID, err := kernel.UUIDFromBytes((*id)[:])
	if err != nil {
		return nil, err
	}
	return &domainID, nil
}

// fromDomain converts an order domain aggregate to its database representation.
func fromDomain(aggregate *order.Order) OrderDTO {
	dto := OrderDTO{
		ID:                  aggregate.ID().Bytes(),
		OrderNumber:         aggregate.OrderNumber(),
		CustomerID:          aggregate.CustomerID().Bytes(),
		MerchantID:          uuidPtrFromDomain(aggregate.MerchantID()),
		RiderID:             uuidPtrFromDomain(aggregate.RiderID()),
		AddressID:           aggregate.AddressID().Bytes(),
		Status:              aggregate.Status().String(),
		PaymentStatus:       aggregate.Payment().String(),
		SubtotalCentavos:    aggregate.Subtotal().Centavos(),
		DeliveryFeeCentavos: aggregate.DeliveryFee().Centavos(),
		TotalCentavos:       aggregate.Total().Centavos(),
		BuyForYouRequestID:  uuidPtrFromDomain(aggregate.BuyForYouRequestID()),
		CreatedAt:           aggregate.CreatedAt(),
		ConfirmedAt:         aggregate.ConfirmedAt(),
		PreparingAt:         aggregate.PreparingAt(),
		ReadyAt:             aggregate.ReadyAt(),
		PickedUpAt:          aggregate.PickedUpAt(),
		DeliveredAt:         aggregate.DeliveredAt(),
		CancelledAt:         aggregate.CancelledAt(),
		CancellationReason:  aggregate.CancellationReason(),
	}

	for _, line := range aggregate.Items() {
		dto.Items = append(dto.Items, OrderItemDTO{
			OrderID:           dto.ID,
			MenuItemID:        line.MenuItemID().Bytes(),
			Quantity:          line.Quantity(),
			UnitPriceCentavos: line.UnitPrice().Centavos(),
			Notes:             line.Notes(),
		})
	}

	return dto
}

// toDomain converts a database DTO to an order domain aggregate using
// RestoreOrder, re-validating the persisted invariants along the way.
func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	customerID, err := kernel.UUIDFromBytes(dto.CustomerID[:])
	if err != nil {
		return nil, err
	}
	addressID, err := kernel.UUIDFromBytes(dto.AddressID[:])
	if err != nil {
		return nil, err
	}
	merchantID, err := uuidPtrToDomain(dto.MerchantID)
	if err != nil {
		return nil, err
	}
	riderID, err := uuidPtrToDomain(dto.RiderID)
	if err != nil {
		return nil, err
	}
	requestID, err := uuidPtrToDomain(dto.BuyForYouRequestID)
	if err != nil {
		return nil, err
	}

	status, err := order.StatusFromString(dto.Status)
	if err != nil {
		return nil, err
	}
	payment, err := order.PaymentStatusFromString(dto.PaymentStatus)
	if err != nil {
		return nil, err
	}

	subtotal, err := kernel.NewMoney(dto.SubtotalCentavos)
	if err != nil {
		return nil, err
	}
	deliveryFee, err := kernel.NewMoney(dto.DeliveryFeeCentavos)
	if err != nil {
		return nil, err
	}
	total, err := kernel.NewMoney(dto.TotalCentavos)
	if err != nil {
		return nil, err
	}

	items := make([]order.ItemLine, 0, len(dto.Items))
	for _, itemDTO := range dto.Items {
		menuItemID, itemErr := kernel.UUIDFromBytes(itemDTO.MenuItemID[:])
		if itemErr != nil {
			return nil, itemErr
		}
		unitPrice, itemErr := kernel.NewMoney(itemDTO.UnitPriceCentavos)
		if itemErr != nil {
			return nil, itemErr
		}
		line, itemErr := order.NewItemLine(menuItemID, itemDTO.Quantity, unitPrice, itemDTO.Notes)
		if itemErr != nil {
			return nil, itemErr
		}
		items = append(items, line)
	}

	return order.RestoreOrder(order.RestoreOrderParams{
		ID:                 id,
		OrderNumber:        dto.OrderNumber,
		CustomerID:         customerID,
		MerchantID:         merchantID,
		RiderID:            riderID,
		AddressID:          addressID,
		Status:             status,
		Payment:            payment,
		Subtotal:           subtotal,
		DeliveryFee:        deliveryFee,
		Total:              total,
		Items:              items,
		BuyForYouRequestID: requestID,
		CreatedAt:          dto.CreatedAt,
		ConfirmedAt:        dto.ConfirmedAt,
		PreparingAt:        dto.PreparingAt,
		ReadyAt:            dto.ReadyAt,
		PickedUpAt:         dto.PickedUpAt,
		DeliveredAt:        dto.DeliveredAt,
		CancelledAt:        dto.CancelledAt,
		CancellationReason: dto.CancellationReason,
	})
}
