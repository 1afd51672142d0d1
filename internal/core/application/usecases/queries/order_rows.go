// Package queries contains read-only operations for the CQRS read side.
// Query handlers go straight to the database and return denormalized
// responses; they never load or mutate domain aggregates.
package queries

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"fulfillment/internal/core/domain/model/order"
)

// orderRow is the flat scan target for the orders table.
type orderRow struct {
	ID                  uuid.UUID
	OrderNumber         string
	CustomerID          uuid.UUID
	MerchantID          *uuid.UUID
	RiderID             *uuid.UUID
	AddressID           uuid.UUID
	Status              string
	PaymentStatus       string
	SubtotalCentavos    int64
	DeliveryFeeCentavos int64
	TotalCentavos       int64
	BuyForYouRequestID  *uuid.UUID
	CreatedAt           time.Time
	ConfirmedAt         *time.Time
	PreparingAt         *time.Time
	ReadyAt             *time.Time
	PickedUpAt          *time.Time
	DeliveredAt         *time.Time
	CancelledAt         *time.Time
	CancellationReason  string
}

// orderItemRow is the flat scan target for the order_items table.
type orderItemRow struct {
	OrderID           uuid.UUID
	MenuItemID        uuid.UUID
	Quantity          int
	UnitPriceCentavos int64
	Notes             string
}

const orderColumns = `
	id, order_number, customer_id, merchant_id, rider_id, address_id,
	status, payment_status, subtotal_centavos, delivery_fee_centavos,
	total_centavos, buy_for_you_request_id, created_at, confirmed_at,
	preparing_at, ready_at, picked_up_at, delivered_at, cancelled_at,
	cancellation_reason`

func centavosToPesos(centavos int64) float64 {
	return float64(centavos) / 100
}

func uuidPtrToString(id *uuid.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}

// toSnapshot assembles the denormalized response shape shared with order
// event payloads.
func (r orderRow) toSnapshot(items []orderItemRow) order.Snapshot {
	snap := order.Snapshot{
		ID:                 r.ID.String(),
		OrderNumber:        r.OrderNumber,
		CustomerID:         r.CustomerID.String(),
		MerchantID:         uuidPtrToString(r.MerchantID),
		RiderID:            uuidPtrToString(r.RiderID),
		AddressID:          r.AddressID.String(),
		Status:             r.Status,
		PaymentStatus:      r.PaymentStatus,
		Subtotal:           centavosToPesos(r.SubtotalCentavos),
		DeliveryFee:        centavosToPesos(r.DeliveryFeeCentavos),
		Total:              centavosToPesos(r.TotalCentavos),
		BuyForYouRequestID: uuidPtrToString(r.BuyForYouRequestID),
		CreatedAt:          r.CreatedAt,
		ConfirmedAt:        r.ConfirmedAt,
		PreparingAt:        r.PreparingAt,
		ReadyAt:            r.ReadyAt,
		PickedUpAt:         r.PickedUpAt,
		DeliveredAt:        r.DeliveredAt,
		CancelledAt:        r.CancelledAt,
		CancellationReason: r.CancellationReason,
	}

	for _, item := range items {
		snap.Items = append(snap.Items, order.ItemSnapshot{
			MenuItemID: item.MenuItemID.String(),
			Quantity:   item.Quantity,
			UnitPrice:  centavosToPesos(item.UnitPriceCentavos),
			Notes:      item.Notes,
		})
	}

	return snap
}

// loadItemsByOrder fetches the item lines for a set of orders in one round
// trip, grouped by order id.
func loadItemsByOrder(ctx context.Context, db *gorm.DB, orderIDs []uuid.UUID) (map[uuid.UUID][]orderItemRow, error) {
	grouped := make(map[uuid.UUID][]orderItemRow, len(orderIDs))
	if len(orderIDs) == 0 {
		return grouped, nil
	}

	var rows []orderItemRow
	err := db.WithContext(ctx).Raw(`
		SELECT order_id, menu_item_id, quantity, unit_price_centavos, notes
		FROM order_items
		WHERE order_id IN ?
	`, orderIDs).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		grouped[row.OrderID] = append(grouped[row.OrderID], row)
	}
	return grouped, nil
}
