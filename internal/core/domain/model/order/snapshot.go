package order

import "time"

// Snapshot is the full denormalized order state as currently persisted.
// It is the payload shape for every order event; clients receive the whole
// object, not a diff.
type Snapshot struct {
	ID                 string         `json:"id"`
	OrderNumber        string         `json:"orderNumber"`
	CustomerID         string         `json:"customerId"`
	MerchantID         *string        `json:"merchantId,omitempty"`
	RiderID            *string        `json:"riderId,omitempty"`
	AddressID          string         `json:"addressId"`
	Status             string         `json:"status"`
	PaymentStatus      string         `json:"paymentStatus"`
	Subtotal           float64        `json:"subtotal"`
	DeliveryFee        float64        `json:"deliveryFee"`
	Total              float64        `json:"total"`
	Items              []ItemSnapshot `json:"items,omitempty"`
	BuyForYouRequestID *string        `json:"buyForYouRequestId,omitempty"`
	CreatedAt          time.Time      `json:"createdAt"`
	ConfirmedAt        *time.Time     `json:"confirmedAt,omitempty"`
	PreparingAt        *time.Time     `json:"preparingAt,omitempty"`
	ReadyAt            *time.Time     `json:"readyAt,omitempty"`
	PickedUpAt         *time.Time     `json:"pickedUpAt,omitempty"`
	DeliveredAt        *time.Time     `json:"deliveredAt,omitempty"`
	CancelledAt        *time.Time     `json:"cancelledAt,omitempty"`
	CancellationReason string         `json:"cancellationReason,omitempty"`
}

// ItemSnapshot is the denormalized form of one item line.
type ItemSnapshot struct {
	MenuItemID string  `json:"menuItemId"`
	Quantity   int     `json:"quantity"`
	UnitPrice  float64 `json:"unitPrice"`
	Notes      string  `json:"notes,omitempty"`
}

// Snapshot returns the order's denormalized current state for event payloads
// and query responses.
func (o *Order) Snapshot() Snapshot {
	snap := Snapshot{
		ID:                 o.id.String(),
		OrderNumber:        o.orderNumber,
		CustomerID:         o.customerID.String(),
		AddressID:          o.addressID.String(),
		Status:             o.status.String(),
		PaymentStatus:      o.payment.String(),
		Subtotal:           o.subtotal.Pesos(),
		DeliveryFee:        o.deliveryFee.Pesos(),
		Total:              o.total.Pesos(),
		CreatedAt:          o.createdAt,
		ConfirmedAt:        o.confirmedAt,
		PreparingAt:        o.preparingAt,
		ReadyAt:            o.readyAt,
		PickedUpAt:         o.pickedUpAt,
		DeliveredAt:        o.deliveredAt,
		CancelledAt:        o.cancelledAt,
		CancellationReason: o.cancellationReason,
	}

	if o.merchantID != nil {
		id := o.merchantID.String()
		snap.MerchantID = &id
	}
	if o.riderID != nil {
		id := o.riderID.String()
		snap.RiderID = &id
	}
	if o.buyForYouRequestID != nil {
		id := o.buyForYouRequestID.String()
		snap.BuyForYouRequestID = &id
	}

	for _, line := range o.items {
		snap.Items = append(snap.Items, ItemSnapshot{
			MenuItemID: line.MenuItemID().String(),
			Quantity:   line.Quantity(),
			UnitPrice:  line.UnitPrice().Pesos(),
			Notes:      line.Notes(),
		})
	}

	return snap
}
