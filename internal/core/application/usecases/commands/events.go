package commands

import (
	"context"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
)

// publishOrderUpdated notifies every party attached to the order: the
// customer, the merchant, and the assigned rider. Called only after a
// successful commit; delivery is best effort.
func publishOrderUpdated(ctx context.Context, bus ports.EventBus, aggregate *order.Order) {
	snapshot := aggregate.Snapshot()
	bus.PublishToUser(ctx, aggregate.CustomerID().String(), ports.EventOrderUpdated, snapshot)
	if merchantID := aggregate.MerchantID(); merchantID != nil {
		bus.PublishToUser(ctx, merchantID.String(), ports.EventOrderUpdated, snapshot)
	}
	if riderID := aggregate.RiderID(); riderID != nil {
		bus.PublishToUser(ctx, riderID.String(), ports.EventOrderUpdated, snapshot)
	}
}
