package queries

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"fulfillment/internal/core/domain/model/order"
)

// GetAvailableOrdersQueryHandler reads the claimable order list from the
// database, oldest first so long-waiting orders surface at the top of every
// rider's screen.
type GetAvailableOrdersQueryHandler struct {
	db *gorm.DB
}

// NewGetAvailableOrdersQueryHandler creates a handler for the claimable list.
func NewGetAvailableOrdersQueryHandler(db *gorm.DB) GetAvailableOrdersQueryHandler {
	return GetAvailableOrdersQueryHandler{db: db}
}

// Handle returns the full denormalized shape of every claimable order.
func (h GetAvailableOrdersQueryHandler) Handle(
	ctx context.Context,
	query GetAvailableOrdersQuery,
) ([]order.Snapshot, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	var rows []orderRow
	err := h.db.WithContext(ctx).Raw(`
		SELECT `+orderColumns+`
		FROM orders
		WHERE status = ? AND rider_id IS NULL
		ORDER BY created_at
	`, order.StatusReadyForPickup.String()).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	orderIDs := make([]uuid.UUID, 0, len(rows))
	for _, row := range rows {
		orderIDs = append(orderIDs, row.ID)
	}
	itemsByOrder, err := loadItemsByOrder(ctx, h.db, orderIDs)
	if err != nil {
		return nil, err
	}

	snapshots := make([]order.Snapshot, 0, len(rows))
	for _, row := range rows {
		snapshots = append(snapshots, row.toSnapshot(itemsByOrder[row.ID]))
	}
	return snapshots, nil
}
