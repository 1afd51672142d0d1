package queries

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"
)

// GetRiderActiveOrderQueryHandler reads the rider's in-flight delivery.
type GetRiderActiveOrderQueryHandler struct {
	db *gorm.DB
}

// NewGetRiderActiveOrderQueryHandler creates a handler for active-delivery reads.
func NewGetRiderActiveOrderQueryHandler(db *gorm.DB) GetRiderActiveOrderQueryHandler {
	return GetRiderActiveOrderQueryHandler{db: db}
}

// Handle returns the rider's DELIVERING or PICKED_UP order, or an
// errs.ObjectNotFoundError when the rider has nothing in flight.
func (h GetRiderActiveOrderQueryHandler) Handle(
	ctx context.Context,
	query GetRiderActiveOrderQuery,
) (order.Snapshot, error) {
	if err := query.Validate(); err != nil {
		return order.Snapshot{}, err
	}

	var rows []orderRow
	err := h.db.WithContext(ctx).Raw(`
		SELECT `+orderColumns+`
		FROM orders
		WHERE rider_id = ? AND status IN ?
	`, query.RiderID().Bytes(), []string{
		order.StatusDelivering.String(),
		order.StatusPickedUp.String(),
	}).Scan(&rows).Error
	if err != nil {
		return order.Snapshot{}, err
	}
	if len(rows) == 0 {
		return order.Snapshot{}, errs.NewObjectNotFoundError("riderID", query.RiderID().String())
	}

	row := rows[0]
	itemsByOrder, err := loadItemsByOrder(ctx, h.db, []uuid.UUID{row.ID})
	if err != nil {
		return order.Snapshot{}, err
	}

	return row.toSnapshot(itemsByOrder[row.ID]), nil
}
