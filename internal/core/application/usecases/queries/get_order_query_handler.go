package queries

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"
)

// GetOrderQueryHandler reads a single order by id.
type GetOrderQueryHandler struct {
	db *gorm.DB
}

// NewGetOrderQueryHandler creates a handler for single-order reads.
func NewGetOrderQueryHandler(db *gorm.DB) GetOrderQueryHandler {
	return GetOrderQueryHandler{db: db}
}

// Handle returns the order's full denormalized shape, or an
// errs.ObjectNotFoundError when no such order exists.
func (h GetOrderQueryHandler) Handle(ctx context.Context, query GetOrderQuery) (order.Snapshot, error) {
	if err := query.Validate(); err != nil {
		return order.Snapshot{}, err
	}

	var rows []orderRow
	err := h.db.WithContext(ctx).Raw(`
		SELECT `+orderColumns+`
		FROM orders
		WHERE id = ?
	`, query.OrderID().Bytes()).Scan(&rows).Error
	if err != nil {
		return order.Snapshot{}, err
	}
	if len(rows) == 0 {
		return order.Snapshot{}, errs.NewObjectNotFoundError("orderID", query.OrderID().String())
	}

	row := rows[0]
	itemsByOrder, err := loadItemsByOrder(ctx, h.db, []uuid.UUID{row.ID})
	if err != nil {
		return order.Snapshot{}, err
	}

	return row.toSnapshot(itemsByOrder[row.ID]), nil
}
