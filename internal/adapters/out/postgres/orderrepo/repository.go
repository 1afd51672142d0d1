package orderrepo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

// GormOrderRepository implements ports.OrderRepository using GORM.
type GormOrderRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormOrderRepository creates a new GORM order repository.
func NewGormOrderRepository(db *gorm.DB, tracker aggregateTracker) *GormOrderRepository {
	return &GormOrderRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new order and its item lines to the database.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update saves an existing order to the database. Item lines are immutable
// after creation and are deliberately left untouched. A transition into
// DELIVERING or PICKED_UP for a rider who already holds an active delivery
// trips the partial unique index and returns ErrRiderHasActiveDelivery.
func (r *GormOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).Model(&OrderDTO{}).
		Omit(clause.Associations).
		Where("id = ?", dto.ID).
		Updates(&dto)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return ports.ErrRiderHasActiveDelivery
		}
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves an order with its item lines by ID.
func (r *GormOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	err := r.db.WithContext(ctx).Preload("Items").First(&dto, "id = ?", id.Bytes()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetActiveByRider retrieves the rider's order in DELIVERING or PICKED_UP
// status, if any.
func (r *GormOrderRepository) GetActiveByRider(ctx context.Context, riderID kernel.UUID) (*order.Order, error) {
	if err := riderID.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	err := r.db.WithContext(ctx).Preload("Items").
		Where("rider_id = ? AND status IN ?", riderID.Bytes(), activeStatuses()).
		First(&dto).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("active order for rider", riderID.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// ClaimForRider atomically grants the rider the order via a single
// conditional UPDATE. The predicate re-checks the order is still
// READY_FOR_PICKUP with no rider at write time; whichever concurrent claim
// the database applies first affects the row, every other one matches zero
// rows and loses. The rider side of the claim is guarded by the partial
// unique index on rider_id: a write that would give the rider a second
// active delivery fails the constraint even when the two claims target
// different orders.
func (r *GormOrderRepository) ClaimForRider(
	ctx context.Context,
	orderID, riderID kernel.UUID,
	at time.Time,
) (*order.Order, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}
	if err := riderID.Validate(); err != nil {
		return nil, err
	}

	result := r.db.WithContext(ctx).Model(&OrderDTO{}).
		Where("id = ? AND status = ? AND rider_id IS NULL",
			orderID.Bytes(), order.StatusReadyForPickup.String()).
		Updates(map[string]any{
			"rider_id":     riderID.Bytes(),
			"status":       order.StatusDelivering.String(),
			"picked_up_at": at,
		})
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return nil, ports.ErrRiderHasActiveDelivery
		}
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ports.ErrOrderAlreadyTaken
	}

	claimed, err := r.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}

	r.tracker.TrackAggregate(claimed.ID(), claimed)
	return claimed, nil
}

func activeStatuses() []string {
	return []string{
		order.StatusDelivering.String(),
		order.StatusPickedUp.String(),
	}
}
