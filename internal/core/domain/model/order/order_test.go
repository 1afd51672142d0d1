package order_test

import (
	"testing"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustMoney(t *testing.T, centavos int64) kernel.Money {
	t.Helper()
	m, err := kernel.NewMoney(centavos)
	require.NoError(t, err)
	return m
}

func newTestItems(t *testing.T) []order.ItemLine {
	t.Helper()
	burger, err := order.NewItemLine(kernel.NewUUID(), 2, mustMoney(t, 12500), "no onions")
	require.NoError(t, err)
	fries, err := order.NewItemLine(kernel.NewUUID(), 1, mustMoney(t, 6000), "")
	require.NoError(t, err)
	return []order.ItemLine{burger, fries}
}

func newTestMerchantOrder(t *testing.T) *order.Order {
	t.Helper()
	o, err := order.NewMerchantOrder(
		kernel.NewUUID(), "ORD-TEST0001",
		kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
		newTestItems(t), mustMoney(t, 4900), time.Now(),
	)
	require.NoError(t, err)
	return o
}

func TestNewMerchantOrder(t *testing.T) {
	t.Run("computes_totals_from_items_and_fee", func(t *testing.T) {
		o := newTestMerchantOrder(t)

		// 2x125.00 + 1x60.00 = 310.00, fee 49.00
		assert.Equal(t, int64(31000), o.Subtotal().Centavos())
		assert.Equal(t, int64(4900), o.DeliveryFee().Centavos())
		assert.Equal(t, int64(35900), o.Total().Centavos())
		assert.Equal(t, order.StatusPending, o.Status())
		assert.Equal(t, order.PaymentStatusUnpaid, o.Payment())
		assert.Nil(t, o.RiderID())
		assert.NotNil(t, o.MerchantID())
		assert.False(t, o.IsBuyForYou())
	})

	t.Run("requires_items", func(t *testing.T) {
		_, err := order.NewMerchantOrder(
			kernel.NewUUID(), "ORD-TEST0002",
			kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
			nil, mustMoney(t, 4900), time.Now(),
		)

		require.Error(t, err)
		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("requires_order_number", func(t *testing.T) {
		_, err := order.NewMerchantOrder(
			kernel.NewUUID(), "",
			kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
			newTestItems(t), mustMoney(t, 4900), time.Now(),
		)

		require.Error(t, err)
		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("requires_valid_identifiers", func(t *testing.T) {
		_, err := order.NewMerchantOrder(
			kernel.UUID{}, "ORD-TEST0003",
			kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
			newTestItems(t), mustMoney(t, 4900), time.Now(),
		)

		require.Error(t, err)
	})
}

func TestNewBuyForYouOrder(t *testing.T) {
	serviceFee := mustMoney(t, 8000)

	o, err := order.NewBuyForYouOrder(
		kernel.NewUUID(), "ORD-TEST0004",
		kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
		serviceFee, time.Now(),
	)

	require.NoError(t, err)
	assert.True(t, o.IsBuyForYou())
	assert.Nil(t, o.MerchantID())
	assert.Empty(t, o.Items())
	assert.True(t, o.Subtotal().IsZero())
	assert.Equal(t, serviceFee, o.DeliveryFee())
	assert.Equal(t, serviceFee, o.Total())
	assert.Equal(t, order.StatusPending, o.Status())
}

func TestRestoreOrder(t *testing.T) {
	t.Run("rejects_both_items_and_request_link", func(t *testing.T) {
		requestID := kernel.NewUUID()

		_, err := order.RestoreOrder(order.RestoreOrderParams{
			ID:                 kernel.NewUUID(),
			OrderNumber:        "ORD-TEST0005",
			CustomerID:         kernel.NewUUID(),
			AddressID:          kernel.NewUUID(),
			Status:             order.StatusPending,
			Payment:            order.PaymentStatusUnpaid,
			Items:              newTestItems(t),
			BuyForYouRequestID: &requestID,
			CreatedAt:          time.Now(),
		})

		require.Error(t, err)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("rejects_neither_items_nor_request_link", func(t *testing.T) {
		_, err := order.RestoreOrder(order.RestoreOrderParams{
			ID:          kernel.NewUUID(),
			OrderNumber: "ORD-TEST0006",
			CustomerID:  kernel.NewUUID(),
			AddressID:   kernel.NewUUID(),
			Status:      order.StatusPending,
			Payment:     order.PaymentStatusUnpaid,
			CreatedAt:   time.Now(),
		})

		require.Error(t, err)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("restores_full_state", func(t *testing.T) {
		riderID := kernel.NewUUID()
		pickedUp := time.Now().Add(-time.Minute)
		merchantID := kernel.NewUUID()

		o, err := order.RestoreOrder(order.RestoreOrderParams{
			ID:          kernel.NewUUID(),
			OrderNumber: "ORD-TEST0007",
			CustomerID:  kernel.NewUUID(),
			MerchantID:  &merchantID,
			RiderID:     &riderID,
			AddressID:   kernel.NewUUID(),
			Status:      order.StatusDelivering,
			Payment:     order.PaymentStatusUnpaid,
			Items:       newTestItems(t),
			PickedUpAt:  &pickedUp,
			CreatedAt:   time.Now().Add(-time.Hour),
		})

		require.NoError(t, err)
		assert.Equal(t, order.StatusDelivering, o.Status())
		require.NotNil(t, o.RiderID())
		assert.True(t, o.RiderID().IsEqual(riderID))
		assert.Equal(t, &pickedUp, o.PickedUpAt())
	})
}

func TestOrder_Validate(t *testing.T) {
	var o order.Order
	require.ErrorIs(t, o.Validate(), order.ErrOrderIsNotConstructed)
	require.NoError(t, newTestMerchantOrder(t).Validate())
}

func TestOrder_TransitionTo(t *testing.T) {
	now := time.Now()

	t.Run("forward_path_stamps_timestamps", func(t *testing.T) {
		o := newTestMerchantOrder(t)

		require.NoError(t, o.TransitionTo(order.StatusConfirmed, order.RoleMerchant, "", now))
		require.NotNil(t, o.ConfirmedAt())

		require.NoError(t, o.TransitionTo(order.StatusPreparing, order.RoleMerchant, "", now))
		require.NotNil(t, o.PreparingAt())

		require.NoError(t, o.TransitionTo(order.StatusReadyForPickup, order.RoleMerchant, "", now))
		require.NotNil(t, o.ReadyAt())

		require.NoError(t, o.TransitionTo(order.StatusDelivering, order.RoleRider, "", now))
		require.NotNil(t, o.PickedUpAt())
	})

	t.Run("delivered_marks_paid_and_stamps", func(t *testing.T) {
		o := newTestMerchantOrder(t)
		require.NoError(t, o.TransitionTo(order.StatusConfirmed, order.RoleMerchant, "", now))
		require.NoError(t, o.TransitionTo(order.StatusPreparing, order.RoleMerchant, "", now))
		require.NoError(t, o.TransitionTo(order.StatusReadyForPickup, order.RoleMerchant, "", now))
		require.NoError(t, o.TransitionTo(order.StatusPickedUp, order.RoleRider, "", now))

		deliveredAt := now.Add(20 * time.Minute)
		require.NoError(t, o.TransitionTo(order.StatusDelivered, order.RoleRider, "", deliveredAt))

		assert.Equal(t, order.StatusDelivered, o.Status())
		assert.Equal(t, order.PaymentStatusPaid, o.Payment())
		require.NotNil(t, o.DeliveredAt())
		assert.Equal(t, deliveredAt, *o.DeliveredAt())
	})

	t.Run("cancellation_requires_reason", func(t *testing.T) {
		o := newTestMerchantOrder(t)

		err := o.TransitionTo(order.StatusCancelled, order.RoleCustomer, "  ", now)
		require.ErrorIs(t, err, order.ErrCancellationReasonRequired)
		assert.Equal(t, order.StatusPending, o.Status())

		require.NoError(t, o.TransitionTo(order.StatusCancelled, order.RoleCustomer, "changed my mind", now))
		assert.Equal(t, order.StatusCancelled, o.Status())
		assert.Equal(t, "changed my mind", o.CancellationReason())
		require.NotNil(t, o.CancelledAt())
	})

	t.Run("cancellation_rejected_after_delivery", func(t *testing.T) {
		o := newTestMerchantOrder(t)
		require.NoError(t, o.TransitionTo(order.StatusConfirmed, order.RoleMerchant, "", now))
		require.NoError(t, o.TransitionTo(order.StatusPreparing, order.RoleMerchant, "", now))
		require.NoError(t, o.TransitionTo(order.StatusReadyForPickup, order.RoleMerchant, "", now))
		require.NoError(t, o.TransitionTo(order.StatusDelivering, order.RoleRider, "", now))
		require.NoError(t, o.TransitionTo(order.StatusDelivered, order.RoleRider, "", now))

		err := o.TransitionTo(order.StatusCancelled, order.RoleCoordinator, "fraud", now)
		require.ErrorIs(t, err, order.ErrInvalidTransition)
	})

	t.Run("invalid_transition_names_both_states", func(t *testing.T) {
		o := newTestMerchantOrder(t)

		err := o.TransitionTo(order.StatusDelivered, order.RoleRider, "", now)

		require.ErrorIs(t, err, order.ErrInvalidTransition)
		assert.Contains(t, err.Error(), "PENDING")
		assert.Contains(t, err.Error(), "DELIVERED")
		assert.Equal(t, order.StatusPending, o.Status())
	})
}

func TestOrder_AssignRider(t *testing.T) {
	t.Run("assigns_rider_directly", func(t *testing.T) {
		o := newTestMerchantOrder(t)
		riderID := kernel.NewUUID()

		require.NoError(t, o.AssignRider(riderID))

		require.NotNil(t, o.RiderID())
		assert.True(t, o.RiderID().IsEqual(riderID))
	})

	t.Run("reassignment_is_allowed", func(t *testing.T) {
		o := newTestMerchantOrder(t)
		require.NoError(t, o.AssignRider(kernel.NewUUID()))

		second := kernel.NewUUID()
		require.NoError(t, o.AssignRider(second))
		assert.True(t, o.RiderID().IsEqual(second))
	})

	t.Run("rejects_terminal_orders", func(t *testing.T) {
		o := newTestMerchantOrder(t)
		require.NoError(t, o.TransitionTo(order.StatusCancelled, order.RoleCustomer, "dup", time.Now()))

		err := o.AssignRider(kernel.NewUUID())
		require.ErrorIs(t, err, order.ErrOrderIsTerminal)
	})

	t.Run("rejects_invalid_rider_id", func(t *testing.T) {
		o := newTestMerchantOrder(t)

		require.Error(t, o.AssignRider(kernel.UUID{}))
	})
}

func TestOrder_Snapshot(t *testing.T) {
	o := newTestMerchantOrder(t)
	require.NoError(t, o.AssignRider(kernel.NewUUID()))

	snap := o.Snapshot()

	assert.Equal(t, o.ID().String(), snap.ID)
	assert.Equal(t, "ORD-TEST0001", snap.OrderNumber)
	assert.Equal(t, "PENDING", snap.Status)
	assert.Equal(t, "UNPAID", snap.PaymentStatus)
	assert.InDelta(t, 310.0, snap.Subtotal, 1e-9)
	assert.InDelta(t, 49.0, snap.DeliveryFee, 1e-9)
	assert.InDelta(t, 359.0, snap.Total, 1e-9)
	require.NotNil(t, snap.RiderID)
	require.NotNil(t, snap.MerchantID)
	assert.Nil(t, snap.BuyForYouRequestID)
	assert.Len(t, snap.Items, 2)
	assert.Equal(t, 2, snap.Items[0].Quantity)
}
