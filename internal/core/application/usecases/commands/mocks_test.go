package commands_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/rider"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/core/ports"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetActiveByRider(ctx context.Context, riderID kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, riderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) ClaimForRider(
	ctx context.Context, orderID, riderID kernel.UUID, at time.Time,
) (*order.Order, error) {
	args := m.Called(ctx, orderID, riderID, at)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

type MockRiderRepository struct{ mock.Mock }

func (m *MockRiderRepository) Add(ctx context.Context, r *rider.Rider) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockRiderRepository) Update(ctx context.Context, r *rider.Rider) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockRiderRepository) Get(ctx context.Context, id kernel.UUID) (*rider.Rider, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*rider.Rider), args.Error(1)
}

func (m *MockRiderRepository) MarkStaleOffline(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

func (m *MockUoW) RiderRepository() ports.RiderRepository {
	args := m.Called()
	return args.Get(0).(ports.RiderRepository)
}

type MockUoWFactory struct{ mock.Mock }

func (m *MockUoWFactory) Create() commands.UoW {
	args := m.Called()
	return args.Get(0).(commands.UoW)
}

type MockOrderUoWFactory struct{ mock.Mock }

func (m *MockOrderUoWFactory) Create() commands.OrderUoW {
	args := m.Called()
	return args.Get(0).(commands.OrderUoW)
}

type MockRiderUoWFactory struct{ mock.Mock }

func (m *MockRiderUoWFactory) Create() commands.RiderUoW {
	args := m.Called()
	return args.Get(0).(commands.RiderUoW)
}

type MockEventBus struct{ mock.Mock }

func (m *MockEventBus) PublishToUser(ctx context.Context, userID string, event string, payload any) {
	m.Called(ctx, userID, event, payload)
}

func (m *MockEventBus) PublishToRole(ctx context.Context, role string, event string, payload any) {
	m.Called(ctx, role, event, payload)
}

func (m *MockEventBus) Broadcast(ctx context.Context, event string, payload any) {
	m.Called(ctx, event, payload)
}

type MockStorefrontGateway struct{ mock.Mock }

func (m *MockStorefrontGateway) GetMerchant(ctx context.Context, id kernel.UUID) (ports.Merchant, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(ports.Merchant), args.Error(1)
}

func (m *MockStorefrontGateway) GetCustomerAddress(ctx context.Context, id kernel.UUID) (ports.CustomerAddress, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(ports.CustomerAddress), args.Error(1)
}

func (m *MockStorefrontGateway) GetMenuItems(
	ctx context.Context, ids []kernel.UUID,
) (map[kernel.UUID]ports.MenuItem, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[kernel.UUID]ports.MenuItem), args.Error(1)
}

func (m *MockStorefrontGateway) GetBuyForYouRequest(
	ctx context.Context, id kernel.UUID,
) (ports.BuyForYouRequest, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(ports.BuyForYouRequest), args.Error(1)
}

type stubRoutingClient struct {
	route ports.Route
	err   error
}

func (s stubRoutingClient) Route(_ context.Context, _, _ kernel.GeoPoint) (ports.Route, error) {
	return s.route, s.err
}

func testFeeCalculator(t *testing.T, routing ports.RoutingClient) services.DeliveryFeeCalculator {
	t.Helper()
	fee, err := kernel.NewMoneyFromPesos(49)
	require.NoError(t, err)
	tier, err := services.NewFeeTier(0, 50, fee)
	require.NoError(t, err)
	schedule, err := services.NewFeeSchedule([]services.FeeTier{tier})
	require.NoError(t, err)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return services.NewDeliveryFeeCalculator(routing, schedule, logger)
}

func mustGeoPoint(t *testing.T, lat, lon float64) kernel.GeoPoint {
	t.Helper()
	p, err := kernel.NewGeoPoint(lat, lon)
	require.NoError(t, err)
	return p
}

func mustMoney(t *testing.T, centavos int64) kernel.Money {
	t.Helper()
	m, err := kernel.NewMoney(centavos)
	require.NoError(t, err)
	return m
}

func newAvailableRider(t *testing.T, id kernel.UUID) *rider.Rider {
	t.Helper()
	r, err := rider.NewRider(id)
	require.NoError(t, err)
	require.NoError(t, r.SetStatus(rider.StatusAvailable))
	return r
}

func newOfflineRider(t *testing.T, id kernel.UUID) *rider.Rider {
	t.Helper()
	r, err := rider.NewRider(id)
	require.NoError(t, err)
	return r
}

func newReadyOrder(t *testing.T, id kernel.UUID) *order.Order {
	t.Helper()
	line, err := order.NewItemLine(kernel.NewUUID(), 1, mustMoney(t, 12500), "")
	require.NoError(t, err)

	aggregate, err := order.NewMerchantOrder(
		id, "ORD-TEST0001", kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
		[]order.ItemLine{line}, mustMoney(t, 4900), time.Now().UTC(),
	)
	require.NoError(t, err)

	now := time.Now().UTC()
	require.NoError(t, aggregate.TransitionTo(order.StatusConfirmed, order.RoleMerchant, "", now))
	require.NoError(t, aggregate.TransitionTo(order.StatusPreparing, order.RoleMerchant, "", now))
	require.NoError(t, aggregate.TransitionTo(order.StatusReadyForPickup, order.RoleMerchant, "", now))
	return aggregate
}

func newClaimedOrder(t *testing.T, id, riderID kernel.UUID) *order.Order {
	t.Helper()
	aggregate := newReadyOrder(t, id)
	require.NoError(t, aggregate.AssignRider(riderID))
	require.NoError(t, aggregate.TransitionTo(order.StatusDelivering, order.RoleRider, "", time.Now().UTC()))
	return aggregate
}
