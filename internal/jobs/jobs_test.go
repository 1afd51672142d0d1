package jobs

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/rider"
	"fulfillment/internal/core/ports"
)

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

type fakeOrdersSource struct {
	snapshots []order.Snapshot
	err       error
}

func (s *fakeOrdersSource) Handle(context.Context, queries.GetAvailableOrdersQuery) ([]order.Snapshot, error) {
	return s.snapshots, s.err
}

type publishedEvent struct {
	Role    string
	Event   string
	Payload any
}

type fakeEventBus struct {
	published []publishedEvent
}

func (b *fakeEventBus) PublishToUser(context.Context, string, string, any) {}

func (b *fakeEventBus) PublishToRole(_ context.Context, role string, event string, payload any) {
	b.published = append(b.published, publishedEvent{Role: role, Event: event, Payload: payload})
}

func (b *fakeEventBus) Broadcast(context.Context, string, any) {}

func TestAvailableOrdersBroadcastJob_Run(t *testing.T) {
	t.Run("publishes pool to riders", func(t *testing.T) {
		source := &fakeOrdersSource{snapshots: []order.Snapshot{{ID: "o1"}, {ID: "o2"}}}
		bus := &fakeEventBus{}
		job := NewAvailableOrdersBroadcastJob(source, bus, "*/15 * * * * *", testLogger())

		job.run(context.Background())

		require.Len(t, bus.published, 1)
		assert.Equal(t, "rider", bus.published[0].Role)
		assert.Equal(t, ports.EventOrderAvailable, bus.published[0].Event)
		assert.Equal(t, source.snapshots, bus.published[0].Payload)
	})

	t.Run("empty pool publishes nothing", func(t *testing.T) {
		bus := &fakeEventBus{}
		job := NewAvailableOrdersBroadcastJob(&fakeOrdersSource{}, bus, "*/15 * * * * *", testLogger())

		job.run(context.Background())

		assert.Empty(t, bus.published)
	})

	t.Run("query failure publishes nothing", func(t *testing.T) {
		source := &fakeOrdersSource{err: errors.New("db down")}
		bus := &fakeEventBus{}
		job := NewAvailableOrdersBroadcastJob(source, bus, "*/15 * * * * *", testLogger())

		job.run(context.Background())

		assert.Empty(t, bus.published)
	})

	t.Run("rejects malformed schedule on start", func(t *testing.T) {
		job := NewAvailableOrdersBroadcastJob(&fakeOrdersSource{}, &fakeEventBus{}, "not a cron", testLogger())
		assert.Error(t, job.Start())
	})
}

type fakeRiderRepo struct {
	cutoff   time.Time
	affected int64
	err      error
}

func (r *fakeRiderRepo) Add(context.Context, *rider.Rider) error    { return nil }
func (r *fakeRiderRepo) Update(context.Context, *rider.Rider) error { return nil }
func (r *fakeRiderRepo) Get(context.Context, kernel.UUID) (*rider.Rider, error) {
	return nil, errors.New("not implemented")
}

func (r *fakeRiderRepo) MarkStaleOffline(_ context.Context, cutoff time.Time) (int64, error) {
	r.cutoff = cutoff
	return r.affected, r.err
}

type fakeRiderUoW struct {
	repo       *fakeRiderRepo
	began      bool
	committed  bool
	rolledBack bool
}

func (u *fakeRiderUoW) Begin(context.Context) error { u.began = true; return nil }
func (u *fakeRiderUoW) Commit(context.Context) error {
	u.committed = true
	return nil
}
func (u *fakeRiderUoW) Rollback(context.Context) error {
	u.rolledBack = true
	return nil
}
func (u *fakeRiderUoW) RiderRepository() ports.RiderRepository { return u.repo }

type fakeRiderUoWFactory struct {
	uow *fakeRiderUoW
}

func (f *fakeRiderUoWFactory) Create() commands.RiderUoW { return f.uow }

func TestStaleRiderSweepJob_Run(t *testing.T) {
	t.Run("sweeps with cutoff derived from window", func(t *testing.T) {
		repo := &fakeRiderRepo{affected: 3}
		factory := &fakeRiderUoWFactory{uow: &fakeRiderUoW{repo: repo}}
		job := NewStaleRiderSweepJob(factory, 5*time.Minute, "0 * * * * *", testLogger())

		before := time.Now().UTC().Add(-5 * time.Minute)
		job.run(context.Background())
		after := time.Now().UTC().Add(-5 * time.Minute)

		assert.True(t, factory.uow.began)
		assert.True(t, factory.uow.committed)
		assert.False(t, repo.cutoff.Before(before))
		assert.False(t, repo.cutoff.After(after))
	})

	t.Run("sweep failure rolls back", func(t *testing.T) {
		repo := &fakeRiderRepo{err: errors.New("db down")}
		factory := &fakeRiderUoWFactory{uow: &fakeRiderUoW{repo: repo}}
		job := NewStaleRiderSweepJob(factory, 5*time.Minute, "0 * * * * *", testLogger())

		job.run(context.Background())

		assert.False(t, factory.uow.committed)
		assert.True(t, factory.uow.rolledBack)
	})
}
