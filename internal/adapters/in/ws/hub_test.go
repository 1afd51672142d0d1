package ws

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fulfillment/internal/adapters/in/auth"
)

type fakeSession struct {
	mu       sync.Mutex
	messages [][]byte
	failNext bool
	closed   bool
}

func (s *fakeSession) Send(message []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failNext {
		return errors.New("broken pipe")
	}
	s.messages = append(s.messages, message)
	return nil
}

func (s *fakeSession) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *fakeSession) received(t *testing.T) []envelope {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]envelope, 0, len(s.messages))
	for _, raw := range s.messages {
		var e envelope
		require.NoError(t, json.Unmarshal(raw, &e))
		out = append(out, e)
	}
	return out
}

func testHub() *Hub {
	return NewHub(slog.New(slog.NewTextHandler(testWriter{}, nil)))
}

type testWriter struct{}

func (testWriter) Write(p []byte) (int, error) { return len(p), nil }

func TestHub_PublishToUser(t *testing.T) {
	hub := testHub()
	ctx := context.Background()

	alice := &fakeSession{}
	aliceSecond := &fakeSession{}
	bob := &fakeSession{}
	hub.Register(auth.Principal{UserID: "alice", Role: "customer"}, alice)
	hub.Register(auth.Principal{UserID: "alice", Role: "customer"}, aliceSecond)
	hub.Register(auth.Principal{UserID: "bob", Role: "customer"}, bob)

	hub.PublishToUser(ctx, "alice", "order:updated", map[string]string{"id": "o1"})

	require.Len(t, alice.received(t), 1)
	assert.Equal(t, "order:updated", alice.received(t)[0].Event)
	// Every live connection of the user gets the event.
	require.Len(t, aliceSecond.received(t), 1)
	assert.Empty(t, bob.received(t))
}

func TestHub_PublishToRole(t *testing.T) {
	hub := testHub()
	ctx := context.Background()

	riderOne := &fakeSession{}
	riderTwo := &fakeSession{}
	customer := &fakeSession{}
	hub.Register(auth.Principal{UserID: "r1", Role: "rider"}, riderOne)
	hub.Register(auth.Principal{UserID: "r2", Role: "rider"}, riderTwo)
	hub.Register(auth.Principal{UserID: "c1", Role: "customer"}, customer)

	hub.PublishToRole(ctx, "rider", "order:available", nil)

	assert.Len(t, riderOne.received(t), 1)
	assert.Len(t, riderTwo.received(t), 1)
	assert.Empty(t, customer.received(t))
}

func TestHub_Broadcast(t *testing.T) {
	hub := testHub()
	ctx := context.Background()

	sessions := []*fakeSession{{}, {}, {}}
	hub.Register(auth.Principal{UserID: "c1", Role: "customer"}, sessions[0])
	hub.Register(auth.Principal{UserID: "m1", Role: "merchant"}, sessions[1])
	hub.Register(auth.Principal{UserID: "r1", Role: "rider"}, sessions[2])

	hub.Broadcast(ctx, "rider:location", map[string]string{"rider_id": "r1"})

	for _, s := range sessions {
		require.Len(t, s.received(t), 1)
		assert.Equal(t, "rider:location", s.received(t)[0].Event)
	}
}

func TestHub_LateSubscriberMissesEarlierEvents(t *testing.T) {
	hub := testHub()
	ctx := context.Background()

	hub.Broadcast(ctx, "order:available", nil)

	late := &fakeSession{}
	hub.Register(auth.Principal{UserID: "r1", Role: "rider"}, late)

	assert.Empty(t, late.received(t), "events are not replayed to connections made after emission")

	hub.Broadcast(ctx, "order:available", nil)
	assert.Len(t, late.received(t), 1)
}

func TestHub_DropsConnectionOnSendFailure(t *testing.T) {
	hub := testHub()
	ctx := context.Background()

	broken := &fakeSession{failNext: true}
	healthy := &fakeSession{}
	hub.Register(auth.Principal{UserID: "r1", Role: "rider"}, broken)
	hub.Register(auth.Principal{UserID: "r2", Role: "rider"}, healthy)

	hub.PublishToRole(ctx, "rider", "order:available", nil)

	assert.Equal(t, 1, hub.ConnectionCount())
	assert.True(t, broken.closed)
	assert.Len(t, healthy.received(t), 1)
}

func TestHub_UnregisterStopsDelivery(t *testing.T) {
	hub := testHub()
	ctx := context.Background()

	s := &fakeSession{}
	conn := hub.Register(auth.Principal{UserID: "r1", Role: "rider"}, s)
	hub.Unregister(conn)
	hub.Unregister(conn) // double unregister is harmless

	hub.Broadcast(ctx, "order:available", nil)

	assert.Empty(t, s.received(t))
	assert.Equal(t, 0, hub.ConnectionCount())
}

func TestHub_ConcurrentRegisterAndPublish(t *testing.T) {
	hub := testHub()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			conn := hub.Register(auth.Principal{UserID: "r", Role: "rider"}, &fakeSession{})
			hub.Unregister(conn)
		}()
		go func() {
			defer wg.Done()
			hub.PublishToRole(ctx, "rider", "order:available", nil)
		}()
	}
	wg.Wait()

	assert.Equal(t, 0, hub.ConnectionCount())
}
