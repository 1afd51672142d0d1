// Package redisbus bridges the in-process event hub across instances.
// Every event published on one instance is relayed through a redis pub/sub
// channel and re-delivered by the hubs of all other instances, so clients
// connected to any instance see the same stream.
package redisbus

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"

	"fulfillment/internal/core/ports"
)

const (
	scopeUser      = "user"
	scopeRole      = "role"
	scopeBroadcast = "broadcast"
)

// message is the relay frame exchanged between instances.
type message struct {
	InstanceID string          `json:"instance_id"`
	Scope      string          `json:"scope"`
	Target     string          `json:"target,omitempty"`
	Event      string          `json:"event"`
	Payload    json.RawMessage `json:"payload"`
}

// publisher is the slice of the redis client the bus writes through.
type publisher interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

// Bus decorates a local event bus with cross-instance relay. Local delivery
// always happens first and never depends on redis being reachable; relay
// failures are logged and dropped, matching the channel's best-effort
// contract.
type Bus struct {
	local      ports.EventBus
	redis      publisher
	channel    string
	instanceID string
	logger     *slog.Logger
}

// NewBus wraps the local bus with relay over the given redis channel.
func NewBus(local ports.EventBus, client publisher, channel string, logger *slog.Logger) *Bus {
	return &Bus{
		local:      local,
		redis:      client,
		channel:    channel,
		instanceID: uuid.NewString(),
		logger:     logger.With("component", "redis_bus"),
	}
}

// PublishToUser delivers locally and relays to the other instances.
func (b *Bus) PublishToUser(ctx context.Context, userID string, event string, payload any) {
	b.local.PublishToUser(ctx, userID, event, payload)
	b.relay(ctx, scopeUser, userID, event, payload)
}

// PublishToRole delivers locally and relays to the other instances.
func (b *Bus) PublishToRole(ctx context.Context, role string, event string, payload any) {
	b.local.PublishToRole(ctx, role, event, payload)
	b.relay(ctx, scopeRole, role, event, payload)
}

// Broadcast delivers locally and relays to the other instances.
func (b *Bus) Broadcast(ctx context.Context, event string, payload any) {
	b.local.Broadcast(ctx, event, payload)
	b.relay(ctx, scopeBroadcast, "", event, payload)
}

func (b *Bus) relay(ctx context.Context, scope, target, event string, payload any) {
	encoded, err := json.Marshal(payload)
	if err != nil {
		b.logger.WarnContext(ctx, "failed to encode relay payload", "event", event, "error", err)
		return
	}

	frame, err := json.Marshal(message{
		InstanceID: b.instanceID,
		Scope:      scope,
		Target:     target,
		Event:      event,
		Payload:    encoded,
	})
	if err != nil {
		b.logger.WarnContext(ctx, "failed to encode relay frame", "event", event, "error", err)
		return
	}

	if err := b.redis.Publish(ctx, b.channel, frame).Err(); err != nil {
		b.logger.WarnContext(ctx, "failed to relay event", "event", event, "error", err)
	}
}

// Listen consumes relayed frames until the context is cancelled. Run it in
// its own goroutine with a client subscribed to the bus channel.
func (b *Bus) Listen(ctx context.Context, frames <-chan *redis.Message) {
	for {
		select {
		case <-ctx.Done():
			return
		case frame, ok := <-frames:
			if !ok {
				return
			}
			b.handleFrame(ctx, []byte(frame.Payload))
		}
	}
}

// handleFrame delivers a relayed frame through the local bus only. Frames
// this instance published are skipped, otherwise local clients would see
// every event twice.
func (b *Bus) handleFrame(ctx context.Context, raw []byte) {
	var frame message
	if err := json.Unmarshal(raw, &frame); err != nil {
		b.logger.WarnContext(ctx, "discarding malformed relay frame", "error", err)
		return
	}
	if frame.InstanceID == b.instanceID {
		return
	}

	switch frame.Scope {
	case scopeUser:
		b.local.PublishToUser(ctx, frame.Target, frame.Event, frame.Payload)
	case scopeRole:
		b.local.PublishToRole(ctx, frame.Target, frame.Event, frame.Payload)
	case scopeBroadcast:
		b.local.Broadcast(ctx, frame.Event, frame.Payload)
	default:
		b.logger.WarnContext(ctx, "discarding relay frame with unknown scope", "scope", frame.Scope)
	}
}
