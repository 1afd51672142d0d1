package ports

import "context"

// Event names delivered over the real-time channel. Payloads are always the
// full denormalized entity state as currently persisted, never a diff.
const (
	// EventOrderCreated goes to the owning merchant and every connected
	// rider, so the fastest available rider can see and claim the order.
	EventOrderCreated = "order:created"

	// EventOrderUpdated goes to the customer, the merchant, and the
	// assigned rider (if any) on every successful status transition.
	EventOrderUpdated = "order:updated"

	// EventOrderAvailable goes to all riders, mirroring newly-claimable orders.
	EventOrderAvailable = "order:available"

	// EventOrderAssigned goes to the specific rider a coordinator directly
	// assigned, bypassing the claim protocol.
	EventOrderAssigned = "order:assigned"

	// EventRiderLocation is broadcast; consumed by customers actively
	// tracking a relevant delivery.
	EventRiderLocation = "rider:location"
)

// EventBus delivers state-change notifications to authenticated, connected
// parties. Delivery is best-effort and non-durable: a client that connects
// after an event was emitted does not receive it and must reconcile via a
// direct fetch. Publishing never fails the business operation that emits it.
type EventBus interface {
	// PublishToUser delivers an event to every live connection of one user.
	PublishToUser(ctx context.Context, userID string, event string, payload any)

	// PublishToRole delivers an event to every connected user with the role.
	PublishToRole(ctx context.Context, role string, event string, payload any)

	// Broadcast delivers an event to all connections.
	Broadcast(ctx context.Context, event string, payload any)
}
