package models

import "time"

// Event types
const (
	EventTypeOrderPlaced        = "ORDER_PLACED"
	EventTypeOrderStatusChanged = "ORDER_STATUS_CHANGED"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// OrderPlacedEvent published when a checkout completes. Carries the
// full order document so subscribers can mirror it without a
// round-trip to the remote store.
type OrderPlacedEvent struct {
	BaseEvent
	Order      Order  `json:"order"`
	OwnerEmail string `json:"owner_email,omitempty"`
}

// OrderStatusChangedEvent published when an admin moves an order
// through the fulfillment timeline (or cancels it).
type OrderStatusChangedEvent struct {
	BaseEvent
	OrderID    string `json:"order_id"`
	Status     string `json:"status"`
	Message    string `json:"message,omitempty"`
	ChangedAt  string `json:"changed_at"`
	OwnerEmail string `json:"owner_email,omitempty"`
}
