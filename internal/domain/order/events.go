package order

import "time"

// EventTypeOrderCompleted is the event type carried on the order topic.
const EventTypeOrderCompleted = "order.completed"

// CompletedEvent is the payload published when an order is confirmed.
type CompletedEvent struct {
	Order       *Order    `json:"order"`
	ItemCount   int       `json:"item_count"`
	CompletedAt time.Time `json:"completed_at"`
}

// NewCompletedEvent wraps o for publication.
func NewCompletedEvent(o *Order) CompletedEvent {
	return CompletedEvent{Order: o, ItemCount: o.ItemCount(), CompletedAt: o.CreatedAt}
}
