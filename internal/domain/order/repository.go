package order

import "context"

// Repository persists completed orders.
type Repository interface {
	Save(ctx context.Context, o *Order) error
	FindByID(ctx context.Context, id string) (*Order, error)
	ListBySession(ctx context.Context, sessionID string, limit int) ([]*Order, error)
}

// Sink receives every confirmed order. Implementations log it, publish it to
// Kafka, or write it straight to the archive.
type Sink interface {
	OrderCompleted(ctx context.Context, o *Order) error
}
