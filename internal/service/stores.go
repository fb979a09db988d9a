// Package service holds the domain workflows: intake, quoting, the
// notification relay and the payment simulator.  Services depend on
// narrow store interfaces rather than the concrete repositories so
// the workflows can be exercised against in-memory implementations.
package service

import (
	"context"

	"github.com/fixthevideo/studio-api/internal/model"
	"github.com/fixthevideo/studio-api/internal/queue"
)

// OrderStore is the slice of the order repository the services need.
type OrderStore interface {
	Create(ctx context.Context, o model.Order) (model.Order, error)
	GetByID(ctx context.Context, id string) (model.Order, error)
	ApplyQuote(ctx context.Context, id string, unit float64, qty int, total float64, proofLink, note string) (model.Order, error)
	DeliverFinal(ctx context.Context, id, link, note string) (model.Order, error)
	MarkPaid(ctx context.Context, id string) (model.Order, error)
}

// CustomerStore is the slice of the customer repository the services need.
type CustomerStore interface {
	Create(ctx context.Context, email, name, passwordHash string) (model.Customer, error)
	GetByEmail(ctx context.Context, email string) (model.Customer, error)
}

// ChatStore is the slice of the chat repository the relay needs.
type ChatStore interface {
	EnsureThread(ctx context.Context, email, name string) error
	Append(ctx context.Context, email, from, text string) (model.ChatMessage, error)
}

// EventPublisher pushes order lifecycle events to the broker.  Publish
// failures are logged by the implementation; workflows treat them as
// non-fatal.
type EventPublisher interface {
	Publish(ctx context.Context, event queue.OrderEvent) error
}
