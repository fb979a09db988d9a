package service

import (
	"context"
	"log"
	"time"

	"github.com/fixthevideo/studio-api/internal/model"
	"github.com/fixthevideo/studio-api/internal/queue"
)

// LifecycleStore is the slice of the order repository the lifecycle
// workflows need.
type LifecycleStore interface {
	ToggleCancel(ctx context.Context, id string) (model.Order, bool, error)
	UpdateStatus(ctx context.Context, id, status string) (model.Order, error)
}

// Lifecycle drives cancellation toggles and pipeline moves, attaching
// the side effects the repository layer must not know about: the
// customer notification on cancellation and the bus events.
type Lifecycle struct {
	orders LifecycleStore
	relay  *Relay
	events EventPublisher
}

// NewLifecycle builds a Lifecycle service.  Panics if a dependency is nil.
func NewLifecycle(orders LifecycleStore, relay *Relay, events EventPublisher) *Lifecycle {
	if orders == nil || relay == nil || events == nil {
		panic("lifecycle: nil dependency")
	}
	return &Lifecycle{orders: orders, relay: relay, events: events}
}

// ToggleCancel flips the cancelled flag.  Exactly one notification is
// relayed per false-to-true transition; restoring is silent apart from
// the bus event.
func (l *Lifecycle) ToggleCancel(ctx context.Context, id string) (model.Order, error) {
	order, nowCancelled, err := l.orders.ToggleCancel(ctx, id)
	if err != nil {
		return model.Order{}, err
	}
	if nowCancelled {
		if _, err := l.relay.Notify(ctx, order.CustomerEmail, model.SenderAdmin, CancelNotice(order.ID)); err != nil {
			log.Printf("lifecycle: relay cancel notice for %s: %v", order.ID, err)
		}
		l.publish(ctx, queue.EventOrderCancelled, order)
	} else {
		l.publish(ctx, queue.EventOrderRestored, order)
	}
	return order, nil
}

// UpdateStatus moves an order to another pipeline stage and publishes
// the transition.  Backward moves are an operator override and pass
// through unguarded.
func (l *Lifecycle) UpdateStatus(ctx context.Context, id, status string) (model.Order, error) {
	order, err := l.orders.UpdateStatus(ctx, id, status)
	if err != nil {
		return model.Order{}, err
	}
	l.publish(ctx, queue.EventStatusChanged, order)
	return order, nil
}

func (l *Lifecycle) publish(ctx context.Context, event string, o model.Order) {
	if err := l.events.Publish(ctx, queue.OrderEvent{
		Event:         event,
		OrderID:       o.ID,
		CustomerEmail: o.CustomerEmail,
		Service:       o.Service,
		Status:        o.Status,
		Total:         o.TotalPrice,
		At:            time.Now().UTC().Format(time.RFC3339),
	}); err != nil {
		log.Printf("lifecycle: publish %s for %s: %v", event, o.ID, err)
	}
}
