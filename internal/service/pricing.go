package service

import (
	"context"
	"log"
	"math"
	"strings"
	"time"

	"github.com/fixthevideo/studio-api/internal/model"
	"github.com/fixthevideo/studio-api/internal/queue"
	"github.com/fixthevideo/studio-api/internal/repository"
)

// QuoteRequest carries the operator's pricing decision for a finished
// sample.
type QuoteRequest struct {
	UnitPrice float64 `json:"unitPrice"`
	Quantity  int     `json:"quantity"`
	ProofLink string  `json:"proofLink"`
	Note      string  `json:"note"`
}

// FinalDeliveryRequest carries the master file handover.
type FinalDeliveryRequest struct {
	Link string `json:"link"`
	Note string `json:"note"`
}

// QuoteEngine prices finished samples and hands over master files.
// Issuing a quote is the only path that writes price fields, so the
// total always equals unit price times quantity.
type QuoteEngine struct {
	orders OrderStore
	relay  *Relay
	events EventPublisher
}

// NewQuoteEngine builds a QuoteEngine.  Panics if a dependency is nil.
func NewQuoteEngine(orders OrderStore, relay *Relay, events EventPublisher) *QuoteEngine {
	if orders == nil || relay == nil || events == nil {
		panic("quote engine: nil dependency")
	}
	return &QuoteEngine{orders: orders, relay: relay, events: events}
}

// IssueQuote prices an order, moves it to the master stage and relays
// the quote message to the customer's thread.  Unit price must be a
// finite non-negative number and quantity at least 1; anything else is
// ErrValidation.
func (q *QuoteEngine) IssueQuote(ctx context.Context, orderID string, req QuoteRequest) (model.Order, error) {
	if math.IsNaN(req.UnitPrice) || math.IsInf(req.UnitPrice, 0) || req.UnitPrice < 0 {
		return model.Order{}, repository.ErrValidation
	}
	if req.Quantity < 1 {
		return model.Order{}, repository.ErrValidation
	}
	if strings.TrimSpace(req.ProofLink) == "" {
		return model.Order{}, repository.ErrValidation
	}
	total := req.UnitPrice * float64(req.Quantity)

	order, err := q.orders.ApplyQuote(ctx, orderID, req.UnitPrice, req.Quantity, total, req.ProofLink, req.Note)
	if err != nil {
		return model.Order{}, err
	}

	msg := QuoteNotice(order.Service, total, req.Quantity, req.UnitPrice, req.Note, req.ProofLink)
	if _, err := q.relay.Notify(ctx, order.CustomerEmail, model.SenderAdmin, msg); err != nil {
		log.Printf("quote engine: relay quote for %s: %v", order.ID, err)
	}
	q.publish(ctx, queue.EventOrderQuoted, order)
	return order, nil
}

// SubmitFinalDelivery marks the master asset delivered and relays the
// handover message.  The order must already be in the master stage.
func (q *QuoteEngine) SubmitFinalDelivery(ctx context.Context, orderID string, req FinalDeliveryRequest) (model.Order, error) {
	if strings.TrimSpace(req.Link) == "" {
		return model.Order{}, repository.ErrValidation
	}
	order, err := q.orders.DeliverFinal(ctx, orderID, req.Link, req.Note)
	if err != nil {
		return model.Order{}, err
	}
	if _, err := q.relay.Notify(ctx, order.CustomerEmail, model.SenderAdmin, FinalNotice(order.ID, req.Link)); err != nil {
		log.Printf("quote engine: relay delivery for %s: %v", order.ID, err)
	}
	q.publish(ctx, queue.EventOrderDelivered, order)
	return order, nil
}

func (q *QuoteEngine) publish(ctx context.Context, event string, o model.Order) {
	if err := q.events.Publish(ctx, queue.OrderEvent{
		Event:         event,
		OrderID:       o.ID,
		CustomerEmail: o.CustomerEmail,
		Service:       o.Service,
		Status:        o.Status,
		Total:         o.TotalPrice,
		At:            time.Now().UTC().Format(time.RFC3339),
	}); err != nil {
		log.Printf("quote engine: publish %s for %s: %v", event, o.ID, err)
	}
}
