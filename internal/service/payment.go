package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/fixthevideo/studio-api/internal/queue"
	"github.com/fixthevideo/studio-api/internal/repository"
)

// Payment session states.  A session walks collecting -> processing ->
// success; the simulated processor never declines.
const (
	PaymentCollecting = "collecting"
	PaymentProcessing = "processing"
	PaymentSuccess    = "success"
)

// PaymentSession is one in-flight checkout.  Sessions are ephemeral:
// they live in memory only and disappear shortly after completion.
type PaymentSession struct {
	ID      string  `json:"id"`
	OrderID string  `json:"orderId"`
	Email   string  `json:"email"`
	State   string  `json:"state"`
	Total   float64 `json:"total"`
}

// PaymentSimulator stands in for a card processor.  Confirming a
// session runs the processing delay in the background, then promotes
// the sample to an official order and publishes order.paid.  Durations
// are injectable so tests run in milliseconds.
type PaymentSimulator struct {
	orders     OrderStore
	customers  CustomerStore
	events     EventPublisher
	processing time.Duration
	linger     time.Duration

	mu       sync.Mutex
	sessions map[string]*PaymentSession
}

// NewPaymentSimulator builds a simulator.  Panics if a store is nil.
func NewPaymentSimulator(orders OrderStore, customers CustomerStore, events EventPublisher, processing, linger time.Duration) *PaymentSimulator {
	if orders == nil || customers == nil || events == nil {
		panic("payment simulator: nil dependency")
	}
	return &PaymentSimulator{
		orders:     orders,
		customers:  customers,
		events:     events,
		processing: processing,
		linger:     linger,
		sessions:   make(map[string]*PaymentSession),
	}
}

func newSessionID() string {
	buf := make([]byte, 16)
	_, _ = rand.Read(buf)
	return hex.EncodeToString(buf)
}

// Begin opens a checkout session for an order the caller owns.
// ErrAlreadyPaid when the order is already official, ErrNotQuoted when
// it has no quote yet, ErrForbidden when the caller does not own it.
func (p *PaymentSimulator) Begin(ctx context.Context, orderID, callerEmail string) (PaymentSession, error) {
	order, err := p.orders.GetByID(ctx, orderID)
	if err != nil {
		return PaymentSession{}, err
	}
	if !strings.EqualFold(order.CustomerEmail, callerEmail) {
		return PaymentSession{}, repository.ErrForbidden
	}
	if order.IsOrder {
		return PaymentSession{}, repository.ErrAlreadyPaid
	}
	if order.IsCancelled {
		return PaymentSession{}, repository.ErrValidation
	}
	if order.TotalPrice <= 0 {
		return PaymentSession{}, repository.ErrNotQuoted
	}
	if _, err := p.customers.GetByEmail(ctx, callerEmail); err != nil {
		return PaymentSession{}, err
	}

	s := &PaymentSession{
		ID:      newSessionID(),
		OrderID: order.ID,
		Email:   strings.ToLower(callerEmail),
		State:   PaymentCollecting,
		Total:   order.TotalPrice,
	}
	p.mu.Lock()
	p.sessions[s.ID] = s
	p.mu.Unlock()
	return *s, nil
}

// Confirm submits the collected card details and starts processing in
// the background.  Only sessions in the collecting state can be
// confirmed; the returned snapshot is already in processing.
func (p *PaymentSimulator) Confirm(ctx context.Context, sessionID string) (PaymentSession, error) {
	p.mu.Lock()
	s, ok := p.sessions[sessionID]
	if !ok {
		p.mu.Unlock()
		return PaymentSession{}, repository.ErrNotFound
	}
	if s.State != PaymentCollecting {
		snap := *s
		p.mu.Unlock()
		return snap, nil // confirming twice is harmless
	}
	s.State = PaymentProcessing
	snap := *s
	p.mu.Unlock()

	go p.settle(sessionID, snap.OrderID)
	return snap, nil
}

// settle runs the simulated processor: wait, mark the order paid,
// flip the session to success, then drop the session after the linger
// window so the client can observe the terminal state.
func (p *PaymentSimulator) settle(sessionID, orderID string) {
	time.Sleep(p.processing)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	order, err := p.orders.MarkPaid(ctx, orderID)
	if err != nil {
		log.Printf("payment: mark paid %s: %v", orderID, err)
	} else {
		if err := p.events.Publish(ctx, queue.OrderEvent{
			Event:         queue.EventOrderPaid,
			OrderID:       order.ID,
			CustomerEmail: order.CustomerEmail,
			Service:       order.Service,
			Status:        order.Status,
			Total:         order.TotalPrice,
			At:            time.Now().UTC().Format(time.RFC3339),
		}); err != nil {
			log.Printf("payment: publish paid event for %s: %v", order.ID, err)
		}
	}

	p.mu.Lock()
	if s, ok := p.sessions[sessionID]; ok {
		s.State = PaymentSuccess
	}
	p.mu.Unlock()

	time.Sleep(p.linger)
	p.mu.Lock()
	delete(p.sessions, sessionID)
	p.mu.Unlock()
}

// Cancel abandons a session.  Only sessions still collecting can be
// cancelled; a processing payment runs to completion.
func (p *PaymentSimulator) Cancel(sessionID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	s, ok := p.sessions[sessionID]
	if !ok {
		return repository.ErrNotFound
	}
	if s.State != PaymentCollecting {
		return repository.ErrValidation
	}
	delete(p.sessions, sessionID)
	return nil
}

// Status returns a snapshot of a session.  ErrNotFound once the
// session has been dropped.
func (p *PaymentSimulator) Status(sessionID string) (PaymentSession, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	s, ok := p.sessions[sessionID]
	if !ok {
		return PaymentSession{}, repository.ErrNotFound
	}
	return *s, nil
}
