package service

import (
	"context"
	"testing"
	"time"

	"github.com/fixthevideo/studio-api/internal/model"
	"github.com/fixthevideo/studio-api/internal/repository"
)

func newPaymentFixture(t *testing.T) (*PaymentSimulator, *memOrders, *memEvents, model.Order) {
	t.Helper()
	orders := newMemOrders()
	customers := newMemCustomers()
	events := &memEvents{}

	if _, err := customers.Create(context.Background(), "pay@example.com", "Payer", "x"); err != nil {
		t.Fatal(err)
	}
	order, err := orders.Create(context.Background(), model.Order{
		CustomerEmail: "pay@example.com",
		CustomerName:  "Payer",
		Service:       "color_correction",
		Link:          "link",
	})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := orders.ApplyQuote(context.Background(), order.ID, 25, 4, 100, "proof", ""); err != nil {
		t.Fatal(err)
	}
	sim := NewPaymentSimulator(orders, customers, events, 10*time.Millisecond, 20*time.Millisecond)
	return sim, orders, events, order
}

func waitFor(t *testing.T, d time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(d)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatal("condition not reached in time")
}

func TestPaymentFlowPromotesSampleToOrder(t *testing.T) {
	sim, orders, events, order := newPaymentFixture(t)
	ctx := context.Background()

	session, err := sim.Begin(ctx, order.ID, "PAY@example.com")
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	if session.State != PaymentCollecting || session.Total != 100 {
		t.Fatalf("session = %+v", session)
	}

	confirmed, err := sim.Confirm(ctx, session.ID)
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if confirmed.State != PaymentProcessing {
		t.Fatalf("state after confirm = %q, want processing", confirmed.State)
	}

	waitFor(t, time.Second, func() bool {
		s, err := sim.Status(session.ID)
		return err == nil && s.State == PaymentSuccess
	})

	paid, err := orders.GetByID(ctx, order.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !paid.IsOrder {
		t.Fatal("order not promoted after successful payment")
	}
	if paid.TotalPrice != 100 || paid.UnitPrice != 25 {
		t.Fatalf("payment must not touch price fields: %+v", paid)
	}

	// Session disappears after the linger window.
	waitFor(t, time.Second, func() bool {
		_, err := sim.Status(session.ID)
		return err == repository.ErrNotFound
	})

	names := events.names()
	if names[len(names)-1] != "order.paid" {
		t.Fatalf("events = %v, want order.paid last", names)
	}
}

func TestPaymentRejectsSecondAttempt(t *testing.T) {
	sim, _, _, order := newPaymentFixture(t)
	ctx := context.Background()

	session, err := sim.Begin(ctx, order.ID, "pay@example.com")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := sim.Confirm(ctx, session.ID); err != nil {
		t.Fatal(err)
	}
	waitFor(t, time.Second, func() bool {
		s, err := sim.Status(session.ID)
		return err == repository.ErrNotFound || (err == nil && s.State == PaymentSuccess)
	})

	if _, err := sim.Begin(ctx, order.ID, "pay@example.com"); err != repository.ErrAlreadyPaid {
		t.Fatalf("second payment: err = %v, want ErrAlreadyPaid", err)
	}
}

func TestPaymentRequiresQuoteAndOwnership(t *testing.T) {
	sim, orders, _, _ := newPaymentFixture(t)
	ctx := context.Background()

	unquoted, err := orders.Create(ctx, model.Order{
		CustomerEmail: "pay@example.com", CustomerName: "Payer",
		Service: "video_cleanup", Link: "link",
	})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := sim.Begin(ctx, unquoted.ID, "pay@example.com"); err != repository.ErrNotQuoted {
		t.Fatalf("unquoted: err = %v, want ErrNotQuoted", err)
	}

	quoted, _ := orders.Create(ctx, model.Order{
		CustomerEmail: "pay@example.com", CustomerName: "Payer",
		Service: "video_cleanup", Link: "link",
	})
	orders.ApplyQuote(ctx, quoted.ID, 5, 2, 10, "proof", "")
	if _, err := sim.Begin(ctx, quoted.ID, "other@example.com"); err != repository.ErrForbidden {
		t.Fatalf("foreign order: err = %v, want ErrForbidden", err)
	}

	if _, err := sim.Begin(ctx, "SMPL-9999", "pay@example.com"); err != repository.ErrNotFound {
		t.Fatalf("unknown order: err = %v, want ErrNotFound", err)
	}
}

func TestPaymentCancelOnlyWhileCollecting(t *testing.T) {
	sim, _, _, order := newPaymentFixture(t)
	ctx := context.Background()

	session, err := sim.Begin(ctx, order.ID, "pay@example.com")
	if err != nil {
		t.Fatal(err)
	}
	if err := sim.Cancel(session.ID); err != nil {
		t.Fatalf("cancel while collecting: %v", err)
	}
	if _, err := sim.Status(session.ID); err != repository.ErrNotFound {
		t.Fatal("cancelled session still present")
	}

	session, err = sim.Begin(ctx, order.ID, "pay@example.com")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := sim.Confirm(ctx, session.ID); err != nil {
		t.Fatal(err)
	}
	if err := sim.Cancel(session.ID); err != repository.ErrValidation {
		t.Fatalf("cancel while processing: err = %v, want ErrValidation", err)
	}
}
