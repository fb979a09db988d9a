package service

import (
	"context"
	"strings"
	"testing"

	"github.com/fixthevideo/studio-api/internal/model"
	"github.com/fixthevideo/studio-api/internal/repository"
)

func newLifecycleFixture(t *testing.T) (*Lifecycle, *memChat, *memEvents, model.Order) {
	t.Helper()
	orders := newMemOrders()
	customers := newMemCustomers()
	chat := newMemChat()
	events := &memEvents{}

	if _, err := customers.Create(context.Background(), "c@example.com", "Cass", "x"); err != nil {
		t.Fatal(err)
	}
	order, err := orders.Create(context.Background(), model.Order{
		CustomerEmail: "c@example.com",
		CustomerName:  "Cass",
		Service:       "logo_removal",
		Link:          "link",
	})
	if err != nil {
		t.Fatal(err)
	}
	return NewLifecycle(orders, NewRelay(chat, customers), events), chat, events, order
}

func cancelNotices(thread model.ChatThread) int {
	n := 0
	for _, m := range thread.Messages {
		if strings.Contains(m.Text, "has been cancelled by the laboratory") {
			n++
		}
	}
	return n
}

func TestToggleCancelNotifiesExactlyOncePerCancellation(t *testing.T) {
	lc, chat, events, order := newLifecycleFixture(t)
	ctx := context.Background()

	got, err := lc.ToggleCancel(ctx, order.ID)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if !got.IsCancelled {
		t.Fatal("order not cancelled")
	}
	thread := chat.thread("c@example.com")
	if n := cancelNotices(thread); n != 1 {
		t.Fatalf("cancel notices = %d, want 1", n)
	}
	if !strings.Contains(thread.Messages[0].Text, order.ID) {
		t.Fatalf("notice missing order id: %q", thread.Messages[0].Text)
	}

	// Restore is silent.
	got, err = lc.ToggleCancel(ctx, order.ID)
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if got.IsCancelled {
		t.Fatal("order still cancelled after restore")
	}
	if n := cancelNotices(chat.thread("c@example.com")); n != 1 {
		t.Fatalf("restore must not notify, notices = %d", n)
	}

	// Cancelling again notifies again: one notice per transition.
	if _, err := lc.ToggleCancel(ctx, order.ID); err != nil {
		t.Fatal(err)
	}
	if n := cancelNotices(chat.thread("c@example.com")); n != 2 {
		t.Fatalf("second cancellation: notices = %d, want 2", n)
	}

	names := events.names()
	want := []string{"order.cancelled", "order.restored", "order.cancelled"}
	if len(names) != len(want) {
		t.Fatalf("events = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("events = %v, want %v", names, want)
		}
	}
}

func TestUpdateStatusPublishesEveryMoveIncludingBackward(t *testing.T) {
	lc, _, events, order := newLifecycleFixture(t)
	ctx := context.Background()

	if _, err := lc.UpdateStatus(ctx, order.ID, model.StatusQC); err != nil {
		t.Fatalf("forward move: %v", err)
	}
	got, err := lc.UpdateStatus(ctx, order.ID, model.StatusAnalysis)
	if err != nil {
		t.Fatalf("backward move: %v", err)
	}
	if got.Status != model.StatusAnalysis {
		t.Fatalf("status = %q, want analysis", got.Status)
	}

	if _, err := lc.UpdateStatus(ctx, order.ID, "shipped"); err != repository.ErrValidation {
		t.Fatalf("unknown status: err = %v, want ErrValidation", err)
	}

	names := events.names()
	if len(names) != 2 || names[0] != "order.status_changed" || names[1] != "order.status_changed" {
		t.Fatalf("events = %v, want two status_changed", names)
	}
}

func TestToggleCancelUnknownOrder(t *testing.T) {
	lc, chat, _, _ := newLifecycleFixture(t)

	if _, err := lc.ToggleCancel(context.Background(), "SMPL-0000"); err != repository.ErrNotFound {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if n := cancelNotices(chat.thread("c@example.com")); n != 0 {
		t.Fatal("stale id must not notify")
	}
}
