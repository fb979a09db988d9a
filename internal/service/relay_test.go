package service

import (
	"context"
	"testing"

	"github.com/fixthevideo/studio-api/internal/model"
)

func TestRelayCreatesThreadLazily(t *testing.T) {
	chat := newMemChat()
	customers := newMemCustomers()
	relay := NewRelay(chat, customers)

	if _, err := relay.Notify(context.Background(), "new@example.com", model.SenderAdmin, "hello"); err != nil {
		t.Fatalf("notify: %v", err)
	}
	thread := chat.thread("new@example.com")
	if thread.CustomerEmail != "new@example.com" {
		t.Fatal("thread not created")
	}
	// No account on file, so the display name falls back to the email
	// local part.
	if thread.CustomerName != "new" {
		t.Fatalf("name = %q, want %q", thread.CustomerName, "new")
	}
}

func TestUnreadCountersTrackEachSideIndependently(t *testing.T) {
	chat := newMemChat()
	customers := newMemCustomers()
	if _, err := customers.Create(context.Background(), "a@b.com", "Ada", "x"); err != nil {
		t.Fatal(err)
	}
	relay := NewRelay(chat, customers)
	ctx := context.Background()

	// Admin sends two, customer sends one.
	relay.Notify(ctx, "a@b.com", model.SenderAdmin, "quote is ready")
	relay.Notify(ctx, "a@b.com", model.SenderAdmin, "any questions?")
	relay.Notify(ctx, "a@b.com", model.SenderUser, "looks great")

	thread := chat.thread("a@b.com")
	if thread.CustomerUnread != 2 {
		t.Fatalf("customer unread = %d, want 2", thread.CustomerUnread)
	}
	if thread.AdminUnread != 1 {
		t.Fatalf("admin unread = %d, want 1", thread.AdminUnread)
	}

	// The customer viewing their thread clears only their own counter.
	chat.markRead("a@b.com", model.SenderUser)
	thread = chat.thread("a@b.com")
	if thread.CustomerUnread != 0 {
		t.Fatalf("customer unread after read = %d, want 0", thread.CustomerUnread)
	}
	if thread.AdminUnread != 1 {
		t.Fatalf("admin unread must be untouched, got %d", thread.AdminUnread)
	}

	chat.markRead("a@b.com", model.SenderAdmin)
	if got := chat.thread("a@b.com").AdminUnread; got != 0 {
		t.Fatalf("admin unread after read = %d, want 0", got)
	}
}

func TestRelayUsesAccountName(t *testing.T) {
	chat := newMemChat()
	customers := newMemCustomers()
	if _, err := customers.Create(context.Background(), "g@h.com", "Grace", "x"); err != nil {
		t.Fatal(err)
	}
	relay := NewRelay(chat, customers)

	if _, err := relay.Notify(context.Background(), "G@H.com", model.SenderAdmin, "hi"); err != nil {
		t.Fatalf("notify: %v", err)
	}
	if got := chat.thread("g@h.com").CustomerName; got != "Grace" {
		t.Fatalf("name = %q, want Grace", got)
	}
}
