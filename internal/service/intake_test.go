package service

import (
	"context"
	"regexp"
	"testing"

	"github.com/fixthevideo/studio-api/internal/model"
	"github.com/fixthevideo/studio-api/internal/repository"
)

func newIntakeFixture() (*Intake, *memOrders, *memCustomers, *memChat, *memEvents) {
	orders := newMemOrders()
	customers := newMemCustomers()
	chat := newMemChat()
	events := &memEvents{}
	// cost 4 keeps bcrypt fast in tests
	return NewIntake(orders, customers, chat, events, 4), orders, customers, chat, events
}

func TestGuestSubmitCreatesAccountOrderAndThread(t *testing.T) {
	intake, _, customers, chat, events := newIntakeFixture()

	order, cust, err := intake.GuestSubmit(context.Background(), GuestIntakeRequest{
		Email:    "New@Example.com",
		Password: "secret1",
		Name:     "Newcomer",
		Service:  "background_removal",
		Link:     "https://drive.example.com/raw",
	})
	if err != nil {
		t.Fatalf("guest submit: %v", err)
	}

	if matched := regexp.MustCompile(`^SMPL-\d{4}$`).MatchString(order.ID); !matched {
		t.Fatalf("sample id %q does not match SMPL-#### pattern", order.ID)
	}
	if order.Status != model.StatusSample || !order.IsPending {
		t.Fatalf("intake defaults wrong: %+v", order)
	}
	if order.TotalPrice != 0 || order.UnitPrice != 0 {
		t.Fatalf("fresh intake must be unpriced: %+v", order)
	}
	if cust.Email != "new@example.com" {
		t.Fatalf("email not normalized: %q", cust.Email)
	}
	if _, err := customers.GetByEmail(context.Background(), "new@example.com"); err != nil {
		t.Fatalf("account missing: %v", err)
	}
	if chat.thread("new@example.com").CustomerEmail == "" {
		t.Fatal("chat thread not opened at intake")
	}
	if names := events.names(); len(names) != 1 || names[0] != "order.created" {
		t.Fatalf("events = %v, want [order.created]", names)
	}
}

func TestGuestSubmitDuplicateEmailCreatesNothing(t *testing.T) {
	intake, _, customers, _, events := newIntakeFixture()
	ctx := context.Background()

	if _, err := customers.Create(ctx, "taken@example.com", "Existing", "x"); err != nil {
		t.Fatal(err)
	}

	_, _, err := intake.GuestSubmit(ctx, GuestIntakeRequest{
		Email:    "taken@example.com",
		Password: "secret1",
		Name:     "Impostor",
		Service:  "rig_removal",
		Link:     "https://drive.example.com/raw",
	})
	if err != repository.ErrEmailExists {
		t.Fatalf("err = %v, want ErrEmailExists", err)
	}
	if len(events.names()) != 0 {
		t.Fatal("no event may be published for a rejected intake")
	}
	// The existing account must be untouched.
	cust, err := customers.GetByEmail(ctx, "taken@example.com")
	if err != nil || cust.Name != "Existing" {
		t.Fatalf("existing account changed: %+v err=%v", cust, err)
	}
}

func TestGuestSubmitValidation(t *testing.T) {
	intake, _, customers, _, _ := newIntakeFixture()
	ctx := context.Background()

	cases := []GuestIntakeRequest{
		{Email: "bad", Password: "secret1", Name: "N", Service: "rig_removal", Link: "l"},
		{Email: "a@b.com", Password: "tiny", Name: "N", Service: "rig_removal", Link: "l"},
		{Email: "a@b.com", Password: "secret1", Name: " ", Service: "rig_removal", Link: "l"},
		{Email: "a@b.com", Password: "secret1", Name: "N", Service: "haircuts", Link: "l"},
		{Email: "a@b.com", Password: "secret1", Name: "N", Service: "rig_removal", Link: "  "},
	}
	for i, req := range cases {
		if _, _, err := intake.GuestSubmit(ctx, req); err != repository.ErrValidation {
			t.Errorf("case %d: err = %v, want ErrValidation", i, err)
		}
	}
	if _, err := customers.GetByEmail(ctx, "a@b.com"); err != repository.ErrNotFound {
		t.Fatal("rejected intake must not create an account")
	}
}

func TestAuthenticatedSubmitUsesAccountIdentity(t *testing.T) {
	intake, _, customers, _, _ := newIntakeFixture()
	ctx := context.Background()

	if _, err := customers.Create(ctx, "repeat@example.com", "Repeat", "x"); err != nil {
		t.Fatal(err)
	}

	order, err := intake.Submit(ctx, "repeat@example.com", IntakeRequest{
		Service: "green_screen",
		Link:    "https://drive.example.com/raw2",
		IsOrder: true,
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if matched := regexp.MustCompile(`^ORD-\d{4}$`).MatchString(order.ID); !matched {
		t.Fatalf("direct order id %q does not match ORD-#### pattern", order.ID)
	}
	if order.CustomerName != "Repeat" {
		t.Fatalf("customer name = %q, want account name", order.CustomerName)
	}

	if _, err := intake.Submit(ctx, "ghost@example.com", IntakeRequest{
		Service: "green_screen", Link: "x",
	}); err != repository.ErrNotFound {
		t.Fatalf("unknown account: err = %v, want ErrNotFound", err)
	}
}
