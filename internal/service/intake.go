package service

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/fixthevideo/studio-api/internal/model"
	"github.com/fixthevideo/studio-api/internal/queue"
	"github.com/fixthevideo/studio-api/internal/repository"
	"github.com/fixthevideo/studio-api/internal/utils"
)

// GuestIntakeRequest is a combined account-plus-project submission from
// a visitor without an account.
type GuestIntakeRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Company  string `json:"company"`
	Service  string `json:"service"`
	Link     string `json:"link"`
	IsOrder  bool   `json:"isOrder"`
}

// IntakeRequest is a project submission from an authenticated customer.
type IntakeRequest struct {
	Company string `json:"company"`
	Service string `json:"service"`
	Link    string `json:"link"`
	IsOrder bool   `json:"isOrder"`
}

// Intake creates project records.  Guest submissions additionally open
// the customer account; if the email is already registered the whole
// submission is rejected and nothing is created.
type Intake struct {
	orders     OrderStore
	customers  CustomerStore
	chat       ChatStore
	events     EventPublisher
	bcryptCost int
}

// NewIntake builds an Intake service.  Panics if a store is nil.
func NewIntake(orders OrderStore, customers CustomerStore, chat ChatStore, events EventPublisher, bcryptCost int) *Intake {
	if orders == nil || customers == nil || chat == nil || events == nil {
		panic("intake: nil dependency")
	}
	return &Intake{orders: orders, customers: customers, chat: chat, events: events, bcryptCost: bcryptCost}
}

func validEmail(s string) bool {
	at := strings.IndexByte(s, '@')
	return at > 0 && at < len(s)-3 && strings.Contains(s[at:], ".")
}

// GuestSubmit registers the account and files the first project in one
// step.  ErrEmailExists when the email already owns an account;
// ErrValidation on malformed input.  The account is not created when
// validation fails.
func (s *Intake) GuestSubmit(ctx context.Context, req GuestIntakeRequest) (model.Order, model.Customer, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if !validEmail(req.Email) || len(req.Password) < 6 || strings.TrimSpace(req.Name) == "" {
		return model.Order{}, model.Customer{}, repository.ErrValidation
	}
	if !model.ValidService(req.Service) || strings.TrimSpace(req.Link) == "" {
		return model.Order{}, model.Customer{}, repository.ErrValidation
	}
	if _, err := s.customers.GetByEmail(ctx, req.Email); err == nil {
		return model.Order{}, model.Customer{}, repository.ErrEmailExists
	} else if err != repository.ErrNotFound {
		return model.Order{}, model.Customer{}, err
	}

	hash, err := utils.HashPassword(req.Password, s.bcryptCost)
	if err != nil {
		return model.Order{}, model.Customer{}, err
	}
	cust, err := s.customers.Create(ctx, req.Email, strings.TrimSpace(req.Name), hash)
	if err != nil {
		return model.Order{}, model.Customer{}, err
	}

	order, err := s.file(ctx, cust, req.Company, req.Service, req.Link, req.IsOrder)
	if err != nil {
		return model.Order{}, model.Customer{}, err
	}
	return order, cust, nil
}

// Submit files a new project for an existing, authenticated customer.
func (s *Intake) Submit(ctx context.Context, email string, req IntakeRequest) (model.Order, error) {
	if !model.ValidService(req.Service) || strings.TrimSpace(req.Link) == "" {
		return model.Order{}, repository.ErrValidation
	}
	cust, err := s.customers.GetByEmail(ctx, email)
	if err != nil {
		return model.Order{}, err
	}
	return s.file(ctx, cust, req.Company, req.Service, req.Link, req.IsOrder)
}

func (s *Intake) file(ctx context.Context, cust model.Customer, company, serviceName, link string, isOrder bool) (model.Order, error) {
	order, err := s.orders.Create(ctx, model.Order{
		CustomerEmail: cust.Email,
		CustomerName:  cust.Name,
		Company:       strings.TrimSpace(company),
		Service:       serviceName,
		Link:          strings.TrimSpace(link),
		IsOrder:       isOrder,
	})
	if err != nil {
		return model.Order{}, err
	}
	if err := s.chat.EnsureThread(ctx, cust.Email, cust.Name); err != nil {
		log.Printf("intake: ensure thread for %s: %v", cust.Email, err)
	}
	if err := s.events.Publish(ctx, queue.OrderEvent{
		Event:         queue.EventOrderCreated,
		OrderID:       order.ID,
		CustomerEmail: order.CustomerEmail,
		Service:       order.Service,
		Status:        order.Status,
		At:            time.Now().UTC().Format(time.RFC3339),
	}); err != nil {
		log.Printf("intake: publish created event for %s: %v", order.ID, err)
	}
	return order, nil
}
