package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/fixthevideo/studio-api/internal/model"
	"github.com/fixthevideo/studio-api/internal/queue"
	"github.com/fixthevideo/studio-api/internal/repository"
)

// In-memory stores implementing the service interfaces.  They mirror
// the SQL repositories' observable behavior (id generation, intake
// defaults, unread counters) closely enough for workflow tests.

type memOrders struct {
	mu     sync.Mutex
	seq    int
	orders map[string]*model.Order
}

func newMemOrders() *memOrders {
	return &memOrders{orders: make(map[string]*model.Order)}
}

func (m *memOrders) Create(ctx context.Context, o model.Order) (model.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	prefix := "SMPL"
	if o.IsOrder {
		prefix = "ORD"
	}
	o.ID = fmt.Sprintf("%s-%d", prefix, 1000+m.seq)
	o.Status = model.StatusSample
	o.IsPending = true
	o.CustomerEmail = strings.ToLower(o.CustomerEmail)
	now := time.Now().UTC()
	o.Date = now.Format("1/2/2006")
	o.Timestamp = now.UnixMilli()
	cp := o
	m.orders[o.ID] = &cp
	return o, nil
}

func (m *memOrders) GetByID(ctx context.Context, id string) (model.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return model.Order{}, repository.ErrNotFound
	}
	return *o, nil
}

func (m *memOrders) ApplyQuote(ctx context.Context, id string, unit float64, qty int, total float64, proofLink, note string) (model.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return model.Order{}, repository.ErrNotFound
	}
	o.UnitPrice = unit
	o.Quantity = qty
	o.TotalPrice = total
	o.ReadyLink = proofLink
	o.CustomerNote = note
	o.Status = model.StatusMaster
	o.IsPending = false
	return *o, nil
}

func (m *memOrders) DeliverFinal(ctx context.Context, id, link, note string) (model.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return model.Order{}, repository.ErrNotFound
	}
	if o.Status != model.StatusMaster {
		return model.Order{}, repository.ErrValidation
	}
	o.FinalFileReady = true
	o.FinalFileLink = link
	o.FinalFileNote = note
	return *o, nil
}

func (m *memOrders) ToggleCancel(ctx context.Context, id string) (model.Order, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return model.Order{}, false, repository.ErrNotFound
	}
	o.IsCancelled = !o.IsCancelled
	return *o, o.IsCancelled, nil
}

func (m *memOrders) UpdateStatus(ctx context.Context, id, status string) (model.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !model.ValidStatus(status) {
		return model.Order{}, repository.ErrValidation
	}
	o, ok := m.orders[id]
	if !ok {
		return model.Order{}, repository.ErrNotFound
	}
	o.Status = status
	o.IsPending = false
	return *o, nil
}

func (m *memOrders) MarkPaid(ctx context.Context, id string) (model.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return model.Order{}, repository.ErrNotFound
	}
	o.IsOrder = true
	return *o, nil
}

type memCustomers struct {
	mu    sync.Mutex
	byKey map[string]model.Customer
}

func newMemCustomers() *memCustomers {
	return &memCustomers{byKey: make(map[string]model.Customer)}
}

func (m *memCustomers) Create(ctx context.Context, email, name, passwordHash string) (model.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := strings.ToLower(email)
	if _, ok := m.byKey[key]; ok {
		return model.Customer{}, repository.ErrEmailExists
	}
	c := model.Customer{ID: uint64(len(m.byKey) + 1), Email: key, Name: name, PasswordHash: passwordHash}
	m.byKey[key] = c
	return c, nil
}

func (m *memCustomers) GetByEmail(ctx context.Context, email string) (model.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.byKey[strings.ToLower(email)]
	if !ok {
		return model.Customer{}, repository.ErrNotFound
	}
	return c, nil
}

type memChat struct {
	mu      sync.Mutex
	threads map[string]*model.ChatThread
}

func newMemChat() *memChat {
	return &memChat{threads: make(map[string]*model.ChatThread)}
}

func (m *memChat) EnsureThread(ctx context.Context, email, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := strings.ToLower(email)
	if _, ok := m.threads[key]; !ok {
		m.threads[key] = &model.ChatThread{CustomerEmail: key, CustomerName: name, CreatedAt: time.Now().UTC()}
	}
	return nil
}

func (m *memChat) Append(ctx context.Context, email, from, text string) (model.ChatMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.threads[strings.ToLower(email)]
	if !ok {
		return model.ChatMessage{}, repository.ErrNotFound
	}
	msg := model.ChatMessage{
		ID:        fmt.Sprintf("%d", len(t.Messages)+1),
		From:      from,
		Text:      text,
		Timestamp: time.Now().UTC(),
	}
	t.Messages = append(t.Messages, msg)
	if from == model.SenderUser {
		t.AdminUnread++
	} else {
		t.CustomerUnread++
	}
	return msg, nil
}

func (m *memChat) markRead(email, viewer string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.threads[strings.ToLower(email)]
	if !ok {
		return
	}
	if viewer == model.SenderUser {
		t.CustomerUnread = 0
	} else {
		t.AdminUnread = 0
	}
}

func (m *memChat) thread(email string) model.ChatThread {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.threads[strings.ToLower(email)]
	if !ok {
		return model.ChatThread{}
	}
	cp := *t
	cp.Messages = append([]model.ChatMessage(nil), t.Messages...)
	return cp
}

type memEvents struct {
	mu     sync.Mutex
	events []queue.OrderEvent
}

func (m *memEvents) Publish(ctx context.Context, ev queue.OrderEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, ev)
	return nil
}

func (m *memEvents) names() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.events))
	for _, ev := range m.events {
		out = append(out, ev.Event)
	}
	return out
}
