package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/fixthevideo/studio-api/internal/model"
)

// Relay pushes system and operator messages into customer chat
// threads.  Lifecycle notifications (cancellation, quote, final
// delivery) are authored as the admin side so customers see them in
// the studio voice and their unread counter rises.
type Relay struct {
	chat      ChatStore
	customers CustomerStore
}

// NewRelay builds a Relay.  Panics if a dependency is nil.
func NewRelay(chat ChatStore, customers CustomerStore) *Relay {
	if chat == nil || customers == nil {
		panic("relay: nil dependency")
	}
	return &Relay{chat: chat, customers: customers}
}

// Notify appends a message to the customer's thread, creating the
// thread lazily when the customer has never chatted before.  The
// thread's display name falls back to the email local part when the
// account cannot be resolved.
func (r *Relay) Notify(ctx context.Context, email, from, text string) (model.ChatMessage, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	name := email
	if c, err := r.customers.GetByEmail(ctx, email); err == nil {
		name = c.Name
	} else if i := strings.IndexByte(email, '@'); i > 0 {
		name = email[:i]
	}
	if err := r.chat.EnsureThread(ctx, email, name); err != nil {
		return model.ChatMessage{}, err
	}
	return r.chat.Append(ctx, email, from, text)
}

// CancelNotice is the message relayed when the lab cancels a request.
func CancelNotice(orderID string) string {
	return fmt.Sprintf("NOTIFICATION: Your request %s has been cancelled by the laboratory. Please contact support for details.", orderID)
}

// QuoteNotice is the message relayed when a sample is finished and
// quoted.  The note falls back to a stock line when the operator left
// it empty.
func QuoteNotice(serviceName string, total float64, qty int, unit float64, note, proofLink string) string {
	if strings.TrimSpace(note) == "" {
		note = "No additional notes."
	}
	return fmt.Sprintf("PROJECT SAMPLE READY: %s\n\nQuote: $%.2f (%d units @ $%g/unit)\n\nNote: %s\n\nSample Link: %s",
		strings.ToUpper(serviceName), total, qty, unit, note, proofLink)
}

// FinalNotice is the message relayed when the master file is handed
// over.
func FinalNotice(orderID, link string) string {
	return fmt.Sprintf("FINAL MASTER FILE READY!\n\nYour project %s is complete.\n\nMaster Link: %s", orderID, link)
}
