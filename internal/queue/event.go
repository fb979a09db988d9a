// Package queue defines message payloads exchanged over the message broker.
package queue

// Event names published to the order.events queue.
const (
	EventOrderCreated   = "order.created"
	EventStatusChanged  = "order.status_changed"
	EventOrderQuoted    = "order.quoted"
	EventOrderCancelled = "order.cancelled"
	EventOrderRestored  = "order.restored"
	EventOrderDelivered = "order.delivered"
	EventOrderPaid      = "order.paid"
)

// OrderEvent is published on every order lifecycle transition.  It
// carries enough information for downstream consumers to log, notify,
// or trigger analytics without querying the primary database.
type OrderEvent struct {
	Event         string  `json:"event"`
	OrderID       string  `json:"order_id"`
	CustomerEmail string  `json:"customer_email"`
	Service       string  `json:"service"`
	Status        string  `json:"status"`
	Total         float64 `json:"total"`
	At            string  `json:"at"` // RFC 3339 UTC
}
