package model

import "time"

// Chat sender roles.  System-generated notifications are authored as
// the admin side so the customer sees them in the studio voice.
const (
	SenderAdmin = "admin"
	SenderUser  = "user"
)

// ChatMessage is one entry in a customer's thread.  IDs are derived
// from the creation timestamp and are unique and monotonically
// increasing within a thread.
type ChatMessage struct {
	ID        string    `json:"id"`
	From      string    `json:"from"` // SenderAdmin or SenderUser
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
	Read      bool      `json:"read"`
}

// ChatThread holds the ordered message log for exactly one customer,
// keyed by email.  Each side has its own unread counter: AdminUnread
// counts customer messages the admin desk has not viewed, and
// CustomerUnread counts admin messages the customer has not viewed.
// Counters are reset only by the viewing party, never by the sender.
type ChatThread struct {
	CustomerEmail  string        `json:"customerEmail"`
	CustomerName   string        `json:"customerName"`
	AdminUnread    int           `json:"adminUnread"`
	CustomerUnread int           `json:"customerUnread"`
	Messages       []ChatMessage `json:"messages"`
	CreatedAt      time.Time     `json:"-"`
}
