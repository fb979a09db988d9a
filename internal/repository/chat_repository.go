package repository

import (
	"context"
	"database/sql"
	"strconv"
	"strings"
	"time"

	"github.com/fixthevideo/studio-api/internal/model"
)

// ChatRepo stores support threads.  There is exactly one thread per
// customer email; messages carry string ids derived from their unix
// millisecond timestamp, bumped on collision so ids stay unique and
// monotonic within a thread.
type ChatRepo struct {
	db *sql.DB
}

// NewChatRepo returns a new ChatRepo bound to the given database.
func NewChatRepo(db *sql.DB) *ChatRepo { return &ChatRepo{db: db} }

// EnsureThread creates the thread row for a customer if it does not
// exist yet.  Safe to call on every append.
func (r *ChatRepo) EnsureThread(ctx context.Context, email, name string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO chat_threads (customer_email, customer_name, admin_unread, customer_unread)
		 VALUES (?,?,0,0)
		 ON DUPLICATE KEY UPDATE customer_name = customer_name`,
		email, name)
	return err
}

// Append adds a message to a customer's thread and increments the
// counterpart's unread counter: customer messages raise AdminUnread,
// admin messages raise CustomerUnread.  The sender's own counter is
// never touched.
func (r *ChatRepo) Append(ctx context.Context, email, from, text string) (model.ChatMessage, error) {
	if from != model.SenderAdmin && from != model.SenderUser {
		return model.ChatMessage{}, ErrValidation
	}
	if strings.TrimSpace(text) == "" {
		return model.ChatMessage{}, ErrValidation
	}
	email = strings.ToLower(strings.TrimSpace(email))

	now := time.Now().UTC()
	msg := model.ChatMessage{From: from, Text: text, Timestamp: now}
	base := now.UnixMilli()
	for bump := int64(0); bump < 1000; bump++ {
		msg.ID = strconv.FormatInt(base+bump, 10)
		_, err := r.db.ExecContext(ctx,
			`INSERT INTO chat_messages (thread_email, msg_id, sender, text, sent_at, is_read)
			 VALUES (?,?,?,?,?,0)`,
			email, msg.ID, from, text, now)
		if err != nil {
			if isDuplicateKey(err) {
				continue
			}
			return model.ChatMessage{}, err
		}
		counter := "customer_unread"
		if from == model.SenderUser {
			counter = "admin_unread"
		}
		_, err = r.db.ExecContext(ctx,
			"UPDATE chat_threads SET "+counter+" = "+counter+" + 1 WHERE customer_email=?", email)
		return msg, err
	}
	return model.ChatMessage{}, ErrValidation
}

// MarkRead clears the unread state for the viewing party only.  An
// admin viewer resets AdminUnread and marks customer messages read; a
// customer viewer resets CustomerUnread and marks admin messages read.
func (r *ChatRepo) MarkRead(ctx context.Context, email, viewer string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	counter := "admin_unread"
	sender := model.SenderUser
	if viewer == model.SenderUser {
		counter = "customer_unread"
		sender = model.SenderAdmin
	}
	if _, err := r.db.ExecContext(ctx,
		"UPDATE chat_threads SET "+counter+" = 0 WHERE customer_email=?", email); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx,
		"UPDATE chat_messages SET is_read=1 WHERE thread_email=? AND sender=?", email, sender)
	return err
}

func (r *ChatRepo) messagesFor(ctx context.Context, email string) ([]model.ChatMessage, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT msg_id, sender, text, sent_at, is_read
		 FROM chat_messages WHERE thread_email=? ORDER BY msg_id`, email)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	msgs := make([]model.ChatMessage, 0)
	for rows.Next() {
		var m model.ChatMessage
		if err := rows.Scan(&m.ID, &m.From, &m.Text, &m.Timestamp, &m.Read); err != nil {
			return nil, err
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

// GetThread loads a customer's thread with its full message log.
// ErrNotFound when the customer has no thread yet.
func (r *ChatRepo) GetThread(ctx context.Context, email string) (model.ChatThread, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var t model.ChatThread
	err := r.db.QueryRowContext(ctx,
		`SELECT customer_email, customer_name, admin_unread, customer_unread, created_at
		 FROM chat_threads WHERE customer_email=? LIMIT 1`, email).
		Scan(&t.CustomerEmail, &t.CustomerName, &t.AdminUnread, &t.CustomerUnread, &t.CreatedAt)
	if err == sql.ErrNoRows {
		return model.ChatThread{}, ErrNotFound
	}
	if err != nil {
		return model.ChatThread{}, err
	}
	t.Messages, err = r.messagesFor(ctx, email)
	return t, err
}

// ListThreads returns every existing thread, newest message first is
// not imposed here; threads come back in creation order with full
// message logs for the desk view.
func (r *ChatRepo) ListThreads(ctx context.Context) ([]model.ChatThread, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT customer_email, customer_name, admin_unread, customer_unread, created_at
		 FROM chat_threads ORDER BY created_at, customer_email`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.ChatThread, 0)
	for rows.Next() {
		var t model.ChatThread
		if err := rows.Scan(&t.CustomerEmail, &t.CustomerName, &t.AdminUnread, &t.CustomerUnread, &t.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range out {
		out[i].Messages, err = r.messagesFor(ctx, out[i].CustomerEmail)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}
