package repository

import (
	"context"
	"database/sql"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/fixthevideo/studio-api/internal/model"
)

// OrderRepo provides CRUD operations for project records and their
// revisions.  Batch ids are issued through the order_ids ledger: every
// id ever assigned stays in the ledger even after the order row is
// deleted, so ids are never reused.  All timestamp fields are assumed
// to be stored in UTC.
type OrderRepo struct {
	db *sql.DB
}

// NewOrderRepo returns a new OrderRepo bound to the given database.
func NewOrderRepo(db *sql.DB) *OrderRepo { return &OrderRepo{db: db} }

const orderColumns = `id, customer_email, customer_name, company, service, link, ready_link,
	status, is_order, is_pending, is_cancelled, unit_price, quantity, total_price,
	customer_note, internal_notes, final_file_ready, final_file_link, final_file_note,
	date_label, ts, created_at, updated_at`

// newBatchID builds a candidate id: prefix plus a random 4-digit suffix
// in [1000, 9999]. Uniqueness is enforced by the ledger, not here.
func newBatchID(isOrder bool) string {
	prefix := "SMPL"
	if isOrder {
		prefix = "ORD"
	}
	return fmt.Sprintf("%s-%d", prefix, 1000+rand.Intn(9000))
}

// Create inserts a new order.  The caller fills the intake fields
// (customer, service, link, IsOrder); Create assigns the id, date and
// timestamp and applies intake defaults: status sample, pending, no
// price.  The generated id is reserved in the order_ids ledger inside
// the same transaction; on a suffix collision a fresh id is drawn.
func (r *OrderRepo) Create(ctx context.Context, o model.Order) (model.Order, error) {
	now := time.Now().UTC()
	o.Status = model.StatusSample
	o.IsPending = true
	o.IsCancelled = false
	o.UnitPrice = 0
	o.Quantity = 0
	o.TotalPrice = 0
	o.CustomerEmail = strings.ToLower(strings.TrimSpace(o.CustomerEmail))
	o.Date = now.Format("1/2/2006")
	o.Timestamp = now.UnixMilli()

	for attempt := 0; attempt < 25; attempt++ {
		o.ID = newBatchID(o.IsOrder)
		tx, err := r.db.BeginTx(ctx, nil)
		if err != nil {
			return model.Order{}, err
		}
		if _, err := tx.ExecContext(ctx, "INSERT INTO order_ids (id) VALUES (?)", o.ID); err != nil {
			_ = tx.Rollback()
			if isDuplicateKey(err) {
				continue // suffix already issued at some point, draw again
			}
			return model.Order{}, err
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO orders (id, customer_email, customer_name, company, service, link,
				status, is_order, is_pending, is_cancelled, date_label, ts)
			 VALUES (?,?,?,?,?,?,?,?,?,?,?,?)`,
			o.ID, o.CustomerEmail, o.CustomerName, o.Company, o.Service, o.Link,
			o.Status, o.IsOrder, o.IsPending, o.IsCancelled, o.Date, o.Timestamp)
		if err != nil {
			_ = tx.Rollback()
			return model.Order{}, err
		}
		if err := tx.Commit(); err != nil {
			return model.Order{}, err
		}
		return r.GetByID(ctx, o.ID)
	}
	return model.Order{}, fmt.Errorf("could not allocate a unique batch id")
}

// isDuplicateKey detects MySQL error 1062 (duplicate entry).
func isDuplicateKey(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "1062")
}

func (r *OrderRepo) scanOrder(row interface{ Scan(...any) error }) (model.Order, error) {
	var o model.Order
	var ready, custNote, internal, finalLink, finalNote, company sql.NullString
	err := row.Scan(
		&o.ID, &o.CustomerEmail, &o.CustomerName, &company, &o.Service, &o.Link, &ready,
		&o.Status, &o.IsOrder, &o.IsPending, &o.IsCancelled, &o.UnitPrice, &o.Quantity, &o.TotalPrice,
		&custNote, &internal, &o.FinalFileReady, &finalLink, &finalNote,
		&o.Date, &o.Timestamp, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return model.Order{}, err
	}
	o.Company = company.String
	o.ReadyLink = ready.String
	o.CustomerNote = custNote.String
	o.InternalNotes = internal.String
	o.FinalFileLink = finalLink.String
	o.FinalFileNote = finalNote.String
	return o, nil
}

// GetByID fetches an order together with its revision entries.
// ErrNotFound is returned when no such order exists.
func (r *OrderRepo) GetByID(ctx context.Context, id string) (model.Order, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+orderColumns+" FROM orders WHERE id=? LIMIT 1", id)
	o, err := r.scanOrder(row)
	if err == sql.ErrNoRows {
		return model.Order{}, ErrNotFound
	}
	if err != nil {
		return model.Order{}, err
	}
	o.Revisions, err = r.revisionsFor(ctx, o.ID)
	if err != nil {
		return model.Order{}, err
	}
	return o, nil
}

func (r *OrderRepo) revisionsFor(ctx context.Context, orderID string) ([]model.Revision, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, order_id, text, date_label, resolved FROM order_revisions WHERE order_id=? ORDER BY id",
		orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var revs []model.Revision
	for rows.Next() {
		var rev model.Revision
		if err := rows.Scan(&rev.ID, &rev.OrderID, &rev.Text, &rev.Date, &rev.Resolved); err != nil {
			return nil, err
		}
		revs = append(revs, rev)
	}
	return revs, rows.Err()
}

func (r *OrderRepo) queryOrders(ctx context.Context, q string, args ...any) ([]model.Order, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Order, 0)
	for rows.Next() {
		o, err := r.scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// ListFiltered returns orders matching the dashboard filter.  Rows are
// fetched in insertion order (the collection is demo-workflow sized)
// and composed through OrderFilter.Match so the filter semantics live
// in exactly one place.
func (r *OrderRepo) ListFiltered(ctx context.Context, f OrderFilter) ([]model.Order, error) {
	all, err := r.queryOrders(ctx, "SELECT "+orderColumns+" FROM orders ORDER BY created_at, id")
	if err != nil {
		return nil, err
	}
	out := make([]model.Order, 0, len(all))
	for _, o := range all {
		if f.Match(o) {
			out = append(out, o)
		}
	}
	return out, nil
}

// ListByCustomer returns every order owned by the given email,
// matched case-insensitively, in insertion order.
func (r *OrderRepo) ListByCustomer(ctx context.Context, email string) ([]model.Order, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return r.queryOrders(ctx,
		"SELECT "+orderColumns+" FROM orders WHERE customer_email=? ORDER BY created_at, id", email)
}

// UpdateStatus moves an order to the given pipeline stage.  Backward
// moves are a permitted operator override and are not blocked here.
func (r *OrderRepo) UpdateStatus(ctx context.Context, id, status string) (model.Order, error) {
	if !model.ValidStatus(status) {
		return model.Order{}, ErrValidation
	}
	res, err := r.db.ExecContext(ctx,
		"UPDATE orders SET status=?, is_pending=0 WHERE id=?", status, id)
	if err != nil {
		return model.Order{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return model.Order{}, err
		}
	}
	return r.GetByID(ctx, id)
}

// SetInternalNotes replaces the admin-only notes on an order.
func (r *OrderRepo) SetInternalNotes(ctx context.Context, id, notes string) (model.Order, error) {
	if _, err := r.db.ExecContext(ctx,
		"UPDATE orders SET internal_notes=? WHERE id=?", notes, id); err != nil {
		return model.Order{}, err
	}
	return r.GetByID(ctx, id)
}

// ToggleCancel flips the cancelled flag and returns the updated order
// plus the new flag value, so callers can fire the cancellation
// notification only on the false-to-true transition.
func (r *OrderRepo) ToggleCancel(ctx context.Context, id string) (model.Order, bool, error) {
	if _, err := r.GetByID(ctx, id); err != nil {
		return model.Order{}, false, err
	}
	if _, err := r.db.ExecContext(ctx,
		"UPDATE orders SET is_cancelled = NOT is_cancelled WHERE id=?", id); err != nil {
		return model.Order{}, false, err
	}
	o, err := r.GetByID(ctx, id)
	if err != nil {
		return model.Order{}, false, err
	}
	return o, o.IsCancelled, nil
}

// Delete removes the order row permanently.  The id stays reserved in
// the order_ids ledger.  Deleting an already-deleted id is a no-op.
func (r *OrderRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM orders WHERE id=?", id)
	return err
}

// ApplyQuote writes the commercial terms of a quote in one statement.
// It is the only code path that touches unit_price, quantity and
// total_price; the total must be supplied by the pricing engine and
// always equals unit * quantity.
func (r *OrderRepo) ApplyQuote(ctx context.Context, id string, unit float64, qty int, total float64, proofLink, note string) (model.Order, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE orders SET unit_price=?, quantity=?, total_price=?, ready_link=?,
			customer_note=?, status=?, is_pending=0 WHERE id=?`,
		unit, qty, total, proofLink, note, model.StatusMaster, id)
	if err != nil {
		return model.Order{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return model.Order{}, err
		}
	}
	return r.GetByID(ctx, id)
}

// DeliverFinal marks the master asset as delivered.  The order must
// already be in the master stage; price fields are untouched.
func (r *OrderRepo) DeliverFinal(ctx context.Context, id, link, note string) (model.Order, error) {
	o, err := r.GetByID(ctx, id)
	if err != nil {
		return model.Order{}, err
	}
	if o.Status != model.StatusMaster {
		return model.Order{}, ErrValidation
	}
	if _, err := r.db.ExecContext(ctx,
		"UPDATE orders SET final_file_ready=1, final_file_link=?, final_file_note=? WHERE id=?",
		link, note, id); err != nil {
		return model.Order{}, err
	}
	return r.GetByID(ctx, id)
}

// MarkPaid promotes a sample to an official order.  Price fields are
// not modified.
func (r *OrderRepo) MarkPaid(ctx context.Context, id string) (model.Order, error) {
	res, err := r.db.ExecContext(ctx, "UPDATE orders SET is_order=1 WHERE id=?", id)
	if err != nil {
		return model.Order{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return model.Order{}, err
		}
	}
	return r.GetByID(ctx, id)
}

// Stats returns the active (non-cancelled) sample and order counts
// shown on the admin dashboard cards.
func (r *OrderRepo) Stats(ctx context.Context) (samples, orders int, err error) {
	err = r.db.QueryRowContext(ctx,
		`SELECT
			COALESCE(SUM(CASE WHEN is_order=0 AND is_cancelled=0 THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN is_order=1 AND is_cancelled=0 THEN 1 ELSE 0 END), 0)
		 FROM orders`).Scan(&samples, &orders)
	return samples, orders, err
}

// AddRevision appends a rework request to an order.
func (r *OrderRepo) AddRevision(ctx context.Context, orderID, text string) (model.Revision, error) {
	if strings.TrimSpace(text) == "" {
		return model.Revision{}, ErrValidation
	}
	if _, err := r.GetByID(ctx, orderID); err != nil {
		return model.Revision{}, err
	}
	date := time.Now().UTC().Format("1/2/2006")
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO order_revisions (order_id, text, date_label, resolved) VALUES (?,?,?,0)",
		orderID, text, date)
	if err != nil {
		return model.Revision{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Revision{}, err
	}
	return model.Revision{ID: uint64(id), OrderID: orderID, Text: text, Date: date}, nil
}

// ResolveRevision marks a revision entry as addressed.
func (r *OrderRepo) ResolveRevision(ctx context.Context, revisionID uint64) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE order_revisions SET resolved=1 WHERE id=?", revisionID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
