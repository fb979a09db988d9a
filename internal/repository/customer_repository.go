package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/fixthevideo/studio-api/internal/model"
)

// CustomerRepo provides access to client accounts.  Emails are the
// natural key used everywhere else in the system (orders and chat
// threads reference customers by email), so lookups normalize to
// lower case before hitting the unique index.
type CustomerRepo struct {
	db *sql.DB
}

// NewCustomerRepo returns a new CustomerRepo bound to the given database.
func NewCustomerRepo(db *sql.DB) *CustomerRepo { return &CustomerRepo{db: db} }

// Create inserts a new customer account.  The password must already be
// bcrypt hashed by the caller.  ErrEmailExists is returned when the
// email is taken.
func (r *CustomerRepo) Create(ctx context.Context, email, name, passwordHash string) (model.Customer, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO customers (email, name, password_hash) VALUES (?,?,?)",
		email, name, passwordHash)
	if err != nil {
		if isDuplicateKey(err) {
			return model.Customer{}, ErrEmailExists
		}
		return model.Customer{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Customer{}, err
	}
	c := model.Customer{ID: uint64(id), Email: email, Name: name, PasswordHash: passwordHash}
	return c, nil
}

// GetByEmail fetches a customer account, matching the email
// case-insensitively.  ErrNotFound is returned when absent.
func (r *CustomerRepo) GetByEmail(ctx context.Context, email string) (model.Customer, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var c model.Customer
	err := r.db.QueryRowContext(ctx,
		`SELECT id, email, name, password_hash, created_at, updated_at
		 FROM customers WHERE email=? LIMIT 1`, email).
		Scan(&c.ID, &c.Email, &c.Name, &c.PasswordHash, &c.CreatedAt, &c.UpdatedAt)
	if err == sql.ErrNoRows {
		return model.Customer{}, ErrNotFound
	}
	if err != nil {
		return model.Customer{}, err
	}
	return c, nil
}

// List returns every customer account in registration order.  Used by
// the chat desk to surface customers who have no thread yet.
func (r *CustomerRepo) List(ctx context.Context) ([]model.Customer, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, email, name, password_hash, created_at, updated_at FROM customers ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Customer, 0)
	for rows.Next() {
		var c model.Customer
		if err := rows.Scan(&c.ID, &c.Email, &c.Name, &c.PasswordHash, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
