package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/fixthevideo/studio-api/internal/model"
)

// AdminRepo provides access to operator accounts.
type AdminRepo struct {
	db *sql.DB
}

// NewAdminRepo returns a new AdminRepo bound to the given database.
func NewAdminRepo(db *sql.DB) *AdminRepo { return &AdminRepo{db: db} }

// Create inserts a new admin account.  New accounts start unapproved
// with the staff role; a super admin must approve them before they can
// log in.  The password must already be bcrypt hashed.
func (r *AdminRepo) Create(ctx context.Context, email, name, passwordHash string) (model.Admin, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO admins (email, name, password_hash, is_approved, role) VALUES (?,?,?,0,?)",
		email, name, passwordHash, model.AdminRoleStaff)
	if err != nil {
		if isDuplicateKey(err) {
			return model.Admin{}, ErrEmailExists
		}
		return model.Admin{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Admin{}, err
	}
	return model.Admin{
		ID: uint64(id), Email: email, Name: name,
		PasswordHash: passwordHash, Role: model.AdminRoleStaff,
	}, nil
}

// GetByEmail fetches an admin account.  ErrNotFound when absent.
func (r *AdminRepo) GetByEmail(ctx context.Context, email string) (model.Admin, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var a model.Admin
	err := r.db.QueryRowContext(ctx,
		`SELECT id, email, name, password_hash, is_approved, role, created_at, updated_at
		 FROM admins WHERE email=? LIMIT 1`, email).
		Scan(&a.ID, &a.Email, &a.Name, &a.PasswordHash, &a.IsApproved, &a.Role, &a.CreatedAt, &a.UpdatedAt)
	if err == sql.ErrNoRows {
		return model.Admin{}, ErrNotFound
	}
	if err != nil {
		return model.Admin{}, err
	}
	return a, nil
}

// List returns every admin account in registration order.
func (r *AdminRepo) List(ctx context.Context) ([]model.Admin, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, email, name, password_hash, is_approved, role, created_at, updated_at
		 FROM admins ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Admin, 0)
	for rows.Next() {
		var a model.Admin
		if err := rows.Scan(&a.ID, &a.Email, &a.Name, &a.PasswordHash, &a.IsApproved, &a.Role, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// Approve flips an admin account to approved so it can log in.
func (r *AdminRepo) Approve(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "UPDATE admins SET is_approved=1 WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// EnsureSuperAdmin seeds the bootstrap super admin account if no
// account with the given email exists.  The seeded account is approved
// immediately.  Called once at startup.
func (r *AdminRepo) EnsureSuperAdmin(ctx context.Context, email, name, passwordHash string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := r.GetByEmail(ctx, email); err == nil {
		return nil
	} else if err != ErrNotFound {
		return err
	}
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO admins (email, name, password_hash, is_approved, role) VALUES (?,?,?,1,?)",
		email, name, passwordHash, model.AdminRoleSuper)
	if err != nil && isDuplicateKey(err) {
		return nil // lost a startup race, account exists now
	}
	return err
}
