package model

import "time"

// Customer represents a client account as stored in the `customers`
// table.  Emails are normalized to lower case so lookups are
// case-insensitive.  Passwords are stored as bcrypt hashes; the role
// column exists for symmetry with admins and is always "customer".
//
// Fields:
//  ID           – primary key identifier.
//  Email        – unique email address (lower-cased).
//  Name         – display name.
//  PasswordHash – bcrypt hashed password.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type Customer struct {
	ID           uint64    // customers.id
	Email        string    // customers.email
	Name         string    // customers.name
	PasswordHash string    // customers.password_hash
	CreatedAt    time.Time // customers.created_at
	UpdatedAt    time.Time // customers.updated_at
}
