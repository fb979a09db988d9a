package model

import "time"

// Admin role names.  SUPER admins may manage other admin accounts;
// STAFF admins work the order queue and chat.
const (
	AdminRoleSuper = "super"
	AdminRoleStaff = "staff"
)

// Admin represents a laboratory operator account.  There is no shared
// platform password: each admin carries their own bcrypt hash, and an
// account must be approved before it can log in.  One super admin is
// seeded at startup if absent.
//
// Fields:
//  ID           – primary key identifier.
//  Email        – unique email address (lower-cased).
//  Name         – display name.
//  PasswordHash – bcrypt hashed password.
//  IsApproved   – unapproved accounts are rejected at login.
//  Role         – AdminRoleSuper or AdminRoleStaff.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type Admin struct {
	ID           uint64    // admins.id
	Email        string    // admins.email
	Name         string    // admins.name
	PasswordHash string    // admins.password_hash
	IsApproved   bool      // admins.is_approved
	Role         string    // admins.role
	CreatedAt    time.Time // admins.created_at
	UpdatedAt    time.Time // admins.updated_at
}
