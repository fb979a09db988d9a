package model

import "time"

// RefreshToken models an entry in the `refresh_tokens` table.  Each
// token belongs to either a customer or an admin (Subject carries the
// account email plus role) and stores only the SHA-256 hash of the
// raw token value.
//
// Fields:
//  ID        – primary key identifier.
//  Subject   – account email the token was issued to.
//  Role      – "customer" or "admin".
//  TokenHash – SHA-256 hex digest of the token value.
//  ExpiresAt – expiration timestamp of the token.
//  RevokedAt – when the token was revoked (null if still active).
//  CreatedAt – timestamp of creation.
type RefreshToken struct {
	ID        uint64     // refresh_tokens.id
	Subject   string     // refresh_tokens.subject
	Role      string     // refresh_tokens.role
	TokenHash string     // refresh_tokens.token_hash
	ExpiresAt time.Time  // refresh_tokens.expires_at
	RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
	CreatedAt time.Time  // refresh_tokens.created_at
}
