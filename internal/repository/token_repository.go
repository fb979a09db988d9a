package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/fixthevideo/studio-api/internal/model"
)

// TokenRepo stores refresh tokens.  Only the SHA-256 hash of a token
// ever reaches the database; the raw value lives solely in the client.
type TokenRepo struct {
	db *sql.DB
}

// NewTokenRepo returns a new TokenRepo bound to the given database.
func NewTokenRepo(db *sql.DB) *TokenRepo { return &TokenRepo{db: db} }

// Store persists a refresh token hash for a subject.
func (r *TokenRepo) Store(ctx context.Context, subject, role, tokenHash string, expiresAt time.Time) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO refresh_tokens (subject, role, token_hash, expires_at) VALUES (?,?,?,?)",
		subject, role, tokenHash, expiresAt.UTC())
	return err
}

// Validate looks up an unrevoked, unexpired token by hash and returns
// its record.  ErrNotFound covers unknown, revoked and expired tokens
// alike so callers cannot distinguish them.
func (r *TokenRepo) Validate(ctx context.Context, tokenHash string) (model.RefreshToken, error) {
	var t model.RefreshToken
	var revoked sql.NullTime
	err := r.db.QueryRowContext(ctx,
		`SELECT id, subject, role, token_hash, expires_at, revoked_at, created_at
		 FROM refresh_tokens WHERE token_hash=? LIMIT 1`, tokenHash).
		Scan(&t.ID, &t.Subject, &t.Role, &t.TokenHash, &t.ExpiresAt, &revoked, &t.CreatedAt)
	if err == sql.ErrNoRows {
		return model.RefreshToken{}, ErrNotFound
	}
	if err != nil {
		return model.RefreshToken{}, err
	}
	if revoked.Valid {
		t.RevokedAt = &revoked.Time
		return model.RefreshToken{}, ErrNotFound
	}
	if time.Now().UTC().After(t.ExpiresAt) {
		return model.RefreshToken{}, ErrNotFound
	}
	return t, nil
}

// RevokeByHash revokes a single token.  Revoking an unknown or already
// revoked token is a no-op.
func (r *TokenRepo) RevokeByHash(ctx context.Context, tokenHash string) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE refresh_tokens SET revoked_at=NOW() WHERE token_hash=? AND revoked_at IS NULL",
		tokenHash)
	return err
}

// RevokeAllForSubject revokes every live token of one account, used on
// logout-everywhere and password changes.
func (r *TokenRepo) RevokeAllForSubject(ctx context.Context, subject, role string) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE refresh_tokens SET revoked_at=NOW() WHERE subject=? AND role=? AND revoked_at IS NULL",
		subject, role)
	return err
}
