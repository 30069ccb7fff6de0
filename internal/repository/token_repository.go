package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// ErrTokenInvalid covers every way a refresh token can fail verification:
// unknown, expired or revoked. One sentinel keeps the login surface from
// leaking which case occurred.
var ErrTokenInvalid = errors.New("refresh token invalid")

// TokenRepo stores refresh token hashes. Raw token values never reach the
// database; callers hash before storing and before lookup.
type TokenRepo struct {
	db *sql.DB
}

// NewTokenRepo constructs a TokenRepo with the given DB handle.
func NewTokenRepo(db *sql.DB) *TokenRepo {
	return &TokenRepo{db: db}
}

// Store persists a token hash for a user with its expiry.
func (r *TokenRepo) Store(ctx context.Context, userID uint64, tokenHash string, expiresAt time.Time) error {
	const q = `INSERT INTO refresh_tokens (user_id, token_hash, expires_at) VALUES (?, ?, ?)`
	_, err := r.db.ExecContext(ctx, q, userID, tokenHash, expiresAt.UTC())
	return err
}

// Verify resolves a token hash to its user ID. Expired or revoked tokens
// fail with ErrTokenInvalid.
func (r *TokenRepo) Verify(ctx context.Context, tokenHash string, now time.Time) (uint64, error) {
	const q = `SELECT user_id, expires_at, revoked_at FROM refresh_tokens WHERE token_hash = ?`
	var (
		userID    uint64
		expiresAt time.Time
		revokedAt sql.NullTime
	)
	err := r.db.QueryRowContext(ctx, q, tokenHash).Scan(&userID, &expiresAt, &revokedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrTokenInvalid
		}
		return 0, err
	}
	if revokedAt.Valid || !now.Before(expiresAt) {
		return 0, ErrTokenInvalid
	}
	return userID, nil
}

// Revoke marks a single token unusable. Revoking an unknown token is not
// an error; logout must be idempotent.
func (r *TokenRepo) Revoke(ctx context.Context, tokenHash string) error {
	const q = `UPDATE refresh_tokens SET revoked_at = CURRENT_TIMESTAMP WHERE token_hash = ? AND revoked_at IS NULL`
	_, err := r.db.ExecContext(ctx, q, tokenHash)
	return err
}

// RevokeAllForUser invalidates every live token of one user, used when
// rotating credentials.
func (r *TokenRepo) RevokeAllForUser(ctx context.Context, userID uint64) error {
	const q = `UPDATE refresh_tokens SET revoked_at = CURRENT_TIMESTAMP WHERE user_id = ? AND revoked_at IS NULL`
	_, err := r.db.ExecContext(ctx, q, userID)
	return err
}
