package model

import "time"

// Role names stored in users.role. ADMIN manages the catalog, rooms and
// showings; CUSTOMER books seats.
const (
	RoleAdmin    = "ADMIN"
	RoleCustomer = "CUSTOMER"
)

// User represents a row in the `users` table. The password is stored only
// as a bcrypt hash. Handlers define separate response types with JSON tags;
// these structs are used by the repository layer.
type User struct {
	ID           uint64    // users.id
	Email        string    // users.email (unique)
	PasswordHash string    // users.password_hash
	Role         string    // users.role (ADMIN or CUSTOMER)
	CreatedAt    time.Time // users.created_at
	UpdatedAt    time.Time // users.updated_at
}

// RefreshToken models a row in `refresh_tokens`. Only the SHA-256 hash of
// the raw token value is persisted.
type RefreshToken struct {
	ID        uint64     // refresh_tokens.id
	UserID    uint64     // refresh_tokens.user_id
	TokenHash string     // refresh_tokens.token_hash
	ExpiresAt time.Time  // refresh_tokens.expires_at
	RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
	CreatedAt time.Time  // refresh_tokens.created_at
}
