package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/kinoreserve/movie-reservation/internal/model"
)

// UserRepo provides access to user accounts.
type UserRepo struct {
	db *sql.DB
}

// NewUserRepo constructs a UserRepo with the given DB handle.
func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{db: db}
}

// Create inserts a user. A duplicate email returns ErrConflict via the
// unique key on users.email.
func (r *UserRepo) Create(ctx context.Context, u *model.User) error {
	const q = `INSERT INTO users (email, password_hash, role) VALUES (?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, u.Email, u.PasswordHash, u.Role)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrConflict
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	u.ID = uint64(id)

	const sel = `SELECT created_at, updated_at FROM users WHERE id = ?`
	return r.db.QueryRowContext(ctx, sel, u.ID).Scan(&u.CreatedAt, &u.UpdatedAt)
}

// List returns all user accounts ordered by id. Admin-only view.
func (r *UserRepo) List(ctx context.Context) ([]model.User, error) {
	const q = `SELECT id, email, password_hash, role, created_at, updated_at FROM users ORDER BY id ASC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.User, 0)
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// Update rewrites a user's email and role. An email collision with another
// account returns ErrConflict, a missing user ErrUserNotFound.
func (r *UserRepo) Update(ctx context.Context, u *model.User) error {
	const q = `UPDATE users SET email = ?, role = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, u.Email, u.Role, u.ID)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrConflict
		}
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var one int
		err := r.db.QueryRowContext(ctx, `SELECT 1 FROM users WHERE id = ?`, u.ID).Scan(&one)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrUserNotFound
		}
		return err
	}
	return nil
}

// Delete removes a user account. Blocked with ErrConflict while the ledger
// holds reservations for the user; refresh tokens cascade away.
func (r *UserRepo) Delete(ctx context.Context, id uint64) error {
	var dependents int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM reservations WHERE user_id = ?`, id).Scan(&dependents); err != nil {
		return err
	}
	if dependents > 0 {
		return ErrConflict
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrUserNotFound
	}
	return nil
}

// GetByEmail finds a user by email, ErrUserNotFound when absent.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	const q = `SELECT id, email, password_hash, role, created_at, updated_at FROM users WHERE email = ?`
	return r.scanOne(r.db.QueryRowContext(ctx, q, email))
}

// GetByID finds a user by id, ErrUserNotFound when absent.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (*model.User, error) {
	const q = `SELECT id, email, password_hash, role, created_at, updated_at FROM users WHERE id = ?`
	return r.scanOne(r.db.QueryRowContext(ctx, q, id))
}

func (r *UserRepo) scanOne(row *sql.Row) (*model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}
