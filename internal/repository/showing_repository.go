package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/kinoreserve/movie-reservation/internal/model"
)

// ShowingRepo manages scheduled screenings. EndsAt is always written by the
// caller-side derivation (start + movie duration); this repository never
// stores an end time it did not just compute from those inputs, so the
// stored value cannot drift from the movie's duration.
type ShowingRepo struct {
	db *sql.DB
}

// NewShowingRepo constructs a ShowingRepo with the given DB handle.
func NewShowingRepo(db *sql.DB) *ShowingRepo {
	return &ShowingRepo{db: db}
}

// Create inserts a showing. The caller must have resolved the movie and
// room and derived EndsAt. Overlap with another showing in the same room
// is rejected with ErrConflict: the reservation ledger cannot repair a
// double-booked room after the fact, so the scheduler refuses to create one.
func (r *ShowingRepo) Create(ctx context.Context, s *model.Showing) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	overlaps, err := countOverlappingTx(ctx, tx, s.RoomID, 0, s.StartsAt, s.EndsAt)
	if err != nil {
		return err
	}
	if overlaps > 0 {
		return ErrConflict
	}

	const q = `INSERT INTO showings (movie_id, room_id, starts_at, ends_at, price_cents) VALUES (?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q, s.MovieID, s.RoomID, s.StartsAt, s.EndsAt, s.PriceCents)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)

	const sel = `SELECT id, movie_id, room_id, starts_at, ends_at, price_cents, created_at, updated_at
	             FROM showings WHERE id = ?`
	if err := tx.QueryRowContext(ctx, sel, s.ID).Scan(
		&s.ID, &s.MovieID, &s.RoomID, &s.StartsAt, &s.EndsAt, &s.PriceCents, &s.CreatedAt, &s.UpdatedAt,
	); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// GetByID retrieves a showing by its ID, ErrShowingNotFound when absent.
func (r *ShowingRepo) GetByID(ctx context.Context, id uint64) (*model.Showing, error) {
	const q = `SELECT id, movie_id, room_id, starts_at, ends_at, price_cents, created_at, updated_at
	           FROM showings WHERE id = ?`
	var s model.Showing
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&s.ID, &s.MovieID, &s.RoomID, &s.StartsAt, &s.EndsAt, &s.PriceCents, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrShowingNotFound
		}
		return nil, err
	}
	return &s, nil
}

// List returns all showings ordered by start time ascending.
func (r *ShowingRepo) List(ctx context.Context) ([]model.Showing, error) {
	const q = `SELECT id, movie_id, room_id, starts_at, ends_at, price_cents, created_at, updated_at
	           FROM showings ORDER BY starts_at ASC`
	return r.queryShowings(ctx, q)
}

// ListUpcomingByMovie returns the movie's showings with starts_at strictly
// after now, ascending. The availability projection filters at call time so
// past showings are never exposed as bookable.
func (r *ShowingRepo) ListUpcomingByMovie(ctx context.Context, movieID uint64, now time.Time) ([]model.Showing, error) {
	const q = `SELECT id, movie_id, room_id, starts_at, ends_at, price_cents, created_at, updated_at
	           FROM showings
	           WHERE movie_id = ? AND starts_at > ?
	           ORDER BY starts_at ASC`
	return r.queryShowings(ctx, q, movieID, now.UTC())
}

// Update rewrites a showing. The caller re-resolves movie and room and
// passes a freshly derived EndsAt; overlap against other showings in the
// (possibly new) room is re-checked with this showing excluded so it may
// overlap itself.
func (r *ShowingRepo) Update(ctx context.Context, s *model.Showing) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var one int
	if err := tx.QueryRowContext(ctx, `SELECT 1 FROM showings WHERE id = ?`, s.ID).Scan(&one); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrShowingNotFound
		}
		return err
	}
	overlaps, err := countOverlappingTx(ctx, tx, s.RoomID, s.ID, s.StartsAt, s.EndsAt)
	if err != nil {
		return err
	}
	if overlaps > 0 {
		return ErrConflict
	}

	const q = `UPDATE showings
	           SET movie_id = ?, room_id = ?, starts_at = ?, ends_at = ?, price_cents = ?, updated_at = CURRENT_TIMESTAMP
	           WHERE id = ?`
	if _, err := tx.ExecContext(ctx, q, s.MovieID, s.RoomID, s.StartsAt, s.EndsAt, s.PriceCents, s.ID); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// Delete removes a showing. It is blocked with ErrConflict while
// reservations exist, so committed bookings are never orphaned.
func (r *ShowingRepo) Delete(ctx context.Context, id uint64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var one int
	if err := tx.QueryRowContext(ctx, `SELECT 1 FROM showings WHERE id = ?`, id).Scan(&one); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrShowingNotFound
		}
		return err
	}
	var reservations int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM reservations WHERE showing_id = ?`, id).Scan(&reservations); err != nil {
		return err
	}
	if reservations > 0 {
		return ErrConflict
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM showings WHERE id = ?`, id); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// countOverlappingTx counts showings in the room whose [starts_at, ends_at)
// interval intersects [start, end), excluding excludeID (0 to exclude none).
func countOverlappingTx(ctx context.Context, tx *sql.Tx, roomID, excludeID uint64, start, end time.Time) (int, error) {
	const q = `SELECT COUNT(*) FROM showings
	           WHERE room_id = ? AND id <> ? AND NOT (ends_at <= ? OR starts_at >= ?)`
	var n int
	err := tx.QueryRowContext(ctx, q, roomID, excludeID, start.UTC(), end.UTC()).Scan(&n)
	return n, err
}

func (r *ShowingRepo) queryShowings(ctx context.Context, q string, args ...interface{}) ([]model.Showing, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Showing, 0)
	for rows.Next() {
		var s model.Showing
		if err := rows.Scan(
			&s.ID, &s.MovieID, &s.RoomID, &s.StartsAt, &s.EndsAt, &s.PriceCents, &s.CreatedAt, &s.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
