package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/kinoreserve/movie-reservation/internal/model"
)

// ReservationRepo is the booking ledger. Correctness under concurrency does
// not come from the reads in Create; it comes from uq_reservations_showing_seat.
// When N requests race for the same (showing, seat) pair, the database
// accepts exactly one INSERT and rejects the rest with a duplicate-key
// error, which this repository reports as ErrSeatTaken.
type ReservationRepo struct {
	db *sql.DB
}

// NewReservationRepo constructs a ReservationRepo with the given DB handle.
func NewReservationRepo(db *sql.DB) *ReservationRepo {
	return &ReservationRepo{db: db}
}

// Create books a seat for a showing. The existence checks before the INSERT
// are advisory, so a client gets a 404-shaped error for a bad reference
// instead of a foreign key failure; they decide nothing about contention.
// The seat must belong to the room the showing plays in.
func (r *ReservationRepo) Create(ctx context.Context, res *model.Reservation) error {
	var roomID uint64
	err := r.db.QueryRowContext(ctx, `SELECT room_id FROM showings WHERE id = ?`, res.ShowingID).Scan(&roomID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrShowingNotFound
		}
		return err
	}
	var seatRoomID uint64
	err = r.db.QueryRowContext(ctx, `SELECT room_id FROM seats WHERE id = ?`, res.SeatID).Scan(&seatRoomID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrSeatNotFound
		}
		return err
	}
	if seatRoomID != roomID {
		return ErrSeatNotFound
	}

	const q = `INSERT INTO reservations (showing_id, seat_id, user_id) VALUES (?, ?, ?)`
	result, err := r.db.ExecContext(ctx, q, res.ShowingID, res.SeatID, res.UserID)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrSeatTaken
		}
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	res.ID = uint64(id)

	const sel = `SELECT created_at FROM reservations WHERE id = ?`
	return r.db.QueryRowContext(ctx, sel, res.ID).Scan(&res.CreatedAt)
}

// GetByID retrieves a bare ledger row.
func (r *ReservationRepo) GetByID(ctx context.Context, id uint64) (*model.Reservation, error) {
	const q = `SELECT id, showing_id, seat_id, user_id, created_at FROM reservations WHERE id = ?`
	var res model.Reservation
	err := r.db.QueryRowContext(ctx, q, id).Scan(&res.ID, &res.ShowingID, &res.SeatID, &res.UserID, &res.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrReservationNotFound
		}
		return nil, err
	}
	return &res, nil
}

// Delete cancels a reservation, freeing its (showing, seat) pair for the
// next Create. When ownerID is non-zero the delete only succeeds if that
// user made the booking; a mismatch returns ErrForbidden. Admin callers
// pass 0 to skip the ownership check.
func (r *ReservationRepo) Delete(ctx context.Context, id, ownerID uint64) error {
	var userID uint64
	err := r.db.QueryRowContext(ctx, `SELECT user_id FROM reservations WHERE id = ?`, id).Scan(&userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrReservationNotFound
		}
		return err
	}
	if ownerID != 0 && userID != ownerID {
		return ErrForbidden
	}
	result, err := r.db.ExecContext(ctx, `DELETE FROM reservations WHERE id = ?`, id)
	if err != nil {
		return err
	}
	// A concurrent cancel may have won between the read and the delete.
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrReservationNotFound
	}
	return nil
}

const reservationDetailQuery = `
	SELECT r.id, r.showing_id, r.seat_id, r.user_id, r.created_at,
	       m.title, sh.starts_at, sh.ends_at, rm.number, st.seat_row, st.seat_number
	FROM reservations r
	JOIN showings sh ON sh.id = r.showing_id
	JOIN movies m    ON m.id = sh.movie_id
	JOIN rooms rm    ON rm.id = sh.room_id
	JOIN seats st    ON st.id = r.seat_id`

// ListByUser returns a customer's reservations, most recent booking first.
func (r *ReservationRepo) ListByUser(ctx context.Context, userID uint64) ([]model.ReservationDetail, error) {
	q := reservationDetailQuery + `
	WHERE r.user_id = ?
	ORDER BY r.created_at DESC, r.id DESC`
	return r.queryDetails(ctx, q, userID)
}

// ListAll returns every reservation in the ledger, most recent first.
// Admin-only view.
func (r *ReservationRepo) ListAll(ctx context.Context) ([]model.ReservationDetail, error) {
	q := reservationDetailQuery + `
	ORDER BY r.created_at DESC, r.id DESC`
	return r.queryDetails(ctx, q)
}

// ListByShowing returns every reservation for one showing, most recent
// first. Used by the admin surface.
func (r *ReservationRepo) ListByShowing(ctx context.Context, showingID uint64) ([]model.ReservationDetail, error) {
	q := reservationDetailQuery + `
	WHERE r.showing_id = ?
	ORDER BY r.created_at DESC, r.id DESC`
	return r.queryDetails(ctx, q, showingID)
}

// SeatAvailability returns the seat map for a showing: every seat of the
// showing's room in (row, number) order, flagged reserved when a ledger row
// claims it. The LEFT JOIN makes free seats appear with a NULL reservation
// id, so one query yields the complete grid.
func (r *ReservationRepo) SeatAvailability(ctx context.Context, showingID uint64) ([]model.SeatStatus, error) {
	var roomID uint64
	err := r.db.QueryRowContext(ctx, `SELECT room_id FROM showings WHERE id = ?`, showingID).Scan(&roomID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrShowingNotFound
		}
		return nil, err
	}

	const q = `
		SELECT st.id, st.room_id, st.seat_row, st.seat_number, r.id
		FROM seats st
		LEFT JOIN reservations r ON r.seat_id = st.id AND r.showing_id = ?
		WHERE st.room_id = ?
		ORDER BY st.seat_row, st.seat_number`
	rows, err := r.db.QueryContext(ctx, q, showingID, roomID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.SeatStatus, 0)
	for rows.Next() {
		var s model.SeatStatus
		var resID sql.NullInt64
		if err := rows.Scan(&s.ID, &s.RoomID, &s.Row, &s.Number, &resID); err != nil {
			return nil, err
		}
		s.Reserved = resID.Valid
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *ReservationRepo) queryDetails(ctx context.Context, q string, args ...interface{}) ([]model.ReservationDetail, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.ReservationDetail, 0)
	for rows.Next() {
		var d model.ReservationDetail
		if err := rows.Scan(
			&d.ID, &d.ShowingID, &d.SeatID, &d.UserID, &d.CreatedAt,
			&d.MovieTitle, &d.StartsAt, &d.EndsAt, &d.RoomNumber, &d.SeatRow, &d.SeatNumber,
		); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
