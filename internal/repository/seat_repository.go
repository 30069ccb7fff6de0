package repository // repository defines data access for seats

import (
	"context"
	"database/sql"
	"errors"

	"github.com/kinoreserve/movie-reservation/internal/model"
)

// SeatRepo provides read access to the generated seat grids. Seats are
// created by RoomRepo.CreateWithSeats and never mutated afterwards, so no
// write methods exist here.
type SeatRepo struct {
	db *sql.DB
}

// NewSeatRepo constructs a SeatRepo with the given DB handle.
func NewSeatRepo(db *sql.DB) *SeatRepo {
	return &SeatRepo{db: db}
}

// GetByID retrieves a seat by its id.
func (r *SeatRepo) GetByID(ctx context.Context, id uint64) (*model.Seat, error) {
	const q = `SELECT id, room_id, seat_row, seat_number FROM seats WHERE id = ?`
	var s model.Seat
	err := r.db.QueryRowContext(ctx, q, id).Scan(&s.ID, &s.RoomID, &s.Row, &s.Number)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSeatNotFound
		}
		return nil, err
	}
	return &s, nil
}

// GetByRoom retrieves all seats of a room ordered by row then number.
func (r *SeatRepo) GetByRoom(ctx context.Context, roomID uint64) ([]model.Seat, error) {
	const q = `SELECT id, room_id, seat_row, seat_number
	           FROM seats
	           WHERE room_id = ?
	           ORDER BY seat_row, seat_number`
	rows, err := r.db.QueryContext(ctx, q, roomID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	seats := make([]model.Seat, 0)
	for rows.Next() {
		var s model.Seat
		if err := rows.Scan(&s.ID, &s.RoomID, &s.Row, &s.Number); err != nil {
			return nil, err
		}
		seats = append(seats, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return seats, nil
}
