package repository // repository holds data access logic for domain entities

import (
	"context"
	"database/sql"
	"errors"

	"github.com/kinoreserve/movie-reservation/internal/model"
)

// RoomRepo manages rooms and the seat grids they own. A room and its seats
// are created as one unit: either both exist or neither does.
type RoomRepo struct {
	db *sql.DB
}

// NewRoomRepo constructs a RoomRepo with the given DB handle.
func NewRoomRepo(db *sql.DB) *RoomRepo {
	return &RoomRepo{db: db}
}

// DB exposes the underlying sql.DB so callers can begin transactions
// spanning multiple repositories.
func (r *RoomRepo) DB() *sql.DB { return r.db }

// CreateWithSeats inserts a room and generates its full seat grid inside a
// single transaction. The grid is the pure function model.SeatGrid of the
// requested capacity; partial creation cannot be observed because the
// transaction commits room and seats together. A duplicate room number is
// reported as ErrConflict via the uq_rooms_number key.
func (r *RoomRepo) CreateWithSeats(ctx context.Context, room *model.Room) error {
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

	const qInsert = `INSERT INTO rooms (number, capacity) VALUES (?, ?)`
	res, err := tx.ExecContext(ctx, qInsert, room.Number, room.Capacity)
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
	room.ID = uint64(id)

	seats := model.SeatGrid(room.ID, room.Capacity)
	if len(seats) > 0 {
		query := `INSERT INTO seats (room_id, seat_row, seat_number) VALUES `
		args := make([]interface{}, 0, len(seats)*3)
		for i, s := range seats {
			if i > 0 {
				query += ","
			}
			query += "(?, ?, ?)"
			args = append(args, s.RoomID, s.Row, s.Number)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return err
		}
	}

	// Read the row back so DB-default timestamps are populated.
	const qSelect = `SELECT id, number, capacity, created_at, updated_at FROM rooms WHERE id = ?`
	if err := tx.QueryRowContext(ctx, qSelect, room.ID).
		Scan(&room.ID, &room.Number, &room.Capacity, &room.CreatedAt, &room.UpdatedAt); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true

	room.Seats, err = r.seatsByRoom(ctx, room.ID)
	return err
}

// GetByID retrieves a room together with its seat grid. It returns
// ErrRoomNotFound when no row matches.
func (r *RoomRepo) GetByID(ctx context.Context, id uint64) (*model.Room, error) {
	const q = `SELECT id, number, capacity, created_at, updated_at FROM rooms WHERE id = ?`
	var room model.Room
	err := r.db.QueryRowContext(ctx, q, id).
		Scan(&room.ID, &room.Number, &room.Capacity, &room.CreatedAt, &room.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	room.Seats, err = r.seatsByRoom(ctx, room.ID)
	if err != nil {
		return nil, err
	}
	return &room, nil
}

// List returns all rooms with their seats, ordered by room number ascending.
func (r *RoomRepo) List(ctx context.Context) ([]model.Room, error) {
	const q = `SELECT id, number, capacity, created_at, updated_at FROM rooms ORDER BY number ASC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Room, 0)
	for rows.Next() {
		var room model.Room
		if err := rows.Scan(&room.ID, &room.Number, &room.Capacity, &room.CreatedAt, &room.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, room)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range out {
		if out[i].Seats, err = r.seatsByRoom(ctx, out[i].ID); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Update changes a room's number and capacity. Capacity is informational
// after creation: the seat grid is intentionally left untouched, so growing
// or shrinking capacity neither adds nor deletes seats. A number collision
// with a different room returns ErrConflict; a missing room returns
// ErrRoomNotFound.
func (r *RoomRepo) Update(ctx context.Context, room *model.Room) error {
	const q = `UPDATE rooms SET number = ?, capacity = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, room.Number, room.Capacity, room.ID)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrConflict
		}
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// Distinguish "missing" from "values unchanged".
		var one int
		err := r.db.QueryRowContext(ctx, `SELECT 1 FROM rooms WHERE id = ?`, room.ID).Scan(&one)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrRoomNotFound
		}
		return err
	}
	return nil
}

// Delete removes a room and its seats. The delete is blocked with
// ErrConflict while any showing still references the room, because
// reservations and schedules would otherwise be orphaned.
func (r *RoomRepo) Delete(ctx context.Context, id uint64) error {
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
	if err := tx.QueryRowContext(ctx, `SELECT 1 FROM rooms WHERE id = ?`, id).Scan(&one); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrRoomNotFound
		}
		return err
	}
	var dependents int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM showings WHERE room_id = ?`, id).Scan(&dependents); err != nil {
		return err
	}
	if dependents > 0 {
		return ErrConflict
	}
	// Seats cascade via fk_seats_room.
	if _, err := tx.ExecContext(ctx, `DELETE FROM rooms WHERE id = ?`, id); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// seatsByRoom loads a room's grid ordered by (row, number), the order the
// availability projection and all seat listings expose.
func (r *RoomRepo) seatsByRoom(ctx context.Context, roomID uint64) ([]model.Seat, error) {
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
