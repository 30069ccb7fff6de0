// Package repository defines sentinel errors shared across repositories.
// Handlers use these to pick HTTP status codes: not-found sentinels map to
// 404, ErrConflict and ErrSeatTaken to 409, ErrForbidden to 403. Anything
// else is treated as a storage failure and surfaced as 5xx so a client can
// never mistake a failed commit for a held seat.
package repository

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

// Not-found sentinels, one per entity so handlers can name the missing
// reference in their response.
var (
	ErrUserNotFound        = errors.New("user not found")
	ErrGenreNotFound       = errors.New("genre not found")
	ErrMovieNotFound       = errors.New("movie not found")
	ErrRoomNotFound        = errors.New("room not found")
	ErrSeatNotFound        = errors.New("seat not found")
	ErrShowingNotFound     = errors.New("showing not found")
	ErrReservationNotFound = errors.New("reservation not found")
)

// ErrConflict signals that an operation cannot proceed because of existing
// state: a duplicate room number, an overlapping showing in the same room,
// or a delete blocked by dependent records.
var ErrConflict = errors.New("conflict")

// ErrSeatTaken is the reservation ledger's conflict: a reservation already
// exists for the requested (showing, seat) pair. It is raised from the
// storage-level unique key, not from a prior read, so it holds under
// concurrent inserts across any number of server processes.
var ErrSeatTaken = errors.New("seat already reserved for this showing")

// ErrForbidden is returned when the caller attempts an operation on a
// resource owned by a different user.
var ErrForbidden = errors.New("forbidden")

// isDuplicateKey reports whether err is a MySQL duplicate-entry error
// (1062), i.e. a unique constraint rejected the write. The ledger treats
// this as its Conflict signal.
func isDuplicateKey(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == 1062
}
