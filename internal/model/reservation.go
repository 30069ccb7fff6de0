package model

import "time"

// Reservation is an immutable claim binding one user to one seat for one
// showing. For any fixed showing the set of reserved seat IDs is a set:
// the reservations table carries a unique key on (showing_id, seat_id), so
// a seat can never be sold twice no matter how many requests race. Deletion
// is the only mutation and frees the pair immediately.
type Reservation struct {
	ID        uint64    // reservations.id
	ShowingID uint64    // reservations.showing_id
	SeatID    uint64    // reservations.seat_id
	UserID    uint64    // reservations.user_id
	CreatedAt time.Time // reservations.created_at
}

// ReservationDetail is the joined read model for listing reservations:
// the bare ledger row plus the movie, schedule and seat a customer needs
// to recognise their booking.
type ReservationDetail struct {
	Reservation
	MovieTitle string    // movies.title
	StartsAt   time.Time // showings.starts_at
	EndsAt     time.Time // showings.ends_at
	RoomNumber uint32    // rooms.number
	SeatRow    uint32    // seats.seat_row
	SeatNumber uint32    // seats.seat_number
}

// SeatStatus is one cell of a showing's seat map: the seat plus whether a
// reservation currently claims it.
type SeatStatus struct {
	Seat
	Reserved bool
}
