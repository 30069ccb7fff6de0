// Package queue defines message payloads exchanged over the broker and the
// background consumer that processes them.
package queue

// ReservationCreatedEvent is published after a seat is successfully booked.
// It carries enough context for downstream consumers (notification, audit,
// analytics) to act without querying the primary database.
type ReservationCreatedEvent struct {
	ReservationID uint64 `json:"reservation_id"`
	UserID        uint64 `json:"user_id"`
	ShowingID     uint64 `json:"showing_id"`
	MovieTitle    string `json:"movie_title"`
	RoomNumber    uint32 `json:"room_number"`
	SeatRow       uint32 `json:"seat_row"`
	SeatNumber    uint32 `json:"seat_number"`
	StartsAt      string `json:"starts_at"`
	EndsAt        string `json:"ends_at"`
	PriceCents    uint32 `json:"price_cents"`
	ReservedAt    string `json:"reserved_at"`
}

// Name of the durable queue carrying ReservationCreatedEvent messages.
const ReservationQueueName = "reservation.created"
