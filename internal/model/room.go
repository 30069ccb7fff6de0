package model

import "time"

// SeatsPerRow is the fixed width of the generated seat grid. Seat index i
// (0-based) maps to row i/SeatsPerRow+1, number i%SeatsPerRow+1.
const SeatsPerRow = 10

// Room represents a screening room. Capacity records how many seats were
// requested at creation time; it is informational once the seat grid has
// been generated and changing it later does not add or remove seats.
type Room struct {
	ID        uint64    // rooms.id
	Number    uint32    // rooms.number (unique, >= 1)
	Capacity  uint32    // rooms.capacity
	Seats     []Seat    // owned seat grid, ordered by (row, number)
	CreatedAt time.Time // rooms.created_at
	UpdatedAt time.Time // rooms.updated_at
}

// Seat is one position in a room's grid. Seats are generated once when the
// room is created and are immutable afterwards; identity within a room is
// the (row, number) pair.
type Seat struct {
	ID     uint64 // seats.id
	RoomID uint64 // seats.room_id
	Row    uint32 // seats.seat_row (1-based)
	Number uint32 // seats.seat_number (1-based)
}

// SeatGrid returns the deterministic seat layout for a room of the given
// capacity. It is a pure function: the same capacity always yields the same
// grid, rows filled left to right, SeatsPerRow seats per row.
func SeatGrid(roomID uint64, capacity uint32) []Seat {
	seats := make([]Seat, 0, capacity)
	for i := uint32(0); i < capacity; i++ {
		seats = append(seats, Seat{
			RoomID: roomID,
			Row:    i/SeatsPerRow + 1,
			Number: i%SeatsPerRow + 1,
		})
	}
	return seats
}
