package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeatGrid(t *testing.T) {
	tests := []struct {
		name     string
		capacity uint32
		wantLast Seat
	}{
		{
			name:     "single seat",
			capacity: 1,
			wantLast: Seat{RoomID: 7, Row: 1, Number: 1},
		},
		{
			name:     "exactly one row",
			capacity: 10,
			wantLast: Seat{RoomID: 7, Row: 1, Number: 10},
		},
		{
			name:     "row boundary starts a new row",
			capacity: 11,
			wantLast: Seat{RoomID: 7, Row: 2, Number: 1},
		},
		{
			name:     "partial final row",
			capacity: 25,
			wantLast: Seat{RoomID: 7, Row: 3, Number: 5},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seats := SeatGrid(7, tt.capacity)
			require.Len(t, seats, int(tt.capacity))
			assert.Equal(t, Seat{RoomID: 7, Row: 1, Number: 1}, seats[0])
			assert.Equal(t, tt.wantLast, seats[len(seats)-1])
		})
	}
}

func TestSeatGridZeroCapacity(t *testing.T) {
	assert.Empty(t, SeatGrid(1, 0))
}

func TestSeatGridDeterministic(t *testing.T) {
	a := SeatGrid(3, 42)
	b := SeatGrid(3, 42)
	assert.Equal(t, a, b)
}

func TestSeatGridPositionsUnique(t *testing.T) {
	seats := SeatGrid(1, 95)
	seen := make(map[[2]uint32]bool, len(seats))
	for _, s := range seats {
		pos := [2]uint32{s.Row, s.Number}
		require.False(t, seen[pos], "duplicate position row=%d number=%d", s.Row, s.Number)
		seen[pos] = true
		assert.GreaterOrEqual(t, s.Number, uint32(1))
		assert.LessOrEqual(t, s.Number, uint32(SeatsPerRow))
	}
}
