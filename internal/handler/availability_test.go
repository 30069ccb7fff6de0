package handler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kinoreserve/movie-reservation/internal/model"
)

func seatStatus(id uint64, row, number uint32, reserved bool) model.SeatStatus {
	return model.SeatStatus{
		Seat:     model.Seat{ID: id, RoomID: 1, Row: row, Number: number},
		Reserved: reserved,
	}
}

func TestAssembleSeatMap(t *testing.T) {
	statuses := []model.SeatStatus{
		seatStatus(1, 1, 1, false),
		seatStatus(2, 1, 2, true),
		seatStatus(3, 1, 3, false),
		seatStatus(4, 2, 1, true),
		seatStatus(5, 2, 2, true),
		seatStatus(6, 3, 1, false),
	}

	rows, free := AssembleSeatMap(statuses)

	require.Len(t, rows, 3)
	assert.Equal(t, 3, free)

	assert.Equal(t, uint32(1), rows[0].Row)
	require.Len(t, rows[0].Seats, 3)
	assert.False(t, rows[0].Seats[0].Reserved)
	assert.True(t, rows[0].Seats[1].Reserved)

	assert.Equal(t, uint32(2), rows[1].Row)
	require.Len(t, rows[1].Seats, 2)
	assert.True(t, rows[1].Seats[0].Reserved)
	assert.True(t, rows[1].Seats[1].Reserved)

	assert.Equal(t, uint32(3), rows[2].Row)
	require.Len(t, rows[2].Seats, 1)
}

func TestAssembleSeatMapEmpty(t *testing.T) {
	rows, free := AssembleSeatMap(nil)
	assert.Empty(t, rows)
	assert.Zero(t, free)
}

func TestAssembleSeatMapCancelFreesSeat(t *testing.T) {
	before := []model.SeatStatus{
		seatStatus(1, 1, 1, true),
		seatStatus(2, 1, 2, false),
	}
	_, freeBefore := AssembleSeatMap(before)

	// Same grid after the reservation on seat 1 is cancelled.
	after := []model.SeatStatus{
		seatStatus(1, 1, 1, false),
		seatStatus(2, 1, 2, false),
	}
	_, freeAfter := AssembleSeatMap(after)

	assert.Equal(t, 1, freeBefore)
	assert.Equal(t, 2, freeAfter)
}
