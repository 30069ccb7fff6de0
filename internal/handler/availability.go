package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kinoreserve/movie-reservation/internal/model"
	"github.com/kinoreserve/movie-reservation/internal/repository"
)

// AvailabilityHandler serves the per-showing seat map. The projection is
// computed from the ledger on every request rather than cached: a seat map
// that lags the ledger would promise seats the insert will refuse.
type AvailabilityHandler struct {
	Reservations *repository.ReservationRepo
	Showings     *repository.ShowingRepo
}

// NewAvailabilityHandler wires the availability endpoint to its
// repositories.
func NewAvailabilityHandler(reservations *repository.ReservationRepo, showings *repository.ShowingRepo) *AvailabilityHandler {
	return &AvailabilityHandler{Reservations: reservations, Showings: showings}
}

type seatStatusResponse struct {
	ID       uint64 `json:"id"`
	Number   uint32 `json:"number"`
	Reserved bool   `json:"reserved"`
}

type seatMapRow struct {
	Row   uint32               `json:"row"`
	Seats []seatStatusResponse `json:"seats"`
}

type seatMapResponse struct {
	Showing showingResponse `json:"showing"`
	Rows    []seatMapRow    `json:"rows"`
	Total   int             `json:"total_seats"`
	Free    int             `json:"free_seats"`
}

// AssembleSeatMap groups a flat (row, number)-ordered seat status list
// into rows and tallies free seats.
func AssembleSeatMap(statuses []model.SeatStatus) ([]seatMapRow, int) {
	rows := make([]seatMapRow, 0)
	free := 0
	for _, s := range statuses {
		if !s.Reserved {
			free++
		}
		cell := seatStatusResponse{ID: s.ID, Number: s.Number, Reserved: s.Reserved}
		if n := len(rows); n > 0 && rows[n-1].Row == s.Row {
			rows[n-1].Seats = append(rows[n-1].Seats, cell)
		} else {
			rows = append(rows, seatMapRow{Row: s.Row, Seats: []seatStatusResponse{cell}})
		}
	}
	return rows, free
}

// SeatMap handles GET /v1/showings/:id/seats, the public availability
// view: every seat of the showing's room with its reserved flag.
func (h *AvailabilityHandler) SeatMap(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	showing, err := h.Showings.GetByID(c.Request().Context(), id)
	if err != nil {
		return repoError(c, err)
	}
	statuses, err := h.Reservations.SeatAvailability(c.Request().Context(), id)
	if err != nil {
		return repoError(c, err)
	}
	rows, free := AssembleSeatMap(statuses)
	return c.JSON(http.StatusOK, seatMapResponse{
		Showing: toShowingResponse(showing),
		Rows:    rows,
		Total:   len(statuses),
		Free:    free,
	})
}
