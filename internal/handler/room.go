package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/kinoreserve/movie-reservation/internal/model"
	"github.com/kinoreserve/movie-reservation/internal/repository"
)

// RoomHandler implements the admin room endpoints and the seat listing.
type RoomHandler struct {
	Rooms *repository.RoomRepo
	Seats *repository.SeatRepo
}

// NewRoomHandler wires the room endpoints to their repositories.
func NewRoomHandler(rooms *repository.RoomRepo, seats *repository.SeatRepo) *RoomHandler {
	return &RoomHandler{Rooms: rooms, Seats: seats}
}

type seatResponse struct {
	ID     uint64 `json:"id"`
	Row    uint32 `json:"row"`
	Number uint32 `json:"number"`
}

type roomResponse struct {
	ID        uint64         `json:"id"`
	Number    uint32         `json:"number"`
	Capacity  uint32         `json:"capacity"`
	Seats     []seatResponse `json:"seats,omitempty"`
	CreatedAt string         `json:"created_at"`
	UpdatedAt string         `json:"updated_at"`
}

func toRoomResponse(r *model.Room, withSeats bool) roomResponse {
	out := roomResponse{
		ID:        r.ID,
		Number:    r.Number,
		Capacity:  r.Capacity,
		CreatedAt: r.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt: r.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if withSeats {
		out.Seats = toSeatResponses(r.Seats)
	}
	return out
}

func toSeatResponses(seats []model.Seat) []seatResponse {
	out := make([]seatResponse, 0, len(seats))
	for _, s := range seats {
		out = append(out, seatResponse{ID: s.ID, Row: s.Row, Number: s.Number})
	}
	return out
}

// Create handles POST /v1/rooms. The seat grid is generated from capacity
// in the same transaction as the room itself.
func (h *RoomHandler) Create(c echo.Context) error {
	var body struct {
		Number   *uint32 `json:"number"`
		Capacity *uint32 `json:"capacity"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.Number == nil || *body.Number == 0 || body.Capacity == nil || *body.Capacity == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "number and capacity are required and must be greater than zero"})
	}

	room := &model.Room{Number: *body.Number, Capacity: *body.Capacity}
	if err := h.Rooms.CreateWithSeats(c.Request().Context(), room); err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusCreated, toRoomResponse(room, true))
}

// List handles GET /v1/rooms.
func (h *RoomHandler) List(c echo.Context) error {
	rooms, err := h.Rooms.List(c.Request().Context())
	if err != nil {
		return repoError(c, err)
	}
	out := make([]roomResponse, 0, len(rooms))
	for i := range rooms {
		out = append(out, toRoomResponse(&rooms[i], true))
	}
	return c.JSON(http.StatusOK, out)
}

// Get handles GET /v1/rooms/:id.
func (h *RoomHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	room, err := h.Rooms.GetByID(c.Request().Context(), id)
	if err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, toRoomResponse(room, true))
}

// ListSeats handles GET /v1/rooms/:id/seats.
func (h *RoomHandler) ListSeats(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if _, err := h.Rooms.GetByID(c.Request().Context(), id); err != nil {
		return repoError(c, err)
	}
	seats, err := h.Seats.GetByRoom(c.Request().Context(), id)
	if err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, toSeatResponses(seats))
}

// Update handles PUT /v1/rooms/:id. Capacity changes never touch the
// existing seat grid.
func (h *RoomHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var body struct {
		Number   *uint32 `json:"number"`
		Capacity *uint32 `json:"capacity"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.Number == nil || *body.Number == 0 || body.Capacity == nil || *body.Capacity == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "number and capacity are required and must be greater than zero"})
	}

	room := &model.Room{ID: id, Number: *body.Number, Capacity: *body.Capacity}
	if err := h.Rooms.Update(c.Request().Context(), room); err != nil {
		return repoError(c, err)
	}
	updated, err := h.Rooms.GetByID(c.Request().Context(), id)
	if err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, toRoomResponse(updated, true))
}

// Delete handles DELETE /v1/rooms/:id. Blocked while showings reference
// the room.
func (h *RoomHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Rooms.Delete(c.Request().Context(), id); err != nil {
		return repoError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
