package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/kinoreserve/movie-reservation/internal/model"
	"github.com/kinoreserve/movie-reservation/internal/repository"
)

// ShowingHandler implements the admin scheduling endpoints. The end time
// of a showing is never taken from input: it is derived from the start
// time and the movie's duration on every create and update.
type ShowingHandler struct {
	Showings *repository.ShowingRepo
	Movies   *repository.MovieRepo
	Rooms    *repository.RoomRepo
}

// NewShowingHandler wires the showing endpoints to their repositories.
func NewShowingHandler(showings *repository.ShowingRepo, movies *repository.MovieRepo, rooms *repository.RoomRepo) *ShowingHandler {
	return &ShowingHandler{Showings: showings, Movies: movies, Rooms: rooms}
}

type showingResponse struct {
	ID         uint64 `json:"id"`
	MovieID    uint64 `json:"movie_id"`
	RoomID     uint64 `json:"room_id"`
	StartsAt   string `json:"starts_at"`
	EndsAt     string `json:"ends_at"`
	PriceCents uint32 `json:"price_cents"`
}

func toShowingResponse(s *model.Showing) showingResponse {
	return showingResponse{
		ID:         s.ID,
		MovieID:    s.MovieID,
		RoomID:     s.RoomID,
		StartsAt:   s.StartsAt.UTC().Format(time.RFC3339),
		EndsAt:     s.EndsAt.UTC().Format(time.RFC3339),
		PriceCents: s.PriceCents,
	}
}

func toShowingResponses(showings []model.Showing) []showingResponse {
	out := make([]showingResponse, 0, len(showings))
	for i := range showings {
		out = append(out, toShowingResponse(&showings[i]))
	}
	return out
}

type showingRequest struct {
	MovieID    *uint64 `json:"movie_id"`
	RoomID     *uint64 `json:"room_id"`
	StartsAt   *string `json:"starts_at"`
	PriceCents *uint32 `json:"price_cents"`
}

// resolve validates the request, checks the referenced movie and room
// exist and returns a showing with EndsAt derived from the movie's
// duration. The second return is a client error message, empty on success.
func (h *ShowingHandler) resolve(c echo.Context, body *showingRequest) (*model.Showing, string, error) {
	if body.MovieID == nil || body.RoomID == nil || body.StartsAt == nil || body.PriceCents == nil {
		return nil, "movie_id, room_id, starts_at and price_cents are required", nil
	}
	startsAt, err := time.Parse(time.RFC3339, *body.StartsAt)
	if err != nil {
		return nil, "starts_at must be RFC 3339", nil
	}
	startsAt = startsAt.UTC()

	ctx := c.Request().Context()
	movie, err := h.Movies.GetByID(ctx, *body.MovieID)
	if err != nil {
		return nil, "", err
	}
	if _, err := h.Rooms.GetByID(ctx, *body.RoomID); err != nil {
		return nil, "", err
	}

	return &model.Showing{
		MovieID:    movie.ID,
		RoomID:     *body.RoomID,
		StartsAt:   startsAt,
		EndsAt:     model.ShowingEnd(startsAt, movie.DurationMin),
		PriceCents: *body.PriceCents,
	}, "", nil
}

// Create handles POST /v1/showings. Overlapping the room's existing
// schedule is a 409.
func (h *ShowingHandler) Create(c echo.Context) error {
	var body showingRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	s, msg, err := h.resolve(c, &body)
	if msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	if err != nil {
		return repoError(c, err)
	}
	if err := h.Showings.Create(c.Request().Context(), s); err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusCreated, toShowingResponse(s))
}

// List handles GET /v1/showings.
func (h *ShowingHandler) List(c echo.Context) error {
	showings, err := h.Showings.List(c.Request().Context())
	if err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, toShowingResponses(showings))
}

// Get handles GET /v1/showings/:id.
func (h *ShowingHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	s, err := h.Showings.GetByID(c.Request().Context(), id)
	if err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, toShowingResponse(s))
}

// Update handles PUT /v1/showings/:id. The end time is re-derived from
// the (possibly new) movie and start time.
func (h *ShowingHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var body showingRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	s, msg, err := h.resolve(c, &body)
	if msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	if err != nil {
		return repoError(c, err)
	}
	s.ID = id
	if err := h.Showings.Update(c.Request().Context(), s); err != nil {
		return repoError(c, err)
	}
	updated, err := h.Showings.GetByID(c.Request().Context(), id)
	if err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, toShowingResponse(updated))
}

// Delete handles DELETE /v1/showings/:id. Blocked while reservations
// exist for the showing.
func (h *ShowingHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Showings.Delete(c.Request().Context(), id); err != nil {
		return repoError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
