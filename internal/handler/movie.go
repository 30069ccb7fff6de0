package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/kinoreserve/movie-reservation/internal/model"
	"github.com/kinoreserve/movie-reservation/internal/repository"
)

const defaultMovieListLimit = 20

// MovieHandler implements movie CRUD for admins and the public catalog
// surface (browse by genre, movie detail with upcoming showings and their
// seat occupancy).
type MovieHandler struct {
	Movies       *repository.MovieRepo
	Showings     *repository.ShowingRepo
	Reservations *repository.ReservationRepo
}

// NewMovieHandler wires the movie endpoints to their repositories.
func NewMovieHandler(movies *repository.MovieRepo, showings *repository.ShowingRepo, reservations *repository.ReservationRepo) *MovieHandler {
	return &MovieHandler{Movies: movies, Showings: showings, Reservations: reservations}
}

type movieResponse struct {
	ID          uint64          `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Status      string          `json:"status"`
	ReleaseDate *string         `json:"release_date"`
	DurationMin uint32          `json:"duration_min"`
	Director    string          `json:"director"`
	Cast        string          `json:"cast"`
	Production  string          `json:"production"`
	Genres      []genreResponse `json:"genres"`
}

type upcomingShowingResponse struct {
	showingResponse
	Rows  []seatMapRow `json:"rows"`
	Total int          `json:"total_seats"`
	Free  int          `json:"free_seats"`
}

type movieDetailResponse struct {
	movieResponse
	UpcomingShowings []upcomingShowingResponse `json:"upcoming_showings"`
}

func toMovieResponse(m *model.Movie) movieResponse {
	out := movieResponse{
		ID:          m.ID,
		Title:       m.Title,
		Description: m.Description,
		Status:      m.Status,
		DurationMin: m.DurationMin,
		Director:    m.Director,
		Cast:        m.Cast,
		Production:  m.Production,
		Genres:      toGenreResponses(m.Genres),
	}
	if m.ReleaseDate != nil {
		d := m.ReleaseDate.Format("2006-01-02")
		out.ReleaseDate = &d
	}
	return out
}

type movieRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Status      string   `json:"status"`
	ReleaseDate *string  `json:"release_date"`
	DurationMin *uint32  `json:"duration_min"`
	Director    string   `json:"director"`
	Cast        string   `json:"cast"`
	Production  string   `json:"production"`
	GenreIDs    []uint64 `json:"genre_ids"`
}

func (body *movieRequest) toModel() (*model.Movie, string) {
	title := strings.TrimSpace(body.Title)
	if title == "" {
		return nil, "title is required"
	}
	if body.DurationMin == nil || *body.DurationMin == 0 {
		return nil, "duration_min is required and must be greater than zero"
	}
	m := &model.Movie{
		Title:       title,
		Description: strings.TrimSpace(body.Description),
		Status:      strings.TrimSpace(body.Status),
		DurationMin: *body.DurationMin,
		Director:    strings.TrimSpace(body.Director),
		Cast:        strings.TrimSpace(body.Cast),
		Production:  strings.TrimSpace(body.Production),
	}
	if m.Status == "" {
		m.Status = "ANNOUNCED"
	}
	if body.ReleaseDate != nil && *body.ReleaseDate != "" {
		d, err := time.Parse("2006-01-02", *body.ReleaseDate)
		if err != nil {
			return nil, "release_date must be YYYY-MM-DD"
		}
		m.ReleaseDate = &d
	}
	return m, ""
}

// Create handles POST /v1/movies.
func (h *MovieHandler) Create(c echo.Context) error {
	var body movieRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	m, msg := body.toModel()
	if msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	if err := h.Movies.Create(c.Request().Context(), m, body.GenreIDs); err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusCreated, toMovieResponse(m))
}

// List handles GET /v1/movies with optional ?genre_id= filter.
func (h *MovieHandler) List(c echo.Context) error {
	var genreID uint64
	if raw := c.QueryParam("genre_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid genre_id"})
		}
		genreID = id
	}
	movies, err := h.Movies.List(c.Request().Context(), genreID, defaultMovieListLimit)
	if err != nil {
		return repoError(c, err)
	}
	out := make([]movieResponse, 0, len(movies))
	for i := range movies {
		out = append(out, toMovieResponse(&movies[i]))
	}
	return c.JSON(http.StatusOK, out)
}

// Get handles GET /v1/movies/:id, returning the movie together with its
// upcoming showings and each showing's seat occupancy, so a client can go
// straight from the catalog to picking a seat.
func (h *MovieHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx := c.Request().Context()
	m, err := h.Movies.GetByID(ctx, id)
	if err != nil {
		return repoError(c, err)
	}
	upcoming, err := h.Showings.ListUpcomingByMovie(ctx, id, time.Now().UTC())
	if err != nil {
		return repoError(c, err)
	}
	detail := movieDetailResponse{
		movieResponse:    toMovieResponse(m),
		UpcomingShowings: make([]upcomingShowingResponse, 0, len(upcoming)),
	}
	for i := range upcoming {
		statuses, err := h.Reservations.SeatAvailability(ctx, upcoming[i].ID)
		if err != nil {
			return repoError(c, err)
		}
		rows, free := AssembleSeatMap(statuses)
		detail.UpcomingShowings = append(detail.UpcomingShowings, upcomingShowingResponse{
			showingResponse: toShowingResponse(&upcoming[i]),
			Rows:            rows,
			Total:           len(statuses),
			Free:            free,
		})
	}
	return c.JSON(http.StatusOK, detail)
}

// Update handles PUT /v1/movies/:id.
func (h *MovieHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var body movieRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	m, msg := body.toModel()
	if msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	m.ID = id
	if err := h.Movies.Update(c.Request().Context(), m, body.GenreIDs); err != nil {
		return repoError(c, err)
	}
	updated, err := h.Movies.GetByID(c.Request().Context(), id)
	if err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, toMovieResponse(updated))
}

// Delete handles DELETE /v1/movies/:id. Blocked while showings reference
// the movie.
func (h *MovieHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Movies.Delete(c.Request().Context(), id); err != nil {
		return repoError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
