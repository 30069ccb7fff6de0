package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/kinoreserve/movie-reservation/internal/model"
	"github.com/kinoreserve/movie-reservation/internal/repository"
)

// GenreHandler implements genre CRUD. Listing is public; writes are admin.
type GenreHandler struct {
	Genres *repository.GenreRepo
}

// NewGenreHandler wires the genre endpoints to their repository.
func NewGenreHandler(genres *repository.GenreRepo) *GenreHandler {
	return &GenreHandler{Genres: genres}
}

type genreResponse struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

func toGenreResponses(genres []model.Genre) []genreResponse {
	out := make([]genreResponse, 0, len(genres))
	for _, g := range genres {
		out = append(out, genreResponse{ID: g.ID, Name: g.Name})
	}
	return out
}

// Create handles POST /v1/genres.
func (h *GenreHandler) Create(c echo.Context) error {
	var body struct {
		Name string `json:"name"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	name := strings.TrimSpace(body.Name)
	if name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	g := &model.Genre{Name: name}
	if err := h.Genres.Create(c.Request().Context(), g); err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusCreated, genreResponse{ID: g.ID, Name: g.Name})
}

// Get handles GET /v1/genres/:id.
func (h *GenreHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	g, err := h.Genres.GetByID(c.Request().Context(), id)
	if err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, genreResponse{ID: g.ID, Name: g.Name})
}

// List handles GET /v1/genres.
func (h *GenreHandler) List(c echo.Context) error {
	genres, err := h.Genres.List(c.Request().Context())
	if err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, toGenreResponses(genres))
}

// Update handles PUT /v1/genres/:id.
func (h *GenreHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var body struct {
		Name string `json:"name"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	name := strings.TrimSpace(body.Name)
	if name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	g := &model.Genre{ID: id, Name: name}
	if err := h.Genres.Update(c.Request().Context(), g); err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, genreResponse{ID: g.ID, Name: g.Name})
}

// Delete handles DELETE /v1/genres/:id.
func (h *GenreHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Genres.Delete(c.Request().Context(), id); err != nil {
		return repoError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
