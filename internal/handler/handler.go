// Package handler implements the HTTP endpoints. Handlers bind and
// validate input, call repositories and translate sentinel errors into
// status codes; they hold no business state of their own.
package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/kinoreserve/movie-reservation/internal/middleware"
	"github.com/kinoreserve/movie-reservation/internal/repository"
)

// currentUser and currentRole read the identity JWTAuth stored in context.
func currentUser(c echo.Context) uint64 { return middleware.CurrentUserID(c) }
func currentRole(c echo.Context) string { return middleware.CurrentRole(c) }

// pathID parses a numeric :id style path parameter.
func pathID(c echo.Context, name string) (uint64, error) {
	return strconv.ParseUint(c.Param(name), 10, 64)
}

// repoError maps repository sentinels onto HTTP responses. ErrSeatTaken
// gets its own message so a client can distinguish "somebody beat you to
// the seat" from other conflicts and re-render the seat map.
func repoError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, repository.ErrUserNotFound),
		errors.Is(err, repository.ErrGenreNotFound),
		errors.Is(err, repository.ErrMovieNotFound),
		errors.Is(err, repository.ErrRoomNotFound),
		errors.Is(err, repository.ErrSeatNotFound),
		errors.Is(err, repository.ErrShowingNotFound),
		errors.Is(err, repository.ErrReservationNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	case errors.Is(err, repository.ErrSeatTaken):
		return c.JSON(http.StatusConflict, echo.Map{"error": "seat already reserved for this showing"})
	case errors.Is(err, repository.ErrConflict):
		return c.JSON(http.StatusConflict, echo.Map{"error": "conflict with existing state"})
	case errors.Is(err, repository.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
}
