// Package router registers the HTTP routes and the middleware each group
// carries. Public browse endpoints get the response cache; everything
// mutating the ledger or the schedule stays uncached.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/kinoreserve/movie-reservation/internal/handler"
	"github.com/kinoreserve/movie-reservation/internal/middleware"
	"github.com/kinoreserve/movie-reservation/internal/model"
)

// Handlers bundles every handler the router wires up.
type Handlers struct {
	Health       *handler.HealthHandler
	Auth         *handler.AuthHandler
	Users        *handler.UserHandler
	Genres       *handler.GenreHandler
	Movies       *handler.MovieHandler
	Rooms        *handler.RoomHandler
	Showings     *handler.ShowingHandler
	Reservations *handler.ReservationHandler
	Availability *handler.AvailabilityHandler
}

// Register wires all routes onto e. cacheMW may be a pass-through when
// Redis is unavailable; jwtSecret signs and verifies access tokens.
func Register(e *echo.Echo, h Handlers, jwtSecret string, cacheMW echo.MiddlewareFunc) {
	e.GET("/v1/health", h.Health.Health)

	// Session endpoints; no JWT required.
	auth := e.Group("/v1/auth")
	auth.POST("/register", h.Auth.Register)
	auth.POST("/login", h.Auth.Login)
	auth.POST("/refresh", h.Auth.Refresh)
	auth.POST("/logout", h.Auth.Logout)

	// Public catalog browse. Cached: the catalog tolerates short staleness.
	pub := e.Group("/v1", cacheMW)
	pub.GET("/genres", h.Genres.List)
	pub.GET("/genres/:id", h.Genres.Get)
	pub.GET("/movies", h.Movies.List)
	pub.GET("/movies/:id", h.Movies.Get)
	pub.GET("/showings", h.Showings.List)
	pub.GET("/showings/:id", h.Showings.Get)

	// Seat availability is public but never cached; it must reflect the
	// ledger at read time.
	e.GET("/v1/showings/:id/seats", h.Availability.SeatMap)

	// Customer endpoints: any authenticated user.
	user := e.Group("/v1", middleware.JWTAuth(jwtSecret), middleware.RequireRole(model.RoleAdmin, model.RoleCustomer))
	user.GET("/me", h.Auth.Me)
	user.POST("/reservations", h.Reservations.Create)
	user.GET("/reservations", h.Reservations.ListMine)
	user.GET("/reservations/:id", h.Reservations.Get)
	user.DELETE("/reservations/:id", h.Reservations.Delete)

	// Admin endpoints: catalog, rooms and schedule management.
	admin := e.Group("/v1", middleware.JWTAuth(jwtSecret), middleware.RequireRole(model.RoleAdmin))
	admin.POST("/genres", h.Genres.Create)
	admin.PUT("/genres/:id", h.Genres.Update)
	admin.DELETE("/genres/:id", h.Genres.Delete)

	admin.POST("/movies", h.Movies.Create)
	admin.PUT("/movies/:id", h.Movies.Update)
	admin.DELETE("/movies/:id", h.Movies.Delete)

	admin.POST("/rooms", h.Rooms.Create)
	admin.GET("/rooms", h.Rooms.List)
	admin.GET("/rooms/:id", h.Rooms.Get)
	admin.GET("/rooms/:id/seats", h.Rooms.ListSeats)
	admin.PUT("/rooms/:id", h.Rooms.Update)
	admin.DELETE("/rooms/:id", h.Rooms.Delete)

	admin.POST("/showings", h.Showings.Create)
	admin.PUT("/showings/:id", h.Showings.Update)
	admin.DELETE("/showings/:id", h.Showings.Delete)
	admin.GET("/showings/:id/reservations", h.Reservations.ListByShowing)
	admin.GET("/reservations/all", h.Reservations.ListAll)

	admin.GET("/users", h.Users.List)
	admin.GET("/users/:id", h.Users.Get)
	admin.POST("/users", h.Users.Create)
	admin.PUT("/users/:id", h.Users.Update)
	admin.DELETE("/users/:id", h.Users.Delete)
}
