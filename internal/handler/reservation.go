package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/kinoreserve/movie-reservation/internal/model"
	"github.com/kinoreserve/movie-reservation/internal/queue"
	"github.com/kinoreserve/movie-reservation/internal/repository"
	"github.com/kinoreserve/movie-reservation/internal/service"
)

// ReservationHandler implements booking, cancellation and listing. The
// create path does no locking and no seat-map read: it hands the insert to
// the ledger and translates the outcome, so two racing requests for the
// same seat resolve to exactly one 201 and one 409.
type ReservationHandler struct {
	Reservations *repository.ReservationRepo
	Showings     *repository.ShowingRepo
	Movies       *repository.MovieRepo
	Rooms        *repository.RoomRepo
	Seats        *repository.SeatRepo

	AMQPURL string
	Log     zerolog.Logger
}

// NewReservationHandler wires the reservation endpoints to their
// repositories. amqpURL may be empty to disable event publishing.
func NewReservationHandler(
	reservations *repository.ReservationRepo,
	showings *repository.ShowingRepo,
	movies *repository.MovieRepo,
	rooms *repository.RoomRepo,
	seats *repository.SeatRepo,
	amqpURL string,
	log zerolog.Logger,
) *ReservationHandler {
	return &ReservationHandler{
		Reservations: reservations,
		Showings:     showings,
		Movies:       movies,
		Rooms:        rooms,
		Seats:        seats,
		AMQPURL:      amqpURL,
		Log:          log,
	}
}

type reservationResponse struct {
	ID        uint64 `json:"id"`
	ShowingID uint64 `json:"showing_id"`
	SeatID    uint64 `json:"seat_id"`
	UserID    uint64 `json:"user_id"`
	CreatedAt string `json:"created_at"`
}

type reservationDetailResponse struct {
	reservationResponse
	MovieTitle string `json:"movie_title"`
	StartsAt   string `json:"starts_at"`
	EndsAt     string `json:"ends_at"`
	RoomNumber uint32 `json:"room_number"`
	SeatRow    uint32 `json:"seat_row"`
	SeatNumber uint32 `json:"seat_number"`
}

func toReservationDetailResponses(details []model.ReservationDetail) []reservationDetailResponse {
	out := make([]reservationDetailResponse, 0, len(details))
	for _, d := range details {
		out = append(out, reservationDetailResponse{
			reservationResponse: reservationResponse{
				ID:        d.ID,
				ShowingID: d.ShowingID,
				SeatID:    d.SeatID,
				UserID:    d.UserID,
				CreatedAt: d.CreatedAt.UTC().Format(time.RFC3339),
			},
			MovieTitle: d.MovieTitle,
			StartsAt:   d.StartsAt.UTC().Format(time.RFC3339),
			EndsAt:     d.EndsAt.UTC().Format(time.RFC3339),
			RoomNumber: d.RoomNumber,
			SeatRow:    d.SeatRow,
			SeatNumber: d.SeatNumber,
		})
	}
	return out
}

// Create handles POST /v1/reservations for the authenticated customer.
// Booking a seat in a showing that already started is rejected.
func (h *ReservationHandler) Create(c echo.Context) error {
	userID := currentUser(c)
	if userID == 0 {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body struct {
		ShowingID *uint64 `json:"showing_id"`
		SeatID    *uint64 `json:"seat_id"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.ShowingID == nil || *body.ShowingID == 0 || body.SeatID == nil || *body.SeatID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "showing_id and seat_id are required"})
	}

	ctx := c.Request().Context()
	showing, err := h.Showings.GetByID(ctx, *body.ShowingID)
	if err != nil {
		return repoError(c, err)
	}
	if !time.Now().UTC().Before(showing.StartsAt) {
		return c.JSON(http.StatusConflict, echo.Map{"error": "showing has already started"})
	}

	res := &model.Reservation{ShowingID: *body.ShowingID, SeatID: *body.SeatID, UserID: userID}
	if err := h.Reservations.Create(ctx, res); err != nil {
		return repoError(c, err)
	}

	h.publishCreated(res, showing)
	return c.JSON(http.StatusCreated, reservationResponse{
		ID:        res.ID,
		ShowingID: res.ShowingID,
		SeatID:    res.SeatID,
		UserID:    res.UserID,
		CreatedAt: res.CreatedAt.UTC().Format(time.RFC3339),
	})
}

// Get handles GET /v1/reservations/:id. A customer may only inspect their
// own booking; an admin may inspect any.
func (h *ReservationHandler) Get(c echo.Context) error {
	userID := currentUser(c)
	if userID == 0 {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	res, err := h.Reservations.GetByID(c.Request().Context(), id)
	if err != nil {
		return repoError(c, err)
	}
	if res.UserID != userID && currentRole(c) != model.RoleAdmin {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	return c.JSON(http.StatusOK, reservationResponse{
		ID:        res.ID,
		ShowingID: res.ShowingID,
		SeatID:    res.SeatID,
		UserID:    res.UserID,
		CreatedAt: res.CreatedAt.UTC().Format(time.RFC3339),
	})
}

// ListMine handles GET /v1/reservations, the customer's own bookings,
// newest first.
func (h *ReservationHandler) ListMine(c echo.Context) error {
	userID := currentUser(c)
	if userID == 0 {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	details, err := h.Reservations.ListByUser(c.Request().Context(), userID)
	if err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, toReservationDetailResponses(details))
}

// ListAll handles GET /v1/reservations/all for admins: the whole ledger
// with user, movie and seat detail.
func (h *ReservationHandler) ListAll(c echo.Context) error {
	details, err := h.Reservations.ListAll(c.Request().Context())
	if err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, toReservationDetailResponses(details))
}

// ListByShowing handles GET /v1/showings/:id/reservations for admins.
func (h *ReservationHandler) ListByShowing(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if _, err := h.Showings.GetByID(c.Request().Context(), id); err != nil {
		return repoError(c, err)
	}
	details, err := h.Reservations.ListByShowing(c.Request().Context(), id)
	if err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, toReservationDetailResponses(details))
}

// Delete handles DELETE /v1/reservations/:id. A customer may only cancel
// their own booking; an admin may cancel any.
func (h *ReservationHandler) Delete(c echo.Context) error {
	userID := currentUser(c)
	if userID == 0 {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ownerID := userID
	if currentRole(c) == model.RoleAdmin {
		ownerID = 0
	}
	if err := h.Reservations.Delete(c.Request().Context(), id, ownerID); err != nil {
		return repoError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// publishCreated emits the reservation.created event in the background.
// The booking is already committed; a publish failure is logged and
// otherwise ignored.
func (h *ReservationHandler) publishCreated(res *model.Reservation, showing *model.Showing) {
	if h.AMQPURL == "" {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		ev := queue.ReservationCreatedEvent{
			ReservationID: res.ID,
			UserID:        res.UserID,
			ShowingID:     res.ShowingID,
			StartsAt:      showing.StartsAt.UTC().Format(time.RFC3339),
			EndsAt:        showing.EndsAt.UTC().Format(time.RFC3339),
			PriceCents:    showing.PriceCents,
			ReservedAt:    res.CreatedAt.UTC().Format(time.RFC3339),
		}
		if movie, err := h.Movies.GetByID(ctx, showing.MovieID); err == nil {
			ev.MovieTitle = movie.Title
		}
		if room, err := h.Rooms.GetByID(ctx, showing.RoomID); err == nil {
			ev.RoomNumber = room.Number
		}
		if seat, err := h.Seats.GetByID(ctx, res.SeatID); err == nil {
			ev.SeatRow = seat.Row
			ev.SeatNumber = seat.Number
		}
		if err := service.PublishReservationCreated(ctx, h.AMQPURL, ev); err != nil {
			h.Log.Warn().Err(err).Uint64("reservation_id", res.ID).Msg("publish reservation.created failed")
		}
	}()
}
