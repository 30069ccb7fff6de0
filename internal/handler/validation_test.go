package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// postJSON builds an Echo context for a JSON POST.
//
// Handlers in this file are constructed with nil repositories on purpose:
// every case must be rejected by validation (or the auth check) before any
// repository call. A case that reaches storage will panic on the nil repo,
// which is the desired failure mode for a wrongly added case.
func postJSON(t *testing.T, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestRegisterValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty body", `{}`},
		{"email without at sign", `{"email":"nobody","password":"longenough1"}`},
		{"short password", `{"email":"a@b.test","password":"short"}`},
	}
	h := &AuthHandler{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := postJSON(t, "/v1/auth/register", tt.body)
			require.NoError(t, h.Register(c))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestRoomCreateValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty body", `{}`},
		{"zero number", `{"number":0,"capacity":50}`},
		{"zero capacity", `{"number":1,"capacity":0}`},
		{"missing capacity", `{"number":1}`},
	}
	h := &RoomHandler{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := postJSON(t, "/v1/rooms", tt.body)
			require.NoError(t, h.Create(c))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestShowingCreateValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty body", `{}`},
		{"missing price", `{"movie_id":1,"room_id":1,"starts_at":"2026-09-01T20:00:00Z"}`},
		{"bad timestamp", `{"movie_id":1,"room_id":1,"starts_at":"tonight","price_cents":1500}`},
	}
	h := &ShowingHandler{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := postJSON(t, "/v1/showings", tt.body)
			require.NoError(t, h.Create(c))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestReservationCreateRequiresUser(t *testing.T) {
	h := &ReservationHandler{}
	c, rec := postJSON(t, "/v1/reservations", `{"showing_id":1,"seat_id":1}`)
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestUserCreateValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty body", `{}`},
		{"bad email", `{"email":"nobody","password":"longenough1"}`},
		{"short password", `{"email":"a@b.test","password":"short"}`},
		{"unknown role", `{"email":"a@b.test","password":"longenough1","role":"OWNER"}`},
	}
	h := &UserHandler{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := postJSON(t, "/v1/users", tt.body)
			require.NoError(t, h.Create(c))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestUserDeleteRejectsSelf(t *testing.T) {
	h := &UserHandler{}
	e := echo.New()
	req := httptest.NewRequest(http.MethodDelete, "/v1/users/7", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("7")
	c.Set("user_id", uint64(7))

	require.NoError(t, h.Delete(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "cannot delete your own account")
}

func TestReservationGetRequiresUser(t *testing.T) {
	h := &ReservationHandler{}
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/reservations/1", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("1")

	require.NoError(t, h.Get(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGenreGetRejectsBadID(t *testing.T) {
	h := &GenreHandler{}
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/genres/abc", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("abc")

	require.NoError(t, h.Get(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMovieRequestToModel(t *testing.T) {
	dur := uint32(120)
	date := "2026-05-01"
	bad := "05/01/2026"

	tests := []struct {
		name    string
		req     movieRequest
		wantErr string
	}{
		{"missing title", movieRequest{DurationMin: &dur}, "title is required"},
		{"missing duration", movieRequest{Title: "Solaris"}, "duration_min is required and must be greater than zero"},
		{"bad release date", movieRequest{Title: "Solaris", DurationMin: &dur, ReleaseDate: &bad}, "release_date must be YYYY-MM-DD"},
		{"valid", movieRequest{Title: " Solaris ", DurationMin: &dur, ReleaseDate: &date}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, msg := tt.req.toModel()
			assert.Equal(t, tt.wantErr, msg)
			if tt.wantErr == "" {
				require.NotNil(t, m)
				assert.Equal(t, "Solaris", m.Title)
				assert.Equal(t, "ANNOUNCED", m.Status)
				require.NotNil(t, m.ReleaseDate)
				assert.Equal(t, "2026-05-01", m.ReleaseDate.Format("2006-01-02"))
			}
		})
	}
}
