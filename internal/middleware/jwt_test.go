package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kinoreserve/movie-reservation/internal/model"
	"github.com/kinoreserve/movie-reservation/internal/utils"
)

const testSecret = "test-secret"

func doRequest(t *testing.T, mw echo.MiddlewareFunc, authHeader string) (*httptest.ResponseRecorder, echo.Context) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := mw(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, handler(c))
	return rec, c
}

func TestJWTAuthValidToken(t *testing.T) {
	tok, err := utils.NewAccessToken(testSecret, 42, model.RoleCustomer, 5)
	require.NoError(t, err)

	rec, c := doRequest(t, JWTAuth(testSecret), "Bearer "+tok.Token)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, uint64(42), CurrentUserID(c))
	assert.Equal(t, model.RoleCustomer, CurrentRole(c))
}

func TestJWTAuthRejects(t *testing.T) {
	wrongSecret, err := utils.NewAccessToken("other-secret", 42, model.RoleCustomer, 5)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not bearer", "Basic abc"},
		{"garbage token", "Bearer not.a.jwt"},
		{"wrong secret", "Bearer " + wrongSecret.Token},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, c := doRequest(t, JWTAuth(testSecret), tt.header)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Zero(t, CurrentUserID(c))
		})
	}
}

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name     string
		role     string
		allowed  []string
		wantCode int
	}{
		{"admin allowed", model.RoleAdmin, []string{model.RoleAdmin}, http.StatusOK},
		{"customer blocked from admin route", model.RoleCustomer, []string{model.RoleAdmin}, http.StatusForbidden},
		{"customer allowed on shared route", model.RoleCustomer, []string{model.RoleAdmin, model.RoleCustomer}, http.StatusOK},
		{"missing role blocked", "", []string{model.RoleAdmin}, http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)
			if tt.role != "" {
				c.Set(ctxRole, tt.role)
			}

			handler := RequireRole(tt.allowed...)(func(c echo.Context) error {
				return c.NoContent(http.StatusOK)
			})
			require.NoError(t, handler(c))
			assert.Equal(t, tt.wantCode, rec.Code)
		})
	}
}
