package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kinoreserve/movie-reservation/internal/repository"
)

func TestRepoErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantBody string
	}{
		{
			name:     "seat taken is a conflict with its own message",
			err:      repository.ErrSeatTaken,
			wantCode: http.StatusConflict,
			wantBody: `"seat already reserved for this showing"`,
		},
		{
			name:     "generic conflict",
			err:      repository.ErrConflict,
			wantCode: http.StatusConflict,
			wantBody: `"conflict with existing state"`,
		},
		{
			name:     "not found sentinel",
			err:      repository.ErrShowingNotFound,
			wantCode: http.StatusNotFound,
			wantBody: `"showing not found"`,
		},
		{
			name:     "forbidden",
			err:      repository.ErrForbidden,
			wantCode: http.StatusForbidden,
			wantBody: `"forbidden"`,
		},
		{
			name:     "unknown storage failure stays opaque",
			err:      errors.New("driver: bad connection"),
			wantCode: http.StatusInternalServerError,
			wantBody: `"internal error"`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodPost, "/", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			require.NoError(t, repoError(c, tt.err))
			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantBody)
		})
	}
}
