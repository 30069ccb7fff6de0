package handler

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

// HealthHandler reports liveness of the server and its backing stores.
type HealthHandler struct {
	DB    *sql.DB
	Redis *redis.Client
}

// NewHealthHandler builds a HealthHandler; rdb may be nil when Redis is
// not configured.
func NewHealthHandler(db *sql.DB, rdb *redis.Client) *HealthHandler {
	return &HealthHandler{DB: db, Redis: rdb}
}

// Health handles GET /v1/health. The database is required; Redis is
// reported but never fails the check.
func (h *HealthHandler) Health(c echo.Context) error {
	ctx := c.Request().Context()

	overall := "ok"
	status := http.StatusOK
	dbState := "up"
	if err := h.DB.PingContext(ctx); err != nil {
		dbState = "down"
		overall = "degraded"
		status = http.StatusServiceUnavailable
	}
	redisState := "disabled"
	if h.Redis != nil {
		redisState = "up"
		if err := h.Redis.Ping(ctx).Err(); err != nil {
			redisState = "down"
		}
	}
	return c.JSON(status, echo.Map{
		"status": overall,
		"db":     dbState,
		"redis":  redisState,
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}
