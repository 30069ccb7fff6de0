package middleware // reusable HTTP middleware for the API

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// Context keys set by JWTAuth and read by handlers and RequireRole.
const (
	ctxUserID = "user_id"
	ctxRole   = "role"
)

// JWTAuth validates a Bearer access token signed with the given secret and
// stores the subject and role claims in the request context. Handlers
// behind it read them with CurrentUserID and CurrentRole.
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

			tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, echo.ErrUnauthorized
				}
				return []byte(secret), nil
			})
			if err != nil || !tok.Valid {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}
			claims, ok := tok.Claims.(jwt.MapClaims)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid claims"})
			}

			// JSON numbers decode as float64; normalise sub to uint64 here
			// so handlers never repeat the conversion.
			sub, ok := claims["sub"].(float64)
			if !ok || sub < 1 {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid claims"})
			}
			role, _ := claims["role"].(string)

			c.Set(ctxUserID, uint64(sub))
			c.Set(ctxRole, role)
			return next(c)
		}
	}
}

// CurrentUserID returns the authenticated user's ID, 0 when the request is
// unauthenticated.
func CurrentUserID(c echo.Context) uint64 {
	if v, ok := c.Get(ctxUserID).(uint64); ok {
		return v
	}
	return 0
}

// CurrentRole returns the authenticated user's role, "" when absent.
func CurrentRole(c echo.Context) string {
	if v, ok := c.Get(ctxRole).(string); ok {
		return v
	}
	return ""
}
