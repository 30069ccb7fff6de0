package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/kinoreserve/movie-reservation/internal/config"
	"github.com/kinoreserve/movie-reservation/internal/model"
	"github.com/kinoreserve/movie-reservation/internal/repository"
	"github.com/kinoreserve/movie-reservation/internal/utils"
)

// AuthHandler implements register, login, refresh and logout.
type AuthHandler struct {
	Users  *repository.UserRepo
	Tokens *repository.TokenRepo
	Cfg    config.Config
}

// NewAuthHandler wires the auth endpoints to their repositories.
func NewAuthHandler(users *repository.UserRepo, tokens *repository.TokenRepo, cfg config.Config) *AuthHandler {
	return &AuthHandler{Users: users, Tokens: tokens, Cfg: cfg}
}

type tokenPairResponse struct {
	AccessToken      string `json:"access_token"`
	AccessExpiresAt  string `json:"access_expires_at"`
	RefreshToken     string `json:"refresh_token"`
	RefreshExpiresAt string `json:"refresh_expires_at"`
}

// Register handles POST /v1/auth/register. New accounts are always
// customers; admin accounts are provisioned out of band.
func (h *AuthHandler) Register(c echo.Context) error {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	email := strings.TrimSpace(strings.ToLower(body.Email))
	if email == "" || !strings.Contains(email, "@") {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "valid email is required"})
	}
	if len(body.Password) < 8 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "password must be at least 8 characters"})
	}

	hash, err := utils.HashPassword(body.Password, h.Cfg.BcryptCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	u := &model.User{Email: email, PasswordHash: hash, Role: model.RoleCustomer}
	if err := h.Users.Create(c.Request().Context(), u); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "email already registered"})
		}
		return repoError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"id":    u.ID,
		"email": u.Email,
		"role":  u.Role,
	})
}

// Login handles POST /v1/auth/login and issues an access/refresh pair.
// Unknown email and wrong password produce the same response.
func (h *AuthHandler) Login(c echo.Context) error {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	email := strings.TrimSpace(strings.ToLower(body.Email))

	u, err := h.Users.GetByEmail(c.Request().Context(), email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
		}
		return repoError(c, err)
	}
	if !utils.VerifyPassword(u.PasswordHash, body.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}
	return h.issueTokens(c, u)
}

// Refresh handles POST /v1/auth/refresh. The presented token is rotated:
// verified, revoked and replaced by a new pair in one request.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var body struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := c.Bind(&body); err != nil || body.RefreshToken == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "refresh_token is required"})
	}

	hash := utils.HashRefreshRaw(body.RefreshToken)
	userID, err := h.Tokens.Verify(c.Request().Context(), hash, time.Now().UTC())
	if err != nil {
		if errors.Is(err, repository.ErrTokenInvalid) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh token"})
		}
		return repoError(c, err)
	}
	u, err := h.Users.GetByID(c.Request().Context(), userID)
	if err != nil {
		return repoError(c, err)
	}
	if err := h.Tokens.Revoke(c.Request().Context(), hash); err != nil {
		return repoError(c, err)
	}
	return h.issueTokens(c, u)
}

// Logout handles POST /v1/auth/logout, revoking the presented refresh
// token. Always 204: revoking an already dead token is not an error.
func (h *AuthHandler) Logout(c echo.Context) error {
	var body struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := c.Bind(&body); err != nil || body.RefreshToken == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "refresh_token is required"})
	}
	if err := h.Tokens.Revoke(c.Request().Context(), utils.HashRefreshRaw(body.RefreshToken)); err != nil {
		return repoError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Me handles GET /v1/me for the authenticated user.
func (h *AuthHandler) Me(c echo.Context) error {
	userID := currentUser(c)
	if userID == 0 {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	u, err := h.Users.GetByID(c.Request().Context(), userID)
	if err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"id":         u.ID,
		"email":      u.Email,
		"role":       u.Role,
		"created_at": u.CreatedAt.UTC().Format(time.RFC3339),
	})
}

func (h *AuthHandler) issueTokens(c echo.Context, u *model.User) error {
	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, u.ID, u.Role, h.Cfg.AccessTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	refresh, err := utils.NewRefreshToken(h.Cfg.RefreshTTLDays)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	if err := h.Tokens.Store(c.Request().Context(), u.ID, utils.HashRefreshRaw(refresh.Raw), refresh.Exp); err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, tokenPairResponse{
		AccessToken:      access.Token,
		AccessExpiresAt:  access.Exp.Format(time.RFC3339),
		RefreshToken:     refresh.Raw,
		RefreshExpiresAt: refresh.Exp.Format(time.RFC3339),
	})
}
