package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/kinoreserve/movie-reservation/internal/config"
	"github.com/kinoreserve/movie-reservation/internal/model"
	"github.com/kinoreserve/movie-reservation/internal/repository"
	"github.com/kinoreserve/movie-reservation/internal/utils"
)

// UserHandler implements the admin account-management surface: list,
// inspect, provision, update and delete users. This is how admin accounts
// come to exist; self-service registration only creates customers.
type UserHandler struct {
	Users  *repository.UserRepo
	Tokens *repository.TokenRepo
	Cfg    config.Config
}

// NewUserHandler wires the admin user endpoints to their repositories.
func NewUserHandler(users *repository.UserRepo, tokens *repository.TokenRepo, cfg config.Config) *UserHandler {
	return &UserHandler{Users: users, Tokens: tokens, Cfg: cfg}
}

type userResponse struct {
	ID        uint64 `json:"id"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func toUserResponse(u *model.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: u.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt: u.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func validRole(role string) bool {
	return role == model.RoleAdmin || role == model.RoleCustomer
}

// List handles GET /v1/users.
func (h *UserHandler) List(c echo.Context) error {
	users, err := h.Users.List(c.Request().Context())
	if err != nil {
		return repoError(c, err)
	}
	out := make([]userResponse, 0, len(users))
	for i := range users {
		out = append(out, toUserResponse(&users[i]))
	}
	return c.JSON(http.StatusOK, out)
}

// Get handles GET /v1/users/:id.
func (h *UserHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	u, err := h.Users.GetByID(c.Request().Context(), id)
	if err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, toUserResponse(u))
}

// Create handles POST /v1/users: admin provisioning of an account with an
// explicit role. Defaults to CUSTOMER when no role is given.
func (h *UserHandler) Create(c echo.Context) error {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Role     string `json:"role"`
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
	role := strings.TrimSpace(body.Role)
	if role == "" {
		role = model.RoleCustomer
	}
	if !validRole(role) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "role must be ADMIN or CUSTOMER"})
	}

	hash, err := utils.HashPassword(body.Password, h.Cfg.BcryptCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	u := &model.User{Email: email, PasswordHash: hash, Role: role}
	if err := h.Users.Create(c.Request().Context(), u); err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusCreated, toUserResponse(u))
}

// Update handles PUT /v1/users/:id, rewriting email and role. A role
// change revokes every live refresh token of the account so old sessions
// cannot keep the previous privileges.
func (h *UserHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var body struct {
		Email string `json:"email"`
		Role  string `json:"role"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	email := strings.TrimSpace(strings.ToLower(body.Email))
	if email == "" || !strings.Contains(email, "@") {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "valid email is required"})
	}
	role := strings.TrimSpace(body.Role)
	if !validRole(role) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "role must be ADMIN or CUSTOMER"})
	}

	ctx := c.Request().Context()
	cur, err := h.Users.GetByID(ctx, id)
	if err != nil {
		return repoError(c, err)
	}
	u := &model.User{ID: id, Email: email, Role: role}
	if err := h.Users.Update(ctx, u); err != nil {
		return repoError(c, err)
	}
	if cur.Role != role {
		if err := h.Tokens.RevokeAllForUser(ctx, id); err != nil {
			return repoError(c, err)
		}
	}
	updated, err := h.Users.GetByID(ctx, id)
	if err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, toUserResponse(updated))
}

// Delete handles DELETE /v1/users/:id. Admins cannot delete their own
// account, and accounts with reservations are blocked with 409.
func (h *UserHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if id == currentUser(c) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "cannot delete your own account"})
	}
	if err := h.Users.Delete(c.Request().Context(), id); err != nil {
		return repoError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
