package handlers

import (
	"errors"

	"tally/internal/services/auth"
	"tally/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

// UserHandler exposes the user directory so a client can pick a
// counterparty for a send or a request.
type UserHandler struct {
	authService auth.Service
}

func NewUserHandler(authService auth.Service) *UserHandler {
	return &UserHandler{authService: authService}
}

// ListUsers handles GET /api/users.
func (h *UserHandler) ListUsers(c *fiber.Ctx) error {
	users, err := h.authService.ListUsers()
	if err != nil {
		return response.ServerError(c, "failed to list users")
	}

	out := make([]fiber.Map, 0, len(users))
	for _, u := range users {
		out = append(out, fiber.Map{
			"id":       u.ID,
			"username": u.Username,
		})
	}
	return response.Success(c, "users retrieved", out)
}

// GetUser handles GET /api/users/:id.
func (h *UserHandler) GetUser(c *fiber.Ctx) error {
	userID, err := c.ParamsInt("id")
	if err != nil || userID <= 0 {
		return response.BadRequest(c, "invalid user id")
	}

	user, err := h.authService.GetUserByID(uint(userID))
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			return response.Error(c, fiber.StatusNotFound, err.Error())
		}
		return response.ServerError(c, "failed to get user")
	}

	return response.Success(c, "user retrieved", fiber.Map{
		"id":       user.ID,
		"username": user.Username,
	})
}
