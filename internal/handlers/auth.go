package handlers

import (
	"errors"

	"tally/internal/services/auth"
	"tally/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

// AuthHandler exposes registration and login endpoints.
type AuthHandler struct {
	authService auth.Service
}

func NewAuthHandler(authService auth.Service) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register handles POST /api/register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var input struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "invalid request body")
	}
	if input.Username == "" || input.Password == "" {
		return response.BadRequest(c, "username and password are required")
	}

	user, err := h.authService.Register(input.Username, input.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrUsernameTaken):
			return response.Error(c, fiber.StatusConflict, err.Error())
		case errors.Is(err, auth.ErrWeakPassword):
			return response.BadRequest(c, err.Error())
		default:
			return response.ServerError(c, "registration failed")
		}
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "registration successful",
		"data": fiber.Map{
			"id":       user.ID,
			"username": user.Username,
		},
	})
}

// Login handles POST /api/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var input struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "invalid request body")
	}
	if input.Username == "" || input.Password == "" {
		return response.BadRequest(c, "username and password are required")
	}

	user, token, err := h.authService.Login(input.Username, input.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			return response.Error(c, fiber.StatusUnauthorized, "invalid username or password")
		}
		return response.ServerError(c, "authentication failed")
	}

	return response.Success(c, "login successful", fiber.Map{
		"access_token": token,
		"user": fiber.Map{
			"id":       user.ID,
			"username": user.Username,
		},
	})
}
