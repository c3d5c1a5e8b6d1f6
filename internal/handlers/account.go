package handlers

import (
	"errors"

	"tally/internal/services/account"
	"tally/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

// AccountHandler exposes balance and account lookups for the
// authenticated user.
type AccountHandler struct {
	accountService account.Service
}

func NewAccountHandler(accountService account.Service) *AccountHandler {
	return &AccountHandler{accountService: accountService}
}

// GetBalance handles GET /api/balance.
func (h *AccountHandler) GetBalance(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	balance, err := h.accountService.GetBalance(c.Context(), userID)
	if err != nil {
		if errors.Is(err, account.ErrAccountNotFound) {
			return response.Error(c, fiber.StatusNotFound, err.Error())
		}
		if errors.Is(err, account.ErrStoreUnavailable) {
			return response.Error(c, fiber.StatusServiceUnavailable, "account store unavailable")
		}
		return response.ServerError(c, "failed to get balance")
	}

	return response.Success(c, "balance retrieved", fiber.Map{
		"balance": balance,
	})
}

// GetAccount handles GET /api/account.
func (h *AccountHandler) GetAccount(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	acct, err := h.accountService.GetAccount(c.Context(), userID)
	if err != nil {
		if errors.Is(err, account.ErrAccountNotFound) {
			return response.Error(c, fiber.StatusNotFound, err.Error())
		}
		if errors.Is(err, account.ErrStoreUnavailable) {
			return response.Error(c, fiber.StatusServiceUnavailable, "account store unavailable")
		}
		return response.ServerError(c, "failed to get account")
	}

	return response.Success(c, "account retrieved", acct)
}
