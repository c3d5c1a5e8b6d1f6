package handlers

import (
	"errors"

	"tally/internal/services/account"
	"tally/internal/services/transfer"
	"tally/internal/utils/response"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// TransferHandler exposes the transfer engine over HTTP.
type TransferHandler struct {
	service transfer.Service
}

func NewTransferHandler(s transfer.Service) *TransferHandler {
	return &TransferHandler{service: s}
}

type transferInput struct {
	TargetUserID uint   `json:"target_user_id"`
	Amount       string `json:"amount"`
}

func (in *transferInput) amount() (decimal.Decimal, error) {
	return decimal.NewFromString(in.Amount)
}

// Send handles POST /api/transfers/send.
func (h *TransferHandler) Send(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var input transferInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "invalid request body")
	}
	amount, err := input.amount()
	if err != nil {
		return response.BadRequest(c, "invalid amount")
	}

	t, err := h.service.InitiateSend(c.Context(), userID, input.TargetUserID, amount)
	if err != nil {
		return transferError(c, err)
	}
	return response.Success(c, "transfer completed", t)
}

// Request handles POST /api/transfers/request.
func (h *TransferHandler) Request(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var input transferInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "invalid request body")
	}
	amount, err := input.amount()
	if err != nil {
		return response.BadRequest(c, "invalid amount")
	}

	t, err := h.service.InitiateRequest(c.Context(), userID, input.TargetUserID, amount)
	if err != nil {
		return transferError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "transfer request created",
		"data":    t,
	})
}

// Decide handles POST /api/transfers/:id/decision.
func (h *TransferHandler) Decide(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	transferID, err := c.ParamsInt("id")
	if err != nil || transferID <= 0 {
		return response.BadRequest(c, "invalid transfer id")
	}

	var input struct {
		Decision string `json:"decision"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "invalid request body")
	}

	t, err := h.service.Decide(c.Context(), uint(transferID), userID, transfer.Decision(input.Decision))
	if err != nil {
		return transferError(c, err)
	}
	return response.Success(c, "decision applied", t)
}

// Get handles GET /api/transfers/:id.
func (h *TransferHandler) Get(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	transferID, err := c.ParamsInt("id")
	if err != nil || transferID <= 0 {
		return response.BadRequest(c, "invalid transfer id")
	}

	t, err := h.service.GetTransfer(c.Context(), uint(transferID), userID)
	if err != nil {
		return transferError(c, err)
	}
	return response.Success(c, "transfer retrieved", t)
}

// List handles GET /api/transfers.
func (h *TransferHandler) List(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	transfers, err := h.service.ListForUser(c.Context(), userID)
	if err != nil {
		return transferError(c, err)
	}
	return response.Success(c, "transfers retrieved", transfers)
}

// ListPending handles GET /api/transfers/pending.
func (h *TransferHandler) ListPending(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	transfers, err := h.service.ListPendingForUser(c.Context(), userID)
	if err != nil {
		return transferError(c, err)
	}
	return response.Success(c, "pending transfers retrieved", transfers)
}

// transferError maps engine errors to HTTP statuses. Every branch keeps
// the error text, which carries the offending identifiers.
func transferError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, transfer.ErrTransferNotFound),
		errors.Is(err, account.ErrAccountNotFound):
		return response.Error(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, transfer.ErrInvalidCounterparty),
		errors.Is(err, transfer.ErrInvalidAmount),
		errors.Is(err, transfer.ErrInvalidDecision):
		return response.BadRequest(c, err.Error())
	case errors.Is(err, transfer.ErrInsufficientFunds):
		return response.Error(c, fiber.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, transfer.ErrNotPending):
		return response.Error(c, fiber.StatusConflict, err.Error())
	case errors.Is(err, transfer.ErrUnauthorized):
		return response.Error(c, fiber.StatusForbidden, err.Error())
	case errors.Is(err, transfer.ErrSettlementIncomplete):
		return response.Error(c, fiber.StatusInternalServerError, err.Error())
	case errors.Is(err, transfer.ErrStoreUnavailable),
		errors.Is(err, account.ErrStoreUnavailable):
		return response.Error(c, fiber.StatusServiceUnavailable, "transfer store unavailable")
	default:
		return response.ServerError(c, "failed to process transfer")
	}
}
