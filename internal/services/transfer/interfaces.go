package transfer

import (
	"context"

	"tally/internal/models"

	"github.com/shopspring/decimal"
)

// AccountRegistry defines the account operations used by the engine.
// InvalidateAccount keeps cached reads consistent when the transfer
// store debits an account directly during approval.
type AccountRegistry interface {
	GetAccount(ctx context.Context, userID uint) (*models.Account, error)
	ApplyDelta(ctx context.Context, accountID uint, delta decimal.Decimal) (*models.Account, error)
	InvalidateAccount(ctx context.Context, userID uint) error
}

// Service is the transfer engine: it creates transfers, settles them
// against account balances and applies the payer's approve/reject
// decision on pending requests.
type Service interface {
	// InitiateSend moves amount from the requester to the target and
	// records an APPROVED SEND transfer. Nothing is persisted when the
	// debit fails.
	InitiateSend(ctx context.Context, requesterUserID, targetUserID uint, amount decimal.Decimal) (*models.Transfer, error)

	// InitiateRequest records a PENDING REQUEST transfer asking the
	// target to pay the requester. No balance changes until the target
	// approves.
	InitiateRequest(ctx context.Context, requesterUserID, targetUserID uint, amount decimal.Decimal) (*models.Transfer, error)

	// Decide applies the payer's decision to a pending transfer. Exactly
	// one of two concurrent deciders wins; the loser gets ErrNotPending.
	// An approval that fails the balance check leaves the transfer
	// PENDING.
	Decide(ctx context.Context, transferID, actingUserID uint, decision Decision) (*models.Transfer, error)

	// GetTransfer returns a single transfer visible to the user.
	GetTransfer(ctx context.Context, transferID, userID uint) (*models.Transfer, error)

	// ListForUser returns every transfer where the user's account is
	// source or destination, in creation order.
	ListForUser(ctx context.Context, userID uint) ([]*models.Transfer, error)

	// ListPendingForUser returns the pending transfers the user must
	// decide on (their account is the one being debited).
	ListPendingForUser(ctx context.Context, userID uint) ([]*models.Transfer, error)
}
