package repositories

import (
	"context"

	"tally/internal/models"
)

// TransferRepository handles transfer persistence. Transfers are
// insert-only except for the single PENDING -> APPROVED/REJECTED status
// flip, and ids come from the database sequence, never from the process.
type TransferRepository interface {
	Create(ctx context.Context, transfer *models.Transfer) error
	GetByID(ctx context.Context, id uint) (*models.Transfer, error)

	// ListByAccount returns every transfer where the account is source
	// or destination, in creation order.
	ListByAccount(ctx context.Context, accountID uint) ([]*models.Transfer, error)

	// ListPendingBySource returns PENDING transfers whose source (debited)
	// account is the given one, in creation order.
	ListPendingBySource(ctx context.Context, accountID uint) ([]*models.Transfer, error)

	// ApproveAndDebit flips a PENDING transfer to APPROVED and debits its
	// source account in one store transaction. Exactly one of two
	// concurrent callers wins; the loser gets ErrTransferNotPending. An
	// insufficient source balance returns ErrInsufficientFunds and leaves
	// the transfer PENDING. The debited account is returned alongside the
	// transfer so the caller can invalidate its cached copy.
	ApproveAndDebit(ctx context.Context, transferID uint) (*models.Transfer, *models.Account, error)

	// RejectIfPending flips a PENDING transfer to REJECTED. It returns
	// ErrTransferNotPending when the transfer is already terminal.
	RejectIfPending(ctx context.Context, transferID uint) (*models.Transfer, error)
}
