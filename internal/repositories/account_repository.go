package repositories

import (
	"context"

	"tally/internal/models"

	"github.com/shopspring/decimal"
)

// AccountRepository handles account persistence. ApplyDelta is the only
// balance-changing write outside transfer approval; it must be mutually
// exclusive per account across all concurrent callers.
type AccountRepository interface {
	Create(account *models.Account) error
	GetByID(ctx context.Context, id uint) (*models.Account, error)
	GetByUserID(ctx context.Context, userID uint) (*models.Account, error)

	// ApplyDelta atomically adds delta (positive or negative) to the
	// stored balance and returns the updated account. It returns
	// ErrInsufficientFunds, persisting nothing, if the result would be
	// negative.
	ApplyDelta(ctx context.Context, accountID uint, delta decimal.Decimal) (*models.Account, error)
}
