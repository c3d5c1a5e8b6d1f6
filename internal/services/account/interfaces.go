package account

import (
	"context"

	"tally/internal/models"

	"github.com/shopspring/decimal"
)

// Cache is the account cache consumed by the service. Reads are served
// from it when possible; every balance mutation invalidates it.
type Cache interface {
	GetAccount(ctx context.Context, userID uint) (*models.Account, error)
	CacheAccount(ctx context.Context, account *models.Account) error
	InvalidateAccount(ctx context.Context, userID uint) error
}

// Service resolves user identities to their accounts and owns balance
// mutation. Balances never go negative: a delta that would cross zero
// fails with ErrInsufficientFunds and persists nothing.
type Service interface {
	GetAccount(ctx context.Context, userID uint) (*models.Account, error)
	GetBalance(ctx context.Context, userID uint) (decimal.Decimal, error)
	ApplyDelta(ctx context.Context, accountID uint, delta decimal.Decimal) (*models.Account, error)

	// InvalidateAccount drops the user's cached account. Callers that
	// mutate a balance outside ApplyDelta (the transfer store's coupled
	// debit) use it to keep reads consistent with the store.
	InvalidateAccount(ctx context.Context, userID uint) error
}
