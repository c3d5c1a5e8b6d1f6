package repositories

import (
	"context"
	"errors"
	"fmt"

	"tally/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type accountRepository struct {
	db *gorm.DB
}

func NewAccountRepository(db *gorm.DB) AccountRepository {
	return &accountRepository{db: db}
}

func (r *accountRepository) Create(account *models.Account) error {
	if err := r.db.Create(account).Error; err != nil {
		return fmt.Errorf("%w: failed to create account: %w", ErrStoreUnavailable, err)
	}
	return nil
}

func (r *accountRepository) GetByID(ctx context.Context, id uint) (*models.Account, error) {
	var account models.Account
	if err := r.db.WithContext(ctx).First(&account, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("%w: failed to get account: %w", ErrStoreUnavailable, err)
	}
	return &account, nil
}

func (r *accountRepository) GetByUserID(ctx context.Context, userID uint) (*models.Account, error) {
	var account models.Account
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("%w: failed to get account: %w", ErrStoreUnavailable, err)
	}
	return &account, nil
}

// ApplyDelta serializes on the account row: the SELECT ... FOR UPDATE
// blocks every concurrent ApplyDelta (and transfer approval) touching
// the same account until this transaction commits or rolls back, so two
// debits can never both pass the balance check.
func (r *accountRepository) ApplyDelta(ctx context.Context, accountID uint, delta decimal.Decimal) (*models.Account, error) {
	var account models.Account
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&account, accountID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrAccountNotFound
			}
			return fmt.Errorf("%w: failed to lock account %d: %w", ErrStoreUnavailable, accountID, err)
		}

		newBalance := account.Balance.Add(delta)
		if newBalance.IsNegative() {
			return fmt.Errorf("%w: account %d balance %s, delta %s",
				ErrInsufficientFunds, accountID, account.Balance, delta)
		}

		if err := tx.Model(&models.Account{}).
			Where("id = ?", accountID).
			Update("balance", newBalance).Error; err != nil {
			return fmt.Errorf("%w: failed to update account %d balance: %w", ErrStoreUnavailable, accountID, err)
		}

		account.Balance = newBalance
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &account, nil
}
