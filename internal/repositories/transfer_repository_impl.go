package repositories

import (
	"context"
	"errors"
	"fmt"

	"tally/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type transferRepository struct {
	db *gorm.DB
}

func NewTransferRepository(db *gorm.DB) TransferRepository {
	return &transferRepository{db: db}
}

func (r *transferRepository) Create(ctx context.Context, transfer *models.Transfer) error {
	if err := r.db.WithContext(ctx).Create(transfer).Error; err != nil {
		return fmt.Errorf("%w: failed to create transfer: %w", ErrStoreUnavailable, err)
	}
	return nil
}

func (r *transferRepository) GetByID(ctx context.Context, id uint) (*models.Transfer, error) {
	var transfer models.Transfer
	if err := r.db.WithContext(ctx).First(&transfer, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTransferNotFound
		}
		return nil, fmt.Errorf("%w: failed to get transfer: %w", ErrStoreUnavailable, err)
	}
	return &transfer, nil
}

func (r *transferRepository) ListByAccount(ctx context.Context, accountID uint) ([]*models.Transfer, error) {
	var transfers []*models.Transfer
	err := r.db.WithContext(ctx).
		Where("from_account_id = ? OR to_account_id = ?", accountID, accountID).
		Order("id ASC").
		Find(&transfers).Error
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list transfers: %w", ErrStoreUnavailable, err)
	}
	return transfers, nil
}

func (r *transferRepository) ListPendingBySource(ctx context.Context, accountID uint) ([]*models.Transfer, error) {
	var transfers []*models.Transfer
	err := r.db.WithContext(ctx).
		Where("from_account_id = ? AND status = ?", accountID, models.TransferStatusPending).
		Order("id ASC").
		Find(&transfers).Error
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list pending transfers: %w", ErrStoreUnavailable, err)
	}
	return transfers, nil
}

// ApproveAndDebit locks the transfer row first, then the source account
// row. Coupling the debit with the status flip in one transaction is
// what rules out double-settlement: the second of two concurrent
// approvers blocks on the row lock and then sees a non-PENDING status.
func (r *transferRepository) ApproveAndDebit(ctx context.Context, transferID uint) (*models.Transfer, *models.Account, error) {
	var transfer models.Transfer
	var account models.Account
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&transfer, transferID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTransferNotFound
			}
			return fmt.Errorf("%w: failed to lock transfer %d: %w", ErrStoreUnavailable, transferID, err)
		}

		if transfer.Status != models.TransferStatusPending {
			return fmt.Errorf("%w: transfer %d is %s", ErrTransferNotPending, transferID, transfer.Status)
		}

		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&account, transfer.FromAccountID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrAccountNotFound
			}
			return fmt.Errorf("%w: failed to lock account %d: %w", ErrStoreUnavailable, transfer.FromAccountID, err)
		}

		newBalance := account.Balance.Sub(transfer.Amount)
		if newBalance.IsNegative() {
			return fmt.Errorf("%w: account %d balance %s, transfer %d amount %s",
				ErrInsufficientFunds, account.ID, account.Balance, transferID, transfer.Amount)
		}

		if err := tx.Model(&models.Account{}).
			Where("id = ?", account.ID).
			Update("balance", newBalance).Error; err != nil {
			return fmt.Errorf("%w: failed to debit account %d: %w", ErrStoreUnavailable, account.ID, err)
		}

		if err := tx.Model(&models.Transfer{}).
			Where("id = ?", transfer.ID).
			Update("status", models.TransferStatusApproved).Error; err != nil {
			return fmt.Errorf("%w: failed to update transfer %d status: %w", ErrStoreUnavailable, transfer.ID, err)
		}

		transfer.Status = models.TransferStatusApproved
		account.Balance = newBalance
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return &transfer, &account, nil
}

// RejectIfPending uses a conditional update so the status flip is a
// single first-writer-wins write.
func (r *transferRepository) RejectIfPending(ctx context.Context, transferID uint) (*models.Transfer, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Transfer{}).
		Where("id = ? AND status = ?", transferID, models.TransferStatusPending).
		Update("status", models.TransferStatusRejected)
	if result.Error != nil {
		return nil, fmt.Errorf("%w: failed to reject transfer %d: %w", ErrStoreUnavailable, transferID, result.Error)
	}

	transfer, err := r.GetByID(ctx, transferID)
	if err != nil {
		return nil, err
	}
	if result.RowsAffected == 0 {
		return nil, fmt.Errorf("%w: transfer %d is %s", ErrTransferNotPending, transferID, transfer.Status)
	}
	return transfer, nil
}
