package transfer

import (
	"context"
	"errors"
	"fmt"
	"log"

	"tally/internal/models"
	"tally/internal/repositories"
	"tally/internal/services/account"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// service implements the transfer Service interface.
type service struct {
	accounts  AccountRegistry
	transfers repositories.TransferRepository
}

// NewService creates a new transfer service instance.
func NewService(accounts AccountRegistry, transfers repositories.TransferRepository) Service {
	if accounts == nil {
		panic("account registry is required")
	}
	if transfers == nil {
		panic("transfer repository is required")
	}
	return &service{
		accounts:  accounts,
		transfers: transfers,
	}
}

func (s *service) InitiateSend(ctx context.Context, requesterUserID, targetUserID uint, amount decimal.Decimal) (*models.Transfer, error) {
	if err := validateCounterparty(requesterUserID, targetUserID, amount); err != nil {
		return nil, err
	}

	from, err := s.accounts.GetAccount(ctx, requesterUserID)
	if err != nil {
		return nil, err
	}
	to, err := s.accounts.GetAccount(ctx, targetUserID)
	if err != nil {
		return nil, err
	}

	// The debit validates and commits first, so a sufficient-funds
	// failure aborts before any other effect.
	if _, err := s.accounts.ApplyDelta(ctx, from.ID, amount.Neg()); err != nil {
		if errors.Is(err, account.ErrInsufficientFunds) {
			return nil, fmt.Errorf("%w: account %d, amount %s", ErrInsufficientFunds, from.ID, amount)
		}
		return nil, err
	}

	if _, err := s.accounts.ApplyDelta(ctx, to.ID, amount); err != nil {
		log.Printf("RECONCILE: credit failed after committed debit: from_account=%d to_account=%d amount=%s: %v",
			from.ID, to.ID, amount, err)
		return nil, fmt.Errorf("%w: from account %d to account %d, amount %s",
			ErrSettlementIncomplete, from.ID, to.ID, amount)
	}

	t := &models.Transfer{
		Reference:     uuid.NewString(),
		Type:          models.TransferTypeSend,
		Status:        models.TransferStatusApproved,
		FromAccountID: from.ID,
		ToAccountID:   to.ID,
		Amount:        amount,
	}
	if err := s.transfers.Create(ctx, t); err != nil {
		log.Printf("RECONCILE: settled send has no transfer record: from_account=%d to_account=%d amount=%s: %v",
			from.ID, to.ID, amount, err)
		if errors.Is(err, repositories.ErrStoreUnavailable) {
			return nil, fmt.Errorf("%w: settled send not recorded: %w", ErrStoreUnavailable, err)
		}
		return nil, fmt.Errorf("failed to record transfer: %w", err)
	}
	return t, nil
}

func (s *service) InitiateRequest(ctx context.Context, requesterUserID, targetUserID uint, amount decimal.Decimal) (*models.Transfer, error) {
	if err := validateCounterparty(requesterUserID, targetUserID, amount); err != nil {
		return nil, err
	}

	requester, err := s.accounts.GetAccount(ctx, requesterUserID)
	if err != nil {
		return nil, err
	}
	target, err := s.accounts.GetAccount(ctx, targetUserID)
	if err != nil {
		return nil, err
	}

	// The target is the one being asked to pay, so their account is the
	// source and the requester's is the destination.
	t := &models.Transfer{
		Reference:     uuid.NewString(),
		Type:          models.TransferTypeRequest,
		Status:        models.TransferStatusPending,
		FromAccountID: target.ID,
		ToAccountID:   requester.ID,
		Amount:        amount,
	}
	if err := s.transfers.Create(ctx, t); err != nil {
		if errors.Is(err, repositories.ErrStoreUnavailable) {
			return nil, fmt.Errorf("%w: request not recorded: %w", ErrStoreUnavailable, err)
		}
		return nil, fmt.Errorf("failed to record transfer request: %w", err)
	}
	return t, nil
}

func (s *service) Decide(ctx context.Context, transferID, actingUserID uint, decision Decision) (*models.Transfer, error) {
	t, err := s.getByID(ctx, transferID)
	if err != nil {
		return nil, err
	}

	acting, err := s.accounts.GetAccount(ctx, actingUserID)
	if err != nil {
		return nil, err
	}
	if acting.ID != t.FromAccountID {
		return nil, fmt.Errorf("%w: transfer %d, user %d", ErrUnauthorized, transferID, actingUserID)
	}

	// The status read above is advisory only; the authoritative
	// pending check happens under the transfer row lock in the store.
	if t.Terminal() {
		return nil, fmt.Errorf("%w: transfer %d is %s", ErrNotPending, transferID, t.Status)
	}

	switch decision {
	case DecisionApprove:
		return s.approve(ctx, t)
	case DecisionReject:
		return s.reject(ctx, t)
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidDecision, decision)
	}
}

// approve settles the transfer: the debit and the PENDING -> APPROVED
// flip commit together, then the credit follows as its own step. An
// insufficient balance leaves the transfer pending for the payer to
// retry or reject; the engine never rejects on their behalf.
func (s *service) approve(ctx context.Context, t *models.Transfer) (*models.Transfer, error) {
	approved, debited, err := s.transfers.ApproveAndDebit(ctx, t.ID)
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrTransferNotPending):
			return nil, fmt.Errorf("%w: transfer %d", ErrNotPending, t.ID)
		case errors.Is(err, repositories.ErrInsufficientFunds):
			return nil, fmt.Errorf("%w: account %d, transfer %d, amount %s",
				ErrInsufficientFunds, t.FromAccountID, t.ID, t.Amount)
		case errors.Is(err, repositories.ErrTransferNotFound):
			return nil, fmt.Errorf("%w: transfer %d", ErrTransferNotFound, t.ID)
		case errors.Is(err, repositories.ErrStoreUnavailable):
			return nil, fmt.Errorf("%w: transfer %d: %w", ErrStoreUnavailable, t.ID, err)
		default:
			return nil, fmt.Errorf("failed to approve transfer %d: %w", t.ID, err)
		}
	}

	// The debit ran inside the transfer store, not through ApplyDelta,
	// so the payer's cached account must be dropped here.
	if err := s.accounts.InvalidateAccount(ctx, debited.UserID); err != nil {
		log.Printf("account cache invalidation failed for user %d: %v", debited.UserID, err)
	}

	if _, err := s.accounts.ApplyDelta(ctx, approved.ToAccountID, approved.Amount); err != nil {
		log.Printf("RECONCILE: credit failed after approved debit: transfer=%d to_account=%d amount=%s: %v",
			approved.ID, approved.ToAccountID, approved.Amount, err)
		return nil, fmt.Errorf("%w: transfer %d, to account %d, amount %s",
			ErrSettlementIncomplete, approved.ID, approved.ToAccountID, approved.Amount)
	}
	return approved, nil
}

func (s *service) reject(ctx context.Context, t *models.Transfer) (*models.Transfer, error) {
	rejected, err := s.transfers.RejectIfPending(ctx, t.ID)
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrTransferNotPending):
			return nil, fmt.Errorf("%w: transfer %d", ErrNotPending, t.ID)
		case errors.Is(err, repositories.ErrTransferNotFound):
			return nil, fmt.Errorf("%w: transfer %d", ErrTransferNotFound, t.ID)
		case errors.Is(err, repositories.ErrStoreUnavailable):
			return nil, fmt.Errorf("%w: transfer %d: %w", ErrStoreUnavailable, t.ID, err)
		default:
			return nil, fmt.Errorf("failed to reject transfer %d: %w", t.ID, err)
		}
	}
	return rejected, nil
}

// getByID maps store sentinels onto this package's error surface.
func (s *service) getByID(ctx context.Context, transferID uint) (*models.Transfer, error) {
	t, err := s.transfers.GetByID(ctx, transferID)
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrTransferNotFound):
			return nil, fmt.Errorf("%w: transfer %d", ErrTransferNotFound, transferID)
		case errors.Is(err, repositories.ErrStoreUnavailable):
			return nil, fmt.Errorf("%w: transfer %d: %w", ErrStoreUnavailable, transferID, err)
		default:
			return nil, err
		}
	}
	return t, nil
}

func (s *service) GetTransfer(ctx context.Context, transferID, userID uint) (*models.Transfer, error) {
	t, err := s.getByID(ctx, transferID)
	if err != nil {
		return nil, err
	}

	acct, err := s.accounts.GetAccount(ctx, userID)
	if err != nil {
		return nil, err
	}
	if acct.ID != t.FromAccountID && acct.ID != t.ToAccountID {
		return nil, fmt.Errorf("%w: transfer %d", ErrTransferNotFound, transferID)
	}
	return t, nil
}

func (s *service) ListForUser(ctx context.Context, userID uint) ([]*models.Transfer, error) {
	acct, err := s.accounts.GetAccount(ctx, userID)
	if err != nil {
		return nil, err
	}
	transfers, err := s.transfers.ListByAccount(ctx, acct.ID)
	if err != nil {
		if errors.Is(err, repositories.ErrStoreUnavailable) {
			return nil, fmt.Errorf("%w: account %d: %w", ErrStoreUnavailable, acct.ID, err)
		}
		return nil, err
	}
	return transfers, nil
}

func (s *service) ListPendingForUser(ctx context.Context, userID uint) ([]*models.Transfer, error) {
	acct, err := s.accounts.GetAccount(ctx, userID)
	if err != nil {
		return nil, err
	}
	transfers, err := s.transfers.ListPendingBySource(ctx, acct.ID)
	if err != nil {
		if errors.Is(err, repositories.ErrStoreUnavailable) {
			return nil, fmt.Errorf("%w: account %d: %w", ErrStoreUnavailable, acct.ID, err)
		}
		return nil, err
	}
	return transfers, nil
}

func validateCounterparty(requesterUserID, targetUserID uint, amount decimal.Decimal) error {
	if requesterUserID == targetUserID {
		return fmt.Errorf("%w: user %d", ErrInvalidCounterparty, requesterUserID)
	}
	if !amount.IsPositive() {
		return fmt.Errorf("%w: got %s", ErrInvalidAmount, amount)
	}
	return nil
}
