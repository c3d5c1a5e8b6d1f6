package account

import (
	"context"
	"errors"
	"fmt"
	"log"

	"tally/internal/models"
	"tally/internal/repositories"

	"github.com/shopspring/decimal"
)

type service struct {
	repo  repositories.AccountRepository
	cache Cache
}

// NewService creates a new account service. The cache is optional; a nil
// cache means every read goes to the store.
func NewService(repo repositories.AccountRepository, cache Cache) Service {
	if repo == nil {
		panic("account repository is required")
	}
	return &service{
		repo:  repo,
		cache: cache,
	}
}

func (s *service) GetAccount(ctx context.Context, userID uint) (*models.Account, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetAccount(ctx, userID); err == nil && cached != nil {
			return cached, nil
		}
	}

	acct, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrAccountNotFound) {
			return nil, fmt.Errorf("%w: user %d", ErrAccountNotFound, userID)
		}
		if errors.Is(err, repositories.ErrStoreUnavailable) {
			return nil, fmt.Errorf("%w: user %d: %w", ErrStoreUnavailable, userID, err)
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.CacheAccount(ctx, acct); err != nil {
			log.Printf("account cache write failed for user %d: %v", userID, err)
		}
	}
	return acct, nil
}

func (s *service) GetBalance(ctx context.Context, userID uint) (decimal.Decimal, error) {
	acct, err := s.GetAccount(ctx, userID)
	if err != nil {
		return decimal.Zero, err
	}
	return acct.Balance, nil
}

func (s *service) ApplyDelta(ctx context.Context, accountID uint, delta decimal.Decimal) (*models.Account, error) {
	acct, err := s.repo.ApplyDelta(ctx, accountID, delta)
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrAccountNotFound):
			return nil, fmt.Errorf("%w: account %d", ErrAccountNotFound, accountID)
		case errors.Is(err, repositories.ErrInsufficientFunds):
			return nil, fmt.Errorf("%w: account %d, delta %s", ErrInsufficientFunds, accountID, delta)
		case errors.Is(err, repositories.ErrStoreUnavailable):
			return nil, fmt.Errorf("%w: account %d: %w", ErrStoreUnavailable, accountID, err)
		default:
			return nil, fmt.Errorf("failed to apply delta to account %d: %w", accountID, err)
		}
	}

	if s.cache != nil {
		if err := s.cache.InvalidateAccount(ctx, acct.UserID); err != nil {
			log.Printf("account cache invalidation failed for user %d: %v", acct.UserID, err)
		}
	}
	return acct, nil
}

func (s *service) InvalidateAccount(ctx context.Context, userID uint) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.InvalidateAccount(ctx, userID)
}
