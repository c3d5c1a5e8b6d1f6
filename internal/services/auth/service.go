package auth

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"tally/internal/models"
	"tally/internal/repositories"
	"tally/internal/utils"
	"tally/internal/validation"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

// Service handles registration and login. Registration is the only
// place an account is provisioned, seeded with the configured starting
// balance; after that only transfer settlement touches balances.
type Service interface {
	Register(username, password string) (*models.User, error)
	Login(username, password string) (*models.User, string, error)
	GetUserByID(id uint) (*models.User, error)
	ListUsers() ([]*models.User, error)
}

type service struct {
	userRepo        repositories.UserRepository
	accountRepo     repositories.AccountRepository
	startingBalance decimal.Decimal
}

func NewService(userRepo repositories.UserRepository, accountRepo repositories.AccountRepository, startingBalance decimal.Decimal) Service {
	return &service{
		userRepo:        userRepo,
		accountRepo:     accountRepo,
		startingBalance: startingBalance,
	}
}

func (s *service) Register(username, password string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, errors.New("username is required")
	}
	if !validation.ValidPassword(password) {
		return nil, ErrWeakPassword
	}

	if _, err := s.userRepo.GetByUsername(username); err == nil {
		return nil, fmt.Errorf("%w: %s", ErrUsernameTaken, username)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username: username,
		Password: string(hashed),
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	acct := &models.Account{
		UserID:  user.ID,
		Balance: s.startingBalance,
	}
	if err := s.accountRepo.Create(acct); err != nil {
		return nil, fmt.Errorf("failed to provision account for user %d: %w", user.ID, err)
	}

	user.AccountID = &acct.ID
	if err := s.userRepo.Update(user); err != nil {
		// The account exists and is usable; the back-reference is a
		// convenience, so log and carry on.
		log.Printf("failed to link account %d to user %d: %v", acct.ID, user.ID, err)
	}
	return user, nil
}

func (s *service) Login(username, password string) (*models.User, string, error) {
	user, err := s.userRepo.GetByUsername(strings.TrimSpace(username))
	if err != nil {
		return nil, "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := utils.GenerateToken(&models.UserClaims{
		UserID:   user.ID,
		Username: user.Username,
	})
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}
	return user, token, nil
}

func (s *service) GetUserByID(id uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, fmt.Errorf("%w: user %d", ErrUserNotFound, id)
		}
		return nil, err
	}
	return user, nil
}

func (s *service) ListUsers() ([]*models.User, error) {
	return s.userRepo.List()
}
