package repositories

import "tally/internal/models"

// UserRepository handles user persistence. Users are written once at
// registration and never mutated afterwards.
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByUsername(username string) (*models.User, error)
	List() ([]*models.User, error)
	Update(user *models.User) error
}
