package repositories

import (
	"context"
	"errors"

	"study/internal/models"
)

var (
	// ErrAccountNotFound is returned when no account matches the lookup key.
	ErrAccountNotFound = errors.New("account not found")
	// ErrDuplicateAccount is returned when the nickname or email is already taken.
	ErrDuplicateAccount = errors.New("account already exists")
)

// AccountRepository defines the interface for account data access.
type AccountRepository interface {
	Create(ctx context.Context, account *models.Account) error
	GetByNickname(ctx context.Context, nickname string) (*models.Account, error)
	GetByEmail(ctx context.Context, email string) (*models.Account, error)
	UpdateProfile(ctx context.Context, nickname string, profile models.Profile) error
	UpdatePassword(ctx context.Context, nickname string, passwordHash string) error
}
