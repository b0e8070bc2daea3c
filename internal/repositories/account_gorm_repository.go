package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"study/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMAccountRepository is a GORM implementation of AccountRepository.
type GORMAccountRepository struct {
	db *gorm.DB
}

// NewGORMAccountRepository creates a new instance of GORMAccountRepository.
func NewGORMAccountRepository(db *gorm.DB) *GORMAccountRepository {
	return &GORMAccountRepository{
		db: db,
	}
}

// Create inserts a new account.
func (r *GORMAccountRepository) Create(ctx context.Context, account *models.Account) error {
	if account.ID == "" {
		account.ID = uuid.New().String()
	}
	if err := r.db.WithContext(ctx).Create(account).Error; err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("create account %s: %w", account.Nickname, ErrDuplicateAccount)
		}
		return fmt.Errorf("failed to create account: %w", err)
	}
	return nil
}

// GetByNickname retrieves an account by its nickname.
func (r *GORMAccountRepository) GetByNickname(ctx context.Context, nickname string) (*models.Account, error) {
	return r.first(ctx, "nickname = ?", nickname)
}

// GetByEmail retrieves an account by its email address.
func (r *GORMAccountRepository) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	return r.first(ctx, "email = ?", email)
}

func (r *GORMAccountRepository) first(ctx context.Context, query string, arg string) (*models.Account, error) {
	var account models.Account
	if err := r.db.WithContext(ctx).First(&account, query, arg).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("account %s: %w", arg, ErrAccountNotFound)
		}
		return nil, fmt.Errorf("failed to get account %s: %w", arg, err)
	}
	return &account, nil
}

// UpdateProfile overwrites the profile columns of the account in one statement.
// Nil fields are written as NULL.
func (r *GORMAccountRepository) UpdateProfile(ctx context.Context, nickname string, profile models.Profile) error {
	return r.update(ctx, nickname, map[string]interface{}{
		"bio":        profile.Bio,
		"url":        profile.URL,
		"occupation": profile.Occupation,
		"location":   profile.Location,
	})
}

// UpdatePassword replaces the stored password hash.
func (r *GORMAccountRepository) UpdatePassword(ctx context.Context, nickname string, passwordHash string) error {
	return r.update(ctx, nickname, map[string]interface{}{
		"password": passwordHash,
	})
}

func (r *GORMAccountRepository) update(ctx context.Context, nickname string, columns map[string]interface{}) error {
	res := r.db.WithContext(ctx).
		Model(&models.Account{}).
		Where("nickname = ?", nickname).
		Updates(columns)
	if res.Error != nil {
		return fmt.Errorf("failed to update account %s: %w", nickname, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("account %s: %w", nickname, ErrAccountNotFound)
	}
	return nil
}

// isUniqueViolation recognises unique constraint errors from both sqlite and postgres.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || strings.Contains(msg, "SQLSTATE 23505")
}
