package repositories

import (
	"context"
	"fmt"
	"sync"
	"time"

	"study/internal/models"

	"github.com/google/uuid"
)

// MemoryAccountRepository is an in-memory implementation of AccountRepository.
type MemoryAccountRepository struct {
	accounts map[string]models.Account // keyed by nickname
	mu       sync.RWMutex
}

// NewMemoryAccountRepository creates a new instance of MemoryAccountRepository.
func NewMemoryAccountRepository() *MemoryAccountRepository {
	return &MemoryAccountRepository{
		accounts: make(map[string]models.Account),
	}
}

// Create adds a new account.
func (r *MemoryAccountRepository) Create(_ context.Context, account *models.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.accounts {
		if existing.Nickname == account.Nickname || existing.Email == account.Email {
			return fmt.Errorf("create account %s: %w", account.Nickname, ErrDuplicateAccount)
		}
	}
	if account.ID == "" {
		account.ID = uuid.New().String()
	}
	now := time.Now()
	account.CreatedAt = now
	account.UpdatedAt = now
	r.accounts[account.Nickname] = *account
	return nil
}

// GetByNickname returns a copy of the account with the given nickname.
func (r *MemoryAccountRepository) GetByNickname(_ context.Context, nickname string) (*models.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	account, ok := r.accounts[nickname]
	if !ok {
		return nil, fmt.Errorf("account %s: %w", nickname, ErrAccountNotFound)
	}
	return &account, nil
}

// GetByEmail returns a copy of the account with the given email.
func (r *MemoryAccountRepository) GetByEmail(_ context.Context, email string) (*models.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, account := range r.accounts {
		if account.Email == email {
			return &account, nil
		}
	}
	return nil, fmt.Errorf("account %s: %w", email, ErrAccountNotFound)
}

// UpdateProfile replaces the profile fields of an account.
func (r *MemoryAccountRepository) UpdateProfile(_ context.Context, nickname string, profile models.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	account, ok := r.accounts[nickname]
	if !ok {
		return fmt.Errorf("account %s: %w", nickname, ErrAccountNotFound)
	}
	account.ApplyProfile(copyProfile(profile))
	account.UpdatedAt = time.Now()
	r.accounts[nickname] = account
	return nil
}

// UpdatePassword replaces the stored password hash of an account.
func (r *MemoryAccountRepository) UpdatePassword(_ context.Context, nickname string, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	account, ok := r.accounts[nickname]
	if !ok {
		return fmt.Errorf("account %s: %w", nickname, ErrAccountNotFound)
	}
	account.Password = passwordHash
	account.UpdatedAt = time.Now()
	r.accounts[nickname] = account
	return nil
}

// copyProfile detaches the stored values from the caller's pointers.
func copyProfile(p models.Profile) models.Profile {
	dup := func(s *string) *string {
		if s == nil {
			return nil
		}
		v := *s
		return &v
	}
	return models.Profile{
		Bio:        dup(p.Bio),
		URL:        dup(p.URL),
		Occupation: dup(p.Occupation),
		Location:   dup(p.Location),
	}
}
