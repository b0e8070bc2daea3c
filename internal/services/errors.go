package services

import (
	"errors"
	"fmt"

	"study/internal/repositories"
)

var (
	// ErrAccountNotFound is returned when the addressed account does not exist.
	ErrAccountNotFound = repositories.ErrAccountNotFound
	// ErrAccountExists is returned when sign-up races with another sign-up.
	ErrAccountExists = repositories.ErrDuplicateAccount
	// ErrInvalidCredentials hides whether the username or the password was wrong.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// PersistenceError reports that the account store could not complete an operation.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// storeError keeps not-found errors as they are and wraps everything else.
func storeError(op string, err error) error {
	if errors.Is(err, repositories.ErrAccountNotFound) {
		return err
	}
	return &PersistenceError{Op: op, Err: err}
}
