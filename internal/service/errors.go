package service

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound means an id did not resolve to a row.
	ErrNotFound = errors.New("not found")
	// ErrNothingToUpdate means an update request carried no updatable field.
	ErrNothingToUpdate = errors.New("nothing to update")
	// ErrEmailExists means a registration collided with an existing account.
	ErrEmailExists = errors.New("email already registered")
	// ErrInvalidCredentials covers both unknown email and wrong password.
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// ValidationError names the request field that failed validation.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s is required", e.Field)
}
