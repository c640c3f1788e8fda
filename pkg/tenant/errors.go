package tenant

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	// ErrNotFound means the session user has no tenant yet. Callers route to onboarding.
	ErrNotFound = errors.New("tenant not found")

	// ErrNoTenant is returned by mutations on a store that holds no tenant.
	ErrNoTenant = errors.New("no tenant loaded")

	ErrUnknownFeature = errors.New("unknown feature")
	ErrInvalidColor   = errors.New("invalid color")
)

// ResolutionError wraps a store or transport failure during resolution.
// It is never used for a missing tenant.
type ResolutionError struct {
	UserID uuid.UUID
	Err    error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("resolve tenant for user %s: %v", e.UserID, e.Err)
}

func (e *ResolutionError) Unwrap() error {
	return e.Err
}

// UpdateError is returned by every failed mutation. The snapshot is unchanged
// when it is returned.
type UpdateError struct {
	Op  string
	Err error
}

func (e *UpdateError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *UpdateError) Unwrap() error {
	return e.Err
}

// IsValidation reports whether err was rejected before reaching the data store.
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidColor) || errors.Is(err, ErrUnknownFeature)
}
