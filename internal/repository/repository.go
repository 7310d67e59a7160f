package repository

import (
	"context"
	"fmt"

	"backlog/internal/domain"

	"github.com/juju/errors"
)

const (
	// ErrStorageUnavailable means the backing medium could not be read or written at all.
	ErrStorageUnavailable = errors.ConstError("storage unavailable")
	// ErrCorruptState means the medium was read but its content is not a valid state.
	ErrCorruptState = errors.ConstError("corrupt state")
)

// Repository loads and saves the complete tracker state.
// Implementations hold no state the caller can observe between calls.
type Repository interface {
	// Load reads the full state from the backing medium
	Load(ctx context.Context) (*domain.State, error)
	// Save replaces the full state in the backing medium
	Save(ctx context.Context, state *domain.State) error
}

// Unavailable wraps cause so that it matches ErrStorageUnavailable.
func Unavailable(cause error, format string, args ...any) error {
	return fmt.Errorf("%s: %w: %w", fmt.Sprintf(format, args...), ErrStorageUnavailable, cause)
}

// Corrupt wraps cause so that it matches ErrCorruptState.
func Corrupt(cause error, format string, args ...any) error {
	return fmt.Errorf("%s: %w: %w", fmt.Sprintf(format, args...), ErrCorruptState, cause)
}
