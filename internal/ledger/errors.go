package ledger

import (
	"errors"
	"fmt"

	"github.com/mmynk/latepizza/internal/storage"
)

// Error kinds. Every ledger operation either completes all of its side effects
// or returns an error wrapping exactly one of these; use errors.Is to tell
// them apart.
var (
	// ErrValidation is returned for malformed input: empty names, an
	// out-of-domain curve shift, non-finite minutes, and so on.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound is returned when a referenced group, member or admin email
	// does not exist.
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized is returned when the actor is not an admin of the group.
	ErrUnauthorized = errors.New("not authorized")

	// ErrConflict is returned when a concurrent write won the race. Safe to retry.
	ErrConflict = errors.New("concurrent update")

	// ErrPersistence is returned when storage failed. Do not assume partial success.
	ErrPersistence = errors.New("persistence failure")
)

// Kind returns a short stable label for err's kind, for logs and metrics.
func Kind(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrValidation):
		return "validation"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, ErrConflict):
		return "conflict"
	default:
		return "persistence"
	}
}

func validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func notFoundf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}

// fromStore maps a storage error onto the ledger's error kinds.
func fromStore(err error, action string) error {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return fmt.Errorf("%w: %s: %w", ErrNotFound, action, err)
	case errors.Is(err, storage.ErrConflict):
		return fmt.Errorf("%w: %s: %w", ErrConflict, action, err)
	default:
		return fmt.Errorf("%w: %s: %w", ErrPersistence, action, err)
	}
}
