package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a patch targets an id the store has
	// never seen.
	ErrNotFound = errors.New("entry not found")

	// ErrDuplicateEntry is returned when an append reuses an existing id.
	ErrDuplicateEntry = errors.New("entry id already exists")

	// ErrStoreUnavailable wraps transport or configuration failures
	// reaching the backing store. Callers may retry the whole operation.
	ErrStoreUnavailable = errors.New("entry store unavailable")
)

// ValidationError reports a field rejected before the entry reached the
// store.
type ValidationError struct {
	Field  string
	Reason string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
