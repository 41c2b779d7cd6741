package repository

import (
	"context"

	"github.com/rpattn/specreg/internal/domain"
)

// EntryRepository is the durable append-only store of history entries.
//
// Append and PatchUploadedFlag are the only mutators; both are atomic with
// respect to concurrent readers. Once Append returns nil the entry is
// visible to every subsequent scan.
type EntryRepository interface {
	// Append stores a new entry. Reusing an existing id fails with
	// domain.ErrDuplicateEntry and leaves the store unchanged.
	Append(ctx context.Context, entry domain.HistoryEntry) error

	// ScanAll returns every stored entry in unspecified order. A store
	// that has never been initialized reports an empty result, not an
	// error; only an unreachable store fails.
	ScanAll(ctx context.Context) ([]domain.HistoryEntry, error)

	// ListChronological returns every stored entry ordered by logged-at
	// time descending, the audit-log view. Same initialization policy
	// as ScanAll.
	ListChronological(ctx context.Context) ([]domain.HistoryEntry, error)

	// PatchUploadedFlag updates exactly the uploaded field of the entry
	// matching id. Fails with domain.ErrNotFound when the id is absent.
	PatchUploadedFlag(ctx context.Context, id string, uploaded bool) error
}
