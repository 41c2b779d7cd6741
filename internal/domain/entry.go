package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// HistoryEntry is one version-history record for a functional document.
// Entries are append-only: once stored they are never rewritten or deleted,
// with the single exception of the Uploaded flag which may be patched
// through the store.
type HistoryEntry struct {
	ID                string `json:"id"`
	ObjectID          string `json:"ricefwId"`
	DocumentName      string `json:"fsName"`
	TransactionCode   string `json:"transactionCode"`
	Region            string `json:"region"`
	Uploaded          bool   `json:"uploaded"`
	Version           string `json:"version"`
	ReleaseReference  string `json:"releaseReference"`
	Author            string `json:"author"`
	ChangeDescription string `json:"changeDescription"`

	// LoggedAt is the system-of-record ordering key: epoch milliseconds
	// assigned when the entry was created.
	LoggedAt int64 `json:"loggedAt"`
	// DocumentDate is the business-meaningful date of the content change,
	// also epoch milliseconds. Defaults to LoggedAt when not supplied.
	DocumentDate int64 `json:"documentDate"`
}

// NewEntry normalizes a caller-supplied draft into a storable entry:
// missing id, timestamps and author are filled with creation-time defaults.
func NewEntry(draft HistoryEntry) HistoryEntry {
	if strings.TrimSpace(draft.ID) == "" {
		draft.ID = uuid.NewString()
	}
	if draft.LoggedAt == 0 {
		draft.LoggedAt = time.Now().UnixMilli()
	}
	if draft.DocumentDate == 0 {
		draft.DocumentDate = draft.LoggedAt
	}
	if strings.TrimSpace(draft.Author) == "" {
		draft.Author = "Unknown"
	}
	return draft
}

// Validate rejects entries that must never reach the store.
func (e HistoryEntry) Validate() error {
	if strings.TrimSpace(e.ID) == "" {
		return ValidationError{Field: "id", Reason: "must not be empty"}
	}
	if strings.TrimSpace(e.ObjectID) == "" {
		return ValidationError{Field: "ricefwId", Reason: "must not be empty"}
	}
	if strings.TrimSpace(e.DocumentName) == "" {
		return ValidationError{Field: "fsName", Reason: "must not be empty"}
	}
	if strings.TrimSpace(e.Version) == "" {
		return ValidationError{Field: "version", Reason: "must not be empty"}
	}
	if e.LoggedAt < 0 {
		return ValidationError{Field: "loggedAt", Reason: "must not be negative"}
	}
	return nil
}
