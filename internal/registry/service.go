// Package registry orchestrates the entry store and the summary projection:
// it validates and defaults incoming entries, serves the audit log, and
// derives the per-object latest-state view.
package registry

import (
	"context"
	"strings"

	"github.com/rpattn/specreg/internal/domain"
	"github.com/rpattn/specreg/internal/projection"
	"github.com/rpattn/specreg/internal/repository"
)

// Service exposes the registry operations over any EntryRepository.
type Service struct {
	entries repository.EntryRepository
}

// NewService creates a new registry service.
func NewService(entries repository.EntryRepository) *Service {
	return &Service{entries: entries}
}

// Append normalizes, validates and stores a new history entry, returning the
// entry as stored (with generated id and timestamps filled in).
func (s *Service) Append(ctx context.Context, draft domain.HistoryEntry) (domain.HistoryEntry, error) {
	entry := domain.NewEntry(draft)
	if err := entry.Validate(); err != nil {
		return domain.HistoryEntry{}, err
	}
	if err := s.entries.Append(ctx, entry); err != nil {
		return domain.HistoryEntry{}, err
	}
	return entry, nil
}

// History returns the full audit log, most recently logged entry first.
func (s *Service) History(ctx context.Context) ([]domain.HistoryEntry, error) {
	return s.entries.ListChronological(ctx)
}

// Summaries recomputes the latest-state projection from the current entry
// set. The projection is pure, so no caching is needed for correctness.
func (s *Service) Summaries(ctx context.Context) ([]domain.DocumentSummary, error) {
	entries, err := s.entries.ScanAll(ctx)
	if err != nil {
		return nil, err
	}
	return projection.Project(entries), nil
}

// SetUploaded flips the uploaded flag of one existing entry. No other field
// of any entry is touched.
func (s *Service) SetUploaded(ctx context.Context, id string, uploaded bool) error {
	if strings.TrimSpace(id) == "" {
		return domain.ValidationError{Field: "id", Reason: "must not be empty"}
	}
	return s.entries.PatchUploadedFlag(ctx, id, uploaded)
}

// Stats aggregates the projection into the counts behind the reports view.
type Stats struct {
	TotalObjects    int            `json:"totalObjects"`
	TotalEntries    int            `json:"totalEntries"`
	UploadedObjects int            `json:"uploadedObjects"`
	ByRelease       map[string]int `json:"byRelease"`
	ByRegion        map[string]int `json:"byRegion"`
}

// ReleaseStats derives per-release and per-region object counts from the
// current projection.
func (s *Service) ReleaseStats(ctx context.Context) (Stats, error) {
	summaries, err := s.Summaries(ctx)
	if err != nil {
		return Stats{}, err
	}

	stats := Stats{
		TotalObjects: len(summaries),
		ByRelease:    make(map[string]int),
		ByRegion:     make(map[string]int),
	}
	for _, summary := range summaries {
		stats.TotalEntries += summary.HistoryCount
		if summary.Uploaded {
			stats.UploadedObjects++
		}
		if summary.LastRelease != "" {
			stats.ByRelease[summary.LastRelease]++
		}
		if summary.Region != "" {
			stats.ByRegion[summary.Region]++
		}
	}
	return stats, nil
}
