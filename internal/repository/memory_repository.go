package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/rpattn/specreg/internal/domain"
)

// memoryRepository keeps the entry log in process memory. It backs tests and
// local development; the projection and service layers only ever see the
// EntryRepository contract, so swapping it for Postgres never touches them.
type memoryRepository struct {
	mu      sync.RWMutex
	entries []domain.HistoryEntry
	byID    map[string]int
}

// NewMemoryRepository returns an empty in-memory entry store.
func NewMemoryRepository() EntryRepository {
	return &memoryRepository{byID: make(map[string]int)}
}

func (r *memoryRepository) Append(_ context.Context, entry domain.HistoryEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[entry.ID]; exists {
		return fmt.Errorf("append %q: %w", entry.ID, domain.ErrDuplicateEntry)
	}
	r.byID[entry.ID] = len(r.entries)
	r.entries = append(r.entries, entry)
	return nil
}

func (r *memoryRepository) ScanAll(_ context.Context) ([]domain.HistoryEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := make([]domain.HistoryEntry, len(r.entries))
	copy(entries, r.entries)
	return entries, nil
}

func (r *memoryRepository) ListChronological(ctx context.Context) ([]domain.HistoryEntry, error) {
	entries, err := r.ScanAll(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].LoggedAt > entries[j].LoggedAt
	})
	return entries, nil
}

func (r *memoryRepository) PatchUploadedFlag(_ context.Context, id string, uploaded bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx, exists := r.byID[id]
	if !exists {
		return fmt.Errorf("patch %q: %w", id, domain.ErrNotFound)
	}
	r.entries[idx].Uploaded = uploaded
	return nil
}
