// Package projection derives the per-object latest-state view from the raw
// entry log. Project is a pure function of the entry set: it establishes its
// own ordering, so the store may hand entries over in any order.
package projection

import (
	"sort"

	"github.com/rpattn/specreg/internal/domain"
)

// Project folds an unordered entry set into one DocumentSummary per distinct
// object id.
//
// Entries are folded oldest first so that, per object, every summary field
// is overwritten by the entry with the greatest LoggedAt. Two entries of the
// same object sharing a LoggedAt are disambiguated by id: the
// lexicographically larger id sorts later in the fold and therefore wins.
// HistoryCount is incremented on every fold step for the object, so it is
// insensitive to ordering altogether.
//
// The result is sorted by LastUpdated descending (most recently logged
// object first), ties broken by object id ascending.
func Project(entries []domain.HistoryEntry) []domain.DocumentSummary {
	ordered := make([]domain.HistoryEntry, len(entries))
	copy(ordered, entries)
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].LoggedAt != ordered[j].LoggedAt {
			return ordered[i].LoggedAt < ordered[j].LoggedAt
		}
		return ordered[i].ID < ordered[j].ID
	})

	accumulated := make(map[string]domain.DocumentSummary, len(ordered))
	for _, entry := range ordered {
		accumulated[entry.ObjectID] = domain.DocumentSummary{
			ObjectID:        entry.ObjectID,
			DocumentName:    entry.DocumentName,
			TransactionCode: entry.TransactionCode,
			Region:          entry.Region,
			Uploaded:        entry.Uploaded,
			CurrentVersion:  entry.Version,
			LastRelease:     entry.ReleaseReference,
			DocumentDate:    entry.DocumentDate,
			LastUpdated:     entry.LoggedAt,
			HistoryCount:    accumulated[entry.ObjectID].HistoryCount + 1,
			LatestEntryID:   entry.ID,
		}
	}

	summaries := make([]domain.DocumentSummary, 0, len(accumulated))
	for _, summary := range accumulated {
		summaries = append(summaries, summary)
	}
	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].LastUpdated != summaries[j].LastUpdated {
			return summaries[i].LastUpdated > summaries[j].LastUpdated
		}
		return summaries[i].ObjectID < summaries[j].ObjectID
	})

	return summaries
}
