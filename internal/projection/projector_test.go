package projection

import (
	"math/rand"
	"reflect"
	"testing"

	"github.com/rpattn/specreg/internal/domain"
)

func entry(id, objectID, version string, loggedAt int64) domain.HistoryEntry {
	return domain.HistoryEntry{
		ID:           id,
		ObjectID:     objectID,
		DocumentName: "Doc " + objectID,
		Version:      version,
		LoggedAt:     loggedAt,
		DocumentDate: loggedAt,
	}
}

func TestProjectEmptyInput(t *testing.T) {
	summaries := Project(nil)
	if summaries == nil {
		t.Fatal("expected empty slice, got nil")
	}
	if len(summaries) != 0 {
		t.Fatalf("expected no summaries, got %d", len(summaries))
	}

	summaries = Project([]domain.HistoryEntry{})
	if len(summaries) != 0 {
		t.Fatalf("expected no summaries for empty slice, got %d", len(summaries))
	}
}

func TestProjectLastWriteWins(t *testing.T) {
	a := entry("e1", "X", "1.0", 10)
	b := entry("e2", "X", "1.1", 20)

	for name, input := range map[string][]domain.HistoryEntry{
		"oldest first": {a, b},
		"newest first": {b, a},
	} {
		summaries := Project(input)
		if len(summaries) != 1 {
			t.Fatalf("%s: expected 1 summary, got %d", name, len(summaries))
		}
		summary := summaries[0]
		if summary.CurrentVersion != "1.1" {
			t.Errorf("%s: expected version 1.1, got %q", name, summary.CurrentVersion)
		}
		if summary.HistoryCount != 2 {
			t.Errorf("%s: expected history count 2, got %d", name, summary.HistoryCount)
		}
		if summary.LatestEntryID != "e2" {
			t.Errorf("%s: expected latest entry e2, got %q", name, summary.LatestEntryID)
		}
		if summary.LastUpdated != 20 {
			t.Errorf("%s: expected last updated 20, got %d", name, summary.LastUpdated)
		}
	}
}

func TestProjectAllFieldsTakenFromWinningEntry(t *testing.T) {
	old := domain.HistoryEntry{
		ID: "e1", ObjectID: "R-100", DocumentName: "Old Name",
		TransactionCode: "VA01", Region: "EMEA", Uploaded: true,
		Version: "1.0.0", ReleaseReference: "R1", LoggedAt: 100, DocumentDate: 90,
	}
	updated := domain.HistoryEntry{
		ID: "e2", ObjectID: "R-100", DocumentName: "Corrected Name",
		TransactionCode: "VA02", Region: "APAC", Uploaded: false,
		Version: "2.0.0", ReleaseReference: "R2", LoggedAt: 200, DocumentDate: 150,
	}

	summaries := Project([]domain.HistoryEntry{updated, old})
	if len(summaries) != 1 {
		t.Fatalf("expected 1 summary, got %d", len(summaries))
	}

	want := domain.DocumentSummary{
		ObjectID:        "R-100",
		DocumentName:    "Corrected Name",
		TransactionCode: "VA02",
		Region:          "APAC",
		Uploaded:        false,
		CurrentVersion:  "2.0.0",
		LastRelease:     "R2",
		DocumentDate:    150,
		LastUpdated:     200,
		HistoryCount:    2,
		LatestEntryID:   "e2",
	}
	if summaries[0] != want {
		t.Fatalf("summary mismatch:\n got %+v\nwant %+v", summaries[0], want)
	}
}

func TestProjectDeterministicAcrossRuns(t *testing.T) {
	entries := []domain.HistoryEntry{
		entry("e1", "A", "1.0", 10),
		entry("e2", "B", "1.0", 15),
		entry("e3", "A", "1.1", 20),
		entry("e4", "C", "0.9", 5),
		entry("e5", "B", "2.0", 25),
	}

	first := Project(entries)
	for run := 0; run < 10; run++ {
		if got := Project(entries); !reflect.DeepEqual(got, first) {
			t.Fatalf("run %d diverged:\n got %+v\nwant %+v", run, got, first)
		}
	}
}

func TestProjectOrderIndependence(t *testing.T) {
	entries := []domain.HistoryEntry{
		entry("e1", "A", "1.0", 10),
		entry("e2", "B", "1.0", 15),
		entry("e3", "A", "1.1", 20),
		entry("e4", "C", "0.9", 5),
		entry("e5", "B", "2.0", 25),
		entry("e6", "A", "1.2", 30),
	}

	want := Project(entries)

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 20; i++ {
		shuffled := make([]domain.HistoryEntry, len(entries))
		copy(shuffled, entries)
		rng.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})

		if got := Project(shuffled); !reflect.DeepEqual(got, want) {
			t.Fatalf("shuffle %d changed the projection:\n got %+v\nwant %+v", i, got, want)
		}
	}
}

func TestProjectTieBreakByID(t *testing.T) {
	// Equal loggedAt: the lexicographically larger id folds later and wins.
	a := entry("e1", "X", "1.0", 100)
	b := entry("e2", "X", "1.1", 100)

	for name, input := range map[string][]domain.HistoryEntry{
		"a first": {a, b},
		"b first": {b, a},
	} {
		summaries := Project(input)
		if len(summaries) != 1 {
			t.Fatalf("%s: expected 1 summary, got %d", name, len(summaries))
		}
		if summaries[0].LatestEntryID != "e2" {
			t.Errorf("%s: expected tie won by e2, got %q", name, summaries[0].LatestEntryID)
		}
		if summaries[0].HistoryCount != 2 {
			t.Errorf("%s: expected history count 2, got %d", name, summaries[0].HistoryCount)
		}
	}
}

func TestProjectResultOrderedByLastUpdatedDescending(t *testing.T) {
	entries := []domain.HistoryEntry{
		entry("e1", "A", "1.0", 10),
		entry("e2", "B", "1.0", 30),
		entry("e3", "C", "1.0", 20),
		entry("e4", "D", "1.0", 30),
	}

	summaries := Project(entries)
	gotOrder := make([]string, len(summaries))
	for i, summary := range summaries {
		gotOrder[i] = summary.ObjectID
	}

	// B and D tie on lastUpdated and fall back to object id ascending.
	wantOrder := []string{"B", "D", "C", "A"}
	if !reflect.DeepEqual(gotOrder, wantOrder) {
		t.Fatalf("unexpected result order: got %v, want %v", gotOrder, wantOrder)
	}
}

func TestProjectDoesNotMutateInput(t *testing.T) {
	entries := []domain.HistoryEntry{
		entry("e2", "A", "1.1", 20),
		entry("e1", "A", "1.0", 10),
	}
	snapshot := make([]domain.HistoryEntry, len(entries))
	copy(snapshot, entries)

	Project(entries)

	if !reflect.DeepEqual(entries, snapshot) {
		t.Fatal("Project reordered its input slice")
	}
}
