package export

import (
	"context"
	"testing"

	"github.com/rpattn/specreg/internal/domain"
	"github.com/rpattn/specreg/internal/registry"
	"github.com/rpattn/specreg/internal/repository"
)

func seededService(t *testing.T) *Service {
	t.Helper()

	reg := registry.NewService(repository.NewMemoryRepository())
	for _, entry := range []domain.HistoryEntry{
		{ID: "e1", ObjectID: "R-100", DocumentName: "Sales Output", Version: "1.0.0", ReleaseReference: "R1", LoggedAt: 1000},
		{ID: "e2", ObjectID: "R-100", DocumentName: "Sales Output", Version: "1.1.0", ReleaseReference: "R2", Uploaded: true, LoggedAt: 2000},
		{ID: "e3", ObjectID: "R-200", DocumentName: "Billing Report", Version: "0.9.0", ReleaseReference: "R1", LoggedAt: 1500},
	} {
		if _, err := reg.Append(context.Background(), entry); err != nil {
			t.Fatalf("failed to seed entry: %v", err)
		}
	}
	return NewService(reg)
}

func TestBuildWorkbookSheets(t *testing.T) {
	svc := seededService(t)

	f, err := svc.BuildWorkbook(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) != 2 || sheets[0] != summarySheet || sheets[1] != historySheet {
		t.Fatalf("unexpected sheet list: %v", sheets)
	}
}

func TestBuildWorkbookSummaryContent(t *testing.T) {
	svc := seededService(t)

	f, err := svc.BuildWorkbook(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows(summarySheet)
	if err != nil {
		t.Fatalf("failed to read summary sheet: %v", err)
	}
	// Header plus one row per distinct object, most recent first.
	if len(rows) != 3 {
		t.Fatalf("expected 3 summary rows, got %d: %v", len(rows), rows)
	}
	if rows[1][0] != "R-100" || rows[1][5] != "1.1.0" {
		t.Errorf("unexpected first summary row: %v", rows[1])
	}
	if rows[1][9] != "2" {
		t.Errorf("expected history count 2, got %q", rows[1][9])
	}
	if rows[2][0] != "R-200" {
		t.Errorf("unexpected second summary row: %v", rows[2])
	}
}

func TestBuildWorkbookHistoryNewestFirst(t *testing.T) {
	svc := seededService(t)

	f, err := svc.BuildWorkbook(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows(historySheet)
	if err != nil {
		t.Fatalf("failed to read history sheet: %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("expected 4 history rows, got %d", len(rows))
	}
	wantIDs := []string{"e2", "e3", "e1"}
	for i, id := range wantIDs {
		if rows[i+1][0] != id {
			t.Errorf("history row %d: expected id %q, got %q", i+1, id, rows[i+1][0])
		}
	}
}

func TestBuildWorkbookEmptyRegistry(t *testing.T) {
	svc := NewService(registry.NewService(repository.NewMemoryRepository()))

	f, err := svc.BuildWorkbook(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows(summarySheet)
	if err != nil {
		t.Fatalf("failed to read summary sheet: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected header only, got %d rows", len(rows))
	}
}
