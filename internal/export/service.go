// Package export renders the registry as an Excel workbook: a Summary sheet
// with one row per tracked object and a History sheet with the full audit
// log, newest first.
package export

import (
	"context"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/rpattn/specreg/internal/registry"
)

const (
	summarySheet = "Summary"
	historySheet = "History"
)

var summaryHeader = []any{
	"RICEFW ID", "Document Name", "Transaction Code", "Region", "Uploaded",
	"Current Version", "Last Release", "Document Date", "Last Updated", "History Count",
}

var historyHeader = []any{
	"ID", "RICEFW ID", "Document Name", "Transaction Code", "Region", "Uploaded",
	"Version", "Release Reference", "Author", "Change Description", "Logged At", "Document Date",
}

// Service builds registry backups.
type Service struct {
	registry *registry.Service
	now      func() time.Time
}

// NewService creates a new export service.
func NewService(reg *registry.Service) *Service {
	return &Service{registry: reg, now: time.Now}
}

// FileName returns the attachment name for a backup generated now.
func (s *Service) FileName() string {
	return fmt.Sprintf("specreg_backup_%s.xlsx", s.now().Format("2006-01-02"))
}

// BuildWorkbook assembles the workbook from the current registry state. The
// caller owns the returned file and must Close it.
func (s *Service) BuildWorkbook(ctx context.Context) (*excelize.File, error) {
	summaries, err := s.registry.Summaries(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load summaries: %w", err)
	}
	entries, err := s.registry.History(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}

	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), summarySheet); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to name summary sheet: %w", err)
	}
	if _, err := f.NewSheet(historySheet); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to create history sheet: %w", err)
	}

	if err := f.SetSheetRow(summarySheet, "A1", &summaryHeader); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to write summary header: %w", err)
	}
	for i, summary := range summaries {
		row := []any{
			summary.ObjectID,
			summary.DocumentName,
			summary.TransactionCode,
			summary.Region,
			summary.Uploaded,
			summary.CurrentVersion,
			summary.LastRelease,
			formatMillis(summary.DocumentDate),
			formatMillis(summary.LastUpdated),
			summary.HistoryCount,
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(summarySheet, cell, &row); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("failed to write summary row %d: %w", i+2, err)
		}
	}

	if err := f.SetSheetRow(historySheet, "A1", &historyHeader); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to write history header: %w", err)
	}
	for i, entry := range entries {
		row := []any{
			entry.ID,
			entry.ObjectID,
			entry.DocumentName,
			entry.TransactionCode,
			entry.Region,
			entry.Uploaded,
			entry.Version,
			entry.ReleaseReference,
			entry.Author,
			entry.ChangeDescription,
			entry.LoggedAt,
			entry.DocumentDate,
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(historySheet, cell, &row); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("failed to write history row %d: %w", i+2, err)
		}
	}

	return f, nil
}

func formatMillis(millis int64) string {
	if millis == 0 {
		return ""
	}
	return time.UnixMilli(millis).UTC().Format("2006-01-02")
}
