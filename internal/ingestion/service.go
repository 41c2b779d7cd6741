// Package ingestion restores registry backups: a JSON array of entries (the
// format the export and the original browser backup produce) or a CSV file
// with the export column order. Rows are validated and appended one by one;
// a bad row is reported, not fatal, and duplicate ids are skipped so a
// restore can be retried safely.
package ingestion

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rpattn/specreg/internal/domain"
	"github.com/rpattn/specreg/internal/registry"
)

// ErrUnsupportedFormat is returned when an uploaded file is not supported.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// csvColumns is the expected CSV header, matching the export column order.
var csvColumns = []string{
	"id", "ricefwId", "fsName", "transactionCode", "region", "uploaded",
	"version", "releaseReference", "author", "changeDescription", "loggedAt", "documentDate",
}

// RowError reports one rejected backup row.
type RowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// Result summarizes a restore run.
type Result struct {
	Appended int        `json:"appended"`
	Skipped  int        `json:"skipped"`
	Errors   []RowError `json:"errors"`
}

// Service restores backups through the registry's validated append path.
type Service struct {
	registry *registry.Service
}

// NewService creates a new ingestion service.
func NewService(reg *registry.Service) *Service {
	return &Service{registry: reg}
}

// Import reads a backup file and appends its rows. Only a store failure
// aborts the run; validation problems and duplicates are accounted per row.
func (s *Service) Import(ctx context.Context, fileName string, data io.Reader) (Result, error) {
	var (
		entries []domain.HistoryEntry
		err     error
	)

	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".json":
		entries, err = decodeJSON(data)
	case ".csv":
		entries, err = decodeCSV(data)
	default:
		return Result{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, fileName)
	}
	if err != nil {
		return Result{}, err
	}

	result := Result{Errors: []RowError{}}
	for i, entry := range entries {
		if _, appendErr := s.registry.Append(ctx, entry); appendErr != nil {
			switch {
			case errors.Is(appendErr, domain.ErrDuplicateEntry):
				result.Skipped++
			case errors.Is(appendErr, domain.ErrStoreUnavailable):
				return result, appendErr
			default:
				result.Errors = append(result.Errors, RowError{
					Row:     i + 1,
					Message: appendErr.Error(),
				})
			}
			continue
		}
		result.Appended++
	}

	return result, nil
}

func decodeJSON(data io.Reader) ([]domain.HistoryEntry, error) {
	var entries []domain.HistoryEntry
	if err := json.NewDecoder(data).Decode(&entries); err != nil {
		return nil, fmt.Errorf("failed to decode backup JSON: %w", err)
	}
	return entries, nil
}

func decodeCSV(data io.Reader) ([]domain.HistoryEntry, error) {
	reader := csv.NewReader(data)
	reader.FieldsPerRecord = len(csvColumns)

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	for i, name := range csvColumns {
		if !strings.EqualFold(strings.TrimSpace(header[i]), name) {
			return nil, fmt.Errorf("unexpected CSV column %d: got %q, want %q", i+1, header[i], name)
		}
	}

	var entries []domain.HistoryEntry
	for line := 2; ; line++ {
		record, readErr := reader.Read()
		if errors.Is(readErr, io.EOF) {
			break
		}
		if readErr != nil {
			return nil, fmt.Errorf("failed to read CSV line %d: %w", line, readErr)
		}

		entry, rowErr := entryFromRecord(record)
		if rowErr != nil {
			return nil, fmt.Errorf("CSV line %d: %w", line, rowErr)
		}
		entries = append(entries, entry)
	}

	return entries, nil
}

func entryFromRecord(record []string) (domain.HistoryEntry, error) {
	uploaded, err := strconv.ParseBool(strings.TrimSpace(record[5]))
	if err != nil {
		return domain.HistoryEntry{}, fmt.Errorf("invalid uploaded value %q", record[5])
	}
	loggedAt, err := parseMillis(record[10])
	if err != nil {
		return domain.HistoryEntry{}, fmt.Errorf("invalid loggedAt value %q", record[10])
	}
	documentDate, err := parseMillis(record[11])
	if err != nil {
		return domain.HistoryEntry{}, fmt.Errorf("invalid documentDate value %q", record[11])
	}

	return domain.HistoryEntry{
		ID:                strings.TrimSpace(record[0]),
		ObjectID:          strings.TrimSpace(record[1]),
		DocumentName:      strings.TrimSpace(record[2]),
		TransactionCode:   strings.TrimSpace(record[3]),
		Region:            strings.TrimSpace(record[4]),
		Uploaded:          uploaded,
		Version:           strings.TrimSpace(record[6]),
		ReleaseReference:  strings.TrimSpace(record[7]),
		Author:            strings.TrimSpace(record[8]),
		ChangeDescription: record[9],
		LoggedAt:          loggedAt,
		DocumentDate:      documentDate,
	}, nil
}

func parseMillis(raw string) (int64, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return 0, nil
	}
	return strconv.ParseInt(trimmed, 10, 64)
}
