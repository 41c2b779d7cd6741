package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rpattn/specreg/internal/domain"
)

// SQLSTATE codes the store maps onto the domain error taxonomy.
const (
	sqlstateUniqueViolation = "23505"
	sqlstateUndefinedTable  = "42P01"
)

const entryColumns = `id, ricefw_id, fs_name, transaction_id, region, status,
	version, release_reference, author, change_description, timestamp, document_date`

type entryRepository struct {
	pool *pgxpool.Pool
}

// NewEntryRepository wires a repository backed by pgxpool.
func NewEntryRepository(pool *pgxpool.Pool) EntryRepository {
	return &entryRepository{pool: pool}
}

func (r *entryRepository) Append(ctx context.Context, entry domain.HistoryEntry) error {
	if r.pool == nil {
		return fmt.Errorf("%w: repository not initialized", domain.ErrStoreUnavailable)
	}

	_, err := r.pool.Exec(
		ctx,
		`INSERT INTO history_entries (`+entryColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
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
	)
	if err != nil {
		if isSQLState(err, sqlstateUniqueViolation) {
			return fmt.Errorf("append %q: %w", entry.ID, domain.ErrDuplicateEntry)
		}
		// A write against a missing schema must fail loudly; silently
		// dropping it would violate durability.
		return fmt.Errorf("%w: failed to append entry: %v", domain.ErrStoreUnavailable, err)
	}

	return nil
}

func (r *entryRepository) ScanAll(ctx context.Context) ([]domain.HistoryEntry, error) {
	return r.selectEntries(ctx, `SELECT `+entryColumns+` FROM history_entries`)
}

func (r *entryRepository) ListChronological(ctx context.Context) ([]domain.HistoryEntry, error) {
	return r.selectEntries(ctx, `SELECT `+entryColumns+` FROM history_entries ORDER BY timestamp DESC`)
}

func (r *entryRepository) selectEntries(ctx context.Context, query string) ([]domain.HistoryEntry, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("%w: repository not initialized", domain.ErrStoreUnavailable)
	}

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		if isSQLState(err, sqlstateUndefinedTable) {
			// A never-initialized store is a valid empty state for
			// reads: fresh deployments scan before migrating.
			return []domain.HistoryEntry{}, nil
		}
		return nil, fmt.Errorf("%w: failed to scan entries: %v", domain.ErrStoreUnavailable, err)
	}
	defer rows.Close()

	entries := []domain.HistoryEntry{}
	for rows.Next() {
		var entry domain.HistoryEntry
		if scanErr := rows.Scan(
			&entry.ID,
			&entry.ObjectID,
			&entry.DocumentName,
			&entry.TransactionCode,
			&entry.Region,
			&entry.Uploaded,
			&entry.Version,
			&entry.ReleaseReference,
			&entry.Author,
			&entry.ChangeDescription,
			&entry.LoggedAt,
			&entry.DocumentDate,
		); scanErr != nil {
			return nil, fmt.Errorf("failed to scan entry row: %w", scanErr)
		}
		entries = append(entries, entry)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, fmt.Errorf("%w: failed to iterate entries: %v", domain.ErrStoreUnavailable, rowsErr)
	}

	return entries, nil
}

func (r *entryRepository) PatchUploadedFlag(ctx context.Context, id string, uploaded bool) error {
	if r.pool == nil {
		return fmt.Errorf("%w: repository not initialized", domain.ErrStoreUnavailable)
	}

	tag, err := r.pool.Exec(
		ctx,
		`UPDATE history_entries SET status = $2 WHERE id = $1`,
		id,
		uploaded,
	)
	if err != nil {
		return fmt.Errorf("%w: failed to patch uploaded flag: %v", domain.ErrStoreUnavailable, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("patch %q: %w", id, domain.ErrNotFound)
	}

	return nil
}

func isSQLState(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}
