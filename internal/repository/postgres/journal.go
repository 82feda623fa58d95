package postgres

import (
	"context"
	"database/sql"

	"stationops/internal/domain"
	"stationops/internal/repository"
)

const journalSchema = `
	CREATE TABLE IF NOT EXISTS checkin_journal (
		id                   TEXT PRIMARY KEY,
		operator_id          TEXT NOT NULL,
		station_id           TEXT NOT NULL,
		booking_id           TEXT NOT NULL DEFAULT '',
		transaction_id       TEXT NOT NULL DEFAULT '',
		step                 TEXT NOT NULL,
		event                TEXT NOT NULL,
		needs_reconciliation BOOLEAN NOT NULL DEFAULT FALSE,
		detail               TEXT NOT NULL DEFAULT '',
		created_at           TIMESTAMPTZ NOT NULL
	);
	CREATE INDEX IF NOT EXISTS checkin_journal_station_created_idx
		ON checkin_journal (station_id, created_at DESC);
`

// JournalRepository is a PostgreSQL implementation of repository.JournalRepository.
type JournalRepository struct {
	q Querier
}

var _ repository.JournalRepository = (*JournalRepository)(nil)

// NewJournalRepository creates a new PostgreSQL journal repository.
func NewJournalRepository(db *sql.DB) *JournalRepository {
	return &JournalRepository{q: db}
}

// EnsureSchema creates the journal table when it does not exist yet.
func (r *JournalRepository) EnsureSchema(ctx context.Context) error {
	_, err := r.q.ExecContext(ctx, journalSchema)
	return err
}

// Append records a journal entry.
func (r *JournalRepository) Append(ctx context.Context, entry *domain.JournalEntry) error {
	query := `
		INSERT INTO checkin_journal
			(id, operator_id, station_id, booking_id, transaction_id, step, event, needs_reconciliation, detail, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.q.ExecContext(ctx, query,
		entry.ID,
		entry.OperatorID,
		entry.StationID,
		entry.BookingID,
		entry.TransactionID,
		entry.Step,
		entry.Event,
		entry.NeedsReconciliation,
		entry.Detail,
		entry.CreatedAt,
	)

	return err
}

// ListByStation retrieves the most recent entries for a station, newest first.
func (r *JournalRepository) ListByStation(ctx context.Context, stationID string, limit int) ([]*domain.JournalEntry, error) {
	query := `
		SELECT id, operator_id, station_id, booking_id, transaction_id, step, event, needs_reconciliation, detail, created_at
		FROM checkin_journal
		WHERE station_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	return r.list(ctx, query, stationID, limit)
}

// ListNeedingReconciliation retrieves abandoned check-ins whose booking was
// already confirmed by the backend.
func (r *JournalRepository) ListNeedingReconciliation(ctx context.Context, stationID string) ([]*domain.JournalEntry, error) {
	query := `
		SELECT id, operator_id, station_id, booking_id, transaction_id, step, event, needs_reconciliation, detail, created_at
		FROM checkin_journal
		WHERE station_id = $1 AND needs_reconciliation
		ORDER BY created_at DESC
	`

	return r.list(ctx, query, stationID)
}

func (r *JournalRepository) list(ctx context.Context, query string, args ...any) ([]*domain.JournalEntry, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*domain.JournalEntry
	for rows.Next() {
		var e domain.JournalEntry
		if err := rows.Scan(
			&e.ID,
			&e.OperatorID,
			&e.StationID,
			&e.BookingID,
			&e.TransactionID,
			&e.Step,
			&e.Event,
			&e.NeedsReconciliation,
			&e.Detail,
			&e.CreatedAt,
		); err != nil {
			return nil, err
		}
		entries = append(entries, &e)
	}

	return entries, rows.Err()
}
