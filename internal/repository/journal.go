package repository

import (
	"context"

	"stationops/internal/domain"
)

// JournalRepository defines the persistence operations for the check-in journal.
type JournalRepository interface {
	// Append records a journal entry.
	Append(ctx context.Context, entry *domain.JournalEntry) error

	// ListByStation retrieves the most recent entries for a station, newest first.
	ListByStation(ctx context.Context, stationID string, limit int) ([]*domain.JournalEntry, error)

	// ListNeedingReconciliation retrieves abandoned check-ins whose booking
	// was already confirmed by the backend.
	ListNeedingReconciliation(ctx context.Context, stationID string) ([]*domain.JournalEntry, error)
}
