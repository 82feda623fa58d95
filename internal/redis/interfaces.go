package redis

import (
	"context"
	"time"

	"stationops/internal/domain"
)

// SessionStoreInterface defines the interface for workflow snapshot persistence.
type SessionStoreInterface interface {
	Save(ctx context.Context, op domain.Operator, snapshot *domain.Snapshot) error
	Restore(ctx context.Context, op domain.Operator) (*domain.Snapshot, error)
	Clear(ctx context.Context, op domain.Operator) error
}

// LockStoreInterface defines the interface for the in-flight guard.
type LockStoreInterface interface {
	AcquireSessionLock(ctx context.Context, op domain.Operator, ttl time.Duration) (string, bool, error)
	IsSessionLocked(ctx context.Context, op domain.Operator) (bool, error)
	ReleaseSessionLock(ctx context.Context, op domain.Operator, token string) (bool, error)
}

// BatteryCacheInterface defines the interface for the batteries-by-station view.
type BatteryCacheInterface interface {
	GetStationBatteries(ctx context.Context, stationID string) ([]*domain.Battery, error)
	SetStationBatteries(ctx context.Context, stationID string, batteries []*domain.Battery) error
	InvalidateStationBatteries(ctx context.Context, stationID string) error
}

// BookingCacheInterface defines the interface for the station bookings view.
type BookingCacheInterface interface {
	GetStationBookings(ctx context.Context, stationID string) ([]*domain.Booking, error)
	SetStationBookings(ctx context.Context, stationID string, bookings []*domain.Booking) error
	InvalidateStationBookings(ctx context.Context, stationID string) error
}

// Ensure concrete types implement interfaces.
var (
	_ SessionStoreInterface = (*SessionStore)(nil)
	_ LockStoreInterface    = (*LockStore)(nil)
	_ BatteryCacheInterface = (*CacheStore)(nil)
	_ BookingCacheInterface = (*CacheStore)(nil)
)
