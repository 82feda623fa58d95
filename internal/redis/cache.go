package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"stationops/internal/domain"
)

// CacheStore holds the station-scoped read views in Redis.
type CacheStore struct {
	client *redis.Client
}

// NewCacheStore creates a new CacheStore.
func NewCacheStore(client *redis.Client) *CacheStore {
	return &CacheStore{client: client}
}

// Cache TTL constants
const (
	StationBatteriesTTL = 2 * time.Minute // dropped on every inventory mutation anyway
	StationBookingsTTL  = 30 * time.Second
)

// Key prefixes
const (
	stationBatteriesPrefix = "cache:station:batteries:"
	stationBookingsPrefix  = "cache:station:bookings:"
)

// GetStationBatteries retrieves the batteries-by-station view. Returns nil on a miss.
func (s *CacheStore) GetStationBatteries(ctx context.Context, stationID string) ([]*domain.Battery, error) {
	var batteries []*domain.Battery
	found, err := s.get(ctx, stationBatteriesPrefix+stationID, &batteries)
	if err != nil || !found {
		return nil, err
	}
	if batteries == nil {
		batteries = []*domain.Battery{}
	}
	return batteries, nil
}

// SetStationBatteries stores the batteries-by-station view.
func (s *CacheStore) SetStationBatteries(ctx context.Context, stationID string, batteries []*domain.Battery) error {
	return s.set(ctx, stationBatteriesPrefix+stationID, batteries, StationBatteriesTTL)
}

// InvalidateStationBatteries drops the batteries-by-station view.
func (s *CacheStore) InvalidateStationBatteries(ctx context.Context, stationID string) error {
	return s.client.Del(ctx, stationBatteriesPrefix+stationID).Err()
}

// GetStationBookings retrieves the cached bookings of a station. Returns nil on a miss.
func (s *CacheStore) GetStationBookings(ctx context.Context, stationID string) ([]*domain.Booking, error) {
	var bookings []*domain.Booking
	found, err := s.get(ctx, stationBookingsPrefix+stationID, &bookings)
	if err != nil || !found {
		return nil, err
	}
	if bookings == nil {
		bookings = []*domain.Booking{}
	}
	return bookings, nil
}

// SetStationBookings stores the bookings of a station.
func (s *CacheStore) SetStationBookings(ctx context.Context, stationID string, bookings []*domain.Booking) error {
	return s.set(ctx, stationBookingsPrefix+stationID, bookings, StationBookingsTTL)
}

// InvalidateStationBookings drops the cached bookings of a station.
func (s *CacheStore) InvalidateStationBookings(ctx context.Context, stationID string) error {
	return s.client.Del(ctx, stationBookingsPrefix+stationID).Err()
}

func (s *CacheStore) get(ctx context.Context, key string, dst any) (bool, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil // Cache miss
		}
		return false, err
	}

	if err := json.Unmarshal(data, dst); err != nil {
		return false, err
	}
	return true, nil
}

func (s *CacheStore) set(ctx context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, key, data, ttl).Err()
}
