package redis

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"stationops/internal/domain"
)

// LockStore handles the per-context in-flight guard in Redis.
type LockStore struct {
	client *redis.Client
}

// NewLockStore creates a new LockStore.
func NewLockStore(client *redis.Client) *LockStore {
	return &LockStore{client: client}
}

// releaseScript deletes the lock only while it still carries the caller's token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

func sessionLockKey(op domain.Operator) string {
	return "lock:checkin:" + op.StationID + ":" + op.OperatorID
}

// AcquireSessionLock marks an intent as outstanding for the given context.
// It returns the token that releases the lock, and false if another intent
// holds it.
func (s *LockStore) AcquireSessionLock(ctx context.Context, op domain.Operator, ttl time.Duration) (string, bool, error) {
	token := uuid.NewString()
	ok, err := s.client.SetNX(ctx, sessionLockKey(op), token, ttl).Result()
	if err != nil {
		return "", false, err
	}
	if !ok {
		return "", false, nil
	}

	return token, true, nil
}

// IsSessionLocked reports whether an intent is outstanding for the context.
func (s *LockStore) IsSessionLocked(ctx context.Context, op domain.Operator) (bool, error) {
	n, err := s.client.Exists(ctx, sessionLockKey(op)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ReleaseSessionLock releases the lock if it is still held with token.
// It reports false when the lock had expired and was taken by another intent,
// which is then left untouched.
func (s *LockStore) ReleaseSessionLock(ctx context.Context, op domain.Operator, token string) (bool, error) {
	n, err := releaseScript.Run(ctx, s.client, []string{sessionLockKey(op)}, token).Int()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}
