package redis

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"stationops/internal/domain"
)

// SessionTTL is how long a saved check-in stays resumable.
const SessionTTL = time.Hour

const sessionKeyPrefix = "checkin:session:"

// SessionStore persists the workflow snapshot of each browsing context so a
// check-in survives the redirect to the payment provider. One snapshot per
// context; saving again overwrites.
type SessionStore struct {
	client *redis.Client
	ttl    time.Duration
	now    func() time.Time
}

// NewSessionStore creates a new SessionStore. A zero ttl means SessionTTL.
func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = SessionTTL
	}
	return &SessionStore{client: client, ttl: ttl, now: time.Now}
}

// WithClock replaces the store's time source.
func (s *SessionStore) WithClock(now func() time.Time) *SessionStore {
	s.now = now
	return s
}

func sessionKey(op domain.Operator) string {
	return sessionKeyPrefix + op.StationID + ":" + op.OperatorID
}

// Save stamps the snapshot with the capture time and stores it.
func (s *SessionStore) Save(ctx context.Context, op domain.Operator, snapshot *domain.Snapshot) error {
	snapshot.CapturedAt = s.now().UTC()
	if snapshot.CreatedAt.IsZero() {
		snapshot.CreatedAt = snapshot.CapturedAt
	}

	data, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, sessionKey(op), data, s.ttl).Err()
}

// Restore returns the saved snapshot, or nil when there is none. A snapshot
// captured longer than the TTL ago counts as abandoned: it is deleted and nil
// is returned. Unreadable entries are treated the same way.
func (s *SessionStore) Restore(ctx context.Context, op domain.Operator) (*domain.Snapshot, error) {
	key := sessionKey(op)

	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var snapshot domain.Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, s.client.Del(ctx, key).Err()
	}

	if s.now().Sub(snapshot.CapturedAt) > s.ttl {
		return nil, s.client.Del(ctx, key).Err()
	}

	return &snapshot, nil
}

// Clear deletes the saved snapshot.
func (s *SessionStore) Clear(ctx context.Context, op domain.Operator) error {
	return s.client.Del(ctx, sessionKey(op)).Err()
}

// Query parameters echoed by the supported payment providers on return.
var resumeParams = []string{
	"vnp_ResponseCode",
	"vnp_TxnRef",
	"vnp_TransactionStatus",
	"paymentReturn",
	"payment_status",
	"resultCode",
}

// IsResumeSignal reports whether a navigation looks like a return from the
// payment provider. It only checks for the presence of known parameters and
// verifies nothing.
func IsResumeSignal(query url.Values) bool {
	for _, p := range resumeParams {
		if _, ok := query[p]; ok {
			return true
		}
	}
	return false
}

// ProviderReference returns the transaction reference echoed by the provider,
// or "" when none was echoed.
func ProviderReference(query url.Values) string {
	for _, p := range []string{"vnp_TxnRef", "transactionId", "txnRef", "orderId"} {
		if v := strings.TrimSpace(query.Get(p)); v != "" {
			return v
		}
	}
	return ""
}

// PaymentOutcome is the provider's verdict as echoed on return.
type PaymentOutcome int

const (
	PaymentOutcomeUnknown PaymentOutcome = iota
	PaymentOutcomeSucceeded
	PaymentOutcomeFailed
)

// ProviderOutcome reads the provider's result code from the return query.
func ProviderOutcome(query url.Values) PaymentOutcome {
	if code, ok := firstValue(query, "vnp_ResponseCode", "vnp_TransactionStatus"); ok {
		if code == "00" {
			return PaymentOutcomeSucceeded
		}
		return PaymentOutcomeFailed
	}
	if code, ok := firstValue(query, "resultCode"); ok {
		if code == "0" {
			return PaymentOutcomeSucceeded
		}
		return PaymentOutcomeFailed
	}
	if status, ok := firstValue(query, "payment_status", "paymentReturn"); ok {
		switch strings.ToLower(status) {
		case "success", "succeeded", "paid", "ok", "true", "1":
			return PaymentOutcomeSucceeded
		case "failed", "failure", "cancelled", "canceled", "error", "false", "0":
			return PaymentOutcomeFailed
		}
	}
	return PaymentOutcomeUnknown
}

func firstValue(query url.Values, keys ...string) (string, bool) {
	for _, k := range keys {
		if vs, ok := query[k]; ok && len(vs) > 0 {
			return strings.TrimSpace(vs[0]), true
		}
	}
	return "", false
}
