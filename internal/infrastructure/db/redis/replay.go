package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultReplayTTL = 24 * time.Hour

// replayClient is the part of *redis.Client the replay store uses.
type replayClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
}

// ReplayStore remembers which account an idempotent registration produced so
// a retried request with the same key returns the first account.
// Key format: idem:<scope>:<idempotency_key>
type ReplayStore struct {
	client replayClient
	scope  string
	ttl    time.Duration
}

// NewReplayStore creates a ReplayStore for the given scope. A non-positive ttl
// falls back to 24h.
func NewReplayStore(client replayClient, scope string, ttl time.Duration) *ReplayStore {
	if ttl <= 0 {
		ttl = defaultReplayTTL
	}
	return &ReplayStore{client: client, scope: scope, ttl: ttl}
}

// Lookup returns the account ID recorded for key, if any.
func (s *ReplayStore) Lookup(ctx context.Context, key string) (string, bool, error) {
	id, err := s.client.Get(ctx, s.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("replay lookup: %w", err)
	}
	return id, true, nil
}

// Remember records accountID under key. An existing entry is kept.
func (s *ReplayStore) Remember(ctx context.Context, key, accountID string) error {
	if err := s.client.SetNX(ctx, s.key(key), accountID, s.ttl).Err(); err != nil {
		return fmt.Errorf("replay remember: %w", err)
	}
	return nil
}

func (s *ReplayStore) key(k string) string {
	return fmt.Sprintf("idem:%s:%s", s.scope, k)
}
