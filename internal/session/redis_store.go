package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore is the shared, TTL-native implementation of Store.
// One-time consumption relies on GETDEL, so concurrent redeemers of
// the same session are serialized by Redis itself.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore creates a Redis-backed session store.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{
		client: client,
		prefix: "handoff:",
	}
}

func (r *RedisStore) key(sessionID string) string {
	return r.prefix + sessionID
}

func (r *RedisStore) Put(ctx context.Context, rec Record) error {
	if rec.SessionID == "" || rec.User.ID == "" {
		return fmt.Errorf("session: missing session_id or user_id")
	}

	ttl := time.Until(rec.ExpiresAt)
	if ttl <= 0 {
		return fmt.Errorf("session: expires_at must be in the future")
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("session: failed to marshal: %w", err)
	}

	return r.client.Set(ctx, r.key(rec.SessionID), data, ttl).Err()
}

func (r *RedisStore) Get(ctx context.Context, sessionID string) (*Record, error) {
	val, err := r.client.Get(ctx, r.key(sessionID)).Result()
	if err == redis.Nil {
		return nil, nil // not found
	}
	if err != nil {
		return nil, err
	}

	return r.decode(val)
}

func (r *RedisStore) Consume(ctx context.Context, sessionID string) (*Record, error) {
	val, err := r.client.GetDel(ctx, r.key(sessionID)).Result()
	if err == redis.Nil {
		return nil, nil // not found or already consumed
	}
	if err != nil {
		return nil, err
	}

	return r.decode(val)
}

func (r *RedisStore) Delete(ctx context.Context, sessionID string) (bool, error) {
	n, err := r.client.Del(ctx, r.key(sessionID)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// SweepExpired is a no-op: Redis evicts expired keys natively.
func (r *RedisStore) SweepExpired(ctx context.Context) (int, error) {
	return 0, nil
}

func (r *RedisStore) decode(val string) (*Record, error) {
	var rec Record
	if err := json.Unmarshal([]byte(val), &rec); err != nil {
		return nil, fmt.Errorf("session: failed to unmarshal: %w", err)
	}
	return &rec, nil
}
