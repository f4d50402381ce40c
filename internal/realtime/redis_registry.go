package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisRegistry keeps one key per connection with a sliding TTL, so
// dead connections are evicted by Redis even if the disconnect event
// never arrives.
type RedisRegistry struct {
	client *redis.Client
	prefix string
	now    func() time.Time
}

func NewRedisRegistry(client *redis.Client) *RedisRegistry {
	return &RedisRegistry{
		client: client,
		prefix: "conn:",
		now:    time.Now,
	}
}

func (r *RedisRegistry) key(connectionID string) string {
	return r.prefix + connectionID
}

func (r *RedisRegistry) Register(ctx context.Context, conn Connection) error {
	if conn.ConnectionID == "" {
		return fmt.Errorf("realtime: missing connection_id")
	}
	if conn.UserID == "" {
		conn.UserID = AnonymousUser
	}

	data, err := json.Marshal(conn)
	if err != nil {
		return fmt.Errorf("realtime: failed to marshal connection: %w", err)
	}

	return r.client.Set(ctx, r.key(conn.ConnectionID), data, ConnectionTTL).Err()
}

func (r *RedisRegistry) Touch(ctx context.Context, connectionID string) error {
	val, err := r.client.Get(ctx, r.key(connectionID)).Result()
	if err == redis.Nil {
		return nil // connection already evicted; next send will prune it
	}
	if err != nil {
		return err
	}

	var conn Connection
	if err := json.Unmarshal([]byte(val), &conn); err != nil {
		return fmt.Errorf("realtime: failed to unmarshal connection: %w", err)
	}

	conn.LastActivity = r.now()

	data, err := json.Marshal(conn)
	if err != nil {
		return fmt.Errorf("realtime: failed to marshal connection: %w", err)
	}

	// Rewriting the key resets the TTL to the full window.
	return r.client.Set(ctx, r.key(connectionID), data, ConnectionTTL).Err()
}

func (r *RedisRegistry) Unregister(ctx context.Context, connectionID string) error {
	return r.client.Del(ctx, r.key(connectionID)).Err()
}

func (r *RedisRegistry) ListActive(ctx context.Context) ([]Connection, error) {
	var conns []Connection

	iter := r.client.Scan(ctx, 0, r.prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		val, err := r.client.Get(ctx, iter.Val()).Result()
		if err == redis.Nil {
			continue // expired between SCAN and GET
		}
		if err != nil {
			return nil, err
		}

		var conn Connection
		if err := json.Unmarshal([]byte(val), &conn); err != nil {
			return nil, fmt.Errorf("realtime: failed to unmarshal connection: %w", err)
		}
		conns = append(conns, conn)
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}

	return conns, nil
}
