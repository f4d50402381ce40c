package session

import (
	"context"
	"time"

	"github.com/HoktusDevs/manpower-platform-app-sub006/internal/auth"
)

// Record is a pending one-time handoff session. It is created at
// issuance and removed exactly once by a successful redemption, or
// evicted after expiry. There is no update in place.
type Record struct {
	SessionID string                `json:"sessionId"`
	User      auth.User             `json:"user"`
	Tokens    auth.CredentialBundle `json:"tokens"`
	CreatedAt time.Time             `json:"createdAt"`
	ExpiresAt time.Time             `json:"expiresAt"`
}

// Expired reports whether the record is past its expiry at the given instant.
func (r Record) Expired(now time.Time) bool {
	return now.After(r.ExpiresAt)
}

// Store defines how pending sessions are persisted. Implementations
// must remain stateless across instances; in a multi-instance
// deployment the backing store has to be shared and TTL-capable.
type Store interface {
	// Put persists a new record until its expiry.
	Put(ctx context.Context, rec Record) error

	// Get returns the record or nil when absent/expired.
	Get(ctx context.Context, sessionID string) (*Record, error)

	// Consume atomically reads and deletes the record. Under
	// concurrent redemption exactly one caller receives the record;
	// the rest observe nil.
	Consume(ctx context.Context, sessionID string) (*Record, error)

	// Delete removes the record. Reports whether it existed.
	Delete(ctx context.Context, sessionID string) (bool, error)

	// SweepExpired removes expired records and returns the count.
	// Stores with native TTL eviction may make this a no-op.
	SweepExpired(ctx context.Context) (int, error)
}
