package realtime

import (
	"context"
	"time"
)

// ConnectionTTL is the sliding lifetime of a registered connection.
// It is extended on every inbound message.
const ConnectionTTL = 24 * time.Hour

// AnonymousUser is recorded when a client connects without identifying itself.
const AnonymousUser = "anonymous"

// Connection holds the durable metadata for one open real-time channel.
type Connection struct {
	ConnectionID string    `json:"connectionId"`
	UserID       string    `json:"userId"`
	ConnectedAt  time.Time `json:"connectedAt"`
	LastActivity time.Time `json:"lastActivity"`
}

// Registry stores active connection records. Like the session store it
// must be shared and TTL-capable in a multi-instance deployment.
type Registry interface {
	// Register inserts a connection record with a fresh TTL.
	Register(ctx context.Context, conn Connection) error

	// Touch updates last activity and slides the TTL. Keep-alive
	// semantics for any inbound message.
	Touch(ctx context.Context, connectionID string) error

	// Unregister removes the record, whether from an explicit
	// disconnect or a dispatcher prune.
	Unregister(ctx context.Context, connectionID string) error

	// ListActive returns every live connection record. Full scan:
	// acceptable at small connection counts only.
	ListActive(ctx context.Context) ([]Connection, error)
}
