package realtime

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// MemoryRegistry is a process-local Registry for single-instance and
// test use.
type MemoryRegistry struct {
	mu    sync.Mutex
	conns map[string]memoryEntry
	now   func() time.Time
}

type memoryEntry struct {
	conn      Connection
	expiresAt time.Time
}

func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{
		conns: make(map[string]memoryEntry),
		now:   time.Now,
	}
}

func (m *MemoryRegistry) Register(ctx context.Context, conn Connection) error {
	if conn.ConnectionID == "" {
		return fmt.Errorf("realtime: missing connection_id")
	}
	if conn.UserID == "" {
		conn.UserID = AnonymousUser
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.conns[conn.ConnectionID] = memoryEntry{
		conn:      conn,
		expiresAt: m.now().Add(ConnectionTTL),
	}
	return nil
}

func (m *MemoryRegistry) Touch(ctx context.Context, connectionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.conns[connectionID]
	if !ok {
		return nil
	}

	entry.conn.LastActivity = m.now()
	entry.expiresAt = m.now().Add(ConnectionTTL)
	m.conns[connectionID] = entry
	return nil
}

func (m *MemoryRegistry) Unregister(ctx context.Context, connectionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.conns, connectionID)
	return nil
}

func (m *MemoryRegistry) ListActive(ctx context.Context) ([]Connection, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	var conns []Connection
	for id, entry := range m.conns {
		if now.After(entry.expiresAt) {
			delete(m.conns, id)
			continue
		}
		conns = append(conns, entry.conn)
	}
	return conns, nil
}

// SetClock overrides the time source. Test hook.
func (m *MemoryRegistry) SetClock(now func() time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = now
}
