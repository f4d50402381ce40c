package session

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is a process-local Store for single-instance and test
// use. It is NOT safe for a horizontally scaled deployment: concurrent
// instances would each see a different store.
type MemoryStore struct {
	mu      sync.Mutex
	records map[string]Record
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[string]Record),
		now:     time.Now,
	}
}

func (m *MemoryStore) Put(ctx context.Context, rec Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.records[rec.SessionID] = rec

	// Amortized cleanup, acceptable at handoff volumes. A high-volume
	// deployment should sweep on a schedule instead.
	m.sweepLocked()
	return nil
}

func (m *MemoryStore) Get(ctx context.Context, sessionID string) (*Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.records[sessionID]
	if !ok || rec.Expired(m.now()) {
		return nil, nil
	}

	out := rec
	return &out, nil
}

func (m *MemoryStore) Consume(ctx context.Context, sessionID string) (*Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.records[sessionID]
	if !ok {
		return nil, nil
	}

	// Delete under the same lock as the read so only the first of
	// concurrent redeemers wins.
	delete(m.records, sessionID)

	if rec.Expired(m.now()) {
		return nil, nil
	}

	out := rec
	return &out, nil
}

func (m *MemoryStore) Delete(ctx context.Context, sessionID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, ok := m.records[sessionID]
	delete(m.records, sessionID)
	return ok, nil
}

func (m *MemoryStore) SweepExpired(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sweepLocked(), nil
}

func (m *MemoryStore) sweepLocked() int {
	now := m.now()
	removed := 0
	for id, rec := range m.records {
		if rec.Expired(now) {
			delete(m.records, id)
			removed++
		}
	}
	return removed
}

// SetClock overrides the time source. Test hook.
func (m *MemoryStore) SetClock(now func() time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = now
}
