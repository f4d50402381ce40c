package session_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HoktusDevs/manpower-platform-app-sub006/internal/auth"
	"github.com/HoktusDevs/manpower-platform-app-sub006/internal/session"
)

func newRecord(t *testing.T, ttl time.Duration) session.Record {
	t.Helper()

	id, err := session.GenerateID()
	require.NoError(t, err)

	now := time.Now()
	return session.Record{
		SessionID: id,
		User:      auth.User{ID: "u1", Email: "u1@example.com", UserType: "admin"},
		Tokens:    auth.CredentialBundle{AccessToken: "a", RefreshToken: "r", IDToken: "i", ExpiresIn: 3600},
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

func TestGenerateID_Unique(t *testing.T) {
	t.Parallel()

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id, err := session.GenerateID()
		require.NoError(t, err)
		assert.Len(t, id, 22) // 16 bytes base64url without padding
		assert.False(t, seen[id])
		seen[id] = true
	}
}

func TestMemoryStore_PutGet(t *testing.T) {
	t.Parallel()

	store := session.NewMemoryStore()
	rec := newRecord(t, 30*time.Minute)

	require.NoError(t, store.Put(context.Background(), rec))

	got, err := store.Get(context.Background(), rec.SessionID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, rec.User, got.User)
	assert.Equal(t, rec.Tokens, got.Tokens)
}

func TestMemoryStore_GetMissing(t *testing.T) {
	t.Parallel()

	store := session.NewMemoryStore()

	got, err := store.Get(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMemoryStore_ConsumeOnce(t *testing.T) {
	t.Parallel()

	store := session.NewMemoryStore()
	rec := newRecord(t, 30*time.Minute)
	require.NoError(t, store.Put(context.Background(), rec))

	got, err := store.Consume(context.Background(), rec.SessionID)
	require.NoError(t, err)
	require.NotNil(t, got)

	// Consumed records are gone.
	again, err := store.Consume(context.Background(), rec.SessionID)
	require.NoError(t, err)
	assert.Nil(t, again)
}

func TestMemoryStore_ConsumeConcurrent(t *testing.T) {
	t.Parallel()

	store := session.NewMemoryStore()
	rec := newRecord(t, 30*time.Minute)
	require.NoError(t, store.Put(context.Background(), rec))

	const callers = 32
	var wg sync.WaitGroup
	results := make([]*session.Record, callers)

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			got, err := store.Consume(context.Background(), rec.SessionID)
			assert.NoError(t, err)
			results[i] = got
		}(i)
	}
	wg.Wait()

	winners := 0
	for _, got := range results {
		if got != nil {
			winners++
		}
	}
	assert.Equal(t, 1, winners, "exactly one concurrent redeemer must win")
}

func TestMemoryStore_ExpiredRecordInvisible(t *testing.T) {
	t.Parallel()

	store := session.NewMemoryStore()
	rec := newRecord(t, 30*time.Minute)
	require.NoError(t, store.Put(context.Background(), rec))

	store.SetClock(func() time.Time { return time.Now().Add(31 * time.Minute) })

	got, err := store.Get(context.Background(), rec.SessionID)
	require.NoError(t, err)
	assert.Nil(t, got)

	consumed, err := store.Consume(context.Background(), rec.SessionID)
	require.NoError(t, err)
	assert.Nil(t, consumed)
}

func TestMemoryStore_SweepOnPut(t *testing.T) {
	t.Parallel()

	store := session.NewMemoryStore()
	expired := newRecord(t, 30*time.Minute)
	require.NoError(t, store.Put(context.Background(), expired))

	store.SetClock(func() time.Time { return time.Now().Add(31 * time.Minute) })

	// Putting a fresh record sweeps the expired one.
	fresh := newRecord(t, 2*time.Hour)
	require.NoError(t, store.Put(context.Background(), fresh))

	n, err := store.SweepExpired(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n, "expired record should already be swept by Put")
}

func TestMemoryStore_Delete(t *testing.T) {
	t.Parallel()

	store := session.NewMemoryStore()
	rec := newRecord(t, 30*time.Minute)
	require.NoError(t, store.Put(context.Background(), rec))

	existed, err := store.Delete(context.Background(), rec.SessionID)
	require.NoError(t, err)
	assert.True(t, existed)

	existed, err = store.Delete(context.Background(), rec.SessionID)
	require.NoError(t, err)
	assert.False(t, existed)
}
