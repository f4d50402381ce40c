package realtime

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRegistry_RegisterDefaultsAnonymous(t *testing.T) {
	t.Parallel()

	reg := NewMemoryRegistry()
	register(t, reg, "c1", "")

	conns, err := reg.ListActive(context.Background())
	require.NoError(t, err)
	require.Len(t, conns, 1)
	assert.Equal(t, AnonymousUser, conns[0].UserID)
}

func TestMemoryRegistry_Unregister(t *testing.T) {
	t.Parallel()

	reg := NewMemoryRegistry()
	register(t, reg, "c1", "u1")
	register(t, reg, "c2", "u2")

	require.NoError(t, reg.Unregister(context.Background(), "c1"))

	conns, err := reg.ListActive(context.Background())
	require.NoError(t, err)
	require.Len(t, conns, 1)
	assert.Equal(t, "c2", conns[0].ConnectionID)

	// Unregistering twice is harmless.
	require.NoError(t, reg.Unregister(context.Background(), "c1"))
}

func TestMemoryRegistry_TTLEviction(t *testing.T) {
	t.Parallel()

	reg := NewMemoryRegistry()
	register(t, reg, "c1", "u1")

	reg.SetClock(func() time.Time { return time.Now().Add(ConnectionTTL + time.Minute) })

	conns, err := reg.ListActive(context.Background())
	require.NoError(t, err)
	assert.Empty(t, conns)
}

func TestMemoryRegistry_TouchSlidesTTL(t *testing.T) {
	t.Parallel()

	reg := NewMemoryRegistry()
	register(t, reg, "c1", "u1")

	// Move close to expiry, then touch: the window restarts.
	base := time.Now()
	reg.SetClock(func() time.Time { return base.Add(ConnectionTTL - time.Minute) })
	require.NoError(t, reg.Touch(context.Background(), "c1"))

	reg.SetClock(func() time.Time { return base.Add(ConnectionTTL + time.Hour) })
	conns, err := reg.ListActive(context.Background())
	require.NoError(t, err)
	require.Len(t, conns, 1)
	assert.Equal(t, base.Add(ConnectionTTL-time.Minute), conns[0].LastActivity)

	// Touching an unknown connection is a no-op, not an error.
	require.NoError(t, reg.Touch(context.Background(), "ghost"))
}
