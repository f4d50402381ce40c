package exchange

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HoktusDevs/manpower-platform-app-sub006/internal/auth"
	"github.com/HoktusDevs/manpower-platform-app-sub006/internal/session"
	"github.com/HoktusDevs/manpower-platform-app-sub006/internal/token"
)

var (
	testUser   = auth.User{ID: "u1", Email: "u1@example.com", UserType: "admin"}
	testTokens = auth.CredentialBundle{AccessToken: "a", RefreshToken: "r", IDToken: "i", ExpiresIn: 3600}
)

func newService(t *testing.T) (*Service, *session.MemoryStore) {
	t.Helper()

	codec, err := token.NewCodec("test-secret")
	require.NoError(t, err)

	store := session.NewMemoryStore()
	return NewService(codec, store, slog.Default()), store
}

func TestService_IssueRedeem(t *testing.T) {
	t.Parallel()

	svc, _ := newService(t)
	ctx := context.Background()

	tok, expiresAt, err := svc.Issue(ctx, testUser, testTokens)
	require.NoError(t, err)
	require.NotEmpty(t, tok)
	assert.WithinDuration(t, time.Now().Add(SessionTTL), expiresAt, 2*time.Second)

	rec, err := svc.Redeem(ctx, tok)
	require.NoError(t, err)
	assert.Equal(t, testUser, rec.User)
	assert.Equal(t, testTokens, rec.Tokens)
}

func TestService_RedeemTwice(t *testing.T) {
	t.Parallel()

	svc, _ := newService(t)
	ctx := context.Background()

	tok, _, err := svc.Issue(ctx, testUser, testTokens)
	require.NoError(t, err)

	_, err = svc.Redeem(ctx, tok)
	require.NoError(t, err)

	_, err = svc.Redeem(ctx, tok)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestService_RedeemConcurrent(t *testing.T) {
	t.Parallel()

	svc, _ := newService(t)
	ctx := context.Background()

	tok, _, err := svc.Issue(ctx, testUser, testTokens)
	require.NoError(t, err)

	const callers = 16
	var wg sync.WaitGroup
	errs := make([]error, callers)

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Redeem(ctx, tok)
		}(i)
	}
	wg.Wait()

	winners := 0
	for _, err := range errs {
		if err == nil {
			winners++
		} else {
			assert.ErrorIs(t, err, ErrSessionNotFound)
		}
	}
	assert.Equal(t, 1, winners, "credentials must be delivered exactly once")
}

func TestService_RedeemAfterExpiry(t *testing.T) {
	t.Parallel()

	svc, _ := newService(t)
	ctx := context.Background()

	tok, _, err := svc.Issue(ctx, testUser, testTokens)
	require.NoError(t, err)

	// 31 minutes later the structurally valid, correctly signed token
	// must be rejected.
	svc.now = func() time.Time { return time.Now().Add(SessionTTL + time.Minute) }

	_, err = svc.Redeem(ctx, tok)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestService_RedeemGarbage(t *testing.T) {
	t.Parallel()

	svc, _ := newService(t)

	_, err := svc.Redeem(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestService_RedeemWrongKey(t *testing.T) {
	t.Parallel()

	svc, store := newService(t)
	ctx := context.Background()

	_, _, err := svc.Issue(ctx, testUser, testTokens)
	require.NoError(t, err)

	otherCodec, err := token.NewCodec("other-secret")
	require.NoError(t, err)
	other := NewService(otherCodec, store, slog.Default())

	tok, _, err := other.Issue(ctx, testUser, testTokens)
	require.NoError(t, err)

	_, err = svc.Redeem(ctx, tok)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestService_PayloadMismatch(t *testing.T) {
	t.Parallel()

	codec, err := token.NewCodec("test-secret")
	require.NoError(t, err)
	store := session.NewMemoryStore()
	svc := NewService(codec, store, slog.Default())
	ctx := context.Background()

	tok, _, err := svc.Issue(ctx, testUser, testTokens)
	require.NoError(t, err)

	// Corrupt the stored record out-of-band so it no longer matches
	// the signed payload.
	payload, err := codec.Verify(tok)
	require.NoError(t, err)

	rec, err := store.Consume(ctx, payload.SessionID)
	require.NoError(t, err)
	rec.User.UserType = "postulante"
	require.NoError(t, store.Put(ctx, *rec))

	_, err = svc.Redeem(ctx, tok)
	assert.ErrorIs(t, err, ErrPayloadMismatch)
}

type failingStore struct {
	session.Store
}

func (f *failingStore) Put(ctx context.Context, rec session.Record) error {
	return errors.New("redis: connection refused")
}

func (f *failingStore) Consume(ctx context.Context, sessionID string) (*session.Record, error) {
	return nil, errors.New("redis: connection refused")
}

func TestService_StoreUnavailable(t *testing.T) {
	t.Parallel()

	codec, err := token.NewCodec("test-secret")
	require.NoError(t, err)
	svc := NewService(codec, &failingStore{}, slog.Default())
	ctx := context.Background()

	_, _, err = svc.Issue(ctx, testUser, testTokens)
	assert.ErrorIs(t, err, ErrStoreUnavailable)

	healthy := NewService(codec, session.NewMemoryStore(), slog.Default())
	tok, _, err := healthy.Issue(ctx, testUser, testTokens)
	require.NoError(t, err)

	_, err = svc.Redeem(ctx, tok)
	assert.ErrorIs(t, err, ErrStoreUnavailable)
}
