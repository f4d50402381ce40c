package token_test

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HoktusDevs/manpower-platform-app-sub006/internal/token"
)

func samplePayload() token.Payload {
	now := time.Now()
	return token.Payload{
		SessionID: "c2Vzc2lvbi1pZC0xMjM",
		Subject:   "u1",
		Email:     "u1@example.com",
		UserType:  "admin",
		IssuedAt:  now.Unix(),
		ExpiresAt: now.Add(30 * time.Minute).Unix(),
	}
}

func TestNewCodec_EmptySecret(t *testing.T) {
	t.Parallel()

	_, err := token.NewCodec("")
	require.Error(t, err)
}

func TestCodec_RoundTrip(t *testing.T) {
	t.Parallel()

	codec, err := token.NewCodec("test-secret")
	require.NoError(t, err)

	want := samplePayload()
	tok, err := codec.Sign(want)
	require.NoError(t, err)
	require.Contains(t, tok, ".")

	got, err := codec.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestCodec_SignatureBitFlip(t *testing.T) {
	t.Parallel()

	codec, err := token.NewCodec("test-secret")
	require.NoError(t, err)

	tok, err := codec.Sign(samplePayload())
	require.NoError(t, err)

	encoded, sigPart, ok := strings.Cut(tok, ".")
	require.True(t, ok)

	sig, err := base64.RawURLEncoding.DecodeString(sigPart)
	require.NoError(t, err)

	// Flipping any single bit of the signature must invalidate the token.
	for i := 0; i < len(sig)*8; i++ {
		mutated := make([]byte, len(sig))
		copy(mutated, sig)
		mutated[i/8] ^= 1 << (i % 8)

		bad := encoded + "." + base64.RawURLEncoding.EncodeToString(mutated)
		_, err := codec.Verify(bad)
		assert.ErrorIs(t, err, token.ErrInvalid, "bit %d", i)
	}
}

func TestCodec_TamperedPayload(t *testing.T) {
	t.Parallel()

	codec, err := token.NewCodec("test-secret")
	require.NoError(t, err)

	tok, err := codec.Sign(samplePayload())
	require.NoError(t, err)

	_, sigPart, ok := strings.Cut(tok, ".")
	require.True(t, ok)

	forged := samplePayload()
	forged.UserType = "admin-forged"
	forgedTok, err := codec.Sign(forged)
	require.NoError(t, err)
	forgedEncoded, _, _ := strings.Cut(forgedTok, ".")

	// Payload from one token with the signature of another.
	_, err = codec.Verify(forgedEncoded + "." + sigPart)
	assert.ErrorIs(t, err, token.ErrInvalid)
}

func TestCodec_Malformed(t *testing.T) {
	t.Parallel()

	codec, err := token.NewCodec("test-secret")
	require.NoError(t, err)

	valid, err := codec.Sign(samplePayload())
	require.NoError(t, err)
	encoded, sigPart, _ := strings.Cut(valid, ".")

	cases := map[string]string{
		"empty":              "",
		"no separator":       encoded,
		"empty payload":      "." + sigPart,
		"empty signature":    encoded + ".",
		"extra separator":    valid + ".extra",
		"non-base64 payload": "!!!." + sigPart,
		"non-base64 sig":     encoded + ".!!!",
	}

	for name, tok := range cases {
		_, err := codec.Verify(tok)
		assert.ErrorIs(t, err, token.ErrInvalid, name)
	}
}

func TestCodec_DifferentSecret(t *testing.T) {
	t.Parallel()

	signer, err := token.NewCodec("secret-a")
	require.NoError(t, err)
	verifier, err := token.NewCodec("secret-b")
	require.NoError(t, err)

	tok, err := signer.Sign(samplePayload())
	require.NoError(t, err)

	_, err = verifier.Verify(tok)
	assert.ErrorIs(t, err, token.ErrInvalid)
}
