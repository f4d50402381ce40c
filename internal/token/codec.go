package token

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
)

// ErrInvalid is returned for every failure mode: malformed structure,
// signature mismatch, undecodable payload. Callers get no detail, so a
// forged token can never be confused with a valid one.
var ErrInvalid = errors.New("token: invalid")

// Payload is the signed claims set carried by a handoff token.
// Fields must never be trusted before Verify succeeds.
type Payload struct {
	SessionID string `json:"sessionId"`
	Subject   string `json:"sub"`
	Email     string `json:"email"`
	UserType  string `json:"userType"`
	IssuedAt  int64  `json:"iat"`
	ExpiresAt int64  `json:"exp"`
}

// Codec signs and verifies compact tokens of the form
// base64url(payload-json) + "." + base64url(HMAC-SHA256(encoded payload)).
type Codec struct {
	secret []byte
}

func NewCodec(secret string) (*Codec, error) {
	if secret == "" {
		return nil, errors.New("token: secret must not be empty")
	}
	return &Codec{secret: []byte(secret)}, nil
}

// Sign serializes the payload and appends its HMAC-SHA256 signature.
func (c *Codec) Sign(p Payload) (string, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return "", err
	}

	encoded := base64.RawURLEncoding.EncodeToString(data)
	sig := c.mac(encoded)

	return encoded + "." + base64.RawURLEncoding.EncodeToString(sig), nil
}

// Verify checks the signature in constant time and decodes the payload.
// All failures collapse to ErrInvalid.
func (c *Codec) Verify(tok string) (Payload, error) {
	encoded, sigPart, ok := strings.Cut(tok, ".")
	if !ok || encoded == "" || sigPart == "" || strings.Contains(sigPart, ".") {
		return Payload{}, ErrInvalid
	}

	gotSig, err := base64.RawURLEncoding.DecodeString(sigPart)
	if err != nil {
		return Payload{}, ErrInvalid
	}

	if !hmac.Equal(gotSig, c.mac(encoded)) {
		return Payload{}, ErrInvalid
	}

	// Signature checked; the payload may now be decoded.
	data, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return Payload{}, ErrInvalid
	}

	var p Payload
	if err := json.Unmarshal(data, &p); err != nil {
		return Payload{}, ErrInvalid
	}

	return p, nil
}

func (c *Codec) mac(encodedPayload string) []byte {
	h := hmac.New(sha256.New, c.secret)
	h.Write([]byte(encodedPayload))
	return h.Sum(nil)
}
