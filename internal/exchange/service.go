package exchange

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/HoktusDevs/manpower-platform-app-sub006/internal/auth"
	"github.com/HoktusDevs/manpower-platform-app-sub006/internal/session"
	"github.com/HoktusDevs/manpower-platform-app-sub006/internal/token"
)

// SessionTTL is the fixed lifetime of a pending handoff session.
const SessionTTL = 30 * time.Minute

// Service mints one-time handoff tokens and redeems them exactly once.
type Service struct {
	codec *token.Codec
	store session.Store
	log   *slog.Logger
	now   func() time.Time
}

func NewService(codec *token.Codec, store session.Store, log *slog.Logger) *Service {
	return &Service{
		codec: codec,
		store: store,
		log:   log,
		now:   time.Now,
	}
}

// Issue persists a pending session bound to the user and credential
// bundle and returns the signed one-time token plus its expiry.
func (s *Service) Issue(ctx context.Context, user auth.User, tokens auth.CredentialBundle) (string, time.Time, error) {
	sessionID, err := session.GenerateID()
	if err != nil {
		return "", time.Time{}, err
	}

	now := s.now()
	expiresAt := now.Add(SessionTTL)

	rec := session.Record{
		SessionID: sessionID,
		User:      user,
		Tokens:    tokens,
		CreatedAt: now,
		ExpiresAt: expiresAt,
	}

	if err := s.store.Put(ctx, rec); err != nil {
		return "", time.Time{}, errors.Join(ErrStoreUnavailable, err)
	}

	tok, err := s.codec.Sign(token.Payload{
		SessionID: sessionID,
		Subject:   user.ID,
		Email:     user.Email,
		UserType:  user.UserType,
		IssuedAt:  now.Unix(),
		ExpiresAt: expiresAt.Unix(),
	})
	if err != nil {
		return "", time.Time{}, err
	}

	s.log.InfoContext(ctx, "session issued",
		"session_id", sessionID,
		"user_id", user.ID,
		"user_type", user.UserType,
		"expires_at", expiresAt,
	)

	return tok, expiresAt, nil
}

// Redeem verifies the token, atomically consumes the stored record and
// returns it. A token can be redeemed at most once: the second of two
// concurrent attempts observes ErrSessionNotFound.
func (s *Service) Redeem(ctx context.Context, tok string) (*session.Record, error) {
	payload, err := s.codec.Verify(tok)
	if err != nil {
		return nil, s.fail(ctx, "", ErrInvalidSignature)
	}

	now := s.now()

	// Expiry is checked both on the payload and on the stored record.
	// They are set from the same instant at issuance; the double check
	// is deliberate defense in depth.
	if now.Unix() > payload.ExpiresAt {
		return nil, s.fail(ctx, payload.SessionID, ErrExpiredToken)
	}

	rec, err := s.store.Consume(ctx, payload.SessionID)
	if err != nil {
		return nil, s.fail(ctx, payload.SessionID, errors.Join(ErrStoreUnavailable, err))
	}
	if rec == nil {
		return nil, s.fail(ctx, payload.SessionID, ErrSessionNotFound)
	}

	if rec.Expired(now) {
		return nil, s.fail(ctx, payload.SessionID, ErrExpiredToken)
	}

	// A validly signed token cannot reference a foreign record while
	// the signing key is secret; this is an independent second check.
	if rec.User.ID != payload.Subject ||
		rec.User.Email != payload.Email ||
		rec.User.UserType != payload.UserType {
		return nil, s.fail(ctx, payload.SessionID, ErrPayloadMismatch)
	}

	s.log.InfoContext(ctx, "session redeemed",
		"session_id", rec.SessionID,
		"user_id", rec.User.ID,
		"user_type", rec.User.UserType,
	)

	return rec, nil
}

// fail logs the specific redemption failure for operability and passes
// the taxonomy error through; callers collapse it at the boundary.
func (s *Service) fail(ctx context.Context, sessionID string, err error) error {
	s.log.WarnContext(ctx, "session redemption failed",
		"session_id", sessionID,
		"reason", err.Error(),
	)
	return err
}
