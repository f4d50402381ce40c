package exchange

import "errors"

// Redemption failure taxonomy. These are internal: handlers collapse
// every variant into one opaque response and keep the variant for
// structured logging only.
var (
	ErrInvalidSignature = errors.New("exchange: invalid token signature")
	ErrExpiredToken     = errors.New("exchange: token expired")
	ErrSessionNotFound  = errors.New("exchange: session not found or already redeemed")
	ErrPayloadMismatch  = errors.New("exchange: token payload does not match stored record")
	ErrStoreUnavailable = errors.New("exchange: session store unavailable")
)

// RedeemFailed reports whether err belongs to the redemption taxonomy.
func RedeemFailed(err error) bool {
	return errors.Is(err, ErrInvalidSignature) ||
		errors.Is(err, ErrExpiredToken) ||
		errors.Is(err, ErrSessionNotFound) ||
		errors.Is(err, ErrPayloadMismatch) ||
		errors.Is(err, ErrStoreUnavailable)
}
