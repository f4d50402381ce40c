package provider

import (
	"context"

	"github.com/HoktusDevs/manpower-platform-app-sub006/internal/auth"
)

// OAuthProvider defines the contract every external auth provider
// must implement. Implementations return identity facts and the raw
// provider credentials; they must not perform user creation, linking,
// or session management.
type OAuthProvider interface {
	// Name returns the provider identifier (e.g. "cognito").
	Name() string

	// AuthCodeURL returns the OAuth authorization URL.
	// State and PKCE parameters are provided by the caller.
	AuthCodeURL(state string, codeChallenge string) string

	// ExchangeCode exchanges the authorization code for provider
	// credentials and returns a normalized identity together with the
	// credential bundle that will be handed over on redemption.
	ExchangeCode(
		ctx context.Context,
		code string,
		codeVerifier string,
	) (*auth.Identity, *auth.CredentialBundle, error)
}
