package auth

// Identity represents a normalized external authentication identity
// returned by the OIDC provider. It contains facts only, no decisions.
type Identity struct {
	Provider       string // e.g. "cognito"
	ProviderUserID string // provider-scoped unique user identifier (sub)
	Email          string // verified email returned by provider
	EmailVerified  bool   // whether provider asserts email ownership
	UserType       string // role claim if the provider supplies one, else empty
}

// Platform user types. Everyone who is not staff is an applicant.
const (
	UserTypeAdmin     = "admin"
	UserTypeApplicant = "postulante"

	DefaultUserType = UserTypeApplicant
)

// User is the platform-side identity a session is bound to.
type User struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	UserType string `json:"userType"`
}

// CredentialBundle carries the downstream tokens handed over on
// redemption. The service stores and returns them opaquely.
type CredentialBundle struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	IDToken      string `json:"idToken"`
	ExpiresIn    int64  `json:"expiresIn"` // seconds until the access token expires
}
