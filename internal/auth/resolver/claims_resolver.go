package resolver

import (
	"context"
	"errors"

	"github.com/HoktusDevs/manpower-platform-app-sub006/internal/auth"
)

// ClaimsResolver maps the verified OIDC claims straight to a platform
// user, for deployments without a user directory database. The
// provider subject doubles as the user ID.
type ClaimsResolver struct{}

func NewClaimsResolver() *ClaimsResolver {
	return &ClaimsResolver{}
}

func (r *ClaimsResolver) Resolve(
	ctx context.Context,
	identity *auth.Identity,
) (auth.User, error) {

	if identity == nil {
		return auth.User{}, errors.New("identity is nil")
	}
	if identity.ProviderUserID == "" || identity.Email == "" {
		return auth.User{}, errors.New("identity missing subject or email")
	}

	userType := identity.UserType
	if userType == "" {
		userType = auth.DefaultUserType
	}

	return auth.User{
		ID:       identity.ProviderUserID,
		Email:    identity.Email,
		UserType: userType,
	}, nil
}
