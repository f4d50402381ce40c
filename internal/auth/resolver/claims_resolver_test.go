package resolver_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HoktusDevs/manpower-platform-app-sub006/internal/auth"
	"github.com/HoktusDevs/manpower-platform-app-sub006/internal/auth/resolver"
)

func TestClaimsResolver_Resolve(t *testing.T) {
	t.Parallel()

	r := resolver.NewClaimsResolver()

	user, err := r.Resolve(context.Background(), &auth.Identity{
		Provider:       "cognito",
		ProviderUserID: "u1",
		Email:          "u1@example.com",
		UserType:       "admin",
	})
	require.NoError(t, err)
	assert.Equal(t, auth.User{ID: "u1", Email: "u1@example.com", UserType: "admin"}, user)
}

func TestClaimsResolver_DefaultsUserType(t *testing.T) {
	t.Parallel()

	r := resolver.NewClaimsResolver()

	user, err := r.Resolve(context.Background(), &auth.Identity{
		Provider:       "cognito",
		ProviderUserID: "u2",
		Email:          "u2@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, auth.UserTypeApplicant, user.UserType)
}

func TestClaimsResolver_RejectsIncomplete(t *testing.T) {
	t.Parallel()

	r := resolver.NewClaimsResolver()

	_, err := r.Resolve(context.Background(), nil)
	assert.Error(t, err)

	_, err = r.Resolve(context.Background(), &auth.Identity{Email: "x@example.com"})
	assert.Error(t, err)

	_, err = r.Resolve(context.Background(), &auth.Identity{ProviderUserID: "u3"})
	assert.Error(t, err)
}
