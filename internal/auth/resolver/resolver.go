package resolver

import (
	"context"

	"github.com/HoktusDevs/manpower-platform-app-sub006/internal/auth"
)

// Resolver determines which platform user an external identity belongs
// to. It is the ONLY place where identity-to-user mapping logic lives.
type Resolver interface {
	Resolve(ctx context.Context, identity *auth.Identity) (auth.User, error)
}
