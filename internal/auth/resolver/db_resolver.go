package resolver

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/HoktusDevs/manpower-platform-app-sub006/internal/auth"
	"github.com/HoktusDevs/manpower-platform-app-sub006/internal/db"
)

// DBResolver resolves identities against the platform user directory.
// Lookup order: existing identity mapping, then email-based linking,
// then user creation.
type DBResolver struct {
	db *db.DB
}

func NewDBResolver(db *db.DB) *DBResolver {
	return &DBResolver{db: db}
}

func (r *DBResolver) Resolve(
	ctx context.Context,
	identity *auth.Identity,
) (auth.User, error) {

	if identity == nil {
		return auth.User{}, errors.New("identity is nil")
	}

	// 1. Try identity lookup (provider + provider_user_id)
	var (
		userID   uuid.UUID
		email    string
		userType string
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT u.id, u.email, u.user_type
		FROM public.identities i
		JOIN public.users u ON u.id = i.user_id
		WHERE i.provider = $1
		  AND i.provider_user_id = $2
	`,
		identity.Provider,
		identity.ProviderUserID,
	).Scan(&userID, &email, &userType)

	if err == nil {
		return auth.User{ID: userID.String(), Email: email, UserType: userType}, nil
	}
	if err != sql.ErrNoRows {
		return auth.User{}, err
	}

	// 2. Try email-based linking (existing user, new provider)
	err = r.db.QueryRowContext(ctx, `
		SELECT id, user_type
		FROM public.users
		WHERE LOWER(email) = LOWER($1)
	`,
		identity.Email,
	).Scan(&userID, &userType)

	if err == nil {
		if err := r.linkIdentity(ctx, userID, identity); err != nil {
			return auth.User{}, err
		}
		return auth.User{ID: userID.String(), Email: identity.Email, UserType: userType}, nil
	}
	if err != sql.ErrNoRows {
		return auth.User{}, err
	}

	// 3. Create new user
	userType = identity.UserType
	if userType == "" {
		userType = auth.DefaultUserType
	}

	err = r.db.QueryRowContext(ctx, `
		INSERT INTO public.users (email, email_verified, user_type)
		VALUES ($1, $2, $3)
		RETURNING id
	`,
		identity.Email,
		identity.EmailVerified,
		userType,
	).Scan(&userID)
	if err != nil {
		return auth.User{}, err
	}

	// 4. Create identity mapping
	if err := r.linkIdentity(ctx, userID, identity); err != nil {
		return auth.User{}, err
	}

	return auth.User{ID: userID.String(), Email: identity.Email, UserType: userType}, nil
}

func (r *DBResolver) linkIdentity(ctx context.Context, userID uuid.UUID, identity *auth.Identity) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO public.identities (user_id, provider, provider_user_id)
		VALUES ($1, $2, $3)
	`,
		userID,
		identity.Provider,
		identity.ProviderUserID,
	)
	return err
}
