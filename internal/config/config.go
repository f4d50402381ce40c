package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	AppPort  string `env:"APP_PORT" envDefault:"8080"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// SessionSecret is the HMAC key for handoff tokens. The service
	// refuses to start without it.
	SessionSecret string `env:"SESSION_SECRET,required"`

	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`

	// DatabaseDSN is optional. Without it identities are resolved
	// directly from verified OIDC claims instead of the user directory.
	DatabaseDSN string `env:"DATABASE_DSN"`

	OIDCProviderName string `env:"OIDC_PROVIDER_NAME" envDefault:"cognito"`
	OIDCIssuer       string `env:"OIDC_ISSUER"`
	OIDCClientID     string `env:"OIDC_CLIENT_ID"`
	OIDCClientSecret string `env:"OIDC_CLIENT_SECRET"`
	OIDCRedirectURL  string `env:"OIDC_REDIRECT_URL"`

	// Portal origins the callback hands the session key to,
	// picked by the resolved user type.
	AdminPortalURL     string `env:"ADMIN_PORTAL_URL" envDefault:"http://localhost:3000"`
	ApplicantPortalURL string `env:"APPLICANT_PORTAL_URL" envDefault:"http://localhost:3001"`

	// ServiceKeyHash is the bcrypt hash of the shared key that guards
	// /internal endpoints. Empty hash means those endpoints reject
	// every request.
	ServiceKeyHash string `env:"SERVICE_KEY_HASH"`

	WSAllowedOrigins []string `env:"WS_ALLOWED_ORIGINS" envSeparator:","`

	PostmarkServerToken  string `env:"POSTMARK_SERVER_TOKEN"`
	PostmarkAccountToken string `env:"POSTMARK_ACCOUNT_TOKEN"`
	SenderEmail          string `env:"SENDER_EMAIL"`
	SupportEmail         string `env:"SUPPORT_EMAIL"`
	EmailDevDir          string `env:"EMAIL_DEV_DIR" envDefault:"./tmp/emails"`
}

// Load reads configuration from the environment. A .env file is
// loaded first when present; real environment variables win.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// OIDCEnabled reports whether the login flow can be mounted.
func (c Config) OIDCEnabled() bool {
	return c.OIDCIssuer != "" && c.OIDCClientID != "" && c.OIDCRedirectURL != ""
}

// EmailEnabled reports whether the Postmark sender can be used.
func (c Config) EmailEnabled() bool {
	return c.PostmarkServerToken != "" && c.PostmarkAccountToken != "" && c.SenderEmail != ""
}
