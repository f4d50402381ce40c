package app

import (
	"context"

	"github.com/gin-gonic/gin"

	authhandler "github.com/HoktusDevs/manpower-platform-app-sub006/internal/auth/handler"
	"github.com/HoktusDevs/manpower-platform-app-sub006/internal/auth/provider"
	"github.com/HoktusDevs/manpower-platform-app-sub006/internal/auth/provider/oidc"
	"github.com/HoktusDevs/manpower-platform-app-sub006/internal/auth/resolver"
	"github.com/HoktusDevs/manpower-platform-app-sub006/internal/config"
	"github.com/HoktusDevs/manpower-platform-app-sub006/internal/email"
	"github.com/HoktusDevs/manpower-platform-app-sub006/internal/exchange"
	"github.com/HoktusDevs/manpower-platform-app-sub006/internal/logger"
	"github.com/HoktusDevs/manpower-platform-app-sub006/internal/middleware"
	"github.com/HoktusDevs/manpower-platform-app-sub006/internal/realtime"
	"github.com/HoktusDevs/manpower-platform-app-sub006/internal/session"
	"github.com/HoktusDevs/manpower-platform-app-sub006/internal/token"
)

func setupHTTP(ctx context.Context, cfg config.Config) (*gin.Engine, *realtime.Hub, func() error, error) {

	infra, err := setupInfra(ctx, cfg, logger.With("infra"))
	if err != nil {
		return nil, nil, nil, err
	}

	// ----------------------------
	// Session exchange
	// ----------------------------

	codec, err := token.NewCodec(cfg.SessionSecret)
	if err != nil {
		return nil, nil, nil, err
	}

	sessionStore := session.NewRedisStore(infra.Redis.Client)
	exchangeService := exchange.NewService(codec, sessionStore, logger.With("exchange"))

	var identityResolver resolver.Resolver
	if infra.DB != nil {
		identityResolver = resolver.NewDBResolver(infra.DB)
	} else {
		identityResolver = resolver.NewClaimsResolver()
	}

	providers := []provider.OAuthProvider{}
	if cfg.OIDCEnabled() {
		p, err := oidc.New(ctx, oidc.Config{
			Name:         cfg.OIDCProviderName,
			Issuer:       cfg.OIDCIssuer,
			ClientID:     cfg.OIDCClientID,
			ClientSecret: cfg.OIDCClientSecret,
			RedirectURL:  cfg.OIDCRedirectURL,
		})
		if err != nil {
			return nil, nil, nil, err
		}
		providers = append(providers, p)
	}

	authHandler := authhandler.NewHandler(
		provider.NewRegistry(providers...),
		identityResolver,
		exchangeService,
		authhandler.PortalURLs{
			Admin:     cfg.AdminPortalURL,
			Applicant: cfg.ApplicantPortalURL,
		},
		logger.With("auth"),
	)

	// ----------------------------
	// Realtime push
	// ----------------------------

	registry := realtime.NewRedisRegistry(infra.Redis.Client)
	hub := realtime.NewHub(logger.With("hub"))
	dispatcher := realtime.NewDispatcher(registry, hub, logger.With("dispatcher"))
	realtimeHandler := realtime.NewHandler(registry, hub, dispatcher, cfg.WSAllowedOrigins, logger.With("realtime"))

	// ----------------------------
	// Email
	// ----------------------------

	var sender email.Sender
	if cfg.EmailEnabled() {
		sender, err = email.NewPostmarkSender(email.PostmarkConfig{
			ServerToken:  cfg.PostmarkServerToken,
			AccountToken: cfg.PostmarkAccountToken,
			SenderEmail:  cfg.SenderEmail,
			SupportEmail: cfg.SupportEmail,
		})
		if err != nil {
			return nil, nil, nil, err
		}
	} else {
		sender = email.NewDevSender(cfg.EmailDevDir)
	}

	// ----------------------------
	// Router
	// ----------------------------

	router := gin.New()
	router.Use(gin.Recovery())

	internal := router.Group("/internal")
	internal.Use(middleware.RequireServiceKey(cfg.ServiceKeyHash, logger.With("middleware")))

	authHandler.RegisterRoutes(router, internal)
	realtimeHandler.RegisterRoutes(router, internal)
	internal.POST("/emails", email.SendHandler(sender, logger.With("email")))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	cleanup := func() error {
		hub.CloseAll()
		return infra.Close()
	}

	return router, hub, cleanup, nil
}
