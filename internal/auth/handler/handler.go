package handler

import (
	"log/slog"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/HoktusDevs/manpower-platform-app-sub006/internal/auth"
	"github.com/HoktusDevs/manpower-platform-app-sub006/internal/auth/provider"
	"github.com/HoktusDevs/manpower-platform-app-sub006/internal/auth/resolver"
	"github.com/HoktusDevs/manpower-platform-app-sub006/internal/exchange"
)

// PortalURLs are the frontend origins the callback hands the session
// key to, picked by the resolved user type.
type PortalURLs struct {
	Admin     string
	Applicant string
}

type Handler struct {
	providers *provider.Registry
	resolver  resolver.Resolver
	exchange  *exchange.Service
	portals   PortalURLs
	log       *slog.Logger
}

func NewHandler(
	registry *provider.Registry,
	resolver resolver.Resolver,
	exchange *exchange.Service,
	portals PortalURLs,
	log *slog.Logger,
) *Handler {
	return &Handler{
		providers: registry,
		resolver:  resolver,
		exchange:  exchange,
		portals:   portals,
		log:       log,
	}
}

// RegisterRoutes mounts the public login/exchange routes and the
// service-key-guarded issuance route.
func (h *Handler) RegisterRoutes(r *gin.Engine, internal *gin.RouterGroup) {
	r.GET("/oauth/login/:provider", h.login)
	r.GET("/oauth/callback/:provider", h.callback)
	r.POST("/auth/session/exchange", h.exchangeSession)
	internal.POST("/sessions", h.issueSession)

	h.log.Info("auth routes mounted", "providers", h.providers.Names())
}

func (h *Handler) login(c *gin.Context) {
	providerName := c.Param("provider")

	p, err := h.providers.Get(providerName)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "unknown oauth provider",
		})
		return
	}

	state := generateState(c)
	_, codeChallenge := generatePKCE(c)

	authURL := p.AuthCodeURL(state, codeChallenge)
	c.Redirect(http.StatusFound, authURL)
}

// callback completes the OIDC flow: the authenticated identity and the
// provider's credential bundle become a pending one-time session, and
// the browser is redirected to the right portal origin carrying the
// session key.
func (h *Handler) callback(c *gin.Context) {
	providerName := c.Param("provider")

	p, err := h.providers.Get(providerName)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "unknown oauth provider",
		})
		return
	}

	if !validateState(c) {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "invalid state",
		})
		return
	}

	if errParam := c.Query("error"); errParam != "" {
		h.log.WarnContext(c.Request.Context(), "oidc callback returned error",
			"provider", providerName,
			"error", errParam,
			"desc", c.Query("error_description"),
		)
		// The user has to start a fresh auth flow; there is no
		// partial-recovery path.
		c.Redirect(http.StatusFound, h.portals.Applicant+"/login")
		return
	}

	code := c.Query("code")
	if code == "" {
		h.log.ErrorContext(c.Request.Context(), "oidc callback missing code and error")
		c.AbortWithStatus(http.StatusBadRequest)
		return
	}

	codeVerifier := getPKCEVerifier(c)
	if codeVerifier == "" {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "missing pkce verifier",
		})
		return
	}

	identity, bundle, err := p.ExchangeCode(c.Request.Context(), code, codeVerifier)
	if err != nil {
		h.log.WarnContext(c.Request.Context(), "oidc code exchange failed",
			"provider", providerName,
			"error", err,
		)
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "authentication failed",
		})
		return
	}

	user, err := h.resolver.Resolve(c.Request.Context(), identity)
	if err != nil {
		h.log.ErrorContext(c.Request.Context(), "failed to resolve user",
			"provider", providerName,
			"error", err,
		)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "failed to resolve user",
		})
		return
	}

	sessionKey, _, err := h.exchange.Issue(c.Request.Context(), user, *bundle)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "failed to create session",
		})
		return
	}

	c.Redirect(http.StatusFound, h.portalFor(user.UserType)+"?sessionKey="+url.QueryEscape(sessionKey))
}

func (h *Handler) portalFor(userType string) string {
	if userType == auth.UserTypeAdmin {
		return h.portals.Admin
	}
	return h.portals.Applicant
}
