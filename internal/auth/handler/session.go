package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/HoktusDevs/manpower-platform-app-sub006/internal/auth"
)

type issueRequest struct {
	User   auth.User             `json:"user" binding:"required"`
	Tokens auth.CredentialBundle `json:"tokens" binding:"required"`
}

// issueSession mints a one-time session key for an identity the
// issuing service has already authenticated. Guarded by the service
// key; browsers never call this.
func (h *Handler) issueSession(c *gin.Context) {
	var req issueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	if req.User.ID == "" || req.User.Email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user id and email are required"})
		return
	}
	if req.User.UserType == "" {
		req.User.UserType = auth.DefaultUserType
	}

	sessionKey, expiresAt, err := h.exchange.Issue(c.Request.Context(), req.User, req.Tokens)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"sessionKey": sessionKey,
		"expiresAt":  expiresAt.UTC().Format(time.RFC3339),
	})
}

type exchangeRequest struct {
	SessionKey string `json:"sessionKey" binding:"required"`
}

// exchangeSession redeems a session key exactly once. Every failure
// mode collapses to the same opaque response so callers learn nothing
// about why a key was rejected; the specific reason is logged by the
// exchange service.
func (h *Handler) exchangeSession(c *gin.Context) {
	var req exchangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "sessionKey is required",
		})
		return
	}

	rec, err := h.exchange.Redeem(c.Request.Context(), req.SessionKey)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"message": "Invalid or expired session",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user":    rec.User,
		"tokens":  rec.Tokens,
	})
}
