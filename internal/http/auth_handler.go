package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"clearscrub-admin/internal/auth"
	"clearscrub-admin/internal/domain"
)

// AuthHandler expone login, logout y la vista de entrada.
type AuthHandler struct {
	logger        *zap.Logger
	sessions      *Sessions
	signInTimeout time.Duration
}

func NewAuthHandler(logger *zap.Logger, sessions *Sessions, signInTimeout time.Duration) *AuthHandler {
	if signInTimeout <= 0 {
		signInTimeout = 10 * time.Second
	}
	return &AuthHandler{
		logger:        logger,
		sessions:      sessions,
		signInTimeout: signInTimeout,
	}
}

// LoginView maneja GET /login. Una sesion ya autenticada vuelve al home.
func (h *AuthHandler) LoginView(c *gin.Context) {
	if sid, store, ok := h.sessions.lookup(c); ok {
		state, err := h.sessions.resolve(c, sid, store)
		if err != nil {
			respondLoading(c)
			return
		}
		if state == domain.SessionAuthenticated {
			c.Redirect(http.StatusSeeOther, homePath)
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"view": "login"})
}

// Login maneja POST /auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid login request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.signInTimeout)
	defer cancel()

	identity, err := h.sessions.signIn(ctx, c, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidCredentials):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		case errors.Is(err, auth.ErrRateLimited):
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many requests", "retryable": true})
		case auth.Retryable(err), errors.Is(err, context.DeadlineExceeded):
			h.logger.Warn("auth backend unavailable", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "authentication service unavailable", "retryable": true})
		default:
			h.logger.Error("login failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not login"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": identity, "redirect": homePath})
}

// Logout maneja POST /auth/logout. Siempre responde 204.
func (h *AuthHandler) Logout(c *gin.Context) {
	h.sessions.end(c)
	c.Status(http.StatusNoContent)
}

// Me maneja GET /auth/me (detras del guard).
func (h *AuthHandler) Me(c *gin.Context) {
	identity, ok := CurrentIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": identity, "state": domain.SessionAuthenticated.String()})
}
