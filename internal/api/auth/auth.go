package auth

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	authMiddleware "github.com/grangou/restaurant-dashboard/internal/middleware"
	authService "github.com/grangou/restaurant-dashboard/internal/service/auth"
)

type AuthHandler struct {
	log    *zap.Logger
	svc    *authService.AuthService
	secret string
}

func NewAuthHandler(log *zap.Logger, svc *authService.AuthService, secret string) *AuthHandler {
	return &AuthHandler{log: log, svc: svc, secret: secret}
}

func (h *AuthHandler) Register(r *gin.Engine) {
	auth := r.Group("/v1/restaurant-auth")
	{
		auth.POST("/login", h.login)
		auth.POST("/logout", h.logout)
		auth.GET("/verify", authMiddleware.RestaurantAuth(h.secret), h.verify)
	}
}

func (h *AuthHandler) login(c *gin.Context) {
	var req authService.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Bad Request", "message": "Email and password are required"})
		return
	}

	resp, err := h.svc.Login(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, authService.ErrMissingCredentials):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Bad Request", "message": "Email and password are required"})
		case errors.Is(err, authService.ErrInvalidCredentials):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized", "message": "Invalid email or password"})
		default:
			h.log.Error("Login failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error", "message": "login failed"})
		}
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *AuthHandler) verify(c *gin.Context) {
	rid, _ := authMiddleware.RestaurantID(c)
	info, err := h.svc.Verify(c.Request.Context(), rid)
	if err != nil {
		if errors.Is(err, authService.ErrPartnerNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized", "message": "User not found"})
			return
		}
		h.log.Error("Verify failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error", "message": "verify failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": info})
}

// Tokens are stateless; the client drops its copy.
func (h *AuthHandler) logout(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Logged out successfully"})
}
