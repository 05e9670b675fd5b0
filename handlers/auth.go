// Package handlers exposes the HTTP surface of the backend.
package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/sihmcb/backend/auth"
	"github.com/sihmcb/backend/models"
	"github.com/sihmcb/backend/services"
)

// contextUserKey is where AuthMiddleware stores the resolved user.
const contextUserKey = "currentUser"

// AuthHandler bundles the auth endpoints with their dependencies.
type AuthHandler struct {
	Auth  *auth.Service
	Audit *services.AuditPublisher
}

// NewAuthHandler wires the auth endpoints to the service and audit bus.
// audit may be nil when auditing is disabled.
func NewAuthHandler(service *auth.Service, audit *services.AuditPublisher) *AuthHandler {
	return &AuthHandler{Auth: service, Audit: audit}
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request body"})
		return
	}

	result, err := h.Auth.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			h.Audit.Publish(services.AuthEvent{Type: "login_failed", Username: req.Username, RemoteAddr: c.ClientIP()})
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid username or password"})
			return
		}
		log.Printf("❌ Login failed for store reasons: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Service temporarily unavailable"})
		return
	}

	h.Audit.Publish(services.AuthEvent{Type: "login", Username: result.User.Username, RemoteAddr: c.ClientIP()})
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Login successful",
		"token":   result.Token,
		"user":    result.User,
	})
}

// Logout handles POST /api/auth/logout. Tokens are stateless, so there is
// nothing to revoke server-side; the endpoint acknowledges unconditionally,
// even for an absent or invalid token.
func (h *AuthHandler) Logout(c *gin.Context) {
	message := "Logged out successfully"
	if token := bearerToken(c); token != "" {
		if user, err := h.Auth.ResolveToken(c.Request.Context(), token); err == nil {
			message = "User " + user.Username + " logged out successfully"
			h.Audit.Publish(services.AuthEvent{Type: "logout", Username: user.Username, RemoteAddr: c.ClientIP()})
		}
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": message})
}

// Me handles GET /api/auth/me. AuthMiddleware must run first.
func (h *AuthHandler) Me(c *gin.Context) {
	user, ok := CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Not authenticated"})
		return
	}
	c.JSON(http.StatusOK, user)
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request body"})
		return
	}

	id, err := h.Auth.Register(c.Request.Context(), auth.RegisterInput{
		Username: req.Username,
		Password: req.Password,
		Email:    req.Email,
		Role:     req.Role,
	})
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrAlreadyExists):
			c.JSON(http.StatusConflict, gin.H{"success": false, "message": "Username already exists"})
		case errors.Is(err, auth.ErrInvalidInput):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		default:
			log.Printf("❌ Registration failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to register user"})
		}
		return
	}

	h.Audit.Publish(services.AuthEvent{Type: "register", Username: req.Username, RemoteAddr: c.ClientIP()})
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "User registered successfully",
		"user_id": id,
	})
}

// AuthMiddleware protects routes with bearer-token authentication. The
// resolved public user projection is stored in the request context.
func (h *AuthHandler) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Authorization header required"})
			return
		}

		user, err := h.Auth.ResolveToken(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, auth.ErrStoreUnavailable) {
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Service temporarily unavailable"})
				return
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid or expired token"})
			return
		}

		c.Set(contextUserKey, user)
		c.Next()
	}
}

// RequireRole aborts with 403 unless the authenticated user has the role.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok || user.Role != role {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"success": false, "message": "Insufficient permissions"})
			return
		}
		c.Next()
	}
}

// CurrentUser returns the user stored by AuthMiddleware.
func CurrentUser(c *gin.Context) (*models.PublicUser, bool) {
	v, ok := c.Get(contextUserKey)
	if !ok {
		return nil, false
	}
	user, ok := v.(*models.PublicUser)
	return user, ok
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
