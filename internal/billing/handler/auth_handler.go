package handler

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yaufaniadam/invku/internal/billing/service"
	"github.com/yaufaniadam/invku/internal/middleware"
)

// AuthHandler serves registration, login and logout.
type AuthHandler struct {
	auth *service.AuthService
}

func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Register POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req service.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	result, err := h.auth.Register(c.Request.Context(), &req)
	if err != nil {
		RespondError(c, err)
		return
	}
	Created(c, result)
}

// Login POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req service.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	result, err := h.auth.Login(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			Error(c, 40100, "invalid email or password")
			return
		}
		RespondError(c, err)
		return
	}
	Success(c, result)
}

// Me GET /api/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.auth.Me(c.Request.Context(), GetUserID(c))
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, user)
}

// Logout POST /api/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	claims, exists := c.Get("claims")
	jwtClaims, ok := claims.(*middleware.JWTClaims)
	if !exists || !ok {
		Error(c, 40100, "not authenticated")
		return
	}

	expiresAt := time.Now().Add(time.Hour)
	if jwtClaims.ExpiresAt != nil {
		expiresAt = jwtClaims.ExpiresAt.Time
	}
	if err := h.auth.Logout(c.Request.Context(), jwtClaims.ID, expiresAt); err != nil {
		InternalError(c, err.Error())
		return
	}
	Success(c, nil)
}
