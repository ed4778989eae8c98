package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/DJIMIGA/bolibanastock/internal/middleware"
	"github.com/DJIMIGA/bolibanastock/internal/service"
	"github.com/DJIMIGA/bolibanastock/internal/utils"
)

type AuthHandler struct {
	authService *service.AuthService
	rateLimiter *middleware.InvalidAuthRateLimiter
}

func NewAuthHandler(authService *service.AuthService, rateLimiter *middleware.InvalidAuthRateLimiter) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		rateLimiter: rateLimiter,
	}
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login authenticates a user and returns a signed token.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "email and password are required")
		return
	}

	if h.rateLimiter != nil && h.rateLimiter.IsBlocked(c.ClientIP()) {
		utils.Error(c, http.StatusTooManyRequests, "TOO_MANY_ATTEMPTS", "too many failed login attempts, try again later")
		return
	}

	token, user, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, utils.ErrInvalidCredential):
			if h.rateLimiter != nil {
				h.rateLimiter.RecordFailure(c.ClientIP())
			}
			utils.Error(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "invalid email or password")
		case errors.Is(err, utils.ErrAccountInactive):
			utils.Error(c, http.StatusForbidden, "ACCOUNT_INACTIVE", "this account has been deactivated")
		default:
			log.Error().Err(err).Str("email", req.Email).Msg("login failed")
			utils.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to authenticate")
		}
		return
	}

	if h.rateLimiter != nil {
		h.rateLimiter.Reset(c.ClientIP())
	}

	utils.Success(c, http.StatusOK, "login successful", gin.H{
		"token": token,
		"user":  user,
	})
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=8"`
}

// ChangePassword rotates the authenticated user's password.
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "currentPassword and newPassword (min 8 chars) are required")
		return
	}

	userID := c.GetInt("user_id")
	if err := h.authService.ChangePassword(userID, req.CurrentPassword, req.NewPassword); err != nil {
		if errors.Is(err, utils.ErrInvalidCredential) {
			utils.Error(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "current password is incorrect")
			return
		}
		log.Error().Err(err).Int("user_id", userID).Msg("password change failed")
		utils.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to change password")
		return
	}

	utils.Success(c, http.StatusOK, "password changed", nil)
}

// Me returns the profile of the authenticated user.
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.authService.GetUser(c.GetInt("user_id"))
	if err != nil {
		utils.Error(c, http.StatusNotFound, "USER_NOT_FOUND", "user not found")
		return
	}
	utils.Success(c, http.StatusOK, "user profile", user)
}
