package handlers

import (
	"errors"
	"strings"
	"time"

	"barber-booking-server/internal/middleware"
	"barber-booking-server/internal/models"
	"barber-booking-server/internal/repository"
	"barber-booking-server/internal/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AuthHandler handles authentication-related requests.
type AuthHandler struct {
	Store     repository.Store
	JWTSecret string
	TokenTTL  time.Duration
	Logger    *zap.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(store repository.Store, secret string, ttl time.Duration, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{Store: store, JWTSecret: secret, TokenTTL: ttl, Logger: logger}
}

// LoginRequest represents the request body for admin login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse represents the response body for successful login.
type LoginResponse struct {
	AccessToken string                `json:"accessToken"`
	ExpiresAt   time.Time             `json:"expiresAt"`
	User        models.AdminSanitized `json:"user"`
}

// Login handles admin login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}
	ctx := c.Request.Context()

	admin, err := h.Store.FindAdminByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			utils.Unauthorized(c, "Invalid email or password")
		} else {
			respondError(c, h.Logger, "log in", err)
		}
		return
	}

	if !admin.CheckPassword(req.Password) {
		h.Logger.Warn("failed admin login", zap.String("email", admin.Email))
		utils.Unauthorized(c, "Invalid email or password")
		return
	}

	token, expiresAt, err := utils.GenerateAccessToken(admin, h.JWTSecret, h.TokenTTL)
	if err != nil {
		respondError(c, h.Logger, "generate token", err)
		return
	}

	now := time.Now()
	admin.LastLoginAt = &now
	if err := h.Store.SaveAdmin(ctx, admin); err != nil {
		h.Logger.Warn("could not record admin login", zap.String("id", admin.ID), zap.Error(err))
	}

	utils.Success(c, "Login successful", LoginResponse{
		AccessToken: token,
		ExpiresAt:   expiresAt,
		User:        admin.Sanitize(),
	})
}

// GetProfile handles fetching the currently authenticated admin's profile.
func (h *AuthHandler) GetProfile(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	admin, err := h.Store.GetAdmin(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			utils.NotFound(c, "User profile not found")
		} else {
			respondError(c, h.Logger, "fetch profile", err)
		}
		return
	}

	utils.Success(c, "Profile fetched successfully", admin.Sanitize())
}

// UpdateProfileRequest represents the request body for updating the admin profile.
type UpdateProfileRequest struct {
	DisplayName string `json:"displayName" binding:"max=100"`
	Password    string `json:"password" binding:"omitempty,min=8"`
}

// UpdateProfile changes the authenticated admin's display name or password.
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	var req UpdateProfileRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}
	ctx := c.Request.Context()

	admin, err := h.Store.GetAdmin(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			utils.NotFound(c, "User not found")
		} else {
			respondError(c, h.Logger, "fetch profile", err)
		}
		return
	}

	if req.DisplayName != "" {
		admin.DisplayName = req.DisplayName
	}
	if req.Password != "" {
		if err := admin.SetPassword(req.Password); err != nil {
			respondError(c, h.Logger, "hash password", err)
			return
		}
	}

	if err := h.Store.SaveAdmin(ctx, admin); err != nil {
		respondError(c, h.Logger, "update profile", err)
		return
	}

	utils.Success(c, "Profile updated successfully", admin.Sanitize())
}
