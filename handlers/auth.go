package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yourusername/swiftpay-review/config"
	"github.com/yourusername/swiftpay-review/lifecycle"
	"github.com/yourusername/swiftpay-review/middleware"
	"github.com/yourusername/swiftpay-review/models"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthHandler struct {
	DB     *gorm.DB
	Cfg    *config.Config
	Guard  *middleware.LoginGuard
	Logger *zap.Logger
}

func NewAuthHandler(db *gorm.DB, cfg *config.Config, guard *middleware.LoginGuard, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		DB:     db,
		Cfg:    cfg,
		Guard:  guard,
		Logger: logger,
	}
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RefreshToken request body
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

func principalOf(u models.User) lifecycle.Principal {
	p := lifecycle.Principal{ID: u.ID, Role: lifecycle.Role(u.Role)}
	if u.AccountNumber != nil {
		p.AccountNumber = *u.AccountNumber
	}
	return p
}

// Login checks the credentials and issues an access and a refresh token.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "code": lifecycle.CodeValidation, "message": "Invalid input"})
		return
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if h.Guard.Denied(middleware.EmailKey(email)) {
		middleware.AbortTooManyAttempts(c)
		return
	}

	var user models.User
	err := h.DB.WithContext(c.Request.Context()).Where("email = ?", email).Take(&user).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		h.Logger.Error("load user failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "code": lifecycle.CodeServerError, "message": "Unable to log in"})
		return
	}
	if err != nil || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		h.recordFailure(c, email)
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "code": "INVALID_CREDENTIALS", "message": "Invalid credentials"})
		return
	}

	if !user.IsActive {
		c.JSON(http.StatusForbidden, gin.H{"success": false, "code": lifecycle.CodeForbidden, "message": "User account is inactive"})
		return
	}

	h.Guard.Reset(middleware.EmailKey(email))
	h.Guard.Reset(middleware.ClientIPKey(c))
	h.issueTokens(c, http.StatusOK, user)
}

func (h *AuthHandler) recordFailure(c *gin.Context, email string) {
	bannedEmail := h.Guard.RecordFailure(middleware.EmailKey(email))
	bannedIP := h.Guard.RecordFailure(middleware.ClientIPKey(c))
	if bannedEmail || bannedIP {
		h.Logger.Warn("login temporarily blocked",
			zap.String("email", email),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

// Refresh handles token refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "code": lifecycle.CodeValidation, "message": err.Error()})
		return
	}

	claimed, err := middleware.ParseToken(req.RefreshToken, h.Cfg.JWTRefreshSecret)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "code": "INVALID_TOKEN", "message": "Invalid or expired refresh token"})
		return
	}

	// Fetch user from DB to ensure they still exist and are active
	var user models.User
	if err := h.DB.WithContext(c.Request.Context()).Where("id = ?", claimed.ID).Take(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "code": "UNAUTHENTICATED", "message": "User not found"})
		return
	}

	if !user.IsActive {
		c.JSON(http.StatusForbidden, gin.H{"success": false, "code": lifecycle.CodeForbidden, "message": "User account is inactive"})
		return
	}

	h.issueTokens(c, http.StatusOK, user)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	h.setTokenCookie(c, "", -time.Second)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Logged out successfully"})
}

func (h *AuthHandler) issueTokens(c *gin.Context, status int, user models.User) {
	p := principalOf(user)

	accessToken, err := middleware.GenerateToken(p, h.Cfg.JWTSecret, h.Cfg.AccessTokenTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "code": lifecycle.CodeServerError, "message": "Failed to generate access token"})
		return
	}

	refreshToken, err := middleware.GenerateToken(p, h.Cfg.JWTRefreshSecret, h.Cfg.RefreshTokenTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "code": lifecycle.CodeServerError, "message": "Failed to generate refresh token"})
		return
	}

	h.setTokenCookie(c, accessToken, h.Cfg.AccessTokenTTL)
	c.JSON(status, gin.H{
		"success":       true,
		"user":          gin.H{"id": user.ID, "email": user.Email, "role": user.Role},
		"access_token":  accessToken,
		"refresh_token": refreshToken,
	})
}

func (h *AuthHandler) setTokenCookie(c *gin.Context, value string, ttl time.Duration) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(middleware.TokenCookie, value, int(ttl.Seconds()), "/", "", h.Cfg.IsProduction(), true)
}
