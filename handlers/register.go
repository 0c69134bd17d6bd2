package handlers

import (
	"context"
	"errors"
	"net/http"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/yourusername/swiftpay-review/lifecycle"
	"github.com/yourusername/swiftpay-review/models"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Registration error codes.
const (
	CodeEmailExists         = "EMAIL_EXISTS"
	CodeAccountNumberExists = "ACCOUNT_NUMBER_EXISTS"
	CodeIDNumberExists      = "ID_NUMBER_EXISTS"
	CodeInvalidName         = "INVALID_NAME"
	CodeInvalidAccount      = "INVALID_ACCOUNT_NUMBER"
	CodeInvalidIDNumber     = "INVALID_ID_NUMBER"
	CodeWeakPassword        = "WEAK_PASSWORD"
)

var (
	nameRe     = regexp.MustCompile(`^[A-Za-z\s'-]{2,50}$`)
	accountRe  = regexp.MustCompile(`^[0-9]{10,12}$`)
	idNumberRe = regexp.MustCompile(`^[0-9]{13}$`)
	passwordRe = regexp.MustCompile(`^[A-Za-z0-9@$!%*#?&]{8,72}$`)
	letterRe   = regexp.MustCompile(`[A-Za-z]`)
	digitRe    = regexp.MustCompile(`[0-9]`)
)

// RegisterRequest is the self-service customer sign-up body. Any role the
// caller sends is ignored.
type RegisterRequest struct {
	Email         string `json:"email" binding:"required,email"`
	FirstName     string `json:"firstName" binding:"required"`
	LastName      string `json:"lastName" binding:"required"`
	Password      string `json:"password" binding:"required"`
	AccountNumber string `json:"accountNumber" binding:"required"`
	IDNumber      string `json:"idNumber" binding:"required"`
}

func (r *RegisterRequest) normalize() {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)
	r.AccountNumber = strings.TrimSpace(r.AccountNumber)
	r.IDNumber = strings.TrimSpace(r.IDNumber)
}

// check returns the first field that breaks the sign-up rules.
func (r RegisterRequest) check() *lifecycle.Error {
	invalid := func(code, field, message string) *lifecycle.Error {
		return &lifecycle.Error{Kind: lifecycle.ErrValidation, Code: code, Field: field, Message: message}
	}
	switch {
	case !nameRe.MatchString(r.FirstName):
		return invalid(CodeInvalidName, "firstName", "First name can only contain letters, spaces, hyphens, and apostrophes")
	case !nameRe.MatchString(r.LastName):
		return invalid(CodeInvalidName, "lastName", "Last name can only contain letters, spaces, hyphens, and apostrophes")
	case !accountRe.MatchString(r.AccountNumber):
		return invalid(CodeInvalidAccount, "accountNumber", "Account number must be exactly 10-12 digits")
	case !idNumberRe.MatchString(r.IDNumber) || !luhnValid(r.IDNumber):
		return invalid(CodeInvalidIDNumber, "idNumber", "ID number must be a valid 13 digit identity number")
	case !passwordRe.MatchString(r.Password) || !letterRe.MatchString(r.Password) || !digitRe.MatchString(r.Password):
		return invalid(CodeWeakPassword, "password", "Password must be at least 8 characters and contain both letters and numbers")
	}
	return nil
}

// luhnValid reports whether the digit string carries a valid Luhn check digit.
func luhnValid(digits string) bool {
	sum := 0
	double := false
	for i := len(digits) - 1; i >= 0; i-- {
		d := int(digits[i] - '0')
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	return sum%10 == 0
}

// Register creates a customer account and signs the new customer in.
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "code": lifecycle.CodeValidation, "message": "Invalid input"})
		return
	}
	req.normalize()
	if e := req.check(); e != nil {
		respondError(c, h.Logger, e)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		h.Logger.Error("hash password failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "code": lifecycle.CodeServerError, "message": "Registration failed"})
		return
	}

	user := models.User{
		ID:            uuid.New().String(),
		Email:         req.Email,
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		AccountNumber: &req.AccountNumber,
		IDNumber:      &req.IDNumber,
		PasswordHash:  string(hash),
		Role:          string(lifecycle.RoleCustomer),
		IsActive:      true,
	}
	ctx := c.Request.Context()
	if err := h.DB.WithContext(ctx).Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			respondError(c, h.Logger, h.conflictOf(ctx, user, err))
			return
		}
		h.Logger.Error("create user failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "code": lifecycle.CodeServerError, "message": "Registration failed"})
		return
	}

	h.Logger.Info("customer registered", zap.String("user_id", user.ID))
	h.issueTokens(c, http.StatusCreated, user)
}

// conflictOf names the unique column a rejected insert collided with.
func (h *AuthHandler) conflictOf(ctx context.Context, u models.User, cause error) *lifecycle.Error {
	checks := []struct {
		column, field, code, message string
		value                        any
	}{
		{"email", "email", CodeEmailExists, "Email is already registered", u.Email},
		{"account_number", "accountNumber", CodeAccountNumberExists, "Account number is already registered", *u.AccountNumber},
		{"id_number", "idNumber", CodeIDNumberExists, "ID number is already registered", *u.IDNumber},
	}
	for _, chk := range checks {
		var n int64
		if err := h.DB.WithContext(ctx).Model(&models.User{}).Where(chk.column+" = ?", chk.value).Count(&n).Error; err != nil {
			h.Logger.Error("look up duplicate user failed", zap.Error(err))
			break
		}
		if n > 0 {
			return &lifecycle.Error{Kind: lifecycle.ErrValidation, Code: chk.code, Field: chk.field, Message: chk.message}
		}
	}
	return &lifecycle.Error{Kind: lifecycle.ErrStore, Code: lifecycle.CodeServerError, Message: "Registration failed", Err: cause}
}
