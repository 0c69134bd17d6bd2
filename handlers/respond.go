package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yourusername/swiftpay-review/lifecycle"
	"github.com/yourusername/swiftpay-review/middleware"
	"go.uber.org/zap"
)

func statusFor(e *lifecycle.Error) int {
	switch {
	case errors.Is(e.Kind, lifecycle.ErrValidation), errors.Is(e.Kind, lifecycle.ErrStateConflict):
		return http.StatusBadRequest
	case errors.Is(e.Kind, lifecycle.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(e.Kind, lifecycle.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes err as {success:false, code, message, field?, errors?}.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	e, ok := lifecycle.AsError(err)
	if !ok {
		logger.Error("unhandled error", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"code":    lifecycle.CodeServerError,
			"message": "An unexpected error occurred",
		})
		return
	}

	body := gin.H{
		"success": false,
		"code":    e.Code,
		"message": e.Message,
	}
	if e.Field != "" {
		body["field"] = e.Field
	}
	if len(e.Details) > 0 {
		body["errorCount"] = len(e.Details)
		body["errors"] = e.Details
	}
	c.JSON(statusFor(e), body)
}

func respondMalformed(c *gin.Context, code, field string, err error) {
	body := gin.H{
		"success": false,
		"code":    code,
		"message": "Malformed request: " + err.Error(),
	}
	if field != "" {
		body["field"] = field
	}
	c.JSON(http.StatusBadRequest, body)
}

// principal returns the authenticated caller or aborts with 401.
func principal(c *gin.Context) (lifecycle.Principal, bool) {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"code":    "UNAUTHENTICATED",
			"message": "Authentication is required",
		})
	}
	return p, ok
}
