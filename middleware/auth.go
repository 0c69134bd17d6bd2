package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/yourusername/swiftpay-review/lifecycle"
)

// TokenCookie is the HttpOnly cookie carrying the access token.
const TokenCookie = "token"

const principalKey = "principal"

// Claims represents the JWT claims. The subject is the user id.
type Claims struct {
	Role          string `json:"role"`
	AccountNumber string `json:"accountNumber,omitempty"`
	jwt.RegisteredClaims
}

// GenerateToken creates a signed token for the principal
func GenerateToken(p lifecycle.Principal, secret string, expiry time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		Role:          string(p.Role),
		AccountNumber: p.AccountNumber,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.ID,
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseToken validates a token signed with secret and returns its principal.
func ParseToken(tokenString, secret string) (lifecycle.Principal, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil {
		return lifecycle.Principal{}, err
	}
	if !token.Valid || claims.Subject == "" {
		return lifecycle.Principal{}, jwt.ErrTokenInvalidClaims
	}

	return lifecycle.Principal{
		ID:            claims.Subject,
		Role:          lifecycle.Role(claims.Role),
		AccountNumber: claims.AccountNumber,
	}, nil
}

// JwtAuthMiddleware resolves the caller from the token cookie or, failing
// that, the bearer header, and stores the principal in the context.
func JwtAuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractToken(c)
		if tokenString == "" {
			abortUnauthenticated(c, "Authentication is required", "UNAUTHENTICATED")
			return
		}

		principal, err := ParseToken(tokenString, secret)
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				abortUnauthenticated(c, "Token has expired", "EXPIRED_TOKEN")
			} else {
				abortUnauthenticated(c, "Invalid token", "INVALID_TOKEN")
			}
			return
		}

		c.Set(principalKey, principal)
		c.Next()
	}
}

func extractToken(c *gin.Context) string {
	if cookie, err := c.Cookie(TokenCookie); err == nil && cookie != "" {
		return cookie
	}

	parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// SetPrincipal stores p as the request principal.
func SetPrincipal(c *gin.Context, p lifecycle.Principal) {
	c.Set(principalKey, p)
}

// PrincipalFrom returns the principal set by JwtAuthMiddleware.
func PrincipalFrom(c *gin.Context) (lifecycle.Principal, bool) {
	v, ok := c.Get(principalKey)
	if !ok {
		return lifecycle.Principal{}, false
	}
	p, ok := v.(lifecycle.Principal)
	return p, ok
}

// RequireRole checks if the principal has one of the given roles
func RequireRole(roles ...lifecycle.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := PrincipalFrom(c)
		if !ok {
			abortUnauthenticated(c, "Authentication is required", "UNAUTHENTICATED")
			return
		}

		for _, role := range roles {
			if p.Role == role {
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"success": false,
			"code":    lifecycle.CodeForbidden,
			"message": "Forbidden: insufficient role",
		})
	}
}

func abortUnauthenticated(c *gin.Context, message, code string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"code":    code,
		"message": message,
	})
}
