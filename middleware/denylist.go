package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// DenyList answers whether a key (client IP, login email) is temporarily
// blocked. It is owned by the dispatch layer and injected where needed.
type DenyList interface {
	Denied(key string) bool
}

// LoginGuard is an in-memory DenyList fed by failed login attempts. After
// maxFailures consecutive failures a key is denied for banFor.
type LoginGuard struct {
	mu          sync.Mutex
	maxFailures int
	banFor      time.Duration
	failures    map[string]int
	bannedUntil map[string]time.Time
	now         func() time.Time
}

func NewLoginGuard(maxFailures int, banFor time.Duration) *LoginGuard {
	return &LoginGuard{
		maxFailures: maxFailures,
		banFor:      banFor,
		failures:    make(map[string]int),
		bannedUntil: make(map[string]time.Time),
		now:         time.Now,
	}
}

func (g *LoginGuard) Denied(key string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	until, ok := g.bannedUntil[key]
	if !ok {
		return false
	}
	if g.now().Before(until) {
		return true
	}
	delete(g.bannedUntil, key)
	return false
}

// RecordFailure counts a failed attempt and reports whether it caused a ban.
func (g *LoginGuard) RecordFailure(key string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.failures[key]++
	if g.failures[key] < g.maxFailures {
		return false
	}
	delete(g.failures, key)
	g.bannedUntil[key] = g.now().Add(g.banFor)
	return true
}

// Reset forgets the failures of key after a successful attempt.
func (g *LoginGuard) Reset(key string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.failures, key)
}

// ClientIPKey is the deny-list key of the calling address.
func ClientIPKey(c *gin.Context) string {
	return "ip:" + c.ClientIP()
}

// EmailKey is the deny-list key of a login email.
func EmailKey(email string) string {
	return "email:" + email
}

// Deny rejects requests whose key is on the list with 429.
func Deny(list DenyList, key func(*gin.Context) string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if list.Denied(key(c)) {
			AbortTooManyAttempts(c)
			return
		}
		c.Next()
	}
}

func AbortTooManyAttempts(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
		"success": false,
		"code":    "TOO_MANY_ATTEMPTS",
		"message": "Too many attempts. Try again later.",
	})
}
