package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/juiceworks/storefront/internal/auth"
)

// TokenVerifier checks a bearer token and returns its claims.
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

// identityKey is the gin context key holding the authenticated email.
const identityKey = "identityEmail"

// RequireAuth extracts and verifies the Bearer token, storing the caller's
// email in the request context. Requests without a valid token are rejected
// with 401 before reaching the handler.
func RequireAuth(tokens TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		raw = strings.TrimSpace(raw)
		if !ok || raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "authorization token required"})
			return
		}

		claims, err := tokens.Verify(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "invalid or expired token"})
			return
		}

		c.Set(identityKey, claims.Email)
		c.Next()
	}
}

// identity returns the authenticated email set by RequireAuth.
func identity(c *gin.Context) string {
	return c.GetString(identityKey)
}
