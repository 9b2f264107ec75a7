package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"aideo-backend/internal/shared/auth"
	"aideo-backend/internal/shared/server/respond"
)

const userIDKey = "userId"

// SubjectResolver reports whether a token subject names a known user.
type SubjectResolver interface {
	Exists(ctx context.Context, userID string) (bool, error)
}

// Auth validates the bearer token, resolves its subject against the user
// store, and places the caller identity in the request context. The error
// message never distinguishes between the failure modes.
func Auth(tokens *auth.Tokens, resolver SubjectResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
			return
		}

		token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer"))
		if token == "" {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
			return
		}

		subject, err := tokens.Verify(token)
		if err != nil {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
			return
		}

		known, err := resolver.Exists(c.Request.Context(), subject)
		if err != nil {
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to resolve identity", nil)
			return
		}
		if !known {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
			return
		}

		c.Set(userIDKey, subject)
		c.Next()
	}
}

// UserIDFromContext fetches the user ID set by the auth middleware.
func UserIDFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	val, _ := c.Get(userIDKey)
	if id, ok := val.(string); ok {
		return id
	}
	return ""
}
