// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file implements bearer-token authentication. Token issuance and
// verification live in the services layer; the middleware only extracts the
// Authorization header, delegates verification, and stashes the resulting
// user ID in the Gin context for handlers, logging, and rate limiting.
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// CtxKeyUserID is the Gin context key under which the authenticated user's ID
// is stored. Empty / absent means the request is anonymous.
const CtxKeyUserID = "userID"

// TokenVerifier validates a bearer token and returns the user ID it was
// issued for. services.AuthService satisfies this.
type TokenVerifier interface {
	VerifyToken(token string) (string, error)
}

// UserIDFrom returns the authenticated user ID from the Gin context, or ""
// for anonymous requests.
func UserIDFrom(c *gin.Context) string {
	if v, ok := c.Get(CtxKeyUserID); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// RequireAuth returns middleware that rejects requests without a valid
// "Authorization: Bearer <token>" header. On success the user ID is stored
// under CtxKeyUserID.
func RequireAuth(v TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			abortUnauthorized(c, "missing bearer token")
			return
		}
		uid, err := v.VerifyToken(token)
		if err != nil {
			abortUnauthorized(c, "invalid or expired token")
			return
		}
		c.Set(CtxKeyUserID, uid)
		c.Next()
	}
}

// OptionalAuth resolves the user ID when a valid bearer token is present but
// never rejects the request. Anonymous and invalid-token requests proceed
// with no identity, so public reads can still hydrate my_vote for logged-in
// clients.
func OptionalAuth(v TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, ok := bearerToken(c); ok {
			if uid, err := v.VerifyToken(token); err == nil {
				c.Set(CtxKeyUserID, uid)
			}
		}
		c.Next()
	}
}

func bearerToken(c *gin.Context) (string, bool) {
	h := c.GetHeader("Authorization")
	if h == "" {
		return "", false
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}

func abortUnauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"request_id": c.Writer.Header().Get(requestIDHeader),
		"code":       "unauthorized",
		"message":    msg,
	})
}
