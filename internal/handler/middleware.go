// Package handler exposes the HTTP API via gin. Identity arrives from the
// gateway as X-User-ID / X-User-Role headers; the service never sees raw
// credentials.
package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	ctxUserID   = "user_id"
	ctxUserRole = "user_role"

	// RoleAdmin marks operator requests.
	RoleAdmin = "admin"
)

// UserContext extracts the gateway identity headers and rejects requests
// without a user ID.
func UserContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetHeader("X-User-ID")
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "missing X-User-ID: request must come through the gateway",
			})
			return
		}

		c.Set(ctxUserID, userID)
		c.Set(ctxUserRole, strings.ToLower(c.GetHeader("X-User-Role")))
		c.Next()
	}
}

// RequireAdmin rejects non-admin callers.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(ctxUserRole) != RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": "admin role required",
			})
			return
		}
		c.Next()
	}
}

// userID returns the authenticated caller's ID from the request context.
func userID(c *gin.Context) string {
	return c.GetString(ctxUserID)
}
