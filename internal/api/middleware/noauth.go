package middleware

import (
	"github.com/gin-gonic/gin"
)

// AnonymousUserID owns every preset created while AUTH_MODE=none
const AnonymousUserID = "anonymous"

// NoAuth is a pass-through middleware for when AUTH_MODE=none.
// It allows all requests without authentication.
func NoAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", uint(0))
		c.Set("user_id_str", AnonymousUserID)
		c.Next()
	}
}

// UserID returns the string user ID set by NoAuth or GatewayAuth
func UserID(c *gin.Context) string {
	if id, ok := GetUserIDFromGateway(c); ok && id != "" {
		return id
	}
	return AnonymousUserID
}
