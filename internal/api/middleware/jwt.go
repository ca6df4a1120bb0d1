package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	bearerPrefix = "Bearer"
)

// Claims identifies the preset owner. Subject wins over UserID when both are set.
type Claims struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// owner returns the string ID presets are stored under
func (c *Claims) owner() string {
	if c.Subject != "" {
		return c.Subject
	}
	if c.UserID != 0 {
		return strconv.FormatUint(uint64(c.UserID), 10)
	}
	return ""
}

// JWTAuth validates HMAC-signed bearer tokens when AUTH_MODE=jwt
func JWTAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var tokenString string

		// Extract token from "Bearer <token>"
		parts := strings.Split(c.GetHeader("Authorization"), " ")
		if len(parts) == 2 && parts[0] == bearerPrefix {
			tokenString = parts[1]
		}

		if tokenString == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization required"})
			c.Abort()
			return
		}

		claims := &Claims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(secret), nil
		})

		if err != nil || !token.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		owner := claims.owner()
		if owner == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Token has no subject"})
			c.Abort()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("user_id_str", owner)
		c.Set("user_email", claims.Email)

		c.Next()
	}
}
