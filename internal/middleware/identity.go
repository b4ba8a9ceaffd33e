package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/wendydelivery/wendy-courier/pkg/utils"
)

// IdentityMiddleware attributes a courier id from a Bearer token when one is
// present. The API is currently unauthenticated; the token is an extension
// point, so a missing or invalid token never rejects the request.
func IdentityMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		var tokenString string

		// First try to get token from Authorization header
		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			parts := strings.Split(authHeader, " ")
			if len(parts) == 2 && parts[0] == "Bearer" {
				tokenString = parts[1]
			}
		}

		// If not found in header, try query parameter (for WebSocket)
		if tokenString == "" {
			tokenString = c.Query("token")
		}

		if tokenString != "" {
			token, err := utils.ValidateToken(tokenString)
			if err == nil && token.Valid {
				if claims, ok := token.Claims.(jwt.MapClaims); ok {
					if id, ok := claims["id"].(float64); ok {
						c.Set("userId", uint(id))
					}
				}
			}
		}

		c.Next()
	}
}
