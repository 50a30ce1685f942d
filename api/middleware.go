package api

import (
	"net/http"
	"strings"

	"github.com/alfredjmgdev/darien-technology-test/internal/auth"
	"github.com/gin-gonic/gin"
)

const userEmailKey = "userEmail"

type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

// AuthMiddleware verifies the Authorization bearer token and stores the
// authenticated email in the gin context for downstream handlers.
func AuthMiddleware(tokens TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing authorization header"})
			return
		}

		tokenString := strings.TrimPrefix(header, "Bearer ")
		if tokenString == header {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header format"})
			return
		}

		claims, err := tokens.Verify(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set(userEmailKey, claims.Email)
		c.Next()
	}
}

// CORSMiddleware mirrors the permissive policy the frontend expects.
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Authorization, Content-Type")
		c.Header("Access-Control-Allow-Credentials", "true")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

func authedEmail(c *gin.Context) string {
	return c.GetString(userEmailKey)
}
