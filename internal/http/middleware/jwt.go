package middleware

import (
	"net/http"
	"strings"

	"trading_backend/internal/service"

	"github.com/gin-gonic/gin"
)

// JWT authenticates the bot front-end service on internal endpoints. The
// token comes from POST /auth and carries the service name.
func JWT() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			return
		}

		svc, err := service.ParseJWT(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set("service", svc)
		c.Next()
	}
}
