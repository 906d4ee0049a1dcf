package middleware

import (
	"net/http"
	"strings"

	"minesweeper/internal/logger"
	"minesweeper/internal/service"

	"github.com/gin-gonic/gin"
)

// Context keys set by JWT.
const (
	PlayerIDKey   = "player_id"
	PlayerNameKey = "player_name"
)

// JWT requires "Authorization: Bearer <token>".
func JWT() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			return
		}

		claims, err := service.ParseJWT(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set(PlayerIDKey, claims.PlayerID)
		c.Set(PlayerNameKey, claims.Name)
		c.Request = c.Request.WithContext(logger.NewContext(c.Request.Context(), "player_id", claims.PlayerID))
		c.Next()
	}
}
