package middleware

import (
	"net/http"

	"minesweeper/internal/logger"

	"github.com/gin-gonic/gin"
)

// AdminOnly lets through players listed in ids. Must run after JWT.
func AdminOnly(ids []int64) gin.HandlerFunc {
	admins := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		admins[id] = struct{}{}
	}

	return func(c *gin.Context) {
		playerID := c.GetInt64(PlayerIDKey)
		if _, ok := admins[playerID]; !ok {
			logger.WithContext(c.Request.Context()).Warn("admin route denied", "path", c.FullPath())
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin only"})
			return
		}
		c.Next()
	}
}
