package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"minesweeper/internal/domain"
	"minesweeper/internal/game"
	"minesweeper/internal/logger"

	"github.com/gin-gonic/gin"
)

// GetLeaderboard: ?difficulty=&limit=&sort_by=time|date&sort_dir=asc|desc
func (h *Handler) GetLeaderboard(c *gin.Context) {
	f := domain.DefaultLeaderboardFilter()
	f.Difficulty = c.Query("difficulty")
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		f.Limit = n
	}
	if v := c.Query("sort_by"); v != "" {
		f.SortBy = domain.SortField(v)
	}
	if v := c.Query("sort_dir"); v != "" {
		f.Direction = domain.SortDirection(v)
	}

	entries, err := h.Leaderboard.List(c.Request.Context(), f)
	if err != nil {
		if errors.Is(err, game.ErrInvalidDifficulty) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.WithContext(c.Request.Context()).Error("list leaderboard failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get leaderboard"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"leaderboard": entries})
}

// ClearLeaderboard drops one difficulty, or every one when difficulty is
// empty or "all".
func (h *Handler) ClearLeaderboard(c *gin.Context) {
	difficulty := c.Query("difficulty")
	n, err := h.Leaderboard.Clear(c.Request.Context(), difficulty)
	if err != nil {
		if errors.Is(err, game.ErrInvalidDifficulty) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.WithContext(c.Request.Context()).Error("clear leaderboard failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to clear leaderboard"})
		return
	}

	logger.WithContext(c.Request.Context()).Info("leaderboard cleared", "difficulty", difficulty, "removed", n)
	c.JSON(http.StatusOK, gin.H{"removed": n})
}
