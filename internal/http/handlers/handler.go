package handlers

import (
	"minesweeper/internal/http/middleware"
	"minesweeper/internal/repository"
	"minesweeper/internal/service"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	Store       repository.Store
	Players     *service.PlayerService
	Sessions    *service.SessionService
	Leaderboard *service.LeaderboardService
}

func NewHandler(store repository.Store, players *service.PlayerService, sessions *service.SessionService, lb *service.LeaderboardService) *Handler {
	return &Handler{
		Store:       store,
		Players:     players,
		Sessions:    sessions,
		Leaderboard: lb,
	}
}

// getPlayerID извлекает player_id из контекста Gin
func getPlayerID(c *gin.Context) (int64, bool) {
	id := c.GetInt64(middleware.PlayerIDKey)
	return id, id != 0
}
