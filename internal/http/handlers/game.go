package handlers

import (
	"context"
	"errors"
	"net/http"

	"minesweeper/internal/game"
	"minesweeper/internal/logger"
	"minesweeper/internal/service"

	"github.com/gin-gonic/gin"
)

type StartRequest struct {
	Difficulty string `json:"difficulty" binding:"required"`
	Rows       int    `json:"rows"`
	Cols       int    `json:"cols"`
	Mines      int    `json:"mines"`
}

type CellRequest struct {
	Row *int `json:"row" binding:"required"`
	Col *int `json:"col" binding:"required"`
}

// Difficulties lists presets and the custom board limits.
func (h *Handler) Difficulties(c *gin.Context) {
	presets := make([]gin.H, 0, 3)
	for _, d := range game.Difficulties() {
		p, _ := game.ParamsFor(d)
		presets = append(presets, gin.H{
			"difficulty": d,
			"rows":       p.Rows,
			"cols":       p.Cols,
			"mines":      p.Mines,
		})
	}
	c.JSON(http.StatusOK, gin.H{
		"presets": presets,
		"custom": gin.H{
			"max_rows": game.MaxRows,
			"max_cols": game.MaxCols,
		},
	})
}

func (h *Handler) StartGame(c *gin.Context) {
	playerID, ok := getPlayerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	var req StartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	d := game.Difficulty(req.Difficulty)
	var params *game.Params
	if d == game.Custom {
		params = &game.Params{Rows: req.Rows, Cols: req.Cols, Mines: req.Mines}
	}
	v, err := h.Sessions.Start(c.Request.Context(), playerID, d, params)
	respondView(c, v, err)
}

func (h *Handler) Click(c *gin.Context) {
	h.cellAction(c, h.Sessions.Click)
}

func (h *Handler) Flag(c *gin.Context) {
	h.cellAction(c, h.Sessions.ToggleFlag)
}

func (h *Handler) cellAction(c *gin.Context, fn func(context.Context, int64, int, int) (game.View, error)) {
	playerID, ok := getPlayerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	var req CellRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "row and col are required"})
		return
	}
	v, err := fn(c.Request.Context(), playerID, *req.Row, *req.Col)
	respondView(c, v, err)
}

func (h *Handler) Pause(c *gin.Context) {
	h.sessionAction(c, h.Sessions.Pause)
}

func (h *Handler) Resume(c *gin.Context) {
	h.sessionAction(c, h.Sessions.Resume)
}

func (h *Handler) Reset(c *gin.Context) {
	h.sessionAction(c, h.Sessions.Reset)
}

func (h *Handler) GameState(c *gin.Context) {
	h.sessionAction(c, h.Sessions.State)
}

func (h *Handler) sessionAction(c *gin.Context, fn func(context.Context, int64) (game.View, error)) {
	playerID, ok := getPlayerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	v, err := fn(c.Request.Context(), playerID)
	respondView(c, v, err)
}

func respondView(c *gin.Context, v game.View, err error) {
	switch {
	case err == nil:
		c.JSON(http.StatusOK, v)
	case errors.Is(err, service.ErrNoSession):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidCell),
		errors.Is(err, game.ErrInvalidDifficulty),
		errors.Is(err, game.ErrInvalidParams):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		logger.WithContext(c.Request.Context()).Error("game action failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
