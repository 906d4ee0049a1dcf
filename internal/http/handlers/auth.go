package handlers

import (
	"errors"
	"net/http"

	"minesweeper/internal/domain"
	"minesweeper/internal/logger"
	"minesweeper/internal/repository"
	"minesweeper/internal/service"

	"github.com/gin-gonic/gin"
)

type AuthRequest struct {
	Name     string `json:"name" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *Handler) Register(c *gin.Context) {
	var req AuthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	p, err := h.Players.Register(c.Request.Context(), req.Name, req.Password)
	switch {
	case err == nil:
	case errors.Is(err, service.ErrInvalidName), errors.Is(err, service.ErrWeakPassword):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	case errors.Is(err, repository.ErrNameTaken):
		c.JSON(http.StatusConflict, gin.H{"error": "name already taken"})
		return
	default:
		logger.WithContext(c.Request.Context()).Error("register failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create player"})
		return
	}

	h.respondWithToken(c, http.StatusCreated, p)
}

func (h *Handler) Login(c *gin.Context) {
	var req AuthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	p, err := h.Players.Login(c.Request.Context(), req.Name, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		logger.WithContext(c.Request.Context()).Error("login failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
		return
	}

	h.respondWithToken(c, http.StatusOK, p)
}

func (h *Handler) respondWithToken(c *gin.Context, status int, p *domain.Player) {
	token, err := service.GenerateJWT(p.ID, p.Name)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token generation failed"})
		return
	}
	c.JSON(status, gin.H{
		"token":  token,
		"player": p,
	})
}
