package http

import (
	"time"

	"minesweeper/internal/config"
	"minesweeper/internal/http/handlers"
	"minesweeper/internal/http/middleware"
	"minesweeper/internal/repository"
	"minesweeper/internal/service"
	"minesweeper/internal/ws"

	"github.com/gin-gonic/gin"
	redis "github.com/redis/go-redis/v9"
)

// In-process limit for /auth, applied on top of the Redis one.
const (
	authRateLimit  = 10
	authRateWindow = time.Minute
)

// Deps are the wired services the routes dispatch to.
type Deps struct {
	Store       repository.Store
	Redis       *redis.Client
	Players     *service.PlayerService
	Sessions    *service.SessionService
	Leaderboard *service.LeaderboardService
	Hub         *ws.Hub
	Version     string
}

func RegisterRoutes(r *gin.Engine, cfg *config.Config, d Deps) {
	h := handlers.NewHandler(d.Store, d.Players, d.Sessions, d.Leaderboard)
	healthHandler := handlers.NewHealthHandler(d.Store, d.Redis, d.Sessions.ActiveCount, d.Version)

	middleware.InitRedisRateLimiter(d.Redis)

	// Health checks (no rate limiting)
	r.GET("/health", healthHandler.Health)
	r.GET("/healthz", healthHandler.Liveness)
	r.GET("/readyz", healthHandler.Readiness)

	v1 := r.Group("/api/v1")
	v1.Use(middleware.RedisRateLimit(cfg.APIRateLimit, cfg.APIRateWindow))
	registerAPIRoutes(v1, h, cfg)

	r.GET("/ws", ws.HandleWS(d.Hub, cfg.AllowedOrigin))
}

func registerAPIRoutes(api *gin.RouterGroup, h *handlers.Handler, cfg *config.Config) {
	// Auth
	auth := api.Group("/auth")
	auth.Use(middleware.SimpleRateLimit(authRateLimit, authRateWindow))
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
	}

	// Game rate limiter middleware (per player, not per IP)
	gameRL := middleware.GameRateLimit(cfg.GameRateLimit, cfg.GameRateWindow)

	api.GET("/game/difficulties", h.Difficulties)
	g := api.Group("/game")
	g.Use(middleware.JWT())
	{
		g.POST("/start", gameRL, h.StartGame)
		g.POST("/click", gameRL, h.Click)
		g.POST("/flag", gameRL, h.Flag)
		g.POST("/pause", h.Pause)
		g.POST("/resume", h.Resume)
		g.POST("/reset", gameRL, h.Reset)
		g.GET("/state", h.GameState)
	}

	api.GET("/leaderboard", h.GetLeaderboard)
	api.DELETE("/leaderboard", middleware.JWT(), middleware.AdminOnly(cfg.AdminPlayerIDs), h.ClearLeaderboard)

	me := api.Group("/me")
	me.Use(middleware.JWT())
	{
		me.GET("", h.Me)
		me.GET("/stats", h.MyStats)
		me.GET("/games", h.MyGames)
	}
}
