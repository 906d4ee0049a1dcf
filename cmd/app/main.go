package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"minesweeper/internal/bot"
	"minesweeper/internal/cache"
	"minesweeper/internal/config"
	"minesweeper/internal/db"
	"minesweeper/internal/game"
	httpServer "minesweeper/internal/http"
	"minesweeper/internal/http/middleware"
	"minesweeper/internal/logger"
	"minesweeper/internal/service"
	"minesweeper/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var version = "dev"

func main() {
	cfg := config.Load()
	logger.Init(cfg.LogLevel, cfg.LogJSON)
	service.InitJWT(cfg.JWTSecret)

	store := db.OpenStore(cfg)
	defer store.Close()

	rdb := cache.Connect(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if rdb != nil {
		defer rdb.Close()
	}

	factory := game.NewFactory(game.SystemClock{})
	if cfg.GameSeed > 0 {
		logger.Warn("deterministic boards enabled", "seed", cfg.GameSeed)
		factory = game.NewSeededFactory(game.SystemClock{}, cfg.GameSeed)
	}

	var snapshots service.SnapshotStore
	if rdb != nil {
		snapshots = service.NewRedisSnapshotStore(rdb, cfg.SnapshotTTL)
	}

	lb := service.NewLeaderboardService(store, cfg.LeaderboardSize)
	sessions := service.NewSessionService(factory, store, lb, snapshots, cfg.SessionIdleTimeout)
	hub := ws.NewHub(sessions)
	sessions.SetNotifier(hub)
	sessions.StartCleanup()

	var recordBot *bot.RecordBot
	if cfg.RecordBotEnabled() {
		b, err := bot.NewRecordBot(cfg.RecordBotToken, lb, cfg.RecordChatID)
		if err != nil {
			logger.Error("record bot disabled", "error", err)
		} else {
			recordBot = b
			lb.OnRecord(recordBot.OnRecord)
			go recordBot.Start()
		}
	}

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLog())

	// CORS for production (frontend on different domain)
	r.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" && (cfg.AllowedOrigin == "" || origin == cfg.AllowedOrigin) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
			c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		}
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	httpServer.RegisterRoutes(r, cfg, httpServer.Deps{
		Store:       store,
		Redis:       rdb,
		Players:     service.NewPlayerService(store),
		Sessions:    sessions,
		Leaderboard: lb,
		Hub:         hub,
		Version:     version,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server started", "port", cfg.AppPort, "storage", cfg.Storage, "version", version)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("listen failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}
	if recordBot != nil {
		recordBot.Stop()
	}
	sessions.Close()

	logger.Info("server exited")
}
