package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"minesweeper/internal/logger"

	"github.com/joho/godotenv"
)

const (
	StoragePostgres = "postgres"
	StorageSQLite   = "sqlite"
)

type Config struct {
	AppPort       string
	Storage       string
	DatabaseURL   string
	SQLitePath    string
	JWTSecret     string
	AllowedOrigin string
	// Players allowed to clear the leaderboard
	AdminPlayerIDs []int64

	LogLevel string
	LogJSON  bool

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Rate limits
	APIRateLimit   int
	APIRateWindow  time.Duration
	GameRateLimit  int
	GameRateWindow time.Duration

	// Game
	LeaderboardSize    int
	SnapshotTTL        time.Duration
	SessionIdleTimeout time.Duration
	// GameSeed > 0 makes board generation reproducible (testing only)
	GameSeed uint64

	// Record bot
	RecordBotToken string
	RecordChatID   int64
}

// Загрузка конфига из env
func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		AppPort:            envString("APP_PORT", "8080"),
		Storage:            strings.ToLower(envString("STORAGE", StoragePostgres)),
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		SQLitePath:         envString("SQLITE_PATH", "minesweeper.db"),
		JWTSecret:          os.Getenv("JWT_SECRET"),
		AllowedOrigin:      os.Getenv("ALLOWED_ORIGIN"),
		LogLevel:           envString("LOG_LEVEL", "info"),
		LogJSON:            os.Getenv("LOG_JSON") == "true",
		RedisAddr:          os.Getenv("REDIS_ADDR"),
		RedisPassword:      os.Getenv("REDIS_PASSWORD"),
		RedisDB:            envInt("REDIS_DB", 0),
		APIRateLimit:       envInt("API_RATE_LIMIT", 120),
		APIRateWindow:      envSeconds("API_RATE_WINDOW", time.Minute),
		GameRateLimit:      envInt("GAME_RATE_LIMIT", 600), // клики считаются действиями
		GameRateWindow:     envSeconds("GAME_RATE_WINDOW", time.Minute),
		LeaderboardSize:    envInt("LEADERBOARD_SIZE", 20),
		SnapshotTTL:        envSeconds("SNAPSHOT_TTL", 24*time.Hour),
		SessionIdleTimeout: envSeconds("SESSION_IDLE_TIMEOUT", 30*time.Minute),
		RecordBotToken:     os.Getenv("RECORD_BOT_TOKEN"),
	}

	if v := os.Getenv("GAME_SEED"); v != "" {
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			cfg.GameSeed = n
		}
	}
	// id админов через запятую
	if v := os.Getenv("ADMIN_PLAYER_IDS"); v != "" {
		for _, idStr := range strings.Split(v, ",") {
			if id, err := strconv.ParseInt(strings.TrimSpace(idStr), 10, 64); err == nil {
				cfg.AdminPlayerIDs = append(cfg.AdminPlayerIDs, id)
			}
		}
	}
	if v := os.Getenv("RECORD_CHAT_ID"); v != "" {
		if n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64); err == nil {
			cfg.RecordChatID = n
		}
	}

	if cfg.JWTSecret == "" {
		logger.Fatal("JWT_SECRET is not set")
	}
	switch cfg.Storage {
	case StoragePostgres:
		if cfg.DatabaseURL == "" {
			logger.Fatal("DATABASE_URL is not set")
		}
	case StorageSQLite:
	default:
		logger.Fatal("unknown STORAGE", "storage", cfg.Storage)
	}

	return cfg
}

// RecordBotEnabled reports whether both bot settings are present.
func (c *Config) RecordBotEnabled() bool {
	return c.RecordBotToken != "" && c.RecordChatID != 0
}

func envString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}

// envSeconds reads a whole number of seconds.
func envSeconds(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return time.Duration(n) * time.Second
		}
	}
	return def
}
