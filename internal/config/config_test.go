package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "s")
	t.Setenv("STORAGE", "sqlite")
	t.Setenv("APP_PORT", "")
	t.Setenv("LEADERBOARD_SIZE", "")
	t.Setenv("SESSION_IDLE_TIMEOUT", "")
	t.Setenv("ADMIN_PLAYER_IDS", "")

	cfg := Load()
	if cfg.AppPort != "8080" || cfg.Storage != StorageSQLite || cfg.LeaderboardSize != 20 {
		t.Fatalf("cfg %+v", cfg)
	}
	if cfg.SessionIdleTimeout != 30*time.Minute {
		t.Fatalf("idle timeout %v", cfg.SessionIdleTimeout)
	}
	if cfg.RecordBotEnabled() {
		t.Fatal("bot enabled without token")
	}
	if len(cfg.AdminPlayerIDs) != 0 {
		t.Fatalf("admins %v", cfg.AdminPlayerIDs)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "s")
	t.Setenv("STORAGE", "SQLite")
	t.Setenv("SNAPSHOT_TTL", "90")
	t.Setenv("GAME_RATE_LIMIT", "5")
	t.Setenv("API_RATE_LIMIT", "-3")
	t.Setenv("RECORD_BOT_TOKEN", "tok")
	t.Setenv("RECORD_CHAT_ID", " -100123 ")
	t.Setenv("GAME_SEED", "99")
	t.Setenv("ADMIN_PLAYER_IDS", "3, 17,x,")

	cfg := Load()
	if cfg.SnapshotTTL != 90*time.Second || cfg.GameRateLimit != 5 || cfg.APIRateLimit != 120 {
		t.Fatalf("cfg %+v", cfg)
	}
	if !cfg.RecordBotEnabled() || cfg.RecordChatID != -100123 || cfg.GameSeed != 99 {
		t.Fatalf("cfg %+v", cfg)
	}
	if len(cfg.AdminPlayerIDs) != 2 || cfg.AdminPlayerIDs[0] != 3 || cfg.AdminPlayerIDs[1] != 17 {
		t.Fatalf("admins %v", cfg.AdminPlayerIDs)
	}
}
