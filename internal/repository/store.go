package repository

import (
	"context"
	"errors"

	"minesweeper/internal/domain"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrNameTaken = errors.New("player name already taken")
)

type PlayerStore interface {
	CreatePlayer(ctx context.Context, p *domain.Player) error
	GetPlayerByName(ctx context.Context, name string) (*domain.Player, error)
	GetPlayerByID(ctx context.Context, id int64) (*domain.Player, error)
}

// LeaderboardStore keeps the best times per difficulty. AddEntry trims the
// difficulty to keep entries and returns the new entry's 1-based rank, or 0
// when it did not make the cut.
type LeaderboardStore interface {
	AddEntry(ctx context.Context, e *domain.LeaderboardEntry, keep int) (int, error)
	ListEntries(ctx context.Context, f domain.LeaderboardFilter) ([]*domain.LeaderboardEntry, error)
	ClearEntries(ctx context.Context, difficulty string) (int64, error)
}

type StatsStore interface {
	RecordResult(ctx context.Context, playerID int64, result domain.GameResult, elapsed int) (*domain.PlayerStats, error)
	GetStats(ctx context.Context, playerID int64) (*domain.PlayerStats, error)
}

type HistoryStore interface {
	CreateHistory(ctx context.Context, gh *domain.GameHistory) error
	ListHistory(ctx context.Context, playerID int64, limit int) ([]*domain.GameHistory, error)
}

// Store is everything the server persists. Postgres and SQLite both
// implement it.
type Store interface {
	PlayerStore
	LeaderboardStore
	StatsStore
	HistoryStore
	Ping(ctx context.Context) error
	Close()
}

// StatsDelta returns the per-column increments for one finished game.
func StatsDelta(result domain.GameResult, elapsed int) (wins, losses, best int) {
	if result == domain.GameResultWin {
		return 1, 0, elapsed
	}
	return 0, 1, 0
}

// UpsertStatsSQL is shared by both backends; both dialects accept
// ON CONFLICT. Placeholders are filled in with fmt. best_time is only
// meaningful once wins > 0, so a 0 second win is a valid best.
const UpsertStatsSQL = `
INSERT INTO player_stats (player_id, wins, losses, best_time, total_games)
VALUES (%[1]s, %[2]s, %[3]s, %[4]s, 1)
ON CONFLICT (player_id) DO UPDATE SET
	wins = player_stats.wins + excluded.wins,
	losses = player_stats.losses + excluded.losses,
	best_time = CASE
		WHEN excluded.wins = 0 THEN player_stats.best_time
		WHEN player_stats.wins = 0 OR excluded.best_time < player_stats.best_time THEN excluded.best_time
		ELSE player_stats.best_time
	END,
	total_games = player_stats.total_games + 1,
	updated_at = CURRENT_TIMESTAMP`

// LeaderboardOrder returns the ORDER BY clause for f. Only whitelisted
// columns are ever interpolated.
func LeaderboardOrder(f domain.LeaderboardFilter) string {
	dir := "ASC"
	if f.Direction == domain.SortDesc {
		dir = "DESC"
	}
	if f.SortBy == domain.SortByDate {
		return "created_at " + dir + ", id " + dir
	}
	return "time_seconds " + dir + ", created_at " + dir + ", id " + dir
}

// NormalizeDifficulty maps the "all" spellings to the empty filter.
func NormalizeDifficulty(d string) string {
	if d == "all" {
		return ""
	}
	return d
}
