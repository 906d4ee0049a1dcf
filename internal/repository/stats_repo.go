package repository

import (
	"context"
	"errors"
	"fmt"

	"minesweeper/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type StatsRepository struct {
	db *pgxpool.Pool
}

func NewStatsRepository(db *pgxpool.Pool) *StatsRepository {
	return &StatsRepository{db: db}
}

var pgUpsertStats = fmt.Sprintf(UpsertStatsSQL, "$1", "$2", "$3", "$4") +
	` RETURNING player_id, wins, losses, best_time, total_games, updated_at`

// RecordResult атомарно обновляет статистику после партии
func (r *StatsRepository) RecordResult(ctx context.Context, playerID int64, result domain.GameResult, elapsed int) (*domain.PlayerStats, error) {
	wins, losses, best := StatsDelta(result, elapsed)
	var s domain.PlayerStats
	err := r.db.QueryRow(ctx, pgUpsertStats, playerID, wins, losses, best).
		Scan(&s.PlayerID, &s.Wins, &s.Losses, &s.BestTime, &s.TotalGames, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// GetStats returns zeroed stats for a player who has not finished a game.
func (r *StatsRepository) GetStats(ctx context.Context, playerID int64) (*domain.PlayerStats, error) {
	s := domain.PlayerStats{PlayerID: playerID}
	err := r.db.QueryRow(ctx,
		`SELECT wins, losses, best_time, total_games, updated_at
		 FROM player_stats WHERE player_id = $1`,
		playerID,
	).Scan(&s.Wins, &s.Losses, &s.BestTime, &s.TotalGames, &s.UpdatedAt)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}
	return &s, nil
}
