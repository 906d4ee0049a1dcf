package repository

import (
	"context"
	"encoding/json"

	"minesweeper/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type GameHistoryRepository struct {
	db *pgxpool.Pool
}

func NewGameHistoryRepository(db *pgxpool.Pool) *GameHistoryRepository {
	return &GameHistoryRepository{db: db}
}

// CreateHistory сохраняет запись игры в историю
func (r *GameHistoryRepository) CreateHistory(ctx context.Context, gh *domain.GameHistory) error {
	detailsJSON, err := json.Marshal(gh.Details)
	if err != nil || gh.Details == nil {
		detailsJSON = []byte("{}")
	}

	return r.db.QueryRow(ctx,
		`INSERT INTO game_history (player_id, difficulty, result, elapsed_seconds, details)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at`,
		gh.PlayerID,
		gh.Difficulty,
		gh.Result,
		gh.Elapsed,
		detailsJSON,
	).Scan(&gh.ID, &gh.CreatedAt)
}

// ListHistory возвращает последние партии игрока
func (r *GameHistoryRepository) ListHistory(ctx context.Context, playerID int64, limit int) ([]*domain.GameHistory, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := r.db.Query(ctx,
		`SELECT id, player_id, difficulty, result, elapsed_seconds, details, created_at
		 FROM game_history
		 WHERE player_id = $1
		 ORDER BY created_at DESC, id DESC
		 LIMIT $2`,
		playerID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return ScanHistory(rows)
}

// HistoryRows is satisfied by both pgx.Rows and *sql.Rows.
type HistoryRows interface {
	Next() bool
	Scan(dest ...interface{}) error
	Err() error
}

func ScanHistory(rows HistoryRows) ([]*domain.GameHistory, error) {
	var result []*domain.GameHistory

	for rows.Next() {
		var (
			gh          domain.GameHistory
			detailsJSON []byte
		)
		if err := rows.Scan(
			&gh.ID, &gh.PlayerID, &gh.Difficulty, &gh.Result,
			&gh.Elapsed, &detailsJSON, &gh.CreatedAt,
		); err != nil {
			return nil, err
		}
		if len(detailsJSON) > 0 {
			_ = json.Unmarshal(detailsJSON, &gh.Details)
		}
		result = append(result, &gh)
	}

	return result, rows.Err()
}
