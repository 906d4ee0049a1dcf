package repository

import (
	"context"
	"fmt"
	"time"

	"minesweeper/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type LeaderboardRepository struct {
	db *pgxpool.Pool
}

func NewLeaderboardRepository(db *pgxpool.Pool) *LeaderboardRepository {
	return &LeaderboardRepository{db: db}
}

// AddEntry вставляет рекорд и обрезает таблицу сложности до keep записей
func (r *LeaderboardRepository) AddEntry(ctx context.Context, e *domain.LeaderboardEntry, keep int) (int, error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Date.IsZero() {
		e.Date = time.Now()
	}
	if keep <= 0 {
		keep = domain.DefaultLeaderboardSize
	}

	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// serialize writers per difficulty so trimming sees a stable table
	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, e.Difficulty); err != nil {
		return 0, err
	}

	if _, err := tx.Exec(ctx,
		`INSERT INTO leaderboard (id, player_id, player_name, difficulty, time_seconds, mines, created_at)
		 VALUES ($1, NULLIF($2, 0), $3, $4, $5, $6, $7)`,
		e.ID, e.PlayerID, e.PlayerName, e.Difficulty, e.Time, e.Mines, e.Date,
	); err != nil {
		return 0, err
	}

	rows, err := tx.Query(ctx,
		`SELECT id FROM leaderboard
		 WHERE difficulty = $1
		 ORDER BY time_seconds ASC, created_at ASC, id ASC`,
		e.Difficulty,
	)
	if err != nil {
		return 0, err
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return 0, err
	}

	rank := 0
	for i, id := range ids {
		if id == e.ID && i < keep {
			rank = i + 1
		}
	}
	if len(ids) > keep {
		if _, err := tx.Exec(ctx, `DELETE FROM leaderboard WHERE id = ANY($1)`, ids[keep:]); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return rank, nil
}

func (r *LeaderboardRepository) ListEntries(ctx context.Context, f domain.LeaderboardFilter) ([]*domain.LeaderboardEntry, error) {
	f = f.Normalize()
	query := `SELECT id, COALESCE(player_id, 0), player_name, difficulty, time_seconds, mines, created_at FROM leaderboard`
	args := []interface{}{}
	if d := NormalizeDifficulty(f.Difficulty); d != "" {
		query += ` WHERE difficulty = $1`
		args = append(args, d)
	}
	query += fmt.Sprintf(` ORDER BY %s LIMIT %d`, LeaderboardOrder(f), f.Limit)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*domain.LeaderboardEntry
	for rows.Next() {
		var e domain.LeaderboardEntry
		if err := rows.Scan(&e.ID, &e.PlayerID, &e.PlayerName, &e.Difficulty, &e.Time, &e.Mines, &e.Date); err != nil {
			return nil, err
		}
		result = append(result, &e)
	}
	return result, rows.Err()
}

// ClearEntries удаляет записи одной сложности, либо все при пустой строке
func (r *LeaderboardRepository) ClearEntries(ctx context.Context, difficulty string) (int64, error) {
	var (
		tag pgconn.CommandTag
		err error
	)
	if d := NormalizeDifficulty(difficulty); d != "" {
		tag, err = r.db.Exec(ctx, `DELETE FROM leaderboard WHERE difficulty = $1`, d)
	} else {
		tag, err = r.db.Exec(ctx, `DELETE FROM leaderboard`)
	}
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
