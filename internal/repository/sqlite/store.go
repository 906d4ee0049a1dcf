// Package sqlite is the single-file storage backend, used when no Postgres
// is configured and in tests.
package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"minesweeper/internal/domain"
	"minesweeper/internal/repository"

	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var ddl string

type Store struct {
	DB *sql.DB
}

// Open opens (creating if needed) the database at path and applies the
// schema.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite path is empty")
	}
	dsn := path
	if !strings.Contains(dsn, "?") {
		dsn += "?_foreign_keys=on&_busy_timeout=5000"
	}
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	// one writer at a time; sqlite locks the whole file anyway
	db.SetMaxOpenConns(1)

	// ping to check that the file could actually be opened
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}
	if err := InitializeTables(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{DB: db}, nil
}

func InitializeTables(db *sql.DB) error {
	_, err := db.Exec(ddl)
	return err
}

func (s *Store) Ping(ctx context.Context) error {
	return s.DB.PingContext(ctx)
}

func (s *Store) Close() {
	_ = s.DB.Close()
}

func (s *Store) CreatePlayer(ctx context.Context, p *domain.Player) error {
	p.CreatedAt = time.Now().UTC()
	res, err := s.DB.ExecContext(ctx,
		`INSERT INTO players (name, password_hash, created_at) VALUES (?, ?, ?)`,
		p.Name, p.PasswordHash, p.CreatedAt,
	)
	if err != nil {
		var sqErr sqlite3.Error
		if errors.As(err, &sqErr) && sqErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			return repository.ErrNameTaken
		}
		return err
	}
	p.ID, err = res.LastInsertId()
	return err
}

func (s *Store) GetPlayerByName(ctx context.Context, name string) (*domain.Player, error) {
	return scanPlayer(s.DB.QueryRowContext(ctx,
		`SELECT id, name, password_hash, created_at FROM players WHERE name = ?`, name))
}

func (s *Store) GetPlayerByID(ctx context.Context, id int64) (*domain.Player, error) {
	return scanPlayer(s.DB.QueryRowContext(ctx,
		`SELECT id, name, password_hash, created_at FROM players WHERE id = ?`, id))
}

func scanPlayer(row *sql.Row) (*domain.Player, error) {
	var p domain.Player
	if err := row.Scan(&p.ID, &p.Name, &p.PasswordHash, &p.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (s *Store) AddEntry(ctx context.Context, e *domain.LeaderboardEntry, keep int) (int, error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Date.IsZero() {
		e.Date = time.Now()
	}
	e.Date = e.Date.UTC()
	if keep <= 0 {
		keep = domain.DefaultLeaderboardSize
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	var playerID interface{}
	if e.PlayerID != 0 {
		playerID = e.PlayerID
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO leaderboard (id, player_id, player_name, difficulty, time_seconds, mines, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.ID, playerID, e.PlayerName, e.Difficulty, e.Time, e.Mines, e.Date,
	); err != nil {
		return 0, err
	}

	rows, err := tx.QueryContext(ctx,
		`SELECT id FROM leaderboard
		 WHERE difficulty = ?
		 ORDER BY time_seconds ASC, created_at ASC, id ASC`,
		e.Difficulty,
	)
	if err != nil {
		return 0, err
	}
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return 0, err
		}
		ids = append(ids, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, err
	}

	rank := 0
	for i, id := range ids {
		if id == e.ID && i < keep {
			rank = i + 1
		}
	}
	for _, id := range ids[min(keep, len(ids)):] {
		if _, err := tx.ExecContext(ctx, `DELETE FROM leaderboard WHERE id = ?`, id); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return rank, nil
}

func (s *Store) ListEntries(ctx context.Context, f domain.LeaderboardFilter) ([]*domain.LeaderboardEntry, error) {
	f = f.Normalize()
	query := `SELECT id, COALESCE(player_id, 0), player_name, difficulty, time_seconds, mines, created_at FROM leaderboard`
	var args []interface{}
	if d := repository.NormalizeDifficulty(f.Difficulty); d != "" {
		query += ` WHERE difficulty = ?`
		args = append(args, d)
	}
	query += fmt.Sprintf(` ORDER BY %s LIMIT %d`, repository.LeaderboardOrder(f), f.Limit)

	rows, err := s.DB.QueryContext(ctx, query, args...)
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

func (s *Store) ClearEntries(ctx context.Context, difficulty string) (int64, error) {
	var (
		res sql.Result
		err error
	)
	if d := repository.NormalizeDifficulty(difficulty); d != "" {
		res, err = s.DB.ExecContext(ctx, `DELETE FROM leaderboard WHERE difficulty = ?`, d)
	} else {
		res, err = s.DB.ExecContext(ctx, `DELETE FROM leaderboard`)
	}
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

var sqliteUpsertStats = fmt.Sprintf(repository.UpsertStatsSQL, "?1", "?2", "?3", "?4")

func (s *Store) RecordResult(ctx context.Context, playerID int64, result domain.GameResult, elapsed int) (*domain.PlayerStats, error) {
	wins, losses, best := repository.StatsDelta(result, elapsed)
	if _, err := s.DB.ExecContext(ctx, sqliteUpsertStats, playerID, wins, losses, best); err != nil {
		return nil, err
	}
	return s.GetStats(ctx, playerID)
}

func (s *Store) GetStats(ctx context.Context, playerID int64) (*domain.PlayerStats, error) {
	st := domain.PlayerStats{PlayerID: playerID}
	err := s.DB.QueryRowContext(ctx,
		`SELECT wins, losses, best_time, total_games, updated_at FROM player_stats WHERE player_id = ?`,
		playerID,
	).Scan(&st.Wins, &st.Losses, &st.BestTime, &st.TotalGames, &st.UpdatedAt)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	return &st, nil
}

func (s *Store) CreateHistory(ctx context.Context, gh *domain.GameHistory) error {
	details, err := json.Marshal(gh.Details)
	if err != nil || gh.Details == nil {
		details = []byte("{}")
	}
	gh.CreatedAt = time.Now().UTC()
	res, err := s.DB.ExecContext(ctx,
		`INSERT INTO game_history (player_id, difficulty, result, elapsed_seconds, details, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		gh.PlayerID, gh.Difficulty, gh.Result, gh.Elapsed, string(details), gh.CreatedAt,
	)
	if err != nil {
		return err
	}
	gh.ID, err = res.LastInsertId()
	return err
}

func (s *Store) ListHistory(ctx context.Context, playerID int64, limit int) ([]*domain.GameHistory, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.DB.QueryContext(ctx,
		`SELECT id, player_id, difficulty, result, elapsed_seconds, details, created_at
		 FROM game_history
		 WHERE player_id = ?
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`,
		playerID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return repository.ScanHistory(rows)
}

var _ repository.Store = (*Store)(nil)
