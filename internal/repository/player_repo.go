package repository

import (
	"context"
	"errors"

	"minesweeper/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const pgUniqueViolation = "23505"

type PlayerRepository struct {
	db *pgxpool.Pool
}

func NewPlayerRepository(db *pgxpool.Pool) *PlayerRepository {
	return &PlayerRepository{db: db}
}

func (r *PlayerRepository) CreatePlayer(ctx context.Context, p *domain.Player) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO players (name, password_hash)
		 VALUES ($1, $2)
		 RETURNING id, created_at`,
		p.Name, p.PasswordHash,
	).Scan(&p.ID, &p.CreatedAt)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return ErrNameTaken
	}
	return err
}

func (r *PlayerRepository) GetPlayerByName(ctx context.Context, name string) (*domain.Player, error) {
	return r.scanOne(r.db.QueryRow(ctx,
		`SELECT id, name, password_hash, created_at FROM players WHERE name = $1`, name))
}

func (r *PlayerRepository) GetPlayerByID(ctx context.Context, id int64) (*domain.Player, error) {
	return r.scanOne(r.db.QueryRow(ctx,
		`SELECT id, name, password_hash, created_at FROM players WHERE id = $1`, id))
}

func (r *PlayerRepository) scanOne(row pgx.Row) (*domain.Player, error) {
	var p domain.Player
	if err := row.Scan(&p.ID, &p.Name, &p.PasswordHash, &p.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}
