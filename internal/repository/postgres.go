package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore bundles the pgx repositories behind Store.
type PostgresStore struct {
	*PlayerRepository
	*LeaderboardRepository
	*StatsRepository
	*GameHistoryRepository

	db *pgxpool.Pool
}

func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{
		PlayerRepository:      NewPlayerRepository(db),
		LeaderboardRepository: NewLeaderboardRepository(db),
		StatsRepository:       NewStatsRepository(db),
		GameHistoryRepository: NewGameHistoryRepository(db),
		db:                    db,
	}
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

func (s *PostgresStore) Close() {
	s.db.Close()
}

var _ Store = (*PostgresStore)(nil)
