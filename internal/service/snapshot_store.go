package service

import (
	"context"
	"errors"
	"strconv"
	"time"

	"minesweeper/internal/game"

	redis "github.com/redis/go-redis/v9"
)

// SnapshotStore persists paused games outside the process.
type SnapshotStore interface {
	Save(ctx context.Context, playerID int64, snap *game.Snapshot) error
	// Load returns nil, nil when nothing is stored.
	Load(ctx context.Context, playerID int64) (*game.Snapshot, error)
	Delete(ctx context.Context, playerID int64) error
}

type RedisSnapshotStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisSnapshotStore(client *redis.Client, ttl time.Duration) *RedisSnapshotStore {
	return &RedisSnapshotStore{client: client, ttl: ttl}
}

func snapshotKey(playerID int64) string {
	return "snapshot:" + strconv.FormatInt(playerID, 10)
}

func (s *RedisSnapshotStore) Save(ctx context.Context, playerID int64, snap *game.Snapshot) error {
	data, err := snap.Marshal()
	if err != nil {
		return err
	}
	return s.client.Set(ctx, snapshotKey(playerID), data, s.ttl).Err()
}

func (s *RedisSnapshotStore) Load(ctx context.Context, playerID int64) (*game.Snapshot, error) {
	data, err := s.client.Get(ctx, snapshotKey(playerID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return game.UnmarshalSnapshot(data)
}

func (s *RedisSnapshotStore) Delete(ctx context.Context, playerID int64) error {
	return s.client.Del(ctx, snapshotKey(playerID)).Err()
}
