package service

import (
	"context"
	"fmt"
	"time"

	"minesweeper/internal/domain"
	"minesweeper/internal/game"
	"minesweeper/internal/logger"
	"minesweeper/internal/repository"
)

// RecordFunc is called after a win lands on a leaderboard.
type RecordFunc func(e *domain.LeaderboardEntry, rank int)

type LeaderboardService struct {
	store    repository.LeaderboardStore
	size     int
	onRecord RecordFunc
}

func NewLeaderboardService(store repository.LeaderboardStore, size int) *LeaderboardService {
	if size <= 0 {
		size = domain.DefaultLeaderboardSize
	}
	return &LeaderboardService{store: store, size: size}
}

// OnRecord installs fn; set it before serving traffic.
func (s *LeaderboardService) OnRecord(fn RecordFunc) {
	s.onRecord = fn
}

// Submit adds a won game to its difficulty's board and returns the rank,
// 0 when it was not fast enough. Losses and custom boards are not ranked.
func (s *LeaderboardService) Submit(ctx context.Context, playerID int64, name string, r game.Result) (int, error) {
	if r.Status != game.StatusWon || !game.IsRanked(r.Difficulty) {
		return 0, nil
	}
	e := &domain.LeaderboardEntry{
		PlayerID:   playerID,
		PlayerName: name,
		Difficulty: string(r.Difficulty),
		Time:       r.ElapsedSeconds,
		Mines:      r.Mines,
		Date:       time.Now(),
	}
	rank, err := s.store.AddEntry(ctx, e, s.size)
	if err != nil {
		return 0, err
	}
	if rank > 0 {
		LeaderboardRecords.WithLabelValues(e.Difficulty).Inc()
		logger.Info("leaderboard entry", "player", name, "difficulty", e.Difficulty, "time", e.Time, "rank", rank)
		if s.onRecord != nil {
			s.onRecord(e, rank)
		}
	}
	return rank, nil
}

func (s *LeaderboardService) List(ctx context.Context, f domain.LeaderboardFilter) ([]*domain.LeaderboardEntry, error) {
	if err := checkDifficulty(f.Difficulty); err != nil {
		return nil, err
	}
	return s.store.ListEntries(ctx, f.Normalize())
}

// Clear removes one difficulty's entries, or all of them for "" / "all".
func (s *LeaderboardService) Clear(ctx context.Context, difficulty string) (int64, error) {
	if err := checkDifficulty(difficulty); err != nil {
		return 0, err
	}
	return s.store.ClearEntries(ctx, difficulty)
}

func checkDifficulty(d string) error {
	if d == "" || d == "all" || game.IsRanked(game.Difficulty(d)) {
		return nil
	}
	return fmt.Errorf("%w: %q", game.ErrInvalidDifficulty, d)
}
