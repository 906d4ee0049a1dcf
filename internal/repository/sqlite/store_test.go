package sqlite_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"minesweeper/internal/domain"
	"minesweeper/internal/repository"
	"minesweeper/internal/repository/sqlite"
)

func openTemp(t *testing.T) *sqlite.Store {
	t.Helper()
	store, err := sqlite.Open(filepath.Join(t.TempDir(), "mines.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(store.Close)
	return store
}

func createPlayer(t *testing.T, store *sqlite.Store, name string) *domain.Player {
	t.Helper()
	p := &domain.Player{Name: name, PasswordHash: "NOT HASHED"}
	if err := store.CreatePlayer(context.Background(), p); err != nil {
		t.Fatalf("create player: %v", err)
	}
	return p
}

func TestPlayers(t *testing.T) {
	ctx := context.Background()
	store := openTemp(t)

	p := createPlayer(t, store, "John")
	if p.ID == 0 {
		t.Fatal("player id not set")
	}

	dup := &domain.Player{Name: "John", PasswordHash: "x"}
	if err := store.CreatePlayer(ctx, dup); !errors.Is(err, repository.ErrNameTaken) {
		t.Fatalf("duplicate name: err = %v", err)
	}

	byName, err := store.GetPlayerByName(ctx, "John")
	if err != nil || byName.ID != p.ID || byName.PasswordHash != "NOT HASHED" {
		t.Fatalf("by name: %+v, %v", byName, err)
	}
	byID, err := store.GetPlayerByID(ctx, p.ID)
	if err != nil || byID.Name != "John" {
		t.Fatalf("by id: %+v, %v", byID, err)
	}
	if _, err := store.GetPlayerByName(ctx, "nobody"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("missing player: err = %v", err)
	}
}

func TestLeaderboardKeepsBestTimes(t *testing.T) {
	ctx := context.Background()
	store := openTemp(t)
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	// times 30, 29, ..., 1 so every insert is the new best
	for i := 0; i < 30; i++ {
		e := &domain.LeaderboardEntry{
			PlayerName: "p",
			Difficulty: "easy",
			Time:       30 - i,
			Mines:      10,
			Date:       base.Add(time.Duration(i) * time.Minute),
		}
		rank, err := store.AddEntry(ctx, e, 20)
		if err != nil {
			t.Fatal(err)
		}
		if rank != 1 {
			t.Fatalf("entry %d: rank %d; want 1", i, rank)
		}
	}

	slow := &domain.LeaderboardEntry{PlayerName: "slow", Difficulty: "easy", Time: 500, Mines: 10}
	rank, err := store.AddEntry(ctx, slow, 20)
	if err != nil {
		t.Fatal(err)
	}
	if rank != 0 {
		t.Fatalf("slow entry rank %d; want 0", rank)
	}

	all, err := store.ListEntries(ctx, domain.LeaderboardFilter{Difficulty: "easy", Limit: 100})
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 20 {
		t.Fatalf("kept %d entries; want 20", len(all))
	}
	for i, e := range all {
		if e.Time != i+1 {
			t.Fatalf("position %d has time %d", i, e.Time)
		}
	}

	// ties keep the earlier entry first
	tie := &domain.LeaderboardEntry{PlayerName: "tie", Difficulty: "easy", Time: 1, Mines: 10, Date: base.Add(time.Hour)}
	if rank, err := store.AddEntry(ctx, tie, 20); err != nil || rank != 2 {
		t.Fatalf("tie rank %d, %v; want 2", rank, err)
	}
}

func TestLeaderboardFilterAndClear(t *testing.T) {
	ctx := context.Background()
	store := openTemp(t)
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	add := func(d string, secs int, at time.Duration) {
		t.Helper()
		e := &domain.LeaderboardEntry{PlayerName: "p", Difficulty: d, Time: secs, Mines: 1, Date: base.Add(at)}
		if _, err := store.AddEntry(ctx, e, 20); err != nil {
			t.Fatal(err)
		}
	}
	add("easy", 40, 0)
	add("medium", 90, time.Minute)
	add("hard", 300, 2*time.Minute)
	add("easy", 12, 3*time.Minute)

	cases := []struct {
		name   string
		filter domain.LeaderboardFilter
		want   []int
	}{
		{"all by time", domain.DefaultLeaderboardFilter(), []int{12, 40, 90, 300}},
		{"all keyword", domain.LeaderboardFilter{Difficulty: "all"}, []int{12, 40, 90, 300}},
		{"easy only", domain.LeaderboardFilter{Difficulty: "easy"}, []int{12, 40}},
		{"time desc", domain.LeaderboardFilter{SortBy: domain.SortByTime, Direction: domain.SortDesc}, []int{300, 90, 40, 12}},
		{"newest first", domain.LeaderboardFilter{SortBy: domain.SortByDate, Direction: domain.SortDesc}, []int{12, 300, 90, 40}},
		{"limit", domain.LeaderboardFilter{Limit: 2}, []int{12, 40}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := store.ListEntries(ctx, tc.filter)
			if err != nil {
				t.Fatal(err)
			}
			if len(got) != len(tc.want) {
				t.Fatalf("got %d entries; want %d", len(got), len(tc.want))
			}
			for i := range got {
				if got[i].Time != tc.want[i] {
					t.Fatalf("entry %d time %d; want %d", i, got[i].Time, tc.want[i])
				}
			}
		})
	}

	n, err := store.ClearEntries(ctx, "easy")
	if err != nil || n != 2 {
		t.Fatalf("clear easy: %d, %v", n, err)
	}
	n, err = store.ClearEntries(ctx, "")
	if err != nil || n != 2 {
		t.Fatalf("clear all: %d, %v", n, err)
	}
	left, _ := store.ListEntries(ctx, domain.DefaultLeaderboardFilter())
	if len(left) != 0 {
		t.Fatalf("%d entries left", len(left))
	}
}

func TestStats(t *testing.T) {
	ctx := context.Background()
	store := openTemp(t)
	p := createPlayer(t, store, "ann")

	st, err := store.GetStats(ctx, p.ID)
	if err != nil || st.TotalGames != 0 || st.BestTime != 0 {
		t.Fatalf("fresh stats %+v, %v", st, err)
	}

	steps := []struct {
		result  domain.GameResult
		elapsed int
		best    int
	}{
		{domain.GameResultLose, 3, 0},
		{domain.GameResultWin, 80, 80},
		{domain.GameResultWin, 95, 80},
		{domain.GameResultLose, 1, 80},
		{domain.GameResultWin, 42, 42},
	}
	for i, step := range steps {
		st, err = store.RecordResult(ctx, p.ID, step.result, step.elapsed)
		if err != nil {
			t.Fatal(err)
		}
		if st.BestTime != step.best || st.TotalGames != i+1 {
			t.Fatalf("step %d: %+v", i, st)
		}
	}
	if st.Wins != 3 || st.Losses != 2 {
		t.Fatalf("final %+v", st)
	}
}

func TestStatsZeroSecondWinIsBest(t *testing.T) {
	ctx := context.Background()
	store := openTemp(t)
	p := createPlayer(t, store, "quick")

	for _, elapsed := range []int{0, 40} {
		if _, err := store.RecordResult(ctx, p.ID, domain.GameResultWin, elapsed); err != nil {
			t.Fatal(err)
		}
	}
	st, err := store.GetStats(ctx, p.ID)
	if err != nil || st.Wins != 2 || st.BestTime != 0 {
		t.Fatalf("stats %+v, %v", st, err)
	}
}

func TestHistory(t *testing.T) {
	ctx := context.Background()
	store := openTemp(t)
	p := createPlayer(t, store, "bob")

	for i, r := range []domain.GameResult{domain.GameResultLose, domain.GameResultWin} {
		gh := &domain.GameHistory{
			PlayerID:   p.ID,
			Difficulty: "medium",
			Result:     r,
			Elapsed:    10 * (i + 1),
			Details:    map[string]interface{}{"revealed_safe_count": float64(i)},
		}
		if err := store.CreateHistory(ctx, gh); err != nil {
			t.Fatal(err)
		}
	}

	list, err := store.ListHistory(ctx, p.ID, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 || list[0].Result != domain.GameResultWin || list[1].Result != domain.GameResultLose {
		t.Fatalf("history %+v", list)
	}
	if list[0].Details["revealed_safe_count"] != float64(1) {
		t.Fatalf("details %+v", list[0].Details)
	}
}
