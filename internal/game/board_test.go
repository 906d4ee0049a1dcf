package game

import (
	"errors"
	"testing"
)

func countMines(b *Board) int {
	n := 0
	for r := 0; r < b.Rows(); r++ {
		for c := 0; c < b.Cols(); c++ {
			if b.IsMine(r, c) {
				n++
			}
		}
	}
	return n
}

func assertAdjacency(t *testing.T, b *Board) {
	t.Helper()
	for r := 0; r < b.Rows(); r++ {
		for c := 0; c < b.Cols(); c++ {
			if b.IsMine(r, c) {
				continue
			}
			want := 0
			forEachNeighbour(b.Rows(), b.Cols(), r, c, func(nr, nc int) {
				if b.IsMine(nr, nc) {
					want++
				}
			})
			if got := b.At(r, c); got != want {
				t.Fatalf("cell (%d,%d) = %d; want %d", r, c, got, want)
			}
		}
	}
}

func TestGenerateMineCount(t *testing.T) {
	cases := []struct {
		rows, cols, mines, want int
	}{
		{10, 10, 10, 10},
		{16, 16, 40, 40},
		{16, 30, 99, 99},
		{3, 3, 9, 9},
		{3, 3, 50, 9},
		{4, 4, 0, 0},
		{4, 4, -3, 0},
	}

	for seed := uint64(1); seed <= 20; seed++ {
		g := NewSeededGenerator(seed)
		for _, tc := range cases {
			b := g.Generate(tc.rows, tc.cols, tc.mines)
			if got := countMines(b); got != tc.want {
				t.Fatalf("seed %d %dx%d/%d: %d mines; want %d", seed, tc.rows, tc.cols, tc.mines, got, tc.want)
			}
			if b.Mines() != tc.want {
				t.Fatalf("Mines() = %d; want %d", b.Mines(), tc.want)
			}
			assertAdjacency(t, b)
		}
	}
}

func TestGenerateSafeKeepsZoneClear(t *testing.T) {
	clicks := []Cell{{0, 0}, {9, 9}, {0, 9}, {5, 5}, {1, 8}, {15, 29}, {8, 14}}

	for seed := uint64(1); seed <= 50; seed++ {
		g := NewSeededGenerator(seed)
		for _, click := range clicks {
			rows, cols, mines := 10, 10, 10
			if !(click.Row < rows && click.Col < cols) {
				rows, cols, mines = 16, 30, 99
			}
			b := g.GenerateSafe(rows, cols, mines, click.Row, click.Col)

			if got := b.At(click.Row, click.Col); got != 0 {
				t.Fatalf("seed %d click %v: value %d; want 0", seed, click, got)
			}
			for r := 0; r < rows; r++ {
				for c := 0; c < cols; c++ {
					if abs(r-click.Row) <= SafeRadius && abs(c-click.Col) <= SafeRadius && b.IsMine(r, c) {
						t.Fatalf("seed %d click %v: mine inside safe zone at (%d,%d)", seed, click, r, c)
					}
				}
			}
			if got := countMines(b); got != mines {
				t.Fatalf("seed %d: %d mines; want %d", seed, got, mines)
			}
			assertAdjacency(t, b)
		}
	}
}

func TestGenerateSafeClampsToAvailableCells(t *testing.T) {
	g := NewSeededGenerator(7)

	// 6x6 with a corner click excludes a 3x3 block: 27 cells remain
	b := g.GenerateSafe(6, 6, 100, 0, 0)
	if want := 36 - SafeZoneSize(6, 6, 0, 0); b.Mines() != want || want != 27 {
		t.Fatalf("mines = %d; want %d (27)", b.Mines(), want)
	}

	// whole board inside the zone
	b = g.GenerateSafe(3, 4, 5, 1, 1)
	if b.Mines() != 0 {
		t.Fatalf("mines = %d; want 0", b.Mines())
	}
}

func TestSafeZoneSize(t *testing.T) {
	cases := []struct {
		rows, cols, row, col, want int
	}{
		{10, 10, 0, 0, 9},
		{10, 10, 5, 5, 25},
		{10, 10, 0, 5, 15},
		{10, 10, 1, 1, 16},
		{2, 2, 0, 0, 4},
	}
	for _, tc := range cases {
		if got := SafeZoneSize(tc.rows, tc.cols, tc.row, tc.col); got != tc.want {
			t.Errorf("SafeZoneSize(%d,%d,%d,%d) = %d; want %d", tc.rows, tc.cols, tc.row, tc.col, got, tc.want)
		}
	}
}

func TestEasyCornerClick(t *testing.T) {
	for seed := uint64(100); seed < 130; seed++ {
		b := NewSeededGenerator(seed).GenerateSafe(10, 10, 10, 0, 0)
		if b.At(0, 0) != 0 {
			t.Fatalf("seed %d: corner value %d; want 0", seed, b.At(0, 0))
		}
		for r := 0; r <= 2; r++ {
			for c := 0; c <= 2; c++ {
				if b.IsMine(r, c) {
					t.Fatalf("seed %d: mine at (%d,%d) inside clipped zone", seed, r, c)
				}
			}
		}
	}
}

func TestNewBoardFromMines(t *testing.T) {
	b := NewBoardFromMines(3, 3, []Cell{{0, 0}, {2, 2}, {0, 0}})
	if b.Mines() != 2 {
		t.Fatalf("mines = %d; want 2", b.Mines())
	}
	want := [][]int{
		{Mine, 1, 0},
		{1, 2, 1},
		{0, 1, Mine},
	}
	for r := range want {
		for c := range want[r] {
			if got := b.At(r, c); got != want[r][c] {
				t.Fatalf("(%d,%d) = %d; want %d", r, c, got, want[r][c])
			}
		}
	}
}

func TestBoardOutOfBoundsPanics(t *testing.T) {
	b := NewBoardFromMines(2, 2, nil)
	defer func() {
		r := recover()
		err, ok := r.(error)
		var ce *CoordinateError
		if !ok || !errors.As(err, &ce) {
			t.Fatalf("recovered %v; want *CoordinateError", r)
		}
		if ce.Row != 2 || ce.Col != 0 {
			t.Fatalf("error coords = (%d,%d)", ce.Row, ce.Col)
		}
	}()
	b.At(2, 0)
}
