package game

import "fmt"

// Mine marks a mined cell in a Board.
const Mine = -1

// Cell is a grid coordinate.
type Cell struct {
	Row int `json:"row" yaml:"row"`
	Col int `json:"col" yaml:"col"`
}

// CoordinateError is raised (as a panic) when the engine is handed a
// coordinate outside the board. Callers holding untrusted input must check
// InBounds first.
type CoordinateError struct {
	Row, Col   int
	Rows, Cols int
}

func (e *CoordinateError) Error() string {
	return fmt.Sprintf("cell (%d, %d) out of range for %dx%d board", e.Row, e.Col, e.Rows, e.Cols)
}

// Board is an immutable minefield. Each cell holds Mine or the number of
// mines among its up-to-8 neighbours.
type Board struct {
	rows  int
	cols  int
	mines int
	cells []int
}

func newBoard(rows, cols int) *Board {
	if rows < 1 || cols < 1 {
		panic(fmt.Sprintf("game: invalid board size %dx%d", rows, cols))
	}
	return &Board{rows: rows, cols: cols, cells: make([]int, rows*cols)}
}

// NewBoardFromMines builds a board with mines at exactly the given cells.
// Duplicates are ignored.
func NewBoardFromMines(rows, cols int, mines []Cell) *Board {
	b := newBoard(rows, cols)
	for _, m := range mines {
		b.mustBeInBounds(m.Row, m.Col)
		b.placeMine(m.Row*cols + m.Col)
	}
	return b
}

func (b *Board) Rows() int  { return b.rows }
func (b *Board) Cols() int  { return b.cols }
func (b *Board) Mines() int { return b.mines }
func (b *Board) Size() int  { return b.rows * b.cols }

func (b *Board) InBounds(row, col int) bool {
	return row >= 0 && row < b.rows && col >= 0 && col < b.cols
}

// At returns the cell value: Mine or an adjacency count 0-8.
func (b *Board) At(row, col int) int {
	b.mustBeInBounds(row, col)
	return b.cells[row*b.cols+col]
}

func (b *Board) IsMine(row, col int) bool {
	return b.At(row, col) == Mine
}

// MineCells lists mine coordinates in row-major order.
func (b *Board) MineCells() []Cell {
	out := make([]Cell, 0, b.mines)
	for i, v := range b.cells {
		if v == Mine {
			out = append(out, Cell{Row: i / b.cols, Col: i % b.cols})
		}
	}
	return out
}

func (b *Board) mustBeInBounds(row, col int) {
	if !b.InBounds(row, col) {
		panic(&CoordinateError{Row: row, Col: col, Rows: b.rows, Cols: b.cols})
	}
}

// placeMine mines cell i and bumps the count of every non-mine neighbour.
// Returns false if i was already mined.
func (b *Board) placeMine(i int) bool {
	if b.cells[i] == Mine {
		return false
	}
	b.cells[i] = Mine
	b.mines++
	row, col := i/b.cols, i%b.cols
	forEachNeighbour(b.rows, b.cols, row, col, func(r, c int) {
		if j := r*b.cols + c; b.cells[j] != Mine {
			b.cells[j]++
		}
	})
	return true
}

// forEachNeighbour calls fn for the in-bounds Moore neighbours of (row, col).
func forEachNeighbour(rows, cols, row, col int, fn func(r, c int)) {
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			if dr == 0 && dc == 0 {
				continue
			}
			r, c := row+dr, col+dc
			if r >= 0 && r < rows && c >= 0 && c < cols {
				fn(r, c)
			}
		}
	}
}
