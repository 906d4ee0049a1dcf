package game

// CellState is what the player knows about a cell.
type CellState uint8

const (
	Hidden CellState = iota
	Revealed
	Flagged
)

func (s CellState) String() string {
	switch s {
	case Hidden:
		return "hidden"
	case Revealed:
		return "revealed"
	case Flagged:
		return "flagged"
	default:
		return "unknown"
	}
}

// RevealMap tracks per-cell player state alongside running counts.
type RevealMap struct {
	rows     int
	cols     int
	cells    []CellState
	revealed int
	flagged  int
}

// NewRevealMap returns an all-Hidden map.
func NewRevealMap(rows, cols int) *RevealMap {
	return &RevealMap{rows: rows, cols: cols, cells: make([]CellState, rows*cols)}
}

func (m *RevealMap) Rows() int { return m.rows }
func (m *RevealMap) Cols() int { return m.cols }

// Revealed counts cells in the Revealed state, mines included.
func (m *RevealMap) Revealed() int { return m.revealed }
func (m *RevealMap) Flagged() int  { return m.flagged }

func (m *RevealMap) InBounds(row, col int) bool {
	return row >= 0 && row < m.rows && col >= 0 && col < m.cols
}

func (m *RevealMap) At(row, col int) CellState {
	m.mustBeInBounds(row, col)
	return m.cells[row*m.cols+col]
}

// Clone returns an independent copy.
func (m *RevealMap) Clone() *RevealMap {
	c := *m
	c.cells = append([]CellState(nil), m.cells...)
	return &c
}

func (m *RevealMap) set(i int, s CellState) {
	switch m.cells[i] {
	case Revealed:
		m.revealed--
	case Flagged:
		m.flagged--
	}
	switch s {
	case Revealed:
		m.revealed++
	case Flagged:
		m.flagged++
	}
	m.cells[i] = s
}

func (m *RevealMap) mustBeInBounds(row, col int) {
	if !m.InBounds(row, col) {
		panic(&CoordinateError{Row: row, Col: col, Rows: m.rows, Cols: m.cols})
	}
}

// Reveal opens (row, col) and returns how many cells changed to Revealed.
//
// Revealed or Flagged targets are left alone. A mine reveals only itself. A
// zero spreads to every Hidden neighbour, which in turn spreads if it is
// also zero; numbered cells bordering the region are revealed but do not
// spread. The walk uses an explicit stack so board size never bounds call
// depth.
func Reveal(b *Board, m *RevealMap, row, col int) int {
	b.mustBeInBounds(row, col)
	m.mustBeInBounds(row, col)
	start := row*m.cols + col
	if m.cells[start] != Hidden {
		return 0
	}
	if b.cells[start] == Mine {
		m.set(start, Revealed)
		return 1
	}

	opened := 0
	stack := []int{start}
	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if m.cells[i] != Hidden {
			continue
		}
		m.set(i, Revealed)
		opened++
		if b.cells[i] != 0 {
			continue
		}
		forEachNeighbour(m.rows, m.cols, i/m.cols, i%m.cols, func(r, c int) {
			if j := r*m.cols + c; m.cells[j] == Hidden {
				stack = append(stack, j)
			}
		})
	}
	return opened
}

// ToggleFlag flips (row, col) between Hidden and Flagged. Revealed cells are
// untouched and false is returned.
func ToggleFlag(m *RevealMap, row, col int) bool {
	m.mustBeInBounds(row, col)
	i := row*m.cols + col
	switch m.cells[i] {
	case Hidden:
		m.set(i, Flagged)
	case Flagged:
		m.set(i, Hidden)
	default:
		return false
	}
	return true
}
