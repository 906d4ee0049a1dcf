package game

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v2"
)

var ErrCorruptSnapshot = errors.New("corrupt snapshot")

const (
	glyphHidden   = '#'
	glyphRevealed = 'o'
	glyphFlagged  = 'f'
)

// Snapshot captures a paused game so it can be resumed later, possibly by
// another process.
type Snapshot struct {
	Difficulty Difficulty `yaml:"difficulty"`
	Rows       int        `yaml:"rows"`
	Cols       int        `yaml:"cols"`
	Mines      int        `yaml:"mines"`
	Elapsed    int        `yaml:"elapsed"`
	Generated  bool       `yaml:"generated"`
	MineCells  []Cell     `yaml:"mine_cells,flow,omitempty"`
	Cells      string     `yaml:"cells"`
	TakenAt    int64      `yaml:"taken_at"`
}

func (snap *Snapshot) Marshal() ([]byte, error) {
	return yaml.Marshal(snap)
}

func UnmarshalSnapshot(data []byte) (*Snapshot, error) {
	var snap Snapshot
	if err := yaml.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptSnapshot, err)
	}
	return &snap, nil
}

// Snapshot returns the copy taken by the last Pause while the session is
// still paused.
func (s *Session) Snapshot() (*Snapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status != StatusPaused || s.snapshot == nil {
		return nil, false
	}
	return s.snapshot, true
}

func (s *Session) snapshotLocked() *Snapshot {
	snap := &Snapshot{
		Difficulty: s.difficulty,
		Rows:       s.params.Rows,
		Cols:       s.params.Cols,
		Mines:      s.params.Mines,
		Elapsed:    s.elapsed,
		Generated:  s.board != nil,
		TakenAt:    time.Now().Unix(),
	}
	if s.board != nil {
		snap.MineCells = s.board.MineCells()
	}

	var b strings.Builder
	for r := 0; r < s.params.Rows; r++ {
		if r > 0 {
			b.WriteByte('\n')
		}
		for c := 0; c < s.params.Cols; c++ {
			switch s.revealed.At(r, c) {
			case Revealed:
				b.WriteByte(glyphRevealed)
			case Flagged:
				b.WriteByte(glyphFlagged)
			default:
				b.WriteByte(glyphHidden)
			}
		}
	}
	snap.Cells = b.String()
	return snap
}

// Restore replaces the current game with snap, leaving the session Paused.
func (s *Session) Restore(snap *Snapshot) error {
	p := Params{Rows: snap.Rows, Cols: snap.Cols, Mines: snap.Mines}
	if err := p.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrCorruptSnapshot, err)
	}
	if snap.Difficulty != Custom && !IsRanked(snap.Difficulty) {
		return fmt.Errorf("%w: difficulty %q", ErrCorruptSnapshot, snap.Difficulty)
	}
	if snap.Elapsed < 0 {
		return fmt.Errorf("%w: negative elapsed", ErrCorruptSnapshot)
	}

	var board *Board
	if snap.Generated {
		for _, m := range snap.MineCells {
			if m.Row < 0 || m.Row >= p.Rows || m.Col < 0 || m.Col >= p.Cols {
				return fmt.Errorf("%w: mine (%d, %d) off board", ErrCorruptSnapshot, m.Row, m.Col)
			}
		}
		board = NewBoardFromMines(p.Rows, p.Cols, snap.MineCells)
	}

	lines := strings.Split(snap.Cells, "\n")
	if len(lines) != p.Rows {
		return fmt.Errorf("%w: %d cell rows, want %d", ErrCorruptSnapshot, len(lines), p.Rows)
	}
	m := NewRevealMap(p.Rows, p.Cols)
	safe := 0
	for r, line := range lines {
		if len(line) != p.Cols {
			return fmt.Errorf("%w: row %d has %d cells, want %d", ErrCorruptSnapshot, r, len(line), p.Cols)
		}
		for c := 0; c < p.Cols; c++ {
			i := r*p.Cols + c
			switch line[c] {
			case glyphHidden:
			case glyphFlagged:
				m.set(i, Flagged)
			case glyphRevealed:
				if board == nil || board.IsMine(r, c) {
					return fmt.Errorf("%w: cell (%d, %d) cannot be revealed", ErrCorruptSnapshot, r, c)
				}
				m.set(i, Revealed)
				safe++
			default:
				return fmt.Errorf("%w: unknown glyph %q", ErrCorruptSnapshot, line[c])
			}
		}
	}
	if board != nil && safe == p.Total()-board.Mines() {
		return fmt.Errorf("%w: game already cleared", ErrCorruptSnapshot)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.difficulty = snap.Difficulty
	s.params = p
	s.board = board
	s.revealed = m
	s.elapsed = snap.Elapsed
	s.safe = safe
	s.startedAt = time.Now().Add(-time.Duration(snap.Elapsed) * time.Second)
	s.snapshot = snap
	s.setStatus(StatusPaused)
	s.changed()
	return nil
}
