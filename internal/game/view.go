package game

import "fmt"

// CellView is one cell as a client may see it. Value is set only for
// revealed cells, and for every cell once the game is over.
type CellView struct {
	State CellState `json:"state"`
	Value *int      `json:"value,omitempty"`
}

// View is the renderable state of a session.
type View struct {
	Status         Status       `json:"status"`
	Difficulty     Difficulty   `json:"difficulty"`
	Rows           int          `json:"rows"`
	Cols           int          `json:"cols"`
	Mines          int          `json:"mines"`
	MinesRemaining int          `json:"mines_remaining"`
	ElapsedSeconds int          `json:"elapsed_seconds"`
	RevealedSafe   int          `json:"revealed_safe_count"`
	Cells          [][]CellView `json:"cells,omitempty"`
}

func (s CellState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *CellState) UnmarshalText(b []byte) error {
	switch string(b) {
	case "hidden":
		*s = Hidden
	case "revealed":
		*s = Revealed
	case "flagged":
		*s = Flagged
	default:
		return fmt.Errorf("unknown cell state %q", b)
	}
	return nil
}

// State returns the current view.
func (s *Session) State() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewLocked()
}

func (s *Session) viewLocked() View {
	v := View{
		Status:         s.status,
		Difficulty:     s.difficulty,
		Rows:           s.params.Rows,
		Cols:           s.params.Cols,
		Mines:          s.mines(),
		MinesRemaining: s.mines(),
		ElapsedSeconds: s.elapsed,
		RevealedSafe:   s.safe,
	}
	if s.revealed == nil {
		return v
	}
	v.MinesRemaining -= s.revealed.Flagged()

	disclose := s.status.Finished() && s.board != nil
	v.Cells = make([][]CellView, s.params.Rows)
	for r := range v.Cells {
		row := make([]CellView, s.params.Cols)
		for c := range row {
			st := s.revealed.At(r, c)
			row[c].State = st
			if s.board != nil && (st == Revealed || disclose) {
				val := s.board.At(r, c)
				row[c].Value = &val
			}
		}
		v.Cells[r] = row
	}
	return v
}
