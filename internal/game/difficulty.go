package game

import (
	"errors"
	"fmt"
)

// Difficulty selects a board preset.
type Difficulty string

const (
	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
	Hard   Difficulty = "hard"
	Custom Difficulty = "custom"
)

// Limits for custom boards.
const (
	MaxRows = 100
	MaxCols = 100
)

var (
	ErrInvalidDifficulty = errors.New("invalid difficulty")
	ErrInvalidParams     = errors.New("invalid board parameters")
)

// Params are the board dimensions and requested mine count.
type Params struct {
	Rows  int `json:"rows" yaml:"rows"`
	Cols  int `json:"cols" yaml:"cols"`
	Mines int `json:"mines" yaml:"mines"`
}

func (p Params) Total() int { return p.Rows * p.Cols }

// Validate checks a custom board. At least one cell must stay mine-free.
func (p Params) Validate() error {
	switch {
	case p.Rows < 1 || p.Rows > MaxRows:
		return fmt.Errorf("%w: rows must be between 1 and %d", ErrInvalidParams, MaxRows)
	case p.Cols < 1 || p.Cols > MaxCols:
		return fmt.Errorf("%w: cols must be between 1 and %d", ErrInvalidParams, MaxCols)
	case p.Mines < 0 || p.Mines >= p.Total():
		return fmt.Errorf("%w: mines must be between 0 and %d", ErrInvalidParams, p.Total()-1)
	}
	return nil
}

var presets = map[Difficulty]Params{
	Easy:   {Rows: 10, Cols: 10, Mines: 10},
	Medium: {Rows: 16, Cols: 16, Mines: 40},
	Hard:   {Rows: 16, Cols: 30, Mines: 99},
}

// Difficulties lists the presets from easiest to hardest.
func Difficulties() []Difficulty {
	return []Difficulty{Easy, Medium, Hard}
}

// ParamsFor resolves a preset.
func ParamsFor(d Difficulty) (Params, error) {
	p, ok := presets[d]
	if !ok {
		return Params{}, fmt.Errorf("%w: %q", ErrInvalidDifficulty, d)
	}
	return p, nil
}

// IsRanked reports whether results for d belong on a leaderboard.
func IsRanked(d Difficulty) bool {
	_, ok := presets[d]
	return ok
}
