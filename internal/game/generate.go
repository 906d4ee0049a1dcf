package game

import (
	crand "crypto/rand"
	"math/rand/v2"
)

// SafeRadius is the Chebyshev distance around the first click kept free of
// mines. Radius 2 keeps the clicked cell and all its neighbours clear, so
// the first click always opens a zero.
const SafeRadius = 2

// Generator lays out mines. It is not safe for concurrent use.
type Generator struct {
	rng *rand.Rand
}

// NewGenerator returns a generator drawing from rng, or from a ChaCha8
// stream seeded by crypto/rand when rng is nil.
func NewGenerator(rng *rand.Rand) *Generator {
	if rng == nil {
		var seed [32]byte
		if _, err := crand.Read(seed[:]); err != nil {
			panic("game: cannot seed generator: " + err.Error())
		}
		rng = rand.New(rand.NewChaCha8(seed))
	}
	return &Generator{rng: rng}
}

// NewSeededGenerator returns a deterministic generator.
func NewSeededGenerator(seed uint64) *Generator {
	return NewGenerator(rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)))
}

// Generate places mines anywhere on the board by rejection sampling.
// mines is clamped to [0, rows*cols].
func (g *Generator) Generate(rows, cols, mines int) *Board {
	b := newBoard(rows, cols)
	mines = clamp(mines, 0, b.Size())
	for b.mines < mines {
		b.placeMine(g.rng.IntN(b.Size()))
	}
	return b
}

// GenerateSafe places mines outside the 5x5 block (clipped to the board)
// centered on (row, col). mines is clamped to the number of cells outside
// that block.
func (g *Generator) GenerateSafe(rows, cols, mines, row, col int) *Board {
	b := newBoard(rows, cols)
	b.mustBeInBounds(row, col)

	candidates := make([]int, 0, b.Size())
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			if abs(r-row) > SafeRadius || abs(c-col) > SafeRadius {
				candidates = append(candidates, r*cols+c)
			}
		}
	}

	// partial Fisher-Yates: each pick is uniform over what is left
	k := len(candidates)
	for n := clamp(mines, 0, len(candidates)); n > 0; n-- {
		i := g.rng.IntN(k)
		b.placeMine(candidates[i])
		k--
		candidates[i] = candidates[k]
	}
	return b
}

// SafeZoneSize is the number of cells excluded from mine placement when the
// first click is at (row, col).
func SafeZoneSize(rows, cols, row, col int) int {
	h := min(row+SafeRadius, rows-1) - max(row-SafeRadius, 0) + 1
	w := min(col+SafeRadius, cols-1) - max(col-SafeRadius, 0) + 1
	return h * w
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
