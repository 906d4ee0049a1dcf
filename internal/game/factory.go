package game

import "sync/atomic"

// Factory builds sessions sharing one clock. Each session owns its own
// generator.
type Factory struct {
	clock Clock
	seed  uint64
	fixed bool
	n     atomic.Uint64
}

func NewFactory(clock Clock) *Factory {
	return &Factory{clock: clock}
}

// NewSeededFactory makes reproducible sessions: the i-th session's
// generator is seeded with seed+i.
func NewSeededFactory(clock Clock, seed uint64) *Factory {
	return &Factory{clock: clock, seed: seed, fixed: true}
}

func (f *Factory) NewSession() *Session {
	if !f.fixed {
		return NewSession(nil, f.clock)
	}
	i := f.n.Add(1) - 1
	return NewSession(NewSeededGenerator(f.seed+i), f.clock)
}
