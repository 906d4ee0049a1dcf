package game

import (
	"sync"
	"time"
)

// Status is the session state machine.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusPlaying Status = "playing"
	StatusPaused  Status = "paused"
	StatusWon     Status = "won"
	StatusLost    Status = "lost"
)

// Finished reports whether s is terminal.
func (s Status) Finished() bool {
	return s == StatusWon || s == StatusLost
}

// Listener observes a session. Callbacks run while the session lock is
// held: they must not block and must not call back into the session.
type Listener interface {
	OnTick(elapsed int)
	OnChange(v View)
	OnFinish(r Result)
}

// Result is emitted once when a game is won or lost.
type Result struct {
	Difficulty     Difficulty    `json:"difficulty"`
	Status         Status        `json:"status"`
	Rows           int           `json:"rows"`
	Cols           int           `json:"cols"`
	Mines          int           `json:"mines"`
	ElapsedSeconds int           `json:"elapsed_seconds"`
	MinesRemaining int           `json:"mines_remaining"`
	RevealedSafe   int           `json:"revealed_safe_count"`
	Duration       time.Duration `json:"-"`
}

// Session is one player's game. All methods are safe for concurrent use;
// each runs to completion before the next starts.
type Session struct {
	mu       sync.Mutex
	gen      *Generator
	timer    *Timer
	listener Listener

	difficulty Difficulty
	params     Params
	board      *Board // nil until the first click
	revealed   *RevealMap
	status     Status
	elapsed    int
	safe       int // revealed non-mine cells
	epoch      uint64
	snapshot   *Snapshot
	startedAt  time.Time
	touchedAt  time.Time
}

// NewSession returns an Idle session. A nil generator or clock selects the
// production defaults.
func NewSession(gen *Generator, clock Clock) *Session {
	if gen == nil {
		gen = NewGenerator(nil)
	}
	return &Session{
		gen:        gen,
		timer:      NewTimer(clock),
		difficulty: Easy,
		params:     presets[Easy],
		status:     StatusIdle,
		touchedAt:  time.Now(),
	}
}

// SetListener installs l; nil removes it.
func (s *Session) SetListener(l Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listener = l
}

// Start begins a fresh game at a preset difficulty. The board is generated
// on the first click.
func (s *Session) Start(d Difficulty) error {
	p, err := ParamsFor(d)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.begin(d, p, nil)
	return nil
}

// StartCustom begins a fresh game on a custom board.
func (s *Session) StartCustom(p Params) error {
	if err := p.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.begin(Custom, p, nil)
	return nil
}

// StartWithBoard begins a game on a fixed board instead of generating one
// on the first click.
func (s *Session) StartWithBoard(d Difficulty, b *Board) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.begin(d, Params{Rows: b.Rows(), Cols: b.Cols(), Mines: b.Mines()}, b)
}

// Reset starts over at the current difficulty.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.begin(s.difficulty, s.params, nil)
}

func (s *Session) begin(d Difficulty, p Params, b *Board) {
	s.difficulty = d
	s.params = p
	s.board = b
	s.revealed = NewRevealMap(p.Rows, p.Cols)
	s.elapsed = 0
	s.safe = 0
	s.snapshot = nil
	s.startedAt = time.Now()
	s.setStatus(StatusPlaying)
	s.changed()
}

// Click reveals (row, col). Ignored unless Playing.
func (s *Session) Click(row, col int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status != StatusPlaying {
		return
	}
	if s.revealed.At(row, col) != Hidden {
		return
	}
	if s.board == nil {
		s.board = s.gen.GenerateSafe(s.params.Rows, s.params.Cols, s.params.Mines, row, col)
	}
	if s.board.IsMine(row, col) {
		Reveal(s.board, s.revealed, row, col)
		s.finish(StatusLost)
		return
	}
	s.safe += Reveal(s.board, s.revealed, row, col)
	if !s.checkWin() {
		s.changed()
	}
}

// ToggleFlag flags or unflags (row, col). Ignored unless Playing.
func (s *Session) ToggleFlag(row, col int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status != StatusPlaying {
		return
	}
	if !ToggleFlag(s.revealed, row, col) {
		return
	}
	if !s.checkWin() {
		s.changed()
	}
}

// Pause freezes the clock and keeps a snapshot of the game.
func (s *Session) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status != StatusPlaying {
		return
	}
	s.snapshot = s.snapshotLocked()
	s.setStatus(StatusPaused)
	s.changed()
}

// Resume restarts the clock after Pause.
func (s *Session) Resume() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status != StatusPaused {
		return
	}
	s.setStatus(StatusPlaying)
	s.changed()
}

// Close stops the clock for good.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.epoch++
	s.timer.Stop()
}

// checkWin finishes the game when every safe cell is open. Flags do not
// count.
func (s *Session) checkWin() bool {
	if s.board == nil || s.safe != s.params.Total()-s.board.Mines() {
		return false
	}
	s.finish(StatusWon)
	return true
}

func (s *Session) finish(st Status) {
	s.setStatus(st)
	s.changed()
	if s.listener != nil {
		s.listener.OnFinish(s.resultLocked())
	}
}

// setStatus moves the state machine and keeps the timer running exactly
// while Playing.
func (s *Session) setStatus(st Status) {
	s.status = st
	s.touchedAt = time.Now()
	s.epoch++
	if st != StatusPlaying {
		s.timer.Stop()
		return
	}
	epoch := s.epoch
	s.timer.Start(func() { s.tick(epoch) })
}

func (s *Session) tick(epoch uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if epoch != s.epoch || s.status != StatusPlaying {
		return
	}
	s.elapsed++
	if s.listener != nil {
		s.listener.OnTick(s.elapsed)
	}
}

func (s *Session) changed() {
	s.touchedAt = time.Now()
	if s.listener != nil {
		s.listener.OnChange(s.viewLocked())
	}
}

func (s *Session) mines() int {
	if s.board != nil {
		return s.board.Mines()
	}
	return s.params.Mines
}

func (s *Session) resultLocked() Result {
	return Result{
		Difficulty:     s.difficulty,
		Status:         s.status,
		Rows:           s.params.Rows,
		Cols:           s.params.Cols,
		Mines:          s.mines(),
		ElapsedSeconds: s.elapsed,
		MinesRemaining: s.mines() - s.revealed.Flagged(),
		RevealedSafe:   s.safe,
		Duration:       time.Since(s.startedAt),
	}
}

func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

func (s *Session) Difficulty() Difficulty {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.difficulty
}

func (s *Session) Elapsed() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.elapsed
}

func (s *Session) RevealedSafe() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.safe
}

func (s *Session) MinesRemaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.revealed == nil {
		return s.mines()
	}
	return s.mines() - s.revealed.Flagged()
}

// InBounds reports whether (row, col) is on the current board. Always false
// before the first Start.
func (s *Session) InBounds(row, col int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.revealed != nil && s.revealed.InBounds(row, col)
}

// Result returns the outcome of a finished game.
func (s *Session) Result() (Result, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.status.Finished() {
		return Result{}, false
	}
	return s.resultLocked(), true
}

// LastActivity is when the session last changed state.
func (s *Session) LastActivity() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.touchedAt
}

// TimerRunning reports whether the game clock is scheduled.
func (s *Session) TimerRunning() bool {
	return s.timer.Running()
}
