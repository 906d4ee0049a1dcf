package game

import (
	"errors"
	"testing"
)

type recorder struct {
	ticks   []int
	changes []View
	results []Result
}

func (r *recorder) OnTick(elapsed int) { r.ticks = append(r.ticks, elapsed) }
func (r *recorder) OnChange(v View)    { r.changes = append(r.changes, v) }
func (r *recorder) OnFinish(res Result) {
	r.results = append(r.results, res)
}

func newTestSession(seed uint64) (*Session, *ManualClock, *recorder) {
	clock := NewManualClock()
	s := NewSession(NewSeededGenerator(seed), clock)
	rec := &recorder{}
	s.SetListener(rec)
	return s, clock, rec
}

func TestNewSessionIsIdle(t *testing.T) {
	s, clock, _ := newTestSession(1)
	if s.Status() != StatusIdle {
		t.Fatalf("status = %s; want idle", s.Status())
	}
	if s.TimerRunning() || clock.Active() != 0 {
		t.Fatalf("timer running before start")
	}
	if s.InBounds(0, 0) {
		t.Fatalf("InBounds true before start")
	}
	s.Click(0, 0)
	if s.Status() != StatusIdle {
		t.Fatalf("click on idle session changed status to %s", s.Status())
	}
}

func TestStartUsesPresetDimensions(t *testing.T) {
	for _, d := range Difficulties() {
		s, _, _ := newTestSession(1)
		if err := s.Start(d); err != nil {
			t.Fatalf("Start(%s): %v", d, err)
		}
		p, _ := ParamsFor(d)
		v := s.State()
		if v.Rows != p.Rows || v.Cols != p.Cols || v.Mines != p.Mines {
			t.Fatalf("%s: view %dx%d/%d; want %dx%d/%d", d, v.Rows, v.Cols, v.Mines, p.Rows, p.Cols, p.Mines)
		}
		if v.Status != StatusPlaying || v.MinesRemaining != p.Mines || v.ElapsedSeconds != 0 {
			t.Fatalf("%s: unexpected initial view %+v", d, v)
		}
		for r := range v.Cells {
			for c := range v.Cells[r] {
				if v.Cells[r][c].State != Hidden || v.Cells[r][c].Value != nil {
					t.Fatalf("%s: cell (%d,%d) not hidden", d, r, c)
				}
			}
		}
	}
}

func TestStartInvalidDifficultyKeepsState(t *testing.T) {
	s, _, _ := newTestSession(1)
	if err := s.Start(Medium); err != nil {
		t.Fatal(err)
	}
	s.Click(8, 8)
	before := s.RevealedSafe()

	err := s.Start("nightmare")
	if !errors.Is(err, ErrInvalidDifficulty) {
		t.Fatalf("err = %v; want ErrInvalidDifficulty", err)
	}
	if s.Difficulty() != Medium || s.Status() != StatusPlaying || s.RevealedSafe() != before {
		t.Fatalf("state changed after rejected start")
	}
}

func TestStartCustomValidates(t *testing.T) {
	s, _, _ := newTestSession(1)
	bad := []Params{
		{Rows: 0, Cols: 5, Mines: 1},
		{Rows: 5, Cols: MaxCols + 1, Mines: 1},
		{Rows: 3, Cols: 3, Mines: 9},
		{Rows: 3, Cols: 3, Mines: -1},
	}
	for _, p := range bad {
		if err := s.StartCustom(p); !errors.Is(err, ErrInvalidParams) {
			t.Fatalf("StartCustom(%+v) = %v; want ErrInvalidParams", p, err)
		}
	}
	if s.Status() != StatusIdle {
		t.Fatalf("status = %s after rejected custom starts", s.Status())
	}
	if err := s.StartCustom(Params{Rows: 7, Cols: 9, Mines: 12}); err != nil {
		t.Fatal(err)
	}
	if s.Difficulty() != Custom {
		t.Fatalf("difficulty = %s; want custom", s.Difficulty())
	}
}

func TestFirstClickIsSafe(t *testing.T) {
	for seed := uint64(1); seed <= 30; seed++ {
		s, _, _ := newTestSession(seed)
		if err := s.Start(Hard); err != nil {
			t.Fatal(err)
		}
		s.Click(7, 13)
		if s.Status() != StatusPlaying {
			t.Fatalf("seed %d: status %s after first click", seed, s.Status())
		}
		v := s.State()
		if c := v.Cells[7][13]; c.State != Revealed || c.Value == nil || *c.Value != 0 {
			t.Fatalf("seed %d: first click cell %+v", seed, c)
		}
		if s.RevealedSafe() < SafeZoneSize(16, 30, 7, 13) {
			t.Fatalf("seed %d: only %d cells opened", seed, s.RevealedSafe())
		}
	}
}

func TestFirstClickOnFlaggedCellDoesNotGenerate(t *testing.T) {
	s, _, _ := newTestSession(3)
	if err := s.Start(Easy); err != nil {
		t.Fatal(err)
	}
	s.ToggleFlag(4, 4)
	s.Click(4, 4)
	if s.RevealedSafe() != 0 {
		t.Fatalf("click on flag revealed %d cells", s.RevealedSafe())
	}
	s.ToggleFlag(4, 4)
	s.Click(4, 4)
	if v := s.State(); v.Cells[4][4].Value == nil || *v.Cells[4][4].Value != 0 {
		t.Fatalf("first real click not safe: %+v", v.Cells[4][4])
	}
}

func TestClickMineLoses(t *testing.T) {
	s, clock, rec := newTestSession(1)
	s.StartWithBoard(Easy, layout(t,
		"*...",
		"....",
		"...*",
	))
	clock.Advance(4)

	s.Click(0, 0)

	if s.Status() != StatusLost {
		t.Fatalf("status = %s; want lost", s.Status())
	}
	v := s.State()
	open := 0
	for r := range v.Cells {
		for c := range v.Cells[r] {
			if v.Cells[r][c].State == Revealed {
				open++
			}
			if v.Cells[r][c].Value == nil {
				t.Fatalf("cell (%d,%d) not disclosed after loss", r, c)
			}
		}
	}
	if open != 1 {
		t.Fatalf("%d cells revealed; want only the mine", open)
	}
	if len(rec.results) != 1 || rec.results[0].Status != StatusLost || rec.results[0].ElapsedSeconds != 4 {
		t.Fatalf("results = %+v", rec.results)
	}
	if s.TimerRunning() || clock.Active() != 0 {
		t.Fatalf("timer still running after loss")
	}

	clock.Advance(3)
	if s.Elapsed() != 4 {
		t.Fatalf("elapsed moved after loss: %d", s.Elapsed())
	}
	s.Click(2, 0)
	s.ToggleFlag(1, 1)
	if v := s.State(); v.Cells[2][0].State != Hidden || v.Cells[1][1].State != Hidden {
		t.Fatalf("finished session accepted input")
	}
}

func TestZeroMineBoardWinsOnFirstClick(t *testing.T) {
	s, _, rec := newTestSession(1)
	if err := s.StartCustom(Params{Rows: 2, Cols: 2}); err != nil {
		t.Fatal(err)
	}
	s.Click(1, 0)
	if s.Status() != StatusWon {
		t.Fatalf("status = %s; want won", s.Status())
	}
	if s.RevealedSafe() != 4 {
		t.Fatalf("revealed = %d; want 4", s.RevealedSafe())
	}
	if len(rec.results) != 1 || rec.results[0].Status != StatusWon {
		t.Fatalf("results = %+v", rec.results)
	}
	res, ok := s.Result()
	if !ok || res.Difficulty != Custom || res.RevealedSafe != 4 {
		t.Fatalf("Result() = %+v, %v", res, ok)
	}
}

func TestWinIgnoresFlags(t *testing.T) {
	s, _, _ := newTestSession(1)
	s.StartWithBoard(Easy, layout(t,
		"*..",
		"...",
		"..*",
	))

	// Flagging every mine does not win.
	s.ToggleFlag(0, 0)
	s.ToggleFlag(2, 2)
	if s.Status() != StatusPlaying {
		t.Fatalf("status = %s after flagging mines", s.Status())
	}

	// Flagging a safe cell and then revealing around it does not win either.
	s.ToggleFlag(0, 2)
	for _, c := range []Cell{{0, 1}, {1, 0}, {1, 1}, {1, 2}, {2, 0}, {2, 1}} {
		s.Click(c.Row, c.Col)
	}
	if s.Status() != StatusPlaying {
		t.Fatalf("won with a flagged safe cell hidden")
	}
	if s.MinesRemaining() != -1 {
		t.Fatalf("mines remaining = %d; want -1", s.MinesRemaining())
	}

	s.ToggleFlag(0, 2)
	s.Click(0, 2)
	if s.Status() != StatusWon {
		t.Fatalf("status = %s; want won", s.Status())
	}
}

func TestPauseFreezesElapsed(t *testing.T) {
	s, clock, rec := newTestSession(1)
	if err := s.Start(Easy); err != nil {
		t.Fatal(err)
	}

	clock.Advance(3)
	s.Pause()
	if _, ok := s.Snapshot(); !ok {
		t.Fatalf("no snapshot while paused")
	}
	clock.Advance(5)
	s.Resume()
	clock.Advance(2)

	if s.Elapsed() != 5 {
		t.Fatalf("elapsed = %d; want 5", s.Elapsed())
	}
	want := []int{1, 2, 3, 4, 5}
	if len(rec.ticks) != len(want) {
		t.Fatalf("ticks = %v; want %v", rec.ticks, want)
	}
	for i := range want {
		if rec.ticks[i] != want[i] {
			t.Fatalf("ticks = %v; want %v", rec.ticks, want)
		}
	}
	if _, ok := s.Snapshot(); ok {
		t.Fatalf("snapshot available after resume")
	}
}

func TestPausedSessionIgnoresInput(t *testing.T) {
	s, _, _ := newTestSession(1)
	if err := s.Start(Easy); err != nil {
		t.Fatal(err)
	}
	s.Pause()
	s.Click(5, 5)
	s.ToggleFlag(0, 0)
	s.Pause()
	if s.Status() != StatusPaused || s.RevealedSafe() != 0 || s.MinesRemaining() != 10 {
		t.Fatalf("paused session changed")
	}
	s.Resume()
	s.Resume()
	if s.Status() != StatusPlaying {
		t.Fatalf("status = %s; want playing", s.Status())
	}
}

func TestRestartDoesNotDoubleTick(t *testing.T) {
	s, clock, _ := newTestSession(1)
	for i := 0; i < 3; i++ {
		if err := s.Start(Easy); err != nil {
			t.Fatal(err)
		}
	}
	s.Reset()
	if clock.Active() != 1 {
		t.Fatalf("%d active schedules; want 1", clock.Active())
	}
	clock.Advance(4)
	if s.Elapsed() != 4 {
		t.Fatalf("elapsed = %d; want 4", s.Elapsed())
	}
}

func TestResetStartsOverAtSameDifficulty(t *testing.T) {
	s, clock, _ := newTestSession(1)
	if err := s.Start(Medium); err != nil {
		t.Fatal(err)
	}
	s.Click(0, 0)
	s.ToggleFlag(15, 15)
	clock.Advance(9)

	s.Reset()

	v := s.State()
	if v.Difficulty != Medium || v.Status != StatusPlaying || v.ElapsedSeconds != 0 || v.RevealedSafe != 0 || v.MinesRemaining != 40 {
		t.Fatalf("view after reset = %+v", v)
	}
	// board is regenerated on the next click, so it is safe again
	s.Click(15, 15)
	if s.Status() != StatusPlaying || s.State().Cells[15][15].State != Revealed {
		t.Fatalf("first click after reset not safe")
	}
}

func TestResetAfterLoss(t *testing.T) {
	s, _, _ := newTestSession(1)
	s.StartWithBoard(Easy, layout(t, "*.", ".."))
	s.Click(0, 0)
	if s.Status() != StatusLost {
		t.Fatal("expected loss")
	}
	s.Reset()
	if s.Status() != StatusPlaying || !s.TimerRunning() {
		t.Fatalf("reset did not restart the game")
	}
}

func TestCloseStopsTimer(t *testing.T) {
	s, clock, _ := newTestSession(1)
	if err := s.Start(Easy); err != nil {
		t.Fatal(err)
	}
	s.Close()
	clock.Advance(3)
	if s.Elapsed() != 0 || clock.Active() != 0 {
		t.Fatalf("closed session ticked: elapsed %d, active %d", s.Elapsed(), clock.Active())
	}
}

func TestListenerSeesChanges(t *testing.T) {
	s, _, rec := newTestSession(1)
	if err := s.Start(Easy); err != nil {
		t.Fatal(err)
	}
	s.ToggleFlag(3, 3)
	s.ToggleFlag(3, 3)
	s.Pause()

	statuses := make([]Status, len(rec.changes))
	for i, v := range rec.changes {
		statuses[i] = v.Status
	}
	want := []Status{StatusPlaying, StatusPlaying, StatusPlaying, StatusPaused}
	if len(statuses) != len(want) {
		t.Fatalf("changes = %v; want %v", statuses, want)
	}
	for i := range want {
		if statuses[i] != want[i] {
			t.Fatalf("changes = %v; want %v", statuses, want)
		}
	}
	if rec.changes[1].MinesRemaining != 9 || rec.changes[2].MinesRemaining != 10 {
		t.Fatalf("mines remaining not tracked: %d, %d", rec.changes[1].MinesRemaining, rec.changes[2].MinesRemaining)
	}
}

func TestFactorySeededSessionsAreReproducible(t *testing.T) {
	play := func() []int {
		f := NewSeededFactory(NewManualClock(), 42)
		var out []int
		for i := 0; i < 3; i++ {
			s := f.NewSession()
			if err := s.Start(Medium); err != nil {
				t.Fatal(err)
			}
			s.Click(8, 8)
			out = append(out, s.RevealedSafe())
		}
		return out
	}
	a, b := play(), play()
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("runs differ: %v vs %v", a, b)
		}
	}
}
