package game

import (
	"sort"
	"sync"
	"time"
)

// Clock schedules repeating callbacks. The returned stop func is safe to
// call more than once.
type Clock interface {
	Every(d time.Duration, fn func()) (stop func())
}

// SystemClock runs fn on a time.Ticker in its own goroutine.
type SystemClock struct{}

func (SystemClock) Every(d time.Duration, fn func()) func() {
	ticker := time.NewTicker(d)
	done := make(chan struct{})

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				select {
				case <-done:
					return
				default:
				}
				fn()
			}
		}
	}()

	var once sync.Once
	return func() { once.Do(func() { close(done) }) }
}

// ManualClock fires callbacks only when Advance is called, on the caller's
// goroutine.
type ManualClock struct {
	mu   sync.Mutex
	seq  int
	subs map[int]func()
}

func NewManualClock() *ManualClock {
	return &ManualClock{subs: make(map[int]func())}
}

func (c *ManualClock) Every(_ time.Duration, fn func()) func() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	id := c.seq
	c.subs[id] = fn
	return func() {
		c.mu.Lock()
		delete(c.subs, id)
		c.mu.Unlock()
	}
}

// Advance delivers n ticks to every active callback, oldest first.
func (c *ManualClock) Advance(n int) {
	for ; n > 0; n-- {
		c.mu.Lock()
		ids := make([]int, 0, len(c.subs))
		for id := range c.subs {
			ids = append(ids, id)
		}
		sort.Ints(ids)
		fns := make([]func(), 0, len(ids))
		for _, id := range ids {
			fns = append(fns, c.subs[id])
		}
		c.mu.Unlock()

		for _, fn := range fns {
			fn()
		}
	}
}

// Active returns the number of running schedules.
func (c *ManualClock) Active() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.subs)
}

// Timer is the one-second game clock handle. Starting a running timer
// cancels the previous schedule first.
type Timer struct {
	clock Clock
	mu    sync.Mutex
	stop  func()
}

func NewTimer(clock Clock) *Timer {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Timer{clock: clock}
}

func (t *Timer) Start(onTick func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stop != nil {
		t.stop()
	}
	t.stop = t.clock.Every(time.Second, onTick)
}

func (t *Timer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stop != nil {
		t.stop()
		t.stop = nil
	}
}

func (t *Timer) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stop != nil
}
