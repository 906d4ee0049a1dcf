package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"minesweeper/internal/domain"
	"minesweeper/internal/game"
	"minesweeper/internal/logger"
	"minesweeper/internal/repository"
)

var (
	ErrNoSession   = errors.New("no active game")
	ErrInvalidCell = errors.New("cell is outside the board")
)

// Event names pushed to a player's connections.
const (
	EventState    = "state"
	EventTick     = "tick"
	EventFinished = "finished"
)

// Notifier delivers session events to a player. Notify is called with the
// session lock held and must not block.
type Notifier interface {
	Notify(playerID int64, event string, payload interface{})
}

// TickPayload is the body of a tick event.
type TickPayload struct {
	Elapsed int `json:"elapsed"`
}

// SessionService keeps one game session per player and records finished
// games.
type SessionService struct {
	factory     *game.Factory
	store       repository.Store
	leaderboard *LeaderboardService
	snapshots   SnapshotStore
	notifier    Notifier
	idleTimeout time.Duration
	log         *slog.Logger

	mu       sync.RWMutex
	sessions map[int64]*game.Session // playerID -> session

	wg       sync.WaitGroup
	recMu    sync.Mutex
	closed   bool // guards wg.Add against Close
	stop     chan struct{}
	stopOnce sync.Once
}

// NewSessionService wires the session manager. snapshots may be nil, in
// which case paused games live only in memory.
func NewSessionService(factory *game.Factory, store repository.Store, lb *LeaderboardService, snapshots SnapshotStore, idleTimeout time.Duration) *SessionService {
	if idleTimeout <= 0 {
		idleTimeout = 30 * time.Minute
	}
	return &SessionService{
		factory:     factory,
		store:       store,
		leaderboard: lb,
		snapshots:   snapshots,
		idleTimeout: idleTimeout,
		log:         logger.With("component", "sessions"),
		sessions:    make(map[int64]*game.Session),
		stop:        make(chan struct{}),
	}
}

// SetNotifier must be called before the service handles requests.
func (s *SessionService) SetNotifier(n Notifier) {
	s.notifier = n
}

// Start begins a new game for the player. params is only used for Custom.
func (s *SessionService) Start(ctx context.Context, playerID int64, d game.Difficulty, params *game.Params) (game.View, error) {
	if d == game.Custom {
		if params == nil {
			return game.View{}, game.ErrInvalidParams
		}
		if err := params.Validate(); err != nil {
			return game.View{}, err
		}
	} else if _, err := game.ParamsFor(d); err != nil {
		return game.View{}, err
	}

	sess := s.getOrCreate(playerID)
	var err error
	if d == game.Custom {
		err = sess.StartCustom(*params)
	} else {
		err = sess.Start(d)
	}
	if err != nil {
		return game.View{}, err
	}

	GamesStarted.WithLabelValues(string(d)).Inc()
	s.dropSnapshot(ctx, playerID)
	return sess.State(), nil
}

func (s *SessionService) Click(ctx context.Context, playerID int64, row, col int) (game.View, error) {
	return s.cellAction(ctx, playerID, row, col, (*game.Session).Click)
}

func (s *SessionService) ToggleFlag(ctx context.Context, playerID int64, row, col int) (game.View, error) {
	return s.cellAction(ctx, playerID, row, col, (*game.Session).ToggleFlag)
}

func (s *SessionService) cellAction(ctx context.Context, playerID int64, row, col int, fn func(*game.Session, int, int)) (game.View, error) {
	sess, err := s.lookup(ctx, playerID)
	if err != nil {
		return game.View{}, err
	}
	if !sess.InBounds(row, col) {
		return game.View{}, ErrInvalidCell
	}
	// a concurrent Start may have shrunk the board since the check
	if err := guardCoordinates(func() { fn(sess, row, col) }); err != nil {
		return game.View{}, err
	}
	return sess.State(), nil
}

// Pause stops the clock and stores the snapshot when a store is
// configured. A failed save is logged; the in-memory game stays paused.
func (s *SessionService) Pause(ctx context.Context, playerID int64) (game.View, error) {
	sess, err := s.lookup(ctx, playerID)
	if err != nil {
		return game.View{}, err
	}
	sess.Pause()
	s.saveSnapshot(ctx, playerID, sess)
	return sess.State(), nil
}

func (s *SessionService) Resume(ctx context.Context, playerID int64) (game.View, error) {
	sess, err := s.lookup(ctx, playerID)
	if err != nil {
		return game.View{}, err
	}
	sess.Resume()
	if sess.Status() == game.StatusPlaying {
		s.dropSnapshot(ctx, playerID)
	}
	return sess.State(), nil
}

func (s *SessionService) Reset(ctx context.Context, playerID int64) (game.View, error) {
	sess, err := s.lookup(ctx, playerID)
	if err != nil {
		return game.View{}, err
	}
	sess.Reset()
	GamesStarted.WithLabelValues(string(sess.Difficulty())).Inc()
	s.dropSnapshot(ctx, playerID)
	return sess.State(), nil
}

// State returns the player's current game, restoring a stored pause
// snapshot if there is no live session.
func (s *SessionService) State(ctx context.Context, playerID int64) (game.View, error) {
	sess, err := s.lookup(ctx, playerID)
	if err != nil {
		return game.View{}, err
	}
	return sess.State(), nil
}

// ActiveCount returns the number of sessions in memory.
func (s *SessionService) ActiveCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

func (s *SessionService) getOrCreate(playerID int64) *game.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[playerID]; ok {
		return sess
	}
	return s.addLocked(playerID)
}

func (s *SessionService) addLocked(playerID int64) *game.Session {
	sess := s.factory.NewSession()
	sess.SetListener(&sessionListener{svc: s, playerID: playerID})
	s.sessions[playerID] = sess
	ActiveSessions.Set(float64(len(s.sessions)))
	return sess
}

func (s *SessionService) lookup(ctx context.Context, playerID int64) (*game.Session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[playerID]
	s.mu.RUnlock()
	if ok {
		return sess, nil
	}
	if s.snapshots == nil {
		return nil, ErrNoSession
	}

	snap, err := s.snapshots.Load(ctx, playerID)
	if err != nil {
		s.log.Warn("load snapshot failed", "player_id", playerID, "error", err)
		return nil, ErrNoSession
	}
	if snap == nil {
		return nil, ErrNoSession
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[playerID]; ok {
		return sess, nil
	}
	sess = s.addLocked(playerID)
	if err := sess.Restore(snap); err != nil {
		delete(s.sessions, playerID)
		ActiveSessions.Set(float64(len(s.sessions)))
		sess.Close()
		s.log.Warn("discarding corrupt snapshot", "player_id", playerID, "error", err)
		_ = s.snapshots.Delete(ctx, playerID)
		return nil, ErrNoSession
	}
	s.log.Info("session restored from snapshot", "player_id", playerID, "difficulty", snap.Difficulty)
	return sess, nil
}

func (s *SessionService) saveSnapshot(ctx context.Context, playerID int64, sess *game.Session) {
	if s.snapshots == nil {
		return
	}
	snap, ok := sess.Snapshot()
	if !ok {
		return
	}
	if err := s.snapshots.Save(ctx, playerID, snap); err != nil {
		s.log.Warn("save snapshot failed", "player_id", playerID, "error", err)
	}
}

func (s *SessionService) dropSnapshot(ctx context.Context, playerID int64) {
	if s.snapshots == nil {
		return
	}
	if err := s.snapshots.Delete(ctx, playerID); err != nil {
		s.log.Warn("delete snapshot failed", "player_id", playerID, "error", err)
	}
}

// record persists a finished game. It runs off the session lock.
func (s *SessionService) record(playerID int64, r game.Result) {
	defer s.wg.Done()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result := domain.GameResultLose
	if r.Status == game.StatusWon {
		result = domain.GameResultWin
	}
	GamesFinished.WithLabelValues(string(r.Difficulty), string(result)).Inc()
	GameDuration.WithLabelValues(string(r.Difficulty), string(result)).Observe(float64(r.ElapsedSeconds))

	log := s.log.With("player_id", playerID, "difficulty", r.Difficulty, "result", result)

	if _, err := s.store.RecordResult(ctx, playerID, result, r.ElapsedSeconds); err != nil {
		log.Error("record stats failed", "error", err)
	}

	gh := &domain.GameHistory{
		PlayerID:   playerID,
		Difficulty: string(r.Difficulty),
		Result:     result,
		Elapsed:    r.ElapsedSeconds,
		Details: map[string]interface{}{
			"rows":                r.Rows,
			"cols":                r.Cols,
			"mines":               r.Mines,
			"mines_remaining":     r.MinesRemaining,
			"revealed_safe_count": r.RevealedSafe,
		},
	}
	if err := s.store.CreateHistory(ctx, gh); err != nil {
		log.Error("save history failed", "error", err)
	}

	if s.leaderboard != nil && result == domain.GameResultWin && game.IsRanked(r.Difficulty) {
		p, err := s.store.GetPlayerByID(ctx, playerID)
		if err != nil {
			log.Error("leaderboard: player lookup failed", "error", err)
			return
		}
		if _, err := s.leaderboard.Submit(ctx, playerID, p.Name, r); err != nil {
			log.Error("leaderboard submit failed", "error", err)
		}
	}
	log.Debug("game recorded", "elapsed", r.ElapsedSeconds)
}

// StartCleanup evicts idle sessions until Close.
func (s *SessionService) StartCleanup() {
	every := min(s.idleTimeout/2, time.Minute)
	go func() {
		ticker := time.NewTicker(every)
		defer ticker.Stop()
		for {
			select {
			case <-s.stop:
				return
			case now := <-ticker.C:
				s.sweep(now)
			}
		}
	}()
}

// sweep drops sessions untouched for longer than the idle timeout. Running
// games are paused first so their snapshot can be stored.
func (s *SessionService) sweep(now time.Time) int {
	type evicted struct {
		playerID int64
		sess     *game.Session
	}
	var out []evicted

	s.mu.Lock()
	for playerID, sess := range s.sessions {
		if now.Sub(sess.LastActivity()) <= s.idleTimeout {
			continue
		}
		sess.Pause()
		delete(s.sessions, playerID)
		out = append(out, evicted{playerID, sess})
	}
	ActiveSessions.Set(float64(len(s.sessions)))
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for _, e := range out {
		s.saveSnapshot(ctx, e.playerID, e.sess)
		e.sess.Close()
	}
	if len(out) > 0 {
		s.log.Info("evicted idle sessions", "count", len(out))
	}
	return len(out)
}

// Close stops the cleanup loop and every session clock, then waits for
// pending records to be written. Games finishing after Close are not
// recorded.
func (s *SessionService) Close() {
	s.stopOnce.Do(func() { close(s.stop) })

	s.recMu.Lock()
	s.closed = true
	s.recMu.Unlock()

	s.mu.Lock()
	for _, sess := range s.sessions {
		sess.Close()
	}
	s.mu.Unlock()

	s.wg.Wait()
}

func guardCoordinates(fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			var ce *game.CoordinateError
			if e, ok := r.(error); ok && errors.As(e, &ce) {
				err = ErrInvalidCell
				return
			}
			panic(r)
		}
	}()
	fn()
	return nil
}

type sessionListener struct {
	svc      *SessionService
	playerID int64
}

func (l *sessionListener) OnTick(elapsed int) {
	l.svc.notify(l.playerID, EventTick, TickPayload{Elapsed: elapsed})
}

func (l *sessionListener) OnChange(v game.View) {
	l.svc.notify(l.playerID, EventState, v)
}

func (l *sessionListener) OnFinish(r game.Result) {
	l.svc.notify(l.playerID, EventFinished, r)
	l.svc.spawnRecord(l.playerID, r)
}

func (s *SessionService) spawnRecord(playerID int64, r game.Result) {
	s.recMu.Lock()
	defer s.recMu.Unlock()
	if s.closed {
		s.log.Warn("service closed, game not recorded", "player_id", playerID, "difficulty", r.Difficulty)
		return
	}
	s.wg.Add(1)
	go s.record(playerID, r)
}

func (s *SessionService) notify(playerID int64, event string, payload interface{}) {
	if s.notifier != nil {
		s.notifier.Notify(playerID, event, payload)
	}
}
