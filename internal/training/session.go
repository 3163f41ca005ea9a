// Package training runs a single opening-variation rehearsal: it owns
// one engine, the expected move sequence, and the timers for opponent
// replies, hint expiry and wrong-move highlights. All exported methods
// are safe for concurrent use.
package training

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/swoosh1337/chessmax-mobile-sub001/internal/engine"
	"github.com/swoosh1337/chessmax-mobile-sub001/internal/obslog"
	"github.com/swoosh1337/chessmax-mobile-sub001/internal/pgn"
)

const (
	defaultOpponentReplyDelay = 600 * time.Millisecond
	defaultHintExpiry         = 4 * time.Second
	defaultWrongMoveExpiry    = 800 * time.Millisecond
)

type phase uint8

const (
	phaseAwaitingPlayer phase = iota
	phaseOpponentPending
	phaseCompleted
)

// Callbacks receive session events. Nil fields are skipped. They are
// invoked outside the session lock, so they may call back into the
// session.
type Callbacks struct {
	OnCorrectMove   func(m engine.Move)
	OnIncorrectMove func()
	OnComplete      func(errors, hintsUsed int)
}

// Hint is the origin and destination of the expected next move.
type Hint struct {
	From engine.Square
	To   engine.Square
}

// Option customizes a session at start time.
type Option func(*Session)

// WithScheduler replaces the production timer scheduler, mainly for
// deterministic tests.
func WithScheduler(sched Scheduler) Option {
	return func(s *Session) { s.sched = sched }
}

// WithCallbacks wires the event callbacks.
func WithCallbacks(cb Callbacks) Option {
	return func(s *Session) { s.cb = cb }
}

// WithLogger overrides the package logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Session) { s.logger = logger }
}

// WithOpponentReplyDelay sets the pause before the scripted opponent
// move is played.
func WithOpponentReplyDelay(d time.Duration) Option {
	return func(s *Session) { s.opponentDelay = d }
}

// WithHintExpiry sets how long a shown hint stays visible.
func WithHintExpiry(d time.Duration) Option {
	return func(s *Session) { s.hintExpiry = d }
}

// WithWrongMoveExpiry sets how long the wrong-move highlight stays
// visible in drill mode.
func WithWrongMoveExpiry(d time.Duration) Option {
	return func(s *Session) { s.wrongExpiry = d }
}

// Session drives one variation rehearsal from start to completion. The
// player always moves for playerColor; the session auto-plays the other
// side from the sequence after a short delay.
type Session struct {
	mu sync.Mutex

	id     string
	mode   Mode
	player engine.Color
	seq    pgn.Sequence
	eng    *engine.Engine
	cb     Callbacks
	sched  Scheduler
	logger *zap.Logger

	opponentDelay time.Duration
	hintExpiry    time.Duration
	wrongExpiry   time.Duration

	phase       phase
	selected    engine.Square
	targets     []engine.Square
	errors      int
	hintsUsed   int
	hint        *Hint
	wrongSquare engine.Square
	disposed    bool

	// gen invalidates timer callbacks issued before a Reset or Dispose.
	gen uint64

	cancelOpponent CancelFunc
	cancelHint     CancelFunc
	cancelWrong    CancelFunc
}

// StartVariation begins a rehearsal of the line in movetext with the
// player steering playerColor. When the player is black the first white
// move is applied immediately; an empty sequence completes on the spot.
func StartVariation(movetext string, playerColor engine.Color, modeID ModeID, opts ...Option) (*Session, error) {
	mode, err := ModeByID(modeID)
	if err != nil {
		return nil, err
	}
	s := &Session{
		id:            uuid.NewString(),
		mode:          mode,
		player:        playerColor,
		seq:           pgn.Parse(movetext),
		eng:           engine.New(),
		sched:         NewTimerScheduler(),
		logger:        obslog.L(),
		opponentDelay: defaultOpponentReplyDelay,
		hintExpiry:    defaultHintExpiry,
		wrongExpiry:   defaultWrongMoveExpiry,
		selected:      engine.NoSquare,
		wrongSquare:   engine.NoSquare,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.mu.Lock()
	fires := s.initLocked()
	s.mu.Unlock()
	run(fires)
	return s, nil
}

// initLocked puts the session into its starting state. Shared by
// StartVariation and Reset.
func (s *Session) initLocked() []func() {
	if s.player == engine.Black && len(s.seq.White) > 0 {
		first := s.seq.White[0]
		if _, err := s.eng.MoveSAN(first); err != nil {
			s.logger.Error("unplayable opening move", zap.String("san", first), zap.Error(err))
			return s.completeLocked()
		}
	}
	if s.seq.IsEmpty() || s.eng.PlyCount() >= s.seq.Len() {
		return s.completeLocked()
	}
	s.phase = phaseAwaitingPlayer
	if s.mode.ShowHints {
		s.autoHintLocked()
	}
	return nil
}

// ID returns the unique session identifier.
func (s *Session) ID() string { return s.id }

// Mode returns the active mode configuration.
func (s *Session) Mode() Mode { return s.mode }

// PlayerColor returns the side the player is steering.
func (s *Session) PlayerColor() engine.Color { return s.player }

// OnSquarePress handles a tap on a board square: select an own piece,
// deselect it on a second tap, or attempt the move to a highlighted
// target.
func (s *Session) OnSquarePress(sq engine.Square) {
	s.mu.Lock()
	var fires []func()
	switch {
	case s.disposed || s.phase != phaseAwaitingPlayer:
	case sq == s.selected:
		s.clearSelectionLocked()
	default:
		if p, ok := s.eng.Piece(sq); ok && p.Color == s.player {
			s.selected = sq
			s.targets = s.eng.LegalMoves(sq)
			break
		}
		if s.selected != engine.NoSquare {
			if s.isTargetLocked(sq) {
				fires = s.tryMoveLocked(s.selected, sq)
			} else {
				s.clearSelectionLocked()
				fires = append(fires, s.fireIncorrect())
			}
		}
	}
	s.mu.Unlock()
	run(fires)
}

// OnDropMove handles a drag-and-drop move attempt.
func (s *Session) OnDropMove(from, to engine.Square) {
	s.mu.Lock()
	var fires []func()
	if !s.disposed && s.phase == phaseAwaitingPlayer {
		if p, ok := s.eng.Piece(from); ok && p.Color == s.player {
			if containsSquare(s.eng.LegalMoves(from), to) {
				fires = s.tryMoveLocked(from, to)
			} else {
				s.clearSelectionLocked()
				fires = append(fires, s.fireIncorrect())
			}
		}
	}
	s.mu.Unlock()
	run(fires)
}

// tryMoveLocked applies a legal player move and validates it against the
// expected sequence. Off-line moves are retracted so the board only ever
// holds on-line positions.
func (s *Session) tryMoveLocked(from, to engine.Square) []func() {
	m, err := s.eng.Move(from, to)
	if err != nil {
		s.clearSelectionLocked()
		return []func(){s.fireIncorrect()}
	}
	want, ok := s.seq.MoveAt(s.eng.PlyCount() - 1)
	if !ok || !sanEqual(m.SAN, want) {
		s.eng.Undo()
		s.clearSelectionLocked()
		fires := []func(){s.fireIncorrect()}
		if s.mode.ShowMistakes {
			s.errors++
			s.showWrongSquareLocked(to)
		}
		if s.mode.ShowHints {
			s.autoHintLocked()
		}
		return fires
	}

	s.clearSelectionLocked()
	s.clearHintLocked()
	s.clearWrongSquareLocked()
	fires := []func(){s.fireCorrect(m)}

	if s.eng.PlyCount() >= s.seq.Len() {
		return append(fires, s.completeLocked()...)
	}
	s.phase = phaseOpponentPending
	gen := s.gen
	s.cancelOpponent = s.sched.AfterFunc(s.opponentDelay, func() { s.opponentReply(gen) })
	return fires
}

// opponentReply plays the next scripted move for the non-player side.
func (s *Session) opponentReply(gen uint64) {
	s.mu.Lock()
	var fires []func()
	if !s.disposed && gen == s.gen && s.phase == phaseOpponentPending {
		san, ok := s.seq.MoveAt(s.eng.PlyCount())
		if !ok {
			fires = s.completeLocked()
		} else if _, err := s.eng.MoveSAN(san); err != nil {
			s.logger.Error("unplayable opponent move", zap.String("san", san), zap.Error(err))
			fires = s.completeLocked()
		} else if s.eng.PlyCount() >= s.seq.Len() {
			fires = s.completeLocked()
		} else {
			s.phase = phaseAwaitingPlayer
			if s.mode.ShowHints {
				s.autoHintLocked()
			}
		}
	}
	s.mu.Unlock()
	run(fires)
}

// HandleHint toggles the hint for the expected next move and counts the
// request.
func (s *Session) HandleHint() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.disposed || s.phase != phaseAwaitingPlayer {
		return
	}
	if s.hint != nil {
		s.clearHintLocked()
		return
	}
	if s.showHintLocked() {
		s.hintsUsed++
	}
}

// autoHintLocked shows the hint without charging the manual counter.
func (s *Session) autoHintLocked() { s.showHintLocked() }

func (s *Session) showHintLocked() bool {
	want, ok := s.seq.MoveAt(s.eng.PlyCount())
	if !ok {
		return false
	}
	from, to, err := s.eng.PreviewSAN(want)
	if err != nil {
		s.logger.Warn("hint for unplayable move", zap.String("san", want), zap.Error(err))
		return false
	}
	s.clearHintLocked()
	s.hint = &Hint{From: from, To: to}
	gen := s.gen
	s.cancelHint = s.sched.AfterFunc(s.hintExpiry, func() { s.expireHint(gen) })
	return true
}

func (s *Session) expireHint(gen uint64) {
	s.mu.Lock()
	if !s.disposed && gen == s.gen {
		s.hint = nil
		s.cancelHint = nil
	}
	s.mu.Unlock()
}

func (s *Session) showWrongSquareLocked(sq engine.Square) {
	s.clearWrongSquareLocked()
	s.wrongSquare = sq
	gen := s.gen
	s.cancelWrong = s.sched.AfterFunc(s.wrongExpiry, func() { s.expireWrongSquare(gen) })
}

func (s *Session) expireWrongSquare(gen uint64) {
	s.mu.Lock()
	if !s.disposed && gen == s.gen {
		s.wrongSquare = engine.NoSquare
		s.cancelWrong = nil
	}
	s.mu.Unlock()
}

// Undo takes back the player's last accepted move, together with the
// opponent reply that followed it, and reopens the position for input.
// It reports false when the mode forbids undo or there is nothing to
// take back.
func (s *Session) Undo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.disposed || !s.mode.AllowUndo || s.phase == phaseCompleted {
		return false
	}
	base := 0
	if s.player == engine.Black {
		base = 1
	}
	if s.eng.PlyCount() <= base {
		return false
	}
	if s.cancelOpponent != nil {
		s.cancelOpponent()
		s.cancelOpponent = nil
	}
	s.phase = phaseAwaitingPlayer
	if hist := s.eng.History(); hist[len(hist)-1].Color != s.player {
		s.eng.Undo()
	}
	if s.eng.PlyCount() > base {
		s.eng.Undo()
	}
	s.clearSelectionLocked()
	s.clearWrongSquareLocked()
	if s.mode.ShowHints {
		s.autoHintLocked()
	} else {
		s.clearHintLocked()
	}
	return true
}

// Reset restarts the same variation from the beginning, clearing errors
// and hint counters.
func (s *Session) Reset() {
	s.mu.Lock()
	var fires []func()
	if !s.disposed {
		s.gen++
		s.cancelTimersLocked()
		s.eng.Reset()
		s.errors = 0
		s.hintsUsed = 0
		s.hint = nil
		s.wrongSquare = engine.NoSquare
		s.clearSelectionLocked()
		fires = s.initLocked()
	}
	s.mu.Unlock()
	run(fires)
}

// Dispose cancels all pending timers and makes every later call a
// no-op. It never fires OnComplete.
func (s *Session) Dispose() {
	s.mu.Lock()
	if !s.disposed {
		s.disposed = true
		s.gen++
		s.cancelTimersLocked()
	}
	s.mu.Unlock()
}

// completeLocked moves the session into its terminal phase exactly once.
func (s *Session) completeLocked() []func() {
	if s.phase == phaseCompleted {
		return nil
	}
	s.phase = phaseCompleted
	s.cancelTimersLocked()
	s.hint = nil
	s.wrongSquare = engine.NoSquare
	s.clearSelectionLocked()
	if s.cb.OnComplete == nil {
		return nil
	}
	errs, hints := s.errors, s.hintsUsed
	fn := s.cb.OnComplete
	return []func(){func() { fn(errs, hints) }}
}

// Completed reports whether the whole sequence has been played out.
func (s *Session) Completed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase == phaseCompleted
}

// Perfect reports a completed run with no wrong moves.
func (s *Session) Perfect() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase == phaseCompleted && s.errors == 0
}

// Errors returns the number of off-line moves played so far.
func (s *Session) Errors() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errors
}

// HintsUsed returns the number of manual hint requests.
func (s *Session) HintsUsed() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hintsUsed
}

// SelectedSquare returns the currently selected square, ok false when
// nothing is selected.
func (s *Session) SelectedSquare() (engine.Square, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selected, s.selected != engine.NoSquare
}

// LegalTargets returns the highlighted destinations for the selection.
func (s *Session) LegalTargets() []engine.Square {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]engine.Square, len(s.targets))
	copy(out, s.targets)
	return out
}

// Hint returns the visible hint, ok false when none is shown.
func (s *Session) Hint() (Hint, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.hint == nil {
		return Hint{}, false
	}
	return *s.hint, true
}

// WrongSquare returns the square highlighted after a wrong drill move,
// ok false when the highlight is not active.
func (s *Session) WrongSquare() (engine.Square, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.wrongSquare, s.wrongSquare != engine.NoSquare
}

// FEN returns the current position.
func (s *Session) FEN() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.eng.FEN()
}

// PlyCount returns the number of half-moves on the board, including any
// pre-applied white move when the player is black.
func (s *Session) PlyCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.eng.PlyCount()
}

// History returns the applied moves in order.
func (s *Session) History() []engine.Move {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.eng.History()
}

func (s *Session) clearSelectionLocked() {
	s.selected = engine.NoSquare
	s.targets = nil
}

func (s *Session) clearHintLocked() {
	if s.cancelHint != nil {
		s.cancelHint()
		s.cancelHint = nil
	}
	s.hint = nil
}

func (s *Session) clearWrongSquareLocked() {
	if s.cancelWrong != nil {
		s.cancelWrong()
		s.cancelWrong = nil
	}
	s.wrongSquare = engine.NoSquare
}

func (s *Session) cancelTimersLocked() {
	if s.cancelOpponent != nil {
		s.cancelOpponent()
		s.cancelOpponent = nil
	}
	if s.cancelHint != nil {
		s.cancelHint()
		s.cancelHint = nil
	}
	if s.cancelWrong != nil {
		s.cancelWrong()
		s.cancelWrong = nil
	}
}

func (s *Session) isTargetLocked(sq engine.Square) bool {
	return containsSquare(s.targets, sq)
}

func (s *Session) fireCorrect(m engine.Move) func() {
	fn := s.cb.OnCorrectMove
	if fn == nil {
		return func() {}
	}
	return func() { fn(m) }
}

func (s *Session) fireIncorrect() func() {
	fn := s.cb.OnIncorrectMove
	if fn == nil {
		return func() {}
	}
	return fn
}

func containsSquare(squares []engine.Square, sq engine.Square) bool {
	for _, s := range squares {
		if s == sq {
			return true
		}
	}
	return false
}

func run(fires []func()) {
	for _, fn := range fires {
		fn()
	}
}

// sanEqual compares SAN tokens ignoring annotation glyphs, check and
// mate suffixes, and zero-style castle notation.
func sanEqual(a, b string) bool {
	return normalizeSANToken(a) == normalizeSANToken(b)
}

func normalizeSANToken(s string) string {
	s = strings.TrimRight(s, "+#!?")
	return strings.ReplaceAll(s, "0", "O")
}
