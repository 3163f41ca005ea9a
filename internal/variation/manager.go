// Package variation tracks which line of an opening is active, keeps
// per-mode completion status arrays, and picks the next variation under
// series or random progression.
package variation

import (
	"fmt"
	"math/rand"

	"go.uber.org/zap"

	"github.com/swoosh1337/chessmax-mobile-sub001/internal/obslog"
	"github.com/swoosh1337/chessmax-mobile-sub001/internal/opening"
	"github.com/swoosh1337/chessmax-mobile-sub001/internal/training"
)

// Order selects the progression strategy across variations.
type Order string

const (
	OrderSeries Order = "series"
	OrderRandom Order = "random"
)

// Status is the per-variation completion state within one mode.
type Status uint8

const (
	StatusPending Status = iota
	StatusSuccess
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// Option customizes a Manager at construction time.
type Option func(*Manager)

// WithRand injects the random source used by OrderRandom, for
// deterministic tests. fn must return a value in [0, n).
func WithRand(fn func(n int) int) Option {
	return func(m *Manager) { m.intn = fn }
}

// WithLogger overrides the package logger.
func WithLogger(logger *zap.Logger) Option {
	return func(m *Manager) { m.logger = logger }
}

// Manager owns the variation cursor and the status arrays for one
// opening screen. It is not safe for concurrent use; like the session it
// is driven by a single event loop.
type Manager struct {
	opening  opening.Opening
	mode     training.ModeID
	order    Order
	current  int
	statuses map[training.ModeID][]Status
	intn     func(n int) int
	logger   *zap.Logger
}

// NewManager builds a manager for the opening, seeding both mode arrays
// from the set of previously completed variation ids and advancing the
// cursor to the first variation not in that set. When every variation is
// already completed the cursor stays at 0.
func NewManager(o opening.Opening, mode training.ModeID, order Order, completed map[string]bool, opts ...Option) (*Manager, error) {
	if _, err := training.ModeByID(mode); err != nil {
		return nil, err
	}
	if order != OrderSeries && order != OrderRandom {
		return nil, fmt.Errorf("variation: unknown order %q", order)
	}
	if len(o.Variations) == 0 {
		return nil, fmt.Errorf("variation: opening %s has no variations", o.ID)
	}
	m := &Manager{
		opening: o,
		mode:    mode,
		order:   order,
		statuses: map[training.ModeID][]Status{
			training.ModeLearn: make([]Status, len(o.Variations)),
			training.ModeDrill: make([]Status, len(o.Variations)),
		},
		intn:   rand.Intn,
		logger: obslog.L(),
	}
	for _, opt := range opts {
		opt(m)
	}

	firstPending := -1
	for i := range o.Variations {
		if completed[m.UniqueVariationID(i)] {
			m.statuses[training.ModeLearn][i] = StatusSuccess
			m.statuses[training.ModeDrill][i] = StatusSuccess
		} else if firstPending < 0 {
			firstPending = i
		}
	}
	if firstPending > 0 {
		m.current = firstPending
		m.logger.Info("skipping completed variations",
			zap.String("opening", o.ID),
			zap.Int("index", m.current))
	}
	return m, nil
}

// Opening returns the opening the manager was built for.
func (m *Manager) Opening() opening.Opening { return m.opening }

// Count returns the number of variations.
func (m *Manager) Count() int { return len(m.opening.Variations) }

// CurrentIndex returns the active variation index.
func (m *Manager) CurrentIndex() int { return m.current }

// Current returns the active variation.
func (m *Manager) Current() opening.Variation {
	return m.opening.Variations[m.current]
}

// Mode returns the active training mode.
func (m *Manager) Mode() training.ModeID { return m.mode }

// SetMode switches the active mode. Status arrays are independent per
// mode and survive the switch.
func (m *Manager) SetMode(mode training.ModeID) error {
	if _, err := training.ModeByID(mode); err != nil {
		return err
	}
	m.mode = mode
	return nil
}

// SwitchToVariation moves the cursor to index. Out-of-bounds indices are
// ignored.
func (m *Manager) SwitchToVariation(index int) {
	if index < 0 || index >= len(m.opening.Variations) {
		m.logger.Debug("variation switch out of bounds",
			zap.String("opening", m.opening.ID),
			zap.Int("index", index))
		return
	}
	m.current = index
}

// HandleNextVariation advances the cursor and returns the new index. In
// series order it steps to (current+1) mod count. In random order it
// picks uniformly among still-pending variations of the active mode,
// falling back to a uniform pick over all variations once none are
// pending; the fallback may repeat the current index.
func (m *Manager) HandleNextVariation() int {
	count := len(m.opening.Variations)
	switch m.order {
	case OrderRandom:
		pending := make([]int, 0, count)
		for i, st := range m.statuses[m.mode] {
			if st == StatusPending {
				pending = append(pending, i)
			}
		}
		if len(pending) > 0 {
			m.current = pending[m.intn(len(pending))]
		} else {
			m.current = m.intn(count)
		}
	default:
		m.current = (m.current + 1) % count
	}
	m.logger.Debug("advanced variation",
		zap.String("opening", m.opening.ID),
		zap.String("order", string(m.order)),
		zap.Int("index", m.current))
	return m.current
}

// MarkVariationComplete records the outcome of the active variation in
// the active mode's status array. Learn completions always count as
// success. A drill completion also back-fills the learn status for the
// same index when it is still pending, so drill progress stays visible
// after a mode switch.
func (m *Manager) MarkVariationComplete(success bool) {
	st := StatusSuccess
	if m.mode == training.ModeDrill && !success {
		st = StatusError
	}
	m.statuses[m.mode][m.current] = st
	if m.mode == training.ModeDrill && m.statuses[training.ModeLearn][m.current] == StatusPending {
		m.statuses[training.ModeLearn][m.current] = StatusSuccess
	}
	m.logger.Info("variation completed",
		zap.String("id", m.UniqueVariationID(m.current)),
		zap.String("mode", string(m.mode)),
		zap.String("status", st.String()))
}

// Statuses returns a copy of the status array for the given mode.
func (m *Manager) Statuses(mode training.ModeID) []Status {
	src := m.statuses[mode]
	out := make([]Status, len(src))
	copy(out, src)
	return out
}

// ResetStatuses puts every variation of both modes back to pending.
func (m *Manager) ResetStatuses() {
	for mode := range m.statuses {
		for i := range m.statuses[mode] {
			m.statuses[mode][i] = StatusPending
		}
	}
}

// UniqueVariationID returns the stable composite key for a variation,
// used to correlate sessions with persisted completion rows. It panics
// on an out-of-bounds index since that is a caller contract violation.
func (m *Manager) UniqueVariationID(index int) string {
	if index < 0 || index >= len(m.opening.Variations) {
		panic(fmt.Sprintf("variation: index %d out of range for opening %s", index, m.opening.ID))
	}
	return m.opening.ID + "::" + m.opening.Variations[index].Name
}
