package variation

import (
	"math/rand"
	"reflect"
	"testing"

	"github.com/swoosh1337/chessmax-mobile-sub001/internal/opening"
	"github.com/swoosh1337/chessmax-mobile-sub001/internal/training"
)

func testOpening() opening.Opening {
	return opening.Opening{
		ID:   "italian-game",
		Name: "Italian Game",
		Side: "white",
		Variations: []opening.Variation{
			{Name: "Giuoco Pianissimo", PGN: "1. e4 e5 2. Nf3 Nc6 3. Bc4 Bc5"},
			{Name: "Evans Gambit", PGN: "1. e4 e5 2. Nf3 Nc6 3. Bc4 Bc5 4. b4"},
			{Name: "Two Knights Defense", PGN: "1. e4 e5 2. Nf3 Nc6 3. Bc4 Nf6"},
		},
	}
}

func newTestManager(t *testing.T, mode training.ModeID, order Order, completed map[string]bool, opts ...Option) *Manager {
	t.Helper()
	m, err := NewManager(testOpening(), mode, order, completed, opts...)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	return m
}

func TestNewManagerRejectsBadInput(t *testing.T) {
	if _, err := NewManager(testOpening(), training.ModeID("cram"), OrderSeries, nil); err == nil {
		t.Fatal("unknown mode should be rejected")
	}
	if _, err := NewManager(testOpening(), training.ModeLearn, Order("shuffled"), nil); err == nil {
		t.Fatal("unknown order should be rejected")
	}
	if _, err := NewManager(opening.Opening{ID: "empty"}, training.ModeLearn, OrderSeries, nil); err == nil {
		t.Fatal("opening without variations should be rejected")
	}
}

func TestUniqueVariationID(t *testing.T) {
	m := newTestManager(t, training.ModeLearn, OrderSeries, nil)
	if got := m.UniqueVariationID(1); got != "italian-game::Evans Gambit" {
		t.Fatalf("id = %q", got)
	}
	defer func() {
		if recover() == nil {
			t.Fatal("out-of-bounds id should panic")
		}
	}()
	m.UniqueVariationID(3)
}

func TestInitialAutoAdvance(t *testing.T) {
	completed := map[string]bool{
		"italian-game::Giuoco Pianissimo": true,
		"italian-game::Evans Gambit":      true,
	}
	m := newTestManager(t, training.ModeDrill, OrderSeries, completed)
	if m.CurrentIndex() != 2 {
		t.Fatalf("current = %d, want first pending", m.CurrentIndex())
	}
	want := []Status{StatusSuccess, StatusSuccess, StatusPending}
	if got := m.Statuses(training.ModeDrill); !reflect.DeepEqual(got, want) {
		t.Fatalf("drill statuses = %v", got)
	}
	if got := m.Statuses(training.ModeLearn); !reflect.DeepEqual(got, want) {
		t.Fatalf("learn statuses = %v", got)
	}
}

func TestInitialAutoAdvanceAllCompleted(t *testing.T) {
	completed := map[string]bool{
		"italian-game::Giuoco Pianissimo":   true,
		"italian-game::Evans Gambit":        true,
		"italian-game::Two Knights Defense": true,
	}
	m := newTestManager(t, training.ModeDrill, OrderSeries, completed)
	if m.CurrentIndex() != 0 {
		t.Fatalf("current = %d, want 0 when everything is done", m.CurrentIndex())
	}
}

func TestSwitchToVariationBounds(t *testing.T) {
	m := newTestManager(t, training.ModeLearn, OrderSeries, nil)
	m.SwitchToVariation(2)
	if m.CurrentIndex() != 2 || m.Current().Name != "Two Knights Defense" {
		t.Fatalf("current = %d %q", m.CurrentIndex(), m.Current().Name)
	}
	m.SwitchToVariation(-1)
	m.SwitchToVariation(3)
	if m.CurrentIndex() != 2 {
		t.Fatalf("out-of-bounds switch moved the cursor to %d", m.CurrentIndex())
	}
}

func TestSeriesOrderWrapsAround(t *testing.T) {
	m := newTestManager(t, training.ModeLearn, OrderSeries, nil)
	for _, want := range []int{1, 2, 0, 1} {
		if got := m.HandleNextVariation(); got != want {
			t.Fatalf("next = %d, want %d", got, want)
		}
	}
}

// Random order must visit every pending variation before repeating any.
func TestRandomOrderCoversBeforeRepeating(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	m := newTestManager(t, training.ModeDrill, OrderRandom, nil, WithRand(rng.Intn))

	visited := map[int]bool{m.CurrentIndex(): true}
	m.MarkVariationComplete(true)
	for len(visited) < m.Count() {
		idx := m.HandleNextVariation()
		if visited[idx] {
			t.Fatalf("index %d repeated before full coverage (visited %v)", idx, visited)
		}
		visited[idx] = true
		m.MarkVariationComplete(true)
	}
}

func TestRandomOrderFallsBackWhenNonePending(t *testing.T) {
	calls := 0
	fixed := func(n int) int {
		calls++
		if n != 3 {
			t.Fatalf("fallback should draw over all %d variations, got n=%d", 3, n)
		}
		return 1
	}
	m := newTestManager(t, training.ModeDrill, OrderRandom, nil, WithRand(fixed))
	for i := 0; i < m.Count(); i++ {
		m.SwitchToVariation(i)
		m.MarkVariationComplete(true)
	}
	if got := m.HandleNextVariation(); got != 1 {
		t.Fatalf("next = %d", got)
	}
	// The fallback may legitimately re-select the current index.
	if got := m.HandleNextVariation(); got != 1 {
		t.Fatalf("next = %d", got)
	}
	if calls != 2 {
		t.Fatalf("rand calls = %d", calls)
	}
}

func TestMarkCompleteDrillWritesOutcomeAndBackfillsLearn(t *testing.T) {
	m := newTestManager(t, training.ModeDrill, OrderSeries, nil)
	m.MarkVariationComplete(true)
	if got := m.Statuses(training.ModeDrill); !reflect.DeepEqual(got, []Status{StatusSuccess, StatusPending, StatusPending}) {
		t.Fatalf("drill statuses = %v", got)
	}
	if got := m.Statuses(training.ModeLearn)[0]; got != StatusSuccess {
		t.Fatalf("learn[0] = %v, drill progress should back-fill", got)
	}

	m.SwitchToVariation(1)
	m.MarkVariationComplete(false)
	if got := m.Statuses(training.ModeDrill)[1]; got != StatusError {
		t.Fatalf("drill[1] = %v", got)
	}
}

func TestMarkCompleteLearnIsAlwaysSuccess(t *testing.T) {
	m := newTestManager(t, training.ModeLearn, OrderSeries, nil)
	m.MarkVariationComplete(false)
	if got := m.Statuses(training.ModeLearn)[0]; got != StatusSuccess {
		t.Fatalf("learn[0] = %v", got)
	}
	if got := m.Statuses(training.ModeDrill)[0]; got != StatusPending {
		t.Fatalf("drill[0] = %v, learn completion must not touch drill", got)
	}
}

func TestSetModeKeepsIndependentArrays(t *testing.T) {
	m := newTestManager(t, training.ModeLearn, OrderSeries, nil)
	m.MarkVariationComplete(true)
	if err := m.SetMode(training.ModeDrill); err != nil {
		t.Fatalf("SetMode: %v", err)
	}
	if got := m.Statuses(training.ModeDrill); !reflect.DeepEqual(got, []Status{StatusPending, StatusPending, StatusPending}) {
		t.Fatalf("drill statuses = %v", got)
	}
	if err := m.SetMode(training.ModeID("cram")); err == nil {
		t.Fatal("unknown mode should be rejected")
	}
}

func TestResetStatuses(t *testing.T) {
	m := newTestManager(t, training.ModeDrill, OrderSeries, nil)
	m.MarkVariationComplete(true)
	m.ResetStatuses()
	all := []Status{StatusPending, StatusPending, StatusPending}
	if got := m.Statuses(training.ModeDrill); !reflect.DeepEqual(got, all) {
		t.Fatalf("drill statuses = %v", got)
	}
	if got := m.Statuses(training.ModeLearn); !reflect.DeepEqual(got, all) {
		t.Fatalf("learn statuses = %v", got)
	}
}
