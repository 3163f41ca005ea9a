package training

import "time"

// CancelFunc cancels a scheduled task. Cancelling an already-fired or
// already-cancelled task is a no-op.
type CancelFunc func()

// Scheduler abstracts the delayed callbacks a session owns (opponent
// reply, hint expiry, wrong-move highlight expiry) so tests can fire
// them deterministically.
type Scheduler interface {
	AfterFunc(d time.Duration, fn func()) CancelFunc
}

type timerScheduler struct{}

// NewTimerScheduler returns the production scheduler backed by
// time.AfterFunc. Callbacks fire on their own goroutine; the session
// serializes them behind its mutex and a generation check.
func NewTimerScheduler() Scheduler { return timerScheduler{} }

func (timerScheduler) AfterFunc(d time.Duration, fn func()) CancelFunc {
	t := time.AfterFunc(d, fn)
	return func() { t.Stop() }
}
