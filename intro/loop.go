package intro

import "time"

// Loop drives the per-frame tick and owns the cancel handle. The tick
// callback returns false to stop, and Stop may also be called from any
// event callback; either way no further ticks are scheduled.
type Loop struct {
	stopped bool
	last    time.Time
}

func NewLoop() *Loop {
	return &Loop{}
}

// Stop cancels the loop. Idempotent.
func (l *Loop) Stop() { l.stopped = true }

func (l *Loop) Stopped() bool { return l.stopped }

// Run calls tick with the measured frame delta until the loop is stopped.
// Runs on the caller's goroutine; rendering requires the main thread.
func (l *Loop) Run(tick func(dt float32) bool) {
	l.last = time.Now()
	for !l.stopped {
		now := time.Now()
		dt := float32(now.Sub(l.last).Seconds())
		l.last = now
		if !tick(dt) {
			l.stopped = true
		}
	}
}
