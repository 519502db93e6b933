package intro

import "testing"

func TestLoopStopsWhenTickReturnsFalse(t *testing.T) {
	l := NewLoop()
	ticks := 0
	l.Run(func(dt float32) bool {
		if dt < 0 {
			t.Errorf("negative frame delta: %v", dt)
		}
		ticks++
		return ticks < 5
	})

	if ticks != 5 {
		t.Errorf("expected 5 ticks, got %d", ticks)
	}
	if !l.Stopped() {
		t.Error("loop should report stopped after Run returns")
	}
}

func TestLoopStopFromCallback(t *testing.T) {
	l := NewLoop()
	ticks := 0
	l.Run(func(dt float32) bool {
		ticks++
		l.Stop() // simulates a window-close or handoff callback
		return true
	})

	if ticks != 1 {
		t.Errorf("Stop from inside a tick should halt immediately, got %d ticks", ticks)
	}
}

func TestLoopStoppedBeforeRun(t *testing.T) {
	l := NewLoop()
	l.Stop()
	ran := false
	l.Run(func(dt float32) bool {
		ran = true
		return true
	})
	if ran {
		t.Error("a pre-stopped loop must not tick")
	}
}
