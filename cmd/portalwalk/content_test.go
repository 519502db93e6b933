package main

import "testing"

func TestContentClockKeepsRunning(t *testing.T) {
	cv := NewContentView(1.0)
	cv.Reveal()

	for i := 0; i < 120; i++ {
		cv.Update(1.0 / 60.0)
	}
	if cv.Clock() < 1.9 {
		t.Errorf("clock after 2 s of ticks: expected ~2, got %v", cv.Clock())
	}

	// A second reveal restarts the fade but must not rewind the clock,
	// or the animated grain would visibly jump.
	before := cv.Clock()
	cv.Reveal()
	if cv.Clock() != before {
		t.Errorf("Reveal rewound the clock: %v -> %v", before, cv.Clock())
	}
	if cv.fadeIn != 0 {
		t.Errorf("Reveal must restart the fade-in, fadeIn = %v", cv.fadeIn)
	}
}

func TestContentScrollClamped(t *testing.T) {
	cv := NewContentView(1.0)
	cv.Reveal()

	cv.Scroll(-500)
	if cv.scroll != 0 {
		t.Errorf("scroll above top: expected 0, got %v", cv.scroll)
	}

	cv.Scroll(1e6)
	if cv.scroll != cv.maxScroll() {
		t.Errorf("scroll past end: expected %v, got %v", cv.maxScroll(), cv.scroll)
	}

	cv.Reveal()
	if cv.scroll != 0 {
		t.Errorf("Reveal must reset scroll to top, got %v", cv.scroll)
	}
}
