package intro

import (
	"testing"

	"portalwalk/core"
	"portalwalk/math"
)

func newTestTouches() *Touches {
	joy := core.Rect{X: 0, Y: 300, Width: 240, Height: 300}
	look := core.Rect{X: 240, Y: 0, Width: 400, Height: 600}
	return NewTouches(joy, look, 40)
}

func TestJoystickClampAndNormalize(t *testing.T) {
	tr := newTestTouches()
	tr.Begin(1, 100, 450)

	// Push 80 px right: displacement clamps to the 40 px radius → full right
	tr.Move(1, 180, 450)
	j := tr.Joystick()
	if j.X != 1 || j.Y != 0 {
		t.Errorf("clamped push right: expected (1,0), got %v", j)
	}

	// Push 20 px up: half intent forward (screen Y grows downward)
	tr.Move(1, 100, 430)
	j = tr.Joystick()
	if j.X != 0 || j.Y != 0.5 {
		t.Errorf("half push up: expected (0,0.5), got %v", j)
	}
}

func TestUntrackedEndIgnored(t *testing.T) {
	tr := newTestTouches()
	tr.Begin(1, 100, 450)
	tr.Move(1, 120, 450)

	// Ending an identifier that was never tracked must not clear the joystick
	tr.End(99)
	if j := tr.Joystick(); j == (math.Vec2{}) {
		t.Error("untracked end cleared the active joystick")
	}

	tr.End(1)
	if j := tr.Joystick(); j != (math.Vec2{}) {
		t.Errorf("joystick still live after its own end: %v", j)
	}
}

func TestLookDragAccumulates(t *testing.T) {
	tr := newTestTouches()
	tr.Begin(7, 400, 200)
	tr.Move(7, 410, 195)
	tr.Move(7, 425, 190)

	dx, dy := tr.ConsumeLook()
	if dx != 25 || dy != -10 {
		t.Errorf("look drag: expected (25,-10), got (%v,%v)", dx, dy)
	}

	// Consuming resets the accumulator
	dx, dy = tr.ConsumeLook()
	if dx != 0 || dy != 0 {
		t.Errorf("second consume: expected (0,0), got (%v,%v)", dx, dy)
	}
}

func TestTwoContactsIndependent(t *testing.T) {
	tr := newTestTouches()
	tr.Begin(1, 100, 450) // joystick
	tr.Begin(2, 400, 200) // look

	tr.Move(1, 120, 450)
	tr.Move(2, 420, 200)

	if j := tr.Joystick(); j.X != 0.5 {
		t.Errorf("joystick intent: expected X=0.5, got %v", j)
	}
	if dx, _ := tr.ConsumeLook(); dx != 20 {
		t.Errorf("look delta: expected 20, got %v", dx)
	}

	// Ending the look contact leaves the joystick alone
	tr.End(2)
	if j := tr.Joystick(); j.X != 0.5 {
		t.Errorf("joystick disturbed by look end: %v", j)
	}
}

func TestThirdContactIgnored(t *testing.T) {
	tr := newTestTouches()
	tr.Begin(1, 100, 450)
	tr.Begin(2, 400, 200)
	tr.Begin(3, 100, 450) // both roles taken

	tr.Move(3, 200, 450)
	if j := tr.Joystick(); j.X != 0 {
		t.Errorf("third contact drove the joystick: %v", j)
	}
}

func TestContactOutsideRegionsIgnored(t *testing.T) {
	tr := newTestTouches()
	tr.Begin(1, 50, 50) // inside neither region

	tr.Move(1, 150, 50)
	if j := tr.Joystick(); j != (math.Vec2{}) {
		t.Errorf("out-of-region contact produced intent: %v", j)
	}
	if dx, dy := tr.ConsumeLook(); dx != 0 || dy != 0 {
		t.Errorf("out-of-region contact produced look: (%v,%v)", dx, dy)
	}
}
