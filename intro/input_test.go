package intro

import (
	stdmath "math"
	"testing"

	"portalwalk/core"
	"portalwalk/math"
)

func TestDiagonalIntentNormalized(t *testing.T) {
	a := NewAggregator(DefaultConfig())
	a.KeyDown(ControlForward)
	a.KeyDown(ControlRight)

	l := a.Intent().Length()
	if stdmath.Abs(float64(l-1)) > 0.0001 {
		t.Errorf("diagonal intent: expected magnitude 1, got %v", l)
	}
}

func TestOpposingKeysCancel(t *testing.T) {
	a := NewAggregator(DefaultConfig())
	a.KeyDown(ControlForward)
	a.KeyDown(ControlBack)
	a.KeyDown(ControlLeft)
	a.KeyDown(ControlRight)

	if intent := a.Intent(); intent != (math.Vec2{}) {
		t.Errorf("opposing keys: expected zero intent, got %v", intent)
	}
}

func TestForwardOnlyMode(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Movement.AllowStrafe = false
	cfg.Movement.AllowBackward = false
	a := NewAggregator(cfg)

	a.KeyDown(ControlBack)
	a.KeyDown(ControlLeft)
	if intent := a.Intent(); intent != (math.Vec2{}) {
		t.Errorf("forward-only mode: expected zero intent, got %v", intent)
	}

	a.KeyDown(ControlForward)
	// back is still held, so the axis sums to zero before the clamp
	if intent := a.Intent(); intent.Y != 0 {
		t.Errorf("forward-only with back held: expected Y=0, got %v", intent)
	}

	a.KeyUp(ControlBack)
	if intent := a.Intent(); intent.Y != 1 || intent.X != 0 {
		t.Errorf("forward-only: expected (0,1), got %v", intent)
	}
}

func TestClearHeldDropsEverything(t *testing.T) {
	a := NewAggregator(DefaultConfig())
	a.KeyDown(ControlForward)
	a.MouseMove(50, 50)

	a.ClearHeld()
	if intent := a.Intent(); intent != (math.Vec2{}) {
		t.Errorf("ClearHeld left intent: %v", intent)
	}
	if dx, dy := a.ConsumeLook(); dx != 0 || dy != 0 {
		t.Errorf("ClearHeld left look delta: (%v,%v)", dx, dy)
	}
}

func TestMouseLookSensitivity(t *testing.T) {
	a := NewAggregator(DefaultConfig())
	a.MouseMove(100, 50)

	dx, dy := a.ConsumeLook()
	if stdmath.Abs(float64(dx-0.2)) > 0.0001 || stdmath.Abs(float64(dy-0.1)) > 0.0001 {
		t.Errorf("mouse look at 0.002 rad/px: expected (0.2,0.1), got (%v,%v)", dx, dy)
	}

	if dx, dy = a.ConsumeLook(); dx != 0 || dy != 0 {
		t.Errorf("look not consumed: (%v,%v)", dx, dy)
	}
}

func TestJoystickFeedsIntent(t *testing.T) {
	a := NewAggregator(DefaultConfig())
	tr := NewTouches(core.Rect{X: 0, Y: 300, Width: 240, Height: 300},
		core.Rect{X: 240, Y: 0, Width: 400, Height: 600}, 40)
	a.AttachTouches(tr)

	tr.Begin(1, 100, 450)
	tr.Move(1, 100, 410) // full push up

	if intent := a.Intent(); intent.Y != 1 {
		t.Errorf("joystick forward: expected Y=1, got %v", intent)
	}
}

func TestTouchLookHigherSensitivity(t *testing.T) {
	a := NewAggregator(DefaultConfig())
	tr := NewTouches(core.Rect{X: 0, Y: 300, Width: 240, Height: 300},
		core.Rect{X: 240, Y: 0, Width: 400, Height: 600}, 40)
	a.AttachTouches(tr)

	tr.Begin(5, 400, 200)
	tr.Move(5, 500, 200) // 100 px at 0.004 rad/px

	dx, _ := a.ConsumeLook()
	if stdmath.Abs(float64(dx-0.4)) > 0.0001 {
		t.Errorf("touch look: expected 0.4 rad, got %v", dx)
	}
}
