package intro

import (
	"portalwalk/math"
)

// Control identifies a movement key independent of the physical binding.
// W/A/S/D and the arrow keys both map onto these in the frontend.
type Control int

const (
	ControlForward Control = iota
	ControlBack
	ControlLeft
	ControlRight
)

// Aggregator normalizes keyboard, mouse-look, and pointer-contact input
// into one movement intent and one incremental look delta per tick.
// Event callbacks write into it; the tick reads and consumes.
type Aggregator struct {
	AllowStrafe      bool
	AllowBackward    bool
	MouseSensitivity float32
	TouchSensitivity float32

	forward, back, left, right bool

	// Raw mouse pixels accumulated since the last ConsumeLook.
	mouseDX, mouseDY float32

	touch *Touches
}

func NewAggregator(cfg Config) *Aggregator {
	return &Aggregator{
		AllowStrafe:      cfg.Movement.AllowStrafe,
		AllowBackward:    cfg.Movement.AllowBackward,
		MouseSensitivity: cfg.Look.MouseSensitivity,
		TouchSensitivity: cfg.Look.TouchSensitivity,
	}
}

// AttachTouches wires a pointer-contact tracker into the aggregate.
// Without one, the keyboard/mouse path works alone.
func (a *Aggregator) AttachTouches(t *Touches) {
	a.touch = t
}

func (a *Aggregator) KeyDown(c Control) { a.setKey(c, true) }
func (a *Aggregator) KeyUp(c Control)   { a.setKey(c, false) }

func (a *Aggregator) setKey(c Control, pressed bool) {
	switch c {
	case ControlForward:
		a.forward = pressed
	case ControlBack:
		a.back = pressed
	case ControlLeft:
		a.left = pressed
	case ControlRight:
		a.right = pressed
	}
}

// MouseMove accumulates raw cursor movement in pixels. Only call while the
// cursor is captured; uncaptured movement must not turn the camera.
func (a *Aggregator) MouseMove(dx, dy float32) {
	a.mouseDX += dx
	a.mouseDY += dy
}

// ClearHeld drops all held keys and pending look input. Called when input
// capture is lost so a key released outside the window cannot stick.
func (a *Aggregator) ClearHeld() {
	a.forward, a.back, a.left, a.right = false, false, false, false
	a.mouseDX, a.mouseDY = 0, 0
	if a.touch != nil {
		a.touch.Reset()
	}
}

// Intent returns the movement intent for this tick: X = strafe right,
// Y = forward. Magnitude above 1 is renormalized so diagonal movement is
// never faster than axis-aligned movement.
func (a *Aggregator) Intent() math.Vec2 {
	var intent math.Vec2
	if a.forward {
		intent.Y += 1
	}
	if a.back {
		intent.Y -= 1
	}
	if a.right {
		intent.X += 1
	}
	if a.left {
		intent.X -= 1
	}

	if a.touch != nil {
		j := a.touch.Joystick()
		intent = intent.Add(j)
	}

	if !a.AllowStrafe {
		intent.X = 0
	}
	if !a.AllowBackward && intent.Y < 0 {
		intent.Y = 0
	}

	return intent.ClampLength(1)
}

// ConsumeLook returns the accumulated look delta in radians (yaw, pitch)
// and resets the accumulators. Mouse and touch-look are merged here with
// their respective sensitivities.
func (a *Aggregator) ConsumeLook() (dx, dy float32) {
	dx = a.mouseDX * a.MouseSensitivity
	dy = a.mouseDY * a.MouseSensitivity
	a.mouseDX, a.mouseDY = 0, 0

	if a.touch != nil {
		tx, ty := a.touch.ConsumeLook()
		dx += tx * a.TouchSensitivity
		dy += ty * a.TouchSensitivity
	}
	return dx, dy
}
