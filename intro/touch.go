package intro

import (
	"portalwalk/core"
	"portalwalk/math"
)

// Touches tracks at most two concurrent pointer contacts: one driving a
// bounded virtual joystick, one driving look-drag. A contact is assigned a
// role by where it begins; events for untracked identifiers are ignored.
type Touches struct {
	JoystickRegion core.Rect
	LookRegion     core.Rect
	Radius         float32 // max joystick displacement in pixels

	joyActive bool
	joyID     int64
	joyOrigin math.Vec2
	joyPos    math.Vec2

	lookActive bool
	lookID     int64
	lookLast   math.Vec2
	lookDX     float32
	lookDY     float32
}

func NewTouches(joystickRegion, lookRegion core.Rect, radius float32) *Touches {
	if radius < 1 {
		radius = 1
	}
	return &Touches{
		JoystickRegion: joystickRegion,
		LookRegion:     lookRegion,
		Radius:         radius,
	}
}

// Begin registers a new contact. A contact starting inside the joystick
// region becomes the joystick; one starting in the look region becomes the
// look drag. Anything else, or a third contact, is ignored.
func (t *Touches) Begin(id int64, x, y float32) {
	switch {
	case !t.joyActive && t.JoystickRegion.Contains(x, y):
		t.joyActive = true
		t.joyID = id
		t.joyOrigin = math.NewVec2(x, y)
		t.joyPos = t.joyOrigin
	case !t.lookActive && t.LookRegion.Contains(x, y):
		t.lookActive = true
		t.lookID = id
		t.lookLast = math.NewVec2(x, y)
	}
}

func (t *Touches) Move(id int64, x, y float32) {
	switch {
	case t.joyActive && id == t.joyID:
		t.joyPos = math.NewVec2(x, y)
	case t.lookActive && id == t.lookID:
		t.lookDX += x - t.lookLast.X
		t.lookDY += y - t.lookLast.Y
		t.lookLast = math.NewVec2(x, y)
	}
}

// End releases a contact. An identifier that is not tracked must not
// disturb the other contact.
func (t *Touches) End(id int64) {
	switch {
	case t.joyActive && id == t.joyID:
		t.joyActive = false
	case t.lookActive && id == t.lookID:
		t.lookActive = false
	}
}

// Cancel is the platform's abort path; it behaves like End.
func (t *Touches) Cancel(id int64) { t.End(id) }

// Reset drops both contacts and any pending look delta.
func (t *Touches) Reset() {
	t.joyActive = false
	t.lookActive = false
	t.lookDX, t.lookDY = 0, 0
}

// Joystick returns the current movement intent from the joystick contact:
// X = right, Y = forward, each in [-1, 1]. Displacement is clamped to
// Radius before normalizing. Screen Y grows downward, so pushing up means
// forward.
func (t *Touches) Joystick() math.Vec2 {
	if !t.joyActive {
		return math.Vec2{}
	}
	d := t.joyPos.Sub(t.joyOrigin).ClampLength(t.Radius)
	return math.NewVec2(d.X/t.Radius, -d.Y/t.Radius)
}

// ConsumeLook returns the accumulated look-drag delta in raw pixels and
// resets it.
func (t *Touches) ConsumeLook() (dx, dy float32) {
	dx, dy = t.lookDX, t.lookDY
	t.lookDX, t.lookDY = 0, 0
	return dx, dy
}
