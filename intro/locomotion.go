package intro

import (
	stdmath "math"

	"portalwalk/math"
	"portalwalk/scene"
)

// Integrator converts movement intent into damped velocity and camera
// position. The movement basis comes from camera yaw only, so looking up
// or down never tilts the walk.
type Integrator struct {
	Speed         float32
	Damping       float32
	Deadzone      float32
	Scale         float32 // unit-reconciliation constant for intent accumulation
	EyeHeight     float32
	MaxFrameDelta float32

	Velocity math.Vec3
}

func NewIntegrator(cfg Config) *Integrator {
	return &Integrator{
		Speed:         cfg.Movement.Speed,
		Damping:       cfg.Movement.Damping,
		Deadzone:      cfg.Movement.Deadzone,
		// Damped accumulation settles at speed·scale/damping, so scaling
		// by the damping constant makes the configured speed the actual
		// steady-state walk speed.
		Scale:         cfg.Movement.Damping,
		EyeHeight:     cfg.Movement.EyeHeight,
		MaxFrameDelta: cfg.Movement.MaxFrameDelta,
	}
}

// Step advances one tick. Call only while input is locked; while unlocked
// the position stays frozen and ZeroVelocity is used instead.
func (li *Integrator) Step(dt float32, intent math.Vec2, cam *scene.Camera) {
	// Degenerate frame timestamps produce zero, negative, or NaN deltas;
	// integrating those would poison the velocity.
	if !(dt > 0) || stdmath.IsNaN(float64(dt)) {
		return
	}
	if dt > li.MaxFrameDelta {
		dt = li.MaxFrameDelta
	}

	// Exponential damping toward zero. The factor is capped at 1 so a
	// large k·dt can stop the velocity but never reverse it.
	f := li.Damping * dt
	if f > 1 {
		f = 1
	}
	li.Velocity = li.Velocity.Mul(1 - f)

	if intent.Length() > li.Deadzone {
		li.Velocity.X -= intent.X * li.Speed * dt * li.Scale
		li.Velocity.Z -= intent.Y * li.Speed * dt * li.Scale
	}

	forward := cam.YawForward()
	right := cam.YawRight()

	pos := cam.Position.
		Add(forward.Mul(-li.Velocity.Z * dt)).
		Add(right.Mul(-li.Velocity.X * dt))
	pos.Y = li.EyeHeight
	cam.SetPosition(pos)
}

// ZeroVelocity force-stops the walk. Called on every transition out of the
// locked phase so residual velocity cannot drift the camera.
func (li *Integrator) ZeroVelocity() {
	li.Velocity = math.Vec3Zero
}
