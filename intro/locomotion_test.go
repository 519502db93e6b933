package intro

import (
	stdmath "math"
	"testing"

	"portalwalk/math"
	"portalwalk/scene"
)

func newTestCamera() *scene.Camera {
	cam := scene.NewCamera(1.0472, 16.0/9.0, 0.1, 1000.0)
	cam.SetPosition(math.Vec3{X: 0, Y: 1.6, Z: 15})
	cam.SetYawPitch(0, 0)
	return cam
}

func TestDampingNonIncreasing(t *testing.T) {
	li := NewIntegrator(DefaultConfig())
	cam := newTestCamera()

	li.Velocity = math.Vec3{X: 2, Y: 0, Z: -5}
	prev := li.Velocity.Length()

	for i := 0; i < 60; i++ {
		li.Step(1.0/60.0, math.Vec2{}, cam)
		cur := li.Velocity.Length()
		if cur > prev {
			t.Fatalf("velocity grew without input: %v > %v at step %d", cur, prev, i)
		}
		prev = cur
	}
	if prev > 0.01 {
		t.Errorf("velocity should have damped to near zero, got %v", prev)
	}
}

func TestForwardWalkMonotonic(t *testing.T) {
	cfg := DefaultConfig()
	li := NewIntegrator(cfg)
	cam := newTestCamera()

	intent := math.NewVec2(0, 1)
	prevZ := cam.Position.Z

	// 2 seconds at 60 fps
	for i := 0; i < 120; i++ {
		li.Step(1.0/60.0, intent, cam)
		if cam.Position.Z > prevZ {
			t.Fatalf("position.z increased at step %d: %v > %v", i, cam.Position.Z, prevZ)
		}
		prevZ = cam.Position.Z
	}

	// Steady state of the damped accumulation is speed·scale/damping
	want := cfg.Movement.Speed * li.Scale / li.Damping
	got := float32(stdmath.Abs(float64(li.Velocity.Z)))
	if stdmath.Abs(float64(got-want)) > float64(want)*0.05 {
		t.Errorf("steady-state speed: expected about %v, got %v", want, got)
	}
}

func TestFrameDeltaClamped(t *testing.T) {
	cfg := DefaultConfig()
	li := NewIntegrator(cfg)
	cam := newTestCamera()
	start := cam.Position

	// A stalled frame hands over a huge delta; integration must treat it
	// as MaxFrameDelta, bounding the position jump.
	li.Step(5.0, math.NewVec2(0, 1), cam)

	moved := cam.Position.Distance(start)
	bound := cfg.Movement.Speed * li.Scale * cfg.Movement.MaxFrameDelta * cfg.Movement.MaxFrameDelta
	if moved > bound+0.001 {
		t.Errorf("stalled frame moved too far: %v > %v", moved, bound)
	}
}

func TestDegenerateDeltaIgnored(t *testing.T) {
	li := NewIntegrator(DefaultConfig())
	cam := newTestCamera()
	li.Velocity = math.Vec3{Z: -3}
	start := cam.Position

	li.Step(0, math.NewVec2(0, 1), cam)
	li.Step(-0.5, math.NewVec2(0, 1), cam)
	li.Step(float32(stdmath.NaN()), math.NewVec2(0, 1), cam)

	if cam.Position != start {
		t.Errorf("degenerate dt moved the camera: %v", cam.Position)
	}
	if li.Velocity.Z != -3 {
		t.Errorf("degenerate dt changed velocity: %v", li.Velocity)
	}
}

func TestEyeHeightClamp(t *testing.T) {
	cfg := DefaultConfig()
	li := NewIntegrator(cfg)
	cam := newTestCamera()
	cam.SetPosition(math.Vec3{X: 0, Y: 7.3, Z: 0})

	li.Step(1.0/60.0, math.Vec2{}, cam)
	if cam.Position.Y != cfg.Movement.EyeHeight {
		t.Errorf("eye height: expected %v, got %v", cfg.Movement.EyeHeight, cam.Position.Y)
	}
}

func TestDeadzoneIgnoresTinyIntent(t *testing.T) {
	li := NewIntegrator(DefaultConfig())
	cam := newTestCamera()

	li.Step(1.0/60.0, math.NewVec2(0.05, 0.05), cam)
	if li.Velocity.Length() != 0 {
		t.Errorf("intent inside the deadzone accumulated velocity: %v", li.Velocity)
	}
}

func TestPitchDoesNotTiltMovement(t *testing.T) {
	li := NewIntegrator(DefaultConfig())
	cam := newTestCamera()
	cam.SetYawPitch(0, 1.2) // looking steeply up

	for i := 0; i < 60; i++ {
		li.Step(1.0/60.0, math.NewVec2(0, 1), cam)
	}
	if cam.Position.Y != li.EyeHeight {
		t.Errorf("looking up lifted the camera: Y = %v", cam.Position.Y)
	}
	if cam.Position.Z >= 15 {
		t.Errorf("forward walk made no ground progress: Z = %v", cam.Position.Z)
	}
}

func BenchmarkIntegratorStep(b *testing.B) {
	li := NewIntegrator(DefaultConfig())
	cam := newTestCamera()
	intent := math.NewVec2(0.3, 0.9)
	for i := 0; i < b.N; i++ {
		li.Step(1.0/60.0, intent, cam)
	}
}
