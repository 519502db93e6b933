package intro

import (
	"testing"

	"portalwalk/math"
)

func newTestSession() *Session {
	cfg := DefaultConfig()
	cam := newTestCamera()
	agg := NewAggregator(cfg)
	move := NewIntegrator(cfg)
	return NewSession(cfg, cam, agg, move)
}

func TestLockUnlockCycle(t *testing.T) {
	s := newTestSession()
	if s.Phase() != PhaseUnlocked {
		t.Fatalf("initial phase: expected UNLOCKED, got %v", s.Phase())
	}

	s.Lock()
	if s.Phase() != PhaseLocked {
		t.Errorf("after Lock: expected LOCKED, got %v", s.Phase())
	}

	s.Move.Velocity = math.Vec3{Z: -4}
	s.Input.KeyDown(ControlForward)
	s.Unlock()
	if s.Phase() != PhaseUnlocked {
		t.Errorf("after Unlock: expected UNLOCKED, got %v", s.Phase())
	}
	if s.Move.Velocity != math.Vec3Zero {
		t.Errorf("Unlock must zero velocity, got %v", s.Move.Velocity)
	}
	if intent := s.Input.Intent(); intent != (math.Vec2{}) {
		t.Errorf("Unlock must clear held keys, intent = %v", intent)
	}
}

func TestUnlockedFreezesPosition(t *testing.T) {
	s := newTestSession()
	s.Input.KeyDown(ControlForward)
	start := s.Camera.Position

	far := math.Vec3{X: 0, Y: 2, Z: -100}
	for i := 0; i < 30; i++ {
		s.Update(1.0/60.0, far)
	}
	if s.Camera.Position != start {
		t.Errorf("camera moved while UNLOCKED: %v", s.Camera.Position)
	}
}

func TestNearHintReversible(t *testing.T) {
	s := newTestSession()
	s.Lock()
	portal := math.Vec3{X: 0, Y: 2, Z: 0}

	s.Camera.SetPosition(math.Vec3{X: 0, Y: 1.6, Z: 12})
	s.Update(1.0/60.0, portal)
	if s.Near() {
		t.Fatal("near at distance 12 with threshold 10")
	}

	s.Camera.SetPosition(math.Vec3{X: 0, Y: 1.6, Z: 8})
	s.Update(1.0/60.0, portal)
	if !s.Near() {
		t.Fatal("not near at distance 8 with threshold 10")
	}
	if s.Overlay.Lookup(WidgetHint).target != 1 {
		t.Error("near crossing did not surface the hint")
	}

	// Backing away must hide the hint again
	s.Camera.SetPosition(math.Vec3{X: 0, Y: 1.6, Z: 13})
	s.Update(1.0/60.0, portal)
	if s.Near() {
		t.Fatal("still near after backing off to distance 13")
	}
	if s.Overlay.Lookup(WidgetHint).target != 0 {
		t.Error("hint stayed up after leaving the near zone")
	}
}

func TestAutoEnterFiresOnce(t *testing.T) {
	s := newTestSession()
	releases := 0
	s.OnRelease = func() { releases++ }
	s.Lock()

	portal := math.Vec3{X: 0, Y: 2, Z: 0}
	s.Camera.SetPosition(math.Vec3{X: 0, Y: 1.6, Z: 3})

	for i := 0; i < 10; i++ {
		s.Update(1.0/60.0, portal)
	}
	if s.Phase() != PhaseEntered {
		t.Fatalf("expected ENTERED inside auto-enter radius, got %v", s.Phase())
	}
	if releases != 1 {
		t.Errorf("capture released %d times, expected 1", releases)
	}

	// A racing manual confirm must be swallowed by the one-shot guard
	s.Enter()
	if releases != 1 {
		t.Errorf("second Enter re-released capture: %d", releases)
	}
}

func TestSkipFromUnlocked(t *testing.T) {
	s := newTestSession()
	if s.Phase() != PhaseUnlocked {
		t.Fatalf("initial phase: expected UNLOCKED, got %v", s.Phase())
	}

	// The skip affordance is shown from startup, so Enter must work
	// without a preceding Lock.
	s.Enter()
	if s.Phase() != PhaseEntered {
		t.Fatalf("skip from UNLOCKED: expected ENTERED, got %v", s.Phase())
	}

	// Fade-out must run to handoff as usual
	handoffs := 0
	s.OnHandoff = func() { handoffs++ }
	for i := 0; i < 120; i++ {
		s.Update(1.0/60.0, math.Vec3{})
	}
	if handoffs != 1 {
		t.Errorf("handoff fired %d times after skip, expected 1", handoffs)
	}
}

func TestEnteredFreezesInput(t *testing.T) {
	s := newTestSession()
	s.Lock()
	s.Enter()

	s.Input.KeyDown(ControlForward)
	s.Input.MouseMove(500, 500)
	start := s.Camera.Position
	yaw := s.Camera.Yaw()

	for i := 0; i < 30; i++ {
		s.Update(1.0/60.0, math.Vec3{Z: -100})
	}
	if s.Camera.Position != start {
		t.Errorf("locomotion ran after ENTERED: %v", s.Camera.Position)
	}
	if s.Camera.Yaw() != yaw {
		t.Errorf("look ran after ENTERED: yaw %v", s.Camera.Yaw())
	}
}

func TestHandoffAfterFadeOut(t *testing.T) {
	s := newTestSession()
	handoffs := 0
	s.OnHandoff = func() { handoffs++ }
	s.Lock()
	s.Enter()

	if s.FadeOutAlpha() != 0 {
		t.Errorf("fade alpha should start at 0, got %v", s.FadeOutAlpha())
	}

	// Default fade-out is 1.5 s; run 2 s of ticks
	for i := 0; i < 120; i++ {
		s.Update(1.0/60.0, math.Vec3{})
	}
	if !s.HandoffComplete() {
		t.Fatal("handoff incomplete after fade duration")
	}
	if handoffs != 1 {
		t.Errorf("handoff fired %d times, expected 1", handoffs)
	}
	if s.FadeOutAlpha() != 1 {
		t.Errorf("fade alpha should end at 1, got %v", s.FadeOutAlpha())
	}
}

func TestNonFiniteDistanceIgnored(t *testing.T) {
	s := newTestSession()
	s.Lock()

	nan := float32(0)
	nan /= nan
	s.Update(1.0/60.0, math.Vec3{X: nan})
	if s.Phase() != PhaseLocked {
		t.Errorf("NaN portal position changed the phase: %v", s.Phase())
	}
	if s.Near() {
		t.Error("NaN distance reported near")
	}
}

func TestApplyConfigKeepsPhase(t *testing.T) {
	s := newTestSession()
	s.Lock()

	cfg := DefaultConfig()
	cfg.Movement.Speed = 3
	cfg.Movement.AllowStrafe = false
	cfg.Portal.NearThreshold = 6
	cfg.Portal.AutoEnterThreshold = 2
	s.ApplyConfig(cfg)

	if s.Phase() != PhaseLocked {
		t.Errorf("config reload changed the phase: %v", s.Phase())
	}
	if s.Move.Speed != 3 {
		t.Errorf("speed not retuned: %v", s.Move.Speed)
	}
	if s.Input.AllowStrafe {
		t.Error("strafe permission not retuned")
	}
}
