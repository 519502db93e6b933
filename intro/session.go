package intro

import (
	stdmath "math"

	"portalwalk/math"
	"portalwalk/scene"
)

// Phase is the intro's lock/session state. It only moves forward:
// UNLOCKED ⇄ LOCKED any number of times, then → ENTERED once, terminally.
type Phase int

const (
	PhaseUnlocked Phase = iota // input not captured, blocking overlay shown
	PhaseLocked                // camera responds to input
	PhaseEntered               // terminal: fade-out and handoff in progress
)

func (p Phase) String() string {
	switch p {
	case PhaseUnlocked:
		return "UNLOCKED"
	case PhaseLocked:
		return "LOCKED"
	case PhaseEntered:
		return "ENTERED"
	}
	return "UNKNOWN"
}

// Session is the owned aggregate of everything the input callbacks and the
// tick share: camera pose, velocity, lock state, proximity, and the fade
// handoff. It has no graphics dependency and is unit-testable headless.
type Session struct {
	Camera  *scene.Camera
	Input   *Aggregator
	Move    *Integrator
	Overlay *Overlay

	// OnLock acquires exclusive pointer capture; OnRelease undoes it.
	// OnHandoff fires exactly once, when the fade-out completes.
	OnLock    func()
	OnRelease func()
	OnHandoff func()

	nearThreshold      float32
	autoEnterThreshold float32
	fadeOutSeconds     float32

	phase       Phase
	elapsed     float64
	near        bool
	entered     bool // one-shot guard for the ENTER transition
	fadeOut     float32
	handoffDone bool
}

func NewSession(cfg Config, cam *scene.Camera, input *Aggregator, move *Integrator) *Session {
	s := &Session{
		Camera:             cam,
		Input:              input,
		Move:               move,
		Overlay:            NewOverlay(),
		nearThreshold:      cfg.Portal.NearThreshold,
		autoEnterThreshold: cfg.Portal.AutoEnterThreshold,
		fadeOutSeconds:     cfg.Fade.OutSeconds,
		phase:              PhaseUnlocked,
	}
	s.Overlay.Add(WidgetStart, "CLICK TO START")
	s.Overlay.Add(WidgetInstructions, "WASD MOVE - MOUSE LOOK - WALK INTO THE LIGHT")
	s.Overlay.Add(WidgetHint, "ENTER - STEP THROUGH")
	s.Overlay.Add(WidgetSkip, "ESC RELEASES - ENTER SKIPS")
	s.Overlay.Show(WidgetStart)
	s.Overlay.Show(WidgetSkip)
	return s
}

func (s *Session) Phase() Phase    { return s.phase }
func (s *Session) Elapsed() float64 { return s.elapsed }
func (s *Session) Near() bool      { return s.near }

// Lock captures input and starts responding to look/movement.
// A no-op once entered.
func (s *Session) Lock() {
	if s.phase != PhaseUnlocked {
		return
	}
	s.phase = PhaseLocked
	s.Overlay.Hide(WidgetStart)
	if !s.near {
		s.Overlay.Show(WidgetInstructions)
	}
	if s.OnLock != nil {
		s.OnLock()
	}
}

// Unlock releases capture. Held keys and velocity are force-zeroed so
// nothing keeps drifting while the blocking overlay is up.
func (s *Session) Unlock() {
	if s.phase != PhaseLocked {
		return
	}
	s.phase = PhaseUnlocked
	s.Move.ZeroVelocity()
	s.Input.ClearHeld()
	s.Overlay.Hide(WidgetInstructions)
	s.Overlay.Show(WidgetStart)
	if s.OnRelease != nil {
		s.OnRelease()
	}
}

// Enter fires the one-way transition. Auto-enter and the manual skip both
// funnel through here; the guard makes a second call a no-op so an
// auto-enter racing a manual confirm cannot double-schedule the fade.
func (s *Session) Enter() {
	if s.entered {
		return
	}
	s.entered = true
	s.phase = PhaseEntered
	s.Move.ZeroVelocity()
	s.Input.ClearHeld()
	s.Overlay.Hide(WidgetStart)
	s.Overlay.Hide(WidgetInstructions)
	s.Overlay.Hide(WidgetHint)
	s.Overlay.Hide(WidgetSkip)
	if s.OnRelease != nil {
		s.OnRelease()
	}
}

// Update advances one tick: look + locomotion while locked, proximity
// while not entered, fade-out countdown after entering. Input callbacks
// have all settled before this runs (single-threaded loop).
func (s *Session) Update(dt float32, portalPos math.Vec3) {
	if !(dt >= 0) || stdmath.IsNaN(float64(dt)) {
		dt = 0
	}
	s.elapsed += float64(dt)

	if s.phase == PhaseLocked {
		dx, dy := s.Input.ConsumeLook()
		s.Camera.AddLook(dx, dy)
		s.Move.Step(dt, s.Input.Intent(), s.Camera)
	}

	if s.phase != PhaseEntered {
		s.updateProximity(portalPos)
	}

	if s.phase == PhaseEntered && !s.handoffDone {
		s.fadeOut += dt
		if s.fadeOut >= s.fadeOutSeconds {
			s.handoffDone = true
			if s.OnHandoff != nil {
				s.OnHandoff()
			}
		}
	}

	s.Overlay.Update(dt)
}

func (s *Session) updateProximity(portalPos math.Vec3) {
	if !s.Camera.Position.IsFinite() || !portalPos.IsFinite() {
		return
	}
	d := s.Camera.Position.Distance(portalPos)

	wasNear := s.near
	s.near = d < s.nearThreshold
	if s.near != wasNear {
		if s.near {
			s.Overlay.Show(WidgetHint)
			s.Overlay.Hide(WidgetInstructions)
		} else {
			s.Overlay.Hide(WidgetHint)
			if s.phase == PhaseLocked {
				s.Overlay.Show(WidgetInstructions)
			}
		}
	}

	if d < s.autoEnterThreshold {
		s.Enter()
	}
}

// FadeOutAlpha is the intro dimmer: 0 while walking, ramping to 1 over the
// configured fade-out once entered.
func (s *Session) FadeOutAlpha() float32 {
	if s.phase != PhaseEntered {
		return 0
	}
	if s.fadeOutSeconds <= 0 {
		return 1
	}
	a := s.fadeOut / s.fadeOutSeconds
	if a > 1 {
		a = 1
	}
	return a
}

// HandoffComplete reports whether the fade-out has finished and the
// content view owns the screen. The loop stops scheduling ticks then.
func (s *Session) HandoffComplete() bool { return s.handoffDone }

// ApplyConfig retunes the live session from a reloaded config. The phase
// and one-shot guard are deliberately untouched.
func (s *Session) ApplyConfig(cfg Config) {
	s.nearThreshold = cfg.Portal.NearThreshold
	s.autoEnterThreshold = cfg.Portal.AutoEnterThreshold
	s.fadeOutSeconds = cfg.Fade.OutSeconds

	s.Input.AllowStrafe = cfg.Movement.AllowStrafe
	s.Input.AllowBackward = cfg.Movement.AllowBackward
	s.Input.MouseSensitivity = cfg.Look.MouseSensitivity
	s.Input.TouchSensitivity = cfg.Look.TouchSensitivity

	s.Move.Speed = cfg.Movement.Speed
	s.Move.Damping = cfg.Movement.Damping
	s.Move.Scale = cfg.Movement.Damping
	s.Move.Deadzone = cfg.Movement.Deadzone
	s.Move.EyeHeight = cfg.Movement.EyeHeight
	s.Move.MaxFrameDelta = cfg.Movement.MaxFrameDelta
}
