package main

import (
	"fmt"

	"portalwalk/audio"
	"portalwalk/core"
	"portalwalk/intro"
	"portalwalk/math"
	"portalwalk/renderer"
	"portalwalk/scene"

	stdmath "math"
)

const configPath = "portalwalk.yaml"

func main() {
	fmt.Println("Starting portal walk...")

	cfg, err := intro.LoadConfig(configPath)
	if err != nil {
		fmt.Printf("[Config] %v (using defaults)\n", err)
	}

	windowConfig := core.DefaultWindowConfig()
	window, err := core.NewWindow(windowConfig)
	if err != nil {
		fmt.Printf("Failed to create window: %v\n", err)
		return
	}
	defer window.Destroy()

	renderEngine, err := renderer.NewRenderEngine(window)
	if err != nil {
		fmt.Printf("Failed to create render engine: %v\n", err)
		return
	}
	defer renderEngine.Destroy()

	// Enable HDR post-processing (Reinhard tone mapping + gamma 2.2)
	postOn := false
	if cfg.Post.Style != intro.PostStyleOff {
		if err := renderEngine.EnablePostProcess(); err != nil {
			fmt.Printf("Post-process init failed (continuing without it): %v\n", err)
		} else {
			postOn = true
			fmt.Println("Post-processing enabled (HDR RGBA16F, Reinhard tone mapping)")
			if err := renderEngine.EnableBloom(); err != nil {
				fmt.Printf("Bloom init failed (continuing without it): %v\n", err)
			} else {
				fmt.Println("Bloom enabled (bright-pass + 4x Gaussian blur)")
			}
		}
	}

	// Enable procedural gradient skybox (night palette)
	if err := renderEngine.EnableSkybox(); err != nil {
		fmt.Printf("Skybox init failed (continuing without it): %v\n", err)
	} else {
		fmt.Println("Skybox enabled (procedural gradient: zenith/horizon/ground)")
	}

	applySkyConfig(renderEngine, cfg)
	applyPostConfig(renderEngine, cfg, postOn)

	// Audio is optional: a missing output device never blocks the walk.
	audioOn := true
	if err := audio.Init(); err != nil {
		audioOn = false
		fmt.Printf("Audio init failed (continuing without it): %v\n", err)
	}

	// ── Scene setup ───────────────────────────────────────────────────────────
	rig := intro.NewRig(cfg)
	if cfg.Portal.Model != "" {
		if err := rig.LoadCenterpiece(cfg.Portal.Model); err != nil {
			fmt.Printf("[Portal] model %q failed (keeping built-in core): %v\n", cfg.Portal.Model, err)
		}
	}

	camera := scene.NewCamera(float32(stdmath.Pi)/3,
		float32(windowConfig.Width)/float32(windowConfig.Height), 0.1, 500.0)
	// Start at the plaza edge, eye height, facing the portal down -Z
	camera.SetPosition(math.Vec3{X: 0, Y: cfg.Movement.EyeHeight, Z: 12})
	rig.Scene.SetCamera(camera)

	renderEngine.SetScene(rig.Scene)

	// ── Session wiring ────────────────────────────────────────────────────────
	agg := intro.NewAggregator(cfg)
	move := intro.NewIntegrator(cfg)
	session := intro.NewSession(cfg, camera, agg, move)

	content := NewContentView(cfg.Fade.InSeconds)
	contentMode := false

	session.OnLock = func() {
		window.CaptureCursor()
		if audioOn {
			audio.PlayLockClick()
		}
	}
	session.OnRelease = func() {
		window.ReleaseCursor()
	}
	session.OnHandoff = func() {
		contentMode = true
		content.Reveal()
		if audioOn {
			audio.StopHum()
		}
		fmt.Println("[Intro] handoff complete, content view up")
	}

	if audioOn {
		audio.StartHum()
	}

	// ── Input callbacks ───────────────────────────────────────────────────────
	loop := intro.NewLoop()

	window.SetMouseButtonCallback(func(button int, pressed bool) {
		if !pressed || contentMode {
			return
		}
		if session.Phase() == intro.PhaseUnlocked {
			session.Lock()
		}
	})

	var lastX, lastY float64
	firstMouse := true
	window.SetCursorPosCallback(func(x, y float64) {
		if firstMouse {
			lastX, lastY = x, y
			firstMouse = false
			return
		}
		dx, dy := x-lastX, y-lastY
		lastX, lastY = x, y
		if window.IsCursorCaptured() && !contentMode {
			agg.MouseMove(float32(dx), float32(dy))
		}
	})

	window.SetKeyCallback(func(key int, pressed bool) {
		if contentMode {
			if pressed {
				content.HandleKey(key, loop)
			}
			return
		}
		switch key {
		case core.KeyW, core.KeyUp:
			keyEvent(agg, intro.ControlForward, pressed)
		case core.KeyS, core.KeyDown:
			keyEvent(agg, intro.ControlBack, pressed)
		case core.KeyA, core.KeyLeft:
			keyEvent(agg, intro.ControlLeft, pressed)
		case core.KeyD, core.KeyRight:
			keyEvent(agg, intro.ControlRight, pressed)
		case core.KeyEscape:
			if pressed {
				if session.Phase() == intro.PhaseLocked {
					session.Unlock()
				} else if session.Phase() == intro.PhaseUnlocked {
					loop.Stop()
				}
			}
		case core.KeyEnter:
			// The skip works from any phase, locked or not
			if pressed {
				if audioOn && session.Phase() != intro.PhaseEntered {
					audio.PlayEnterChime()
				}
				session.Enter()
			}
		case core.KeyZ:
			if pressed {
				renderEngine.SetWireframe(!renderEngine.IsWireframe())
			}
		}
	})

	window.SetScrollCallback(func(xoff, yoff float64) {
		if contentMode {
			content.Scroll(float32(-yoff) * 30)
		}
	})

	// Hot-reload the tuning file; a failed watch is not fatal.
	watcher, err := intro.WatchConfig(configPath)
	if err != nil {
		fmt.Printf("[Config] watch failed (no hot-reload): %v\n", err)
		watcher = nil
	} else {
		defer watcher.Close()
	}

	lastW, lastH := window.GetFramebufferSize()
	autoEntered := false

	fmt.Println("===========================================")
	fmt.Println("  Portal Walk")
	fmt.Println("===========================================")
	fmt.Println("  Click            - Capture the cursor")
	fmt.Println("  W/A/S/D, arrows  - Walk")
	fmt.Println("  Mouse            - Look")
	fmt.Println("  Enter            - Step through / skip")
	fmt.Println("  Esc              - Release cursor / quit")
	fmt.Println("===========================================")

	loop.Run(func(dt float32) bool {
		window.PollEvents()
		if window.ShouldClose() {
			return false
		}

		// React to window resizes
		if w, h := window.GetFramebufferSize(); (w != lastW || h != lastH) && w > 0 && h > 0 {
			lastW, lastH = w, h
			renderEngine.Resize(uint32(w), uint32(h))
		}

		// Apply hot-reloaded config if one arrived
		if watcher != nil {
			select {
			case newCfg, ok := <-watcher.Configs:
				if ok {
					cfg = newCfg
					session.ApplyConfig(cfg)
					applySkyConfig(renderEngine, cfg)
					applyPostConfig(renderEngine, cfg, postOn)
					fmt.Println("[Config] reloaded")
				}
			case werr, ok := <-watcher.Errors:
				if ok {
					fmt.Printf("[Config] reload failed, keeping previous: %v\n", werr)
				}
			default:
			}
		}

		if contentMode {
			content.Update(dt)
			content.Draw(renderEngine, window)
			return true
		}

		wasEntered := session.Phase() == intro.PhaseEntered
		session.Update(dt, rig.PortalPosition())
		rig.Advance(session.Elapsed(), dt)

		// The auto-enter fires inside Update; give it the same chime
		if !wasEntered && session.Phase() == intro.PhaseEntered && !autoEntered {
			autoEntered = true
			if audioOn {
				audio.PlayEnterChime()
			}
		}

		if audioOn {
			d := camera.Position.Distance(rig.PortalPosition())
			falloff := cfg.Portal.NearThreshold * 3
			gain := 1 - d/falloff
			if gain < 0 {
				gain = 0
			}
			audio.SetHumGain(float64(gain * gain * (1 - session.FadeOutAlpha())))
		}

		if err := renderEngine.Render(); err != nil {
			if w, h := window.GetFramebufferSize(); w > 0 && h > 0 {
				renderEngine.Resize(uint32(w), uint32(h))
			}
		}

		// Particles land in the HDR FBO so they pick up bloom + tone mapping
		renderEngine.DrawParticles(rig.Drift)
		renderEngine.DrawParticles(rig.Sparks)

		drawOverlay(renderEngine, session, window)

		renderEngine.SetFade(core.ColorBlack, session.FadeOutAlpha())
		renderEngine.Present(float32(session.Elapsed()))
		return true
	})

	fmt.Println("Exiting...")
}

func keyEvent(agg *intro.Aggregator, c intro.Control, pressed bool) {
	if pressed {
		agg.KeyDown(c)
	} else {
		agg.KeyUp(c)
	}
}

// applySkyConfig pushes the sky palette and matching fog to the renderer.
// Called at startup and again on every hot-reload.
func applySkyConfig(re *renderer.RenderEngine, cfg intro.Config) {
	re.SetSkyboxColors(cfg.Sky.Zenith.Color(), cfg.Sky.Horizon.Color(), cfg.Sky.Ground.Color())
	// Fog takes the horizon color so distant geometry dissolves into the sky
	re.SetFog(cfg.Sky.FogDensity > 0, cfg.Sky.FogDensity, cfg.Sky.Horizon.Color())
}

// applyPostConfig pushes the post-process tuning block to the renderer.
// Called at startup and again on every hot-reload.
func applyPostConfig(re *renderer.RenderEngine, cfg intro.Config, postOn bool) {
	if !postOn {
		if cfg.Post.Style != intro.PostStyleOff {
			fmt.Printf("[Config] post style %q needs a restart (post-processing is off)\n", cfg.Post.Style)
		}
		return
	}
	re.SetExposure(cfg.Post.Exposure)
	re.SetBloomThreshold(cfg.Post.BloomThreshold)
	re.SetBloomStrength(cfg.Post.BloomStrength)

	re.SetRetro(cfg.Post.Style == intro.PostStyleRetro)
	if rp := re.RetroParams(); rp != nil {
		rp.PixelSize = cfg.Post.PixelSize
		rp.ScanlineIntensity = cfg.Post.ScanlineIntensity
		rp.VignetteStrength = cfg.Post.VignetteStrength
		rp.ChromaticOffset = cfg.Post.ChromaticOffset
		rp.QuantizeLevels = cfg.Post.QuantizeLevels
		rp.GrainStrength = cfg.Post.GrainStrength
	}
}

// drawOverlay queues the HUD widgets: the start prompt centered, the enter
// hint above center, help lines along the bottom. Widget opacity feeds the
// text alpha so show/hide eases instead of popping.
func drawOverlay(re *renderer.RenderEngine, session *intro.Session, window *core.Window) {
	w := float32(window.Width)
	h := float32(window.Height)

	for _, widget := range session.Overlay.Visible() {
		var y, scale float32
		switch widget.Name {
		case intro.WidgetStart:
			y, scale = h/2-20, 4
		case intro.WidgetHint:
			y, scale = h*0.38, 3
		case intro.WidgetInstructions:
			y, scale = h-72, 2
		case intro.WidgetSkip:
			y, scale = h-36, 2
		default:
			y, scale = h-110, 2
		}
		x := (w - re.TextWidth(widget.Text, scale)) / 2
		re.DrawText(widget.Text, int(x), int(y), scale,
			core.Color{R: 0.9, G: 0.92, B: 1, A: widget.Opacity})
	}
}
