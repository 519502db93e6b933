package main

import (
	stdmath "math"

	"portalwalk/core"
	"portalwalk/intro"
	"portalwalk/renderer"
	"portalwalk/scene"
)

// contentLines is the text revealed after stepping through the portal.
var contentLines = []string{
	"",
	"",
	"YOU MADE IT THROUGH.",
	"",
	"------------------------------------------",
	"",
	"HELLO. I BUILD THINGS FOR THE WEB AND",
	"FOR MACHINES THAT TALK TO EACH OTHER.",
	"",
	"SELECTED WORK:",
	"",
	"  > REALTIME RENDER PIPELINE",
	"    HDR, BLOOM, AND A CRT RESOLVE PASS",
	"",
	"  > PROCEDURAL AUDIO ENGINE",
	"    FM SYNTHESIS, NO SAMPLES SHIPPED",
	"",
	"  > DISTRIBUTED JOB RUNNER",
	"    QUEUES, RETRIES, BACKPRESSURE",
	"",
	"------------------------------------------",
	"",
	"SCROLL TO READ - ESC TO LEAVE",
	"",
}

// ContentView is the post-handoff screen: a scrollable text column that
// fades in from black once revealed.
type ContentView struct {
	scroll        float32 // pixels scrolled past the top
	fadeIn        float32 // seconds since reveal
	fadeInSeconds float32
	clock         float32 // running seconds, drives the retro grain

	scene  *scene.Scene
	camera *scene.Camera
}

func NewContentView(fadeInSeconds float32) *ContentView {
	s := scene.NewScene()
	s.SkyColor = core.Color{R: 0.01, G: 0.01, B: 0.03, A: 1}
	cam := scene.NewCamera(float32(stdmath.Pi)/3, 16.0/9.0, 0.1, 100.0)
	s.SetCamera(cam)
	return &ContentView{
		fadeInSeconds: fadeInSeconds,
		scene:         s,
		camera:        cam,
	}
}

// Reveal resets the view for a fresh hand-off: scroll back to the top and
// restart the fade-in.
func (cv *ContentView) Reveal() {
	cv.scroll = 0
	cv.fadeIn = 0
}

func (cv *ContentView) Update(dt float32) {
	cv.fadeIn += dt
	cv.clock += dt
}

// Clock is the view's running time. Unlike the intro session's elapsed
// time it keeps advancing after the handoff, so the animated grain in the
// retro resolve never freezes.
func (cv *ContentView) Clock() float32 { return cv.clock }

// Scroll moves the text column by delta pixels, clamped to the content.
func (cv *ContentView) Scroll(delta float32) {
	cv.scroll += delta
	max := cv.maxScroll()
	if cv.scroll < 0 {
		cv.scroll = 0
	}
	if cv.scroll > max {
		cv.scroll = max
	}
}

func (cv *ContentView) maxScroll() float32 {
	total := float32(len(contentLines)) * lineHeight
	if total < 400 {
		return 0
	}
	return total - 400
}

// HandleKey processes content-mode key presses.
func (cv *ContentView) HandleKey(key int, loop *intro.Loop) {
	switch key {
	case core.KeyEscape:
		loop.Stop()
	case core.KeyUp:
		cv.Scroll(-lineHeight)
	case core.KeyDown:
		cv.Scroll(lineHeight)
	case core.KeyPageUp:
		cv.Scroll(-lineHeight * 8)
	case core.KeyPageDown:
		cv.Scroll(lineHeight * 8)
	case core.KeyHome:
		cv.scroll = 0
	case core.KeyEnd:
		cv.scroll = cv.maxScroll()
	}
}

const (
	textScale  = float32(2)
	lineHeight = float32(22)
)

// Draw renders the content frame: near-black sky, the scrolled text column,
// and the fade-in overlay on top.
func (cv *ContentView) Draw(re *renderer.RenderEngine, window *core.Window) {
	re.SetScene(cv.scene)
	if err := re.Render(); err != nil {
		return
	}

	w := float32(window.Width)
	h := float32(window.Height)

	// Column centered on the widest line
	var colWidth float32
	for _, line := range contentLines {
		if lw := re.TextWidth(line, textScale); lw > colWidth {
			colWidth = lw
		}
	}
	x := int((w - colWidth) / 2)

	y := 60 - cv.scroll
	for _, line := range contentLines {
		if y > -lineHeight && y < h {
			re.DrawText(line, x, int(y), textScale,
				core.Color{R: 0.85, G: 0.88, B: 0.95, A: 1})
		}
		y += lineHeight
	}

	// Fade in from black over the configured duration
	alpha := float32(1)
	if cv.fadeInSeconds > 0 {
		alpha = 1 - cv.fadeIn/cv.fadeInSeconds
	} else if cv.fadeIn > 0 {
		alpha = 0
	}
	if alpha < 0 {
		alpha = 0
	}
	re.SetFade(core.ColorBlack, alpha)
	re.Present(cv.clock)
}
