package renderer

import (
	"fmt"

	"portalwalk/core"
	"portalwalk/internal/opengl"
	"portalwalk/scene"
)

// textCmd is a queued DrawText call, flushed in Present().
type textCmd struct {
	text  string
	x, y  float32
	scale float32
	color core.Color
}

// RenderEngine is the high-level renderer that drives the OpenGL backend.
type RenderEngine struct {
	gl                 *opengl.Renderer
	window             *core.Window
	Scene              *scene.Scene
	FrustumCulling     bool // skip draws whose world AABB is outside the frustum
	PostProcessEnabled bool // enable via EnablePostProcess()
	SkyboxEnabled      bool // enable via EnableSkybox()

	// Per-frame stats (populated during Render)
	lastObjects   int
	lastVertices  int
	lastTriangles int
	lastCulled    int

	// Queued text commands, flushed in Present() after the HDR blit
	textQueue []textCmd

	// Fullscreen fade drawn last in Present(); 0 = invisible
	fadeColor core.Color
	fadeAlpha float32
}

func NewRenderEngine(window *core.Window) (*RenderEngine, error) {
	glRenderer, err := opengl.NewRenderer()
	if err != nil {
		return nil, fmt.Errorf("failed to create OpenGL renderer: %w", err)
	}

	glRenderer.SetViewport(window.Width, window.Height)

	fmt.Println("Render engine initialized (OpenGL)")
	return &RenderEngine{
		gl:             glRenderer,
		window:         window,
		FrustumCulling: true,
	}, nil
}

// EnableSkybox creates the procedural gradient skybox.
// Call once after NewRenderEngine, before the first Render.
func (re *RenderEngine) EnableSkybox() error {
	if err := re.gl.EnableSkybox(); err != nil {
		return fmt.Errorf("skybox: %w", err)
	}
	re.SkyboxEnabled = true
	return nil
}

// SetSkyboxColors adjusts the three gradient stops.
// zenith = overhead, horizon = eye-level, ground = below the horizon.
func (re *RenderEngine) SetSkyboxColors(zenith, horizon, ground core.Color) {
	if sb := re.gl.SkyboxRef(); sb != nil {
		sb.SetColors(zenith, horizon, ground)
	}
}

// SetFog configures exponential depth fog. density: 0.01=haze, 0.05=thick.
// color should match the horizon sky for natural blending.
func (re *RenderEngine) SetFog(enabled bool, density float32, color core.Color) {
	re.gl.SetFog(enabled, density, color)
}

// EnablePostProcess creates the HDR post-processing FBO at the current window size.
// Call once after NewRenderEngine, before the first Render.
func (re *RenderEngine) EnablePostProcess() error {
	if err := re.gl.EnablePostProcess(re.window.Width, re.window.Height); err != nil {
		return fmt.Errorf("post-process: %w", err)
	}
	re.PostProcessEnabled = true
	return nil
}

// SetExposure sets the HDR tone-mapping exposure (default 1.0).
func (re *RenderEngine) SetExposure(exp float32) {
	re.gl.SetExposure(exp)
}

// EnableBloom activates the bloom effect. EnablePostProcess must be called first.
func (re *RenderEngine) EnableBloom() error {
	return re.gl.EnableBloom()
}

// SetBloomThreshold sets the luminance cut-off for bloom (default 1.0).
func (re *RenderEngine) SetBloomThreshold(t float32) { re.gl.SetBloomThreshold(t) }

// SetBloomStrength sets the additive bloom multiplier (default 0.6).
func (re *RenderEngine) SetBloomStrength(s float32) { re.gl.SetBloomStrength(s) }

// SetRetro toggles the stylised CRT resolve pass. Requires post-processing.
func (re *RenderEngine) SetRetro(enabled bool) { re.gl.SetRetro(enabled) }

// RetroParams exposes the mutable retro tuning block (nil without post-processing).
func (re *RenderEngine) RetroParams() *opengl.RetroParams { return re.gl.RetroParams() }

func (re *RenderEngine) SetScene(s *scene.Scene) {
	re.Scene = s
}

func (re *RenderEngine) Render() error {
	if re.Scene == nil || re.Scene.Camera == nil {
		return fmt.Errorf("no scene or camera")
	}

	re.gl.BeginFrame(
		re.Scene.SkyColor,
		re.Scene.Lights,
		re.Scene.Ambient,
		re.Scene.Camera.Position,
	)

	view := re.Scene.Camera.GetViewMatrix()
	proj := re.Scene.Camera.GetProjectionMatrix()

	// Draw skybox first (depth=1.0 via xyww, before all scene geometry)
	re.gl.DrawSkybox(view, proj)

	// Build view-projection matrix for frustum culling
	vp := view.Mul(proj)
	frustum := scene.FrustumFromVP(vp)

	objects, vertices, triangles, culled := 0, 0, 0, 0

	for _, node := range re.Scene.GetVisibleNodes() {
		if node.Mesh == nil {
			continue
		}

		model := node.GetWorldMatrix()

		// Frustum culling: skip draw if AABB is completely outside the frustum
		if re.FrustumCulling {
			aabb := scene.ComputeAABB(node.Mesh, model)
			if !aabb.IntersectsFrustum(&frustum) {
				culled++
				continue
			}
		}

		mvp := model.Mul(view).Mul(proj)
		re.gl.DrawMesh(node.Mesh, mvp, model)

		objects++
		vertices += len(node.Mesh.Vertices)
		triangles += len(node.Mesh.Indices) / 3
	}

	re.lastObjects = objects
	re.lastVertices = vertices
	re.lastTriangles = triangles
	re.lastCulled = culled

	return nil
}

// Present resolves the HDR FBO (tone mapping, bloom, retro) to the default
// framebuffer, flushes queued text (drawn on top of the blit), and swaps
// buffers. t is elapsed seconds, used to animate the retro grain.
// Call after Render() and any additional draw passes.
func (re *RenderEngine) Present(t float32) {
	re.gl.BlitPostProcess(t)
	// Flush text queue — drawn to the default framebuffer, always on top
	if len(re.textQueue) > 0 {
		sw := float32(re.window.Width)
		sh := float32(re.window.Height)
		for _, cmd := range re.textQueue {
			re.gl.DrawText(cmd.text, cmd.x, cmd.y, cmd.scale, cmd.color, sw, sh)
		}
		re.textQueue = re.textQueue[:0]
	}
	if re.fadeAlpha > 0 {
		re.gl.DrawFade(re.fadeColor, re.fadeAlpha)
	}
	re.window.SwapBuffers()
}

// SetFade sets the fullscreen fade overlay drawn on top of everything in the
// next Present(). alpha 0 disables it.
func (re *RenderEngine) SetFade(color core.Color, alpha float32) {
	re.fadeColor = color
	re.fadeAlpha = alpha
}

// DrawText queues a text string to be drawn at screen position (x, y) in the
// next Present() call. scale is the pixel size of one font pixel.
// Text is drawn after tone mapping, so it bypasses HDR and is always readable.
func (re *RenderEngine) DrawText(text string, x, y int, scale float32, color core.Color) {
	re.textQueue = append(re.textQueue, textCmd{
		text:  text,
		x:     float32(x),
		y:     float32(y),
		scale: scale,
		color: color,
	})
}

// TextWidth returns the pixel width of text at the given scale, for centering.
func (re *RenderEngine) TextWidth(text string, scale float32) float32 {
	return opengl.TextWidth(text, scale)
}

func (re *RenderEngine) Resize(width, height uint32) {
	re.gl.SetViewport(int(width), int(height))
	if re.PostProcessEnabled {
		re.gl.ResizePostProcess(int(width), int(height))
	}
	if re.Scene != nil && re.Scene.Camera != nil {
		re.Scene.Camera.UpdateAspectRatio(float32(width), float32(height))
	}
}

// DrawParticles renders a ParticleEmitter's live particles as camera-facing
// billboards.  Call between Render() and Present() so particles are included
// in the HDR FBO and benefit from tone mapping and bloom.
func (re *RenderEngine) DrawParticles(emitter *scene.ParticleEmitter) {
	if re.Scene == nil || re.Scene.Camera == nil || emitter == nil {
		return
	}
	view := re.Scene.Camera.GetViewMatrix()
	proj := re.Scene.Camera.GetProjectionMatrix()
	re.gl.DrawParticles(emitter, view, proj)
}

// SetWireframe toggles wireframe rendering mode on/off.
func (re *RenderEngine) SetWireframe(enabled bool) {
	re.gl.SetWireframe(enabled)
}

// IsWireframe returns whether wireframe mode is currently active.
func (re *RenderEngine) IsWireframe() bool {
	return re.gl.IsWireframe()
}

func (re *RenderEngine) Destroy() {
	re.gl.Destroy()
}

// DrawStats returns stats from the most recent Render call.
func (re *RenderEngine) DrawStats() (objects, vertices, triangles, culled int) {
	return re.lastObjects, re.lastVertices, re.lastTriangles, re.lastCulled
}
