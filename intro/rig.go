package intro

import (
	"fmt"
	stdmath "math"

	"portalwalk/core"
	"portalwalk/math"
	"portalwalk/scene"
)

// Rig owns the renderable plaza: ground, grid, tower props, the drifting
// particle field, and the portal with its idle animations. All animation
// is a pure function of elapsed time, so the ambiance keeps moving while
// the start overlay blocks input.
type Rig struct {
	Scene  *scene.Scene
	Drift  *scene.ParticleEmitter
	Sparks *scene.ParticleEmitter

	anchor      math.Vec3
	portalGroup *scene.Node
	coreNode    *scene.Node
	ringInner   *scene.Node
	ringOuter   *scene.Node
	portalLight *scene.Light

	currentPortal math.Vec3
}

func NewRig(cfg Config) *Rig {
	s := scene.NewScene()
	s.Ambient = core.Color{R: 0.08, G: 0.08, B: 0.14, A: 1}
	s.SkyColor = core.Color{R: 0.02, G: 0.02, B: 0.06, A: 1}

	// Moonlight, enough to read silhouettes against the night sky
	s.AddLight(&scene.Light{
		Type:      scene.LightTypeDirectional,
		Direction: math.Vec3{X: 0.3, Y: -1, Z: -0.4}.Normalize(),
		Color:     core.Color{R: 0.5, G: 0.55, B: 0.8, A: 1},
		Intensity: 0.35,
	})

	r := &Rig{
		Scene:         s,
		anchor:        cfg.Portal.Position,
		currentPortal: cfg.Portal.Position,
	}

	r.buildGround()
	r.buildTowers()
	r.buildPortal()

	r.Drift = scene.NewDriftEmitter(300)
	r.Drift.Position = math.Vec3{X: 0, Y: 0.5, Z: r.anchor.Z / 2}

	r.Sparks = scene.NewPortalSparkEmitter(160)
	r.Sparks.Position = math.Vec3{X: r.anchor.X, Y: 0.2, Z: r.anchor.Z}

	return r
}

func (r *Rig) buildGround() {
	ground := scene.NewNode("Ground")
	ground.Mesh = scene.CreatePlane(120, 120, 8)
	ground.Mesh.Material = &scene.Material{
		Name:      "GroundSlate",
		Albedo:    core.Color{R: 0.1, G: 0.1, B: 0.16, A: 1},
		Specular:  core.Color{R: 0.15, G: 0.15, B: 0.2, A: 1},
		Shininess: 16,
	}
	r.Scene.AddNode(ground)

	grid := scene.NewNode("Grid")
	grid.Mesh = buildGridMesh(120, 2)
	grid.Mesh.Material = &scene.Material{
		Name:          "GridGlow",
		Albedo:        core.ColorBlack,
		EmissiveColor: core.Color{R: 0.15, G: 0.5, B: 0.7, A: 1},
		Unlit:         true,
	}
	// Slightly above the ground plane to dodge z-fighting
	grid.SetPosition(math.Vec3{Y: 0.01})
	r.Scene.AddNode(grid)
}

// buildGridMesh generates a line grid of the given extent and spacing,
// centered on the origin.
func buildGridMesh(size, spacing float32) *scene.Mesh {
	var vertices []core.Vertex
	var indices []uint32

	half := size / 2
	addLine := func(a, b math.Vec3) {
		base := uint32(len(vertices))
		for _, p := range []math.Vec3{a, b} {
			vertices = append(vertices, core.Vertex{
				Position: p,
				Normal:   math.Vec3Up,
				Color:    core.ColorWhite,
			})
		}
		indices = append(indices, base, base+1)
	}

	for x := -half; x <= half; x += spacing {
		addLine(math.Vec3{X: x, Z: -half}, math.Vec3{X: x, Z: half})
	}
	for z := -half; z <= half; z += spacing {
		addLine(math.Vec3{X: -half, Z: z}, math.Vec3{X: half, Z: z})
	}

	m := scene.CreateMeshFromData("Grid", vertices, indices)
	m.DrawMode = scene.DrawLines
	return m
}

func (r *Rig) buildTowers() {
	towerMat := &scene.Material{
		Name:      "Tower",
		Albedo:    core.Color{R: 0.12, G: 0.12, B: 0.2, A: 1},
		Specular:  core.Color{R: 0.3, G: 0.3, B: 0.4, A: 1},
		Shininess: 48,
	}

	type prop struct {
		x, z, height float32
		cylinder     bool
	}
	props := []prop{
		{-9, 4, 7, false},
		{10, 1, 5, true},
		{-12, -6, 10, false},
		{13, -9, 8, true},
		{-8, -16, 6, false},
		{9, -18, 12, false},
		{-14, -24, 9, true},
		{12, -26, 6, false},
	}

	for i, p := range props {
		n := scene.NewNode(fmt.Sprintf("Tower%d", i))
		if p.cylinder {
			n.Mesh = scene.CreateCylinder(1.4, p.height, 14)
		} else {
			n.Mesh = scene.CreateCube(1)
			n.SetScale(math.Vec3{X: 2.4, Y: p.height, Z: 2.4})
		}
		n.Mesh.Material = towerMat
		n.SetPosition(math.Vec3{X: p.x, Y: p.height / 2, Z: p.z})
		r.Scene.AddNode(n)
	}
}

func (r *Rig) buildPortal() {
	group := scene.NewNode("Portal")
	group.SetPosition(r.anchor)

	coreNode := scene.NewNode("PortalCore")
	coreNode.Mesh = scene.CreateSphere(1.1, 24, 16)
	coreNode.Mesh.Material = scene.NewEmissiveMaterial("PortalCore",
		core.Color{R: 1.8, G: 1.3, B: 2.6, A: 1})
	group.AddChild(coreNode)

	ringInner := scene.NewNode("PortalRingInner")
	ringInner.Mesh = scene.CreateTorus(2.1, 0.12, 48, 12)
	ringInner.Mesh.Material = scene.NewEmissiveMaterial("RingInner",
		core.Color{R: 1.1, G: 0.7, B: 2.0, A: 1})
	group.AddChild(ringInner)

	ringOuter := scene.NewNode("PortalRingOuter")
	ringOuter.Mesh = scene.CreateTorus(2.7, 0.08, 48, 12)
	ringOuter.Mesh.Material = scene.NewEmissiveMaterial("RingOuter",
		core.Color{R: 0.6, G: 0.4, B: 1.4, A: 1})
	group.AddChild(ringOuter)

	r.Scene.AddNode(group)
	r.portalGroup = group
	r.coreNode = coreNode
	r.ringInner = ringInner
	r.ringOuter = ringOuter

	r.portalLight = &scene.Light{
		Type:      scene.LightTypePoint,
		Position:  r.anchor,
		Color:     core.Color{R: 0.7, G: 0.45, B: 1.0, A: 1},
		Intensity: 2.5,
		Range:     28,
	}
	r.Scene.AddLight(r.portalLight)
}

// SetCenterpiece swaps the glowing core sphere for an artist-supplied
// mesh. Rings, bobbing, and the light are unaffected.
func (r *Rig) SetCenterpiece(mesh *scene.Mesh) {
	if mesh == nil {
		return
	}
	r.coreNode.Mesh = mesh
}

// LoadCenterpiece loads a glTF file and installs its first mesh as the
// portal core. Failure is non-fatal: the built-in sphere stays.
func (r *Rig) LoadCenterpiece(path string) error {
	roots, err := scene.LoadGLTF(path)
	if err != nil {
		return err
	}
	for _, root := range roots {
		var found *scene.Mesh
		root.Traverse(func(n *scene.Node) {
			if found == nil && n.Mesh != nil {
				found = n.Mesh
			}
		})
		if found != nil {
			r.SetCenterpiece(found)
			return nil
		}
	}
	return fmt.Errorf("no mesh in %s", path)
}

// Advance runs the idle animations for elapsed time t and simulates the
// particle systems by dt. Runs in every phase.
func (r *Rig) Advance(t float64, dt float32) {
	bob := float32(stdmath.Sin(t*1.2)) * 0.35
	pos := r.anchor.Add(math.Vec3Up.Mul(bob))
	r.portalGroup.SetPosition(pos)
	r.currentPortal = pos
	r.portalLight.Position = pos

	// Counter-rotating rings, outer one tilted off-axis
	r.ringInner.SetRotation(math.QuaternionFromAxisAngle(math.Vec3Up, float32(t)*0.6))
	tilt := math.QuaternionFromAxisAngle(math.Vec3Right, 0.5)
	r.ringOuter.SetRotation(tilt.Mul(math.QuaternionFromAxisAngle(math.Vec3Up, float32(t)*-0.45)).Normalize())

	pulse := 1 + 0.08*float32(stdmath.Sin(t*3))
	r.coreNode.SetScale(math.Vec3{X: pulse, Y: pulse, Z: pulse})

	r.Drift.Update(dt)
	r.Sparks.Position = math.Vec3{X: r.anchor.X, Y: 0.2, Z: r.anchor.Z}
	r.Sparks.Update(dt)
}

// PortalPosition returns the bobbing anchor used for distance queries.
func (r *Rig) PortalPosition() math.Vec3 {
	return r.currentPortal
}
