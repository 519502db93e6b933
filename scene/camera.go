package scene

import (
	stdmath "math"

	"portalwalk/math"
)

// Camera is a first-person view camera driven by yaw and pitch.
// Yaw 0 faces -Z; positive pitch looks up. Matrices are cached and
// recomputed lazily when the pose changes.
type Camera struct {
	Position    math.Vec3
	FOV         float32
	AspectRatio float32
	NearPlane   float32
	FarPlane    float32

	yaw   float32
	pitch float32

	viewMatrix       math.Mat4
	projectionMatrix math.Mat4
	viewProjMatrix   math.Mat4
	dirty            bool
}

// maxPitch keeps the look direction from becoming parallel to the up
// vector, which would degenerate the view basis.
const maxPitch = float32(stdmath.Pi/2) - 0.001

func NewCamera(fov, aspectRatio, nearPlane, farPlane float32) *Camera {
	return &Camera{
		Position:    math.Vec3Zero,
		FOV:         fov,
		AspectRatio: aspectRatio,
		NearPlane:   nearPlane,
		FarPlane:    farPlane,
		dirty:       true,
	}
}

func (c *Camera) UpdateAspectRatio(width, height float32) {
	if height > 0 {
		c.AspectRatio = width / height
		c.dirty = true
	}
}

func (c *Camera) SetPosition(pos math.Vec3) {
	c.Position = pos
	c.dirty = true
}

func (c *Camera) Yaw() float32   { return c.yaw }
func (c *Camera) Pitch() float32 { return c.pitch }

func (c *Camera) SetYawPitch(yaw, pitch float32) {
	c.yaw = yaw
	c.pitch = clampPitch(pitch)
	c.dirty = true
}

// AddLook applies a relative look delta in radians.
// Positive dx turns right, positive dy looks down (screen convention).
func (c *Camera) AddLook(dx, dy float32) {
	c.yaw -= dx
	c.pitch = clampPitch(c.pitch - dy)
	c.dirty = true
}

func clampPitch(p float32) float32 {
	if p > maxPitch {
		return maxPitch
	}
	if p < -maxPitch {
		return -maxPitch
	}
	return p
}

// Forward returns the full look direction including pitch.
func (c *Camera) Forward() math.Vec3 {
	cosP := float32(stdmath.Cos(float64(c.pitch)))
	return math.Vec3{
		X: -float32(stdmath.Sin(float64(c.yaw))) * cosP,
		Y: float32(stdmath.Sin(float64(c.pitch))),
		Z: -float32(stdmath.Cos(float64(c.yaw))) * cosP,
	}
}

// YawForward returns the look direction projected onto the ground plane.
// Locomotion uses this so looking up or down never changes walking speed.
func (c *Camera) YawForward() math.Vec3 {
	return math.Vec3{
		X: -float32(stdmath.Sin(float64(c.yaw))),
		Z: -float32(stdmath.Cos(float64(c.yaw))),
	}
}

// YawRight is the strafe axis on the ground plane.
func (c *Camera) YawRight() math.Vec3 {
	return c.YawForward().Cross(math.Vec3Up)
}

func (c *Camera) GetViewMatrix() math.Mat4 {
	if c.dirty {
		c.updateMatrices()
	}
	return c.viewMatrix
}

func (c *Camera) GetProjectionMatrix() math.Mat4 {
	if c.dirty {
		c.updateMatrices()
	}
	return c.projectionMatrix
}

func (c *Camera) GetViewProjectionMatrix() math.Mat4 {
	if c.dirty {
		c.updateMatrices()
	}
	return c.viewProjMatrix
}

func (c *Camera) updateMatrices() {
	target := c.Position.Add(c.Forward())
	c.viewMatrix = math.Mat4LookAt(c.Position, target, math.Vec3Up)
	c.projectionMatrix = math.Mat4Perspective(c.FOV, c.AspectRatio, c.NearPlane, c.FarPlane)
	c.viewProjMatrix = c.viewMatrix.Mul(c.projectionMatrix)
	c.dirty = false
}
