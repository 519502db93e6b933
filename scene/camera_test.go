package scene

import (
	stdmath "math"
	"testing"

	"portalwalk/math"
)

const camEpsilon = 1e-5

func nearEqual(a, b float32) bool {
	return stdmath.Abs(float64(a-b)) < camEpsilon
}

func TestCameraYawZeroFacesNegZ(t *testing.T) {
	cam := NewCamera(float32(stdmath.Pi)/3, 16.0/9.0, 0.1, 500)

	f := cam.Forward()
	if !nearEqual(f.X, 0) || !nearEqual(f.Y, 0) || !nearEqual(f.Z, -1) {
		t.Errorf("Forward at yaw 0: expected (0, 0, -1), got (%v, %v, %v)", f.X, f.Y, f.Z)
	}
}

func TestCameraPitchClamped(t *testing.T) {
	cam := NewCamera(float32(stdmath.Pi)/3, 16.0/9.0, 0.1, 500)

	// Way past straight up
	cam.AddLook(0, -10)
	if cam.Pitch() >= float32(stdmath.Pi)/2 {
		t.Errorf("Pitch: expected < pi/2, got %v", cam.Pitch())
	}

	// Way past straight down
	cam.AddLook(0, 20)
	if cam.Pitch() <= -float32(stdmath.Pi)/2 {
		t.Errorf("Pitch: expected > -pi/2, got %v", cam.Pitch())
	}

	// Even at the clamp the forward vector must keep a horizontal component
	f := cam.Forward()
	horiz := math.Vec3{X: f.X, Z: f.Z}.Length()
	if horiz <= 0 {
		t.Errorf("Forward at pitch clamp: expected nonzero horizontal component, got %v", horiz)
	}
}

func TestYawForwardIgnoresPitch(t *testing.T) {
	cam := NewCamera(float32(stdmath.Pi)/3, 16.0/9.0, 0.1, 500)
	cam.SetYawPitch(0.7, 1.2)

	f := cam.YawForward()
	if !nearEqual(f.Y, 0) {
		t.Errorf("YawForward.Y: expected 0, got %v", f.Y)
	}
	if !nearEqual(f.Length(), 1) {
		t.Errorf("YawForward length: expected 1, got %v", f.Length())
	}
}

func TestYawRightOrthogonal(t *testing.T) {
	cam := NewCamera(float32(stdmath.Pi)/3, 16.0/9.0, 0.1, 500)
	cam.SetYawPitch(0.4, 0)

	dot := cam.YawForward().Dot(cam.YawRight())
	if !nearEqual(dot, 0) {
		t.Errorf("YawForward . YawRight: expected 0, got %v", dot)
	}

	// At yaw 0, right must be +X
	cam.SetYawPitch(0, 0)
	r := cam.YawRight()
	if !nearEqual(r.X, 1) || !nearEqual(r.Y, 0) || !nearEqual(r.Z, 0) {
		t.Errorf("YawRight at yaw 0: expected (1, 0, 0), got (%v, %v, %v)", r.X, r.Y, r.Z)
	}
}

func TestFrustumCullsBehindCamera(t *testing.T) {
	cam := NewCamera(float32(stdmath.Pi)/3, 16.0/9.0, 0.1, 500)
	cam.SetPosition(math.Vec3{Y: 1.6})

	frustum := FrustumFromVP(cam.GetViewMatrix().Mul(cam.GetProjectionMatrix()))

	inFront := AABB{
		Min: math.Vec3{X: -1, Y: 0, Z: -12},
		Max: math.Vec3{X: 1, Y: 3, Z: -10},
	}
	if !inFront.IntersectsFrustum(&frustum) {
		t.Errorf("AABB in front: expected visible, got culled")
	}

	behind := AABB{
		Min: math.Vec3{X: -1, Y: 0, Z: 10},
		Max: math.Vec3{X: 1, Y: 3, Z: 12},
	}
	if behind.IntersectsFrustum(&frustum) {
		t.Errorf("AABB behind camera: expected culled, got visible")
	}

	beyondFar := AABB{
		Min: math.Vec3{X: -1, Y: 0, Z: -620},
		Max: math.Vec3{X: 1, Y: 3, Z: -600},
	}
	if beyondFar.IntersectsFrustum(&frustum) {
		t.Errorf("AABB beyond far plane: expected culled, got visible")
	}
}

func TestComputeAABBTranslated(t *testing.T) {
	mesh := CreateCube(2)
	model := math.Mat4Translation(math.Vec3{X: 5, Y: 1, Z: -3})

	box := ComputeAABB(mesh, model)
	if !nearEqual(box.Min.X, 4) || !nearEqual(box.Max.X, 6) {
		t.Errorf("AABB X: expected [4, 6], got [%v, %v]", box.Min.X, box.Max.X)
	}
	if !nearEqual(box.Min.Z, -4) || !nearEqual(box.Max.Z, -2) {
		t.Errorf("AABB Z: expected [-4, -2], got [%v, %v]", box.Min.Z, box.Max.Z)
	}
}
