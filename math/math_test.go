package math

import (
	"math"
	"testing"
)

func TestVec3Operations(t *testing.T) {
	v1 := NewVec3(1, 2, 3)
	v2 := NewVec3(4, 5, 6)

	result := v1.Add(v2)
	expected := NewVec3(5, 7, 9)
	if result != expected {
		t.Errorf("Add: expected %v, got %v", expected, result)
	}

	result = v2.Sub(v1)
	expected = NewVec3(3, 3, 3)
	if result != expected {
		t.Errorf("Sub: expected %v, got %v", expected, result)
	}

	dot := v1.Dot(v2)
	if dot != 32 {
		t.Errorf("Dot: expected 32, got %v", dot)
	}

	// Right x Up = Front in this right-handed convention
	cross := Vec3Right.Cross(Vec3Up)
	if cross != Vec3Front {
		t.Errorf("Cross: expected %v, got %v", Vec3Front, cross)
	}
}

func TestVec3Normalize(t *testing.T) {
	v := NewVec3(3, 0, 0)
	normalized := v.Normalize()
	if normalized != NewVec3(1, 0, 0) {
		t.Errorf("Normalize: expected (1,0,0), got %v", normalized)
	}

	length := NewVec3(2, -5, 11).Normalize().Length()
	if math.Abs(float64(length-1)) > 0.0001 {
		t.Errorf("Normalize: expected length 1, got %v", length)
	}

	// Zero vector stays zero instead of producing NaN
	if z := Vec3Zero.Normalize(); z != Vec3Zero {
		t.Errorf("Normalize zero: expected zero vector, got %v", z)
	}
}

func TestVec2ClampLength(t *testing.T) {
	// Diagonal input (1,1) has magnitude sqrt(2); clamped it must be unit length
	v := NewVec2(1, 1).ClampLength(1)
	if math.Abs(float64(v.Length()-1)) > 0.0001 {
		t.Errorf("ClampLength: expected unit length, got %v", v.Length())
	}

	// Vectors already inside the limit are untouched
	small := NewVec2(0.3, 0.4)
	if clamped := small.ClampLength(1); clamped != small {
		t.Errorf("ClampLength: expected %v unchanged, got %v", small, clamped)
	}
}

func TestVec3IsFinite(t *testing.T) {
	if !NewVec3(1, 2, 3).IsFinite() {
		t.Error("IsFinite: expected true for a finite vector")
	}
	nan := float32(math.NaN())
	if NewVec3(nan, 0, 0).IsFinite() {
		t.Error("IsFinite: expected false when a component is NaN")
	}
	inf := float32(math.Inf(1))
	if NewVec3(0, inf, 0).IsFinite() {
		t.Error("IsFinite: expected false when a component is Inf")
	}
}

func TestMat4Identity(t *testing.T) {
	m := Mat4Identity()
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			expected := float32(0)
			if i == j {
				expected = 1
			}
			if m[i][j] != expected {
				t.Errorf("Identity: expected [%d][%d] = %v, got %v", i, j, expected, m[i][j])
			}
		}
	}
}

func TestMat4Translation(t *testing.T) {
	translation := NewVec3(1, 2, 3)
	m := Mat4Translation(translation)

	point := NewVec4(0, 0, 0, 1)
	result := point.MulMat(m)
	if result.ToVec3() != translation {
		t.Errorf("Translation: expected %v, got %v", translation, result.ToVec3())
	}
}

func TestMat4LookAt(t *testing.T) {
	eye := NewVec3(0, 0, 5)
	m := Mat4LookAt(eye, NewVec3(0, 0, 0), Vec3Up)

	// The view matrix must transform the eye position to the origin
	result := m.MulVec(eye.ToVec4(1))
	tolerance := float32(0.001)
	if math.Abs(float64(result.X)) > float64(tolerance) ||
		math.Abs(float64(result.Y)) > float64(tolerance) ||
		math.Abs(float64(result.Z)) > float64(tolerance) {
		t.Errorf("LookAt: expected eye to transform to origin, got (%v,%v,%v)", result.X, result.Y, result.Z)
	}
}

func TestQuaternionRotation(t *testing.T) {
	// 90 degrees around Y rotates +X onto -Z
	q := QuaternionFromAxisAngle(Vec3Up, float32(math.Pi/2))
	result := q.RotateVector(Vec3Right)

	tolerance := float32(0.001)
	if math.Abs(float64(result.X)) > float64(tolerance) ||
		math.Abs(float64(result.Y)) > float64(tolerance) ||
		math.Abs(float64(result.Z+1)) > float64(tolerance) {
		t.Errorf("Quaternion rotation: expected approximately (0,0,-1), got (%v,%v,%v)", result.X, result.Y, result.Z)
	}
}

func BenchmarkVec3Add(b *testing.B) {
	v1 := NewVec3(1, 2, 3)
	v2 := NewVec3(4, 5, 6)
	for i := 0; i < b.N; i++ {
		_ = v1.Add(v2)
	}
}

func BenchmarkMat4Mul(b *testing.B) {
	m1 := Mat4Identity()
	m2 := Mat4Identity()
	for i := 0; i < b.N; i++ {
		_ = m1.Mul(m2)
	}
}
