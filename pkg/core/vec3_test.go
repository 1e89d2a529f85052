package core

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

const tolerance = 1e-5

func vecNear(a, b Vec3) bool {
	return mgl32.FloatEqualThreshold(a.X, b.X, tolerance) &&
		mgl32.FloatEqualThreshold(a.Y, b.Y, tolerance) &&
		mgl32.FloatEqualThreshold(a.Z, b.Z, tolerance)
}

func TestVec3_Arithmetic(t *testing.T) {
	a := NewVec3(1, 2, 3)
	b := NewVec3(4, 5, 6)

	tests := []struct {
		name     string
		got      Vec3
		expected Vec3
	}{
		{"add", a.Add(b), NewVec3(5, 7, 9)},
		{"subtract", b.Subtract(a), NewVec3(3, 3, 3)},
		{"negate", a.Negate(), NewVec3(-1, -2, -3)},
		{"multiply scalar", a.Multiply(2), NewVec3(2, 4, 6)},
		{"scalar first", Scale(2, a), NewVec3(2, 4, 6)},
		{"multiply componentwise", a.MultiplyVec(b), NewVec3(4, 10, 18)},
		{"divide scalar", b.Divide(2), NewVec3(2, 2.5, 3)},
		{"cross x y", Cross(NewVec3(1, 0, 0), NewVec3(0, 1, 0)), NewVec3(0, 0, 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.expected {
				t.Errorf("Expected %v, got %v", tt.expected, tt.got)
			}
		})
	}
}

func TestVec3_Dot(t *testing.T) {
	if got := Dot(NewVec3(1, 2, 3), NewVec3(4, 5, 6)); got != 32 {
		t.Errorf("Expected dot product 32, got %f", got)
	}
}

func TestVec3_Properties(t *testing.T) {
	vectors := []Vec3{
		NewVec3(1, 2, 3),
		NewVec3(-4.5, 0.25, 7),
		NewVec3(0.001, -300, 12),
		NewVec3(3, 4, 0),
	}

	for i, a := range vectors {
		for j, b := range vectors {
			if !mgl32.FloatEqualThreshold(a.Dot(b), b.Dot(a), tolerance) {
				t.Errorf("dot(%d,%d) is not symmetric: %f vs %f", i, j, a.Dot(b), b.Dot(a))
			}
			if !vecNear(a.Cross(b), b.Cross(a).Negate()) {
				t.Errorf("cross(%d,%d) is not antisymmetric: %v vs %v", i, j, a.Cross(b), b.Cross(a).Negate())
			}
		}

		length := a.Normalize().Length()
		if !mgl32.FloatEqualThreshold(length, 1, tolerance) {
			t.Errorf("Expected unit length for normalized %v, got %f", a, length)
		}
	}
}

func TestVec3_Length(t *testing.T) {
	v := NewVec3(3, 4, 0)
	if v.LengthSquared() != 25 {
		t.Errorf("Expected squared length 25, got %f", v.LengthSquared())
	}
	if v.Length() != 5 {
		t.Errorf("Expected length 5, got %f", v.Length())
	}
}

func TestVec3_CompoundAssignment(t *testing.T) {
	v := NewVec3(1, 2, 3)
	v.AddAssign(NewVec3(1, 1, 1))
	v.SubtractAssign(NewVec3(0, 1, 2))
	v.MultiplyAssign(3)
	v.MultiplyVecAssign(NewVec3(1, 2, 0.5))
	v.DivideAssign(2)

	expected := NewVec3(3, 6, 1.5)
	if !vecNear(v, expected) {
		t.Errorf("Expected %v, got %v", expected, v)
	}
}

func TestVec3_DegenerateInputsPropagate(t *testing.T) {
	inf := NewVec3(1, -1, 0).Divide(0)
	if !math32.IsInf(inf.X, 1) || !math32.IsInf(inf.Y, -1) || !math32.IsNaN(inf.Z) {
		t.Errorf("Expected (+Inf, -Inf, NaN) from division by zero, got %v", inf)
	}

	zero := Vec3{}.Normalize()
	if !math32.IsNaN(zero.X) {
		t.Errorf("Expected NaN when normalizing the zero vector, got %v", zero)
	}
}

func TestVec3_ColorAccessors(t *testing.T) {
	c := NewVec3(0.1, 0.2, 0.3)
	if c.R() != 0.1 || c.G() != 0.2 || c.B() != 0.3 {
		t.Errorf("Expected rgb (0.1, 0.2, 0.3), got (%f, %f, %f)", c.R(), c.G(), c.B())
	}
}

func TestRay_At(t *testing.T) {
	tests := []struct {
		name     string
		ray      Ray
		param    float32
		expected Vec3
	}{
		{"origin at t=0", NewRay(NewVec3(1, 2, 3), NewVec3(1, 0, 0)), 0, NewVec3(1, 2, 3)},
		{"unit x at t=5", NewRay(NewVec3(0, 0, 0), NewVec3(1, 0, 0)), 5, NewVec3(5, 0, 0)},
		{"scaled direction", NewRay(NewVec3(0, 0, 0), NewVec3(2, 3, 4)), 2, NewVec3(4, 6, 8)},
		{"negative direction", NewRay(NewVec3(5, 5, 5), NewVec3(-1, -1, -1)), 2, NewVec3(3, 3, 3)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.ray.At(tt.param); got != tt.expected {
				t.Errorf("At(%f) = %v, want %v", tt.param, got, tt.expected)
			}
		})
	}
}
