package core

import "github.com/chewxy/math32"

// Vec3 represents a 3D vector. It doubles as an RGB color.
type Vec3 struct {
	X, Y, Z float32
}

// NewVec3 creates a new Vec3
func NewVec3(x, y, z float32) Vec3 {
	return Vec3{X: x, Y: y, Z: z}
}

// R returns the red channel when the vector holds a color
func (v Vec3) R() float32 { return v.X }

// G returns the green channel when the vector holds a color
func (v Vec3) G() float32 { return v.Y }

// B returns the blue channel when the vector holds a color
func (v Vec3) B() float32 { return v.Z }

// Add returns the sum of two vectors
func (v Vec3) Add(other Vec3) Vec3 {
	return Vec3{v.X + other.X, v.Y + other.Y, v.Z + other.Z}
}

// Subtract returns the difference of two vectors
func (v Vec3) Subtract(other Vec3) Vec3 {
	return Vec3{v.X - other.X, v.Y - other.Y, v.Z - other.Z}
}

// Negate returns the negative of the vector
func (v Vec3) Negate() Vec3 {
	return Vec3{-v.X, -v.Y, -v.Z}
}

// Multiply returns the vector scaled by a scalar
func (v Vec3) Multiply(scalar float32) Vec3 {
	return Vec3{v.X * scalar, v.Y * scalar, v.Z * scalar}
}

// MultiplyVec returns component-wise multiplication of two vectors
func (v Vec3) MultiplyVec(other Vec3) Vec3 {
	return Vec3{v.X * other.X, v.Y * other.Y, v.Z * other.Z}
}

// Divide returns the vector divided by a scalar.
// Dividing by zero yields Inf/NaN components; callers own that case.
func (v Vec3) Divide(scalar float32) Vec3 {
	return Vec3{v.X / scalar, v.Y / scalar, v.Z / scalar}
}

// Dot returns the dot product of two vectors
func (v Vec3) Dot(other Vec3) float32 {
	return v.X*other.X + v.Y*other.Y + v.Z*other.Z
}

// Cross returns the cross product of two vectors
func (v Vec3) Cross(other Vec3) Vec3 {
	return Vec3{
		X: v.Y*other.Z - v.Z*other.Y,
		Y: v.Z*other.X - v.X*other.Z,
		Z: v.X*other.Y - v.Y*other.X,
	}
}

// LengthSquared returns the squared magnitude of the vector
func (v Vec3) LengthSquared() float32 {
	return v.Dot(v)
}

// Length returns the magnitude of the vector
func (v Vec3) Length() float32 {
	return math32.Sqrt(v.LengthSquared())
}

// Normalize returns a unit vector in the same direction.
// The zero vector is not special-cased and normalizes to NaNs.
func (v Vec3) Normalize() Vec3 {
	return v.Divide(v.Length())
}

// AddAssign adds other to v in place
func (v *Vec3) AddAssign(other Vec3) {
	v.X += other.X
	v.Y += other.Y
	v.Z += other.Z
}

// SubtractAssign subtracts other from v in place
func (v *Vec3) SubtractAssign(other Vec3) {
	v.X -= other.X
	v.Y -= other.Y
	v.Z -= other.Z
}

// MultiplyAssign scales v in place
func (v *Vec3) MultiplyAssign(scalar float32) {
	v.X *= scalar
	v.Y *= scalar
	v.Z *= scalar
}

// MultiplyVecAssign multiplies v component-wise by other in place
func (v *Vec3) MultiplyVecAssign(other Vec3) {
	v.X *= other.X
	v.Y *= other.Y
	v.Z *= other.Z
}

// DivideAssign divides v by a scalar in place
func (v *Vec3) DivideAssign(scalar float32) {
	v.X /= scalar
	v.Y /= scalar
	v.Z /= scalar
}

// Scale returns s*v, the scalar-first form of Multiply
func Scale(s float32, v Vec3) Vec3 {
	return v.Multiply(s)
}

// Dot returns the dot product of a and b
func Dot(a, b Vec3) float32 {
	return a.Dot(b)
}

// Cross returns the cross product a × b
func Cross(a, b Vec3) Vec3 {
	return a.Cross(b)
}

// Vec2 represents a 2D vector, used for paired random samples
type Vec2 struct {
	X, Y float32
}

// NewVec2 creates a new Vec2
func NewVec2(x, y float32) Vec2 {
	return Vec2{X: x, Y: y}
}
