package geometry

import (
	"github.com/chewxy/math32"

	"github.com/df07/go-sphere-raytracer/pkg/core"
)

// Sphere represents a sphere shape
type Sphere struct {
	center   core.Vec3
	radius   float32
	material core.Material
}

// NewSphere creates a new sphere. A negative radius is allowed and turns the
// surface normals inward, which is how hollow glass is modelled.
func NewSphere(center core.Vec3, radius float32, material core.Material) *Sphere {
	return &Sphere{
		center:   center,
		radius:   radius,
		material: material,
	}
}

// Center returns the sphere center
func (s *Sphere) Center() core.Vec3 { return s.center }

// Radius returns the sphere radius
func (s *Sphere) Radius() float32 { return s.radius }

// Material returns the material shared by every hit on this sphere
func (s *Sphere) Material() core.Material { return s.material }

// Hit tests if a ray intersects with the sphere
func (s *Sphere) Hit(ray core.Ray, tMin, tMax float32) (*core.HitRecord, bool) {
	// Vector from ray origin to sphere center
	oc := ray.Origin.Subtract(s.center)

	// Quadratic equation coefficients: at² + 2bt + c = 0
	a := ray.Direction.Dot(ray.Direction)
	halfB := oc.Dot(ray.Direction)
	c := oc.Dot(oc) - s.radius*s.radius

	discriminant := halfB*halfB - a*c

	// Tangent rays count as a miss
	if discriminant <= 0 {
		return nil, false
	}

	sqrtD := math32.Sqrt(discriminant)

	// Try the closer intersection point first
	root := (-halfB - sqrtD) / a
	if root <= tMin || root >= tMax {
		root = (-halfB + sqrtD) / a
		if root <= tMin || root >= tMax {
			return nil, false
		}
	}

	point := ray.At(root)
	return &core.HitRecord{
		T:        root,
		Point:    point,
		Normal:   point.Subtract(s.center).Divide(s.radius),
		Material: s.material,
	}, true
}
