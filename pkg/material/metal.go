package material

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/df07/go-sphere-raytracer/pkg/core"
)

// Metal represents a metallic material with specular reflection
type Metal struct {
	albedo core.Vec3 // Metal color
	fuzz   float32   // 0.0 = perfect mirror, 1.0 = very fuzzy
}

// NewMetal creates a new metal material. Fuzz is clamped to [0, 1].
func NewMetal(albedo core.Vec3, fuzz float32) *Metal {
	return &Metal{albedo: albedo, fuzz: mgl32.Clamp(fuzz, 0, 1)}
}

// Attenuation returns the metal color
func (m *Metal) Attenuation() core.Vec3 { return m.albedo }

// Fuzz returns the clamped fuzziness
func (m *Metal) Fuzz() float32 { return m.fuzz }

// Scatter implements the Material interface for metal scattering
func (m *Metal) Scatter(rayIn core.Ray, hit core.HitRecord, sampler core.Sampler) (core.ScatterResult, bool) {
	reflected := Reflect(rayIn.Direction.Normalize(), hit.Normal)

	// Add fuzziness by perturbing the reflection direction
	if m.fuzz > 0 {
		reflected = reflected.Add(core.RandomInUnitSphere(sampler).Multiply(m.fuzz))
	}

	scattered := core.NewRay(hit.Point, reflected)

	// Only scatter if the ray leaves on the normal side; otherwise it is absorbed
	return core.ScatterResult{
		Scattered:   scattered,
		Attenuation: m.albedo,
	}, scattered.Direction.Dot(hit.Normal) > 0
}

// Reflect calculates the reflection of a vector v off a surface with normal n
func Reflect(v, n core.Vec3) core.Vec3 {
	// r = v - 2*dot(v,n)*n
	return v.Subtract(n.Multiply(2 * v.Dot(n)))
}
