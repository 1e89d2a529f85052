package material

import (
	"github.com/chewxy/math32"

	"github.com/df07/go-sphere-raytracer/pkg/core"
)

// Dielectric represents a transparent material like glass that can both reflect and refract
type Dielectric struct {
	refractiveIndex float32 // Index of refraction (e.g., 1.5 for glass)
}

// NewDielectric creates a new dielectric material
func NewDielectric(refractiveIndex float32) *Dielectric {
	return &Dielectric{refractiveIndex: refractiveIndex}
}

// RefractiveIndex returns the index of refraction
func (d *Dielectric) RefractiveIndex() float32 {
	return d.refractiveIndex
}

// Scatter implements the Material interface for dielectric scattering.
// Dielectrics never absorb.
func (d *Dielectric) Scatter(rayIn core.Ray, hit core.HitRecord, sampler core.Sampler) (core.ScatterResult, bool) {
	// Clear glass does not tint
	attenuation := core.NewVec3(1.0, 1.0, 1.0)

	direction := rayIn.Direction
	reflected := Reflect(direction, hit.Normal)
	normalDot := direction.Dot(hit.Normal)

	// Sphere normals always point outward, so a positive dot means the ray
	// is leaving the medium
	var outwardNormal core.Vec3
	var niOverNt, cosine float32
	if normalDot > 0 {
		outwardNormal = hit.Normal.Negate()
		niOverNt = d.refractiveIndex
		cosine = d.refractiveIndex * normalDot / direction.Length()
	} else {
		outwardNormal = hit.Normal
		niOverNt = 1.0 / d.refractiveIndex
		cosine = -normalDot / direction.Length()
	}

	scatterDirection := reflected
	if refracted, ok := Refract(direction, outwardNormal, niOverNt); ok {
		if sampler.Get1D() >= Reflectance(cosine, d.refractiveIndex) {
			scatterDirection = refracted
		}
	}

	return core.ScatterResult{
		Scattered:   core.NewRay(hit.Point, scatterDirection),
		Attenuation: attenuation,
	}, true
}

// Refract bends v through a surface with normal n using Snell's law.
// It reports false on total internal reflection.
func Refract(v, n core.Vec3, niOverNt float32) (core.Vec3, bool) {
	uv := v.Normalize()
	dt := uv.Dot(n)
	discriminant := 1.0 - niOverNt*niOverNt*(1-dt*dt)
	if discriminant <= 0 {
		return core.Vec3{}, false
	}
	return uv.Subtract(n.Multiply(dt)).Multiply(niOverNt).Subtract(n.Multiply(math32.Sqrt(discriminant))), true
}

// Reflectance calculates the Fresnel reflectance using Schlick's approximation
func Reflectance(cosine, refractiveIndex float32) float32 {
	r0 := (1 - refractiveIndex) / (1 + refractiveIndex)
	r0 = r0 * r0
	return r0 + (1-r0)*math32.Pow(1-cosine, 5)
}
