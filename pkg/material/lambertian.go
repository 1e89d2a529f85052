package material

import (
	"github.com/df07/go-sphere-raytracer/pkg/core"
)

// Lambertian represents a perfectly diffuse material
type Lambertian struct {
	albedo core.Vec3
}

// NewLambertian creates a new lambertian material
func NewLambertian(albedo core.Vec3) *Lambertian {
	return &Lambertian{albedo: albedo}
}

// Attenuation returns the per-channel reflectance of the surface
func (l *Lambertian) Attenuation() core.Vec3 {
	return l.albedo
}

// Scatter implements the Material interface for lambertian scattering.
// The new direction is the normal plus a random point in the unit sphere.
func (l *Lambertian) Scatter(rayIn core.Ray, hit core.HitRecord, sampler core.Sampler) (core.ScatterResult, bool) {
	scatterDirection := hit.Normal.Add(core.RandomInUnitSphere(sampler))

	return core.ScatterResult{
		Scattered:   core.NewRay(hit.Point, scatterDirection),
		Attenuation: l.albedo,
	}, true
}
