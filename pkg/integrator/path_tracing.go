package integrator

import (
	"github.com/chewxy/math32"

	"github.com/df07/go-sphere-raytracer/pkg/core"
)

// HitEpsilon is the lower bound of the hit window for every bounce.
// It keeps scattered rays from re-hitting the surface they leave.
const HitEpsilon float32 = 0.001

var (
	// SkyColor is the background at the top of the gradient
	SkyColor = core.NewVec3(0.5, 0.7, 1.0)
	// HorizonColor is the background at the bottom of the gradient
	HorizonColor = core.NewVec3(1.0, 1.0, 1.0)
)

// PathTracingIntegrator implements unidirectional path tracing with a hard depth cap
type PathTracingIntegrator struct {
	maxDepth int
}

// NewPathTracingIntegrator creates a new path tracing integrator.
// A non-positive maxDepth selects core.DefaultMaxDepth.
func NewPathTracingIntegrator(maxDepth int) *PathTracingIntegrator {
	if maxDepth <= 0 {
		maxDepth = core.DefaultMaxDepth
	}
	return &PathTracingIntegrator{maxDepth: maxDepth}
}

// MaxDepth returns the number of bounces after which paths are cut off
func (pt *PathTracingIntegrator) MaxDepth() int {
	return pt.maxDepth
}

// RayColor computes the color for a single camera ray
func (pt *PathTracingIntegrator) RayColor(ray core.Ray, world core.Hittable, sampler core.Sampler) core.Vec3 {
	return pt.rayColor(ray, world, sampler, 0)
}

func (pt *PathTracingIntegrator) rayColor(ray core.Ray, world core.Hittable, sampler core.Sampler, depth int) core.Vec3 {
	hit, isHit := world.Hit(ray, HitEpsilon, math32.MaxFloat32)
	if !isHit {
		return BackgroundGradient(ray)
	}

	scatter, didScatter := hit.Material.Scatter(ray, *hit, sampler)
	if !didScatter || depth >= pt.maxDepth {
		// Absorbed, or the path ran out of bounces
		return core.Vec3{}
	}

	return scatter.Attenuation.MultiplyVec(pt.rayColor(scatter.Scattered, world, sampler, depth+1))
}

// BackgroundGradient blends from HorizonColor to SkyColor by the vertical
// component of the normalized ray direction
func BackgroundGradient(ray core.Ray) core.Vec3 {
	unitDirection := ray.Direction.Normalize()
	t := 0.5 * (unitDirection.Y + 1.0)
	return HorizonColor.Multiply(1.0 - t).Add(SkyColor.Multiply(t))
}
