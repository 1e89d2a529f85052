package scene

import (
	"time"

	"github.com/df07/go-sphere-raytracer/pkg/core"
	"github.com/df07/go-sphere-raytracer/pkg/geometry"
	"github.com/df07/go-sphere-raytracer/pkg/material"
)

const (
	gridExtent    = 11  // Small spheres are placed for a, b in [-gridExtent, gridExtent)
	gridJitter    = 0.6 // Maximum offset of a small sphere inside its cell
	smallRadius   = 0.2
	heroClearance = 1.2 // Minimum distance between a small sphere and a hero sphere
)

// heroCenters are the positions of the three large spheres
var heroCenters = [3]core.Vec3{
	{X: 4, Y: 1, Z: 0},
	{X: -4, Y: 1, Z: 0},
	{X: 0, Y: 1, Z: 0},
}

// NewRandomScene creates the cover scene: a field of small random spheres
// around three large ones. Placement and materials are drawn from sampler;
// a nil sampler uses a clock-seeded one.
func NewRandomScene(sampler core.Sampler, cameraOverrides ...geometry.CameraConfig) *Scene {
	if sampler == nil {
		sampler = core.NewSeededSampler(time.Now().UnixNano())
	}

	samplingConfig := core.SamplingConfig{
		Width:           1200,
		Height:          800,
		SamplesPerPixel: 150,
		MaxDepth:        core.DefaultMaxDepth,
	}

	cameraConfig := geometry.CameraConfig{
		LookFrom:      core.NewVec3(13, 2, 3),
		LookAt:        core.NewVec3(0, 0, 0),
		Up:            core.NewVec3(0, 1, 0),
		VFov:          20.0,
		AspectRatio:   float32(samplingConfig.Width) / float32(samplingConfig.Height),
		Aperture:      0.1,
		FocusDistance: 10.0,
	}

	s := newScene(cameraConfig, samplingConfig, cameraOverrides...)

	s.Add(geometry.NewSphere(core.NewVec3(0, -1000, 0), 1000, material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5))))

	for a := -gridExtent; a < gridExtent; a++ {
		for b := -gridExtent; b < gridExtent; b++ {
			chooseMat := sampler.Get1D()
			center := core.NewVec3(
				float32(a)+gridJitter*sampler.Get1D(),
				smallRadius,
				float32(b)+gridJitter*sampler.Get1D(),
			)
			if !clearOfHeroes(center) {
				continue
			}
			s.Add(geometry.NewSphere(center, smallRadius, randomMaterial(chooseMat, sampler)))
		}
	}

	s.Add(
		geometry.NewSphere(heroCenters[2], 1.0, material.NewDielectric(1.5)),
		geometry.NewSphere(heroCenters[1], 1.0, material.NewLambertian(core.NewVec3(0.1, 0.8, 0.1))),
		geometry.NewSphere(heroCenters[0], 1.0, material.NewMetal(core.NewVec3(0.7, 0.6, 0.5), 0.0)),
	)

	return s
}

func clearOfHeroes(center core.Vec3) bool {
	for _, hero := range heroCenters {
		if center.Subtract(hero).Length() <= heroClearance {
			return false
		}
	}
	return true
}

// randomMaterial picks diffuse (80%), metal (15%) or glass (5%)
func randomMaterial(chooseMat float32, sampler core.Sampler) core.Material {
	switch {
	case chooseMat < 0.8:
		albedo := core.NewVec3(sampler.Get1D(), sampler.Get1D(), sampler.Get1D())
		return material.NewLambertian(albedo)
	case chooseMat < 0.95:
		albedo := core.NewVec3(
			0.5*(1+sampler.Get1D()),
			0.5*(1+sampler.Get1D()),
			0.5*(1+sampler.Get1D()),
		)
		return material.NewMetal(albedo, 0.5*sampler.Get1D())
	default:
		return material.NewDielectric(1.5)
	}
}
