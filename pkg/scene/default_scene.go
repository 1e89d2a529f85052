package scene

import (
	"github.com/df07/go-sphere-raytracer/pkg/core"
	"github.com/df07/go-sphere-raytracer/pkg/geometry"
	"github.com/df07/go-sphere-raytracer/pkg/material"
)

// NewDefaultScene creates three spheres on a large ground sphere, with a
// hollow glass bubble on the left
func NewDefaultScene(cameraOverrides ...geometry.CameraConfig) *Scene {
	samplingConfig := core.SamplingConfig{
		Width:           400,
		Height:          225,
		SamplesPerPixel: 100,
		MaxDepth:        core.DefaultMaxDepth,
	}

	cameraConfig := geometry.CameraConfig{
		LookFrom:    core.NewVec3(-2, 2, 1),
		LookAt:      core.NewVec3(0, 0, -1),
		Up:          core.NewVec3(0, 1, 0),
		VFov:        40.0,
		AspectRatio: float32(samplingConfig.Width) / float32(samplingConfig.Height),
		Aperture:    0.0,
	}

	s := newScene(cameraConfig, samplingConfig, cameraOverrides...)

	ground := material.NewLambertian(core.NewVec3(0.8, 0.8, 0.0))
	diffuse := material.NewLambertian(core.NewVec3(0.8, 0.3, 0.3))
	gold := material.NewMetal(core.NewVec3(0.8, 0.6, 0.2), 0.3)
	glass := material.NewDielectric(1.5)

	s.Add(
		geometry.NewSphere(core.NewVec3(0, 0, -1), 0.5, diffuse),
		geometry.NewSphere(core.NewVec3(0, -100.5, -1), 100, ground),
		geometry.NewSphere(core.NewVec3(1, 0, -1), 0.5, gold),
		// A negative radius flips the normals inward, leaving a thin glass shell
		geometry.NewSphere(core.NewVec3(-1, 0, -1), 0.5, glass),
		geometry.NewSphere(core.NewVec3(-1, 0, -1), -0.45, glass),
	)

	return s
}

// NewMirrorPairScene creates two perfect mirrors facing each other. Rays
// trapped between them bounce until the depth cap.
func NewMirrorPairScene(cameraOverrides ...geometry.CameraConfig) *Scene {
	samplingConfig := core.SamplingConfig{
		Width:           320,
		Height:          240,
		SamplesPerPixel: 16,
		MaxDepth:        core.DefaultMaxDepth,
	}

	cameraConfig := geometry.CameraConfig{
		LookFrom:    core.NewVec3(0, 0.3, 4),
		LookAt:      core.NewVec3(0, 0, 0),
		Up:          core.NewVec3(0, 1, 0),
		VFov:        45.0,
		AspectRatio: float32(samplingConfig.Width) / float32(samplingConfig.Height),
	}

	s := newScene(cameraConfig, samplingConfig, cameraOverrides...)

	mirror := material.NewMetal(core.NewVec3(0.95, 0.95, 0.95), 0.0)
	s.Add(
		geometry.NewSphere(core.NewVec3(-1.1, 0, 0), 1, mirror),
		geometry.NewSphere(core.NewVec3(1.1, 0, 0), 1, mirror),
		geometry.NewSphere(core.NewVec3(0, -101, 0), 100, material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5))),
	)

	return s
}
