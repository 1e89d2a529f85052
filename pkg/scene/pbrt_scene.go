package scene

import (
	"fmt"

	"github.com/df07/go-sphere-raytracer/pkg/core"
	"github.com/df07/go-sphere-raytracer/pkg/geometry"
	"github.com/df07/go-sphere-raytracer/pkg/loaders"
	"github.com/df07/go-sphere-raytracer/pkg/material"
)

const maxPBRTResolution = 8192

// NewPBRTScene creates a scene from a PBRT file
func NewPBRTScene(filepath string, cameraOverrides ...geometry.CameraConfig) (*Scene, error) {
	pbrtScene, err := loaders.LoadPBRT(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to load PBRT file: %w", err)
	}
	return convertPBRTScene(pbrtScene, cameraOverrides...)
}

// convertPBRTScene turns parsed statements into a renderable scene
func convertPBRTScene(pbrtScene *loaders.PBRTScene, cameraOverrides ...geometry.CameraConfig) (*Scene, error) {
	samplingConfig := core.SamplingConfig{
		Width:           400,
		Height:          400,
		SamplesPerPixel: 100,
		MaxDepth:        core.DefaultMaxDepth,
	}

	if err := convertFilm(pbrtScene, &samplingConfig); err != nil {
		return nil, fmt.Errorf("failed to convert film: %w", err)
	}
	if pbrtScene.Sampler != nil {
		if spp, ok := pbrtScene.Sampler.GetIntParam("pixelsamples"); ok {
			if spp <= 0 {
				return nil, fmt.Errorf("invalid pixelsamples %d: must be positive", spp)
			}
			samplingConfig.SamplesPerPixel = spp
		}
	}

	cameraConfig, err := convertCamera(pbrtScene, samplingConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to convert camera: %w", err)
	}

	s := newScene(cameraConfig, samplingConfig, cameraOverrides...)

	// Materials are converted once and shared by every sphere that uses them
	materials := make([]core.Material, len(pbrtScene.Materials))
	for i := range pbrtScene.Materials {
		mat, err := convertMaterial(&pbrtScene.Materials[i])
		if err != nil {
			return nil, fmt.Errorf("failed to convert material %d: %w", i, err)
		}
		materials[i] = mat
	}

	for i := range pbrtScene.Shapes {
		shapeStmt := &pbrtScene.Shapes[i]
		if shapeStmt.MaterialIndex < 0 || shapeStmt.MaterialIndex >= len(materials) {
			return nil, fmt.Errorf("shape %d has no valid material (MaterialIndex: %d)", i, shapeStmt.MaterialIndex)
		}

		sphere, err := convertSphere(shapeStmt, materials[shapeStmt.MaterialIndex])
		if err != nil {
			return nil, fmt.Errorf("failed to convert shape %d: %w", i, err)
		}
		s.Add(sphere)
	}

	return s, nil
}

// convertFilm applies the Film resolution to the sampling config
func convertFilm(pbrtScene *loaders.PBRTScene, config *core.SamplingConfig) error {
	if pbrtScene.Film == nil {
		return nil
	}
	if width, ok := pbrtScene.Film.GetIntParam("xresolution"); ok {
		if width <= 0 || width > maxPBRTResolution {
			return fmt.Errorf("invalid image width %d: must be between 1 and %d", width, maxPBRTResolution)
		}
		config.Width = width
	}
	if height, ok := pbrtScene.Film.GetIntParam("yresolution"); ok {
		if height <= 0 || height > maxPBRTResolution {
			return fmt.Errorf("invalid image height %d: must be between 1 and %d", height, maxPBRTResolution)
		}
		config.Height = height
	}
	return nil
}

// convertCamera converts the PBRT view and perspective camera to a CameraConfig
func convertCamera(pbrtScene *loaders.PBRTScene, samplingConfig core.SamplingConfig) (geometry.CameraConfig, error) {
	cameraConfig := geometry.CameraConfig{
		LookFrom:    core.NewVec3(0, 0, 0),
		LookAt:      core.NewVec3(0, 0, -1),
		Up:          core.NewVec3(0, 1, 0),
		VFov:        90.0,
		AspectRatio: float32(samplingConfig.Width) / float32(samplingConfig.Height),
	}

	if pbrtScene.LookAt != nil && pbrtScene.LookAtTo != nil && pbrtScene.LookAtUp != nil {
		cameraConfig.LookFrom = *pbrtScene.LookAt
		cameraConfig.LookAt = *pbrtScene.LookAtTo
		cameraConfig.Up = *pbrtScene.LookAtUp
	}

	if pbrtScene.Camera == nil {
		return cameraConfig, nil
	}
	if pbrtScene.Camera.Subtype != "perspective" {
		return cameraConfig, fmt.Errorf("unsupported camera type: %s", pbrtScene.Camera.Subtype)
	}

	if fov, ok := pbrtScene.Camera.GetFloatParam("fov"); ok {
		if fov <= 0 || fov >= 180 {
			return cameraConfig, fmt.Errorf("invalid camera FOV %f: must be between 0 and 180 degrees", fov)
		}
		cameraConfig.VFov = fov
	}
	if lensRadius, ok := pbrtScene.Camera.GetFloatParam("lensradius"); ok {
		if lensRadius < 0 {
			return cameraConfig, fmt.Errorf("invalid lens radius %f: must not be negative", lensRadius)
		}
		cameraConfig.Aperture = 2 * lensRadius
	}
	if focus, ok := pbrtScene.Camera.GetFloatParam("focaldistance"); ok {
		if focus <= 0 {
			return cameraConfig, fmt.Errorf("invalid focal distance %f: must be positive", focus)
		}
		cameraConfig.FocusDistance = focus
	}

	return cameraConfig, nil
}

// convertMaterial converts a PBRT material to our material system
func convertMaterial(stmt *loaders.PBRTStatement) (core.Material, error) {
	switch stmt.Subtype {
	case "diffuse":
		albedo := core.NewVec3(0.5, 0.5, 0.5)
		if rgb, ok := stmt.GetRGBParam("reflectance"); ok {
			albedo = rgb
		}
		return material.NewLambertian(albedo), nil

	case "conductor":
		albedo := core.NewVec3(0.7, 0.6, 0.5)
		if rgb, ok := stmt.GetRGBParam("reflectance"); ok {
			albedo = rgb
		}

		var fuzz float32
		if roughness, ok := stmt.GetFloatParam("roughness"); ok {
			if roughness < 0 || roughness > 1 {
				return nil, fmt.Errorf("invalid metal roughness %f: must be between 0 and 1", roughness)
			}
			fuzz = roughness
		}
		return material.NewMetal(albedo, fuzz), nil

	case "dielectric":
		var ior float32 = 1.5
		if eta, ok := stmt.GetFloatParam("eta"); ok {
			if eta <= 0 {
				return nil, fmt.Errorf("invalid dielectric IOR %f: must be positive", eta)
			}
			ior = eta
		}
		return material.NewDielectric(ior), nil

	default:
		return nil, fmt.Errorf("unsupported material type: %s", stmt.Subtype)
	}
}

// convertSphere places a sphere at the accumulated translation. A negative
// radius is kept, producing an inward-facing sphere.
func convertSphere(stmt *loaders.PBRTStatement, mat core.Material) (*geometry.Sphere, error) {
	var radius float32 = 1.0
	if r, ok := stmt.GetFloatParam("radius"); ok {
		if r == 0 {
			return nil, fmt.Errorf("invalid sphere radius: must not be zero")
		}
		radius = r
	}
	return geometry.NewSphere(stmt.Translation, radius, mat), nil
}
