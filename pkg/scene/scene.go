package scene

import (
	"errors"
	"fmt"

	"github.com/df07/go-sphere-raytracer/pkg/core"
	"github.com/df07/go-sphere-raytracer/pkg/geometry"
)

// ErrInvalidScene is returned by Validate for scenes that cannot be rendered
var ErrInvalidScene = errors.New("invalid scene")

// Scene contains all the elements needed for rendering
type Scene struct {
	Camera         *geometry.Camera
	CameraConfig   geometry.CameraConfig
	World          *geometry.HittableList // Root of the intersection tree
	SamplingConfig core.SamplingConfig
}

// newScene builds a scene with an empty world, applying any camera override
func newScene(cameraConfig geometry.CameraConfig, samplingConfig core.SamplingConfig, cameraOverrides ...geometry.CameraConfig) *Scene {
	if len(cameraOverrides) > 0 {
		cameraConfig = geometry.MergeCameraConfig(cameraConfig, cameraOverrides[0])
	}

	return &Scene{
		Camera:         geometry.NewCamera(cameraConfig),
		CameraConfig:   cameraConfig,
		World:          geometry.NewHittableList(),
		SamplingConfig: samplingConfig,
	}
}

// GetCamera returns the scene camera
func (s *Scene) GetCamera() core.Camera {
	return s.Camera
}

// GetWorld returns the root hittable
func (s *Scene) GetWorld() core.Hittable {
	return s.World
}

// GetSamplingConfig returns the sampling configuration
func (s *Scene) GetSamplingConfig() core.SamplingConfig {
	return s.SamplingConfig
}

// Add appends spheres (or any other hittable) to the world
func (s *Scene) Add(objects ...core.Hittable) {
	for _, object := range objects {
		s.World.Add(object)
	}
}

// SetImageSize changes the output resolution and rebuilds the camera so its
// aspect ratio matches
func (s *Scene) SetImageSize(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: image size %dx%d", ErrInvalidScene, width, height)
	}

	s.SamplingConfig.Width = width
	s.SamplingConfig.Height = height
	s.CameraConfig.AspectRatio = float32(width) / float32(height)
	s.Camera = geometry.NewCamera(s.CameraConfig)
	return nil
}

// Validate checks that the scene can be handed to a renderer
func (s *Scene) Validate() error {
	if s.Camera == nil {
		return fmt.Errorf("%w: no camera", ErrInvalidScene)
	}
	if s.World == nil {
		return fmt.Errorf("%w: no world", ErrInvalidScene)
	}
	cfg := s.SamplingConfig
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return fmt.Errorf("%w: image size %dx%d", ErrInvalidScene, cfg.Width, cfg.Height)
	}
	if cfg.SamplesPerPixel <= 0 {
		return fmt.Errorf("%w: %d samples per pixel", ErrInvalidScene, cfg.SamplesPerPixel)
	}
	return nil
}

// GetPrimitiveCount returns the total number of spheres in the scene
func (s *Scene) GetPrimitiveCount() int {
	if s.World == nil {
		return 0
	}
	return countPrimitives(s.World)
}

// countPrimitives walks nested lists, counting every leaf as one primitive
func countPrimitives(list *geometry.HittableList) int {
	count := 0
	for _, object := range list.Objects() {
		switch obj := object.(type) {
		case *geometry.HittableList:
			count += countPrimitives(obj)
		default:
			count++
		}
	}
	return count
}
