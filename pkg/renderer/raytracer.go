package renderer

import (
	"context"
	"errors"
	"fmt"
	"image"

	"github.com/df07/go-sphere-raytracer/pkg/core"
	"github.com/df07/go-sphere-raytracer/pkg/integrator"
)

// ErrInvalidConfig is returned when a renderer is built with unusable dimensions or sample counts
var ErrInvalidConfig = errors.New("invalid render configuration")

// validateDimensions checks the values every renderer needs
func validateDimensions(width, height, samples int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: image size %dx%d", ErrInvalidConfig, width, height)
	}
	if samples <= 0 {
		return fmt.Errorf("%w: %d samples per pixel", ErrInvalidConfig, samples)
	}
	return nil
}

// Raytracer renders a whole frame on the calling goroutine with a single sampler
type Raytracer struct {
	scene        core.Scene
	width        int
	height       int
	config       core.SamplingConfig
	tileRenderer *TileRenderer
	sampler      core.Sampler
}

// NewRaytracer creates a single-threaded raytracer for the scene's sampling config.
// A nil sampler selects a seeded RandomSampler.
func NewRaytracer(scene core.Scene, width, height int, sampler core.Sampler) (*Raytracer, error) {
	config := scene.GetSamplingConfig()
	if err := validateDimensions(width, height, config.SamplesPerPixel); err != nil {
		return nil, err
	}
	if sampler == nil {
		sampler = core.NewSeededSampler(42) // Deterministic for testing
	}

	pt := integrator.NewPathTracingIntegrator(config.MaxDepth)
	return &Raytracer{
		scene:        scene,
		width:        width,
		height:       height,
		config:       config,
		tileRenderer: NewTileRenderer(scene, pt, width, height),
		sampler:      sampler,
	}, nil
}

// RenderPass renders every pixel with SamplesPerPixel samples and returns the image.
// A panic while sampling, such as ErrRejectionSamplingExhausted, is returned as the error.
func (rt *Raytracer) RenderPass(ctx context.Context) (img *Image, stats RenderStats, err error) {
	defer func() {
		if r := recover(); r != nil {
			img, stats = nil, RenderStats{}
			if panicErr, ok := r.(error); ok {
				err = fmt.Errorf("render pass: %w", panicErr)
			} else {
				err = fmt.Errorf("render pass: %v", r)
			}
		}
	}()

	pixelStats := newPixelStatsGrid(rt.width, rt.height)
	bounds := image.Rect(0, 0, rt.width, rt.height)

	stats, err = rt.tileRenderer.RenderTileBounds(ctx, bounds, pixelStats, rt.sampler, rt.config.SamplesPerPixel)
	if err != nil {
		return nil, RenderStats{}, err
	}

	return assembleImage(pixelStats, rt.width, rt.height), stats, nil
}

// assembleImage averages and quantizes every pixel of a stats grid
func assembleImage(pixelStats [][]PixelStats, width, height int) *Image {
	img := NewImage(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetColor(x, y, pixelStats[y][x].GetColor())
		}
	}
	return img
}
