package renderer

import (
	"context"
	"image"

	"github.com/df07/go-sphere-raytracer/pkg/core"
)

// TileRenderer handles the actual rendering of individual tiles using an integrator
type TileRenderer struct {
	scene      core.Scene
	integrator core.Integrator
	width      int
	height     int
}

// NewTileRenderer creates a tile renderer for a width x height frame
func NewTileRenderer(scene core.Scene, integratorInst core.Integrator, width, height int) *TileRenderer {
	return &TileRenderer{
		scene:      scene,
		integrator: integratorInst,
		width:      width,
		height:     height,
	}
}

// RenderTileBounds brings every pixel inside bounds up to targetSamples samples.
// pixelStats is indexed [y][x] in frame coordinates, and only cells inside
// bounds are written. The context is checked once per row.
func (tr *TileRenderer) RenderTileBounds(ctx context.Context, bounds image.Rectangle, pixelStats [][]PixelStats, sampler core.Sampler, targetSamples int) (RenderStats, error) {
	camera := tr.scene.GetCamera()
	world := tr.scene.GetWorld()

	stats := newRenderStats(bounds.Dx()*bounds.Dy(), targetSamples)

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			samplesUsed := tr.samplePixel(camera, world, x, y, &pixelStats[y][x], sampler, targetSamples)
			stats.addPixel(samplesUsed)
		}
	}

	stats.finalize()
	return stats, nil
}

// samplePixel takes samples until the pixel reaches targetSamples
func (tr *TileRenderer) samplePixel(camera core.Camera, world core.Hittable, x, y int, ps *PixelStats, sampler core.Sampler, targetSamples int) int {
	initialSampleCount := ps.SampleCount

	// Row 0 is the top of the image, so flip y into camera space
	row := float32(tr.height - 1 - y)
	for ps.SampleCount < targetSamples {
		jitter := sampler.Get2D()
		s := (float32(x) + jitter.X) / float32(tr.width)
		t := (row + jitter.Y) / float32(tr.height)

		ray := camera.GetRay(s, t, sampler)
		ps.AddSample(tr.integrator.RayColor(ray, world, sampler))
	}

	return ps.SampleCount - initialSampleCount
}
