package renderer

import (
	"context"
	"errors"
	"image"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/df07/go-sphere-raytracer/pkg/core"
	"github.com/df07/go-sphere-raytracer/pkg/geometry"
	"github.com/df07/go-sphere-raytracer/pkg/material"
)

// MockIntegrator for testing
type MockIntegrator struct {
	returnColor core.Vec3
	callCount   int
}

func (m *MockIntegrator) RayColor(ray core.Ray, world core.Hittable, sampler core.Sampler) core.Vec3 {
	m.callCount++
	return m.returnColor
}

// recordingCamera remembers every image-plane coordinate it is asked for
type recordingCamera struct {
	coords [][2]float32
}

func (c *recordingCamera) GetRay(s, t float32, sampler core.Sampler) core.Ray {
	c.coords = append(c.coords, [2]float32{s, t})
	return core.NewRay(core.Vec3{}, core.NewVec3(0, 0, -1))
}

// constantSampler returns the same value for every dimension
type constantSampler struct {
	value float32
}

func (c constantSampler) Get1D() float32 { return c.value }
func (c constantSampler) Get2D() core.Vec2 {
	return core.NewVec2(c.value, c.value)
}
func (c constantSampler) Get3D() core.Vec3 {
	return core.NewVec3(c.value, c.value, c.value)
}

// MockScene for renderer testing
type MockScene struct {
	camera core.Camera
	world  core.Hittable
	config core.SamplingConfig
}

func (m *MockScene) GetCamera() core.Camera                 { return m.camera }
func (m *MockScene) GetWorld() core.Hittable                { return m.world }
func (m *MockScene) GetSamplingConfig() core.SamplingConfig { return m.config }

// createMockScene creates a small scene with one sphere of each material
func createMockScene(width, height, samples int) *MockScene {
	camera := geometry.NewCamera(geometry.CameraConfig{
		LookFrom:    core.NewVec3(0, 1, 3),
		LookAt:      core.NewVec3(0, 0, -1),
		Up:          core.NewVec3(0, 1, 0),
		VFov:        45.0,
		AspectRatio: float32(width) / float32(height),
		Aperture:    0.05,
	})

	world := geometry.NewHittableList(
		geometry.NewSphere(core.NewVec3(0, -100.5, -1), 100, material.NewLambertian(core.NewVec3(0.8, 0.8, 0.0))),
		geometry.NewSphere(core.NewVec3(0, 0, -1), 0.5, material.NewLambertian(core.NewVec3(0.1, 0.2, 0.5))),
		geometry.NewSphere(core.NewVec3(-1, 0, -1), 0.5, material.NewDielectric(1.5)),
		geometry.NewSphere(core.NewVec3(1, 0, -1), 0.5, material.NewMetal(core.NewVec3(0.8, 0.6, 0.2), 0.3)),
	)

	return &MockScene{
		camera: camera,
		world:  world,
		config: core.SamplingConfig{
			Width:           width,
			Height:          height,
			SamplesPerPixel: samples,
			MaxDepth:        core.DefaultMaxDepth,
		},
	}
}

func TestTileRendererPixelSampling(t *testing.T) {
	scene := createMockScene(4, 4, 1)
	mockIntegrator := &MockIntegrator{returnColor: core.NewVec3(0.7, 0.3, 0.1)}
	renderer := NewTileRenderer(scene, mockIntegrator, 4, 4)

	bounds := image.Rect(0, 0, 2, 2)
	pixelStats := newPixelStatsGrid(4, 4)

	stats, err := renderer.RenderTileBounds(context.Background(), bounds, pixelStats, core.NewSeededSampler(42), 3)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if mockIntegrator.callCount != 12 {
		t.Errorf("Expected 12 integrator calls (4 pixels x 3 samples), got %d", mockIntegrator.callCount)
	}
	if stats.TotalPixels != 4 || stats.TotalSamples != 12 {
		t.Errorf("Expected 4 pixels and 12 samples, got %d and %d", stats.TotalPixels, stats.TotalSamples)
	}
	if stats.AverageSamples != 3 || stats.MinSamples != 3 || stats.MaxSamplesUsed != 3 {
		t.Errorf("Unexpected stats %+v", stats)
	}

	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			inside := image.Pt(x, y).In(bounds)
			count := pixelStats[y][x].SampleCount
			if inside && count != 3 {
				t.Errorf("Pixel (%d,%d) inside bounds has %d samples, want 3", x, y, count)
			}
			if !inside && count != 0 {
				t.Errorf("Pixel (%d,%d) outside bounds was written", x, y)
			}
		}
	}

	color := pixelStats[0][0].GetColor()
	if !mgl32.FloatEqualThreshold(color.X, 0.7, 1e-5) || !mgl32.FloatEqualThreshold(color.Z, 0.1, 1e-5) {
		t.Errorf("Expected averaged color (0.7, 0.3, 0.1), got %v", color)
	}
}

func TestTileRendererIncrementalSamples(t *testing.T) {
	scene := createMockScene(2, 2, 1)
	mockIntegrator := &MockIntegrator{returnColor: core.NewVec3(1, 1, 1)}
	renderer := NewTileRenderer(scene, mockIntegrator, 2, 2)
	pixelStats := newPixelStatsGrid(2, 2)
	bounds := image.Rect(0, 0, 2, 2)
	sampler := core.NewSeededSampler(1)

	tests := []struct {
		target   int
		newCalls int
	}{
		{1, 4},
		{4, 12},
		{4, 0}, // Already at target
	}

	for _, tt := range tests {
		before := mockIntegrator.callCount
		stats, _ := renderer.RenderTileBounds(context.Background(), bounds, pixelStats, sampler, tt.target)
		if got := mockIntegrator.callCount - before; got != tt.newCalls {
			t.Errorf("Target %d: expected %d new samples, got %d", tt.target, tt.newCalls, got)
		}
		if stats.TotalSamples != tt.newCalls {
			t.Errorf("Target %d: stats report %d samples, want %d", tt.target, stats.TotalSamples, tt.newCalls)
		}
	}
}

func TestTileRendererJitterAndRowFlip(t *testing.T) {
	camera := &recordingCamera{}
	scene := &MockScene{camera: camera, world: geometry.NewHittableList()}
	renderer := NewTileRenderer(scene, &MockIntegrator{}, 4, 2)

	_, err := renderer.RenderTileBounds(context.Background(), image.Rect(0, 0, 4, 2), newPixelStatsGrid(4, 2), constantSampler{value: 0.5}, 1)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	// Row 0 is the top of the image, which is the top of the camera plane
	expected := [][2]float32{
		{0.125, 0.75}, {0.375, 0.75}, {0.625, 0.75}, {0.875, 0.75},
		{0.125, 0.25}, {0.375, 0.25}, {0.625, 0.25}, {0.875, 0.25},
	}
	if len(camera.coords) != len(expected) {
		t.Fatalf("Expected %d rays, got %d", len(expected), len(camera.coords))
	}
	for i, want := range expected {
		if camera.coords[i] != want {
			t.Errorf("Ray %d: expected (s,t) %v, got %v", i, want, camera.coords[i])
		}
	}
}

func TestTileRendererCancellation(t *testing.T) {
	scene := createMockScene(8, 8, 1)
	mockIntegrator := &MockIntegrator{}
	renderer := NewTileRenderer(scene, mockIntegrator, 8, 8)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := renderer.RenderTileBounds(ctx, image.Rect(0, 0, 8, 8), newPixelStatsGrid(8, 8), core.NewSeededSampler(1), 4)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
	if mockIntegrator.callCount != 0 {
		t.Errorf("Expected no samples after cancellation, got %d", mockIntegrator.callCount)
	}
}

func TestTileRendererDeterministic(t *testing.T) {
	scene := createMockScene(6, 4, 1)
	bounds := image.Rect(0, 0, 6, 4)

	render := func() [][]PixelStats {
		pixelStats := newPixelStatsGrid(6, 4)
		renderer := NewTileRenderer(scene, &MockIntegrator{returnColor: core.NewVec3(0.2, 0.4, 0.6)}, 6, 4)
		if _, err := renderer.RenderTileBounds(context.Background(), bounds, pixelStats, core.NewSeededSampler(9), 2); err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		return pixelStats
	}

	first, second := render(), render()
	for y := range first {
		for x := range first[y] {
			if first[y][x] != second[y][x] {
				t.Errorf("Pixel (%d,%d) differs between identical renders", x, y)
			}
		}
	}
}
