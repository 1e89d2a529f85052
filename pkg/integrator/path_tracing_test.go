package integrator

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/df07/go-sphere-raytracer/pkg/core"
	"github.com/df07/go-sphere-raytracer/pkg/geometry"
	"github.com/df07/go-sphere-raytracer/pkg/material"
)

const tolerance = 1e-5

func vecNear(a, b core.Vec3) bool {
	return mgl32.FloatEqualThreshold(a.X, b.X, tolerance) &&
		mgl32.FloatEqualThreshold(a.Y, b.Y, tolerance) &&
		mgl32.FloatEqualThreshold(a.Z, b.Z, tolerance)
}

// countingMirror reflects perfectly and counts how often it is asked to scatter
type countingMirror struct {
	calls int
}

func (m *countingMirror) Scatter(rayIn core.Ray, hit core.HitRecord, sampler core.Sampler) (core.ScatterResult, bool) {
	m.calls++
	return core.ScatterResult{
		Scattered:   core.NewRay(hit.Point, material.Reflect(rayIn.Direction, hit.Normal)),
		Attenuation: core.NewVec3(1, 1, 1),
	}, true
}

// absorber never scatters
type absorber struct{}

func (absorber) Scatter(rayIn core.Ray, hit core.HitRecord, sampler core.Sampler) (core.ScatterResult, bool) {
	return core.ScatterResult{}, false
}

// fixedBounce sends every ray straight up with a fixed attenuation
type fixedBounce struct {
	attenuation core.Vec3
}

func (f fixedBounce) Scatter(rayIn core.Ray, hit core.HitRecord, sampler core.Sampler) (core.ScatterResult, bool) {
	return core.ScatterResult{
		Scattered:   core.NewRay(hit.Point, core.NewVec3(0, 1, 0)),
		Attenuation: f.attenuation,
	}, true
}

func mirrorPair(mat core.Material) *geometry.HittableList {
	return geometry.NewHittableList(
		geometry.NewSphere(core.NewVec3(-3, 0, 0), 1, mat),
		geometry.NewSphere(core.NewVec3(3, 0, 0), 1, mat),
	)
}

func TestPathTracing_Background(t *testing.T) {
	integrator := NewPathTracingIntegrator(0)
	empty := geometry.NewHittableList()
	sampler := core.NewSeededSampler(42)

	tests := []struct {
		name      string
		direction core.Vec3
		expected  core.Vec3
	}{
		{"straight up", core.NewVec3(0, 1, 0), core.NewVec3(0.5, 0.7, 1.0)},
		{"straight down", core.NewVec3(0, -1, 0), core.NewVec3(1, 1, 1)},
		{"horizon", core.NewVec3(1, 0, 0), core.NewVec3(0.75, 0.85, 1.0)},
		{"unnormalized up", core.NewVec3(0, 10, 0), core.NewVec3(0.5, 0.7, 1.0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			color := integrator.RayColor(core.NewRay(core.Vec3{}, tt.direction), empty, sampler)
			if !vecNear(color, tt.expected) {
				t.Errorf("Expected %v, got %v", tt.expected, color)
			}
		})
	}
}

func TestPathTracing_DepthCap(t *testing.T) {
	integrator := NewPathTracingIntegrator(0)
	if integrator.MaxDepth() != core.DefaultMaxDepth {
		t.Fatalf("Expected default depth %d, got %d", core.DefaultMaxDepth, integrator.MaxDepth())
	}

	mirror := &countingMirror{}
	world := mirrorPair(mirror)
	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(1, 0, 0))

	color := integrator.RayColor(ray, world, core.NewSeededSampler(1))
	if color != (core.Vec3{}) {
		t.Errorf("Expected black once the depth cap is reached, got %v", color)
	}
	// Depths 0 through 50 each evaluate one scatter
	if mirror.calls != core.DefaultMaxDepth+1 {
		t.Errorf("Expected %d scatter calls, got %d", core.DefaultMaxDepth+1, mirror.calls)
	}

	// Cutting off is idempotent
	mirror.calls = 0
	if again := integrator.RayColor(ray, world, core.NewSeededSampler(2)); again != color {
		t.Errorf("Expected repeat render to match, got %v", again)
	}
	if mirror.calls != core.DefaultMaxDepth+1 {
		t.Errorf("Expected %d scatter calls on repeat, got %d", core.DefaultMaxDepth+1, mirror.calls)
	}
}

func TestPathTracing_RealMetalMirrorPair(t *testing.T) {
	world := mirrorPair(material.NewMetal(core.NewVec3(1, 1, 1), 0))
	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(1, 0, 0))

	color := NewPathTracingIntegrator(0).RayColor(ray, world, core.NewSeededSampler(3))
	if color != (core.Vec3{}) {
		t.Errorf("Expected black from an endless mirror corridor, got %v", color)
	}
}

func TestPathTracing_SmallDepth(t *testing.T) {
	mirror := &countingMirror{}
	integrator := NewPathTracingIntegrator(3)
	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(1, 0, 0))

	integrator.RayColor(ray, mirrorPair(mirror), core.NewSeededSampler(1))
	if mirror.calls != 4 {
		t.Errorf("Expected 4 scatter calls with depth 3, got %d", mirror.calls)
	}
}

func TestPathTracing_Absorption(t *testing.T) {
	world := geometry.NewHittableList(geometry.NewSphere(core.NewVec3(0, 0, -2), 0.5, absorber{}))
	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1))

	color := NewPathTracingIntegrator(0).RayColor(ray, world, core.NewSeededSampler(1))
	if color != (core.Vec3{}) {
		t.Errorf("Expected black for an absorbed ray, got %v", color)
	}
}

func TestPathTracing_AttenuationMultiplies(t *testing.T) {
	// One bounce off the top of a sphere, then the sky
	attenuation := core.NewVec3(0.5, 0.25, 1)
	world := geometry.NewHittableList(geometry.NewSphere(core.NewVec3(0, -2, 0), 1, fixedBounce{attenuation}))
	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, -1, 0))

	color := NewPathTracingIntegrator(0).RayColor(ray, world, core.NewSeededSampler(1))
	expected := attenuation.MultiplyVec(SkyColor)
	if !vecNear(color, expected) {
		t.Errorf("Expected %v, got %v", expected, color)
	}
}

func TestPathTracing_DiffuseSceneIsBounded(t *testing.T) {
	world := geometry.NewHittableList(
		geometry.NewSphere(core.NewVec3(0, 0, -1), 0.5, material.NewLambertian(core.NewVec3(0.7, 0.3, 0.3))),
		geometry.NewSphere(core.NewVec3(0, -100.5, -1), 100, material.NewLambertian(core.NewVec3(0.8, 0.8, 0))),
	)
	integrator := NewPathTracingIntegrator(0)
	sampler := core.NewSeededSampler(42)
	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1))

	for i := 0; i < 100; i++ {
		c := integrator.RayColor(ray, world, sampler)
		for _, ch := range []float32{c.X, c.Y, c.Z} {
			if ch < 0 || ch > 1 {
				t.Fatalf("Color channel %f outside [0, 1]", ch)
			}
		}
	}
}

func TestBackgroundGradient(t *testing.T) {
	up := BackgroundGradient(core.NewRay(core.Vec3{}, core.NewVec3(0, 1, 0)))
	if !vecNear(up, SkyColor) {
		t.Errorf("Expected sky color %v, got %v", SkyColor, up)
	}
	down := BackgroundGradient(core.NewRay(core.Vec3{}, core.NewVec3(0, -1, 0)))
	if !vecNear(down, HorizonColor) {
		t.Errorf("Expected horizon color %v, got %v", HorizonColor, down)
	}
}
