package renderer

import (
	"testing"

	"github.com/df07/go-sphere-raytracer/pkg/core"
)

func TestPixelStats_Average(t *testing.T) {
	var ps PixelStats
	if ps.GetColor() != (core.Vec3{}) {
		t.Errorf("Expected black for an unsampled pixel, got %v", ps.GetColor())
	}

	ps.AddSample(core.NewVec3(1, 0, 0.5))
	ps.AddSample(core.NewVec3(0, 1, 0.5))

	if ps.SampleCount != 2 {
		t.Errorf("Expected 2 samples, got %d", ps.SampleCount)
	}
	expected := core.NewVec3(0.5, 0.5, 0.5)
	if ps.GetColor() != expected {
		t.Errorf("Expected %v, got %v", expected, ps.GetColor())
	}
}

func TestRenderStats_Accumulate(t *testing.T) {
	stats := newRenderStats(3, 8)
	for _, samples := range []int{8, 2, 5} {
		stats.addPixel(samples)
	}
	stats.finalize()

	if stats.TotalSamples != 15 {
		t.Errorf("Expected 15 total samples, got %d", stats.TotalSamples)
	}
	if stats.AverageSamples != 5 {
		t.Errorf("Expected average 5, got %f", stats.AverageSamples)
	}
	if stats.MinSamples != 2 || stats.MaxSamplesUsed != 8 || stats.MaxSamples != 8 {
		t.Errorf("Unexpected stats %+v", stats)
	}
}

func TestRenderStats_EmptyFinalize(t *testing.T) {
	stats := newRenderStats(0, 4)
	stats.finalize()
	if stats.AverageSamples != 0 {
		t.Errorf("Expected average 0 for no pixels, got %f", stats.AverageSamples)
	}
}
