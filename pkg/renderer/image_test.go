package renderer

import (
	"image"
	"image/color"
	"testing"

	"github.com/chewxy/math32"

	"github.com/df07/go-sphere-raytracer/pkg/core"
)

var _ image.Image = (*Image)(nil)

func TestQuantizeColor(t *testing.T) {
	tests := []struct {
		name     string
		input    float32
		expected uint8
	}{
		{"black", 0, 0},
		{"white", 1, 254},
		{"quarter is gamma corrected to half", 0.25, 127},
		{"overbright clamps", 4, 255},
		{"slightly over one clamps", 1.01, 255},
		{"negative maps to zero", -0.5, 0},
		{"NaN maps to zero", math32.NaN(), 0},
		{"infinity clamps", math32.Inf(1), 255},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := QuantizeColor(core.NewVec3(tt.input, tt.input, tt.input))
			for i, ch := range got {
				if ch != tt.expected {
					t.Errorf("Channel %d: expected %d, got %d", i, tt.expected, ch)
				}
			}
		})
	}
}

func TestQuantizeColor_ChannelsAreIndependent(t *testing.T) {
	got := QuantizeColor(core.NewVec3(1, 0.25, 0))
	expected := [3]uint8{254, 127, 0}
	if got != expected {
		t.Errorf("Expected %v, got %v", expected, got)
	}
}

func TestImage_Layout(t *testing.T) {
	img := NewImage(3, 2)
	if len(img.Pix) != 18 {
		t.Fatalf("Expected 18 bytes, got %d", len(img.Pix))
	}

	img.SetRGB(2, 1, [3]uint8{10, 20, 30})
	if got := img.Pix[15:18]; got[0] != 10 || got[1] != 20 || got[2] != 30 {
		t.Errorf("Expected last pixel to be stored at the end, got %v", got)
	}
	if img.RGB(2, 1) != [3]uint8{10, 20, 30} {
		t.Errorf("Unexpected RGB %v", img.RGB(2, 1))
	}
	if img.RGB(0, 0) != [3]uint8{} {
		t.Errorf("Expected untouched pixel to be black, got %v", img.RGB(0, 0))
	}
}

func TestImage_ImplementsImage(t *testing.T) {
	img := NewImage(2, 2)
	img.SetColor(1, 0, core.NewVec3(1, 0.25, 0))

	if img.Bounds() != image.Rect(0, 0, 2, 2) {
		t.Errorf("Unexpected bounds %v", img.Bounds())
	}
	if img.ColorModel() != color.RGBAModel {
		t.Error("Expected RGBA color model")
	}

	expected := color.RGBA{R: 254, G: 127, B: 0, A: 255}
	if got := img.At(1, 0); got != expected {
		t.Errorf("Expected %v, got %v", expected, got)
	}
	if got := img.At(5, 5); got != (color.RGBA{}) {
		t.Errorf("Expected transparent black outside bounds, got %v", got)
	}
}
