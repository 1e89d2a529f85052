package renderer

import (
	"image"
	"image/color"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/df07/go-sphere-raytracer/pkg/core"
)

// colorScale maps a gamma-corrected channel in [0,1] to the 8-bit range
const colorScale float32 = 254.99

// Image is a packed 8-bit RGB frame, row-major with the origin at the top left.
// It implements image.Image so any standard encoder can consume it.
type Image struct {
	Width  int
	Height int
	Pix    []uint8 // Width*Height*3 bytes
}

// NewImage allocates a black image
func NewImage(width, height int) *Image {
	return &Image{
		Width:  width,
		Height: height,
		Pix:    make([]uint8, width*height*3),
	}
}

func (img *Image) offset(x, y int) int {
	return (y*img.Width + x) * 3
}

// SetRGB stores the three bytes for pixel (x, y)
func (img *Image) SetRGB(x, y int, rgb [3]uint8) {
	i := img.offset(x, y)
	copy(img.Pix[i:i+3], rgb[:])
}

// SetColor quantizes a linear color and stores it at (x, y)
func (img *Image) SetColor(x, y int, c core.Vec3) {
	img.SetRGB(x, y, QuantizeColor(c))
}

// RGB returns the three bytes for pixel (x, y)
func (img *Image) RGB(x, y int) [3]uint8 {
	i := img.offset(x, y)
	return [3]uint8{img.Pix[i], img.Pix[i+1], img.Pix[i+2]}
}

// ColorModel implements image.Image
func (img *Image) ColorModel() color.Model {
	return color.RGBAModel
}

// Bounds implements image.Image
func (img *Image) Bounds() image.Rectangle {
	return image.Rect(0, 0, img.Width, img.Height)
}

// At implements image.Image. Pixels are always opaque.
func (img *Image) At(x, y int) color.Color {
	if !(image.Point{X: x, Y: y}.In(img.Bounds())) {
		return color.RGBA{}
	}
	rgb := img.RGB(x, y)
	return color.RGBA{R: rgb[0], G: rgb[1], B: rgb[2], A: 255}
}

// QuantizeColor gamma-corrects a linear color (gamma 2) and scales it to bytes.
// Channels are clamped to 255; negative and NaN channels become 0.
func QuantizeColor(c core.Vec3) [3]uint8 {
	return [3]uint8{
		quantizeChannel(c.X),
		quantizeChannel(c.Y),
		quantizeChannel(c.Z),
	}
}

func quantizeChannel(v float32) uint8 {
	if math32.IsNaN(v) || v <= 0 {
		return 0
	}
	return uint8(mgl32.Clamp(colorScale*math32.Sqrt(v), 0, 255))
}
