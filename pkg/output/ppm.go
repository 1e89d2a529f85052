package output

import (
	"bufio"
	"fmt"
	"image"
	"io"
	"os"

	"github.com/df07/go-sphere-raytracer/pkg/renderer"
)

// WritePPM writes img as a binary (P6) PPM with 8-bit channels
func WritePPM(w io.Writer, img image.Image) error {
	bounds := img.Bounds()
	bw := bufio.NewWriter(w)

	if _, err := fmt.Fprintf(bw, "P6\n%d %d\n255\n", bounds.Dx(), bounds.Dy()); err != nil {
		return err
	}

	// The renderer's buffer is already packed RGB in PPM order
	if rgb, ok := img.(*renderer.Image); ok {
		if _, err := bw.Write(rgb.Pix); err != nil {
			return err
		}
		return bw.Flush()
	}

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			if _, err := bw.Write([]byte{uint8(r >> 8), uint8(g >> 8), uint8(b >> 8)}); err != nil {
				return err
			}
		}
	}
	return bw.Flush()
}

// SavePPM writes img as a binary PPM file at path, creating parent directories
func SavePPM(path string, img image.Image) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create PPM %s: %w", path, err)
	}
	if err := WritePPM(file, img); err != nil {
		file.Close()
		return fmt.Errorf("failed to write PPM %s: %w", path, err)
	}
	return file.Close()
}
