package output

import (
	"fmt"
	"image"

	"github.com/fogleman/gg"
)

// SavePNG encodes img as a PNG file at path, creating parent directories
func SavePNG(path string, img image.Image) error {
	if err := ensureDir(path); err != nil {
		return err
	}
	if err := gg.SavePNG(path, img); err != nil {
		return fmt.Errorf("failed to save PNG %s: %w", path, err)
	}
	return nil
}
