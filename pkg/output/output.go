// Package output encodes rendered images to files.
package output

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"
)

// Save writes img to path, choosing the encoder from the file extension
func Save(path string, img image.Image) error {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".png":
		return SavePNG(path, img)
	case ".ppm":
		return SavePPM(path, img)
	default:
		return fmt.Errorf("unsupported output format %q: use .png or .ppm", ext)
	}
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}
	return nil
}
