package core

// DefaultMaxDepth is the hard cap on path depth
const DefaultMaxDepth = 50

// SamplingConfig contains rendering configuration
type SamplingConfig struct {
	Width           int // Image width
	Height          int // Image height
	SamplesPerPixel int // Number of rays per pixel
	MaxDepth        int // Maximum ray bounce depth
}

// DefaultSamplingConfig returns sensible default values
func DefaultSamplingConfig() SamplingConfig {
	return SamplingConfig{
		Width:           400,
		Height:          225,
		SamplesPerPixel: 100,
		MaxDepth:        DefaultMaxDepth,
	}
}

// Scene is the read-only view of a scene the renderer needs
type Scene interface {
	GetCamera() Camera
	GetWorld() Hittable
	GetSamplingConfig() SamplingConfig
}
