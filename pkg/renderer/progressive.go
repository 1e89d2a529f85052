package renderer

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sync/atomic"
	"time"

	"github.com/df07/go-sphere-raytracer/pkg/core"
	"github.com/df07/go-sphere-raytracer/pkg/integrator"
)

// ProgressiveConfig contains configuration for progressive rendering
type ProgressiveConfig struct {
	TileSize           int   // Size of each tile (64x64 recommended)
	InitialSamples     int   // Samples for first pass (1 recommended)
	MaxSamplesPerPixel int   // Total samples per pixel, 0 = scene sampling config
	MaxPasses          int   // Maximum number of passes
	NumWorkers         int   // Number of parallel workers (0 = use CPU count)
	Seed               int64 // Base seed for tile samplers (0 = seed from the clock)

	// SamplerFactory overrides tile sampler creation when set
	SamplerFactory func(tileID int) core.Sampler
}

// DefaultProgressiveConfig returns sensible default values
func DefaultProgressiveConfig() ProgressiveConfig {
	return ProgressiveConfig{
		TileSize:           64,
		InitialSamples:     1,
		MaxSamplesPerPixel: 0, // Use the scene's samples per pixel
		MaxPasses:          7,
		NumWorkers:         0, // Auto-detect CPU count
	}
}

// ProgressiveRaytracer manages progressive rendering with multiple passes
type ProgressiveRaytracer struct {
	scene         core.Scene
	width, height int
	config        ProgressiveConfig
	tiles         []*Tile        // Tile management
	currentPass   int            // Progressive state
	pixelStats    [][]PixelStats // Shared pixel statistics array (global image coordinates)
	workerPool    *WorkerPool    // Worker pool for parallel processing
	logger        core.Logger    // Logger for rendering output
	closed        atomic.Bool    // Set once the worker pool is stopped
}

// ErrRaytracerClosed is returned when a pass is requested after Close
var ErrRaytracerClosed = errors.New("progressive raytracer is closed")

// NewProgressiveRaytracer creates a new progressive raytracer
func NewProgressiveRaytracer(scene core.Scene, width, height int, config ProgressiveConfig, logger core.Logger) (*ProgressiveRaytracer, error) {
	samplingConfig := scene.GetSamplingConfig()
	config = normalizeProgressiveConfig(config, samplingConfig)
	if err := validateDimensions(width, height, config.MaxSamplesPerPixel); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = NewNopLogger()
	}

	tiles := NewTileGrid(width, height, config.TileSize)
	baseSeed := config.Seed
	if baseSeed == 0 {
		baseSeed = time.Now().UnixNano()
	}
	for _, tile := range tiles {
		if config.SamplerFactory != nil {
			tile.Sampler = config.SamplerFactory(tile.ID)
		} else {
			tile.Sampler = core.NewSeededSampler(baseSeed + int64(tile.ID))
		}
	}

	pt := integrator.NewPathTracingIntegrator(samplingConfig.MaxDepth)
	tileRenderer := NewTileRenderer(scene, pt, width, height)

	return &ProgressiveRaytracer{
		scene:       scene,
		width:       width,
		height:      height,
		config:      config,
		tiles:       tiles,
		currentPass: 0,
		pixelStats:  newPixelStatsGrid(width, height),
		workerPool:  NewWorkerPool(tileRenderer, len(tiles), config.NumWorkers),
		logger:      logger,
	}, nil
}

// normalizeProgressiveConfig fills unset fields
func normalizeProgressiveConfig(config ProgressiveConfig, samplingConfig core.SamplingConfig) ProgressiveConfig {
	if config.MaxSamplesPerPixel <= 0 {
		config.MaxSamplesPerPixel = samplingConfig.SamplesPerPixel
	}
	if config.TileSize <= 0 {
		config.TileSize = DefaultProgressiveConfig().TileSize
	}
	if config.MaxPasses <= 0 {
		config.MaxPasses = 1
	}
	if config.InitialSamples <= 0 {
		config.InitialSamples = 1
	}
	if config.InitialSamples > config.MaxSamplesPerPixel {
		config.InitialSamples = config.MaxSamplesPerPixel
	}
	return config
}

// Config returns the effective configuration after defaults are applied
func (pr *ProgressiveRaytracer) Config() ProgressiveConfig {
	return pr.config
}

// getSamplesForPass calculates the target total samples for a given pass
func (pr *ProgressiveRaytracer) getSamplesForPass(passNumber int) int {
	// Special case: if only 1 pass, use all samples
	if pr.config.MaxPasses == 1 {
		return pr.config.MaxSamplesPerPixel
	}

	// For multiple passes: first pass is quick preview
	if passNumber == 1 {
		return pr.config.InitialSamples
	}

	// For the final pass, use all remaining samples
	if passNumber >= pr.config.MaxPasses {
		return pr.config.MaxSamplesPerPixel
	}

	// Divide remaining samples evenly across remaining passes
	remainingSamples := pr.config.MaxSamplesPerPixel - pr.config.InitialSamples
	remainingPasses := pr.config.MaxPasses - 1
	samplesPerPass := remainingSamples / remainingPasses

	return pr.config.InitialSamples + (passNumber-1)*samplesPerPass
}

// RenderPass renders a single progressive pass using parallel processing
func (pr *ProgressiveRaytracer) RenderPass(ctx context.Context, passNumber int, tileCallback func(TileCompletionResult)) (*Image, RenderStats, error) {
	if pr.closed.Load() {
		return nil, RenderStats{}, fmt.Errorf("pass %d: %w", passNumber, ErrRaytracerClosed)
	}
	pr.currentPass = passNumber

	targetSamples := pr.getSamplesForPass(passNumber)

	pr.logger.Printf("Pass %d: Target %d samples per pixel (using %d workers)...\n",
		passNumber, targetSamples, pr.workerPool.GetNumWorkers())

	pr.workerPool.Start()

	for taskID, tile := range pr.tiles {
		pr.workerPool.SubmitTask(TileTask{
			Ctx:           ctx,
			Tile:          tile,
			PassNumber:    passNumber,
			TargetSamples: targetSamples,
			TaskID:        taskID,
			PixelStats:    pr.pixelStats,
		})
	}

	// Collect every result so no stale one leaks into the next pass
	var firstErr error
	for i := 0; i < len(pr.tiles); i++ {
		result, ok := pr.workerPool.GetResult()
		if !ok {
			return nil, RenderStats{}, fmt.Errorf("worker pool closed unexpectedly")
		}
		if result.Error != nil {
			if firstErr == nil {
				firstErr = result.Error
			}
			continue
		}

		tile := pr.tiles[result.TaskID]
		tile.PassesCompleted++

		// Callbacks run on this goroutine only
		if tileCallback != nil && firstErr == nil {
			tileCallback(TileCompletionResult{
				TileX:      tile.Bounds.Min.X / pr.config.TileSize,
				TileY:      tile.Bounds.Min.Y / pr.config.TileSize,
				TileImage:  pr.extractTileImage(tile),
				PassNumber: passNumber,

				TileNumber:  i + 1,
				TotalTiles:  len(pr.tiles),
				TotalPasses: pr.config.MaxPasses,
			})
		}
	}
	if firstErr != nil {
		return nil, RenderStats{}, fmt.Errorf("pass %d: %w", passNumber, firstErr)
	}

	img, stats := pr.assembleCurrentImage(targetSamples)
	return img, stats, nil
}

// extractTileImage extracts a tile image from the shared pixel stats array
func (pr *ProgressiveRaytracer) extractTileImage(tile *Tile) *Image {
	bounds := tile.Bounds
	tileImage := NewImage(bounds.Dx(), bounds.Dy())

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			tileImage.SetColor(x-bounds.Min.X, y-bounds.Min.Y, pr.pixelStats[y][x].GetColor())
		}
	}

	return tileImage
}

// PassResult contains the result of a single pass
type PassResult struct {
	PassNumber int
	Image      *Image
	Stats      RenderStats
	IsLast     bool
}

// TileCompletionResult contains information about a completed tile for callbacks
type TileCompletionResult struct {
	TileX      int // Tile coordinates (not pixel coordinates)
	TileY      int
	TileImage  *Image // Image data for just this tile
	PassNumber int    // Which pass this tile was rendered in

	// Progress information
	TileNumber  int // Current tile number in this pass (1-based)
	TotalTiles  int // Total number of tiles in the image
	TotalPasses int // Total number of passes planned
}

// RenderOptions configures progressive rendering behavior
type RenderOptions struct {
	TileUpdates bool // Whether to generate tile completion events
}

// RenderProgressive renders every pass on a background goroutine and streams the results.
// If options.TileUpdates is false, the tile channel is closed immediately.
// The worker pool is stopped when the stream ends, so the raytracer cannot be reused.
func (pr *ProgressiveRaytracer) RenderProgressive(ctx context.Context, options RenderOptions) (<-chan PassResult, <-chan TileCompletionResult, <-chan error) {
	passChan := make(chan PassResult, 1)
	tileChan := make(chan TileCompletionResult, 100)
	errChan := make(chan error, 1)

	if !options.TileUpdates {
		close(tileChan)
	}

	go func() {
		defer close(passChan)
		if options.TileUpdates {
			defer close(tileChan)
		}
		defer close(errChan)
		defer pr.Close()

		pr.logger.Printf("Starting progressive rendering with %d passes...\n", pr.config.MaxPasses)

		for pass := 1; pass <= pr.config.MaxPasses; pass++ {
			select {
			case <-ctx.Done():
				pr.logger.Printf("Rendering cancelled before pass %d\n", pass)
				errChan <- ctx.Err()
				return
			default:
			}

			var tileCallback func(TileCompletionResult)
			if options.TileUpdates {
				tileCallback = func(result TileCompletionResult) {
					select {
					case tileChan <- result:
					case <-ctx.Done():
					default:
						// Channel full, drop the update
					}
				}
			}

			result, err := pr.renderLoggedPass(ctx, pass, tileCallback)
			if err != nil {
				errChan <- err
				return
			}

			select {
			case passChan <- result:
			case <-ctx.Done():
				errChan <- ctx.Err()
				return
			}

			if result.IsLast {
				return
			}
		}
	}()

	return passChan, tileChan, errChan
}

// Render runs every pass on the calling goroutine and returns the final image
func (pr *ProgressiveRaytracer) Render(ctx context.Context) (*Image, RenderStats, error) {
	defer pr.Close()

	pr.logger.Printf("Starting progressive rendering with %d passes...\n", pr.config.MaxPasses)

	var last PassResult
	for pass := 1; pass <= pr.config.MaxPasses; pass++ {
		result, err := pr.renderLoggedPass(ctx, pass, nil)
		if err != nil {
			return nil, RenderStats{}, err
		}
		last = result
		if result.IsLast {
			break
		}
	}

	return last.Image, last.Stats, nil
}

// renderLoggedPass renders one pass and reports its timing
func (pr *ProgressiveRaytracer) renderLoggedPass(ctx context.Context, pass int, tileCallback func(TileCompletionResult)) (PassResult, error) {
	startTime := time.Now()

	img, stats, err := pr.RenderPass(ctx, pass, tileCallback)
	if err != nil {
		return PassResult{}, err
	}

	actualSamples := int(stats.AverageSamples)
	pr.logger.Printf("Pass %d completed in %v (actual: %d samples/pixel)\n",
		pass, time.Since(startTime), actualSamples)

	isLast := pass == pr.config.MaxPasses || actualSamples >= pr.config.MaxSamplesPerPixel
	if isLast && pass < pr.config.MaxPasses {
		pr.logger.Printf("Reached maximum samples per pixel (%d), stopping.\n", pr.config.MaxSamplesPerPixel)
	}

	return PassResult{
		PassNumber: pass,
		Image:      img,
		Stats:      stats,
		IsLast:     isLast,
	}, nil
}

// Close stops the worker pool. It is safe to call more than once.
func (pr *ProgressiveRaytracer) Close() {
	pr.closed.Store(true)
	pr.workerPool.Stop()
}

// assembleCurrentImage creates an image from the current state of the shared pixel stats
// and calculates render statistics in a single pass
func (pr *ProgressiveRaytracer) assembleCurrentImage(targetSamples int) (*Image, RenderStats) {
	img := NewImage(pr.width, pr.height)
	stats := newRenderStats(pr.width*pr.height, targetSamples)
	stats.MinSamples = pr.config.MaxSamplesPerPixel

	for y := 0; y < pr.height; y++ {
		for x := 0; x < pr.width; x++ {
			pixel := &pr.pixelStats[y][x]
			img.SetColor(x, y, pixel.GetColor())
			stats.addPixel(pixel.SampleCount)
		}
	}

	stats.finalize()
	return img, stats
}

// Tile represents a rectangular region of the image to be rendered
type Tile struct {
	ID              int             // Unique tile identifier
	Bounds          image.Rectangle // Pixel bounds (x0,y0,x1,y1)
	PassesCompleted int             // Number of passes completed for this tile
	Sampler         core.Sampler    // Tile-owned random source, never shared between goroutines
}

// NewTile creates a new tile with the specified bounds
func NewTile(id int, bounds image.Rectangle) *Tile {
	return &Tile{
		ID:              id,
		Bounds:          bounds,
		PassesCompleted: 0,
		Sampler:         core.NewSeededSampler(int64(id + 42)), // +42 to avoid seed 0
	}
}

// NewTileGrid creates a grid of tiles covering the entire image
func NewTileGrid(width, height, tileSize int) []*Tile {
	var tiles []*Tile
	tileID := 0

	tilesX := (width + tileSize - 1) / tileSize // Ceiling division
	tilesY := (height + tileSize - 1) / tileSize

	for tileY := 0; tileY < tilesY; tileY++ {
		for tileX := 0; tileX < tilesX; tileX++ {
			x0 := tileX * tileSize
			y0 := tileY * tileSize
			x1 := min(x0+tileSize, width) // Don't exceed image bounds
			y1 := min(y0+tileSize, height)

			tiles = append(tiles, NewTile(tileID, image.Rect(x0, y0, x1, y1)))
			tileID++
		}
	}

	return tiles
}
