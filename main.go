package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/df07/go-sphere-raytracer/pkg/core"
	"github.com/df07/go-sphere-raytracer/pkg/output"
	"github.com/df07/go-sphere-raytracer/pkg/renderer"
	"github.com/df07/go-sphere-raytracer/pkg/scene"
)

// scenesDir holds the PBRT scene files addressed by name
const scenesDir = "scenes"

// renderOptions collects the command line settings for one render
type renderOptions struct {
	sceneName string
	width     int
	height    int
	samples   int
	passes    int
	workers   int
	tileSize  int
	seed      int64
	out       string
	single    bool
}

func main() {
	var opts renderOptions
	flag.StringVar(&opts.sceneName, "scene", "random", "Scene: a built-in name, pbrt:<name>, or a path to a .pbrt file")
	flag.IntVar(&opts.width, "width", 0, "Image width (0 = scene default)")
	flag.IntVar(&opts.height, "height", 0, "Image height (0 = keep the scene aspect ratio)")
	flag.IntVar(&opts.samples, "samples", 0, "Samples per pixel (0 = scene default)")
	flag.IntVar(&opts.passes, "passes", renderer.DefaultProgressiveConfig().MaxPasses, "Number of progressive passes")
	flag.IntVar(&opts.workers, "workers", 0, "Number of render workers (0 = one per CPU)")
	flag.IntVar(&opts.tileSize, "tile", renderer.DefaultProgressiveConfig().TileSize, "Tile size in pixels")
	flag.Int64Var(&opts.seed, "seed", 0, "Random seed (0 = seed from the clock)")
	flag.StringVar(&opts.out, "out", "", "Output file, .png or .ppm (default output/<scene>/render_<timestamp>.png)")
	flag.BoolVar(&opts.single, "single", false, "Render in one single-threaded pass")
	list := flag.Bool("list", false, "List available scenes and exit")
	help := flag.Bool("help", false, "Show help information")
	flag.Parse()

	if *help {
		fmt.Println("Sphere Path Tracer")
		fmt.Println("Usage: raytracer [options]")
		fmt.Println()
		fmt.Println("Options:")
		flag.PrintDefaults()
		fmt.Println()
		fmt.Println("Run with -list to see the available scenes.")
		fmt.Println("Output will be saved to output/<scene>/render_<timestamp>.png unless -out is given")
		return
	}

	if *list {
		if err := listScenes(os.Stdout, scenesDir); err != nil {
			log.Fatalf("Error listing scenes: %v", err)
		}
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	filename, err := run(ctx, opts, renderer.NewDefaultLogger())
	if err != nil {
		log.Fatalf("Render failed: %v", err)
	}
	fmt.Printf("Render saved as %s\n", filename)
}

// run renders the selected scene and writes the image, returning its path
func run(ctx context.Context, opts renderOptions, logger core.Logger) (string, error) {
	selectedScene, err := createScene(opts.sceneName, opts.seed)
	if err != nil {
		return "", err
	}
	if err := applySizeOverrides(selectedScene, opts); err != nil {
		return "", err
	}
	if err := selectedScene.Validate(); err != nil {
		return "", err
	}

	width, height := selectedScene.SamplingConfig.Width, selectedScene.SamplingConfig.Height
	logger.Printf("Rendering %s at %dx%d, %d samples per pixel (%d spheres)\n",
		opts.sceneName, width, height, selectedScene.SamplingConfig.SamplesPerPixel, selectedScene.GetPrimitiveCount())

	startTime := time.Now()
	img, stats, err := render(ctx, selectedScene, opts, logger)
	if err != nil {
		return "", err
	}
	logger.Printf("Render completed in %v\n", time.Since(startTime))
	logger.Printf("Samples per pixel: %.1f (range %d - %d)\n",
		stats.AverageSamples, stats.MinSamples, stats.MaxSamplesUsed)

	filename := opts.out
	if filename == "" {
		timestamp := time.Now().Format("20060102_150405")
		filename = filepath.Join(createOutputDir(opts.sceneName), fmt.Sprintf("render_%s.png", timestamp))
	}
	if err := output.Save(filename, img); err != nil {
		return "", err
	}
	return filename, nil
}

// render picks the single-threaded or the progressive renderer
func render(ctx context.Context, s *scene.Scene, opts renderOptions, logger core.Logger) (*renderer.Image, renderer.RenderStats, error) {
	width, height := s.SamplingConfig.Width, s.SamplingConfig.Height

	if opts.single {
		var sampler core.Sampler
		if opts.seed != 0 {
			sampler = core.NewSeededSampler(opts.seed)
		} else {
			sampler = core.NewSeededSampler(time.Now().UnixNano())
		}
		rt, err := renderer.NewRaytracer(s, width, height, sampler)
		if err != nil {
			return nil, renderer.RenderStats{}, err
		}
		return rt.RenderPass(ctx)
	}

	config := renderer.DefaultProgressiveConfig()
	config.MaxPasses = opts.passes
	config.NumWorkers = opts.workers
	config.TileSize = opts.tileSize
	config.Seed = opts.seed

	pr, err := renderer.NewProgressiveRaytracer(s, width, height, config, logger)
	if err != nil {
		return nil, renderer.RenderStats{}, err
	}
	defer pr.Close()

	return pr.Render(ctx)
}

// applySizeOverrides applies -width, -height and -samples to the scene. A lone
// -width keeps the scene's aspect ratio.
func applySizeOverrides(s *scene.Scene, opts renderOptions) error {
	if opts.samples > 0 {
		s.SamplingConfig.SamplesPerPixel = opts.samples
	}
	if opts.width <= 0 && opts.height <= 0 {
		return nil
	}

	width, height := opts.width, opts.height
	sceneWidth, sceneHeight := s.SamplingConfig.Width, s.SamplingConfig.Height
	switch {
	case width <= 0:
		width = max(1, height*sceneWidth/sceneHeight)
	case height <= 0:
		height = max(1, width*sceneHeight/sceneWidth)
	}
	return s.SetImageSize(width, height)
}

// createScene resolves a scene name to a scene. Names are tried as a .pbrt
// path, then pbrt:<name>, then a built-in scene, then scenes/<name>.pbrt.
func createScene(sceneName string, seed int64) (*scene.Scene, error) {
	if sceneName == "" {
		return nil, fmt.Errorf("no scene given")
	}

	if strings.HasSuffix(strings.ToLower(sceneName), ".pbrt") {
		return scene.NewPBRTScene(sceneName)
	}
	if name, ok := strings.CutPrefix(sceneName, "pbrt:"); ok {
		return scene.NewPBRTScene(filepath.Join(scenesDir, name+".pbrt"))
	}

	var sampler core.Sampler
	if seed != 0 {
		sampler = core.NewSeededSampler(seed)
	}
	if s, err := scene.NewBuiltInScene(sceneName, sampler); err == nil {
		return s, nil
	}

	if s, err := tryLoadPBRTScene(scenesDir, sceneName); err != nil || s != nil {
		return s, err
	}
	return nil, fmt.Errorf("unknown scene %q (run with -list to see available scenes)", sceneName)
}

// tryLoadPBRTScene loads <dir>/<name>.pbrt. It returns nil and no error when
// the file does not exist, and the load error when it exists but is invalid.
func tryLoadPBRTScene(dir, sceneName string) (*scene.Scene, error) {
	path := filepath.Join(dir, sceneName+".pbrt")
	if _, err := os.Stat(path); err != nil {
		return nil, nil
	}
	return scene.NewPBRTScene(path)
}

// createOutputDir returns output/<scene> for the given scene name
func createOutputDir(sceneName string) string {
	base := sceneName
	switch {
	case strings.HasSuffix(strings.ToLower(sceneName), ".pbrt"):
		base = strings.TrimSuffix(filepath.Base(sceneName), filepath.Ext(sceneName))
	case strings.HasPrefix(sceneName, "pbrt:"):
		base = strings.TrimPrefix(sceneName, "pbrt:")
	}
	if base == "" {
		base = "scene"
	}
	return filepath.Join("output", base)
}

// listScenes prints the built-in and PBRT scenes by group
func listScenes(w io.Writer, dir string) error {
	groups, err := scene.ListAllScenes(dir)
	if err != nil {
		return err
	}

	for _, group := range groups {
		fmt.Fprintf(w, "%s:\n", group.Name)
		for _, info := range group.Scenes {
			if info.Description != "" {
				fmt.Fprintf(w, "  %-20s %s - %s\n", info.ID, info.DisplayName, info.Description)
			} else {
				fmt.Fprintf(w, "  %-20s %s\n", info.ID, info.DisplayName)
			}
		}
	}
	return nil
}
