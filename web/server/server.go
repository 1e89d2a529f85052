package server

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/df07/go-sphere-raytracer/pkg/core"
	"github.com/df07/go-sphere-raytracer/pkg/scene"
)

// DefaultTileSize is the tile edge used for web renders
const DefaultTileSize = 64

// Server handles web requests for the progressive raytracer
type Server struct {
	port      int
	scenesDir string
}

// NewServer creates a web server that loads PBRT scenes from scenesDir
func NewServer(port int, scenesDir string) *Server {
	return &Server{port: port, scenesDir: scenesDir}
}

// RenderRequest represents a render request from the client. Zero sizes and
// sample counts mean the scene's own defaults.
type RenderRequest struct {
	Scene      string `json:"scene"`      // Scene ID, e.g. "random" or "pbrt:glass-bubble"
	Width      int    `json:"width"`      // Image width
	Height     int    `json:"height"`     // Image height
	MaxSamples int    `json:"maxSamples"` // Maximum samples per pixel
	MaxPasses  int    `json:"maxPasses"`  // Maximum number of passes
	Seed       int64  `json:"seed"`       // Random seed, 0 = seed from the clock
}

// sceneInfoResponse is the JSON form of scene.SceneInfo
type sceneInfoResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
	Description string `json:"description,omitempty"`
	Type        string `json:"type"`
	Variant     string `json:"variant,omitempty"`
}

type sceneGroupResponse struct {
	Name   string              `json:"name"`
	Scenes []sceneInfoResponse `json:"scenes"`
}

// Handler returns the API routes
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/render", s.handleRender)
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/scenes", s.handleScenes)
	mux.HandleFunc("/api/scene-config", s.handleSceneConfig)
	return mux
}

// Start starts the web server
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	log.Printf("Starting web server on http://localhost%s", addr)
	return http.ListenAndServe(addr, s.Handler())
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleScenes lists the built-in and PBRT scenes by group
func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	groups, err := scene.ListAllScenes(s.scenesDir)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	response := make([]sceneGroupResponse, 0, len(groups))
	for _, group := range groups {
		g := sceneGroupResponse{Name: group.Name, Scenes: make([]sceneInfoResponse, 0, len(group.Scenes))}
		for _, info := range group.Scenes {
			g.Scenes = append(g.Scenes, sceneInfoResponse{
				ID:          info.ID,
				Name:        info.Name,
				DisplayName: info.DisplayName,
				Description: info.Description,
				Type:        info.Type,
				Variant:     info.Variant,
			})
		}
		response = append(response, g)
	}
	writeJSON(w, http.StatusOK, response)
}

// handleSceneConfig returns the default configuration for a scene
func (s *Server) handleSceneConfig(w http.ResponseWriter, r *http.Request) {
	sceneName := r.URL.Query().Get("scene")
	if sceneName == "" {
		sceneName = "default"
	}

	sceneObj, err := s.createScene(sceneName, 0)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	config := sceneObj.GetSamplingConfig()
	camera := sceneObj.CameraConfig
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"scene": sceneName,
		"defaults": map[string]interface{}{
			"width":           config.Width,
			"height":          config.Height,
			"samplesPerPixel": config.SamplesPerPixel,
			"maxDepth":        config.MaxDepth,
			"vfov":            camera.VFov,
			"aperture":        camera.Aperture,
			"primitiveCount":  sceneObj.GetPrimitiveCount(),
		},
		"limits": map[string]interface{}{
			"width":      map[string]int{"min": minImageSize, "max": maxImageSize},
			"height":     map[string]int{"min": minImageSize, "max": maxImageSize},
			"maxSamples": map[string]int{"min": 1, "max": maxSamples},
			"maxPasses":  map[string]int{"min": 1, "max": maxPasses},
		},
	})
}

const (
	minImageSize = 16
	maxImageSize = 2000
	maxSamples   = 10000
	maxPasses    = 10000
)

// parseRenderRequest parses and validates the query parameters of a render request
func (s *Server) parseRenderRequest(r *http.Request) (*RenderRequest, error) {
	query := r.URL.Query()
	req := &RenderRequest{Scene: query.Get("scene")}
	if req.Scene == "" {
		req.Scene = "default"
	}

	var err error
	if req.Width, err = parseIntParam(query, "width", 0, minImageSize, maxImageSize); err != nil {
		return nil, err
	}
	if req.Height, err = parseIntParam(query, "height", 0, minImageSize, maxImageSize); err != nil {
		return nil, err
	}
	if req.MaxSamples, err = parseIntParam(query, "maxSamples", 0, 1, maxSamples); err != nil {
		return nil, err
	}
	if req.MaxPasses, err = parseIntParam(query, "maxPasses", 7, 1, maxPasses); err != nil {
		return nil, err
	}
	if value := query.Get("seed"); value != "" {
		if req.Seed, err = strconv.ParseInt(value, 10, 64); err != nil {
			return nil, fmt.Errorf("invalid seed: %s", value)
		}
	}

	if req.Width*req.Height > 800*600 && req.MaxSamples > 100 {
		log.Printf("Render warning: Large image with high samples may render slowly")
	}
	return req, nil
}

// parseIntParam parses an integer parameter from URL query with validation
func parseIntParam(values url.Values, key string, defaultValue, min, max int) (int, error) {
	value := values.Get(key)
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %s", key, value)
	}
	if parsed < min || parsed > max {
		return 0, fmt.Errorf("%s must be between %d and %d, got: %d", key, min, max, parsed)
	}
	return parsed, nil
}

// createScene resolves a scene ID: pbrt:<name> loads from the scenes
// directory, anything else must be a built-in scene.
func (s *Server) createScene(sceneName string, seed int64) (*scene.Scene, error) {
	if name, ok := strings.CutPrefix(sceneName, "pbrt:"); ok {
		if name == "" || strings.ContainsAny(name, `/\`) {
			return nil, fmt.Errorf("invalid scene name: %s", sceneName)
		}
		return scene.NewPBRTScene(filepath.Join(s.scenesDir, name+".pbrt"))
	}

	var sampler core.Sampler
	if seed != 0 {
		sampler = core.NewSeededSampler(seed)
	}
	return scene.NewBuiltInScene(sceneName, sampler)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}
