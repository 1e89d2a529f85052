package scene

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/df07/go-sphere-raytracer/pkg/core"
	"github.com/df07/go-sphere-raytracer/pkg/geometry"
)

const (
	builtInGroup     = "Built-in Scenes"
	defaultPBRTGroup = "PBRT Scenes"
)

// SceneInfo represents a discovered scene with its metadata
type SceneInfo struct {
	ID          string // Unique identifier, accepted by the CLI -scene flag
	Name        string // Scene name
	DisplayName string // Name plus variant
	Description string // Optional description
	Group       string // Grouping category
	Type        string // "builtin" or "pbrt"
	FilePath    string // Path to PBRT file (pbrt type only)
	Variant     string // Variant name (optional)
}

// SceneGroup represents a group of related scenes
type SceneGroup struct {
	Name   string
	Scenes []SceneInfo
}

// BuiltInScenes lists the scenes constructed in code
var BuiltInScenes = []SceneInfo{
	{
		ID:          "random",
		Name:        "Random Spheres",
		DisplayName: "Random Spheres",
		Description: "Field of small random spheres around three large ones",
		Group:       builtInGroup,
		Type:        "builtin",
	},
	{
		ID:          "default",
		Name:        "Default Scene",
		DisplayName: "Default Scene",
		Description: "Diffuse, metal and hollow glass spheres on a ground sphere",
		Group:       builtInGroup,
		Type:        "builtin",
	},
	{
		ID:          "mirror-pair",
		Name:        "Mirror Pair",
		DisplayName: "Mirror Pair",
		Description: "Two facing mirrors that bounce rays until the depth cap",
		Group:       builtInGroup,
		Type:        "builtin",
	},
}

// NewBuiltInScene constructs a built-in scene by ID. The sampler only drives
// the random scene's layout; nil picks a clock-seeded one.
func NewBuiltInScene(id string, sampler core.Sampler, cameraOverrides ...geometry.CameraConfig) (*Scene, error) {
	switch id {
	case "random":
		return NewRandomScene(sampler, cameraOverrides...), nil
	case "default":
		return NewDefaultScene(cameraOverrides...), nil
	case "mirror-pair":
		return NewMirrorPairScene(cameraOverrides...), nil
	default:
		return nil, fmt.Errorf("unknown scene: %s", id)
	}
}

// ListPBRTScenes scans dir for .pbrt files and returns their metadata
func ListPBRTScenes(dir string) ([]SceneInfo, error) {
	if _, err := os.Stat(dir); err != nil {
		// No scenes directory, nothing to list
		return []SceneInfo{}, nil
	}

	files, err := filepath.Glob(filepath.Join(dir, "*.pbrt"))
	if err != nil {
		return nil, fmt.Errorf("failed to scan scenes directory: %w", err)
	}

	scenes := make([]SceneInfo, 0, len(files))
	for _, filePath := range files {
		sceneInfo, err := ParsePBRTMetadata(filePath)
		if err != nil {
			fmt.Printf("Warning: failed to parse metadata for %s: %v\n", filePath, err)
			continue
		}
		scenes = append(scenes, sceneInfo)
	}

	sort.Slice(scenes, func(i, j int) bool {
		return scenes[i].DisplayName < scenes[j].DisplayName
	})

	return scenes, nil
}

// ParsePBRTMetadata extracts metadata from PBRT file header comments
func ParsePBRTMetadata(filePath string) (SceneInfo, error) {
	filename := filepath.Base(filePath)
	nameWithoutExt := strings.TrimSuffix(filename, filepath.Ext(filename))

	sceneInfo := SceneInfo{
		ID:       "pbrt:" + nameWithoutExt,
		Name:     titleCase(nameWithoutExt),
		Group:    defaultPBRTGroup,
		Type:     "pbrt",
		FilePath: filePath,
	}

	file, err := os.Open(filePath)
	if err != nil {
		return sceneInfo, err
	}
	defer file.Close()

	// Metadata lives in the leading comment block
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, "#") {
			break
		}

		content := strings.TrimSpace(strings.TrimPrefix(line, "#"))
		key, value, found := strings.Cut(content, ":")
		if !found {
			continue
		}
		value = strings.TrimSpace(value)

		switch key {
		case "Scene":
			sceneInfo.Name = value
		case "Variant":
			sceneInfo.Variant = value
		case "Description":
			sceneInfo.Description = value
		case "Group":
			sceneInfo.Group = value
		}
	}

	if sceneInfo.Variant != "" {
		sceneInfo.DisplayName = fmt.Sprintf("%s - %s", sceneInfo.Name, sceneInfo.Variant)
	} else {
		sceneInfo.DisplayName = sceneInfo.Name
	}

	return sceneInfo, scanner.Err()
}

// ListAllScenes returns both built-in and PBRT scenes, grouped by category.
// Built-in scenes come first, the other groups follow alphabetically.
func ListAllScenes(dir string) ([]SceneGroup, error) {
	pbrtScenes, err := ListPBRTScenes(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list PBRT scenes: %w", err)
	}

	groupMap := make(map[string][]SceneInfo)
	for _, info := range pbrtScenes {
		groupMap[info.Group] = append(groupMap[info.Group], info)
	}

	var groupNames []string
	for groupName := range groupMap {
		if groupName != builtInGroup {
			groupNames = append(groupNames, groupName)
		}
	}
	sort.Strings(groupNames)

	builtIns := append([]SceneInfo{}, BuiltInScenes...)
	builtIns = append(builtIns, groupMap[builtInGroup]...)

	groups := []SceneGroup{{Name: builtInGroup, Scenes: builtIns}}
	for _, groupName := range groupNames {
		groups = append(groups, SceneGroup{Name: groupName, Scenes: groupMap[groupName]})
	}

	return groups, nil
}

// titleCase converts a filename-style string to title case
// e.g., "glass-bubble" -> "Glass Bubble"
func titleCase(s string) string {
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")

	words := strings.Fields(s)
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
	}

	return strings.Join(words, " ")
}
