package scene

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/df07/go-sphere-raytracer/pkg/core"
)

// repoScenesDir holds the sample PBRT files shipped with the repository
const repoScenesDir = "../../scenes"

func TestTitleCase(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{"glass-bubble", "Glass Bubble"},
		{"mirror_pair", "Mirror Pair"},
		{"my-custom-scene", "My Custom Scene"},
		{"simple", "Simple"},
		{"UPPER-case", "Upper Case"},
		{"", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			result := titleCase(tc.input)
			if result != tc.expected {
				t.Errorf("titleCase(%q) = %q, want %q", tc.input, result, tc.expected)
			}
		})
	}
}

func TestParsePBRTMetadata(t *testing.T) {
	testCases := []struct {
		name     string
		content  string
		expected SceneInfo
	}{
		{
			name: "complete_metadata.pbrt",
			content: `# Scene: Glass Bubble
# Variant: Thin Shell
# Description: Hollow glass sphere on a ground sphere
# Group: Glass

LookAt 0 0 5  0 0 0  0 1 0`,
			expected: SceneInfo{
				ID:          "pbrt:complete_metadata",
				Name:        "Glass Bubble",
				DisplayName: "Glass Bubble - Thin Shell",
				Description: "Hollow glass sphere on a ground sphere",
				Group:       "Glass",
				Type:        "pbrt",
				Variant:     "Thin Shell",
			},
		},
		{
			name: "partial_metadata.pbrt",
			content: `# Scene: Metals
# Description: Three metal spheres

LookAt 0 0 5  0 0 0  0 1 0`,
			expected: SceneInfo{
				ID:          "pbrt:partial_metadata",
				Name:        "Metals",
				DisplayName: "Metals",
				Description: "Three metal spheres",
				Group:       "PBRT Scenes",
				Type:        "pbrt",
			},
		},
		{
			name:    "no_metadata.pbrt",
			content: `LookAt 0 0 5  0 0 0  0 1 0`,
			expected: SceneInfo{
				ID:          "pbrt:no_metadata",
				Name:        "No Metadata",
				DisplayName: "No Metadata",
				Group:       "PBRT Scenes",
				Type:        "pbrt",
			},
		},
		{
			name: "stops_at_first_statement.pbrt",
			content: `# Scene: Early
LookAt 0 0 5  0 0 0  0 1 0
# Variant: Ignored`,
			expected: SceneInfo{
				ID:          "pbrt:stops_at_first_statement",
				Name:        "Early",
				DisplayName: "Early",
				Group:       "PBRT Scenes",
				Type:        "pbrt",
			},
		},
	}

	dir := t.TempDir()
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(dir, tc.name)
			if err := os.WriteFile(path, []byte(tc.content), 0644); err != nil {
				t.Fatalf("Failed to write test file: %v", err)
			}

			result, err := ParsePBRTMetadata(path)
			if err != nil {
				t.Fatalf("ParsePBRTMetadata() error: %v", err)
			}

			tc.expected.FilePath = path
			if result != tc.expected {
				t.Errorf("ParsePBRTMetadata() = %+v, want %+v", result, tc.expected)
			}
		})
	}
}

func TestParsePBRTMetadata_MissingFile(t *testing.T) {
	result, err := ParsePBRTMetadata(filepath.Join(t.TempDir(), "missing.pbrt"))
	if err == nil {
		t.Error("Expected an error for a missing file")
	}
	if result.ID != "pbrt:missing" {
		t.Errorf("Expected fallback ID, got %q", result.ID)
	}
}

func TestListPBRTScenes(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"b-scene.pbrt": "# Scene: Beta\nWorldBegin\nWorldEnd\n",
		"a-scene.pbrt": "# Scene: Alpha\n# Group: Extra\nWorldBegin\nWorldEnd\n",
		"notes.txt":    "not a scene",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatalf("Failed to write %s: %v", name, err)
		}
	}

	scenes, err := ListPBRTScenes(dir)
	if err != nil {
		t.Fatalf("ListPBRTScenes() error: %v", err)
	}
	if len(scenes) != 2 {
		t.Fatalf("Expected 2 scenes, got %d", len(scenes))
	}
	if scenes[0].Name != "Alpha" || scenes[1].Name != "Beta" {
		t.Errorf("Expected scenes sorted by display name, got %q, %q", scenes[0].Name, scenes[1].Name)
	}

	groups, err := ListAllScenes(dir)
	if err != nil {
		t.Fatalf("ListAllScenes() error: %v", err)
	}
	names := make([]string, len(groups))
	for i, group := range groups {
		names[i] = group.Name
	}
	if strings.Join(names, ",") != "Built-in Scenes,Extra,PBRT Scenes" {
		t.Errorf("Unexpected group order %v", names)
	}
}

func TestListPBRTScenes_MissingDirectory(t *testing.T) {
	scenes, err := ListPBRTScenes(filepath.Join(t.TempDir(), "nope"))
	if err != nil {
		t.Errorf("ListPBRTScenes() error: %v", err)
	}
	if scenes == nil || len(scenes) != 0 {
		t.Errorf("Expected an empty slice, got %v", scenes)
	}
}

func TestListAllScenes_BuiltIns(t *testing.T) {
	groups, err := ListAllScenes(filepath.Join(t.TempDir(), "nope"))
	if err != nil {
		t.Fatalf("ListAllScenes() error: %v", err)
	}
	if len(groups) != 1 || groups[0].Name != "Built-in Scenes" {
		t.Fatalf("Expected only the built-in group, got %+v", groups)
	}

	for _, info := range groups[0].Scenes {
		s, err := NewBuiltInScene(info.ID, core.NewSeededSampler(1))
		if err != nil {
			t.Errorf("Built-in scene %q failed: %v", info.ID, err)
			continue
		}
		if err := s.Validate(); err != nil {
			t.Errorf("Built-in scene %q is invalid: %v", info.ID, err)
		}
	}

	if _, err := NewBuiltInScene("cornell-box", nil); err == nil {
		t.Error("Expected an error for an unknown scene")
	}
}

func TestRepositoryScenesLoad(t *testing.T) {
	scenes, err := ListPBRTScenes(repoScenesDir)
	if err != nil {
		t.Fatalf("ListPBRTScenes() error: %v", err)
	}
	if len(scenes) == 0 {
		t.Skip("no PBRT scenes shipped")
	}

	for _, info := range scenes {
		t.Run(info.ID, func(t *testing.T) {
			s, err := NewPBRTScene(info.FilePath)
			if err != nil {
				t.Fatalf("NewPBRTScene(%s) error: %v", info.FilePath, err)
			}
			if err := s.Validate(); err != nil {
				t.Errorf("Scene %s is invalid: %v", info.ID, err)
			}
			if s.GetPrimitiveCount() == 0 {
				t.Errorf("Scene %s has no spheres", info.ID)
			}
		})
	}
}
