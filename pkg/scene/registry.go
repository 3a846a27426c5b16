package scene

import (
	"bufio"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/pkg/errors"
	"github.com/samber/lo"
)

// SceneInfo describes a scene that can be selected by name
type SceneInfo struct {
	ID          string `json:"id" yaml:"id"`                   // Unique identifier used on the command line
	Name        string `json:"name" yaml:"name"`               // Display name
	Description string `json:"description" yaml:"description"` // Optional description
	Type        string `json:"type" yaml:"type"`               // "builtin" or "yaml"
	FilePath    string `json:"filePath" yaml:"filePath"`       // Scene description file (yaml type only)
}

// Builder creates a scene; seed only matters for procedurally generated scenes
type Builder func(seed int64) *Scene

type registryEntry struct {
	info  SceneInfo
	build Builder
}

// Registry maps scene names to their builders
type Registry struct {
	entries map[string]registryEntry
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]registryEntry)}
}

// DefaultRegistry returns a registry holding every built-in scene
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(SceneInfo{
		ID:          "default",
		Name:        "Default Scene",
		Description: "Diffuse, glass and metal spheres on a ground",
	}, func(int64) *Scene { return NewDefaultScene() })
	r.Register(SceneInfo{
		ID:          "random",
		Name:        "Random Spheres",
		Description: "Field of small random spheres around three large feature spheres",
	}, func(seed int64) *Scene { return NewRandomScene(seed) })
	r.Register(SceneInfo{
		ID:          "check",
		Name:        "Check Scene",
		Description: "Single diffuse sphere lit by the sky",
	}, func(int64) *Scene { return NewCheckScene() })
	r.Register(SceneInfo{
		ID:          "sphere-grid",
		Name:        "Sphere Grid",
		Description: "10x10 grid of rainbow-colored metallic spheres",
	}, func(int64) *Scene { return NewSphereGridScene(10) })
	return r
}

// Register adds a built-in scene, replacing any scene with the same ID
func (r *Registry) Register(info SceneInfo, build Builder) {
	info.Type = "builtin"
	r.entries[info.ID] = registryEntry{info: info, build: build}
}

// Lookup builds the scene registered under name
func (r *Registry) Lookup(name string, seed int64) (*Scene, error) {
	entry, ok := r.entries[name]
	if !ok {
		return nil, errors.Errorf("unknown scene %q (available: %s)", name, strings.Join(r.Names(), ", "))
	}
	return entry.build(seed), nil
}

// Names returns the registered scene IDs in sorted order
func (r *Registry) Names() []string {
	names := lo.Keys(r.entries)
	slices.Sort(names)
	return names
}

// Infos returns the registered scenes sorted by ID
func (r *Registry) Infos() []SceneInfo {
	return lo.Map(r.Names(), func(name string, _ int) SceneInfo {
		return r.entries[name].info
	})
}

// YAMLScenePrefix starts the ID of every scene read from a scene file
const YAMLScenePrefix = "yaml:"

// YAMLSceneID returns the scene ID of a scene file: "yaml:" followed by its base name without extension
func YAMLSceneID(filePath string) string {
	base := filepath.Base(filePath)
	return YAMLScenePrefix + strings.TrimSuffix(base, filepath.Ext(base))
}

// ListYAMLScenes scans dir for .yaml scene descriptions. A missing directory yields no scenes.
func ListYAMLScenes(dir string) ([]SceneInfo, error) {
	if _, err := os.Stat(dir); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []SceneInfo{}, nil
		}
		return nil, errors.Wrap(err, "failed to open scenes directory")
	}

	files, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return nil, errors.Wrap(err, "failed to scan scenes directory")
	}

	scenes := make([]SceneInfo, 0, len(files))
	for _, filePath := range files {
		info, err := ParseYAMLMetadata(filePath)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to parse metadata for %s", filePath)
		}
		scenes = append(scenes, info)
	}

	slices.SortFunc(scenes, func(a, b SceneInfo) int {
		return strings.Compare(a.ID, b.ID)
	})
	return scenes, nil
}

// FindYAMLScene returns the scene file listed in dir under id
func FindYAMLScene(dir, id string) (SceneInfo, error) {
	files, err := ListYAMLScenes(dir)
	if err != nil {
		return SceneInfo{}, err
	}

	info, found := lo.Find(files, func(info SceneInfo) bool {
		return info.ID == id
	})
	if !found {
		return SceneInfo{}, errors.Errorf("unknown scene file %q", id)
	}
	return info, nil
}

// ParseYAMLMetadata extracts metadata from the leading comment block of a scene file:
//
//	# Scene: Glass Marbles
//	# Description: Three marbles on a mirror
func ParseYAMLMetadata(filePath string) (SceneInfo, error) {
	nameWithoutExt := strings.TrimSuffix(filepath.Base(filePath), filepath.Ext(filePath))

	info := SceneInfo{
		ID:       YAMLSceneID(filePath),
		Name:     titleCase(nameWithoutExt),
		Type:     "yaml",
		FilePath: filePath,
	}

	file, err := os.Open(filePath)
	if err != nil {
		return info, err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		// Metadata only lives in the header
		if !strings.HasPrefix(line, "#") {
			break
		}

		content := strings.TrimSpace(strings.TrimPrefix(line, "#"))
		if value, ok := strings.CutPrefix(content, "Scene:"); ok {
			info.Name = strings.TrimSpace(value)
		} else if value, ok := strings.CutPrefix(content, "Description:"); ok {
			info.Description = strings.TrimSpace(value)
		}
	}

	return info, scanner.Err()
}

// titleCase converts a filename-style string to title case
// e.g., "glass-marbles" -> "Glass Marbles"
func titleCase(s string) string {
	s = strings.NewReplacer("-", " ", "_", " ").Replace(s)

	words := strings.Fields(s)
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
	}

	return strings.Join(words, " ")
}
