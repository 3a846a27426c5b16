package loaders

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/df07/go-stochastic-raytracer/pkg/core"
)

// SceneFile is the raw content of a YAML scene description
type SceneFile struct {
	Name      string                  `yaml:"name"`
	Camera    CameraSpec              `yaml:"camera"`
	Sampling  SamplingSpec            `yaml:"sampling"`
	Sky       *SkySpec                `yaml:"sky"`
	Materials map[string]MaterialSpec `yaml:"materials"`
	Spheres   []SphereSpec            `yaml:"spheres"`
}

// CameraSpec holds camera settings; omitted fields keep their defaults
type CameraSpec struct {
	Center        *Vec3   `yaml:"center"`
	LookAt        *Vec3   `yaml:"look_at"`
	Up            *Vec3   `yaml:"up"`
	VFov          float64 `yaml:"vfov"`
	AspectRatio   float64 `yaml:"aspect_ratio"`
	Aperture      float64 `yaml:"aperture"`
	FocusDistance float64 `yaml:"focus_distance"`
}

// SamplingSpec holds the sampling budget; zero fields keep their defaults
type SamplingSpec struct {
	SamplesPerPixel int `yaml:"samples_per_pixel"`
	MaxDepth        int `yaml:"max_depth"`
}

// SkySpec holds the two ends of the background gradient
type SkySpec struct {
	Bottom Vec3 `yaml:"bottom"`
	Top    Vec3 `yaml:"top"`
}

// MaterialSpec describes one named material
type MaterialSpec struct {
	Kind   string     `yaml:"kind"` // lambertian, metal or dielectric
	Albedo Vec3       `yaml:"albedo"`
	Fuzz   float64    `yaml:"fuzz"`
	Index  IndexValue `yaml:"index"` // medium name or number
}

// SphereSpec places a sphere made of a named material
type SphereSpec struct {
	Center   Vec3    `yaml:"center"`
	Radius   float64 `yaml:"radius"`
	Material string  `yaml:"material"`
}

// Vec3 is a vector written as a three element sequence: [x, y, z]
type Vec3 core.Vec3

// UnmarshalYAML decodes a [x, y, z] sequence
func (v *Vec3) UnmarshalYAML(node *yaml.Node) error {
	var components []float64
	if err := node.Decode(&components); err != nil {
		return errors.Wrapf(err, "line %d: vector", node.Line)
	}
	if len(components) != 3 {
		return errors.Errorf("line %d: vector needs 3 components, got %d", node.Line, len(components))
	}
	*v = Vec3(core.NewVec3(components[0], components[1], components[2]))
	return nil
}

// IndexValue is the raw text of a refractive index: a medium name or a number
type IndexValue string

// UnmarshalYAML accepts any scalar, so both "diamond" and 1.5 are valid
func (i *IndexValue) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return errors.Errorf("line %d: refractive index must be a name or a number", node.Line)
	}
	*i = IndexValue(node.Value)
	return nil
}

// ParseSceneFile decodes a scene description. Unknown keys are rejected.
func ParseSceneFile(reader io.Reader) (*SceneFile, error) {
	decoder := yaml.NewDecoder(reader)
	decoder.KnownFields(true)

	var file SceneFile
	if err := decoder.Decode(&file); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty scene description")
		}
		return nil, errors.Wrap(err, "failed to parse scene description")
	}
	return &file, nil
}

// ReadSceneFile reads and decodes a scene description from disk
func ReadSceneFile(filename string) (*SceneFile, error) {
	if err := validateFilePath(filename); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read scene file %s", filename)
	}

	file, err := ParseSceneFile(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(err, filename)
	}

	if file.Name == "" {
		file.Name = strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	}
	return file, nil
}

// validateFilePath rejects paths that cannot be scene descriptions
func validateFilePath(filename string) error {
	if filename == "" {
		return errors.New("filename cannot be empty")
	}

	if strings.Contains(filename, "\x00") {
		return errors.New("invalid file path: null bytes not allowed")
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if ext != ".yaml" && ext != ".yml" {
		return errors.Errorf("invalid file type %q: only .yaml files are allowed", ext)
	}

	return nil
}

// IsSceneFile reports whether name looks like a scene description path rather than a built-in scene name
func IsSceneFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".yaml" || ext == ".yml"
}
