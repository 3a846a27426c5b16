package loaders

import (
	"bytes"
	"math"
	"slices"

	"github.com/pkg/errors"
	"github.com/samber/lo"

	"github.com/df07/go-stochastic-raytracer/pkg/core"
	"github.com/df07/go-stochastic-raytracer/pkg/geometry"
	"github.com/df07/go-stochastic-raytracer/pkg/integrator"
	"github.com/df07/go-stochastic-raytracer/pkg/material"
	"github.com/df07/go-stochastic-raytracer/pkg/renderer"
	"github.com/df07/go-stochastic-raytracer/pkg/scene"
)

// DefaultCameraConfig is the camera used for fields a scene file leaves out
func DefaultCameraConfig() renderer.CameraConfig {
	return renderer.CameraConfig{
		Center:      core.NewVec3(0, 0, 0),
		LookAt:      core.NewVec3(0, 0, -1),
		Up:          core.NewVec3(0, 1, 0),
		VFov:        90.0,
		AspectRatio: 16.0 / 9.0,
	}
}

// LoadScene reads a YAML scene description and builds the scene
func LoadScene(filename string) (*scene.Scene, error) {
	file, err := ReadSceneFile(filename)
	if err != nil {
		return nil, err
	}

	s, err := BuildScene(file)
	if err != nil {
		return nil, errors.Wrap(err, filename)
	}
	return s, nil
}

// ParseScene decodes a YAML scene description held in memory and builds the scene
func ParseScene(data []byte) (*scene.Scene, error) {
	file, err := ParseSceneFile(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return BuildScene(file)
}

// BuildScene validates a decoded scene description and turns it into a scene.
// Spheres naming the same material share a single material instance.
func BuildScene(file *SceneFile) (*scene.Scene, error) {
	materials, err := buildMaterials(file.Materials)
	if err != nil {
		return nil, err
	}

	world := geometry.NewList()
	for i, spec := range file.Spheres {
		if !isFinite(spec.Radius) || spec.Radius <= 0 {
			return nil, errors.Errorf("sphere %d: radius must be positive, got %g", i, spec.Radius)
		}
		mat, ok := materials[spec.Material]
		if !ok {
			return nil, errors.Errorf("sphere %d: unknown material %q", i, spec.Material)
		}
		world.Add(geometry.NewSphere(core.Vec3(spec.Center), spec.Radius, mat))
	}

	sampling := renderer.DefaultSamplingConfig()
	if file.Sampling.SamplesPerPixel < 0 || file.Sampling.MaxDepth < 0 {
		return nil, errors.New("sampling: samples_per_pixel and max_depth must not be negative")
	}
	if file.Sampling.SamplesPerPixel > 0 {
		sampling.SamplesPerPixel = file.Sampling.SamplesPerPixel
	}
	if file.Sampling.MaxDepth > 0 {
		sampling.MaxDepth = file.Sampling.MaxDepth
	}

	sky := integrator.DefaultSky()
	if file.Sky != nil {
		sky = integrator.SkyGradient{
			Bottom: core.Vec3(file.Sky.Bottom),
			Top:    core.Vec3(file.Sky.Top),
		}
	}

	camera, err := buildCamera(file.Camera)
	if err != nil {
		return nil, err
	}

	return &scene.Scene{
		Name:     file.Name,
		Camera:   camera,
		World:    world,
		Sampling: sampling,
		Sky:      sky,
	}, nil
}

func isFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

// buildMaterials creates one instance per named material, in name order
func buildMaterials(specs map[string]MaterialSpec) (map[string]material.Material, error) {
	names := lo.Keys(specs)
	slices.Sort(names)

	materials := make(map[string]material.Material, len(specs))
	for _, name := range names {
		mat, err := buildMaterial(specs[name])
		if err != nil {
			return nil, errors.Wrapf(err, "material %q", name)
		}
		materials[name] = mat
	}
	return materials, nil
}

func buildMaterial(spec MaterialSpec) (material.Material, error) {
	switch spec.Kind {
	case "lambertian":
		return material.NewLambertian(core.Vec3(spec.Albedo)), nil

	case "metal":
		if !isFinite(spec.Fuzz) || spec.Fuzz < 0 || spec.Fuzz > 1 {
			return nil, errors.Errorf("fuzz must be in [0, 1], got %g", spec.Fuzz)
		}
		return material.NewMetal(core.Vec3(spec.Albedo), spec.Fuzz), nil

	case "dielectric":
		if spec.Index == "" {
			return nil, errors.New("dielectric needs a refractive index")
		}
		index, err := material.ParseRefractiveIndex(string(spec.Index))
		if err != nil {
			return nil, err
		}
		if !isFinite(index.Value()) || index.Value() <= 0 {
			return nil, errors.Errorf("refractive index must be positive, got %g", index.Value())
		}
		return material.NewDielectric(index), nil

	case "":
		return nil, errors.New("missing material kind")

	default:
		return nil, errors.Errorf("unknown material kind %q", spec.Kind)
	}
}

func buildCamera(spec CameraSpec) (renderer.CameraConfig, error) {
	config := renderer.MergeCameraConfig(DefaultCameraConfig(), renderer.CameraConfig{
		VFov:          spec.VFov,
		AspectRatio:   spec.AspectRatio,
		Aperture:      spec.Aperture,
		FocusDistance: spec.FocusDistance,
	})
	// Vectors are applied directly: the origin is a valid explicit value
	if spec.Center != nil {
		config.Center = core.Vec3(*spec.Center)
	}
	if spec.LookAt != nil {
		config.LookAt = core.Vec3(*spec.LookAt)
	}
	if spec.Up != nil {
		config.Up = core.Vec3(*spec.Up)
	}

	switch {
	case config.VFov <= 0 || config.VFov >= 180:
		return config, errors.Errorf("camera: vfov must be in (0, 180), got %g", config.VFov)
	case config.AspectRatio <= 0:
		return config, errors.Errorf("camera: aspect_ratio must be positive, got %g", config.AspectRatio)
	case config.Aperture < 0:
		return config, errors.Errorf("camera: aperture must not be negative, got %g", config.Aperture)
	case config.Center == config.LookAt:
		return config, errors.New("camera: center and look_at must differ")
	case config.Up.Cross(config.Center.Subtract(config.LookAt)).NearZero():
		return config, errors.New("camera: up must not be parallel to the view direction")
	}
	return config, nil
}
