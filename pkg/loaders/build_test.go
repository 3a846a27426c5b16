package loaders

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/df07/go-stochastic-raytracer/pkg/core"
	"github.com/df07/go-stochastic-raytracer/pkg/geometry"
	"github.com/df07/go-stochastic-raytracer/pkg/integrator"
	"github.com/df07/go-stochastic-raytracer/pkg/material"
	"github.com/df07/go-stochastic-raytracer/pkg/renderer"
)

func TestLoadScene(t *testing.T) {
	s, err := LoadScene(filepath.Join("testdata", "marbles.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "marbles", s.Name)
	assert.Equal(t, 6, s.World.Len())
	assert.Equal(t, renderer.SamplingConfig{SamplesPerPixel: 100, MaxDepth: 50}, s.Sampling)
	assert.Equal(t, integrator.DefaultSky(), s.Sky)
	assert.Equal(t, core.NewVec3(0, 1, 3), s.Camera.Center)
	assert.Equal(t, core.NewVec3(0, 1, 0), s.Camera.Up, "up keeps its default")
	assert.Equal(t, 30.0, s.Camera.VFov)

	diamond := s.World.Shapes()[1].(*geometry.Sphere).Material.(*material.Dielectric)
	assert.Equal(t, material.Diamond, diamond.Index.Medium())
	crown := s.World.Shapes()[3].(*geometry.Sphere).Material.(*material.Dielectric)
	assert.Equal(t, material.CrownGlass, crown.Index.Medium())
}

func TestParseSceneDefaults(t *testing.T) {
	s, err := ParseScene([]byte("spheres: []\n"))
	require.NoError(t, err)

	assert.Equal(t, 0, s.World.Len())
	assert.Equal(t, renderer.DefaultSamplingConfig(), s.Sampling)
	assert.Equal(t, DefaultCameraConfig(), s.Camera)
	assert.Equal(t, integrator.DefaultSky(), s.Sky)
}

func TestParseSceneCameraAtOrigin(t *testing.T) {
	// An explicit origin must not be mistaken for an unset field
	s, err := ParseScene([]byte("camera:\n  center: [0, 0, 0]\n  look_at: [0, 0, 5]\n"))
	require.NoError(t, err)
	assert.Equal(t, core.NewVec3(0, 0, 0), s.Camera.Center)
	assert.Equal(t, core.NewVec3(0, 0, 5), s.Camera.LookAt)
}

func TestParseSceneSharesMaterials(t *testing.T) {
	input := `
materials:
  gold: {kind: metal, albedo: [0.8, 0.6, 0.2], fuzz: 0.3}
  matte: {kind: lambertian, albedo: [0.5, 0.5, 0.5]}
spheres:
  - {center: [0, 0, -1], radius: 0.5, material: gold}
  - {center: [1, 0, -1], radius: 0.5, material: matte}
  - {center: [2, 0, -1], radius: 0.5, material: gold}
`
	s, err := ParseScene([]byte(input))
	require.NoError(t, err)

	shapes := s.World.Shapes()
	require.Len(t, shapes, 3)
	first := shapes[0].(*geometry.Sphere).Material
	third := shapes[2].(*geometry.Sphere).Material
	assert.Same(t, first, third)
	assert.NotSame(t, first, shapes[1].(*geometry.Sphere).Material)

	gold := first.(*material.Metal)
	assert.Equal(t, 0.3, gold.Fuzz)
}

func TestParseSceneValidation(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		message string
	}{
		{
			name:    "unknown kind",
			input:   "materials:\n  a: {kind: plastic}\n",
			message: `unknown material kind "plastic"`,
		},
		{
			name:    "missing kind",
			input:   "materials:\n  a: {albedo: [1, 1, 1]}\n",
			message: "missing material kind",
		},
		{
			name:    "unknown material",
			input:   "spheres:\n  - {center: [0, 0, -1], radius: 0.5, material: nope}\n",
			message: `unknown material "nope"`,
		},
		{
			name:    "zero radius",
			input:   "materials:\n  a: {kind: lambertian}\nspheres:\n  - {center: [0, 0, -1], radius: 0, material: a}\n",
			message: "radius must be positive",
		},
		{
			name:    "negative radius",
			input:   "materials:\n  a: {kind: lambertian}\nspheres:\n  - {center: [0, 0, -1], radius: -1, material: a}\n",
			message: "radius must be positive",
		},
		{
			name:    "NaN radius",
			input:   "materials:\n  a: {kind: lambertian}\nspheres:\n  - {center: [0, 0, -1], radius: .nan, material: a}\n",
			message: "radius must be positive",
		},
		{
			name:    "infinite radius",
			input:   "materials:\n  a: {kind: lambertian}\nspheres:\n  - {center: [0, 0, -1], radius: .inf, material: a}\n",
			message: "radius must be positive",
		},
		{
			name:    "NaN fuzz",
			input:   "materials:\n  a: {kind: metal, fuzz: .nan}\n",
			message: "fuzz must be in [0, 1]",
		},
		{
			name:    "fuzz too large",
			input:   "materials:\n  a: {kind: metal, fuzz: 1.5}\n",
			message: "fuzz must be in [0, 1]",
		},
		{
			name:    "negative fuzz",
			input:   "materials:\n  a: {kind: metal, fuzz: -0.1}\n",
			message: "fuzz must be in [0, 1]",
		},
		{
			name:    "missing index",
			input:   "materials:\n  a: {kind: dielectric}\n",
			message: "needs a refractive index",
		},
		{
			name:    "non-positive index",
			input:   "materials:\n  a: {kind: dielectric, index: 0}\n",
			message: "refractive index must be positive",
		},
		{
			name:    "negative index",
			input:   "materials:\n  a: {kind: dielectric, index: -1.5}\n",
			message: "refractive index must be positive",
		},
		{
			name:    "NaN index",
			input:   "materials:\n  a: {kind: dielectric, index: nan}\n",
			message: "refractive index must be positive",
		},
		{
			name:    "infinite index",
			input:   "materials:\n  a: {kind: dielectric, index: inf}\n",
			message: "refractive index must be positive",
		},
		{
			name:    "unknown medium",
			input:   "materials:\n  a: {kind: dielectric, index: unobtainium}\n",
			message: "unknown refractive index",
		},
		{
			name:    "negative samples",
			input:   "sampling: {samples_per_pixel: -1}\n",
			message: "must not be negative",
		},
		{
			name:    "vfov out of range",
			input:   "camera: {vfov: 180}\n",
			message: "vfov",
		},
		{
			name:    "negative aperture",
			input:   "camera: {aperture: -1}\n",
			message: "aperture",
		},
		{
			name:    "look at self",
			input:   "camera: {center: [1, 1, 1], look_at: [1, 1, 1]}\n",
			message: "must differ",
		},
		{
			name:    "up along view",
			input:   "camera: {center: [0, 5, 0], look_at: [0, 0, 0]}\n",
			message: "parallel",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScene([]byte(tt.input))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestParseSceneErrorNamesMaterial(t *testing.T) {
	_, err := ParseScene([]byte("materials:\n  shiny: {kind: metal, fuzz: 2}\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `material "shiny"`)
}

func TestLoadedSceneRenders(t *testing.T) {
	input := `
camera: {vfov: 90, aspect_ratio: 2}
sampling: {samples_per_pixel: 2, max_depth: 5}
materials:
  matte: {kind: lambertian, albedo: [0.5, 0.5, 0.5]}
spheres:
  - {center: [0, 0, -1], radius: 0.5, material: matte}
`
	s, err := ParseScene([]byte(input))
	require.NoError(t, err)

	frame, _, err := s.NewRaytracer(8, integrator.NewPathTracingIntegrator(s.Sky)).Render(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 8, frame.Width)
	assert.Equal(t, 4, frame.Height)
}
