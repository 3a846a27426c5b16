package scene

import (
	"math"

	"github.com/df07/go-stochastic-raytracer/pkg/core"
	"github.com/df07/go-stochastic-raytracer/pkg/geometry"
	"github.com/df07/go-stochastic-raytracer/pkg/integrator"
	"github.com/df07/go-stochastic-raytracer/pkg/material"
	"github.com/df07/go-stochastic-raytracer/pkg/renderer"
)

// oklchToRGB converts OKLCH color values to linear RGB
// L: lightness (0-1), C: chroma (0-0.4+), H: hue (0-360 degrees)
func oklchToRGB(l, c, h float64) core.Color {
	hRad := h * math.Pi / 180.0

	// OKLCH to OKLAB
	a := c * math.Cos(hRad)
	b := c * math.Sin(hRad)

	// OKLAB to cone responses
	lCone := l + 0.3963377774*a + 0.2158037573*b
	mCone := l - 0.1055613458*a - 0.0638541728*b
	sCone := l - 0.0894841775*a - 1.2914855480*b

	lCone = lCone * lCone * lCone
	mCone = mCone * mCone * mCone
	sCone = sCone * sCone * sCone

	r := +4.0767416621*lCone - 3.3077115913*mCone + 0.2309699292*sCone
	g := -1.2684380046*lCone + 2.6097574011*mCone - 0.3413193965*sCone
	blue := -0.0041960863*lCone - 0.7034186147*mCone + 1.7076147010*sCone

	return core.NewVec3(r, g, blue).Clamp(0, 1)
}

// NewSphereGridScene creates a grid of metal spheres whose hue varies along x
// and whose saturation and fuzz vary along z
func NewSphereGridScene(gridSize int, cameraOverrides ...renderer.CameraConfig) *Scene {
	defaultCameraConfig := renderer.CameraConfig{
		Center:      core.NewVec3(4.5, 6, 18), // Behind and above the grid
		LookAt:      core.NewVec3(4.5, 0.8, 4.5),
		Up:          core.NewVec3(0, 1, 0),
		AspectRatio: 16.0 / 9.0,
		VFov:        40.0,
		Aperture:    0.02,
	}

	cameraConfig := defaultCameraConfig
	if len(cameraOverrides) > 0 {
		cameraConfig = renderer.MergeCameraConfig(defaultCameraConfig, cameraOverrides[0])
	}

	world := geometry.NewList(
		NewGroundSphere(4.5, 0, 4.5, 1000, material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5))),
	)

	// Fit the grid into a fixed 9x9 area
	targetArea := 9.0
	spacing := targetArea / float64(max(gridSize-1, 1))
	sphereRadius := math.Max(0.02, math.Min(0.35, spacing*0.35))

	// OKLCH parameters for color variation
	baseLightness := 0.65
	minChroma := 0.05
	maxChroma := 0.25

	for i := 0; i < gridSize; i++ {
		for j := 0; j < gridSize; j++ {
			x := float64(i)*spacing - targetArea/2.0 + 4.5
			z := float64(j)*spacing - targetArea/2.0 + 4.5
			position := core.NewVec3(x, sphereRadius, z)

			across := float64(i) / float64(max(gridSize-1, 1))
			deep := float64(j) / float64(max(gridSize-1, 1))

			hue := across * 360.0
			chroma := minChroma + deep*(maxChroma-minChroma)
			fuzz := 0.3 * (1.0 - deep)

			metal := material.NewMetal(oklchToRGB(baseLightness, chroma, hue), fuzz)
			world.Add(geometry.NewSphere(position, sphereRadius, metal))
		}
	}

	return &Scene{
		Name:     "sphere-grid",
		Camera:   cameraConfig,
		World:    world,
		Sampling: renderer.SamplingConfig{SamplesPerPixel: 100, MaxDepth: 40},
		Sky:      integrator.DefaultSky(),
	}
}
