package scene

import (
	"github.com/samber/lo"

	"github.com/df07/go-stochastic-raytracer/pkg/core"
	"github.com/df07/go-stochastic-raytracer/pkg/geometry"
	"github.com/df07/go-stochastic-raytracer/pkg/integrator"
	"github.com/df07/go-stochastic-raytracer/pkg/material"
	"github.com/df07/go-stochastic-raytracer/pkg/renderer"
)

const (
	randomGridMin = -11
	randomGridMax = 11 // exclusive
)

// NewRandomScene creates the classic cover scene: a field of small random
// spheres around three large feature spheres. The layout depends only on seed.
func NewRandomScene(seed int64, cameraOverrides ...renderer.CameraConfig) *Scene {
	defaultCameraConfig := renderer.CameraConfig{
		Center:        core.NewVec3(13, 2, 3),
		LookAt:        core.NewVec3(0, 0, 0),
		Up:            core.NewVec3(0, 1, 0),
		AspectRatio:   3.0 / 2.0,
		VFov:          20.0,
		Aperture:      0.1,
		FocusDistance: 10.0,
	}

	cameraConfig := defaultCameraConfig
	if len(cameraOverrides) > 0 {
		cameraConfig = renderer.MergeCameraConfig(defaultCameraConfig, cameraOverrides[0])
	}

	sampler := core.NewSeededSampler(seed)

	ground := material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5))
	glass := material.NewDielectric(material.CustomIndex(1.5))
	featureClearance := core.NewVec3(4, 0.2, 0)

	cells := lo.FlatMap(lo.Range(randomGridMax-randomGridMin), func(i int, _ int) []core.Vec2 {
		return lo.Times(randomGridMax-randomGridMin, func(j int) core.Vec2 {
			return core.NewVec2(float64(randomGridMin+i), float64(randomGridMin+j))
		})
	})

	world := geometry.NewList(NewGroundSphere(0, 0, 0, 1000, ground))

	for _, cell := range cells {
		chooseMaterial := sampler.Get1D()
		jitter := sampler.Get2D()
		center := core.NewVec3(cell.X+0.9*jitter.X, 0.2, cell.Y+0.9*jitter.Y)

		// Keep the small spheres out of the large metal one
		if center.Subtract(featureClearance).Length() <= 0.9 {
			continue
		}

		var mat material.Material
		switch {
		case chooseMaterial < 0.8:
			albedo := core.RandomVec3(sampler, 0, 1).MultiplyVec(core.RandomVec3(sampler, 0, 1))
			mat = material.NewLambertian(albedo)
		case chooseMaterial < 0.95:
			albedo := core.RandomVec3(sampler, 0.5, 1)
			fuzz := 0.5 * sampler.Get1D()
			mat = material.NewMetal(albedo, fuzz)
		default:
			mat = glass
		}

		world.Add(geometry.NewSphere(center, 0.2, mat))
	}

	world.Add(
		geometry.NewSphere(core.NewVec3(0, 1, 0), 1.0, glass),
		geometry.NewSphere(core.NewVec3(-4, 1, 0), 1.0, material.NewLambertian(core.NewVec3(0.4, 0.2, 0.1))),
		geometry.NewSphere(core.NewVec3(4, 1, 0), 1.0, material.NewMetal(core.NewVec3(0.7, 0.6, 0.5), 0.0)),
	)

	return &Scene{
		Name:     "random",
		Camera:   cameraConfig,
		World:    world,
		Sampling: renderer.SamplingConfig{SamplesPerPixel: 100, MaxDepth: 50},
		Sky:      integrator.DefaultSky(),
	}
}
