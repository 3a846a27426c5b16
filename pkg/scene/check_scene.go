package scene

import (
	"github.com/df07/go-stochastic-raytracer/pkg/core"
	"github.com/df07/go-stochastic-raytracer/pkg/geometry"
	"github.com/df07/go-stochastic-raytracer/pkg/integrator"
	"github.com/df07/go-stochastic-raytracer/pkg/material"
	"github.com/df07/go-stochastic-raytracer/pkg/renderer"
)

// NewCheckScene creates the smallest meaningful scene: one diffuse sphere
// in front of a pinhole camera at the origin, lit only by the sky.
func NewCheckScene() *Scene {
	return &Scene{
		Name: "check",
		Camera: renderer.CameraConfig{
			Center:      core.NewVec3(0, 0, 0),
			LookAt:      core.NewVec3(0, 0, -1),
			Up:          core.NewVec3(0, 1, 0),
			AspectRatio: 16.0 / 9.0,
			VFov:        90.0,
		},
		World: geometry.NewList(
			geometry.NewSphere(core.NewVec3(0, 0, -1), 0.5, material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5))),
		),
		Sampling: renderer.SamplingConfig{SamplesPerPixel: 16, MaxDepth: 10},
		Sky:      integrator.DefaultSky(),
	}
}
