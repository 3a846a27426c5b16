package scene

import (
	"github.com/df07/go-stochastic-raytracer/pkg/core"
	"github.com/df07/go-stochastic-raytracer/pkg/geometry"
	"github.com/df07/go-stochastic-raytracer/pkg/integrator"
	"github.com/df07/go-stochastic-raytracer/pkg/material"
	"github.com/df07/go-stochastic-raytracer/pkg/renderer"
)

// NewDefaultScene creates a default scene with a diffuse, a glass and a metal sphere on a ground
func NewDefaultScene(cameraOverrides ...renderer.CameraConfig) *Scene {
	// Default camera configuration
	defaultCameraConfig := renderer.CameraConfig{
		Center:        core.NewVec3(3, 3, 2),  // Above and to the right of the spheres
		LookAt:        core.NewVec3(0, 0, -1), // Look at the center sphere
		Up:            core.NewVec3(0, 1, 0),  // Standard up direction
		AspectRatio:   16.0 / 9.0,
		VFov:          20.0,
		Aperture:      0.1, // Slight depth of field
		FocusDistance: 0.0, // Focus on the center sphere
	}

	// Apply any overrides using the reusable merge function
	cameraConfig := defaultCameraConfig
	if len(cameraOverrides) > 0 {
		cameraConfig = renderer.MergeCameraConfig(defaultCameraConfig, cameraOverrides[0])
	}

	// Create materials
	lambertianGround := material.NewLambertian(core.NewVec3(0.8, 0.8, 0.0))
	lambertianBlue := material.NewLambertian(core.NewVec3(0.1, 0.2, 0.5))
	glass := material.NewDielectric(material.Index(material.CrownGlass))
	metalGold := material.NewMetal(core.NewVec3(0.8, 0.6, 0.2), 0.0)

	world := geometry.NewList(
		NewGroundSphere(0, -0.5, -1, 100, lambertianGround),
		geometry.NewSphere(core.NewVec3(0, 0, -1), 0.5, lambertianBlue),
		geometry.NewSphere(core.NewVec3(-1, 0, -1), 0.5, glass),
		geometry.NewSphere(core.NewVec3(1, 0, -1), 0.5, metalGold),
	)

	return &Scene{
		Name:     "default",
		Camera:   cameraConfig,
		World:    world,
		Sampling: renderer.DefaultSamplingConfig(),
		Sky:      integrator.DefaultSky(),
	}
}
