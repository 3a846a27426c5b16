package scene

import (
	"github.com/df07/go-stochastic-raytracer/pkg/core"
	"github.com/df07/go-stochastic-raytracer/pkg/geometry"
	"github.com/df07/go-stochastic-raytracer/pkg/integrator"
	"github.com/df07/go-stochastic-raytracer/pkg/material"
	"github.com/df07/go-stochastic-raytracer/pkg/renderer"
)

// Scene contains all the elements needed for rendering
type Scene struct {
	Name     string
	Camera   renderer.CameraConfig
	World    *geometry.List
	Sampling renderer.SamplingConfig
	Sky      integrator.SkyGradient
}

// Height returns the image height that matches the camera aspect ratio for the given width
func (s *Scene) Height(width int) int {
	if s.Camera.AspectRatio <= 0 {
		return width
	}
	return max(int(float64(width)/s.Camera.AspectRatio), 1)
}

// NewRaytracer builds a raytracer for the scene at the given image width
func (s *Scene) NewRaytracer(width int, integ integrator.Integrator) *renderer.Raytracer {
	height := s.Height(width)

	// The camera must see the same aspect ratio as the image, even after rounding
	cameraConfig := s.Camera
	cameraConfig.AspectRatio = float64(width) / float64(height)

	rt := renderer.NewRaytracer(s.World, renderer.NewCamera(cameraConfig), integ, width, height)
	rt.SetSamplingConfig(s.Sampling)
	return rt
}

// NewGroundSphere creates a huge sphere whose top touches y = level under (x, z)
func NewGroundSphere(x, level, z, radius float64, mat material.Material) *geometry.Sphere {
	return geometry.NewSphere(core.NewVec3(x, level-radius, z), radius, mat)
}
