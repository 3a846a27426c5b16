package integrator

import (
	"math"

	"github.com/df07/go-stochastic-raytracer/pkg/core"
	"github.com/df07/go-stochastic-raytracer/pkg/geometry"
)

// PathTracingIntegrator implements recursive unidirectional path tracing.
// The only light source is the sky; materials attenuate it along each path.
type PathTracingIntegrator struct {
	Sky SkyGradient
}

// NewPathTracingIntegrator creates a new path tracing integrator
func NewPathTracingIntegrator(sky SkyGradient) *PathTracingIntegrator {
	return &PathTracingIntegrator{Sky: sky}
}

// RayColor computes the color for a single ray using unidirectional path tracing
func (pt *PathTracingIntegrator) RayColor(ray core.Ray, world geometry.Shape, depth int, sampler core.Sampler) core.Color {
	// If we've exceeded the ray bounce limit, no more light is gathered
	if depth <= 0 {
		return core.Zero
	}

	hit, isHit := world.Hit(ray, ShadowAcneEpsilon, math.Inf(1))
	if !isHit {
		return pt.Sky.Color(ray)
	}

	scatter, didScatter := hit.Material.Scatter(ray, *hit, sampler)
	if !didScatter {
		return core.Zero // Material absorbed the ray
	}

	return scatter.Attenuation.MultiplyVec(
		pt.RayColor(scatter.Scattered, world, depth-1, sampler))
}
