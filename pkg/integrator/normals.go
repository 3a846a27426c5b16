package integrator

import (
	"math"

	"github.com/df07/go-stochastic-raytracer/pkg/core"
	"github.com/df07/go-stochastic-raytracer/pkg/geometry"
)

// NormalIntegrator shades the first hit by its surface normal mapped to [0,1]³.
// Misses show the sky. It never recurses, so depth only gates the query.
type NormalIntegrator struct {
	Sky SkyGradient
}

// NewNormalIntegrator creates a normal visualisation integrator
func NewNormalIntegrator(sky SkyGradient) *NormalIntegrator {
	return &NormalIntegrator{Sky: sky}
}

// RayColor returns 0.5·(n+1) for the closest hit
func (ni *NormalIntegrator) RayColor(ray core.Ray, world geometry.Shape, depth int, sampler core.Sampler) core.Color {
	if depth <= 0 {
		return core.Zero
	}

	hit, isHit := world.Hit(ray, ShadowAcneEpsilon, math.Inf(1))
	if !isHit {
		return ni.Sky.Color(ray)
	}
	return hit.Normal.Add(core.One).Multiply(0.5)
}
