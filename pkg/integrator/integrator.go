package integrator

import (
	"github.com/df07/go-stochastic-raytracer/pkg/core"
	"github.com/df07/go-stochastic-raytracer/pkg/geometry"
)

// ShadowAcneEpsilon is the minimum ray parameter accepted for a hit, so a
// scattered ray does not re-intersect the surface it leaves from.
const ShadowAcneEpsilon = 0.001

// Integrator defines the interface for light transport algorithms
type Integrator interface {
	// RayColor computes the linear radiance carried back along ray.
	// depth is the remaining bounce budget; sampler is owned by the caller's goroutine.
	RayColor(ray core.Ray, world geometry.Shape, depth int, sampler core.Sampler) core.Color
}
