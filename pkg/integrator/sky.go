package integrator

import (
	"github.com/df07/go-stochastic-raytracer/pkg/core"
)

// SkyGradient is the environment seen by rays that escape the scene.
// It blends vertically from Bottom (looking straight down) to Top (looking straight up).
type SkyGradient struct {
	Bottom core.Color
	Top    core.Color
}

// DefaultSky returns the white-to-sky-blue gradient
func DefaultSky() SkyGradient {
	return SkyGradient{
		Bottom: core.NewVec3(1.0, 1.0, 1.0),
		Top:    core.NewVec3(0.5, 0.7, 1.0),
	}
}

// Color returns the sky color seen along the ray direction
func (s SkyGradient) Color(ray core.Ray) core.Color {
	unitDirection := ray.Direction.Normalize()
	t := 0.5 * (unitDirection.Y + 1.0) // Map Y from [-1,1] to [0,1]
	return s.Bottom.Lerp(s.Top, t)
}
