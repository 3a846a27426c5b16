package material

import (
	"math"

	"github.com/df07/go-stochastic-raytracer/pkg/core"
)

// Dielectric represents a transparent material like glass that can both reflect and refract.
// The medium on the other side of the surface is always taken to be vacuum.
type Dielectric struct {
	Index RefractiveIndex // Index of refraction of the medium
}

// NewDielectric creates a new dielectric material
func NewDielectric(index RefractiveIndex) *Dielectric {
	return &Dielectric{Index: index}
}

// Scatter implements the Material interface for dielectric scattering
func (d *Dielectric) Scatter(rayIn core.Ray, hit HitRecord, sampler core.Sampler) (ScatterResult, bool) {
	ior := d.Index.Value()

	// Determine if we're entering or exiting the material
	refractionRatio := ior // Ray is exiting the material (from glass to vacuum)
	if hit.FrontFace {
		refractionRatio = 1.0 / ior // Ray is entering the material (from vacuum to glass)
	}

	unitDirection := rayIn.Direction.Normalize()
	cosTheta := math.Min(unitDirection.Negate().Dot(hit.Normal), 1.0)
	sinTheta := math.Sqrt(1.0 - cosTheta*cosTheta)

	// Check for total internal reflection
	cannotRefract := refractionRatio*sinTheta > 1.0

	var direction core.Vec3
	if cannotRefract || Reflectance(cosTheta, refractionRatio) > sampler.Get1D() {
		direction = unitDirection.Reflect(hit.Normal)
	} else {
		direction = unitDirection.Refract(hit.Normal, refractionRatio)
	}

	return ScatterResult{
		Scattered:   core.NewRay(hit.Point, direction),
		Attenuation: core.One, // Clear glass absorbs nothing
	}, true
}

// Reflectance calculates the Fresnel reflectance using Schlick's approximation.
// r0 is symmetric in ratio and 1/ratio, so either form of the index ratio may be passed.
func Reflectance(cosine, refractionRatio float64) float64 {
	r0 := (1 - refractionRatio) / (1 + refractionRatio)
	r0 = r0 * r0
	return r0 + (1-r0)*math.Pow(1-cosine, 5)
}
