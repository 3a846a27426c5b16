package material

import (
	"github.com/df07/go-stochastic-raytracer/pkg/core"
)

// fixedSampler replays a fixed list of values, cycling when exhausted
type fixedSampler struct {
	values []float64
	next   int
}

func newFixedSampler(values ...float64) *fixedSampler {
	return &fixedSampler{values: values}
}

func (s *fixedSampler) Get1D() float64 {
	v := s.values[s.next%len(s.values)]
	s.next++
	return v
}

func (s *fixedSampler) Get2D() core.Vec2 {
	x := s.Get1D()
	return core.NewVec2(x, s.Get1D())
}

func (s *fixedSampler) Get3D() core.Vec3 {
	x := s.Get1D()
	y := s.Get1D()
	return core.NewVec3(x, y, s.Get1D())
}

// frontHit builds a hit record at the origin for a ray travelling along dir,
// with the geometric outward normal given.
func frontHit(dir, outward core.Vec3, m Material) (core.Ray, HitRecord) {
	ray := core.NewRay(dir.Negate(), dir)
	hit := HitRecord{Point: core.NewVec3(0, 0, 0), T: 1, Material: m}
	hit.SetFaceNormal(ray, outward)
	return ray, hit
}
