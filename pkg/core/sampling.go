package core

import (
	"encoding/binary"
	"math/rand"

	"github.com/cespare/xxhash/v2"
)

// Sampler provides random sampling for rendering algorithms
// Can be swapped out for deterministic testing or different sampling patterns.
// A sampler is not safe for concurrent use; each goroutine owns its own.
type Sampler interface {
	Get1D() float64
	Get2D() Vec2
	Get3D() Vec3
}

// RandomSampler wraps a standard Go random generator
type RandomSampler struct {
	random *rand.Rand
}

// NewRandomSampler creates a sampler from a Go random generator
func NewRandomSampler(random *rand.Rand) *RandomSampler {
	return &RandomSampler{random: random}
}

// NewSeededSampler creates a sampler with its own generator seeded with seed
func NewSeededSampler(seed int64) *RandomSampler {
	return NewRandomSampler(rand.New(rand.NewSource(seed)))
}

// Get1D returns a random float64 in [0, 1)
func (r *RandomSampler) Get1D() float64 {
	return r.random.Float64()
}

// Get2D returns two random float64 values in [0, 1)
func (r *RandomSampler) Get2D() Vec2 {
	x := r.random.Float64()
	y := r.random.Float64()
	return NewVec2(x, y)
}

// Get3D returns three random float64 values in [0, 1)
func (r *RandomSampler) Get3D() Vec3 {
	x := r.random.Float64()
	y := r.random.Float64()
	z := r.random.Float64()
	return NewVec3(x, y, z)
}

// PixelSeed derives the seed of the random stream owned by pixel (x, y).
// Streams for different pixels are independent, so pixels can be rendered in any order.
func PixelSeed(base int64, x, y int) int64 {
	var buf [24]byte
	binary.LittleEndian.PutUint64(buf[0:], uint64(base))
	binary.LittleEndian.PutUint64(buf[8:], uint64(x))
	binary.LittleEndian.PutUint64(buf[16:], uint64(y))
	return int64(xxhash.Sum64(buf[:]))
}

// NewPixelSampler returns the sampler for pixel (x, y) of a render seeded with base
func NewPixelSampler(base int64, x, y int) *RandomSampler {
	return NewSeededSampler(PixelSeed(base, x, y))
}

// RandomVec3 returns a vector whose components are independent uniforms in [lo, hi)
func RandomVec3(sampler Sampler, lo, hi float64) Vec3 {
	u := sampler.Get3D()
	span := hi - lo
	return NewVec3(lo+span*u.X, lo+span*u.Y, lo+span*u.Z)
}

// RandomInUnitSphere generates a random point inside the unit sphere by rejection sampling
func RandomInUnitSphere(sampler Sampler) Vec3 {
	for {
		// Generate random point in [-1,1]³ cube
		p := RandomVec3(sampler, -1, 1)
		// Accept if inside unit sphere
		if p.LengthSquared() <= 1.0 {
			return p
		}
	}
}

// RandomUnitVector generates a random direction on the unit sphere
func RandomUnitVector(sampler Sampler) Vec3 {
	return RandomInUnitSphere(sampler).Normalize()
}

// RandomInUnitDisk generates a random point in the unit disk (for depth of field)
func RandomInUnitDisk(sampler Sampler) Vec3 {
	for {
		// Generate random point in [-1,1] x [-1,1] square
		u := sampler.Get2D()
		p := NewVec3(2*u.X-1, 2*u.Y-1, 0)
		// Accept if strictly inside unit disk
		if p.LengthSquared() < 1.0 {
			return p
		}
	}
}
