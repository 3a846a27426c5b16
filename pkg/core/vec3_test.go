package core

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tolerance = 1e-9

func vecNear(a, b Vec3, eps float64) bool {
	return a.Subtract(b).Length() <= eps
}

func TestVec3_Arithmetic(t *testing.T) {
	a := NewVec3(1, 2, 3)
	b := NewVec3(-4, 5, 0.5)

	assert.Equal(t, NewVec3(-3, 7, 3.5), a.Add(b))
	assert.Equal(t, NewVec3(5, -3, 2.5), a.Subtract(b))
	assert.Equal(t, NewVec3(2, 4, 6), a.Multiply(2))
	assert.Equal(t, NewVec3(0.5, 1, 1.5), a.Divide(2))
	assert.Equal(t, NewVec3(-1, -2, -3), a.Negate())
	assert.Equal(t, NewVec3(-4, 10, 1.5), a.MultiplyVec(b))
	assert.InDelta(t, 7.5, a.Dot(b), tolerance)
	assert.InDelta(t, 14.0, a.LengthSquared(), tolerance)
	assert.InDelta(t, math.Sqrt(14), a.Length(), tolerance)

	acc := a
	acc.AddAssign(b)
	acc.MultiplyAssign(2)
	assert.Equal(t, NewVec3(-6, 14, 7), acc)
}

func TestVec3_Cross(t *testing.T) {
	tests := []struct {
		name     string
		a, b     Vec3
		expected Vec3
	}{
		{"x cross y", NewVec3(1, 0, 0), NewVec3(0, 1, 0), NewVec3(0, 0, 1)},
		{"y cross z", NewVec3(0, 1, 0), NewVec3(0, 0, 1), NewVec3(1, 0, 0)},
		{"z cross x", NewVec3(0, 0, 1), NewVec3(1, 0, 0), NewVec3(0, 1, 0)},
		{"parallel", NewVec3(2, 2, 2), NewVec3(1, 1, 1), NewVec3(0, 0, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.a.Cross(tt.b)
			if !vecNear(result, tt.expected, tolerance) {
				t.Errorf("Expected %v, got %v", tt.expected, result)
			}
		})
	}
}

func TestVec3_NormalizeHasUnitLength(t *testing.T) {
	sampler := NewSeededSampler(7)
	for i := 0; i < 1000; i++ {
		v := RandomVec3(sampler, -100, 100)
		if v.NearZero() {
			continue
		}
		assert.InDelta(t, 1.0, v.Normalize().Length(), 1e-12)
	}
}

func TestVec3_NormalizeZeroIsNaN(t *testing.T) {
	n := Zero.Normalize()
	assert.True(t, math.IsNaN(n.X) && math.IsNaN(n.Y) && math.IsNaN(n.Z))
}

func TestVec3_NearZero(t *testing.T) {
	assert.True(t, NewVec3(1e-9, -1e-9, 0).NearZero())
	assert.False(t, NewVec3(1e-9, 2e-8, 0).NearZero())
	assert.False(t, NewVec3(0, 0, -1e-8).NearZero(), "threshold is strict")
}

func TestVec3_ToRGB8(t *testing.T) {
	tests := []struct {
		name     string
		color    Color
		expected [3]uint8
	}{
		{"black", NewVec3(0, 0, 0), [3]uint8{0, 0, 0}},
		{"white", NewVec3(1, 1, 1), [3]uint8{255, 255, 255}},
		{"clamped", NewVec3(-0.5, 1.5, 42), [3]uint8{0, 255, 255}},
		{"floors instead of rounding", NewVec3(0.999, 0.5, 0.0039), [3]uint8{254, 127, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.color.ToRGB8())
		})
	}
}

func TestVec3_SqrtGamma(t *testing.T) {
	assert.Equal(t, NewVec3(0.5, 0, 1), NewVec3(0.25, 0, 1).Sqrt())
}

func TestVec3_Reflect(t *testing.T) {
	n := NewVec3(0, 1, 0)
	v := NewVec3(1, -1, 0)
	r := v.Reflect(n)
	assert.True(t, vecNear(r, NewVec3(1, 1, 0), tolerance), "got %v", r)

	sampler := NewSeededSampler(11)
	for i := 0; i < 200; i++ {
		v := RandomVec3(sampler, -5, 5)
		normal := RandomUnitVector(sampler)
		assert.InDelta(t, v.Length(), v.Reflect(normal).Length(), 1e-9)
	}
}

func TestVec3_RefractIdentityRatio(t *testing.T) {
	n := NewVec3(0, 0, 1)
	v := NewVec3(0.3, -0.2, -1).Normalize()
	r := v.Refract(n, 1.0)
	assert.True(t, vecNear(r, v, 1e-12), "expected %v, got %v", v, r)
}

func TestVec3_RefractRoundTrip(t *testing.T) {
	// Entering glass and leaving it through a parallel face restores the direction
	n := NewVec3(0, 1, 0)
	sampler := NewSeededSampler(3)
	const ior = 1.5

	for i := 0; i < 200; i++ {
		dir := RandomUnitVector(sampler)
		if dir.Y >= -0.05 {
			dir = NewVec3(dir.X, -math.Abs(dir.Y)-0.05, dir.Z).Normalize()
		}

		inside := dir.Refract(n, 1.0/ior).Normalize()
		require.Less(t, inside.Dot(n), 0.0)

		// The exit face has the same orientation, so the ray meets it from the back side
		out := inside.Refract(n, ior)
		assert.True(t, vecNear(out, dir, 1e-9), "expected %v, got %v", dir, out)
	}
}

func TestVec3_RefractSnell(t *testing.T) {
	n := NewVec3(0, 1, 0)
	theta := 30.0 * math.Pi / 180
	v := NewVec3(math.Sin(theta), -math.Cos(theta), 0)
	r := v.Refract(n, 1.0/1.5)

	sinOut := r.X / r.Length()
	assert.InDelta(t, math.Sin(theta)/1.5, sinOut, 1e-12)
}

func TestVec3_Lerp(t *testing.T) {
	a := NewVec3(1, 1, 1)
	b := NewVec3(0.5, 0.7, 1.0)
	assert.Equal(t, a, a.Lerp(b, 0))
	assert.Equal(t, b, a.Lerp(b, 1))
	assert.True(t, vecNear(NewVec3(0.75, 0.85, 1.0), a.Lerp(b, 0.5), tolerance))
}

func TestRayAt(t *testing.T) {
	r := NewRay(NewVec3(1, 2, 3), NewVec3(0, 0, -2))
	assert.Equal(t, NewVec3(1, 2, 3), r.At(0))
	assert.Equal(t, NewVec3(1, 2, -1), r.At(2))
	assert.Equal(t, NewVec3(1, 2, 4), r.At(-0.5))
}
