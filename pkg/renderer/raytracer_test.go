package renderer

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/df07/go-stochastic-raytracer/pkg/core"
	"github.com/df07/go-stochastic-raytracer/pkg/geometry"
	"github.com/df07/go-stochastic-raytracer/pkg/integrator"
	"github.com/df07/go-stochastic-raytracer/pkg/material"
)

// newTestRaytracer builds a sphere resting on a large ground sphere
func newTestRaytracer(width, height int) *Raytracer {
	world := geometry.NewList(
		geometry.NewSphere(core.NewVec3(0, 0, -1), 0.5, material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5))),
		geometry.NewSphere(core.NewVec3(0, -100.5, -1), 100, material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5))),
	)
	camera := NewCamera(CameraConfig{
		Center:      core.NewVec3(0, 0, 0),
		LookAt:      core.NewVec3(0, 0, -1),
		Up:          core.NewVec3(0, 1, 0),
		VFov:        90,
		AspectRatio: float64(width) / float64(height),
	})

	rt := NewRaytracer(world, camera, integrator.NewPathTracingIntegrator(integrator.DefaultSky()), width, height)
	rt.SetSamplingConfig(SamplingConfig{SamplesPerPixel: 8, MaxDepth: 10})
	return rt
}

// emptyWorld never reports a hit
type emptyWorld struct{}

func (emptyWorld) Hit(ray core.Ray, tMin, tMax float64) (*material.HitRecord, bool) {
	return nil, false
}

func TestRaytracer_SphereDarkerThanSky(t *testing.T) {
	rt := newTestRaytracer(32, 16)
	frame, _, err := rt.Render(context.Background())
	require.NoError(t, err)

	center := frame.At(16, 8)
	corner := frame.At(0, 0)
	centerSum := int(center[0]) + int(center[1]) + int(center[2])
	cornerSum := int(corner[0]) + int(corner[1]) + int(corner[2])

	if centerSum >= cornerSum {
		t.Errorf("Expected sphere pixel %v to be darker than sky pixel %v", center, corner)
	}
	// Sky is bluer than it is red
	assert.Greater(t, corner[2], corner[0])
}

func TestRaytracer_SkyOnlyFrame(t *testing.T) {
	camera := NewCamera(CameraConfig{
		Center:      core.NewVec3(0, 0, 0),
		LookAt:      core.NewVec3(0, 0, -1),
		Up:          core.NewVec3(0, 1, 0),
		VFov:        90,
		AspectRatio: 2,
	})
	rt := NewRaytracer(emptyWorld{}, camera, integrator.NewPathTracingIntegrator(integrator.DefaultSky()), 8, 4)
	rt.SetSamplingConfig(SamplingConfig{SamplesPerPixel: 4, MaxDepth: 5})

	frame, _, err := rt.Render(context.Background())
	require.NoError(t, err)

	// The gradient gets bluer toward the top of the image
	top := frame.At(4, 0)
	bottom := frame.At(4, 3)
	assert.Less(t, top[0], bottom[0])
	assert.GreaterOrEqual(t, top[2], uint8(254))
	assert.GreaterOrEqual(t, bottom[2], uint8(254))
}

func TestRaytracer_Deterministic(t *testing.T) {
	first, _, err := newTestRaytracer(16, 8).Render(context.Background())
	require.NoError(t, err)
	second, _, err := newTestRaytracer(16, 8).Render(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first.Pix, second.Pix, "same seed must give identical frames")
}

func TestRaytracer_SeedChangesImage(t *testing.T) {
	a := newTestRaytracer(16, 8)
	b := newTestRaytracer(16, 8)
	options := DefaultOptions()
	options.Seed = 7
	b.SetOptions(options)

	first, _, err := a.Render(context.Background())
	require.NoError(t, err)
	second, _, err := b.Render(context.Background())
	require.NoError(t, err)

	assert.NotEqual(t, first.Pix, second.Pix)
}

func TestRaytracer_WorkerCountIndependent(t *testing.T) {
	var frames []*Frame
	for _, workers := range []int{1, 3, 8} {
		rt := newTestRaytracer(16, 8)
		options := DefaultOptions()
		options.Workers = workers
		rt.SetOptions(options)

		frame, _, err := rt.Render(context.Background())
		require.NoError(t, err)
		frames = append(frames, frame)
	}

	for i := 1; i < len(frames); i++ {
		assert.Equal(t, frames[0].Pix, frames[i].Pix, "frame %d differs from the single-worker frame", i)
	}
}

func TestRaytracer_RenderPixelMatchesFrame(t *testing.T) {
	rt := newTestRaytracer(12, 6)
	frame, _, err := rt.Render(context.Background())
	require.NoError(t, err)

	for _, p := range [][2]int{{0, 0}, {5, 3}, {11, 5}} {
		assert.Equal(t, frame.At(p[0], p[1]), rt.RenderPixel(p[0], p[1]), "pixel %v", p)
	}
}

func TestRaytracer_SinglePixelImage(t *testing.T) {
	rt := newTestRaytracer(1, 1)
	frame, stats, err := rt.Render(context.Background())
	require.NoError(t, err)
	assert.Len(t, frame.Pix, 3)
	assert.Equal(t, 1, stats.TotalPixels)
	assert.Equal(t, 8, stats.TotalSamples)
}

func TestRaytracer_Progress(t *testing.T) {
	rt := newTestRaytracer(8, 6)
	var reports []int
	options := DefaultOptions()
	options.Workers = 4
	options.Progress = func(remaining int) {
		reports = append(reports, remaining)
	}
	rt.SetOptions(options)

	_, _, err := rt.Render(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []int{5, 4, 3, 2, 1, 0}, reports)
}

func TestRaytracer_Cancelled(t *testing.T) {
	rt := newTestRaytracer(16, 8)
	var reports []int
	options := DefaultOptions()
	options.Progress = func(remaining int) {
		reports = append(reports, remaining)
	}
	rt.SetOptions(options)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	frame, stats, err := rt.Render(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, frame)
	assert.Equal(t, 0, stats.TotalSamples)
	assert.Empty(t, reports)
}

func TestRaytracer_CancelAfterLastRowKeepsFrame(t *testing.T) {
	rt := newTestRaytracer(8, 4)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	options := DefaultOptions()
	options.Progress = func(remaining int) {
		if remaining == 0 {
			cancel()
		}
	}
	rt.SetOptions(options)

	frame, stats, err := rt.Render(ctx)
	require.NoError(t, err)
	require.NotNil(t, frame)
	assert.Equal(t, 8*4*8, stats.TotalSamples)

	reference, _, err := newTestRaytracer(8, 4).Render(context.Background())
	require.NoError(t, err)
	assert.Equal(t, reference.Pix, frame.Pix)
}

func TestRaytracer_Stats(t *testing.T) {
	rt := newTestRaytracer(10, 4)
	_, stats, err := rt.Render(context.Background())
	require.NoError(t, err)

	assert.NotEmpty(t, stats.RenderID)
	assert.Equal(t, 40, stats.TotalPixels)
	assert.Equal(t, 40*8, stats.TotalSamples)
	assert.Greater(t, stats.MeanLuminance, 0.0)
	assert.Greater(t, stats.LuminanceStdDev, 0.0)
}

func TestRaytracer_Logging(t *testing.T) {
	var buf bytes.Buffer
	rt := newTestRaytracer(4, 2)
	options := DefaultOptions()
	options.Logger = zerolog.New(&buf)
	rt.SetOptions(options)

	_, stats, err := rt.Render(context.Background())
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "render started")
	assert.Contains(t, output, "render complete")
	assert.Contains(t, output, stats.RenderID)
}
