package renderer

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/df07/go-stochastic-raytracer/pkg/core"
	"github.com/df07/go-stochastic-raytracer/pkg/geometry"
	"github.com/df07/go-stochastic-raytracer/pkg/integrator"
)

// SamplingConfig contains rendering configuration
type SamplingConfig struct {
	SamplesPerPixel int // Number of rays per pixel
	MaxDepth        int // Maximum ray bounce depth
}

// DefaultSamplingConfig returns sensible default values
func DefaultSamplingConfig() SamplingConfig {
	return SamplingConfig{
		SamplesPerPixel: 100,
		MaxDepth:        50,
	}
}

// Options controls how a render is executed. None of them change the image.
type Options struct {
	Workers  int            // Number of parallel workers (0 = use CPU count)
	Seed     int64          // Base seed of the per-pixel random streams
	Logger   zerolog.Logger // Zero value discards all output
	Progress ProgressFunc   // Optional scanline progress callback
}

// DefaultOptions returns sensible default values
func DefaultOptions() Options {
	return Options{
		Workers: 0,
		Seed:    42,
		Logger:  zerolog.Nop(),
	}
}

// Raytracer renders a world through a camera with a light transport integrator
type Raytracer struct {
	world      geometry.Shape
	camera     *Camera
	integrator integrator.Integrator
	width      int
	height     int
	config     SamplingConfig
	options    Options
}

// NewRaytracer creates a new raytracer
func NewRaytracer(world geometry.Shape, camera *Camera, integ integrator.Integrator, width, height int) *Raytracer {
	return &Raytracer{
		world:      world,
		camera:     camera,
		integrator: integ,
		width:      width,
		height:     height,
		config:     DefaultSamplingConfig(),
		options:    DefaultOptions(),
	}
}

// SetSamplingConfig updates the sampling configuration
func (rt *Raytracer) SetSamplingConfig(config SamplingConfig) {
	rt.config = config
}

// SetOptions updates the execution options
func (rt *Raytracer) SetOptions(options Options) {
	rt.options = options
}

// Size returns the image dimensions
func (rt *Raytracer) Size() (width, height int) {
	return rt.width, rt.height
}

// SamplePixel averages SamplesPerPixel jittered samples of pixel (x, y).
// Row 0 is the top of the image while camera t=0 is the bottom, hence the flip.
func (rt *Raytracer) SamplePixel(x, y int, sampler core.Sampler) core.Color {
	// Guard single-pixel dimensions against dividing by zero
	sDenominator := float64(max(rt.width-1, 1))
	tDenominator := float64(max(rt.height-1, 1))

	var colorAccum core.Color
	for sample := 0; sample < rt.config.SamplesPerPixel; sample++ {
		jitter := sampler.Get2D()
		s := (float64(x) + jitter.X) / sDenominator
		t := 1.0 - (float64(y)+jitter.Y)/tDenominator

		ray := rt.camera.GetRay(s, t, sampler)
		colorAccum.AddAssign(rt.integrator.RayColor(ray, rt.world, rt.config.MaxDepth, sampler))
	}

	return colorAccum.Divide(float64(rt.config.SamplesPerPixel))
}

// RenderPixel renders pixel (x, y) with its own random stream and returns display bytes
func (rt *Raytracer) RenderPixel(x, y int) [3]uint8 {
	return toDisplay(rt.samplePixelSeeded(x, y))
}

// samplePixelSeeded samples a pixel with the stream derived from the render seed
func (rt *Raytracer) samplePixelSeeded(x, y int) core.Color {
	return rt.SamplePixel(x, y, core.NewPixelSampler(rt.options.Seed, x, y))
}

// toDisplay applies gamma 2 correction and quantizes to 8 bits
func toDisplay(linear core.Color) [3]uint8 {
	return linear.Sqrt().ToRGB8()
}

// renderRow renders scanline y into the frame and the linear color buffer
func (rt *Raytracer) renderRow(y int, frame *Frame, linear []core.Color) int {
	for x := 0; x < rt.width; x++ {
		color := rt.samplePixelSeeded(x, y)
		linear[y*rt.width+x] = color
		frame.Set(x, y, toDisplay(color))
	}
	return rt.width * rt.config.SamplesPerPixel
}

// Render renders every pixel and returns the finished frame.
// The result depends only on the scene, the sampling config and the seed.
// If ctx is cancelled, rows not yet started are skipped and ctx.Err() is returned
// unless every row had already been rendered.
func (rt *Raytracer) Render(ctx context.Context) (*Frame, RenderStats, error) {
	renderID := uuid.NewString()
	logger := rt.options.Logger.With().Str("render_id", renderID).Logger()
	startTime := time.Now()

	frame := NewFrame(rt.width, rt.height)
	linear := make([]core.Color, rt.width*rt.height)

	pool := NewWorkerPool(rt, frame, linear, rt.options.Workers)
	progress := newProgressTracker(rt.height, rt.options.Progress, logger)

	logger.Info().
		Int("width", rt.width).
		Int("height", rt.height).
		Int("samples_per_pixel", rt.config.SamplesPerPixel).
		Int("max_depth", rt.config.MaxDepth).
		Int("workers", pool.GetNumWorkers()).
		Int64("seed", rt.options.Seed).
		Msg("render started")

	pool.Start(ctx)
	for y := 0; y < rt.height; y++ {
		pool.SubmitTask(RowTask{Y: y})
	}

	stats := RenderStats{
		RenderID:    renderID,
		TotalPixels: rt.width * rt.height,
	}

	skipped := 0
	for i := 0; i < rt.height; i++ {
		result, ok := pool.GetResult()
		if !ok {
			break
		}
		if result.Skipped {
			skipped++
			continue
		}
		stats.TotalSamples += result.Samples
		progress.rowDone()
	}
	pool.Stop()

	stats.Duration = time.Since(startTime)

	// A cancel that arrives after the last row still leaves a complete frame
	if err := ctx.Err(); err != nil && skipped > 0 {
		logger.Warn().
			Err(err).
			Int("remaining", progress.Remaining()).
			Msg("render cancelled")
		return nil, stats, err
	}

	stats.MeanLuminance, stats.LuminanceStdDev = luminanceStats(linear)

	logger.Info().
		Dur("duration", stats.Duration).
		Int("samples", stats.TotalSamples).
		Float64("mean_luminance", stats.MeanLuminance).
		Msg("render complete")

	return frame, stats, nil
}
