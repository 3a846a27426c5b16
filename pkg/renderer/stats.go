package renderer

import (
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/df07/go-stochastic-raytracer/pkg/core"
)

// RenderStats contains statistics about the rendering process
type RenderStats struct {
	RenderID        string        // Identifier attached to every log line of the render
	TotalPixels     int           // Total number of pixels rendered
	TotalSamples    int           // Total number of camera rays traced
	Duration        time.Duration // Wall time of the render
	MeanLuminance   float64       // Mean linear luminance over all pixels
	LuminanceStdDev float64       // Standard deviation of the linear luminance
}

// SamplesPerSecond returns the camera ray throughput
func (s RenderStats) SamplesPerSecond() float64 {
	if s.Duration <= 0 {
		return 0
	}
	return float64(s.TotalSamples) / s.Duration.Seconds()
}

// luminanceStats returns the mean and standard deviation of the colors' luminance
func luminanceStats(colors []core.Color) (mean, stdDev float64) {
	if len(colors) == 0 {
		return 0, 0
	}

	luminance := make([]float64, len(colors))
	for i, c := range colors {
		luminance[i] = c.Luminance()
	}

	if len(luminance) == 1 {
		return luminance[0], 0
	}
	return stat.MeanStdDev(luminance, nil)
}
