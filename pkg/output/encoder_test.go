package output

import (
	"bytes"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"github.com/df07/go-stochastic-raytracer/pkg/renderer"
)

// testFrame returns a 3x2 frame with distinct pixels
func testFrame() *renderer.Frame {
	frame := renderer.NewFrame(3, 2)
	frame.Set(0, 0, [3]uint8{255, 0, 0})
	frame.Set(1, 0, [3]uint8{0, 255, 0})
	frame.Set(2, 0, [3]uint8{0, 0, 255})
	frame.Set(0, 1, [3]uint8{10, 20, 30})
	frame.Set(2, 1, [3]uint8{255, 255, 255})
	return frame
}

func TestPPMEncoder(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PPMEncoder{}.Encode(&buf, testFrame()))

	expected := strings.Join([]string{
		"P3",
		"3 2",
		"255",
		"255 0 0",
		"0 255 0",
		"0 0 255",
		"10 20 30",
		"0 0 0",
		"255 255 255",
	}, "\n") + "\n"
	assert.Equal(t, expected, buf.String())
}

func TestImageEncodersRoundTrip(t *testing.T) {
	tests := []struct {
		name    string
		encoder Encoder
		decode  func(io.Reader) (image.Image, error)
	}{
		{"png", PNGEncoder{}, png.Decode},
		{"bmp", BMPEncoder{}, bmp.Decode},
		{"tiff", TIFFEncoder{}, tiff.Decode},
	}

	frame := testFrame()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, tt.encoder.Encode(&buf, frame))

			img, err := tt.decode(&buf)
			require.NoError(t, err)
			require.Equal(t, frame.Width, img.Bounds().Dx())
			require.Equal(t, frame.Height, img.Bounds().Dy())

			for y := 0; y < frame.Height; y++ {
				for x := 0; x < frame.Width; x++ {
					r, g, b, _ := img.At(x, y).RGBA()
					got := [3]uint8{uint8(r >> 8), uint8(g >> 8), uint8(b >> 8)}
					assert.Equal(t, frame.At(x, y), got, "pixel (%d,%d)", x, y)
				}
			}
		})
	}
}

func TestForPath(t *testing.T) {
	tests := []struct {
		path     string
		expected Encoder
	}{
		{"out.png", PNGEncoder{}},
		{"dir/OUT.PNG", PNGEncoder{}},
		{"out.bmp", BMPEncoder{}},
		{"out.tif", TIFFEncoder{}},
		{"out.tiff", TIFFEncoder{}},
		{"out.ppm", PPMEncoder{}},
		{"out.snap", SnapshotEncoder{}},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			encoder, err := ForPath(tt.path)
			require.NoError(t, err)
			assert.IsType(t, tt.expected, encoder)
		})
	}

	_, err := ForPath("out.jpg")
	require.Error(t, err)
	assert.Contains(t, err.Error(), ".jpg")

	_, err = ForPath("noextension")
	require.Error(t, err)
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "deeper", "render.ppm")

	require.NoError(t, WriteFile(path, testFrame()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "P3\n3 2\n255\n"))
}

func TestWriteFileErrors(t *testing.T) {
	dir := t.TempDir()

	err := WriteFile(filepath.Join(dir, "render.gif"), testFrame())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported output format")

	// A regular file where a directory is needed
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))
	err = WriteFile(filepath.Join(blocker, "render.png"), testFrame())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create output directory")
}
