// Package output writes rendered frames to image files.
package output

import (
	"bufio"
	"fmt"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"github.com/df07/go-stochastic-raytracer/pkg/renderer"
)

// Encoder serializes a frame into an image format
type Encoder interface {
	Encode(w io.Writer, frame *renderer.Frame) error
}

// PNGEncoder writes lossless PNG images
type PNGEncoder struct{}

// Encode writes the frame as PNG
func (PNGEncoder) Encode(w io.Writer, frame *renderer.Frame) error {
	return png.Encode(w, frame.ToImage())
}

// BMPEncoder writes uncompressed BMP images
type BMPEncoder struct{}

// Encode writes the frame as BMP
func (BMPEncoder) Encode(w io.Writer, frame *renderer.Frame) error {
	return bmp.Encode(w, frame.ToImage())
}

// TIFFEncoder writes deflate-compressed TIFF images
type TIFFEncoder struct{}

// Encode writes the frame as TIFF
func (TIFFEncoder) Encode(w io.Writer, frame *renderer.Frame) error {
	return tiff.Encode(w, frame.ToImage(), &tiff.Options{Compression: tiff.Deflate})
}

// PPMEncoder writes plain-text (P3) portable pixmaps, one pixel per line
type PPMEncoder struct{}

// Encode writes the frame as P3 PPM
func (PPMEncoder) Encode(w io.Writer, frame *renderer.Frame) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "P3\n%d %d\n255\n", frame.Width, frame.Height); err != nil {
		return err
	}
	for y := 0; y < frame.Height; y++ {
		for x := 0; x < frame.Width; x++ {
			rgb := frame.At(x, y)
			if _, err := fmt.Fprintf(bw, "%d %d %d\n", rgb[0], rgb[1], rgb[2]); err != nil {
				return err
			}
		}
	}
	return bw.Flush()
}

var encoders = map[string]Encoder{
	".png":  PNGEncoder{},
	".bmp":  BMPEncoder{},
	".tif":  TIFFEncoder{},
	".tiff": TIFFEncoder{},
	".ppm":  PPMEncoder{},
	".snap": SnapshotEncoder{},
}

// ForPath selects the encoder matching the file extension of path
func ForPath(path string) (Encoder, error) {
	ext := strings.ToLower(filepath.Ext(path))
	encoder, ok := encoders[ext]
	if !ok {
		return nil, errors.Errorf("unsupported output format %q", ext)
	}
	return encoder, nil
}

// WriteFile encodes frame into path, creating parent directories as needed.
// The format follows the file extension.
func WriteFile(path string, frame *renderer.Frame) (err error) {
	encoder, err := ForPath(path)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return errors.Wrapf(err, "failed to create output directory %s", dir)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "failed to create output file %s", path)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil && err == nil {
			err = errors.Wrapf(closeErr, "failed to close output file %s", path)
		}
	}()

	if err := encoder.Encode(file, frame); err != nil {
		return errors.Wrapf(err, "failed to encode %s", path)
	}
	return nil
}
