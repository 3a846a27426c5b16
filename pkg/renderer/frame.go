package renderer

import (
	"image"
	"image/color"
)

// BytesPerPixel is the size of one RGB pixel in a Frame
const BytesPerPixel = 3

// Frame is a rendered image: row-major 8-bit RGB, row 0 at the top
type Frame struct {
	Width  int
	Height int
	Pix    []uint8 // len = Width*Height*3
}

// NewFrame allocates a black frame
func NewFrame(width, height int) *Frame {
	return &Frame{
		Width:  width,
		Height: height,
		Pix:    make([]uint8, width*height*BytesPerPixel),
	}
}

// offset returns the index of the red byte of pixel (x, y)
func (f *Frame) offset(x, y int) int {
	return BytesPerPixel * (y*f.Width + x)
}

// Set stores the pixel at (x, y)
func (f *Frame) Set(x, y int, rgb [3]uint8) {
	i := f.offset(x, y)
	f.Pix[i] = rgb[0]
	f.Pix[i+1] = rgb[1]
	f.Pix[i+2] = rgb[2]
}

// At returns the pixel at (x, y)
func (f *Frame) At(x, y int) [3]uint8 {
	i := f.offset(x, y)
	return [3]uint8{f.Pix[i], f.Pix[i+1], f.Pix[i+2]}
}

// ToImage converts the frame to an opaque RGBA image for the standard encoders
func (f *Frame) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, f.Width, f.Height))
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			rgb := f.At(x, y)
			img.SetRGBA(x, y, color.RGBA{R: rgb[0], G: rgb[1], B: rgb[2], A: 255})
		}
	}
	return img
}
