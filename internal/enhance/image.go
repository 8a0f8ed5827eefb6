package enhance

import (
	"fmt"
	"math"
)

// Channels is the only channel count the engine accepts.
const Channels = 3

// Image is an interleaved 8-bit RGB pixel buffer.
//
// Pixel (x, y) occupies Pix[(y*Width+x)*Channels : (y*Width+x)*Channels+3]
// in R, G, B order.
type Image struct {
	Width    int
	Height   int
	Channels int
	Pix      []uint8
}

// NewImage allocates a zeroed RGB image of the given size.
func NewImage(width, height int) *Image {
	return &Image{
		Width:    width,
		Height:   height,
		Channels: Channels,
		Pix:      make([]uint8, width*height*Channels),
	}
}

// At returns the RGB triple at (x, y). It panics if the coordinates are out
// of range.
func (img *Image) At(x, y int) (r, g, b uint8) {
	i := (y*img.Width + x) * Channels
	return img.Pix[i], img.Pix[i+1], img.Pix[i+2]
}

// Set stores an RGB triple at (x, y).
func (img *Image) Set(x, y int, r, g, b uint8) {
	i := (y*img.Width + x) * Channels
	img.Pix[i], img.Pix[i+1], img.Pix[i+2] = r, g, b
}

// Clone returns a deep copy of img.
func (img *Image) Clone() *Image {
	out := &Image{
		Width:    img.Width,
		Height:   img.Height,
		Channels: img.Channels,
		Pix:      make([]uint8, len(img.Pix)),
	}
	copy(out.Pix, img.Pix)
	return out
}

// Validate reports whether img is a well-formed 3-channel buffer.
func (img *Image) Validate() error {
	if img == nil {
		return &InvalidInputError{Reason: "image is nil"}
	}
	if img.Channels != Channels {
		return &InvalidInputError{Reason: fmt.Sprintf("expected %d channels, got %d", Channels, img.Channels)}
	}
	if img.Width <= 0 || img.Height <= 0 {
		return &InvalidInputError{Reason: fmt.Sprintf("dimensions must be positive, got %dx%d", img.Width, img.Height)}
	}
	if img.Width > math.MaxInt/Channels/img.Height {
		return &InvalidInputError{Reason: fmt.Sprintf("dimensions %dx%d overflow the pixel buffer size", img.Width, img.Height)}
	}
	if want := img.Width * img.Height * Channels; len(img.Pix) != want {
		return &InvalidInputError{Reason: fmt.Sprintf("pixel buffer has %d bytes, want %d for %dx%d", len(img.Pix), want, img.Width, img.Height)}
	}
	return nil
}

// InvalidInputError is returned when the engine receives a malformed image.
// No partial result accompanies it.
type InvalidInputError struct {
	Reason string
}

func (e *InvalidInputError) Error() string {
	return "invalid input image: " + e.Reason
}
