package enhance

import (
	"github.com/anthonynsimon/bild/parallel"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// labPlanes holds an image in CIE L*a*b*, one plane per component.
// L is in [0,1]; a and b are unbounded but stay roughly within [-1,1] for
// sRGB input.
type labPlanes struct {
	width  int
	height int
	l      []float64
	a      []float64
	b      []float64
}

// toLab converts an RGB image to L*a*b* planes (sRGB, D65).
func toLab(img *Image) *labPlanes {
	n := img.Width * img.Height
	p := &labPlanes{
		width:  img.Width,
		height: img.Height,
		l:      make([]float64, n),
		a:      make([]float64, n),
		b:      make([]float64, n),
	}

	parallel.Line(img.Height, func(start, end int) {
		for y := start; y < end; y++ {
			for x := 0; x < img.Width; x++ {
				i := y*img.Width + x
				px := img.Pix[i*Channels : i*Channels+Channels]
				c := colorful.Color{
					R: float64(px[0]) / 255.0,
					G: float64(px[1]) / 255.0,
					B: float64(px[2]) / 255.0,
				}
				p.l[i], p.a[i], p.b[i] = c.Lab()
			}
		}
	})

	return p
}

// toRGB converts the planes back to an 8-bit RGB image. Out-of-gamut colors
// are clamped per channel before rounding.
func (p *labPlanes) toRGB() *Image {
	out := NewImage(p.width, p.height)

	parallel.Line(p.height, func(start, end int) {
		for y := start; y < end; y++ {
			for x := 0; x < p.width; x++ {
				i := y*p.width + x
				c := colorful.Lab(p.l[i], p.a[i], p.b[i]).Clamped()
				r, g, b := c.RGB255()
				out.Pix[i*Channels] = r
				out.Pix[i*Channels+1] = g
				out.Pix[i*Channels+2] = b
			}
		}
	})

	return out
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
