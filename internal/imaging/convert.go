package imaging

import (
	"image"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/aquavision/internal/enhance"
)

// FromImage copies any image.Image into an RGB buffer. Alpha is dropped
// without compositing, so transparent pixels keep their stored color.
func FromImage(src image.Image) *enhance.Image {
	nrgba := imaging.Clone(src)
	bounds := nrgba.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	out := enhance.NewImage(width, height)
	for y := 0; y < height; y++ {
		row := nrgba.Pix[y*nrgba.Stride : y*nrgba.Stride+width*4]
		dst := out.Pix[y*width*enhance.Channels : (y+1)*width*enhance.Channels]
		for x := 0; x < width; x++ {
			dst[x*3] = row[x*4]
			dst[x*3+1] = row[x*4+1]
			dst[x*3+2] = row[x*4+2]
		}
	}
	return out
}

// ToNRGBA converts an RGB buffer into an opaque *image.NRGBA.
func ToNRGBA(img *enhance.Image) *image.NRGBA {
	out := image.NewNRGBA(image.Rect(0, 0, img.Width, img.Height))
	for y := 0; y < img.Height; y++ {
		src := img.Pix[y*img.Width*enhance.Channels : (y+1)*img.Width*enhance.Channels]
		row := out.Pix[y*out.Stride : y*out.Stride+img.Width*4]
		for x := 0; x < img.Width; x++ {
			row[x*4] = src[x*3]
			row[x*4+1] = src[x*3+1]
			row[x*4+2] = src[x*3+2]
			row[x*4+3] = 255
		}
	}
	return out
}
