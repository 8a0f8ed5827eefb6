package enhance

import (
	"math"

	"github.com/anthonynsimon/bild/parallel"
)

// ChannelMeans returns the mean of each channel, normalized to [0,1].
//
// The sums are accumulated as integers, so the result is exact up to the
// final division and independent of evaluation order.
func ChannelMeans(img *Image) [Channels]float64 {
	var sums [Channels]uint64
	for i := 0; i < len(img.Pix); i += Channels {
		sums[0] += uint64(img.Pix[i])
		sums[1] += uint64(img.Pix[i+1])
		sums[2] += uint64(img.Pix[i+2])
	}

	var means [Channels]float64
	n := float64(img.Width*img.Height) * 255.0
	for c := range means {
		means[c] = float64(sums[c]) / n
	}
	return means
}

// BalanceGrayWorld runs the color balance stage on its own.
//
// Each channel is multiplied by grandMean/channelMean, clamped to [0,1] and
// rounded back to 8 bits. If any channel mean is zero the image is returned
// unchanged (as a copy).
func BalanceGrayWorld(img *Image) (*Image, error) {
	if err := img.Validate(); err != nil {
		return nil, err
	}
	return balanceGrayWorld(img), nil
}

func balanceGrayWorld(img *Image) *Image {
	means := ChannelMeans(img)
	for _, m := range means {
		if m == 0 {
			return img.Clone()
		}
	}

	grand := (means[0] + means[1] + means[2]) / 3.0
	var scale [Channels]float64
	for c := range scale {
		scale[c] = grand / means[c]
	}

	out := NewImage(img.Width, img.Height)
	rowLen := img.Width * Channels

	parallel.Line(img.Height, func(start, end int) {
		for y := start; y < end; y++ {
			row := img.Pix[y*rowLen : (y+1)*rowLen]
			dst := out.Pix[y*rowLen : (y+1)*rowLen]
			for i, v := range row {
				f := clamp01(float64(v) / 255.0 * scale[i%Channels])
				dst[i] = uint8(math.Round(f * 255.0))
			}
		}
	})

	return out
}
