package imaging

import (
	"math"

	"github.com/anthonynsimon/bild/histogram"

	"github.com/ironsheep/aquavision/internal/enhance"
)

// RGBMean holds the average value of each channel on the 0-255 scale.
type RGBMean struct {
	R float64 `json:"r"` // Red mean (0-255)
	G float64 `json:"g"` // Green mean (0-255)
	B float64 `json:"b"` // Blue mean (0-255)
}

// ChannelStats summarizes the color balance of an image.
//
// Spread is the difference between the largest and smallest channel mean.
// A neutral image has a spread near zero; a strong color cast (blue or green
// water) shows up as a large spread.
type ChannelStats struct {
	Mean   RGBMean `json:"mean"`
	Spread float64 `json:"spread"`
	Pixels int     `json:"pixels"`
}

// Stats computes per-channel means and their spread from the image's
// channel histograms. Values are rounded to two decimal places.
func Stats(img *enhance.Image) *ChannelStats {
	h := histogram.NewRGBAHistogram(ToNRGBA(img))

	r := histogramMean(h.R)
	g := histogramMean(h.G)
	b := histogramMean(h.B)

	hi := math.Max(r, math.Max(g, b))
	lo := math.Min(r, math.Min(g, b))

	return &ChannelStats{
		Mean: RGBMean{
			R: round2(r),
			G: round2(g),
			B: round2(b),
		},
		Spread: round2(hi - lo),
		Pixels: img.Width * img.Height,
	}
}

// histogramMean returns the mean intensity of a 256-bin histogram.
func histogramMean(h histogram.Histogram) float64 {
	var sum, count int
	for v, n := range h.Bins {
		sum += v * n
		count += n
	}
	if count == 0 {
		return 0
	}
	return float64(sum) / float64(count)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
