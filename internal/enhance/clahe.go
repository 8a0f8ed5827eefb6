package enhance

import (
	"math"

	"github.com/anthonynsimon/bild/parallel"
)

const histBins = 256

// EqualizeLightness runs the local contrast stage on its own: CLAHE on the
// L* channel with a* and b* left untouched.
func EqualizeLightness(img *Image, opts Options) (*Image, error) {
	if err := img.Validate(); err != nil {
		return nil, err
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return equalizeLightness(img, opts), nil
}

func equalizeLightness(img *Image, opts Options) *Image {
	lab := toLab(img)
	clahe(lab.l, lab.width, lab.height, opts)
	return lab.toRGB()
}

// clahe equalizes a lightness plane in place.
//
// The plane is quantized to 8 bits, a clipped equalization LUT is built for
// every tile, and each pixel is remapped by bilinear interpolation between
// the LUTs of the four nearest tile centers. The difference between the
// remapped and the quantized value is added to the original lightness, so
// a tile that maps to the identity leaves its pixels exactly as they were.
func clahe(l []float64, width, height int, opts Options) {
	q := make([]uint8, len(l))
	for i, v := range l {
		q[i] = quantize(v)
	}

	// Small images get fewer tiles so that no tile is empty.
	tilesX := min(opts.TileGridX, width)
	tilesY := min(opts.TileGridY, height)

	luts := make([][histBins]uint8, tilesX*tilesY)
	parallel.Line(tilesY, func(start, end int) {
		for ty := start; ty < end; ty++ {
			y0, y1 := ty*height/tilesY, (ty+1)*height/tilesY
			for tx := 0; tx < tilesX; tx++ {
				x0, x1 := tx*width/tilesX, (tx+1)*width/tilesX
				luts[ty*tilesX+tx] = tileLUT(q, width, x0, y0, x1, y1, opts.ClipLimit)
			}
		}
	})

	parallel.Line(height, func(start, end int) {
		for y := start; y < end; y++ {
			ty1, ty2, ya := neighbours(y, height, tilesY)
			for x := 0; x < width; x++ {
				tx1, tx2, xa := neighbours(x, width, tilesX)
				i := y*width + x
				v := q[i]

				top := (1-xa)*float64(luts[ty1*tilesX+tx1][v]) + xa*float64(luts[ty1*tilesX+tx2][v])
				bottom := (1-xa)*float64(luts[ty2*tilesX+tx1][v]) + xa*float64(luts[ty2*tilesX+tx2][v])
				mapped := (1-ya)*top + ya*bottom

				l[i] = clamp01(l[i] + (mapped-float64(v))/255.0)
			}
		}
	})
}

// neighbours returns the two tile indices whose centers bracket pixel pos
// along one axis, and the interpolation weight of the second one. Pixels
// outside the outermost centers use a single tile.
//
// Centers are nominal: they assume tiles of size/tiles pixels each. Tile
// edges fall at i*size/tiles, so when size is not a multiple of tiles an
// actual tile's center can sit up to one pixel away from its nominal one.
func neighbours(pos, size, tiles int) (int, int, float64) {
	f := (float64(pos)+0.5)*float64(tiles)/float64(size) - 0.5
	t := math.Floor(f)
	w := f - t
	t1 := clampInt(int(t), 0, tiles-1)
	t2 := clampInt(int(t)+1, 0, tiles-1)
	return t1, t2, w
}

// tileLUT builds the clipped histogram equalization mapping for the tile
// [x0,x1) x [y0,y1) of the quantized plane q.
//
// The clip limit is relative to the uniform bin height (area/256) and never
// drops below one pixel. Clipped mass is spread evenly over all bins; what
// does not divide evenly is handed out one pixel at a time at a fixed
// stride. A tile whose pixels all share one value maps to the identity.
func tileLUT(q []uint8, stride, x0, y0, x1, y1 int, clipLimit float64) [histBins]uint8 {
	var hist [histBins]int
	for y := y0; y < y1; y++ {
		row := q[y*stride : y*stride+x1]
		for x := x0; x < x1; x++ {
			hist[row[x]]++
		}
	}

	var lut [histBins]uint8

	occupied := 0
	for _, c := range hist {
		if c > 0 {
			occupied++
		}
	}
	if occupied <= 1 {
		for i := range lut {
			lut[i] = uint8(i)
		}
		return lut
	}

	area := (x1 - x0) * (y1 - y0)

	if clipLimit > 0 {
		limit := int(clipLimit * float64(area) / histBins)
		if limit < 1 {
			limit = 1
		}

		clipped := 0
		for i := range hist {
			if hist[i] > limit {
				clipped += hist[i] - limit
				hist[i] = limit
			}
		}

		batch := clipped / histBins
		residual := clipped - batch*histBins
		for i := range hist {
			hist[i] += batch
		}
		if residual > 0 {
			step := max(histBins/residual, 1)
			for i := 0; i < histBins && residual > 0; i += step {
				hist[i]++
				residual--
			}
		}
	}

	scale := 255.0 / float64(area)
	sum := 0
	for i := range hist {
		sum += hist[i]
		lut[i] = uint8(math.Round(float64(sum) * scale))
	}
	return lut
}

// quantize maps a lightness in [0,1] to the nearest 8-bit level.
func quantize(v float64) uint8 {
	return uint8(math.Round(clamp01(v) * 255.0))
}

func clampInt(val, lo, hi int) int {
	if val < lo {
		return lo
	}
	if val > hi {
		return hi
	}
	return val
}
