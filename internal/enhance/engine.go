package enhance

import "fmt"

// Options configures the local contrast stage.
type Options struct {
	// TileGridX is the number of CLAHE tiles across the image.
	TileGridX int `json:"tile_grid_x"`

	// TileGridY is the number of CLAHE tiles down the image.
	TileGridY int `json:"tile_grid_y"`

	// ClipLimit is the histogram clip limit relative to the uniform bin
	// height. Zero disables clipping (plain adaptive equalization).
	ClipLimit float64 `json:"clip_limit"`
}

// DefaultOptions returns an 8x8 tile grid with a clip limit of 2.0.
func DefaultOptions() Options {
	return Options{
		TileGridX: 8,
		TileGridY: 8,
		ClipLimit: 2.0,
	}
}

// Validate checks that the options describe a usable tile grid and clip
// limit.
func (o Options) Validate() error {
	if o.TileGridX < 1 || o.TileGridY < 1 {
		return fmt.Errorf("tile grid must be at least 1x1, got %dx%d", o.TileGridX, o.TileGridY)
	}
	if o.ClipLimit < 0 {
		return fmt.Errorf("clip limit must not be negative, got %g", o.ClipLimit)
	}
	return nil
}

// Engine applies the two-stage enhancement with a fixed set of Options.
// The zero value is not usable; construct it with New.
type Engine struct {
	opts Options
}

// New returns an Engine for opts.
func New(opts Options) (*Engine, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &Engine{opts: opts}, nil
}

// Options returns the options the engine was built with.
func (e *Engine) Options() Options {
	return e.opts
}

// Enhance returns a contrast-enhanced, color-balanced copy of img.
//
// The input is never modified. The only error is *InvalidInputError, for
// buffers that are not 3-channel or whose dimensions are not positive or do
// not match the buffer length.
func (e *Engine) Enhance(img *Image) (*Image, error) {
	if err := img.Validate(); err != nil {
		return nil, err
	}

	contrasted := equalizeLightness(img, e.opts)
	return balanceGrayWorld(contrasted), nil
}

var defaultEngine = &Engine{opts: DefaultOptions()}

// Enhance runs the engine with DefaultOptions.
func Enhance(img *Image) (*Image, error) {
	return defaultEngine.Enhance(img)
}
