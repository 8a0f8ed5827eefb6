package enhance

import (
	"errors"
	"math/rand"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// createUniformImage creates an image filled with a single color.
func createUniformImage(width, height int, r, g, b uint8) *Image {
	img := NewImage(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, r, g, b)
		}
	}
	return img
}

// createNoiseImage creates an image with seeded pseudo-random pixels.
func createNoiseImage(width, height int, seed int64) *Image {
	rng := rand.New(rand.NewSource(seed))
	img := NewImage(width, height)
	rng.Read(img.Pix)
	return img
}

// createUnderwaterImage creates a dim, blue-green image with a soft
// horizontal gradient, loosely resembling an underwater scene.
func createUnderwaterImage(width, height int) *Image {
	img := NewImage(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			shade := uint8(20 + 60*x/width)
			img.Set(x, y, shade/3, shade+40, shade+70)
		}
	}
	return img
}

func absDiff(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}

func spread(means [Channels]float64) float64 {
	lo, hi := means[0], means[0]
	for _, m := range means[1:] {
		lo = min(lo, m)
		hi = max(hi, m)
	}
	return hi - lo
}

func TestEnhance_PreservesShape(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
	}{
		{"1x1", 1, 1},
		{"single row", 40, 1},
		{"single column", 1, 40},
		{"smaller than grid", 3, 5},
		{"not divisible by grid", 17, 9},
		{"divisible by grid", 64, 48},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := createNoiseImage(tt.width, tt.height, 7)

			out, err := Enhance(img)
			if err != nil {
				t.Fatalf("Enhance failed: %v", err)
			}

			if out.Width != tt.width || out.Height != tt.height {
				t.Errorf("dimensions: got %dx%d, want %dx%d", out.Width, out.Height, tt.width, tt.height)
			}
			if out.Channels != Channels {
				t.Errorf("channels: got %d, want %d", out.Channels, Channels)
			}
			if len(out.Pix) != tt.width*tt.height*Channels {
				t.Errorf("pixel buffer: got %d bytes, want %d", len(out.Pix), tt.width*tt.height*Channels)
			}
		})
	}
}

func TestEnhance_Deterministic(t *testing.T) {
	img := createNoiseImage(50, 37, 42)

	first, err := Enhance(img)
	if err != nil {
		t.Fatalf("Enhance failed: %v", err)
	}
	second, err := Enhance(img.Clone())
	if err != nil {
		t.Fatalf("Enhance failed: %v", err)
	}

	if diff := cmp.Diff(first.Pix, second.Pix); diff != "" {
		t.Errorf("outputs differ between runs (-first +second):\n%s", diff)
	}
}

func TestEnhance_DoesNotModifyInput(t *testing.T) {
	img := createUnderwaterImage(32, 24)
	before := img.Clone()

	if _, err := Enhance(img); err != nil {
		t.Fatalf("Enhance failed: %v", err)
	}

	if diff := cmp.Diff(before, img); diff != "" {
		t.Errorf("input was modified (-before +after):\n%s", diff)
	}
}

func TestEnhance_DegenerateSize(t *testing.T) {
	img := createUniformImage(1, 1, 128, 128, 128)

	out, err := Enhance(img)
	if err != nil {
		t.Fatalf("Enhance failed on 1x1 image: %v", err)
	}
	if out.Width != 1 || out.Height != 1 {
		t.Fatalf("dimensions: got %dx%d, want 1x1", out.Width, out.Height)
	}

	r, g, b := out.At(0, 0)
	for _, v := range []uint8{r, g, b} {
		if absDiff(v, 128) > 1 {
			t.Errorf("1x1 gray: got (%d,%d,%d), want about (128,128,128)", r, g, b)
			break
		}
	}
}

func TestEnhance_UniformGrayNearIdentity(t *testing.T) {
	img := createUniformImage(16, 16, 100, 100, 100)

	out, err := Enhance(img)
	if err != nil {
		t.Fatalf("Enhance failed: %v", err)
	}

	for i, v := range out.Pix {
		if d := absDiff(v, img.Pix[i]); d > 1 {
			x, y := (i/Channels)%img.Width, (i/Channels)/img.Width
			t.Fatalf("pixel (%d,%d) channel %d: got %d, want 100 +/- 1", x, y, i%Channels, v)
		}
	}
}

func TestEnhance_UniformColorsSurvive(t *testing.T) {
	tests := []struct {
		name    string
		r, g, b uint8
	}{
		{"black", 0, 0, 0},
		{"white", 255, 255, 255},
		{"mid gray", 128, 128, 128},
		{"dark gray", 10, 10, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := createUniformImage(20, 12, tt.r, tt.g, tt.b)
			out, err := Enhance(img)
			if err != nil {
				t.Fatalf("Enhance failed: %v", err)
			}
			for i, v := range out.Pix {
				if absDiff(v, img.Pix[i]) > 1 {
					t.Fatalf("byte %d: got %d, want %d +/- 1", i, v, img.Pix[i])
				}
			}
		})
	}
}

func TestEnhance_ZeroChannelPassThrough(t *testing.T) {
	// Pure cyan: the red channel mean is zero, so color balance must leave
	// the contrast stage output alone instead of dividing by zero.
	img := createUniformImage(16, 16, 0, 255, 255)

	out, err := Enhance(img)
	if err != nil {
		t.Fatalf("Enhance failed: %v", err)
	}

	stage1, err := EqualizeLightness(img, DefaultOptions())
	if err != nil {
		t.Fatalf("EqualizeLightness failed: %v", err)
	}

	if diff := cmp.Diff(stage1.Pix, out.Pix); diff != "" {
		t.Errorf("color balance was not a pass-through (-stage1 +enhanced):\n%s", diff)
	}
	for i := 0; i < len(out.Pix); i += Channels {
		if out.Pix[i] != 0 {
			t.Fatalf("red channel: got %d at byte %d, want 0", out.Pix[i], i)
		}
	}
}

func TestEnhance_CorrectsColorCast(t *testing.T) {
	tests := []struct {
		name string
		img  *Image
	}{
		{"uniform blue tint", createUniformImage(16, 16, 50, 50, 200)},
		{"underwater gradient", createUnderwaterImage(64, 48)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := spread(ChannelMeans(tt.img))

			out, err := Enhance(tt.img)
			if err != nil {
				t.Fatalf("Enhance failed: %v", err)
			}

			after := spread(ChannelMeans(out))
			if after >= before {
				t.Errorf("channel mean spread: got %.4f, want less than %.4f", after, before)
			}
		})
	}
}

func TestEnhance_BlueTintBecomesGray(t *testing.T) {
	img := createUniformImage(16, 16, 50, 50, 200)

	out, err := Enhance(img)
	if err != nil {
		t.Fatalf("Enhance failed: %v", err)
	}

	r, g, b := out.At(8, 8)
	if absDiff(r, 100) > 1 || absDiff(g, 100) > 1 || absDiff(b, 100) > 1 {
		t.Errorf("balanced color: got (%d,%d,%d), want about (100,100,100)", r, g, b)
	}
}

func TestEnhance_ConcurrentMatchesSequential(t *testing.T) {
	const workers = 8

	inputs := make([]*Image, workers)
	want := make([]*Image, workers)
	for i := range inputs {
		inputs[i] = createNoiseImage(24+i, 18+i, int64(i))
		out, err := Enhance(inputs[i])
		if err != nil {
			t.Fatalf("sequential Enhance %d failed: %v", i, err)
		}
		want[i] = out
	}

	got := make([]*Image, workers)
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for i := range inputs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			got[i], errs[i] = Enhance(inputs[i])
		}(i)
	}
	wg.Wait()

	for i := range inputs {
		if errs[i] != nil {
			t.Fatalf("concurrent Enhance %d failed: %v", i, errs[i])
		}
		if diff := cmp.Diff(want[i].Pix, got[i].Pix); diff != "" {
			t.Errorf("image %d differs from sequential run (-want +got):\n%s", i, diff)
		}
	}
}

func TestEnhance_InvalidInput(t *testing.T) {
	tests := []struct {
		name string
		img  *Image
	}{
		{"nil image", nil},
		{"four channels", &Image{Width: 2, Height: 2, Channels: 4, Pix: make([]uint8, 16)}},
		{"one channel", &Image{Width: 2, Height: 2, Channels: 1, Pix: make([]uint8, 4)}},
		{"zero width", &Image{Width: 0, Height: 2, Channels: 3, Pix: nil}},
		{"negative height", &Image{Width: 2, Height: -1, Channels: 3, Pix: nil}},
		{"short buffer", &Image{Width: 2, Height: 2, Channels: 3, Pix: make([]uint8, 11)}},
		{"long buffer", &Image{Width: 2, Height: 2, Channels: 3, Pix: make([]uint8, 13)}},
		{"overflowing dimensions", &Image{Width: 1 << 62, Height: 4, Channels: 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Enhance(tt.img)
			if err == nil {
				t.Fatal("Enhance should fail for malformed input")
			}
			if out != nil {
				t.Error("Enhance returned a partial result alongside an error")
			}

			var invalid *InvalidInputError
			if !errors.As(err, &invalid) {
				t.Errorf("error type: got %T, want *InvalidInputError", err)
			}
		})
	}
}

func TestNew_ValidatesOptions(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		wantErr bool
	}{
		{"defaults", DefaultOptions(), false},
		{"single tile", Options{TileGridX: 1, TileGridY: 1, ClipLimit: 2}, false},
		{"no clipping", Options{TileGridX: 4, TileGridY: 4, ClipLimit: 0}, false},
		{"zero tiles", Options{TileGridX: 0, TileGridY: 8, ClipLimit: 2}, true},
		{"negative tiles", Options{TileGridX: 8, TileGridY: -2, ClipLimit: 2}, true},
		{"negative clip", Options{TileGridX: 8, TileGridY: 8, ClipLimit: -1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := New(tt.opts)
			if tt.wantErr {
				if err == nil {
					t.Error("New should fail for invalid options")
				}
				return
			}
			if err != nil {
				t.Fatalf("New failed: %v", err)
			}
			if e.Options() != tt.opts {
				t.Errorf("Options: got %+v, want %+v", e.Options(), tt.opts)
			}
		})
	}
}

func TestEngine_SmallGridMatchesAcrossSizes(t *testing.T) {
	e, err := New(Options{TileGridX: 2, TileGridY: 2, ClipLimit: 2})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	for _, size := range []int{1, 2, 3, 8} {
		img := createNoiseImage(size, size, int64(size))
		out, err := e.Enhance(img)
		if err != nil {
			t.Fatalf("Enhance %dx%d failed: %v", size, size, err)
		}
		if out.Width != size || out.Height != size {
			t.Errorf("dimensions: got %dx%d, want %dx%d", out.Width, out.Height, size, size)
		}
	}
}
