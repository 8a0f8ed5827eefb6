package enhance

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestChannelMeans(t *testing.T) {
	img := NewImage(2, 1)
	img.Set(0, 0, 0, 255, 100)
	img.Set(1, 0, 255, 255, 50)

	got := ChannelMeans(img)
	want := [Channels]float64{0.5, 1.0, 75.0 / 255.0}
	for c := range want {
		if math.Abs(got[c]-want[c]) > 1e-12 {
			t.Errorf("channel %d mean: got %g, want %g", c, got[c], want[c])
		}
	}
}

func TestBalanceGrayWorld_ZeroMeanPassThrough(t *testing.T) {
	tests := []struct {
		name    string
		r, g, b uint8
	}{
		{"cyan", 0, 255, 255},
		{"magenta", 255, 0, 255},
		{"yellow", 255, 255, 0},
		{"black", 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := createUniformImage(8, 8, tt.r, tt.g, tt.b)

			out, err := BalanceGrayWorld(img)
			if err != nil {
				t.Fatalf("BalanceGrayWorld failed: %v", err)
			}
			if diff := cmp.Diff(img.Pix, out.Pix); diff != "" {
				t.Errorf("zero-mean image was modified (-in +out):\n%s", diff)
			}
			if &out.Pix[0] == &img.Pix[0] {
				t.Error("pass-through shares the input buffer")
			}
		})
	}
}

func TestBalanceGrayWorld_EqualMeansIsIdentity(t *testing.T) {
	img := NewImage(3, 1)
	img.Set(0, 0, 10, 200, 90)
	img.Set(1, 0, 200, 90, 10)
	img.Set(2, 0, 90, 10, 200)

	out, err := BalanceGrayWorld(img)
	if err != nil {
		t.Fatalf("BalanceGrayWorld failed: %v", err)
	}
	if diff := cmp.Diff(img.Pix, out.Pix); diff != "" {
		t.Errorf("balanced image changed (-in +out):\n%s", diff)
	}
}

func TestBalanceGrayWorld_ClampsOverflow(t *testing.T) {
	// Red is scaled up by a large factor; the bright red pixel must saturate
	// at 255 rather than wrap around.
	img := NewImage(2, 1)
	img.Set(0, 0, 250, 200, 200)
	img.Set(1, 0, 2, 200, 200)

	out, err := BalanceGrayWorld(img)
	if err != nil {
		t.Fatalf("BalanceGrayWorld failed: %v", err)
	}

	r, _, _ := out.At(0, 0)
	if r != 255 {
		t.Errorf("saturated red: got %d, want 255", r)
	}
}

func TestBalanceGrayWorld_ScalesTowardGrandMean(t *testing.T) {
	img := createUniformImage(4, 4, 60, 120, 180)

	out, err := BalanceGrayWorld(img)
	if err != nil {
		t.Fatalf("BalanceGrayWorld failed: %v", err)
	}

	r, g, b := out.At(0, 0)
	if r != 120 || g != 120 || b != 120 {
		t.Errorf("balanced color: got (%d,%d,%d), want (120,120,120)", r, g, b)
	}
}

func TestBalanceGrayWorld_InvalidInput(t *testing.T) {
	if _, err := BalanceGrayWorld(&Image{Width: 1, Height: 1, Channels: 4, Pix: make([]uint8, 4)}); err == nil {
		t.Error("BalanceGrayWorld should fail for a 4-channel image")
	}
}
