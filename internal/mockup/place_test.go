package mockup

import (
	"errors"
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/google/go-cmp/cmp"
)

func TestPlaceZeroRotationIsResize(t *testing.T) {
	art := noise(20, 10, 0xff, 21)
	got, err := Place(37, 23, art, 0, imaging.Lanczos)
	if err != nil {
		t.Fatalf("Place() error = %v", err)
	}
	want := imaging.Resize(art, 37, 23, imaging.Lanczos)
	if diff := cmp.Diff(want.Pix, got.Pix); diff != "" {
		t.Errorf("Place(0°) differs from Resize (-want +got):\n%s", diff)
	}
}

func TestPlaceFullTurnMatchesZero(t *testing.T) {
	art := noise(48, 32, 0xff, 22)
	zero, err := Place(64, 48, art, 0, imaging.Lanczos)
	if err != nil {
		t.Fatal(err)
	}
	for _, deg := range []float64{360, -360, 720} {
		got, err := Place(64, 48, art, deg, imaging.Lanczos)
		if err != nil {
			t.Fatalf("Place(%v) error = %v", deg, err)
		}
		if d := meanDiff(zero, got); d >= 2.0/255 {
			t.Errorf("Place(%v) mean difference = %v, want < 2/255", deg, d)
		}
	}
}

func TestPlaceNearFullTurnWithinTolerance(t *testing.T) {
	art := solid(40, 40, color.NRGBA{200, 40, 90, 0xff})
	zero, err := Place(40, 40, art, 0, imaging.Linear)
	if err != nil {
		t.Fatal(err)
	}
	got, err := Place(40, 40, art, 359.99, imaging.Linear)
	if err != nil {
		t.Fatal(err)
	}
	if d := meanDiff(zero, got); d >= 2.0/255 {
		t.Errorf("mean difference = %v, want < 2/255", d)
	}
}

func TestPlaceRotationDirection(t *testing.T) {
	const n = 64
	art := image.NewNRGBA(image.Rect(0, 0, n, n))
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			c := color.NRGBA{0xff, 0, 0, 0xff}
			if x >= n/2 {
				c = color.NRGBA{0, 0, 0xff, 0xff}
			}
			art.SetNRGBA(x, y, c)
		}
	}
	got, err := Place(n, n, art, 90, imaging.NearestNeighbor)
	if err != nil {
		t.Fatalf("Place() error = %v", err)
	}
	// A counter-clockwise quarter turn moves the right half to the top.
	if c := got.NRGBAAt(n/2, 8); c != (color.NRGBA{0, 0, 0xff, 0xff}) {
		t.Errorf("top = %v, want blue", c)
	}
	if c := got.NRGBAAt(n/2, n-8); c != (color.NRGBA{0xff, 0, 0, 0xff}) {
		t.Errorf("bottom = %v, want red", c)
	}
}

func TestPlaceRotationLeavesCornersTransparent(t *testing.T) {
	got, err := Place(50, 30, solid(10, 10, color.NRGBA{10, 200, 10, 0xff}), 45, imaging.Lanczos)
	if err != nil {
		t.Fatalf("Place() error = %v", err)
	}
	if b := got.Bounds(); b.Dx() != 50 || b.Dy() != 30 {
		t.Fatalf("Place() size = %v, want 50x30", b)
	}
	for _, p := range []image.Point{{0, 0}, {49, 0}, {0, 29}, {49, 29}} {
		if c := got.NRGBAAt(p.X, p.Y); c != (color.NRGBA{}) {
			t.Errorf("corner %v = %v, want transparent black", p, c)
		}
	}
	if c := got.NRGBAAt(25, 15); c.A != 0xff || c.G != 200 {
		t.Errorf("center = %v, want opaque artwork", c)
	}
}

func TestPlaceInvalid(t *testing.T) {
	art := solid(4, 4, color.NRGBA{A: 0xff})
	tests := []struct {
		name string
		w, h int
		art  image.Image
		deg  float64
	}{
		{"empty artwork", 8, 8, image.NewNRGBA(image.Rect(0, 0, 0, 0)), 0},
		{"nil artwork", 8, 8, nil, 0},
		{"zero canvas", 0, 8, art, 0},
		{"nan rotation", 8, 8, art, math.NaN()},
		{"infinite rotation", 8, 8, art, math.Inf(1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Place(tt.w, tt.h, tt.art, tt.deg, imaging.Lanczos); !errors.Is(err, ErrInvalidInput) {
				t.Errorf("Place() error = %v, want ErrInvalidInput", err)
			}
		})
	}
}

// meanDiff returns the mean absolute sample difference of a and b, normalized to [0, 1].
func meanDiff(a, b *image.NRGBA) float64 {
	var sum float64
	for i := range a.Pix {
		sum += math.Abs(float64(a.Pix[i]) - float64(b.Pix[i]))
	}
	return sum / float64(len(a.Pix)) / 255
}
