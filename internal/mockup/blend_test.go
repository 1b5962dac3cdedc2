package mockup

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestBlendOpaqueLayerReplacesBase(t *testing.T) {
	base := noise(31, 17, 0xff, 1)
	layer := noise(31, 17, 0xff, 2)

	got, err := Blend(base, layer)
	if err != nil {
		t.Fatalf("Blend() error = %v", err)
	}
	if diff := cmp.Diff(rgb(layer), rgb(got.NRGBA())); diff != "" {
		t.Errorf("opaque blend differs from layer (-want +got):\n%s", diff)
	}
}

func TestBlendTransparentLayerKeepsBase(t *testing.T) {
	base := noise(31, 17, 0xff, 3)
	layer := noise(31, 17, 0, 4)

	got, err := Blend(base, layer)
	if err != nil {
		t.Fatalf("Blend() error = %v", err)
	}
	if diff := cmp.Diff(rgb(base), rgb(got.NRGBA())); diff != "" {
		t.Errorf("transparent blend differs from base (-want +got):\n%s", diff)
	}
}

func TestBlendHalfAlpha(t *testing.T) {
	base := solid(2, 2, color.NRGBA{0, 0, 0, 0xff})
	layer := solid(2, 2, color.NRGBA{200, 100, 50, 0x80})

	got, err := Blend(base, layer)
	if err != nil {
		t.Fatalf("Blend() error = %v", err)
	}
	a := float32(0x80) / 255
	want := []float32{200 * a / 255, 100 * a / 255, 50 * a / 255}
	if diff := cmp.Diff(want, got.Pix[:3]); diff != "" {
		t.Errorf("half alpha blend (-want +got):\n%s", diff)
	}
}

func TestBlendIgnoresBaseAlphaAndOffset(t *testing.T) {
	base := image.NewNRGBA(image.Rect(10, 10, 14, 13))
	for i := 0; i < len(base.Pix); i += 4 {
		base.Pix[i], base.Pix[i+1], base.Pix[i+2], base.Pix[i+3] = 10, 20, 30, 0xff
	}
	layer := image.NewNRGBA(image.Rect(0, 0, 4, 3))

	got, err := Blend(base, layer)
	if err != nil {
		t.Fatalf("Blend() error = %v", err)
	}
	if got.Width != 4 || got.Height != 3 {
		t.Fatalf("Blend() size = %dx%d, want 4x3", got.Width, got.Height)
	}
	if q := got.NRGBA().NRGBAAt(3, 2); q != (color.NRGBA{10, 20, 30, 0xff}) {
		t.Errorf("pixel (3,2) = %v, want {10 20 30 255}", q)
	}
}

func TestBlendSizeMismatch(t *testing.T) {
	_, err := Blend(solid(4, 4, color.NRGBA{A: 0xff}), solid(4, 5, color.NRGBA{A: 0xff}))
	if !errors.Is(err, ErrInvalidInput) {
		t.Errorf("Blend() error = %v, want ErrInvalidInput", err)
	}
}
