package mockup

import (
	"fmt"
	"image"
	"math"
)

// Raster is an opaque RGB image with float32 samples normalized to [0, 1].
// Pix holds three consecutive samples (R, G, B) per pixel in row-major order.
type Raster struct {
	Pix    []float32
	Width  int
	Height int
}

// NewRaster allocates a black raster of the given size.
func NewRaster(w, h int) *Raster {
	return &Raster{Pix: make([]float32, w*h*3), Width: w, Height: h}
}

// Mask is a single-channel float32 grid, one sample per pixel in row-major order.
type Mask struct {
	Pix    []float32
	Width  int
	Height int
}

func newMask(w, h int) *Mask {
	return &Mask{Pix: make([]float32, w*h), Width: w, Height: h}
}

// Fill sets every sample of m to v.
func (m *Mask) Fill(v float32) {
	for i := range m.Pix {
		m.Pix[i] = v
	}
}

// ApplyMask multiplies every channel of r by the mask sample of its pixel.
// It returns a new raster and leaves r untouched.
func ApplyMask(r *Raster, m *Mask) (*Raster, error) {
	if r.Width != m.Width || r.Height != m.Height {
		return nil, invalidf("mask is %dx%d, image is %dx%d", m.Width, m.Height, r.Width, r.Height)
	}
	out := NewRaster(r.Width, r.Height)
	for i, v := range m.Pix {
		src := r.Pix[i*3 : i*3+3 : i*3+3]
		dst := out.Pix[i*3 : i*3+3 : i*3+3]
		dst[0] = src[0] * v
		dst[1] = src[1] * v
		dst[2] = src[2] * v
	}
	return out, nil
}

// checkFinite reports ErrNumericFailure if any sample of r is NaN or infinite.
func checkFinite(r *Raster) error {
	for i, v := range r.Pix {
		f := float64(v)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return fmt.Errorf("%w: sample at (%d, %d) is %g", ErrNumericFailure, i/3%r.Width, i/3/r.Width, f)
		}
	}
	return nil
}

// NRGBA quantizes r to 8 bits per channel, clamping to [0, 255].
func (r *Raster) NRGBA() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, r.Width, r.Height))
	for y := 0; y < r.Height; y++ {
		src := r.Pix[y*r.Width*3 : (y+1)*r.Width*3]
		dst := img.Pix[y*img.Stride : y*img.Stride+r.Width*4]
		for x := 0; x < r.Width; x++ {
			s := src[x*3 : x*3+3 : x*3+3]
			d := dst[x*4 : x*4+4 : x*4+4]
			d[0] = quantize(s[0])
			d[1] = quantize(s[1])
			d[2] = quantize(s[2])
			d[3] = 0xff
		}
	}
	return img
}

func quantize(v float32) uint8 {
	v = v*255 + 0.5
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v)
}
