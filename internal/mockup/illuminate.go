package mockup

import (
	"image"
)

// Rec. 601 luma weights.
const (
	lumaR = 0.299
	lumaG = 0.587
	lumaB = 0.114
)

// IlluminationMask derives a shading mask from the luma of base. The darkest
// pixel maps to lo and the brightest to hi, linearly in between. A flat base
// yields a mask of 1 everywhere.
func IlluminationMask(base image.Image, lo, hi float64) (*Mask, error) {
	if base == nil || base.Bounds().Empty() {
		return nil, invalidf("base is empty")
	}
	if lo > hi {
		return nil, invalidf("illumination range [%g, %g] is inverted", lo, hi)
	}
	src := toNRGBA(base)
	w, h := src.Bounds().Dx(), src.Bounds().Dy()
	m := newMask(w, h)

	minY, maxY := float32(255), float32(0)
	for y := 0; y < h; y++ {
		row := src.Pix[y*src.Stride : y*src.Stride+w*4]
		dst := m.Pix[y*w : (y+1)*w]
		for x := range dst {
			p := row[x*4 : x*4+3 : x*4+3]
			v := float32(lumaR*float64(p[0]) + lumaG*float64(p[1]) + lumaB*float64(p[2]))
			dst[x] = v
			minY = min(minY, v)
			maxY = max(maxY, v)
		}
	}

	if maxY <= minY {
		m.Fill(1)
		return m, nil
	}
	span := float64(maxY - minY)
	for i, v := range m.Pix {
		m.Pix[i] = float32(lo + float64(v-minY)/span*(hi-lo))
	}
	return m, nil
}

// Illuminate shades r with the illumination mask of base.
func Illuminate(r *Raster, base image.Image, lo, hi float64) (*Raster, error) {
	m, err := IlluminationMask(base, lo, hi)
	if err != nil {
		return nil, err
	}
	return ApplyMask(r, m)
}
