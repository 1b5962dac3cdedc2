package mockup

import "math"

// VignetteMask builds a w×h mask from the outer product of two Gaussians
// centered on the image, with sigmas w*smoothness and h*smoothness. The
// mask is rescaled so its minimum (the corners) is strength and its maximum
// is 1. A kernel without variation (1×1) yields 1 everywhere.
func VignetteMask(w, h int, strength, smoothness float64) (*Mask, error) {
	if w <= 0 || h <= 0 {
		return nil, invalidf("vignette size %dx%d", w, h)
	}
	if !(strength > 0 && strength <= 1) {
		return nil, invalidf("vignette strength %g must be in (0, 1]", strength)
	}
	if !(smoothness > 0) || math.IsInf(smoothness, 0) {
		return nil, invalidf("vignette smoothness %g must be positive", smoothness)
	}

	kx, minX, maxX := gaussian(w, float64(w)*smoothness)
	ky, minY, maxY := gaussian(h, float64(h)*smoothness)
	kmin, kmax := minX*minY, maxX*maxY

	m := newMask(w, h)
	if kmax <= kmin {
		m.Fill(1)
		return m, nil
	}
	scale := (1 - strength) / (kmax - kmin)
	for y, gy := range ky {
		row := m.Pix[y*w : (y+1)*w]
		for x, gx := range kx {
			row[x] = float32(math.Min(1, strength+(gx*gy-kmin)*scale))
		}
	}
	return m, nil
}

// Vignette darkens r towards its corners.
func Vignette(r *Raster, strength, smoothness float64) (*Raster, error) {
	m, err := VignetteMask(r.Width, r.Height, strength, smoothness)
	if err != nil {
		return nil, err
	}
	return ApplyMask(r, m)
}

// gaussian returns an unnormalized Gaussian kernel of n taps centered at
// (n-1)/2, along with its smallest and largest tap. The normalization
// constant cancels out in the min-max rescale of VignetteMask.
func gaussian(n int, sigma float64) (k []float64, lo, hi float64) {
	k = make([]float64, n)
	c := float64(n-1) / 2
	lo, hi = math.Inf(1), math.Inf(-1)
	for i := range k {
		d := float64(i) - c
		k[i] = math.Exp(-d * d / (2 * sigma * sigma))
		lo = math.Min(lo, k[i])
		hi = math.Max(hi, k[i])
	}
	return k, lo, hi
}
