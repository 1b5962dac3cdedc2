package mockup

import (
	"math"

	"github.com/disintegration/imaging"
)

// Params holds the tunables of one render.
type Params struct {
	// Rotation of the artwork in degrees, counter-clockwise on screen.
	Rotation float64

	// IlluminationMin and IlluminationMax bound the shading mask. The darkest
	// base pixel maps to IlluminationMin and the brightest to IlluminationMax.
	IlluminationMin float64
	IlluminationMax float64

	// VignetteStrength is the mask value at the darkest corner, in (0, 1].
	VignetteStrength float64
	// VignetteSmoothness scales the Gaussian sigma relative to the image size.
	// Larger values give a more gradual falloff.
	VignetteSmoothness float64

	// MaxDimension bounds the width and height of decoded inputs.
	MaxDimension int

	// Filter resamples the artwork to the base size. The zero value is
	// nearest-neighbor, as in imaging.
	Filter imaging.ResampleFilter
}

// DefaultParams returns the reference tunables.
func DefaultParams() Params {
	return Params{
		IlluminationMin:    0.3,
		IlluminationMax:    1.0,
		VignetteStrength:   0.9,
		VignetteSmoothness: 1.2,
		MaxDimension:       4096,
		Filter:             imaging.Lanczos,
	}
}

// Validate checks that every tunable is finite and in range.
func (p Params) Validate() error {
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"rotation", p.Rotation},
		{"illumination min", p.IlluminationMin},
		{"illumination max", p.IlluminationMax},
		{"vignette strength", p.VignetteStrength},
		{"vignette smoothness", p.VignetteSmoothness},
	} {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return invalidf("%s is not finite", f.name)
		}
	}
	if p.IlluminationMin < 0 || p.IlluminationMax > 1 || p.IlluminationMin > p.IlluminationMax {
		return invalidf("illumination range [%g, %g] must lie within [0, 1]", p.IlluminationMin, p.IlluminationMax)
	}
	if p.VignetteStrength <= 0 || p.VignetteStrength > 1 {
		return invalidf("vignette strength %g must be in (0, 1]", p.VignetteStrength)
	}
	if p.VignetteSmoothness <= 0 {
		return invalidf("vignette smoothness %g must be positive", p.VignetteSmoothness)
	}
	if p.MaxDimension <= 0 {
		return invalidf("max dimension %d must be positive", p.MaxDimension)
	}
	return nil
}
