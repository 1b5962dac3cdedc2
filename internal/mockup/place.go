package mockup

import (
	"image"
	"math"

	"github.com/disintegration/imaging"
	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
)

// Place stretches artwork to exactly w×h and rotates it by degrees
// (counter-clockwise on screen) about the image center. The result is a w×h
// layer; pixels outside the rotated artwork are transparent black, so
// corners of the artwork may be clipped for angles that are not multiples
// of 180.
func Place(w, h int, artwork image.Image, degrees float64, filter imaging.ResampleFilter) (*image.NRGBA, error) {
	if w <= 0 || h <= 0 {
		return nil, invalidf("canvas size %dx%d", w, h)
	}
	if artwork == nil || artwork.Bounds().Empty() {
		return nil, invalidf("artwork is empty")
	}
	if math.IsNaN(degrees) || math.IsInf(degrees, 0) {
		return nil, invalidf("rotation %g is not finite", degrees)
	}

	// imaging.Resize clones when the size already matches, so the layer is
	// always ours to return.
	layer := imaging.Resize(artwork, w, h, filter)
	if layer.Bounds().Dx() != w || layer.Bounds().Dy() != h {
		return nil, invalidf("artwork could not be resized to %dx%d", w, h)
	}

	degrees = math.Mod(degrees, 360)
	if degrees == 0 {
		return layer, nil
	}

	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.BiLinear.Transform(dst, rotation(degrees, float64(w)/2, float64(h)/2), layer, layer.Bounds(), draw.Src, nil)
	return dst, nil
}

// rotation returns the source-to-destination matrix for a counter-clockwise
// rotation about (cx, cy) in y-down image coordinates.
func rotation(degrees, cx, cy float64) f64.Aff3 {
	sin, cos := math.Sincos(degrees * math.Pi / 180)
	return f64.Aff3{
		cos, sin, (1-cos)*cx - sin*cy,
		-sin, cos, sin*cx + (1-cos)*cy,
	}
}
