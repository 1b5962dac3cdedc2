package mockup

import (
	"image"

	"github.com/disintegration/imaging"
)

// Blend composites layer over base with the "over" operator. The base alpha
// is ignored; the result is opaque and the size of base.
func Blend(base image.Image, layer *image.NRGBA) (*Raster, error) {
	if base == nil || layer == nil {
		return nil, invalidf("blend needs a base and a layer")
	}
	bg := toNRGBA(base)
	w, h := bg.Bounds().Dx(), bg.Bounds().Dy()
	if lw, lh := layer.Bounds().Dx(), layer.Bounds().Dy(); lw != w || lh != h {
		return nil, invalidf("layer is %dx%d, base is %dx%d", lw, lh, w, h)
	}

	out := NewRaster(w, h)
	for y := 0; y < h; y++ {
		brow := bg.Pix[y*bg.Stride : y*bg.Stride+w*4]
		lrow := layer.Pix[y*layer.Stride : y*layer.Stride+w*4]
		orow := out.Pix[y*w*3 : (y+1)*w*3]
		for x := 0; x < w; x++ {
			b := brow[x*4 : x*4+3 : x*4+3]
			l := lrow[x*4 : x*4+4 : x*4+4]
			o := orow[x*3 : x*3+3 : x*3+3]
			a := float32(l[3]) / 255
			o[0] = ((1-a)*float32(b[0]) + a*float32(l[0])) / 255
			o[1] = ((1-a)*float32(b[1]) + a*float32(l[1])) / 255
			o[2] = ((1-a)*float32(b[2]) + a*float32(l[2])) / 255
		}
	}
	return out, nil
}

// toNRGBA returns img as an NRGBA image anchored at the origin.
func toNRGBA(img image.Image) *image.NRGBA {
	if n, ok := img.(*image.NRGBA); ok && n.Rect.Min == (image.Point{}) {
		return n
	}
	return imaging.Clone(img)
}
