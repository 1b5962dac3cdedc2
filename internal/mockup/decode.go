package mockup

import (
	"bytes"
	"image"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"
)

// Decode decodes an encoded image, rejecting empty data and images wider or
// taller than maxDim before any pixel memory is allocated.
func Decode(data []byte, maxDim int) (image.Image, error) {
	if len(data) == 0 {
		return nil, invalidf("image data is empty")
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, invalidf("decode config: %v", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, invalidf("%s image is %dx%d", format, cfg.Width, cfg.Height)
	}
	if maxDim > 0 && (cfg.Width > maxDim || cfg.Height > maxDim) {
		return nil, invalidf("%s image is %dx%d, limit is %d per side", format, cfg.Width, cfg.Height, maxDim)
	}
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, invalidf("decode %s: %v", format, err)
	}
	return img, nil
}
