package mockup

import (
	"bytes"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// Result is an encoded mockup.
type Result struct {
	PNG    []byte
	Width  int
	Height int
}

// Render composites artwork onto base and returns the PNG-encoded mockup.
// The stages run strictly in order; the first failure aborts the render
// and is returned as a *StageError naming the stage that was being entered.
//
// Render keeps no state between calls and is safe for concurrent use.
func Render(base, artwork image.Image, p Params) (*Result, error) {
	if err := p.Validate(); err != nil {
		return nil, &StageError{Stage: StageReceived, Err: err}
	}
	if base == nil || base.Bounds().Empty() {
		return nil, &StageError{Stage: StageReceived, Err: invalidf("base image is empty")}
	}
	w, h := base.Bounds().Dx(), base.Bounds().Dy()
	if w > p.MaxDimension || h > p.MaxDimension {
		return nil, &StageError{Stage: StageReceived, Err: invalidf("base image is %dx%d, limit is %d per side", w, h, p.MaxDimension)}
	}

	// Blend and Illuminate both read the base; convert it once.
	base = toNRGBA(base)

	layer, err := Place(w, h, artwork, p.Rotation, p.Filter)
	if err != nil {
		return nil, &StageError{Stage: StageResized, Err: err}
	}

	blended, err := Blend(base, layer)
	if err != nil {
		return nil, &StageError{Stage: StageBlended, Err: err}
	}

	lit, err := Illuminate(blended, base, p.IlluminationMin, p.IlluminationMax)
	if err == nil {
		err = checkFinite(lit)
	}
	if err != nil {
		return nil, &StageError{Stage: StageIlluminated, Err: err}
	}

	out, err := Vignette(lit, p.VignetteStrength, p.VignetteSmoothness)
	if err == nil {
		err = checkFinite(out)
	}
	if err != nil {
		return nil, &StageError{Stage: StageVignetted, Err: err}
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, out.NRGBA(), imaging.PNG); err != nil {
		return nil, &StageError{Stage: StageEncoded, Err: fmt.Errorf("%w: %v", ErrEncodingFailed, err)}
	}
	return &Result{PNG: buf.Bytes(), Width: w, Height: h}, nil
}

// RenderBytes decodes base and artwork, then renders them with p.
func RenderBytes(base, artwork []byte, p Params) (*Result, error) {
	baseImg, err := Decode(base, p.MaxDimension)
	if err != nil {
		return nil, &StageError{Stage: StageReceived, Err: fmt.Errorf("base: %w", err)}
	}
	artImg, err := Decode(artwork, p.MaxDimension)
	if err != nil {
		return nil, &StageError{Stage: StageReceived, Err: fmt.Errorf("artwork: %w", err)}
	}
	return Render(baseImg, artImg, p)
}
