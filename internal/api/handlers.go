package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/disintegration/imaging"
	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/youruser/mockupapp/internal/config"
	imagepkg "github.com/youruser/mockupapp/internal/image"
	"github.com/youruser/mockupapp/internal/inference"
	"github.com/youruser/mockupapp/internal/mockup"
	"github.com/youruser/mockupapp/internal/storage"
	"github.com/youruser/mockupapp/internal/util"
)

// Fetcher downloads source images.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Generator produces base surface images from a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt, negative string) ([]byte, error)
}

// Store keeps rendered images.
type Store interface {
	Save(png []byte) (storage.Object, error)
	Load(id string) ([]byte, error)
	URL(id string) string
}

// Handlers serves the mockup API.
type Handlers struct {
	cfg     *config.Config
	fetcher Fetcher
	gen     Generator
	store   Store
	log     *slog.Logger
}

func NewHandlers(cfg *config.Config, fetcher Fetcher, gen Generator, store Store, log *slog.Logger) *Handlers {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Handlers{cfg: cfg, fetcher: fetcher, gen: gen, store: store, log: log}
}

func (h *Handlers) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "artwork-mapping-api",
		"version": "1.0.0",
	})
}

func (h *Handlers) generateBaseImage(c *gin.Context) {
	start := time.Now()
	prompt := h.cfg.Inference.Prompt
	h.log.Info("generating base image", "prompt", prompt)

	raw, err := h.gen.Generate(c.Request.Context(), prompt, h.cfg.Inference.NegativePrompt)
	if errors.Is(err, inference.ErrNotConfigured) {
		h.fail(c, err, "Image generation service is not configured on the server.")
		return
	}
	if err != nil {
		h.fail(c, fmt.Errorf("%w: %w", errUpstream, err), "The image generation service failed.")
		return
	}
	img, err := mockup.Decode(raw, h.cfg.Render.MaxDimension)
	if err != nil {
		h.fail(c, fmt.Errorf("%w: %w", errUpstream, err), "Image generation did not return a valid image.")
		return
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		h.fail(c, err, "Failed to process the generated image.")
		return
	}
	obj, err := h.store.Save(buf.Bytes())
	if err != nil {
		h.fail(c, err, "Failed to save the generated image.")
		return
	}
	h.log.Info("base image stored", "id", obj.ID)

	c.JSON(http.StatusOK, gin.H{
		"base64Image": imagepkg.DataURI("image/png", buf.Bytes()),
		"imageUrl":    obj.URL,
		"id":          obj.ID,
		"prompt":      prompt,
		"timeTaken":   since(start),
	})
}

type mapArtworkRequest struct {
	BaseImageURL       string   `json:"baseImageUrl"`
	ArtworkURL         string   `json:"artworkUrl"`
	Rotation           float64  `json:"rotation"`
	VignetteStrength   *float64 `json:"vignetteStrength"`
	VignetteSmoothness *float64 `json:"vignetteSmoothness"`
}

func (h *Handlers) mapArtwork(c *gin.Context) {
	start := time.Now()
	// Two data URIs plus the remaining fields.
	h.limitBody(c, 2*h.cfg.MaxImageBytes*4/3+(4<<10))
	var req mapArtworkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if errors.As(err, new(*http.MaxBytesError)) {
			badRequest(c, err)
			return
		}
		abort(c, http.StatusBadRequest, "Missing or malformed JSON payload.")
		return
	}
	if req.BaseImageURL == "" || req.ArtworkURL == "" {
		abort(c, http.StatusBadRequest, "Both 'baseImageUrl' and 'artworkUrl' are required.")
		return
	}

	var base, art []byte
	g, ctx := errgroup.WithContext(c.Request.Context())
	g.Go(func() (err error) {
		base, err = h.fetch(ctx, "base image", req.BaseImageURL)
		return err
	})
	g.Go(func() (err error) {
		art, err = h.fetch(ctx, "artwork", req.ArtworkURL)
		return err
	})
	if err := g.Wait(); err != nil {
		h.fail(c, err, "Failed to download one or both images.")
		return
	}

	res, err := mockup.RenderBytes(base, art, h.params(req.Rotation, req.VignetteStrength, req.VignetteSmoothness))
	if err != nil {
		h.fail(c, err, "Image mapping process failed.")
		return
	}
	obj, err := h.store.Save(res.PNG)
	if err != nil {
		h.fail(c, err, "Image upload failed.")
		return
	}
	h.log.Info("mockup stored", "id", obj.ID, "width", res.Width, "height", res.Height, "took", time.Since(start))

	c.JSON(http.StatusOK, gin.H{
		"id":        obj.ID,
		"imageUrl":  obj.URL,
		"width":     res.Width,
		"height":    res.Height,
		"timeTaken": since(start),
	})
}

// fetch downloads one source image. Errors caused by the request itself
// pass through; everything else is an upstream failure.
func (h *Handlers) fetch(ctx context.Context, what, url string) ([]byte, error) {
	b, err := h.fetcher.Fetch(ctx, url)
	if err == nil {
		return b, nil
	}
	if statusFor(err) == http.StatusBadRequest {
		return nil, fmt.Errorf("%s: %w", what, err)
	}
	return nil, fmt.Errorf("%w: %s: %w", errUpstream, what, err)
}

// renderUpload renders two uploaded files and returns the PNG directly.
func (h *Handlers) renderUpload(c *gin.Context) {
	h.limitBody(c, 2*h.cfg.MaxImageBytes+(1<<20))
	base, err := h.formFile(c, "base")
	if err != nil {
		badRequest(c, err)
		return
	}
	art, err := h.formFile(c, "artwork")
	if err != nil {
		badRequest(c, err)
		return
	}
	rotation, err := formFloat(c, "rotation")
	if err != nil {
		abort(c, http.StatusBadRequest, err.Error())
		return
	}
	strength, err := formFloat(c, "vignetteStrength")
	if err != nil {
		abort(c, http.StatusBadRequest, err.Error())
		return
	}
	smoothness, err := formFloat(c, "vignetteSmoothness")
	if err != nil {
		abort(c, http.StatusBadRequest, err.Error())
		return
	}

	var rot float64
	if rotation != nil {
		rot = *rotation
	}
	res, err := mockup.RenderBytes(base, art, h.params(rot, strength, smoothness))
	if err != nil {
		h.fail(c, err, "Image mapping process failed.")
		return
	}
	c.Header("X-Image-Width", strconv.Itoa(res.Width))
	c.Header("X-Image-Height", strconv.Itoa(res.Height))
	c.Data(http.StatusOK, "image/png", res.PNG)
}

func (h *Handlers) formFile(c *gin.Context, field string) ([]byte, error) {
	fh, err := c.FormFile(field)
	if mbe := new(*http.MaxBytesError); errors.As(err, mbe) {
		return nil, fmt.Errorf("%q: %w", field, *mbe)
	}
	if err != nil {
		return nil, fmt.Errorf("missing %q file", field)
	}
	if fh.Size > h.cfg.MaxImageBytes {
		return nil, fmt.Errorf("%q is %d bytes, limit is %d", field, fh.Size, h.cfg.MaxImageBytes)
	}
	return readPart(fh, h.cfg.MaxImageBytes)
}

func readPart(fh *multipart.FileHeader, limit int64) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return util.ReadLimited(f, limit)
}

func formFloat(c *gin.Context, field string) (*float64, error) {
	v, ok := c.GetPostForm(field)
	if !ok || v == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil, fmt.Errorf("%q must be a number", field)
	}
	return &f, nil
}

// limitBody caps the request body at n bytes. Reads past the cap fail
// with *http.MaxBytesError.
func (h *Handlers) limitBody(c *gin.Context, n int64) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, n)
}

// params merges request overrides into the configured defaults.
func (h *Handlers) params(rotation float64, strength, smoothness *float64) mockup.Params {
	p := h.cfg.Render
	p.Rotation = rotation
	if strength != nil {
		p.VignetteStrength = *strength
	}
	if smoothness != nil {
		p.VignetteSmoothness = *smoothness
	}
	return p
}

func (h *Handlers) getMockup(c *gin.Context) {
	b, err := h.store.Load(c.Param("id"))
	if err != nil {
		h.fail(c, err, "Failed to load the mockup.")
		return
	}
	c.Header("Cache-Control", "public, max-age=31536000, immutable")
	c.Data(http.StatusOK, "image/png", b)
}

// mockupQR returns a PNG of a QR code linking to the mockup.
func (h *Handlers) mockupQR(c *gin.Context) {
	id := c.Param("id")
	if _, err := h.store.Load(id); err != nil {
		h.fail(c, err, "Failed to load the mockup.")
		return
	}
	size := 400
	if s := c.Query("size"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			abort(c, http.StatusBadRequest, "size must be an integer")
			return
		}
		size = v
	}
	if size < imagepkg.MinQRSize || size > imagepkg.MaxQRSize {
		abort(c, http.StatusBadRequest, fmt.Sprintf("size must be between %d and %d", imagepkg.MinQRSize, imagepkg.MaxQRSize))
		return
	}
	b, err := imagepkg.GenerateQRPNG(h.store.URL(id), size)
	if err != nil {
		h.fail(c, err, "Failed to generate the QR code.")
		return
	}
	c.Data(http.StatusOK, "image/png", b)
}

func since(start time.Time) string {
	return fmt.Sprintf("%.2f seconds", time.Since(start).Seconds())
}
