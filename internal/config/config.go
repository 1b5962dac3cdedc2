// Package config loads the server settings from the environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/youruser/mockupapp/internal/mockup"
)

const (
	DefaultBaseImagePrompt = "crumpled white paper texture, top-down view, soft shadows, folds, wrinkles, high detail, realistic texture, neutral background"
	DefaultNegativePrompt  = "low quality, worst quality, bad anatomy, bad hands, text, error, missing fingers, " +
		"extra digit, fewer digits, cropped, jpeg artifacts, signature, watermark, " +
		"username, blurry, artist name, deformed, ugly"
)

// Config is the full server configuration.
type Config struct {
	Port          string
	DataDir       string
	PublicBaseURL string
	LogLevel      slog.Level

	// CORSAllowedOrigins lists the browser origins allowed to call the API.
	// A "*" entry allows any origin.
	CORSAllowedOrigins []string

	Inference Inference

	FetchTimeout  time.Duration
	MaxImageBytes int64

	// Render holds the default tunables; requests may override the vignette.
	Render mockup.Params
}

// Inference configures the base image generator.
type Inference struct {
	Space          string
	Token          string
	APIName        string
	Prompt         string
	NegativePrompt string
	Timeout        time.Duration
}

// Configured reports whether a space and token are set.
func (i Inference) Configured() bool {
	return i.Space != "" && i.Token != ""
}

// Load reads the configuration through getenv, usually os.Getenv.
// Every malformed value is reported, not just the first.
func Load(getenv func(string) string) (*Config, error) {
	p := parser{getenv: getenv}

	cfg := &Config{
		Port:          p.str("PORT", "8080"),
		DataDir:       p.str("DATA_DIR", "data"),
		FetchTimeout:  p.duration("FETCH_TIMEOUT", 12*time.Second),
		MaxImageBytes: int64(p.integer("MAX_IMAGE_BYTES", 20<<20)),
		Inference: Inference{
			Space:          p.str("GRADIO_HF_SPACE_NAME", ""),
			Token:          p.str("HF_TOKEN", ""),
			APIName:        p.str("GRADIO_API_NAME", "/infer"),
			Prompt:         p.str("BASE_IMAGE_PROMPT", DefaultBaseImagePrompt),
			NegativePrompt: p.str("NEGATIVE_PROMPT", DefaultNegativePrompt),
			Timeout:        p.duration("INFERENCE_TIMEOUT", 120*time.Second),
		},
	}
	cfg.CORSAllowedOrigins = p.list("CORS_ALLOWED_ORIGINS", []string{"*"})
	cfg.PublicBaseURL = strings.TrimRight(p.str("PUBLIC_BASE_URL", "http://localhost:"+cfg.Port), "/")

	if err := cfg.LogLevel.UnmarshalText([]byte(p.str("LOG_LEVEL", "info"))); err != nil {
		p.errs = append(p.errs, fmt.Errorf("LOG_LEVEL: %w", err))
	}

	r := mockup.DefaultParams()
	r.IlluminationMin = p.float("ILLUMINATION_MIN", r.IlluminationMin)
	r.IlluminationMax = p.float("ILLUMINATION_MAX", r.IlluminationMax)
	r.VignetteStrength = p.float("VIGNETTE_STRENGTH", r.VignetteStrength)
	r.VignetteSmoothness = p.float("VIGNETTE_SMOOTHNESS", r.VignetteSmoothness)
	r.MaxDimension = p.integer("MAX_IMAGE_DIMENSION", r.MaxDimension)
	cfg.Render = r

	if len(p.errs) == 0 {
		if err := r.Validate(); err != nil {
			p.errs = append(p.errs, err)
		}
		if cfg.MaxImageBytes <= 0 {
			p.errs = append(p.errs, fmt.Errorf("MAX_IMAGE_BYTES must be positive, got %d", cfg.MaxImageBytes))
		}
		for _, o := range cfg.CORSAllowedOrigins {
			if o != "*" && !strings.HasPrefix(o, "http://") && !strings.HasPrefix(o, "https://") {
				p.errs = append(p.errs, fmt.Errorf("CORS_ALLOWED_ORIGINS: %q is not an http(s) origin", o))
			}
		}
		if cfg.FetchTimeout <= 0 || cfg.Inference.Timeout <= 0 {
			p.errs = append(p.errs, errors.New("timeouts must be positive"))
		}
	}
	if err := errors.Join(p.errs...); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// Warnings lists settings that are missing but not fatal.
func (c *Config) Warnings() []string {
	var w []string
	if c.Inference.Space == "" {
		w = append(w, "GRADIO_HF_SPACE_NAME not set; base image generation is disabled")
	}
	if c.Inference.Token == "" {
		w = append(w, "HF_TOKEN not set; base image generation is disabled")
	}
	return w
}

type parser struct {
	getenv func(string) string
	errs   []error
}

func (p *parser) str(key, def string) string {
	if v := strings.TrimSpace(p.getenv(key)); v != "" {
		return v
	}
	return def
}

// list splits a comma-separated value, dropping empty entries.
func (p *parser) list(key string, def []string) []string {
	var out []string
	for _, v := range strings.Split(p.str(key, ""), ",") {
		if v = strings.TrimRight(strings.TrimSpace(v), "/"); v != "" {
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}

func (p *parser) integer(key string, def int) int {
	v := p.str(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("%s: %w", key, err))
		return def
	}
	return n
}

func (p *parser) float(key string, def float64) float64 {
	v := p.str(key, "")
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("%s: %w", key, err))
		return def
	}
	return f
}

func (p *parser) duration(key string, def time.Duration) time.Duration {
	v := p.str(key, "")
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("%s: %w", key, err))
		return def
	}
	return d
}
