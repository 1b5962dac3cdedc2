// Package inference generates base surface images with a Gradio space.
package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/tmaxmax/go-sse"

	"github.com/youruser/mockupapp/internal/config"
	imagepkg "github.com/youruser/mockupapp/internal/image"
	"github.com/youruser/mockupapp/internal/util"
)

// ErrNotConfigured is returned when no space or token is set.
var ErrNotConfigured = errors.New("inference: service is not configured")

// maxEventSize bounds a single event; results arrive as file references.
const maxEventSize = 4 << 20

// Client calls a Gradio space over its REST API.
type Client struct {
	base     string
	apiName  string
	token    string
	maxBytes int64
	http     *http.Client
	fetcher  *imagepkg.Fetcher
	log      *slog.Logger
}

// New returns a client for cfg. A nil logger discards output.
func New(cfg config.Inference, maxBytes int64, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	hc := &http.Client{Timeout: cfg.Timeout}
	c := &Client{
		apiName:  strings.Trim(cfg.APIName, "/"),
		token:    cfg.Token,
		maxBytes: maxBytes,
		http:     hc,
		fetcher:  &imagepkg.Fetcher{Client: hc, MaxBytes: maxBytes},
		log:      logger,
	}
	if cfg.Space != "" {
		c.base = SpaceURL(cfg.Space)
	}
	return c
}

// SpaceURL turns an "owner/name" space id into its hf.space URL. Full URLs
// are returned without a trailing slash.
func SpaceURL(space string) string {
	if strings.HasPrefix(space, "http://") || strings.HasPrefix(space, "https://") {
		return strings.TrimRight(space, "/")
	}
	host := strings.NewReplacer("/", "-", "_", "-", ".", "-").Replace(strings.ToLower(space))
	return "https://" + host + ".hf.space"
}

// Generate runs the prompt pair through the space and returns the encoded
// image bytes.
func (c *Client) Generate(ctx context.Context, prompt, negative string) ([]byte, error) {
	if c.base == "" || c.token == "" {
		return nil, ErrNotConfigured
	}
	c.log.Info("calling inference space", "space", c.base, "api", c.apiName)

	eventID, err := c.submit(ctx, prompt, negative)
	if err != nil {
		return nil, err
	}
	payload, err := c.await(ctx, eventID)
	if err != nil {
		return nil, err
	}
	out, err := parseOutput(payload)
	if err != nil {
		return nil, err
	}
	c.log.Debug("inference result", "kind", out.Kind, "value", out.Value)

	switch out.Kind {
	case OutputPath:
		return util.GetBytes(ctx, c.http, c.base+"/gradio_api/file="+out.Value, c.auth(), c.maxBytes)
	case OutputURL:
		if strings.HasPrefix(out.Value, c.base+"/") {
			return util.GetBytes(ctx, c.http, out.Value, c.auth(), c.maxBytes)
		}
		return c.fetcher.Fetch(ctx, out.Value)
	}
	return nil, errNoImage
}

func (c *Client) auth() http.Header {
	return http.Header{"Authorization": {"Bearer " + c.token}}
}

func (c *Client) callURL() string {
	return c.base + "/gradio_api/call/" + c.apiName
}

func (c *Client) submit(ctx context.Context, prompt, negative string) (string, error) {
	body, err := json.Marshal(map[string]any{"data": []string{prompt, negative}})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.callURL(), bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header = c.auth()
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("inference: submit: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		msg, _ := util.ReadLimited(resp.Body, 512)
		return "", fmt.Errorf("inference: submit: %s: %s", resp.Status, bytes.TrimSpace(msg))
	}
	var r struct {
		EventID string `json:"event_id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
		return "", fmt.Errorf("inference: submit: %w", err)
	}
	if r.EventID == "" {
		return "", errors.New("inference: submit: no event id")
	}
	return r.EventID, nil
}

// await reads the event stream of eventID until it completes.
func (c *Client) await(ctx context.Context, eventID string) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.callURL()+"/"+eventID, nil)
	if err != nil {
		return nil, err
	}
	req.Header = c.auth()
	req.Header.Set("Accept", "text/event-stream")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("inference: stream: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("inference: stream: %s", resp.Status)
	}
	return readEvents(resp.Body)
}

// readEvents scans a server-sent event stream for the terminal event.
func readEvents(r io.Reader) (json.RawMessage, error) {
	for ev, err := range sse.Read(r, &sse.ReadConfig{MaxEventSize: maxEventSize}) {
		if err != nil {
			return nil, fmt.Errorf("inference: stream: %w", err)
		}
		switch ev.Type {
		case "complete":
			return json.RawMessage(strings.TrimSpace(ev.Data)), nil
		case "error":
			return nil, fmt.Errorf("inference: space reported an error: %s", strings.TrimSpace(ev.Data))
		}
	}
	return nil, errors.New("inference: stream ended without a result")
}
