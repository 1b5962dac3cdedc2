package imagepkg

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/youruser/mockupapp/internal/util"
)

// ErrUnsupportedURL is returned for URLs that are neither http(s) nor data URIs.
var ErrUnsupportedURL = errors.New("unsupported image url")

// Fetcher downloads source images.
type Fetcher struct {
	Client   *http.Client
	MaxBytes int64
}

// NewFetcher returns a Fetcher whose requests time out after timeout and
// whose bodies are capped at maxBytes.
func NewFetcher(timeout time.Duration, maxBytes int64) *Fetcher {
	return &Fetcher{Client: &http.Client{Timeout: timeout}, MaxBytes: maxBytes}
}

// Fetch returns the encoded image behind rawURL. Data URIs are decoded in
// process; http and https URLs are downloaded.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	if strings.HasPrefix(rawURL, "data:") {
		_, payload, _ := strings.Cut(rawURL, ",")
		if int64(base64.StdEncoding.DecodedLen(len(payload))) > f.MaxBytes+2 {
			return nil, fmt.Errorf("%w: limit is %d bytes", util.ErrTooLarge, f.MaxBytes)
		}
		_, b, err := ParseDataURI(rawURL)
		if err != nil {
			return nil, err
		}
		if int64(len(b)) > f.MaxBytes {
			return nil, fmt.Errorf("%w: limit is %d bytes", util.ErrTooLarge, f.MaxBytes)
		}
		return b, nil
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("%w: scheme %q", ErrUnsupportedURL, u.Scheme)
	}
	return util.GetBytes(ctx, f.Client, u.String(), nil, f.MaxBytes)
}
