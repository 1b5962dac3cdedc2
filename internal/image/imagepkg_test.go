package imagepkg

import (
	"bytes"
	"context"
	"errors"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/youruser/mockupapp/internal/util"
)

func TestDataURIRoundTrip(t *testing.T) {
	uri := DataURI("image/png", []byte{1, 2, 3})
	if uri != "data:image/png;base64,AQID" {
		t.Fatalf("DataURI() = %q", uri)
	}
	mime, data, err := ParseDataURI(uri)
	if err != nil || mime != "image/png" || !bytes.Equal(data, []byte{1, 2, 3}) {
		t.Errorf("ParseDataURI() = %q, %v, %v", mime, data, err)
	}
}

func TestParseDataURIErrors(t *testing.T) {
	for _, s := range []string{
		"image/png;base64,AQID",
		"data:image/png;base64",
		"data:text/plain;base64,AQID",
		"data:image/png,AQID",
		"data:image/png;base64,***",
	} {
		if _, _, err := ParseDataURI(s); !errors.Is(err, ErrBadDataURI) {
			t.Errorf("ParseDataURI(%q) error = %v, want ErrBadDataURI", s, err)
		}
	}
}

func TestFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/art.png" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte("pngbytes"))
	}))
	defer srv.Close()

	f := NewFetcher(time.Second, 16)
	f.Client = srv.Client()
	ctx := context.Background()

	b, err := f.Fetch(ctx, srv.URL+"/art.png")
	if err != nil || string(b) != "pngbytes" {
		t.Errorf("Fetch(http) = %q, %v", b, err)
	}
	if _, err := f.Fetch(ctx, srv.URL+"/missing.png"); err == nil {
		t.Error("Fetch(404) error = nil")
	}
	b, err = f.Fetch(ctx, DataURI("image/png", []byte("inline")))
	if err != nil || string(b) != "inline" {
		t.Errorf("Fetch(data) = %q, %v", b, err)
	}
	if _, err := f.Fetch(ctx, DataURI("image/png", make([]byte, 17))); !errors.Is(err, util.ErrTooLarge) {
		t.Errorf("Fetch(large data) error = %v, want ErrTooLarge", err)
	}
	// Oversized payloads are rejected before they are decoded.
	if _, err := f.Fetch(ctx, "data:image/png;base64,"+strings.Repeat("!", 100)); !errors.Is(err, util.ErrTooLarge) {
		t.Errorf("Fetch(large undecodable data) error = %v, want ErrTooLarge", err)
	}
	if _, err := f.Fetch(ctx, "file:///etc/passwd"); !errors.Is(err, ErrUnsupportedURL) {
		t.Errorf("Fetch(file) error = %v, want ErrUnsupportedURL", err)
	}
}

func TestGenerateQRPNG(t *testing.T) {
	b, err := GenerateQRPNG("https://example.com/api/v1/mockups/x", 256)
	if err != nil {
		t.Fatalf("GenerateQRPNG() error = %v", err)
	}
	img, err := png.Decode(bytes.NewReader(b))
	if err != nil {
		t.Fatalf("png.Decode() error = %v", err)
	}
	if s := img.Bounds().Dx(); s != 256 {
		t.Errorf("QR width = %d, want 256", s)
	}
	if _, err := GenerateQRPNG("x", 10); err == nil {
		t.Error("GenerateQRPNG(size 10) error = nil")
	}
}
