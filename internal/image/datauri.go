package imagepkg

import (
	"encoding/base64"
	"errors"
	"strings"
)

// ErrBadDataURI is returned for data URIs that are not base64 images.
var ErrBadDataURI = errors.New("malformed image data uri")

// DataURI encodes data as a base64 data URI of the given MIME type.
func DataURI(mime string, data []byte) string {
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// ParseDataURI splits a "data:image/...;base64,..." URI into its MIME type
// and decoded payload.
func ParseDataURI(s string) (mime string, data []byte, err error) {
	header, payload, ok := strings.Cut(strings.TrimPrefix(s, "data:"), ",")
	if !ok || !strings.HasPrefix(s, "data:") {
		return "", nil, ErrBadDataURI
	}
	mime, enc, _ := strings.Cut(header, ";")
	if !strings.HasPrefix(mime, "image/") || enc != "base64" {
		return "", nil, ErrBadDataURI
	}
	data, err = base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, errors.Join(ErrBadDataURI, err)
	}
	return mime, data, nil
}
