package inference

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// OutputKind tells how an inference result points at its image.
type OutputKind int

const (
	// OutputURL is a fetchable URL (http, https or data).
	OutputURL OutputKind = iota + 1
	// OutputPath is a file path on the inference server.
	OutputPath
)

func (k OutputKind) String() string {
	switch k {
	case OutputURL:
		return "url"
	case OutputPath:
		return "path"
	}
	return "unknown"
}

// Output is the image reference found in an inference result.
type Output struct {
	Kind  OutputKind
	Value string
}

var errNoImage = errors.New("inference: result holds no image")

// parseOutput extracts the image reference from a result payload. The
// payload is either a single value or a tuple whose first element is the
// image; a value is a plain string or a file object with url/path fields.
func parseOutput(raw json.RawMessage) (Output, error) {
	raw = json.RawMessage(strings.TrimSpace(string(raw)))
	if len(raw) == 0 {
		return Output{}, errNoImage
	}
	switch raw[0] {
	case '[':
		var tuple []json.RawMessage
		if err := json.Unmarshal(raw, &tuple); err != nil {
			return Output{}, fmt.Errorf("inference: decode tuple: %w", err)
		}
		if len(tuple) == 0 {
			return Output{}, errNoImage
		}
		return parseOutput(tuple[0])
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return Output{}, fmt.Errorf("inference: decode string: %w", err)
		}
		return classify(s)
	case '{':
		var f struct {
			URL  string `json:"url"`
			Path string `json:"path"`
		}
		if err := json.Unmarshal(raw, &f); err != nil {
			return Output{}, fmt.Errorf("inference: decode file: %w", err)
		}
		if f.URL != "" {
			return Output{Kind: OutputURL, Value: f.URL}, nil
		}
		return classify(f.Path)
	}
	return Output{}, fmt.Errorf("%w: unexpected %.32s", errNoImage, raw)
}

func classify(s string) (Output, error) {
	switch {
	case s == "":
		return Output{}, errNoImage
	case strings.HasPrefix(s, "http://"), strings.HasPrefix(s, "https://"), strings.HasPrefix(s, "data:"):
		return Output{Kind: OutputURL, Value: s}, nil
	default:
		return Output{Kind: OutputPath, Value: s}, nil
	}
}
