// Package storage keeps rendered mockups on the local filesystem.
package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/youruser/mockupapp/internal/util"
)

// ErrNotFound is returned for ids with no stored object.
var ErrNotFound = errors.New("storage: object not found")

const prefix = "mockups"

// Object describes a stored PNG.
type Object struct {
	ID  string `json:"id"`
	Key string `json:"key"`
	URL string `json:"url"`
}

// Local stores PNGs under dir/mockups and serves them from baseURL.
type Local struct {
	dir     string
	baseURL string
}

// NewLocal creates the storage directory and returns a Local store. URLs are
// built as baseURL + "/api/v1/mockups/" + id.
func NewLocal(dir, baseURL string) (*Local, error) {
	if err := util.EnsureDir(filepath.Join(dir, prefix)); err != nil {
		return nil, fmt.Errorf("storage: %w", err)
	}
	return &Local{dir: dir, baseURL: baseURL}, nil
}

// Save writes a PNG under a fresh id.
func (s *Local) Save(png []byte) (Object, error) {
	id := uuid.NewString()
	key := prefix + "/" + id + ".png"
	if err := util.WriteFileAtomic(filepath.Join(s.dir, filepath.FromSlash(key)), png); err != nil {
		return Object{}, fmt.Errorf("storage: save %s: %w", key, err)
	}
	return Object{ID: id, Key: key, URL: s.URL(id)}, nil
}

// Load returns the PNG stored under id.
func (s *Local) Load(id string) ([]byte, error) {
	u, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	b, err := os.ReadFile(filepath.Join(s.dir, prefix, u.String()+".png"))
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	return b, err
}

// URL returns the public URL of id.
func (s *Local) URL(id string) string {
	return s.baseURL + "/api/v1/mockups/" + id
}
