// Package render loads sprite images and draws sprite renderers with
// Ebitengine.
package render

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/png"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2"
)

var ErrImageNotFound = errors.New("render: image not found")

// Registry caches decoded images by their reference key. Keys are looked up
// in each file system in order, then on disk.
type Registry struct {
	images map[string]*ebiten.Image
	roots  []fs.FS
}

func NewRegistry(roots ...fs.FS) *Registry {
	return &Registry{images: make(map[string]*ebiten.Image), roots: roots}
}

// Register stores an image by key.
func (r *Registry) Register(key string, img *ebiten.Image) {
	if key == "" || img == nil {
		return
	}
	r.images[key] = img
}

// Get returns a cached image by key.
func (r *Registry) Get(key string) *ebiten.Image {
	if key == "" {
		return nil
	}
	return r.images[key]
}

// Forget drops a cached image so the next Load reads it again.
func (r *Registry) Forget(key string) {
	delete(r.images, key)
}

// Load returns the image for key, decoding and caching it on first use.
func (r *Registry) Load(key string) (*ebiten.Image, error) {
	if key == "" {
		return nil, fmt.Errorf("render: empty image key")
	}
	if img := r.Get(key); img != nil {
		return img, nil
	}
	b, err := r.read(key)
	if err != nil {
		return nil, err
	}
	im, _, err := image.Decode(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("render: decode %s: %w", key, err)
	}
	img := ebiten.NewImageFromImage(im)
	r.Register(key, img)
	return img, nil
}

func (r *Registry) read(key string) ([]byte, error) {
	for _, root := range r.roots {
		if root == nil || !fs.ValidPath(key) {
			continue
		}
		if b, err := fs.ReadFile(root, key); err == nil {
			return b, nil
		}
	}
	tried := []string{key, filepath.Join("assets", key)}
	for _, p := range tried {
		if b, err := os.ReadFile(p); err == nil {
			return b, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrImageNotFound, key)
}
