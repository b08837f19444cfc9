package animation

import (
	"fmt"
	"io/fs"
	"maps"
	"slices"
)

// Library caches assets loaded from one file system by their path.
type Library struct {
	fsys   fs.FS
	assets map[string]*Animation
}

func NewLibrary(fsys fs.FS) *Library {
	return &Library{fsys: fsys, assets: make(map[string]*Animation)}
}

// Load returns the cached asset at name, reading it on first use.
func (l *Library) Load(name string) (*Animation, error) {
	if a, ok := l.assets[name]; ok {
		return a, nil
	}
	a, err := LoadFS(l.fsys, name)
	if err != nil {
		return nil, err
	}
	l.assets[name] = a
	return a, nil
}

// Reload re-reads a cached asset and overwrites it in place, so animators
// holding the pointer play the new frames on their next tick. An asset that
// fails to load keeps its previous contents.
func (l *Library) Reload(name string) (*Animation, error) {
	fresh, err := LoadFS(l.fsys, name)
	if err != nil {
		return nil, fmt.Errorf("animation: reload: %w", err)
	}
	if a, ok := l.assets[name]; ok {
		*a = *fresh
		return a, nil
	}
	l.assets[name] = fresh
	return fresh, nil
}

func (l *Library) Get(name string) (*Animation, bool) {
	a, ok := l.assets[name]
	return a, ok
}

// Keys returns the cached asset paths, sorted.
func (l *Library) Keys() []string {
	return slices.Sorted(maps.Keys(l.assets))
}
