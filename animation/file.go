package animation

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Decode parses a YAML asset. Missing playback_speed defaults to 1; a
// negative one is clamped to 0.
func Decode(data []byte) (*Animation, error) {
	a := New("")
	if err := yaml.Unmarshal(data, a); err != nil {
		return nil, fmt.Errorf("animation: unmarshal: %w", err)
	}
	a.SetPlaybackSpeed(a.PlaybackSpeed)
	if err := a.Validate(); err != nil {
		return nil, err
	}
	return a, nil
}

func Encode(a *Animation) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(a); err != nil {
		return nil, fmt.Errorf("animation: marshal: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("animation: marshal: %w", err)
	}
	return buf.Bytes(), nil
}

// LoadFile reads an asset and resolves frame image paths against the asset's
// directory. The name defaults to the file's base name.
func LoadFile(path string) (*Animation, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("animation: load %s: %w", path, err)
	}
	a, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("animation: load %s: %w", path, err)
	}
	if a.Name == "" {
		a.Name = trimExt(filepath.Base(path))
	}
	dir := filepath.Dir(path)
	for i := range a.Frames {
		a.Frames[i].Image = resolve(dir, a.Frames[i].Image)
	}
	if a.Sheet != nil {
		a.Sheet.Image = resolve(dir, a.Sheet.Image)
	}
	return a, nil
}

// LoadFS is LoadFile for a slash-separated path inside fsys. Frame image
// paths come back as fsys paths.
func LoadFS(fsys fs.FS, name string) (*Animation, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("animation: load %s: %w", name, err)
	}
	a, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("animation: load %s: %w", name, err)
	}
	if a.Name == "" {
		a.Name = strings.TrimSuffix(path.Base(name), path.Ext(name))
	}
	dir := path.Dir(name)
	for i := range a.Frames {
		a.Frames[i].Image = resolveSlash(dir, a.Frames[i].Image)
	}
	if a.Sheet != nil {
		a.Sheet.Image = resolveSlash(dir, a.Sheet.Image)
	}
	return a, nil
}

// SaveFile writes the asset atomically. Frame image paths under the asset's
// directory are stored relative to it.
func SaveFile(path string, a *Animation) error {
	if a == nil {
		return fmt.Errorf("animation: save %s: nil animation", path)
	}
	dir := filepath.Dir(path)
	out := *a
	out.Frames = make([]Frame, len(a.Frames))
	for i, f := range a.Frames {
		f.Image = relativize(dir, f.Image)
		out.Frames[i] = f
	}
	if a.Sheet != nil {
		sheet := *a.Sheet
		sheet.Image = relativize(dir, sheet.Image)
		out.Sheet = &sheet
	}

	data, err := Encode(&out)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("animation: save %s: %w", path, err)
	}
	tmp, err := os.CreateTemp(dir, ".anim-*.yaml")
	if err != nil {
		return fmt.Errorf("animation: save %s: %w", path, err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("animation: save %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("animation: save %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("animation: save %s: %w", path, err)
	}
	return nil
}

func resolve(dir, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dir, filepath.FromSlash(p))
}

func resolveSlash(dir, p string) string {
	if p == "" || path.IsAbs(p) {
		return p
	}
	return path.Join(dir, p)
}

func relativize(dir, p string) string {
	if p == "" {
		return p
	}
	rel, err := filepath.Rel(dir, p)
	if err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return filepath.ToSlash(rel)
	}
	// outside the asset directory: keep it loadable from anywhere
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}

func trimExt(name string) string {
	return name[:len(name)-len(filepath.Ext(name))]
}
