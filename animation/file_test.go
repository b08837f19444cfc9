package animation

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDecodeDefaults(t *testing.T) {
	a, err := Decode([]byte(`
loop: true
update_mode: unscaled
frames:
  - image: a.png
    duration: 0.1
`))
	if err != nil {
		t.Fatal(err)
	}
	if a.PlaybackSpeed != 1 {
		t.Fatalf("expected default speed 1, got %v", a.PlaybackSpeed)
	}
	if a.UpdateMode != Unscaled || !a.Loop {
		t.Fatalf("unexpected metadata %+v", a)
	}
}

func TestDecodeRejects(t *testing.T) {
	cases := map[string]string{
		"negative_duration": "frames:\n  - image: a.png\n    duration: -1\n",
		"bad_update_mode":   "update_mode: sideways\n",
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := Decode([]byte(src)); err == nil {
				t.Fatalf("expected error")
			}
		})
	}

	_, err := Decode([]byte(cases["negative_duration"]))
	if !errors.Is(err, ErrNegativeDuration) {
		t.Fatalf("expected ErrNegativeDuration, got %v", err)
	}
}

func TestDecodeClampsSpeed(t *testing.T) {
	a, err := Decode([]byte("playback_speed: -2\n"))
	if err != nil {
		t.Fatal(err)
	}
	if a.PlaybackSpeed != 0 {
		t.Fatalf("expected 0, got %v", a.PlaybackSpeed)
	}
}

func TestSaveLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hero", "idle.yaml")

	a := FromImages("", []string{
		filepath.Join(dir, "hero", "sprites", "idle_00.png"),
		filepath.Join(dir, "hero", "sprites", "idle_01.png"),
	}, 0.2)
	a.Offset = Vec{X: 1, Y: 2}

	if err := SaveFile(path, a); err != nil {
		t.Fatal(err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(raw), "sprites/idle_00.png") || strings.Contains(string(raw), dir) {
		t.Fatalf("expected relative image paths, got:\n%s", raw)
	}

	loaded, err := LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Name != "idle" {
		t.Fatalf("expected name from file, got %q", loaded.Name)
	}
	if len(loaded.Frames) != 2 || loaded.Frames[1].Image != a.Frames[1].Image {
		t.Fatalf("frames did not survive: %+v", loaded.Frames)
	}
	if loaded.Offset != a.Offset || loaded.PlaybackSpeed != 1 {
		t.Fatalf("metadata did not survive: %+v", loaded)
	}
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}
