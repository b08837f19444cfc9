package importer

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	_ "image/jpeg"

	"github.com/milk9111/spriteanimator/animation"
)

var ErrNoOutput = errors.New("importer: no output path")

// Request describes one sheet import.
type Request struct {
	// Source is the sprite sheet to cut.
	Source string
	Rows   int
	Cols   int
	Order  Order
	// Duration is each frame's length in seconds. Zero means
	// animation.DefaultFrameDuration.
	Duration   float64
	Loop       bool
	UpdateMode animation.UpdateMode
	// Output is the asset path. Cell images go into a directory named after
	// the asset beside it.
	Output string
}

// Result reports what Save wrote.
type Result struct {
	Animation *animation.Animation
	Asset     string
	FrameDir  string
	Frames    []string
	Removed   []string
}

// Save cuts the sheet and writes the frame images and the asset. Nothing on
// disk changes unless the sheet was read, decoded and sliced successfully.
// Frame images from an earlier import that the new asset no longer uses are
// removed. Playback speed and base offset of an existing asset are kept.
func Save(req Request) (*Result, error) {
	if req.Output == "" {
		return nil, ErrNoOutput
	}
	img, err := decodeFile(req.Source)
	if err != nil {
		return nil, err
	}
	cells, err := Slice(img, req.Rows, req.Cols, req.Order)
	if err != nil {
		return nil, fmt.Errorf("importer: slice %s: %w", req.Source, err)
	}
	encoded := make([][]byte, len(cells))
	for i, c := range cells {
		var buf bytes.Buffer
		if err := png.Encode(&buf, c.Image); err != nil {
			return nil, fmt.Errorf("importer: encode cell %d: %w", i, err)
		}
		encoded[i] = buf.Bytes()
	}

	duration := req.Duration
	if duration <= 0 {
		duration = animation.DefaultFrameDuration
	}
	name := assetName(req.Output)
	frameDir := filepath.Join(filepath.Dir(req.Output), name)
	if err := os.MkdirAll(frameDir, 0o755); err != nil {
		return nil, fmt.Errorf("importer: %w", err)
	}

	res := &Result{Asset: req.Output, FrameDir: frameDir}
	width := max(2, len(fmt.Sprint(len(cells)-1)))
	for i, data := range encoded {
		p := filepath.Join(frameDir, fmt.Sprintf("%s_%0*d.png", name, width, i))
		if err := os.WriteFile(p, data, 0o644); err != nil {
			return nil, fmt.Errorf("importer: write frame %d: %w", i, err)
		}
		res.Frames = append(res.Frames, p)
	}

	anim := animation.FromImages(name, res.Frames, duration)
	anim.Loop = req.Loop
	anim.UpdateMode = req.UpdateMode
	anim.Sheet = &animation.SheetSource{Image: req.Source, Rows: req.Rows, Cols: req.Cols, Order: req.Order.String()}
	if prev, err := animation.LoadFile(req.Output); err == nil {
		anim.PlaybackSpeed = prev.PlaybackSpeed
		anim.Offset = prev.Offset
	}
	if err := animation.SaveFile(req.Output, anim); err != nil {
		return nil, fmt.Errorf("importer: %w", err)
	}
	res.Animation = anim

	removed, err := removeStale(frameDir, name, res.Frames)
	if err != nil {
		log.Printf("importer: cleanup %s: %v", frameDir, err)
	}
	res.Removed = removed
	return res, nil
}

func decodeFile(path string) (image.Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("importer: read %s: %w", path, err)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("importer: decode %s: %w", path, err)
	}
	return img, nil
}

func assetName(output string) string {
	base := filepath.Base(output)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// removeStale deletes generated frame images in dir that keep does not list.
func removeStale(dir, name string, keep []string) ([]string, error) {
	pattern := regexp.MustCompile(`^` + regexp.QuoteMeta(name) + `_\d+\.png$`)
	kept := make(map[string]bool, len(keep))
	for _, k := range keep {
		kept[filepath.Base(k)] = true
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var removed []string
	var errs []error
	for _, e := range entries {
		if e.IsDir() || kept[e.Name()] || !pattern.MatchString(e.Name()) {
			continue
		}
		p := filepath.Join(dir, e.Name())
		if err := os.Remove(p); err != nil {
			errs = append(errs, err)
			continue
		}
		removed = append(removed, p)
	}
	return removed, errors.Join(errs...)
}
