// Package animation holds sprite animation assets: an ordered list of
// frames plus loop, update mode, playback speed and base offset metadata.
// Assets are authored by the import tool and read-only during playback.
package animation

import (
	"errors"
	"fmt"
	"iter"
	"math"
	"time"
)

var (
	ErrEmptyAnimation   = errors.New("animation: no frames")
	ErrFrameOutOfRange  = errors.New("animation: frame index out of range")
	ErrNegativeDuration = errors.New("animation: negative frame duration")
)

// Forever is returned for frames that never end, e.g. at zero playback speed.
const Forever time.Duration = math.MaxInt64

// DefaultFrameDuration is the per-frame duration used by the import tool.
const DefaultFrameDuration = 0.1

// Vec is a 2D offset in world units.
type Vec struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

func (v Vec) Add(o Vec) Vec {
	return Vec{X: v.X + o.X, Y: v.Y + o.Y}
}

func (v Vec) IsZero() bool {
	return v.X == 0 && v.Y == 0
}

// Frame is one image shown for Duration seconds at Offset.
type Frame struct {
	Image    string  `yaml:"image"`
	Duration float64 `yaml:"duration"`
	Offset   Vec     `yaml:"offset,omitempty"`
}

// SheetSource records how an asset's frames were cut from a sheet so the
// import tool can regenerate them.
type SheetSource struct {
	Image string `yaml:"image"`
	Rows  int    `yaml:"rows"`
	Cols  int    `yaml:"cols"`
	Order string `yaml:"order,omitempty"`
}

type Animation struct {
	Name          string       `yaml:"name,omitempty"`
	Loop          bool         `yaml:"loop"`
	UpdateMode    UpdateMode   `yaml:"update_mode"`
	PlaybackSpeed float64      `yaml:"playback_speed"`
	Offset        Vec          `yaml:"offset"`
	Frames        []Frame      `yaml:"frames"`
	Sheet         *SheetSource `yaml:"sheet,omitempty"`
}

// New returns an empty animation at normal speed.
func New(name string) *Animation {
	return &Animation{Name: name, PlaybackSpeed: 1}
}

// FromImages builds an animation with one frame per image, each lasting
// duration seconds.
func FromImages(name string, images []string, duration float64) *Animation {
	a := New(name)
	a.SetFrames(images, duration)
	return a
}

// SetFrames replaces the frame list with one zero-offset frame per image.
func (a *Animation) SetFrames(images []string, duration float64) {
	frames := make([]Frame, len(images))
	for i, img := range images {
		frames[i] = Frame{Image: img, Duration: duration}
	}
	a.Frames = frames
}

func (a *Animation) FrameCount() int {
	if a == nil {
		return 0
	}
	return len(a.Frames)
}

// Speed returns the playback speed clamped at zero.
func (a *Animation) Speed() float64 {
	return math.Max(0, a.PlaybackSpeed)
}

func (a *Animation) SetPlaybackSpeed(v float64) {
	a.PlaybackSpeed = math.Max(0, v)
}

// Frame returns the frame at index i.
func (a *Animation) Frame(i int) (Frame, error) {
	if i < 0 || i >= a.FrameCount() {
		return Frame{}, fmt.Errorf("%w: %d not in [0, %d)", ErrFrameOutOfRange, i, a.FrameCount())
	}
	return a.Frames[i], nil
}

// WrapIndex reduces a frame counter to a frame index: modulo the frame count
// when looping, clamped to the last frame otherwise.
func (a *Animation) WrapIndex(counter uint64) (int, error) {
	n := uint64(a.FrameCount())
	if n == 0 {
		return 0, ErrEmptyAnimation
	}
	if a.Loop {
		return int(counter % n), nil
	}
	return int(min(counter, n-1)), nil
}

// FrameWrapped returns the frame a counter lands on after WrapIndex.
func (a *Animation) FrameWrapped(counter uint64) (Frame, error) {
	i, err := a.WrapIndex(counter)
	if err != nil {
		return Frame{}, err
	}
	return a.Frames[i], nil
}

// FrameOffset returns the frame offset plus the asset's base offset.
func (a *Animation) FrameOffset(f Frame) Vec {
	return f.Offset.Add(a.Offset)
}

func (a *Animation) OffsetAt(i int) (Vec, error) {
	f, err := a.Frame(i)
	if err != nil {
		return Vec{}, err
	}
	return a.FrameOffset(f), nil
}

func (a *Animation) OffsetWrapped(counter uint64) (Vec, error) {
	f, err := a.FrameWrapped(counter)
	if err != nil {
		return Vec{}, err
	}
	return a.FrameOffset(f), nil
}

// FrameDuration returns how long f stays on screen in real time.
// speedScale is the animator's own multiplier. In Scaled mode the engine
// timeScale applies as well: at half time scale frames last twice as long.
func (a *Animation) FrameDuration(f Frame, speedScale, timeScale float64) time.Duration {
	if f.Duration <= 0 {
		return 0
	}
	rate := speedScale * a.Speed()
	if a.UpdateMode == Scaled {
		rate *= timeScale
	}
	if rate <= 0 {
		return Forever
	}
	secs := f.Duration / rate
	if secs >= Forever.Seconds() {
		return Forever
	}
	return time.Duration(secs * float64(time.Second))
}

// TotalDuration is the unscaled length of one pass, adjusted by playback
// speed.
func (a *Animation) TotalDuration() time.Duration {
	var total time.Duration
	for _, f := range a.Frames {
		d := a.FrameDuration(f, 1, 1)
		if d == Forever {
			return Forever
		}
		total += d
	}
	return total
}

// All iterates frames in order.
func (a *Animation) All() iter.Seq2[int, Frame] {
	return func(yield func(int, Frame) bool) {
		if a == nil {
			return
		}
		for i, f := range a.Frames {
			if !yield(i, f) {
				return
			}
		}
	}
}

// Validate reports authoring errors that playback cannot recover from.
func (a *Animation) Validate() error {
	for i, f := range a.Frames {
		if f.Duration < 0 || math.IsNaN(f.Duration) {
			return fmt.Errorf("frame %d: %w", i, ErrNegativeDuration)
		}
	}
	return nil
}
