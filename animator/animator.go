// Package animator plays animation assets on sprite renderers.
//
// A Sprite animator owns one renderer and walks its animations on a timer.
// A Composite animator references other animator entities and ticks them
// together so that all of them advance on the slowest child's schedule.
// Both are driven by the host calling Update once per frame; Update returns
// the time left until the next frame is due.
package animator

import (
	"errors"
	"fmt"
	"time"

	"github.com/milk9111/spriteanimator/animation"
	"github.com/milk9111/spriteanimator/ecs"
	"github.com/milk9111/spriteanimator/ecs/component"
)

var (
	ErrInvalidIndex  = errors.New("animator: animation index out of range")
	ErrNoAnimations  = errors.New("animator: no animations")
	ErrNoChildren    = errors.New("animator: composite has no children")
	ErrTickCycle     = errors.New("animator: composite ticked itself")
	ErrNilAnimation  = errors.New("animator: nil animation")
	ErrNotAnimatable = errors.New("animator: entity has no animator")
)

type PlaybackState int

const (
	Stopped PlaybackState = iota
	Paused
	Running
)

func (s PlaybackState) String() string {
	switch s {
	case Stopped:
		return "stopped"
	case Paused:
		return "paused"
	case Running:
		return "running"
	default:
		return fmt.Sprintf("PlaybackState(%d)", int(s))
	}
}

// Ticker draws the frame counter of an animation and reports how long that
// frame stays on screen. FrameWait reports the same duration without
// drawing anything.
type Ticker interface {
	TickFrame(animationIndex int, frameCounter uint64, timeScale float64) (time.Duration, error)
	FrameWait(animationIndex int, frameCounter uint64, timeScale float64) (time.Duration, error)
}

// Animator is the surface gameplay code and scripts use.
type Animator interface {
	Ticker

	PlayAnimation(index int, opts ...PlayOption) bool
	StartPlayback()
	PausePlayback()
	ResumePlayback()
	StopPlayback()
	Update(dt time.Duration, timeScale float64) time.Duration

	State() PlaybackState
	IsRunning() bool
	CurrentAnimation() int
	FrameCounter() uint64
	AnimationCount() int
	Animations() []*animation.Animation

	FlipX() bool
	FlipY() bool
	SetFlipX(v bool)
	SetFlipY(v bool)
	PlaybackSpeed() float64
	SetPlaybackSpeed(v float64)

	// Enabled reports whether the host drives this animator on its own.
	// Composites disable their children.
	Enabled() bool
	SetEnabled(v bool)
	Entity() ecs.Entity
}

// Component stores an entity's animator.
var Component = component.NewComponent[Animator]()

// Of returns the animator attached to e.
func Of(w *ecs.World, e ecs.Entity) (Animator, bool) {
	a, ok := ecs.Get(w, e, Component)
	return a, ok && a != nil
}

type playOptions struct {
	counter    uint64
	hasCounter bool
	flipX      bool
	flipY      bool
}

type PlayOption func(*playOptions)

// WithFrameCounter starts playback at counter instead of the current one.
func WithFrameCounter(counter uint64) PlayOption {
	return func(o *playOptions) {
		o.counter = counter
		o.hasCounter = true
	}
}

// WithFlip toggles the flip flags for the requested axes.
func WithFlip(x, y bool) PlayOption {
	return func(o *playOptions) {
		o.flipX = x
		o.flipY = y
	}
}

func collectPlayOptions(current uint64, opts []PlayOption) playOptions {
	o := playOptions{counter: current}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}

func entityName(w *ecs.World, e ecs.Entity) string {
	if n, ok := ecs.Get(w, e, component.NameComponent); ok && n != "" {
		return string(n)
	}
	return "entity " + e.String()
}
