package animator

import (
	"fmt"
	"log"
	"time"

	"github.com/milk9111/spriteanimator/animation"
	"github.com/milk9111/spriteanimator/ecs"
)

// Sprite walks one animation's frames at a time, writing the frame image and
// offset onto a single renderer.
type Sprite struct {
	playback

	world *ecs.World
	owner ecs.Entity

	target   ecs.Entity
	renderer ecs.Entity
	resolved bool
	original animation.Vec

	animations  []*animation.Animation
	playOnStart bool
}

type SpriteOption func(*Sprite)

// WithRenderer makes e the explicit renderer target.
func WithRenderer(e ecs.Entity) SpriteOption {
	return func(s *Sprite) { s.target = e }
}

func WithAnimations(anims ...*animation.Animation) SpriteOption {
	return func(s *Sprite) {
		for _, a := range anims {
			if a != nil {
				s.animations = append(s.animations, a)
			}
		}
	}
}

// WithPlayOnStart plays the first animation as soon as the animator is
// attached.
func WithPlayOnStart() SpriteOption {
	return func(s *Sprite) { s.playOnStart = true }
}

func WithSpeed(v float64) SpriteOption {
	return func(s *Sprite) { s.setSpeed(v) }
}

// AttachSprite creates a Sprite animator on owner, resolves its renderer and
// records the renderer's original position.
func AttachSprite(w *ecs.World, owner ecs.Entity, opts ...SpriteOption) (*Sprite, error) {
	if !w.IsAlive(owner) {
		return nil, fmt.Errorf("animator: attach to %s: entity not alive", owner)
	}
	s := &Sprite{
		playback: newPlayback(),
		world:    w,
		owner:    owner,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	s.resolveRenderer()

	if err := ecs.Add(w, owner, Component, Animator(s)); err != nil {
		return nil, fmt.Errorf("animator: attach to %s: %w", owner, err)
	}
	if s.playOnStart && len(s.animations) > 0 {
		s.StartPlayback()
	}
	return s, nil
}

func (s *Sprite) Entity() ecs.Entity { return s.owner }

func (s *Sprite) AnimationCount() int { return len(s.animations) }

func (s *Sprite) Animations() []*animation.Animation {
	return append([]*animation.Animation(nil), s.animations...)
}

// Animation returns the animation at index, or nil when out of range.
func (s *Sprite) Animation(index int) *animation.Animation {
	if !s.validIndex(index) {
		return nil
	}
	return s.animations[index]
}

func (s *Sprite) AddAnimation(a *animation.Animation) {
	if a == nil {
		return
	}
	s.animations = append(s.animations, a)
}

// SetAnimation replaces the animation at index, e.g. after a hot reload.
func (s *Sprite) SetAnimation(index int, a *animation.Animation) error {
	if a == nil {
		return ErrNilAnimation
	}
	if !s.validIndex(index) {
		return fmt.Errorf("%w: %d", ErrInvalidIndex, index)
	}
	s.animations[index] = a
	return nil
}

func (s *Sprite) validIndex(index int) bool {
	return index >= 0 && index < len(s.animations)
}

func (s *Sprite) FlipX() bool {
	return s.rendererComponent().FlipX
}

func (s *Sprite) FlipY() bool {
	return s.rendererComponent().FlipY
}

func (s *Sprite) SetFlipX(v bool) {
	s.rendererComponent().FlipX = v
}

func (s *Sprite) SetFlipY(v bool) {
	s.rendererComponent().FlipY = v
}

func (s *Sprite) SetPlaybackSpeed(v float64) {
	s.setSpeed(v)
}

// PlayAnimation switches to the animation at index. The frame counter is
// kept unless WithFrameCounter is given. An invalid index stops playback and
// returns false.
func (s *Sprite) PlayAnimation(index int, opts ...PlayOption) bool {
	o := collectPlayOptions(s.counter, opts)
	if o.flipX {
		s.SetFlipX(!s.FlipX())
	}
	if o.flipY {
		s.SetFlipY(!s.FlipY())
	}

	if !s.validIndex(index) {
		s.StopPlayback()
		log.Printf("animator: animation index %d not present in animator %q", index, entityName(s.world, s.owner))
		emit(s.world, EventInvalidIndex, AnimationEvent{Entity: s.owner, Animation: index, Err: ErrInvalidIndex})
		return false
	}

	s.index = index
	s.counter = o.counter
	if s.state != Running {
		s.begin()
	}
	return true
}

// StartPlayback resumes ticking from the stored index and counter, starting
// at the first animation when stopped.
func (s *Sprite) StartPlayback() {
	if s.state == Running {
		return
	}
	if len(s.animations) == 0 {
		log.Printf("animator: %s: %v", entityName(s.world, s.owner), ErrNoAnimations)
		return
	}
	s.index = max(0, s.index)
	s.begin()
}

func (s *Sprite) begin() {
	if err := s.start(s); err != nil {
		s.fail(err)
	}
}

func (s *Sprite) PausePlayback() {
	if s.state != Running {
		return
	}
	s.state = Paused
}

// ResumePlayback continues a paused animator, keeping the time left on the
// frame that was showing.
func (s *Sprite) ResumePlayback() {
	if s.state != Paused {
		return
	}
	s.state = Running
}

// StopPlayback resets index and counter and puts the renderer back where it
// was before any frame offset was applied.
func (s *Sprite) StopPlayback() {
	s.reset()
	if tr := s.rendererTransform(); tr != nil {
		tr.X, tr.Y = s.original.X, s.original.Y
	}
}

func (s *Sprite) Update(dt time.Duration, timeScale float64) time.Duration {
	next, err := s.advance(s, dt, timeScale)
	if err != nil {
		s.fail(err)
		return 0
	}
	return next
}

func (s *Sprite) fail(err error) {
	logTickError(entityName(s.world, s.owner), err)
	emit(s.world, EventTickFailed, AnimationEvent{Entity: s.owner, Animation: s.index, Counter: s.counter, Err: err})
	s.StopPlayback()
}

// FrameWait returns the duration TickFrame would report for the same
// arguments.
func (s *Sprite) FrameWait(animationIndex int, frameCounter uint64, timeScale float64) (time.Duration, error) {
	anim, frame, _, err := s.frameAt(animationIndex, frameCounter)
	if err != nil {
		return 0, err
	}
	return anim.FrameDuration(frame, s.speed, timeScale), nil
}

func (s *Sprite) frameAt(animationIndex int, frameCounter uint64) (*animation.Animation, animation.Frame, int, error) {
	n := len(s.animations)
	if n == 0 {
		return nil, animation.Frame{}, 0, ErrNoAnimations
	}
	if animationIndex < 0 {
		return nil, animation.Frame{}, 0, fmt.Errorf("%w: %d", ErrInvalidIndex, animationIndex)
	}
	idx := animationIndex % n
	anim := s.animations[idx]
	fi, err := anim.WrapIndex(frameCounter)
	if err != nil {
		return nil, animation.Frame{}, 0, fmt.Errorf("animator: animation %d (%s): %w", idx, anim.Name, err)
	}
	return anim, anim.Frames[fi], idx, nil
}

// TickFrame shows the frame that counter lands on in the animation at
// animationIndex (taken modulo the animation count) and returns its
// real-time duration.
func (s *Sprite) TickFrame(animationIndex int, frameCounter uint64, timeScale float64) (time.Duration, error) {
	anim, frame, idx, err := s.frameAt(animationIndex, frameCounter)
	if err != nil {
		return 0, err
	}

	s.rendererComponent().Image = frame.Image
	if tr := s.rendererTransform(); tr != nil {
		pos := s.original.Add(anim.FrameOffset(frame))
		tr.X, tr.Y = pos.X, pos.Y
	}

	if !anim.Loop && frameCounter == uint64(anim.FrameCount()-1) {
		emit(s.world, EventCompleted, AnimationEvent{Entity: s.owner, Animation: idx, Counter: frameCounter})
	}
	return anim.FrameDuration(frame, s.speed, timeScale), nil
}
