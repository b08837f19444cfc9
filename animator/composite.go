package animator

import (
	"errors"
	"fmt"
	"log"
	"slices"
	"time"

	"github.com/milk9111/spriteanimator/animation"
	"github.com/milk9111/spriteanimator/ecs"
)

// MinRefreshDelay is the shortest interval between child rescans.
const MinRefreshDelay = time.Second / 60

// Composite drives a group of child animators as one. Children are entity
// references resolved through the world on every use; the composite never
// owns them.
type Composite struct {
	playback

	world *ecs.World
	owner ecs.Entity

	children []ecs.Entity
	count    int
	mode     animation.UpdateMode

	policy       FlipPolicy
	flipX, flipY bool

	detect          bool
	includeInactive bool
	autoRefresh     bool
	refreshDelay    time.Duration
	sinceRefresh    time.Duration
	playOnStart     bool

	ticking  bool
	visiting bool
}

type CompositeOption func(*Composite)

// WithChildren seeds the child list.
func WithChildren(children ...ecs.Entity) CompositeOption {
	return func(c *Composite) { c.children = append(c.children, children...) }
}

// WithDetectChildren scans the owner's descendants for animators on attach.
func WithDetectChildren(includeInactive bool) CompositeOption {
	return func(c *Composite) {
		c.detect = true
		c.includeInactive = includeInactive
	}
}

// WithAutoRefresh rescans descendants every delay, never more often than
// MinRefreshDelay. It implies WithDetectChildren.
func WithAutoRefresh(delay time.Duration) CompositeOption {
	return func(c *Composite) {
		c.detect = true
		c.autoRefresh = true
		c.refreshDelay = max(delay, MinRefreshDelay)
	}
}

func WithFlipPolicy(p FlipPolicy) CompositeOption {
	return func(c *Composite) { c.policy = p }
}

func WithCompositePlayOnStart() CompositeOption {
	return func(c *Composite) { c.playOnStart = true }
}

// AttachComposite creates a composite on owner, detects children if asked to,
// refreshes its configuration and plays animation 0 when play-on-start is set.
func AttachComposite(w *ecs.World, owner ecs.Entity, opts ...CompositeOption) (*Composite, error) {
	if !w.IsAlive(owner) {
		return nil, fmt.Errorf("animator: attach composite to %s: entity not alive", owner)
	}
	c := &Composite{
		playback:     newPlayback(),
		world:        w,
		owner:        owner,
		refreshDelay: MinRefreshDelay,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	c.SetChildren(c.children)

	if err := ecs.Add(w, owner, Component, Animator(c)); err != nil {
		return nil, fmt.Errorf("animator: attach composite to %s: %w", owner, err)
	}
	if c.detect {
		c.DetectChildren(c.includeInactive)
	}

	if c.playOnStart {
		c.PlayAnimation(0)
	}
	return c, nil
}

func (c *Composite) Entity() ecs.Entity { return c.owner }

func (c *Composite) Policy() FlipPolicy { return c.policy }

// UpdateMode is Unscaled when any animation of any child is unscaled.
func (c *Composite) UpdateMode() animation.UpdateMode { return c.mode }

// Children returns the child entity list, dead entries included.
func (c *Composite) Children() []ecs.Entity {
	return slices.Clone(c.children)
}

// SetChildren replaces the child list and refreshes the configuration. The
// composite itself and duplicates are dropped.
func (c *Composite) SetChildren(children []ecs.Entity) {
	out := make([]ecs.Entity, 0, len(children))
	for _, e := range children {
		if e == c.owner || !e.Valid() || slices.Contains(out, e) {
			continue
		}
		out = append(out, e)
	}
	c.children = out
	c.RefreshConfig()
}

func (c *Composite) AddChild(e ecs.Entity) {
	c.SetChildren(append(slices.Clone(c.children), e))
}

// DetectChildren unions the child list with every descendant carrying an
// animator and refreshes the configuration. Inactive descendants are only
// included when asked. Dead entries are pruned.
func (c *Composite) DetectChildren(includeInactive bool) {
	merged := make([]ecs.Entity, 0, len(c.children))
	for _, e := range c.children {
		if c.world.IsAlive(e) {
			merged = append(merged, e)
		}
	}
	for _, d := range ecs.Descendants(c.world, c.owner) {
		if _, ok := Of(c.world, d); !ok {
			continue
		}
		if !includeInactive && !ecs.ActiveInHierarchy(c.world, d) {
			continue
		}
		merged = append(merged, d)
	}
	c.SetChildren(merged)
}

// RefreshConfig recomputes the animation count and update mode from the
// current children and disables their independent updates. Under
// FlipRenderer a flipped composite also flips children that joined since.
func (c *Composite) RefreshConfig() {
	count := 0
	mode := animation.Scaled
	for _, child := range c.liveChildren() {
		count += child.AnimationCount()
		for _, a := range child.Animations() {
			if a != nil && a.UpdateMode == animation.Unscaled {
				mode = animation.Unscaled
			}
		}
		child.SetEnabled(false)
	}
	c.count = count
	c.mode = mode

	if c.policy == FlipRenderer && (c.flipX || c.flipY) {
		c.each(func(child Animator) {
			if c.flipX {
				child.SetFlipX(true)
			}
			if c.flipY {
				child.SetFlipY(true)
			}
		})
	}
}

// MaybeRefresh advances the rescan timer by dt and rescans when it expires.
// It reports whether a rescan happened.
func (c *Composite) MaybeRefresh(dt time.Duration) bool {
	if !c.detect || !c.autoRefresh {
		return false
	}
	c.sinceRefresh += dt
	if c.sinceRefresh < c.refreshDelay {
		return false
	}
	c.sinceRefresh = 0
	c.DetectChildren(c.includeInactive)
	return true
}

// each calls fn for every live child. A call that re-enters through a child
// which leads back to this composite is ignored.
func (c *Composite) each(fn func(Animator)) {
	if c.visiting {
		return
	}
	c.visiting = true
	defer func() { c.visiting = false }()
	for _, child := range c.liveChildren() {
		fn(child)
	}
}

func (c *Composite) liveChildren() []Animator {
	out := make([]Animator, 0, len(c.children))
	for _, e := range c.children {
		if a, ok := Of(c.world, e); ok {
			out = append(out, a)
		}
	}
	return out
}

// AnimationCount is the sum of the children's counts as of the last
// RefreshConfig.
func (c *Composite) AnimationCount() int { return c.count }

// Animations concatenates every child's animations in child order.
func (c *Composite) Animations() []*animation.Animation {
	var out []*animation.Animation
	c.each(func(child Animator) {
		out = append(out, child.Animations()...)
	})
	return out
}

// ChildAnimation returns the animation child i is currently playing.
func (c *Composite) ChildAnimation(i int) *animation.Animation {
	if i < 0 || i >= len(c.children) {
		return nil
	}
	child, ok := Of(c.world, c.children[i])
	if !ok {
		return nil
	}
	anims := child.Animations()
	idx := child.CurrentAnimation()
	if idx < 0 || idx >= len(anims) {
		return nil
	}
	return anims[idx]
}

func (c *Composite) FlipX() bool { return c.flipX }
func (c *Composite) FlipY() bool { return c.flipY }

func (c *Composite) SetFlipX(v bool) {
	c.flipX = v
	c.applyFlip(axisX)
}

func (c *Composite) SetFlipY(v bool) {
	c.flipY = v
	c.applyFlip(axisY)
}

// SetPlaybackSpeed sets the composite's speed and every child's.
func (c *Composite) SetPlaybackSpeed(v float64) {
	c.setSpeed(v)
	c.each(func(child Animator) { child.SetPlaybackSpeed(v) })
}

// PlayAnimation validates index against the aggregate count, then plays it on
// every child (reduced modulo each child's own count). All children are told
// even when one rejects; the result is true only if every child accepted.
func (c *Composite) PlayAnimation(index int, opts ...PlayOption) bool {
	o := collectPlayOptions(c.counter, opts)
	if o.flipX {
		c.SetFlipX(!c.flipX)
	}
	if o.flipY {
		c.SetFlipY(!c.flipY)
	}

	if index < 0 || index >= c.count {
		c.StopPlayback()
		log.Printf("animator: animation index %d not present in composite %q", index, entityName(c.world, c.owner))
		emit(c.world, EventInvalidIndex, AnimationEvent{Entity: c.owner, Animation: index, Err: ErrInvalidIndex})
		return false
	}

	pass := true
	c.each(func(child Animator) {
		n := child.AnimationCount()
		if n == 0 || !child.PlayAnimation(index%n, WithFrameCounter(o.counter)) {
			pass = false
		}
	})

	c.index = index
	c.counter = o.counter
	if c.state != Running {
		c.begin()
	}
	return pass
}

func (c *Composite) StartPlayback() {
	if c.state == Running {
		return
	}
	if c.count == 0 {
		log.Printf("animator: %s: %v", entityName(c.world, c.owner), ErrNoChildren)
		return
	}
	c.index = max(0, c.index)
	c.each(func(child Animator) {
		if child.State() != Running {
			child.StartPlayback()
		}
	})
	c.begin()
}

func (c *Composite) begin() {
	if err := c.start(c); err != nil {
		c.fail(err)
	}
}

func (c *Composite) PausePlayback() {
	if c.state != Running {
		return
	}
	c.state = Paused
	c.each(Animator.PausePlayback)
}

func (c *Composite) ResumePlayback() {
	if c.state != Paused {
		return
	}
	c.state = Running
	c.each(Animator.ResumePlayback)
}

// StopPlayback stops the composite and every child.
func (c *Composite) StopPlayback() {
	c.reset()
	c.each(Animator.StopPlayback)
}

// Update advances the composite's timer. An unscaled composite ignores the
// engine time scale for all of its children.
func (c *Composite) Update(dt time.Duration, timeScale float64) time.Duration {
	if c.mode == animation.Unscaled {
		timeScale = 1
	}
	next, err := c.advance(c, dt, timeScale)
	if err != nil {
		c.fail(err)
		return 0
	}
	return next
}

func (c *Composite) fail(err error) {
	logTickError(entityName(c.world, c.owner), err)
	emit(c.world, EventTickFailed, AnimationEvent{Entity: c.owner, Animation: c.index, Counter: c.counter, Err: err})
	c.StopPlayback()
}

// TickFrame ticks every child with animationIndex reduced modulo the child's
// own count and returns the longest of their durations, so faster children
// wait for the slowest one.
func (c *Composite) TickFrame(animationIndex int, frameCounter uint64, timeScale float64) (time.Duration, error) {
	if c.ticking {
		return 0, ErrTickCycle
	}
	c.ticking = true
	defer func() { c.ticking = false }()

	children := c.liveChildren()
	if len(children) == 0 {
		return 0, ErrNoChildren
	}

	var (
		longest time.Duration
		errs    []error
	)
	for _, child := range children {
		n := child.AnimationCount()
		if n == 0 {
			continue
		}
		d, err := child.TickFrame(animationIndex%n, frameCounter, timeScale)
		if err != nil {
			errs = append(errs, fmt.Errorf("child %s: %w", child.Entity(), err))
			continue
		}
		longest = max(longest, d)
	}
	if len(errs) > 0 {
		return longest, errors.Join(errs...)
	}
	return longest, nil
}

// FrameWait returns the longest wait of the children for the same
// arguments.
func (c *Composite) FrameWait(animationIndex int, frameCounter uint64, timeScale float64) (time.Duration, error) {
	if c.ticking {
		return 0, ErrTickCycle
	}
	c.ticking = true
	defer func() { c.ticking = false }()

	var longest time.Duration
	for _, child := range c.liveChildren() {
		n := child.AnimationCount()
		if n == 0 {
			continue
		}
		d, err := child.FrameWait(animationIndex%n, frameCounter, timeScale)
		if err != nil {
			return 0, fmt.Errorf("child %s: %w", child.Entity(), err)
		}
		longest = max(longest, d)
	}
	return longest, nil
}
