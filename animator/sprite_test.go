package animator

import (
	"errors"
	"testing"
	"time"

	"github.com/milk9111/spriteanimator/animation"
	"github.com/milk9111/spriteanimator/ecs"
	"github.com/milk9111/spriteanimator/ecs/component"
)

const tick = 100 * time.Millisecond

func twoFrames(loop bool) *animation.Animation {
	a := animation.FromImages("walk", []string{"sprite1", "sprite2"}, 0.1)
	a.Loop = loop
	return a
}

func newSpriteEntity(t *testing.T, w *ecs.World, x, y float64) ecs.Entity {
	t.Helper()
	e := ecs.CreateEntity(w)
	if err := ecs.Add(w, e, component.TransformComponent, &component.Transform{X: x, Y: y, ScaleX: 1, ScaleY: 1}); err != nil {
		t.Fatal(err)
	}
	if err := ecs.Add(w, e, component.SpriteRendererComponent, &component.SpriteRenderer{}); err != nil {
		t.Fatal(err)
	}
	return e
}

func image(w *ecs.World, e ecs.Entity) string {
	r, _ := ecs.Get(w, e, component.SpriteRendererComponent)
	return r.Image
}

func TestSpritePlaybackScenario(t *testing.T) {
	cases := []struct {
		name  string
		loop  bool
		third string
	}{
		{"clamp_non_looping", false, "sprite2"},
		{"wrap_looping", true, "sprite1"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := ecs.NewWorld()
			e := newSpriteEntity(t, w, 0, 0)
			s, err := AttachSprite(w, e, WithAnimations(twoFrames(c.loop)))
			if err != nil {
				t.Fatal(err)
			}

			if !s.PlayAnimation(0) {
				t.Fatalf("PlayAnimation(0) rejected")
			}
			if got := image(w, e); got != "sprite1" {
				t.Fatalf("after play expected sprite1, got %q", got)
			}

			s.Update(tick, 1)
			if got := image(w, e); got != "sprite2" {
				t.Fatalf("after one tick expected sprite2, got %q", got)
			}

			s.Update(tick, 1)
			if got := image(w, e); got != c.third {
				t.Fatalf("after two ticks expected %s, got %q", c.third, got)
			}
			if s.FrameCounter() != 3 {
				t.Fatalf("expected counter 3, got %d", s.FrameCounter())
			}
		})
	}
}

func TestSpriteWaitsForFrameDuration(t *testing.T) {
	w := ecs.NewWorld()
	e := newSpriteEntity(t, w, 0, 0)
	s, _ := AttachSprite(w, e, WithAnimations(twoFrames(true)))
	s.PlayAnimation(0)

	left := s.Update(40*time.Millisecond, 1)
	if left != 60*time.Millisecond {
		t.Fatalf("expected 60ms left, got %v", left)
	}
	if got := image(w, e); got != "sprite1" {
		t.Fatalf("frame changed early: %q", got)
	}

	// one tick per call, overshoot dropped
	s.Update(time.Second, 1)
	if got := image(w, e); got != "sprite2" {
		t.Fatalf("expected sprite2, got %q", got)
	}
	if left := s.Update(0, 1); left != tick {
		t.Fatalf("expected a fresh %v wait, got %v", tick, left)
	}
}

func TestSpriteTimeScale(t *testing.T) {
	cases := []struct {
		name      string
		mode      animation.UpdateMode
		timeScale float64
		want      time.Duration
	}{
		{"scaled_half_speed", animation.Scaled, 0.5, 200 * time.Millisecond},
		{"unscaled_ignores_time_scale", animation.Unscaled, 0.5, tick},
		{"scaled_frozen", animation.Scaled, 0, animation.Forever},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := ecs.NewWorld()
			e := newSpriteEntity(t, w, 0, 0)
			a := twoFrames(true)
			a.UpdateMode = c.mode
			s, _ := AttachSprite(w, e, WithAnimations(a))
			s.Update(0, c.timeScale)
			s.PlayAnimation(0)
			if got := s.Update(0, c.timeScale); got != c.want {
				t.Fatalf("expected %v, got %v", c.want, got)
			}
		})
	}
}

func TestSpriteInvalidIndex(t *testing.T) {
	cases := []struct {
		name  string
		index int
	}{
		{"negative", -1},
		{"past_end", 1},
		{"far_past_end", 42},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := ecs.NewWorld()
			e := newSpriteEntity(t, w, 0, 0)
			s, _ := AttachSprite(w, e, WithAnimations(twoFrames(true)))
			s.PlayAnimation(0)

			if s.PlayAnimation(c.index) {
				t.Fatalf("PlayAnimation(%d) should be rejected", c.index)
			}
			if s.State() != Stopped {
				t.Fatalf("expected Stopped, got %v", s.State())
			}
			if s.CurrentAnimation() != -1 || s.FrameCounter() != 0 {
				t.Fatalf("expected index -1 counter 0, got %d %d", s.CurrentAnimation(), s.FrameCounter())
			}

			var found bool
			for _, evt := range w.Events().Drain() {
				if evt.Type != EventInvalidIndex {
					continue
				}
				data := evt.Data.(AnimationEvent)
				if data.Animation != c.index || !errors.Is(data.Err, ErrInvalidIndex) {
					t.Fatalf("unexpected event payload %+v", data)
				}
				found = true
			}
			if !found {
				t.Fatalf("expected an %s event", EventInvalidIndex)
			}
		})
	}
}

func TestSpriteStateTransitions(t *testing.T) {
	w := ecs.NewWorld()
	e := newSpriteEntity(t, w, 0, 0)
	s, _ := AttachSprite(w, e, WithAnimations(twoFrames(true)))

	steps := []struct {
		name string
		do   func()
		want PlaybackState
	}{
		{"pause_while_stopped_is_noop", s.PausePlayback, Stopped},
		{"resume_while_stopped_is_noop", s.ResumePlayback, Stopped},
		{"start", s.StartPlayback, Running},
		{"pause", s.PausePlayback, Paused},
		{"resume", s.ResumePlayback, Running},
		{"stop", s.StopPlayback, Stopped},
		{"stop_again", s.StopPlayback, Stopped},
	}
	for _, step := range steps {
		t.Run(step.name, func(t *testing.T) {
			step.do()
			if s.State() != step.want {
				t.Fatalf("expected %v, got %v", step.want, s.State())
			}
		})
	}
}

func TestSpritePauseKeepsRemainingWait(t *testing.T) {
	w := ecs.NewWorld()
	e := newSpriteEntity(t, w, 0, 0)
	s, _ := AttachSprite(w, e, WithAnimations(twoFrames(true)))
	s.PlayAnimation(0)
	s.Update(30*time.Millisecond, 1)

	s.PausePlayback()
	s.Update(time.Second, 1)
	if got := image(w, e); got != "sprite1" {
		t.Fatalf("paused animator advanced to %q", got)
	}

	s.ResumePlayback()
	if left := s.Update(0, 1); left != 70*time.Millisecond {
		t.Fatalf("expected 70ms left after resume, got %v", left)
	}
}

func TestSpriteOffsetAndStopRestoresPosition(t *testing.T) {
	w := ecs.NewWorld()
	e := newSpriteEntity(t, w, 10, 20)
	a := twoFrames(true)
	a.Offset = animation.Vec{X: 1, Y: 1}
	a.Frames[1].Offset = animation.Vec{X: 5, Y: -5}
	s, _ := AttachSprite(w, e, WithAnimations(a))

	tr, _ := ecs.Get(w, e, component.TransformComponent)
	s.PlayAnimation(0)
	if tr.X != 11 || tr.Y != 21 {
		t.Fatalf("expected (11,21), got (%v,%v)", tr.X, tr.Y)
	}
	s.Update(tick, 1)
	if tr.X != 16 || tr.Y != 16 {
		t.Fatalf("expected (16,16), got (%v,%v)", tr.X, tr.Y)
	}

	s.StopPlayback()
	if tr.X != 10 || tr.Y != 20 {
		t.Fatalf("expected original (10,20), got (%v,%v)", tr.X, tr.Y)
	}
}

func TestSpritePlayOptions(t *testing.T) {
	w := ecs.NewWorld()
	e := newSpriteEntity(t, w, 0, 0)
	s, _ := AttachSprite(w, e, WithAnimations(twoFrames(true), twoFrames(true)))

	s.PlayAnimation(1, WithFrameCounter(1), WithFlip(true, false))
	if got := image(w, e); got != "sprite2" {
		t.Fatalf("expected counter 1 to show sprite2, got %q", got)
	}
	if !s.FlipX() || s.FlipY() {
		t.Fatalf("expected flipX only, got %v %v", s.FlipX(), s.FlipY())
	}

	s.PlayAnimation(0, WithFlip(true, true))
	if s.FlipX() || !s.FlipY() {
		t.Fatalf("flip flags should toggle, got %v %v", s.FlipX(), s.FlipY())
	}
	if s.CurrentAnimation() != 0 || s.FrameCounter() != 2 {
		t.Fatalf("switching animation keeps the counter, got index %d counter %d", s.CurrentAnimation(), s.FrameCounter())
	}
}

func TestSpriteCompletedEvent(t *testing.T) {
	w := ecs.NewWorld()
	e := newSpriteEntity(t, w, 0, 0)
	s, _ := AttachSprite(w, e, WithAnimations(twoFrames(false)))
	s.PlayAnimation(0)
	for i := 0; i < 3; i++ {
		s.Update(tick, 1)
	}

	completed := 0
	for _, evt := range w.Events().Drain() {
		if evt.Type == EventCompleted {
			completed++
		}
	}
	if completed != 1 {
		t.Fatalf("expected one completion event, got %d", completed)
	}
}

func TestSpriteEmptyAnimationStops(t *testing.T) {
	w := ecs.NewWorld()
	e := newSpriteEntity(t, w, 0, 0)
	s, _ := AttachSprite(w, e, WithAnimations(animation.New("empty")))

	s.PlayAnimation(0)
	if s.State() != Stopped {
		t.Fatalf("expected Stopped after failing tick, got %v", s.State())
	}
	_, err := s.TickFrame(0, 0, 1)
	if !errors.Is(err, animation.ErrEmptyAnimation) {
		t.Fatalf("expected ErrEmptyAnimation, got %v", err)
	}
}

func TestSpriteDisabledDoesNotTick(t *testing.T) {
	w := ecs.NewWorld()
	e := newSpriteEntity(t, w, 0, 0)
	s, _ := AttachSprite(w, e, WithAnimations(twoFrames(true)))
	s.SetEnabled(false)

	if !s.PlayAnimation(0) || s.State() != Running {
		t.Fatalf("disabled animator should still accept play")
	}
	s.Update(time.Second, 1)
	if got := image(w, e); got != "" {
		t.Fatalf("disabled animator wrote %q", got)
	}
}

func TestSpriteSpeed(t *testing.T) {
	w := ecs.NewWorld()
	e := newSpriteEntity(t, w, 0, 0)
	s, _ := AttachSprite(w, e, WithAnimations(twoFrames(true)), WithSpeed(2))
	s.PlayAnimation(0)
	if left := s.Update(0, 1); left != 50*time.Millisecond {
		t.Fatalf("expected 50ms at double speed, got %v", left)
	}
	s.SetPlaybackSpeed(-3)
	if s.PlaybackSpeed() != 0 {
		t.Fatalf("speed should clamp at 0, got %v", s.PlaybackSpeed())
	}
}

func TestSpriteResumesAfterZeroRate(t *testing.T) {
	cases := []struct {
		name    string
		freeze  func(s *Sprite) float64
		restore func(s *Sprite) float64
	}{
		{
			name:    "time_scale",
			freeze:  func(*Sprite) float64 { return 0 },
			restore: func(*Sprite) float64 { return 1 },
		},
		{
			name: "speed",
			freeze: func(s *Sprite) float64 {
				s.SetPlaybackSpeed(0)
				return 1
			},
			restore: func(s *Sprite) float64 {
				s.SetPlaybackSpeed(1)
				return 1
			},
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := ecs.NewWorld()
			e := newSpriteEntity(t, w, 0, 0)
			s, _ := AttachSprite(w, e, WithAnimations(twoFrames(true)))
			s.PlayAnimation(0)

			scale := c.freeze(s)
			if left := s.Update(tick, scale); left != animation.Forever {
				t.Fatalf("expected the frame to be held, got %v", left)
			}
			for i := 0; i < 5; i++ {
				s.Update(tick, scale)
			}
			if s.FrameCounter() != 2 || image(w, e) != "sprite2" {
				t.Fatalf("held frame moved: counter=%d image=%q", s.FrameCounter(), image(w, e))
			}

			scale = c.restore(s)
			s.Update(tick, scale)
			if s.FrameCounter() != 3 || image(w, e) != "sprite1" {
				t.Fatalf("playback should pick up again: counter=%d image=%q", s.FrameCounter(), image(w, e))
			}
			if left := s.Update(0, scale); left != tick {
				t.Fatalf("expected a normal wait of %v, got %v", tick, left)
			}
		})
	}
}

func TestSpritePlayOnStart(t *testing.T) {
	w := ecs.NewWorld()
	e := newSpriteEntity(t, w, 0, 0)
	s, _ := AttachSprite(w, e, WithAnimations(twoFrames(true)), WithPlayOnStart())
	if !s.IsRunning() || s.CurrentAnimation() != 0 || image(w, e) != "sprite1" {
		t.Fatalf("expected animation 0 running on attach")
	}
	if a, ok := Of(w, e); !ok || a != Animator(s) {
		t.Fatalf("animator not registered on its entity")
	}
}

func TestSpriteRendererResolution(t *testing.T) {
	cases := []struct {
		name  string
		build func(w *ecs.World) (owner ecs.Entity, opts []SpriteOption, want ecs.Entity)
	}{
		{
			name: "explicit_target",
			build: func(w *ecs.World) (ecs.Entity, []SpriteOption, ecs.Entity) {
				owner := ecs.CreateEntity(w)
				target := ecs.CreateEntity(w)
				return owner, []SpriteOption{WithRenderer(target)}, target
			},
		},
		{
			name: "owner",
			build: func(w *ecs.World) (ecs.Entity, []SpriteOption, ecs.Entity) {
				owner := ecs.CreateEntity(w)
				_ = ecs.Add(w, owner, component.SpriteRendererComponent, &component.SpriteRenderer{})
				return owner, nil, owner
			},
		},
		{
			name: "inactive_descendant",
			build: func(w *ecs.World) (ecs.Entity, []SpriteOption, ecs.Entity) {
				owner := ecs.CreateEntity(w)
				mid := ecs.CreateEntity(w)
				leaf := ecs.CreateEntity(w)
				_ = ecs.SetParent(w, mid, owner)
				_ = ecs.SetParent(w, leaf, mid)
				_ = ecs.Add(w, mid, component.InactiveComponent, component.Inactive{})
				_ = ecs.Add(w, leaf, component.SpriteRendererComponent, &component.SpriteRenderer{})
				return owner, nil, leaf
			},
		},
		{
			name: "created_on_owner",
			build: func(w *ecs.World) (ecs.Entity, []SpriteOption, ecs.Entity) {
				owner := ecs.CreateEntity(w)
				return owner, nil, owner
			},
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := ecs.NewWorld()
			owner, opts, want := c.build(w)
			s, err := AttachSprite(w, owner, append(opts, WithAnimations(twoFrames(true)))...)
			if err != nil {
				t.Fatal(err)
			}
			if got := s.Renderer(); got != want {
				t.Fatalf("expected renderer %v, got %v", want, got)
			}
			if !ecs.Has(w, want, component.SpriteRendererComponent) || !ecs.Has(w, want, component.TransformComponent) {
				t.Fatalf("renderer entity should carry renderer and transform")
			}
			s.PlayAnimation(0)
			if got := image(w, want); got != "sprite1" {
				t.Fatalf("expected sprite1 on resolved renderer, got %q", got)
			}
		})
	}
}

func TestSpriteSetAnimation(t *testing.T) {
	w := ecs.NewWorld()
	e := newSpriteEntity(t, w, 0, 0)
	s, _ := AttachSprite(w, e, WithAnimations(twoFrames(true)))

	if err := s.SetAnimation(3, twoFrames(true)); !errors.Is(err, ErrInvalidIndex) {
		t.Fatalf("expected ErrInvalidIndex, got %v", err)
	}
	if err := s.SetAnimation(0, nil); !errors.Is(err, ErrNilAnimation) {
		t.Fatalf("expected ErrNilAnimation, got %v", err)
	}
	repl := animation.FromImages("idle", []string{"idle1"}, 0.2)
	if err := s.SetAnimation(0, repl); err != nil {
		t.Fatal(err)
	}
	s.AddAnimation(twoFrames(false))
	if s.AnimationCount() != 2 || s.Animation(0) != repl {
		t.Fatalf("unexpected animations %v", s.Animations())
	}
}
