package animator

import (
	"errors"
	"testing"
	"time"

	"github.com/milk9111/spriteanimator/animation"
	"github.com/milk9111/spriteanimator/ecs"
	"github.com/milk9111/spriteanimator/ecs/component"
)

// compositeRig is a composite root with two sprite children: "body" has two
// animations of 0.1s frames, "cape" has one animation of 0.25s frames.
type compositeRig struct {
	w          *ecs.World
	root       ecs.Entity
	body, cape ecs.Entity
	bodyS      *Sprite
	capeS      *Sprite
}

func newCompositeRig(t *testing.T) compositeRig {
	t.Helper()
	w := ecs.NewWorld()
	root := ecs.CreateEntity(w)
	_ = ecs.Add(w, root, component.TransformComponent, &component.Transform{ScaleX: 2, ScaleY: 1})

	body := newSpriteEntity(t, w, 0, 0)
	cape := newSpriteEntity(t, w, 0, 0)
	_ = ecs.SetParent(w, body, root)
	_ = ecs.SetParent(w, cape, root)

	bodyS, err := AttachSprite(w, body, WithAnimations(twoFrames(true), animation.FromImages("jump", []string{"jump1"}, 0.1)))
	if err != nil {
		t.Fatal(err)
	}
	capeS, err := AttachSprite(w, cape, WithAnimations(animation.FromImages("cape", []string{"cape1", "cape2", "cape3"}, 0.25)))
	if err != nil {
		t.Fatal(err)
	}
	return compositeRig{w: w, root: root, body: body, cape: cape, bodyS: bodyS, capeS: capeS}
}

func TestCompositeDetectAndRefresh(t *testing.T) {
	r := newCompositeRig(t)
	c, err := AttachComposite(r.w, r.root, WithDetectChildren(false))
	if err != nil {
		t.Fatal(err)
	}

	kids := c.Children()
	if len(kids) != 2 || kids[0] != r.body || kids[1] != r.cape {
		t.Fatalf("expected [body cape], got %v", kids)
	}
	if c.AnimationCount() != 3 {
		t.Fatalf("expected aggregate count 3, got %d", c.AnimationCount())
	}
	if len(c.Animations()) != 3 {
		t.Fatalf("expected 3 concatenated animations, got %d", len(c.Animations()))
	}
	if r.bodyS.Enabled() || r.capeS.Enabled() {
		t.Fatalf("children must be disabled once a composite drives them")
	}
	if c.UpdateMode() != animation.Scaled {
		t.Fatalf("expected scaled mode, got %v", c.UpdateMode())
	}

	r.capeS.Animation(0).UpdateMode = animation.Unscaled
	r.bodyS.AddAnimation(twoFrames(false))
	c.RefreshConfig()
	if c.AnimationCount() != 4 || c.UpdateMode() != animation.Unscaled {
		t.Fatalf("refresh should see count 4 unscaled, got %d %v", c.AnimationCount(), c.UpdateMode())
	}
}

func TestCompositeDetectInactive(t *testing.T) {
	cases := []struct {
		name            string
		includeInactive bool
		want            int
	}{
		{"active_only", false, 1},
		{"include_inactive", true, 2},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := newCompositeRig(t)
			_ = ecs.Add(r.w, r.cape, component.InactiveComponent, component.Inactive{})
			c, _ := AttachComposite(r.w, r.root, WithDetectChildren(tc.includeInactive))
			if len(c.Children()) != tc.want {
				t.Fatalf("expected %d children, got %v", tc.want, c.Children())
			}
		})
	}
}

func TestCompositeChildListUpdatesRefresh(t *testing.T) {
	r := newCompositeRig(t)
	c, _ := AttachComposite(r.w, r.root, WithChildren(r.body))
	if c.AnimationCount() != 2 || !r.capeS.Enabled() {
		t.Fatalf("expected count 2 with cape still independent, got %d", c.AnimationCount())
	}

	c.AddChild(r.cape)
	if c.AnimationCount() != 3 {
		t.Fatalf("AddChild: expected count 3, got %d", c.AnimationCount())
	}
	if r.capeS.Enabled() {
		t.Fatalf("AddChild: a new child must stop updating on its own")
	}

	c.SetChildren([]ecs.Entity{r.cape})
	if c.AnimationCount() != 1 {
		t.Fatalf("SetChildren: expected count 1, got %d", c.AnimationCount())
	}
	if c.PlayAnimation(1) {
		t.Fatalf("index 1 is out of range for a single one-animation child")
	}
	if c.State() != Stopped {
		t.Fatalf("an out of range index should stop the composite, got %s", c.State())
	}
}

func TestCompositeNeverListsItself(t *testing.T) {
	r := newCompositeRig(t)
	c, _ := AttachComposite(r.w, r.root, WithChildren(r.root, r.body, r.body))
	c.AddChild(r.root)
	kids := c.Children()
	if len(kids) != 1 || kids[0] != r.body {
		t.Fatalf("expected [body], got %v", kids)
	}
}

func TestCompositeTickUsesLongestChild(t *testing.T) {
	r := newCompositeRig(t)
	c, _ := AttachComposite(r.w, r.root, WithDetectChildren(false))

	if !c.PlayAnimation(0) {
		t.Fatalf("PlayAnimation(0) rejected")
	}
	if image(r.w, r.body) != "sprite1" || image(r.w, r.cape) != "cape1" {
		t.Fatalf("first tick should write every child, got %q %q", image(r.w, r.body), image(r.w, r.cape))
	}
	if left := c.Update(0, 1); left != 250*time.Millisecond {
		t.Fatalf("expected longest child duration 250ms, got %v", left)
	}

	// children do not advance on their own
	r.bodyS.Update(time.Second, 1)
	if image(r.w, r.body) != "sprite1" {
		t.Fatalf("disabled child advanced by itself")
	}

	c.Update(100*time.Millisecond, 1)
	if image(r.w, r.body) != "sprite1" {
		t.Fatalf("body must wait for the slowest sibling")
	}
	c.Update(150*time.Millisecond, 1)
	if image(r.w, r.body) != "sprite2" || image(r.w, r.cape) != "cape2" {
		t.Fatalf("expected both children on frame 2, got %q %q", image(r.w, r.body), image(r.w, r.cape))
	}
}

func TestCompositeIndexReducedPerChild(t *testing.T) {
	r := newCompositeRig(t)
	c, _ := AttachComposite(r.w, r.root, WithDetectChildren(false))

	if !c.PlayAnimation(2) {
		t.Fatalf("index 2 is within the aggregate count")
	}
	if r.bodyS.CurrentAnimation() != 0 || r.capeS.CurrentAnimation() != 0 {
		t.Fatalf("expected children on 2%%2=0 and 2%%1=0, got %d %d", r.bodyS.CurrentAnimation(), r.capeS.CurrentAnimation())
	}
	// a running composite switches on its next tick
	c.PlayAnimation(1)
	c.Update(time.Second, 1)
	if r.bodyS.CurrentAnimation() != 1 || image(r.w, r.body) != "jump1" {
		t.Fatalf("body should play jump, got %d %q", r.bodyS.CurrentAnimation(), image(r.w, r.body))
	}
	if got := c.ChildAnimation(0); got == nil || got.Name != "jump" {
		t.Fatalf("ChildAnimation(0) = %v", got)
	}
}

func TestCompositeInvalidIndexStopsChildren(t *testing.T) {
	r := newCompositeRig(t)
	c, _ := AttachComposite(r.w, r.root, WithDetectChildren(false))
	c.PlayAnimation(0)

	if c.PlayAnimation(3) {
		t.Fatalf("index 3 is past the aggregate count")
	}
	for _, s := range []*Sprite{r.bodyS, r.capeS} {
		if s.State() != Stopped {
			t.Fatalf("child %v not stopped", s.Entity())
		}
	}
	if c.State() != Stopped || c.CurrentAnimation() != -1 {
		t.Fatalf("composite should be stopped, got %v %d", c.State(), c.CurrentAnimation())
	}
}

func TestCompositeFullFanOut(t *testing.T) {
	r := newCompositeRig(t)
	empty := newSpriteEntity(t, r.w, 0, 0)
	_, _ = AttachSprite(r.w, empty)
	_ = ecs.SetParent(r.w, empty, r.root)

	c, _ := AttachComposite(r.w, r.root, WithDetectChildren(false))
	if c.PlayAnimation(0) {
		t.Fatalf("a child without animations should fail the play")
	}
	if r.bodyS.State() != Running || r.capeS.State() != Running {
		t.Fatalf("every other child should still have been told to play")
	}
}

func TestCompositeFlipPolicies(t *testing.T) {
	cases := []struct {
		name   string
		policy FlipPolicy
		check  func(t *testing.T, r compositeRig)
	}{
		{
			name:   "renderer",
			policy: FlipRenderer,
			check: func(t *testing.T, r compositeRig) {
				if !r.bodyS.FlipX() || !r.capeS.FlipX() || r.bodyS.FlipY() {
					t.Fatalf("children should carry flipX only")
				}
			},
		},
		{
			name:   "rotation",
			policy: FlipRotation,
			check: func(t *testing.T, r compositeRig) {
				tr, _ := ecs.Get(r.w, r.root, component.TransformComponent)
				if tr.RotationY != 180 || tr.RotationX != 0 {
					t.Fatalf("expected a half turn about Y, got x=%v y=%v", tr.RotationX, tr.RotationY)
				}
				if r.bodyS.FlipX() {
					t.Fatalf("rotation policy must not touch renderers")
				}
			},
		},
		{
			name:   "scale",
			policy: FlipScale,
			check: func(t *testing.T, r compositeRig) {
				tr, _ := ecs.Get(r.w, r.root, component.TransformComponent)
				if tr.ScaleX != -2 || tr.ScaleY != 1 {
					t.Fatalf("expected scale (-2,1), got (%v,%v)", tr.ScaleX, tr.ScaleY)
				}
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := newCompositeRig(t)
			c, _ := AttachComposite(r.w, r.root, WithDetectChildren(false), WithFlipPolicy(tc.policy))
			c.PlayAnimation(0, WithFlip(true, false))
			if !c.FlipX() || c.FlipY() {
				t.Fatalf("composite flags should be x only")
			}
			tc.check(t, r)

			c.SetFlipX(false)
			tr, _ := ecs.Get(r.w, r.root, component.TransformComponent)
			if tr.ScaleX != 2 || tr.RotationY != 0 || r.bodyS.FlipX() {
				t.Fatalf("unflip should restore the original state")
			}
		})
	}
}

func TestCompositeFlipReachesLateChildren(t *testing.T) {
	r := newCompositeRig(t)
	c, _ := AttachComposite(r.w, r.root, WithChildren(r.body))
	c.SetFlipX(true)
	if r.capeS.FlipX() {
		t.Fatalf("cape is not a child yet")
	}

	c.DetectChildren(false)
	if !r.capeS.FlipX() || r.capeS.FlipY() {
		t.Fatalf("a detected child should take the composite's flip")
	}

	c.SetFlipX(false)
	if r.capeS.FlipX() || r.bodyS.FlipX() {
		t.Fatalf("unflip should reach every child")
	}
}

func TestCompositeSpeedPropagates(t *testing.T) {
	r := newCompositeRig(t)
	c, _ := AttachComposite(r.w, r.root, WithDetectChildren(false))
	c.SetPlaybackSpeed(0.5)
	if r.bodyS.PlaybackSpeed() != 0.5 || r.capeS.PlaybackSpeed() != 0.5 {
		t.Fatalf("speed did not reach children")
	}
}

func TestCompositeAutoRefresh(t *testing.T) {
	r := newCompositeRig(t)
	c, _ := AttachComposite(r.w, r.root, WithAutoRefresh(0))

	extra := newSpriteEntity(t, r.w, 0, 0)
	_ = ecs.SetParent(r.w, extra, r.root)
	_, _ = AttachSprite(r.w, extra, WithAnimations(twoFrames(true)))

	if c.MaybeRefresh(MinRefreshDelay / 2) {
		t.Fatalf("refresh ran before the delay")
	}
	if !c.MaybeRefresh(MinRefreshDelay / 2) {
		t.Fatalf("refresh should run once the delay elapses")
	}
	if c.AnimationCount() != 4 || len(c.Children()) != 3 {
		t.Fatalf("expected 3 children with 4 animations, got %d %d", len(c.Children()), c.AnimationCount())
	}

	ecs.DestroyEntity(r.w, extra)
	c.MaybeRefresh(MinRefreshDelay)
	if c.AnimationCount() != 3 || len(c.Children()) != 2 {
		t.Fatalf("dead child should be pruned, got %v", c.Children())
	}
}

func TestCompositeCycle(t *testing.T) {
	w := ecs.NewWorld()
	a := ecs.CreateEntity(w)
	b := ecs.CreateEntity(w)
	leaf := newSpriteEntity(t, w, 0, 0)
	_, _ = AttachSprite(w, leaf, WithAnimations(twoFrames(true)))

	ca, _ := AttachComposite(w, a, WithChildren(b, leaf))
	cb, _ := AttachComposite(w, b, WithChildren(a))
	cb.RefreshConfig()
	ca.RefreshConfig()

	_, err := ca.TickFrame(0, 0, 1)
	if !errors.Is(err, ErrTickCycle) {
		t.Fatalf("expected ErrTickCycle, got %v", err)
	}
	ca.StopPlayback()
	if ca.State() != Stopped || cb.State() != Stopped {
		t.Fatalf("stop should terminate through the cycle")
	}
}

func TestCompositePauseResume(t *testing.T) {
	r := newCompositeRig(t)
	c, _ := AttachComposite(r.w, r.root, WithDetectChildren(false), WithCompositePlayOnStart())
	if !c.IsRunning() {
		t.Fatalf("play on start should run the composite")
	}
	c.PausePlayback()
	if r.bodyS.State() != Paused || c.State() != Paused {
		t.Fatalf("pause should reach children")
	}
	c.ResumePlayback()
	if r.capeS.State() != Running || c.State() != Running {
		t.Fatalf("resume should reach children")
	}
}
