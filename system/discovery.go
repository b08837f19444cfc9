package system

import (
	"time"

	"github.com/milk9111/spriteanimator/animator"
	"github.com/milk9111/spriteanimator/ecs"
)

// CompositeDiscoverySystem advances the rescan timer of every composite that
// auto-refreshes its children. It must run before AnimationSystem so a
// rescan takes effect in the same frame.
type CompositeDiscoverySystem struct {
	Step time.Duration
}

func NewCompositeDiscoverySystem() *CompositeDiscoverySystem {
	return &CompositeDiscoverySystem{Step: DefaultStep}
}

func (s *CompositeDiscoverySystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	step := s.Step
	if step <= 0 {
		step = DefaultStep
	}
	ecs.ForEach(w, animator.Component, func(e ecs.Entity, a animator.Animator) {
		c, ok := a.(*animator.Composite)
		if !ok || !ecs.ActiveInHierarchy(w, e) {
			return
		}
		c.MaybeRefresh(step)
	})
}
