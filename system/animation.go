// Package system holds the per-frame systems that drive animators.
package system

import (
	"math"
	"time"

	"github.com/milk9111/spriteanimator/animator"
	"github.com/milk9111/spriteanimator/ecs"
)

// DefaultStep is one frame at Ebitengine's default 60 TPS.
const DefaultStep = time.Second / 60

// AnimationSystem calls Update on every enabled animator whose entity is
// active in the hierarchy. Animators a composite drives are disabled and
// skipped here.
type AnimationSystem struct {
	Step      time.Duration
	TimeScale float64
}

func NewAnimationSystem() *AnimationSystem {
	return &AnimationSystem{Step: DefaultStep, TimeScale: 1}
}

func (s *AnimationSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	step := s.Step
	if step <= 0 {
		step = DefaultStep
	}
	scale := math.Max(0, s.TimeScale)
	ecs.ForEach(w, animator.Component, func(e ecs.Entity, a animator.Animator) {
		if a == nil || !a.Enabled() || !ecs.ActiveInHierarchy(w, e) {
			return
		}
		a.Update(step, scale)
	})
}
