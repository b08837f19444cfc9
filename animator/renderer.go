package animator

import (
	"github.com/milk9111/spriteanimator/animation"
	"github.com/milk9111/spriteanimator/ecs"
	"github.com/milk9111/spriteanimator/ecs/component"
)

// resolveRenderer picks the entity whose renderer this animator drives:
// the explicit target, then the owner, then the first descendant carrying a
// renderer (inactive ones included), and finally a renderer attached to the
// owner. The result is memoized while the entity stays alive.
func (s *Sprite) resolveRenderer() ecs.Entity {
	if s.resolved && s.world.IsAlive(s.renderer) && ecs.Has(s.world, s.renderer, component.SpriteRendererComponent) {
		return s.renderer
	}

	target := ecs.Entity(0)
	switch {
	case s.target.Valid() && s.world.IsAlive(s.target):
		target = s.target
	case ecs.Has(s.world, s.owner, component.SpriteRendererComponent):
		target = s.owner
	default:
		for _, d := range ecs.Descendants(s.world, s.owner) {
			if ecs.Has(s.world, d, component.SpriteRendererComponent) {
				target = d
				break
			}
		}
	}
	if !target.Valid() {
		target = s.owner
	}

	if !ecs.Has(s.world, target, component.SpriteRendererComponent) {
		_ = ecs.Add(s.world, target, component.SpriteRendererComponent, &component.SpriteRenderer{})
	}
	tr, ok := ecs.Get(s.world, target, component.TransformComponent)
	if !ok || tr == nil {
		tr = &component.Transform{ScaleX: 1, ScaleY: 1}
		_ = ecs.Add(s.world, target, component.TransformComponent, tr)
	}

	if !s.resolved || target != s.renderer {
		s.original = animation.Vec{X: tr.X, Y: tr.Y}
	}
	s.renderer = target
	s.resolved = true
	return target
}

func (s *Sprite) rendererComponent() *component.SpriteRenderer {
	r, _ := ecs.Get(s.world, s.resolveRenderer(), component.SpriteRendererComponent)
	return r
}

func (s *Sprite) rendererTransform() *component.Transform {
	tr, _ := ecs.Get(s.world, s.resolveRenderer(), component.TransformComponent)
	return tr
}

// Renderer returns the entity whose renderer this animator writes.
func (s *Sprite) Renderer() ecs.Entity {
	return s.resolveRenderer()
}

// OriginalPosition is the renderer's local position before any frame
// offset was applied.
func (s *Sprite) OriginalPosition() animation.Vec {
	s.resolveRenderer()
	return s.original
}
