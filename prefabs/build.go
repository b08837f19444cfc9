package prefabs

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"time"

	"github.com/milk9111/spriteanimator/animation"
	"github.com/milk9111/spriteanimator/animator"
	"github.com/milk9111/spriteanimator/ecs"
	"github.com/milk9111/spriteanimator/ecs/component"
	"github.com/milk9111/spriteanimator/script"
)

var (
	ErrDuplicateName    = errors.New("prefabs: duplicate entity name")
	ErrUnknownEntity    = errors.New("prefabs: unknown entity")
	ErrUnknownComponent = errors.New("prefabs: unknown component")
)

var knownComponents = []string{"transform", "sprite_renderer", "animator", "composite", "script", "camera"}

// Scene is a built scene: its entities by name, in declaration order.
type Scene struct {
	Name     string
	Entities map[string]ecs.Entity
	Order    []string
}

func (s *Scene) Entity(name string) (ecs.Entity, bool) {
	e, ok := s.Entities[name]
	return e, ok
}

// Destroy removes every entity the scene created.
func (s *Scene) Destroy(w *ecs.World) {
	for _, name := range s.Order {
		ecs.DestroyEntity(w, s.Entities[name])
	}
}

// Build creates the scene's entities in w. Sprite animators are attached
// before composites so composites see their children. Animation assets are
// loaded through lib. On error the partially built entities are destroyed.
func Build(w *ecs.World, spec SceneSpec, lib *animation.Library) (*Scene, error) {
	scene := &Scene{Name: spec.Name, Entities: make(map[string]ecs.Entity, len(spec.Entities))}
	if err := build(w, spec, lib, scene); err != nil {
		scene.Destroy(w)
		return nil, fmt.Errorf("prefabs: build %s: %w", spec.Name, err)
	}
	return scene, nil
}

func build(w *ecs.World, spec SceneSpec, lib *animation.Library, scene *Scene) error {
	for i, es := range spec.Entities {
		name := es.Name
		if name == "" {
			name = fmt.Sprintf("entity_%d", i)
		}
		if _, dup := scene.Entities[name]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicateName, name)
		}
		if err := checkComponents(name, es.Components); err != nil {
			return err
		}
		e := ecs.CreateEntity(w)
		scene.Entities[name] = e
		scene.Order = append(scene.Order, name)
		if err := ecs.Add(w, e, component.NameComponent, component.Name(name)); err != nil {
			return err
		}
	}

	for i, es := range spec.Entities {
		e := scene.Entities[scene.Order[i]]
		if es.Parent != "" {
			parent, ok := scene.Entities[es.Parent]
			if !ok {
				return fmt.Errorf("%s: parent %w: %s", scene.Order[i], ErrUnknownEntity, es.Parent)
			}
			if err := ecs.SetParent(w, e, parent); err != nil {
				return fmt.Errorf("%s: %w", scene.Order[i], err)
			}
		}
		if es.Inactive {
			_ = ecs.Add(w, e, component.InactiveComponent, component.Inactive{})
		}
		if err := addTransform(w, e, es.Components["transform"]); err != nil {
			return fmt.Errorf("%s: transform: %w", scene.Order[i], err)
		}
		if err := addSpriteRenderer(w, e, es.Components["sprite_renderer"]); err != nil {
			return fmt.Errorf("%s: sprite_renderer: %w", scene.Order[i], err)
		}
		if err := addScript(w, e, es.Components["script"]); err != nil {
			return fmt.Errorf("%s: script: %w", scene.Order[i], err)
		}
		if err := addCamera(w, e, es.Components["camera"]); err != nil {
			return fmt.Errorf("%s: camera: %w", scene.Order[i], err)
		}
	}

	for i, es := range spec.Entities {
		if raw, ok := es.Components["animator"]; ok {
			if err := attachSprite(w, scene, scene.Entities[scene.Order[i]], raw, lib); err != nil {
				return fmt.Errorf("%s: animator: %w", scene.Order[i], err)
			}
		}
	}
	for i, es := range spec.Entities {
		if raw, ok := es.Components["composite"]; ok {
			if err := attachComposite(w, scene, scene.Entities[scene.Order[i]], raw); err != nil {
				return fmt.Errorf("%s: composite: %w", scene.Order[i], err)
			}
		}
	}
	return nil
}

func checkComponents(name string, comps map[string]any) error {
	var unknown []string
	for k := range comps {
		if !slices.Contains(knownComponents, k) {
			unknown = append(unknown, k)
		}
	}
	if len(unknown) == 0 {
		return nil
	}
	sort.Strings(unknown)
	return fmt.Errorf("%s: %w: %v", name, ErrUnknownComponent, unknown)
}

func addTransform(w *ecs.World, e ecs.Entity, raw any) error {
	if raw == nil {
		return nil
	}
	spec, err := DecodeComponentSpec[TransformComponentSpec](raw)
	if err != nil {
		return err
	}
	tr := &component.Transform{
		X:         spec.X,
		Y:         spec.Y,
		ScaleX:    spec.ScaleX,
		ScaleY:    spec.ScaleY,
		Rotation:  spec.Rotation,
		RotationX: spec.RotationX,
		RotationY: spec.RotationY,
	}
	tr.ScaleX, tr.ScaleY = tr.EffectiveScale()
	return ecs.Add(w, e, component.TransformComponent, tr)
}

func addSpriteRenderer(w *ecs.World, e ecs.Entity, raw any) error {
	if raw == nil {
		return nil
	}
	spec, err := DecodeComponentSpec[SpriteRendererComponentSpec](raw)
	if err != nil {
		return err
	}
	return ecs.Add(w, e, component.SpriteRendererComponent, &component.SpriteRenderer{
		Image:   spec.Image,
		FlipX:   spec.FlipX,
		FlipY:   spec.FlipY,
		Layer:   spec.Layer,
		OriginX: spec.OriginX,
		OriginY: spec.OriginY,
	})
}

func addScript(w *ecs.World, e ecs.Entity, raw any) error {
	if raw == nil {
		return nil
	}
	spec, err := DecodeComponentSpec[ScriptComponentSpec](raw)
	if err != nil {
		return err
	}
	if spec.Path == "" {
		return errors.New("empty path")
	}
	return ecs.Add(w, e, script.Component, &script.Script{Path: spec.Path})
}

func addCamera(w *ecs.World, e ecs.Entity, raw any) error {
	if raw == nil {
		return nil
	}
	spec, err := DecodeComponentSpec[CameraComponentSpec](raw)
	if err != nil {
		return err
	}
	return ecs.Add(w, e, component.CameraComponent, &component.Camera{
		TargetName: spec.Target,
		Zoom:       spec.Zoom,
		Smoothness: spec.Smoothness,
	})
}

func attachSprite(w *ecs.World, scene *Scene, e ecs.Entity, raw any, lib *animation.Library) error {
	spec, err := DecodeComponentSpec[AnimatorComponentSpec](raw)
	if err != nil {
		return err
	}
	var opts []animator.SpriteOption
	for _, path := range spec.Animations {
		if lib == nil {
			return fmt.Errorf("no animation library for %s", path)
		}
		a, err := lib.Load(path)
		if err != nil {
			return err
		}
		opts = append(opts, animator.WithAnimations(a))
	}
	if spec.Renderer != "" {
		target, ok := scene.Entities[spec.Renderer]
		if !ok {
			return fmt.Errorf("renderer %w: %s", ErrUnknownEntity, spec.Renderer)
		}
		opts = append(opts, animator.WithRenderer(target))
	}
	if spec.Speed != nil {
		opts = append(opts, animator.WithSpeed(*spec.Speed))
	}
	if spec.PlayOnStart {
		opts = append(opts, animator.WithPlayOnStart())
	}
	_, err = animator.AttachSprite(w, e, opts...)
	return err
}

func attachComposite(w *ecs.World, scene *Scene, e ecs.Entity, raw any) error {
	spec, err := DecodeComponentSpec[CompositeComponentSpec](raw)
	if err != nil {
		return err
	}
	policy, err := animator.ParseFlipPolicy(spec.FlipPolicy)
	if err != nil {
		return err
	}
	opts := []animator.CompositeOption{animator.WithFlipPolicy(policy)}
	for _, name := range spec.Children {
		child, ok := scene.Entities[name]
		if !ok {
			return fmt.Errorf("child %w: %s", ErrUnknownEntity, name)
		}
		opts = append(opts, animator.WithChildren(child))
	}
	if spec.DetectChildren {
		opts = append(opts, animator.WithDetectChildren(spec.IncludeInactive))
	}
	if spec.PlayOnStart {
		opts = append(opts, animator.WithCompositePlayOnStart())
	}
	if spec.AutoRefresh {
		opts = append(opts, animator.WithAutoRefresh(time.Duration(spec.RefreshDelay*float64(time.Second))))
	}
	c, err := animator.AttachComposite(w, e, opts...)
	if err != nil {
		return err
	}
	if spec.Speed != nil {
		c.SetPlaybackSpeed(*spec.Speed)
	}
	return nil
}
