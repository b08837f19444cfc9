package render

import (
	"log"
	"math"
	"sort"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/spriteanimator/ecs"
	"github.com/milk9111/spriteanimator/ecs/component"
	"github.com/milk9111/spriteanimator/system"
)

// System draws every active sprite renderer at its world pose.
type System struct {
	Images *Registry

	missing map[string]bool
}

func NewSystem(images *Registry) *System {
	return &System{Images: images, missing: make(map[string]bool)}
}

// Update is a no-op (render occurs in Draw).
func (s *System) Update(w *ecs.World) {}

// Draw renders sprites sorted by layer, then by world Y.
func (s *System) Draw(w *ecs.World, screen *ebiten.Image, camX, camY, zoom float64) {
	if w == nil || screen == nil {
		return
	}
	if zoom <= 0 {
		zoom = 1
	}

	type item struct {
		spr  *component.SpriteRenderer
		pose system.Pose
	}
	var items []item
	ecs.ForEach(w, component.SpriteRendererComponent, func(e ecs.Entity, spr *component.SpriteRenderer) {
		if spr == nil || spr.Image == "" || !ecs.ActiveInHierarchy(w, e) {
			return
		}
		items = append(items, item{spr: spr, pose: system.WorldPose(w, e)})
	})

	sort.SliceStable(items, func(i, j int) bool {
		if items[i].spr.Layer == items[j].spr.Layer {
			return items[i].pose.Y < items[j].pose.Y
		}
		return items[i].spr.Layer < items[j].spr.Layer
	})

	for _, it := range items {
		img := s.image(it.spr.Image)
		if img == nil {
			continue
		}
		drawSprite(screen, img, it.spr, it.pose, camX, camY, zoom)
	}
}

func (s *System) image(key string) *ebiten.Image {
	if s.Images == nil {
		return nil
	}
	img, err := s.Images.Load(key)
	if err != nil {
		if !s.missing[key] {
			log.Printf("render: %v", err)
			s.missing[key] = true
		}
		return nil
	}
	delete(s.missing, key)
	return img
}

// Forget drops a cached image and its missing-image warning.
func (s *System) Forget(key string) {
	if s.Images != nil {
		s.Images.Forget(key)
	}
	delete(s.missing, key)
}

func drawSprite(screen, img *ebiten.Image, spr *component.SpriteRenderer, pose system.Pose, camX, camY, zoom float64) {
	w := float64(img.Bounds().Dx())
	h := float64(img.Bounds().Dy())
	if w <= 0 || h <= 0 {
		return
	}

	op := &ebiten.DrawImageOptions{}
	if spr.FlipX {
		op.GeoM.Scale(-1, 1)
		op.GeoM.Translate(w, 0)
	}
	if spr.FlipY {
		op.GeoM.Scale(1, -1)
		op.GeoM.Translate(0, h)
	}
	op.GeoM.Translate(-spr.OriginX, -spr.OriginY)
	op.GeoM.Scale(pose.ScaleX, pose.ScaleY)
	op.GeoM.Rotate(pose.Rotation * math.Pi / 180)
	op.GeoM.Translate(math.Round((pose.X-camX)*zoom)/zoom, math.Round((pose.Y-camY)*zoom)/zoom)
	op.GeoM.Scale(zoom, zoom)
	op.Filter = ebiten.FilterNearest
	screen.DrawImage(img, op)
}
