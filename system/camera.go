package system

import (
	"github.com/milk9111/spriteanimator/common"
	"github.com/milk9111/spriteanimator/ecs"
	"github.com/milk9111/spriteanimator/ecs/component"
)

type CameraSystem struct {
	camEntity    ecs.Entity
	targetEntity ecs.Entity
}

func NewCameraSystem() *CameraSystem {
	return &CameraSystem{}
}

// Update moves the camera entity's transform toward its target's world
// position.
func (cs *CameraSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	if !ecs.Has(w, cs.camEntity, component.CameraComponent) {
		cs.camEntity, _ = firstCamera(w)
		cs.targetEntity = 0
	}
	cam, ok := ecs.Get(w, cs.camEntity, component.CameraComponent)
	if !ok || cam == nil || cam.TargetName == "" {
		return
	}
	if name, ok := ecs.Get(w, cs.targetEntity, component.NameComponent); !ok || string(name) != cam.TargetName {
		cs.targetEntity = findEntityByName(w, cam.TargetName)
	}
	if !ecs.IsAlive(w, cs.targetEntity) {
		return
	}

	tr, ok := ecs.Get(w, cs.camEntity, component.TransformComponent)
	if !ok || tr == nil {
		tr = &component.Transform{ScaleX: 1, ScaleY: 1}
		_ = ecs.Add(w, cs.camEntity, component.TransformComponent, tr)
	}
	target := WorldPose(w, cs.targetEntity)
	t := cam.Smoothness
	if t <= 0 || t > 1 {
		t = 1
	}
	tr.X = common.Lerp(tr.X, target.X, t)
	tr.Y = common.Lerp(tr.Y, target.Y, t)
}

// CameraView returns the top-left world position and zoom that put the
// first camera at the center of a viewW by viewH screen. Without a camera
// the world is drawn unmoved.
func CameraView(w *ecs.World, viewW, viewH float64) (x, y, zoom float64) {
	e, ok := firstCamera(w)
	if !ok {
		return 0, 0, 1
	}
	cam, _ := ecs.Get(w, e, component.CameraComponent)
	zoom = 1
	if cam != nil && cam.Zoom > 0 {
		zoom = cam.Zoom
	}
	p := WorldPose(w, e)
	return p.X - viewW/2/zoom, p.Y - viewH/2/zoom, zoom
}

func firstCamera(w *ecs.World) (ecs.Entity, bool) {
	var (
		found ecs.Entity
		ok    bool
	)
	ecs.ForEach(w, component.CameraComponent, func(e ecs.Entity, _ *component.Camera) {
		if !ok {
			found, ok = e, true
		}
	})
	return found, ok
}

func findEntityByName(w *ecs.World, name string) ecs.Entity {
	var found ecs.Entity
	ecs.ForEach(w, component.NameComponent, func(e ecs.Entity, n component.Name) {
		if !found.Valid() && string(n) == name {
			found = e
		}
	})
	return found
}
