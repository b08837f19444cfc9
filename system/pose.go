package system

import (
	"math"

	"github.com/milk9111/spriteanimator/ecs"
	"github.com/milk9111/spriteanimator/ecs/component"
)

// Pose is an entity's placement in world space. Mirroring from a half turn
// about X or Y is folded into the sign of the scale.
type Pose struct {
	X, Y           float64
	ScaleX, ScaleY float64
	// Rotation is in degrees, clockwise on screen.
	Rotation float64
}

var identity = Pose{ScaleX: 1, ScaleY: 1}

func localPose(tr *component.Transform) Pose {
	if tr == nil {
		return identity
	}
	sx, sy := tr.EffectiveScale()
	if mirrored(tr.RotationY) {
		sx = -sx
	}
	if mirrored(tr.RotationX) {
		sy = -sy
	}
	return Pose{X: tr.X, Y: tr.Y, ScaleX: sx, ScaleY: sy, Rotation: tr.Rotation}
}

// mirrored reports whether a rotation about a screen axis leaves the
// sprite facing the other way.
func mirrored(deg float64) bool {
	r := math.Mod(math.Abs(deg), 360)
	return r > 90 && r < 270
}

// Apply places child, expressed in p's local space, into p's space.
func (p Pose) Apply(child Pose) Pose {
	lx, ly := child.X*p.ScaleX, child.Y*p.ScaleY
	rad := p.Rotation * math.Pi / 180
	sin, cos := math.Sincos(rad)
	return Pose{
		X:        p.X + lx*cos - ly*sin,
		Y:        p.Y + lx*sin + ly*cos,
		ScaleX:   p.ScaleX * child.ScaleX,
		ScaleY:   p.ScaleY * child.ScaleY,
		Rotation: p.Rotation + child.Rotation,
	}
}

// WorldPose composes e's transform with every ancestor's.
func WorldPose(w *ecs.World, e ecs.Entity) Pose {
	var chain []*component.Transform
	for n := e; n != 0; n, _ = ecs.Parent(w, n) {
		tr, _ := ecs.Get(w, n, component.TransformComponent)
		chain = append(chain, tr)
	}
	pose := identity
	for i := len(chain) - 1; i >= 0; i-- {
		pose = pose.Apply(localPose(chain[i]))
	}
	return pose
}
