package component

// Transform is the local placement of an entity relative to its parent.
// RotationX and RotationY are euler angles in degrees about the screen axes;
// 180 on either mirrors the entity across that axis. A zero scale is drawn
// as 1.
type Transform struct {
	X         float64
	Y         float64
	ScaleX    float64
	ScaleY    float64
	Rotation  float64
	RotationX float64
	RotationY float64
}

// EffectiveScale returns the scale with zero treated as 1.
func (t *Transform) EffectiveScale() (float64, float64) {
	sx, sy := t.ScaleX, t.ScaleY
	if sx == 0 {
		sx = 1
	}
	if sy == 0 {
		sy = 1
	}
	return sx, sy
}

var TransformComponent = NewComponent[*Transform]()
