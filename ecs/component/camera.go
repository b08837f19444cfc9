package component

// Camera views the world from its entity's transform. With a target it
// eases toward the named entity each frame.
type Camera struct {
	TargetName string
	Zoom       float64
	// Smoothness is the fraction of the remaining distance covered per
	// frame. Zero or one snaps to the target.
	Smoothness float64
}

var CameraComponent = NewComponent[*Camera]()
