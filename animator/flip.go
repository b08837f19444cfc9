package animator

import (
	"fmt"
	"math"
	"strings"

	"github.com/milk9111/spriteanimator/ecs"
	"github.com/milk9111/spriteanimator/ecs/component"
)

// FlipPolicy selects how a composite applies its flip flags.
type FlipPolicy int

const (
	// FlipRenderer copies the flags onto every child's renderer.
	FlipRenderer FlipPolicy = iota
	// FlipRotation turns the composite's transform 180 degrees about the
	// axis that mirrors the requested direction.
	FlipRotation
	// FlipScale negates the composite's scale on the flipped axis.
	FlipScale
)

func (p FlipPolicy) String() string {
	switch p {
	case FlipRenderer:
		return "renderer"
	case FlipRotation:
		return "rotation"
	case FlipScale:
		return "scale"
	default:
		return fmt.Sprintf("FlipPolicy(%d)", int(p))
	}
}

func ParseFlipPolicy(s string) (FlipPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "renderer", "sprite_renderer":
		return FlipRenderer, nil
	case "rotation":
		return FlipRotation, nil
	case "scale":
		return FlipScale, nil
	default:
		return FlipRenderer, fmt.Errorf("animator: unknown flip policy %q", s)
	}
}

const flippedDegrees = 180

type axis int

const (
	axisX axis = iota
	axisY
)

func (c *Composite) applyFlip(a axis) {
	switch c.policy {
	case FlipRotation:
		tr := c.transform()
		// mirroring horizontally is a half turn about the vertical axis
		if a == axisX {
			tr.RotationY = flipDegrees(c.flipX)
		} else {
			tr.RotationX = flipDegrees(c.flipY)
		}
	case FlipScale:
		tr := c.transform()
		if a == axisX {
			tr.ScaleX = signedScale(tr.ScaleX, c.flipX)
		} else {
			tr.ScaleY = signedScale(tr.ScaleY, c.flipY)
		}
	default:
		c.each(func(child Animator) {
			if a == axisX {
				child.SetFlipX(c.flipX)
			} else {
				child.SetFlipY(c.flipY)
			}
		})
	}
}

func (c *Composite) transform() *component.Transform {
	tr, ok := ecs.Get(c.world, c.owner, component.TransformComponent)
	if !ok || tr == nil {
		tr = &component.Transform{ScaleX: 1, ScaleY: 1}
		_ = ecs.Add(c.world, c.owner, component.TransformComponent, tr)
	}
	return tr
}

func flipDegrees(flipped bool) float64 {
	if flipped {
		return flippedDegrees
	}
	return 0
}

// signedScale keeps the magnitude of v and sets its sign. A zero scale
// renders as 1, so it is treated as 1.
func signedScale(v float64, negative bool) float64 {
	mag := math.Abs(v)
	if mag == 0 {
		mag = 1
	}
	if negative {
		return -mag
	}
	return mag
}
