package main

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/spriteanimator/ecs"
	"github.com/milk9111/spriteanimator/script"
	"github.com/milk9111/spriteanimator/system"
)

// watchedKeys are the keys scripts can ask about, by the name they use.
var watchedKeys = []struct {
	name string
	key  ebiten.Key
}{
	{"space", ebiten.KeySpace},
	{"f", ebiten.KeyF},
	{"s", ebiten.KeyS},
	{"up", ebiten.KeyArrowUp},
	{"down", ebiten.KeyArrowDown},
}

// InputSystem hands this frame's clicks and key presses to the scripts.
type InputSystem struct {
	scripts *script.System
}

func NewInputSystem(scripts *script.System) *InputSystem {
	return &InputSystem{scripts: scripts}
}

func (i *InputSystem) Update(w *ecs.World) {
	if w == nil || i.scripts == nil {
		return
	}

	clicked := inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft)
	var keys []string
	for _, k := range watchedKeys {
		if inpututil.IsKeyJustPressed(k.key) {
			keys = append(keys, k.name)
		}
	}

	if gamepads := ebiten.AppendGamepadIDs(nil); len(gamepads) > 0 {
		id := gamepads[0]
		clicked = clicked || inpututil.IsStandardGamepadButtonJustPressed(id, ebiten.StandardGamepadButtonRightBottom)
		if inpututil.IsStandardGamepadButtonJustPressed(id, ebiten.StandardGamepadButtonRightLeft) {
			keys = append(keys, "space")
		}
		if inpututil.IsStandardGamepadButtonJustPressed(id, ebiten.StandardGamepadButtonRightTop) {
			keys = append(keys, "f")
		}
	}

	i.scripts.SetInput(script.Input{
		Clicked: clicked,
		Keys:    keys,
		DT:      system.DefaultStep,
	})
}
