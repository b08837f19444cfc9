package main

import (
	"flag"
	"fmt"
	"image/color"
	"log"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/milk9111/spriteanimator/animation"
	"github.com/milk9111/spriteanimator/animator"
	"github.com/milk9111/spriteanimator/ecs"
	"github.com/milk9111/spriteanimator/ecs/component"
	"github.com/milk9111/spriteanimator/render"
	"github.com/milk9111/spriteanimator/system"
)

const screenSize = 512

// previewGame plays animation assets from disk on a single sprite.
type previewGame struct {
	world    *ecs.World
	sprite   *animator.Sprite
	anim     *system.AnimationSystem
	renderer *render.System
	zoom     float64
}

func (g *previewGame) Update() error {
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeySpace):
		next := (g.sprite.CurrentAnimation() + 1) % g.sprite.AnimationCount()
		g.sprite.PlayAnimation(next, animator.WithFrameCounter(0))
	case inpututil.IsKeyJustPressed(ebiten.KeyP):
		if g.sprite.IsRunning() {
			g.sprite.PausePlayback()
		} else {
			g.sprite.ResumePlayback()
		}
	case inpututil.IsKeyJustPressed(ebiten.KeyF):
		g.sprite.PlayAnimation(max(0, g.sprite.CurrentAnimation()), animator.WithFlip(true, false))
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowUp):
		g.anim.TimeScale *= 2
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowDown):
		g.anim.TimeScale /= 2
	}
	g.anim.Update(g.world)
	return nil
}

func (g *previewGame) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{0x00, 0x00, 0x00, 0xff})
	g.renderer.Draw(g.world, screen, 0, 0, g.zoom)

	name := ""
	if a := g.sprite.Animation(g.sprite.CurrentAnimation()); a != nil {
		name = a.Name
	}
	ebitenutil.DebugPrint(screen, fmt.Sprintf("%s  frame %d  %s  x%.3g", name, g.sprite.FrameCounter(), g.sprite.State(), g.anim.TimeScale))
}

func (g *previewGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return screenSize, screenSize
}

func newPreview(paths []string, zoom float64) (*previewGame, error) {
	var anims []*animation.Animation
	for _, p := range paths {
		a, err := animation.LoadFile(p)
		if err != nil {
			return nil, err
		}
		if err := a.Validate(); err != nil {
			return nil, fmt.Errorf("%s: %w", p, err)
		}
		anims = append(anims, a)
	}

	w := ecs.NewWorld()
	e := ecs.CreateEntity(w)
	center := screenSize / 2 / zoom
	if err := ecs.Add(w, e, component.TransformComponent, &component.Transform{X: center, Y: center, ScaleX: 1, ScaleY: 1}); err != nil {
		return nil, err
	}
	if err := ecs.Add(w, e, component.SpriteRendererComponent, &component.SpriteRenderer{}); err != nil {
		return nil, err
	}
	sprite, err := animator.AttachSprite(w, e, animator.WithAnimations(anims...), animator.WithPlayOnStart())
	if err != nil {
		return nil, err
	}
	images := render.NewRegistry()
	centerOrigin(w, e, anims, images)

	return &previewGame{
		world:    w,
		sprite:   sprite,
		anim:     system.NewAnimationSystem(),
		renderer: render.NewSystem(images),
		zoom:     zoom,
	}, nil
}

// centerOrigin puts the renderer origin at the middle of the first frame.
func centerOrigin(w *ecs.World, e ecs.Entity, anims []*animation.Animation, images *render.Registry) {
	spr, ok := ecs.Get(w, e, component.SpriteRendererComponent)
	if !ok || len(anims) == 0 || anims[0].FrameCount() == 0 {
		return
	}
	frame, _ := anims[0].Frame(0)
	img, err := images.Load(frame.Image)
	if err != nil {
		log.Printf("preview: %v", err)
		return
	}
	spr.OriginX = float64(img.Bounds().Dx()) / 2
	spr.OriginY = float64(img.Bounds().Dy()) / 2
}

func main() {
	assets := flag.String("assets", "", "comma separated animation assets to play")
	zoom := flag.Float64("zoom", 4, "pixel zoom")
	flag.Parse()

	var paths []string
	for _, p := range strings.Split(*assets, ",") {
		if p = strings.TrimSpace(p); p != "" {
			paths = append(paths, p)
		}
	}
	if len(paths) == 0 {
		log.Fatal("preview: -assets is required")
	}

	g, err := newPreview(paths, max(*zoom, 1))
	if err != nil {
		log.Fatal(err)
	}
	ebiten.SetWindowSize(screenSize, screenSize)
	ebiten.SetWindowTitle("Animation Preview")
	if err := ebiten.RunGame(g); err != nil {
		log.Fatal(err)
	}
}
