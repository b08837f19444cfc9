package main

import (
	"fmt"
	"io/fs"
	"log"
	"os"
	"path"
	"path/filepath"

	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/spriteanimator/animation"
	"github.com/milk9111/spriteanimator/ecs"
	"github.com/milk9111/spriteanimator/prefabs"
	"github.com/milk9111/spriteanimator/render"
	"github.com/milk9111/spriteanimator/script"
	"github.com/milk9111/spriteanimator/system"
)

const (
	baseWidth  = 1280
	baseHeight = 720

	minTimeScale = 0.125
	maxTimeScale = 8
)

type Game struct {
	frames int

	world     *ecs.World
	scheduler *ecs.Scheduler
	scenePath string
	scene     *prefabs.Scene

	library   *animation.Library
	renderer  *render.System
	scripts   *script.System
	animation *system.AnimationSystem
	events    *system.EventSystem
	watcher   *prefabs.Watcher

	paused  bool
	pauseUI *ebitenui.UI
	debug   bool
}

func NewGame(scenePath string, timeScale float64, debug, watch bool) *Game {
	assets := prefabs.FS()
	g := &Game{
		world:     ecs.NewWorld(),
		scenePath: scenePath,
		library:   animation.NewLibrary(assets),
		renderer:  render.NewSystem(render.NewRegistry(assets)),
		scripts:   script.NewSystem(prefabs.LoadScript),
		animation: system.NewAnimationSystem(),
		events:    system.NewEventSystem(debug),
		debug:     debug,
	}
	g.animation.TimeScale = clampTimeScale(timeScale)
	g.events.Handle(g.scripts.Notify)

	g.scheduler = ecs.NewScheduler(
		system.NewCompositeDiscoverySystem(),
		g.animation,
		system.NewCameraSystem(),
		NewInputSystem(g.scripts),
		g.scripts,
		g.events,
		g.renderer,
	)
	g.pauseUI = NewPauseUI(g)

	if err := g.loadScene(); err != nil {
		log.Printf("failed to load scene %s: %v", scenePath, err)
	}
	if watch {
		g.watcher = startWatcher()
	}
	return g
}

// loadScene replaces the current scene with a fresh build of scenePath. The
// old scene stays up when the new one fails to build.
func (g *Game) loadScene() error {
	spec, err := prefabs.LoadSceneSpec(g.scenePath)
	if err != nil {
		return err
	}
	next := ecs.NewWorld()
	scene, err := prefabs.Build(next, spec, g.library)
	if err != nil {
		return err
	}
	g.world = next
	g.scene = scene
	g.scripts.Invalidate("")
	log.Printf("loaded scene %s (%d entities)", spec.Name, len(scene.Order))
	return nil
}

func (g *Game) Update() error {
	g.frames++

	g.applyChanges()

	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		g.paused = !g.paused
	}
	if g.paused {
		g.pauseUI.Update()
		return nil
	}

	g.scheduler.Update(g.world)
	return nil
}

// applyChanges reacts to files the watcher saw change.
func (g *Game) applyChanges() {
	if g.watcher == nil {
		return
	}
	select {
	case err, ok := <-g.watcher.Errors:
		if ok && err != nil {
			log.Printf("watcher: %v", err)
		}
	default:
	}
	for _, changed := range g.watcher.Drain() {
		rel, ok := prefabs.Rel(changed)
		if !ok {
			continue
		}
		switch path.Ext(rel) {
		case ".png":
			g.renderer.Forget(rel)
		case ".tengo":
			g.scripts.Invalidate(rel)
			log.Printf("reloaded script %s", rel)
		case ".yaml", ".yml":
			g.reloadSpec(rel)
		}
	}
}

func (g *Game) reloadSpec(rel string) {
	if rel == prefabs.Key(g.scenePath) {
		if err := g.loadScene(); err != nil {
			log.Printf("failed to reload scene %s: %v", rel, err)
		}
		return
	}
	if _, ok := g.library.Get(rel); !ok {
		return
	}
	if _, err := g.library.Reload(rel); err != nil {
		log.Printf("failed to reload animation %s: %v", rel, err)
		return
	}
	log.Printf("reloaded animation %s", rel)
}

func (g *Game) SetTimeScale(v float64) {
	g.animation.TimeScale = clampTimeScale(v)
}

func (g *Game) TimeScale() float64 {
	return g.animation.TimeScale
}

func clampTimeScale(v float64) float64 {
	return min(max(v, minTimeScale), maxTimeScale)
}

func (g *Game) Draw(screen *ebiten.Image) {
	camX, camY, zoom := system.CameraView(g.world, baseWidth, baseHeight)
	g.renderer.Draw(g.world, screen, camX, camY, zoom)

	ebitenutil.DebugPrint(screen, fmt.Sprintf("Frames: %d    FPS: %.2f    Time scale: %.3g", g.frames, ebiten.ActualFPS(), g.TimeScale()))
	if g.debug {
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("Entities: %d    Assets: %v", len(ecs.Entities(g.world)), g.library.Keys()), 0, 20)
	}

	if g.paused {
		g.pauseUI.Draw(screen)
	}
}

func (g *Game) Close() {
	if g.watcher != nil {
		_ = g.watcher.Close()
	}
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return baseWidth, baseHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}

// startWatcher watches every directory under prefabs.Dir. It returns nil
// when the prefabs are only available embedded.
func startWatcher() *prefabs.Watcher {
	var dirs []string
	err := filepath.WalkDir(prefabs.Dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			dirs = append(dirs, p)
		}
		return nil
	})
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("failed to scan %s: %v", prefabs.Dir, err)
		}
		return nil
	}
	w, err := prefabs.NewWatcher(dirs...)
	if err != nil {
		log.Printf("failed to watch %s: %v", prefabs.Dir, err)
		return nil
	}
	return w
}
