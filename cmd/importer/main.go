package main

import (
	"flag"
	"fmt"
	"log"
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/spriteanimator/importer"
)

const settingsApp = "spriteanimator_importer"

func main() {
	src := flag.String("src", "", "sprite sheet to slice")
	rows := flag.Int("rows", 1, "grid rows")
	cols := flag.Int("cols", 1, "grid columns")
	order := flag.String("order", importer.RowMajor.String(), "frame order: row or column")
	duration := flag.Float64("duration", 0.1, "frame duration in seconds")
	loop := flag.Bool("loop", false, "loop the animation")
	unscaled := flag.Bool("unscaled", false, "ignore the engine time scale")
	out := flag.String("out", "", "animation asset to write (directory with -tmx)")
	tmx := flag.String("tmx", "", "import every animated tile of a Tiled map")
	headless := flag.Bool("headless", false, "import without opening a window")
	flag.Parse()

	store, err := importer.OpenSettings(settingsApp)
	if err != nil {
		log.Printf("settings disabled: %v", err)
	}
	settings, err := store.Load()
	if err != nil {
		log.Printf("%v", err)
	}

	// flags given on the command line win over the saved settings
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "src":
			settings.Source = *src
		case "rows":
			settings.Rows = *rows
		case "cols":
			settings.Cols = *cols
		case "order":
			settings.Order = *order
		case "duration":
			settings.Duration = *duration
		case "loop":
			settings.Loop = *loop
		case "unscaled":
			settings.Unscaled = *unscaled
		case "out":
			settings.Output = *out
		}
	})

	if *tmx != "" {
		dir := *out
		if dir == "" {
			dir = filepath.Dir(*tmx)
		}
		results, err := importer.ImportTiledMap(*tmx, dir)
		if err != nil {
			log.Fatal(err)
		}
		for _, r := range results {
			fmt.Printf("%s tile %d -> %s\n", r.Tileset, r.TileID, r.Asset)
		}
		return
	}

	if *headless {
		res, err := runImport(settings, store)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Printf("wrote %s (%d frames, %d stale removed)\n", res.Asset, len(res.Frames), len(res.Removed))
		return
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(baseWidth, baseHeight)
	ebiten.SetWindowTitle("spriteanimator importer")

	if err := ebiten.RunGame(NewImporterTool(settings, store)); err != nil {
		log.Fatal(err)
	}
}

// runImport writes the asset and remembers the settings that produced it.
func runImport(settings importer.Settings, store *importer.SettingsStore) (*importer.Result, error) {
	req, err := settings.Request()
	if err != nil {
		return nil, err
	}
	res, err := importer.Save(req)
	if err != nil {
		return nil, err
	}
	if err := store.Save(settings); err != nil {
		log.Printf("%v", err)
	}
	return res, nil
}
