package importer

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	"github.com/lafriks/go-tiled"
	"golang.org/x/image/draw"

	"github.com/milk9111/spriteanimator/animation"
)

// TiledResult is one animated tile turned into an asset.
type TiledResult struct {
	Tileset string
	TileID  uint32
	Asset   string
}

// ImportTiledMap writes one looping animation asset into outDir for every
// animated tile of every tileset referenced by the TMX map at mapPath.
// Assets are named <tileset>_<tile id>; their frames are the tiles the
// animation steps through, with Tiled's millisecond durations.
func ImportTiledMap(mapPath, outDir string) ([]TiledResult, error) {
	m, err := tiled.LoadFile(mapPath)
	if err != nil {
		return nil, fmt.Errorf("importer: load TMX %s: %w", mapPath, err)
	}

	var out []TiledResult
	for _, ts := range m.Tilesets {
		if ts == nil || ts.Image == nil {
			continue
		}
		var sheet image.Image
		for _, tile := range ts.Tiles {
			if tile == nil || len(tile.Animation) == 0 {
				continue
			}
			if sheet == nil {
				sheet, err = decodeFile(ts.GetFileFullPath(ts.Image.Source))
				if err != nil {
					return out, fmt.Errorf("importer: tileset %s: %w", ts.Name, err)
				}
			}
			res, err := writeTileAnimation(ts, tile, sheet, outDir)
			if err != nil {
				return out, err
			}
			out = append(out, res)
		}
	}
	return out, nil
}

func writeTileAnimation(ts *tiled.Tileset, tile *tiled.TilesetTile, sheet image.Image, outDir string) (TiledResult, error) {
	name := fmt.Sprintf("%s_%d", ts.Name, tile.ID)
	frameDir := filepath.Join(outDir, name)
	if err := os.MkdirAll(frameDir, 0o755); err != nil {
		return TiledResult{}, fmt.Errorf("importer: %w", err)
	}

	anim := animation.New(name)
	anim.Loop = true
	paths := make([]string, 0, len(tile.Animation))
	for i, f := range tile.Animation {
		r := ts.GetTileRect(f.TileID).Add(sheet.Bounds().Min)
		cell := image.NewNRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
		draw.Draw(cell, cell.Bounds(), sheet, r.Min, draw.Src)

		var buf bytes.Buffer
		if err := png.Encode(&buf, cell); err != nil {
			return TiledResult{}, fmt.Errorf("importer: encode %s frame %d: %w", name, i, err)
		}
		p := filepath.Join(frameDir, fmt.Sprintf("%s_%02d.png", name, i))
		if err := os.WriteFile(p, buf.Bytes(), 0o644); err != nil {
			return TiledResult{}, fmt.Errorf("importer: write %s frame %d: %w", name, i, err)
		}
		paths = append(paths, p)
		anim.Frames = append(anim.Frames, animation.Frame{Image: p, Duration: float64(f.Duration) / 1000})
	}

	asset := filepath.Join(outDir, name+".yaml")
	if err := animation.SaveFile(asset, anim); err != nil {
		return TiledResult{}, fmt.Errorf("importer: %w", err)
	}
	if _, err := removeStale(frameDir, name, paths); err != nil {
		return TiledResult{}, fmt.Errorf("importer: cleanup %s: %w", frameDir, err)
	}
	return TiledResult{Tileset: ts.Name, TileID: tile.ID, Asset: asset}, nil
}
