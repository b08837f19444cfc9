package importer

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/milk9111/spriteanimator/animation"
)

const waterTMX = `<?xml version="1.0" encoding="UTF-8"?>
<map version="1.10" orientation="orthogonal" renderorder="right-down" width="1" height="1" tilewidth="8" tileheight="8" infinite="0" nextlayerid="2" nextobjectid="1">
 <tileset firstgid="1" name="water" tilewidth="8" tileheight="8" tilecount="4" columns="2">
  <image source="water.png" width="16" height="16"/>
  <tile id="0">
   <animation>
    <frame tileid="0" duration="100"/>
    <frame tileid="3" duration="250"/>
   </animation>
  </tile>
 </tileset>
 <layer id="1" name="ground" width="1" height="1">
  <data encoding="csv">
1
</data>
 </layer>
</map>
`

func TestImportTiledMap(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "water.png"), quadrantSheet(16, 16, 2, 2))
	mapPath := filepath.Join(dir, "level.tmx")
	if err := os.WriteFile(mapPath, []byte(waterTMX), 0o644); err != nil {
		t.Fatal(err)
	}
	outDir := filepath.Join(dir, "out")

	results, err := ImportTiledMap(mapPath, outDir)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 || results[0].Tileset != "water" || results[0].TileID != 0 {
		t.Fatalf("unexpected results %+v", results)
	}

	a, err := animation.LoadFile(results[0].Asset)
	if err != nil {
		t.Fatal(err)
	}
	if !a.Loop || a.FrameCount() != 2 {
		t.Fatalf("unexpected asset %+v", a)
	}
	if a.Frames[0].Duration != 0.1 || a.Frames[1].Duration != 0.25 {
		t.Fatalf("durations not converted from ms: %v %v", a.Frames[0].Duration, a.Frames[1].Duration)
	}

	f, err := os.Open(a.Frames[1].Image)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 8 || b.Dy() != 8 {
		t.Fatalf("expected an 8x8 tile, got %v", b)
	}
	r, g, _, _ := img.At(4, 4).RGBA()
	want := cellColor(1, 1)
	if uint8(r>>8) != want.R || uint8(g>>8) != want.G {
		t.Fatalf("frame 1 should be tile 3, got color %v", img.At(4, 4))
	}
}

func TestImportTiledMapMissing(t *testing.T) {
	if _, err := ImportTiledMap(filepath.Join(t.TempDir(), "nope.tmx"), t.TempDir()); err == nil {
		t.Fatalf("expected an error")
	}
}
