package main

import (
	"fmt"
	"image/color"
	"log"
	"path/filepath"
	"strings"

	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"golang.design/x/clipboard"

	"github.com/milk9111/spriteanimator/importer"
	"github.com/milk9111/spriteanimator/render"
)

const (
	baseWidth  = 1280
	baseHeight = 720

	previewMargin = 24
)

var (
	backgroundColor = color.RGBA{24, 24, 28, 255}
	gridColor       = color.RGBA{255, 64, 160, 255}
)

// ImporterTool is the Ebiten game for the sheet importer: a settings panel
// on the left and a preview of the sheet with its grid on the right.
type ImporterTool struct {
	ui   *ebitenui.UI
	form *Form

	settings importer.Settings
	store    *importer.SettingsStore

	sheet     *ebiten.Image
	sheetPath string
	dirty     bool

	status    string
	clipboard bool
}

func NewImporterTool(settings importer.Settings, store *importer.SettingsStore) *ImporterTool {
	t := &ImporterTool{settings: settings, store: store}
	t.ui, t.form = BuildImporterUI(&t.settings, func() { t.dirty = true }, t.save)
	t.dirty = true

	if err := clipboard.Init(); err != nil {
		log.Printf("clipboard unavailable: %v", err)
	} else {
		t.clipboard = true
	}
	return t
}

func (t *ImporterTool) Update() error {
	t.ui.Update()

	if t.dirty {
		t.dirty = false
		t.syncSheet()
	}

	ctrl := ebiten.IsKeyPressed(ebiten.KeyControl) || ebiten.IsKeyPressed(ebiten.KeyMeta)
	if ctrl && inpututil.IsKeyJustPressed(ebiten.KeyS) {
		t.save()
	}
	return nil
}

// syncSheet reloads the preview when the source path changed and suggests
// an output path beside the sheet when none is set.
func (t *ImporterTool) syncSheet() {
	if t.settings.Source == t.sheetPath {
		return
	}
	t.sheetPath = t.settings.Source
	t.sheet = nil
	if t.sheetPath == "" {
		return
	}
	img, _, err := ebitenutil.NewImageFromFile(t.sheetPath)
	if err != nil {
		t.status = fmt.Sprintf("cannot open %s: %v", t.sheetPath, err)
		return
	}
	t.sheet = img
	t.status = ""
	if t.settings.Output == "" {
		t.settings.Output = strings.TrimSuffix(t.sheetPath, filepath.Ext(t.sheetPath)) + ".yaml"
		t.form.output.SetText(t.settings.Output)
	}
}

func (t *ImporterTool) save() {
	res, err := runImport(t.settings, t.store)
	if err != nil {
		t.status = fmt.Sprintf("import failed: %v", err)
		log.Printf("import failed: %v", err)
		return
	}
	t.status = fmt.Sprintf("wrote %s (%d frames, %d stale removed)", res.Asset, len(res.Frames), len(res.Removed))
	if t.clipboard {
		clipboard.Write(clipboard.FmtText, []byte(res.Asset))
		t.status += ", path copied"
	}
	log.Print(t.status)
}

func (t *ImporterTool) Draw(screen *ebiten.Image) {
	screen.Fill(backgroundColor)

	if t.sheet != nil {
		x := float64(panelWidth + previewMargin)
		w := float64(screen.Bounds().Dx()) - x - previewMargin
		h := float64(screen.Bounds().Dy()) - 2*previewMargin
		dx, dy, dw, dh := render.DrawImageFit(screen, t.sheet, x, previewMargin, w, h)
		t.drawCells(screen, dx, dy, dw, dh)
	}

	t.ui.Draw(screen)

	if t.status != "" {
		ebitenutil.DebugPrintAt(screen, t.status, panelWidth+previewMargin, screen.Bounds().Dy()-previewMargin+4)
	}
}

// drawCells outlines the grid over the part of the sheet that gets sliced
// and labels each cell with its frame number.
func (t *ImporterTool) drawCells(screen *ebiten.Image, dx, dy, dw, dh float64) {
	rows, cols := t.settings.Rows, t.settings.Cols
	iw, ih := t.sheet.Bounds().Dx(), t.sheet.Bounds().Dy()
	if rows < 1 || cols < 1 || iw < cols || ih < rows {
		return
	}
	// leftover pixels past the last full cell are not sliced
	gw := dw * float64(iw/cols*cols) / float64(iw)
	gh := dh * float64(ih/rows*rows) / float64(ih)
	render.DrawGrid(screen, dx, dy, gw, gh, rows, cols, gridColor)

	order, err := importer.ParseOrder(t.settings.Order)
	if err != nil {
		return
	}
	cw, ch := gw/float64(cols), gh/float64(rows)
	for i := 0; i < rows*cols; i++ {
		r, c := importer.CellPosition(i, rows, cols, order)
		ebitenutil.DebugPrintAt(screen, fmt.Sprint(i), int(dx+float64(c)*cw)+3, int(dy+float64(r)*ch)+2)
	}
}

func (t *ImporterTool) Layout(outsideWidth, outsideHeight int) (int, int) {
	return outsideWidth, outsideHeight
}
