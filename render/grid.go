package render

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// DrawImageFit draws img scaled to fit inside the w by h box at (x, y),
// keeping its aspect ratio, and returns the drawn rectangle.
func DrawImageFit(screen, img *ebiten.Image, x, y, w, h float64) (dx, dy, dw, dh float64) {
	iw := float64(img.Bounds().Dx())
	ih := float64(img.Bounds().Dy())
	if iw <= 0 || ih <= 0 || w <= 0 || h <= 0 {
		return x, y, 0, 0
	}
	scale := min(w/iw, h/ih)
	dw, dh = iw*scale, ih*scale
	dx, dy = x+(w-dw)/2, y+(h-dh)/2

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(scale, scale)
	op.GeoM.Translate(dx, dy)
	op.Filter = ebiten.FilterNearest
	screen.DrawImage(img, op)
	return dx, dy, dw, dh
}

// DrawGrid outlines rows by cols equal cells over the given rectangle.
func DrawGrid(screen *ebiten.Image, x, y, w, h float64, rows, cols int, clr color.Color) {
	if rows < 1 || cols < 1 || w <= 0 || h <= 0 {
		return
	}
	fx, fy, fw, fh := float32(x), float32(y), float32(w), float32(h)
	for c := 0; c <= cols; c++ {
		lx := fx + fw*float32(c)/float32(cols)
		vector.FillRect(screen, lx, fy, 1, fh, clr, false)
	}
	for r := 0; r <= rows; r++ {
		ly := fy + fh*float32(r)/float32(rows)
		vector.FillRect(screen, fx, ly, fw, 1, clr, false)
	}
}
