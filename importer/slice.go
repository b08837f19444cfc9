// Package importer cuts a sprite sheet into per-cell frame images and writes
// them, together with an animation asset, next to each other on disk.
package importer

import (
	"errors"
	"fmt"
	"image"
	"strings"

	"golang.org/x/image/draw"
)

var (
	ErrInvalidGrid  = errors.New("importer: rows and cols must be at least 1")
	ErrCellTooSmall = errors.New("importer: grid cells would be empty")
)

// Order is the sequence cells are numbered in.
type Order int

const (
	RowMajor Order = iota
	ColumnMajor
)

func (o Order) String() string {
	switch o {
	case RowMajor:
		return "row"
	case ColumnMajor:
		return "column"
	default:
		return fmt.Sprintf("Order(%d)", int(o))
	}
}

func ParseOrder(s string) (Order, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "row", "rows", "row-major":
		return RowMajor, nil
	case "col", "column", "columns", "column-major":
		return ColumnMajor, nil
	default:
		return RowMajor, fmt.Errorf("importer: unknown order %q", s)
	}
}

// Cell is one grid rectangle of the source, copied into its own image.
type Cell struct {
	Index int
	Row   int
	Col   int
	Rect  image.Rectangle
	Image *image.NRGBA
}

// CellPosition returns the grid row and column of the i-th cell.
func CellPosition(i, rows, cols int, order Order) (row, col int) {
	if order == ColumnMajor {
		return i % rows, i / rows
	}
	return i / cols, i % cols
}

// Slice partitions img into rows by cols equal cells of W/cols by H/rows
// pixels, numbered in order. Leftover pixels on the right and bottom edges
// are dropped.
func Slice(img image.Image, rows, cols int, order Order) ([]Cell, error) {
	if rows < 1 || cols < 1 {
		return nil, fmt.Errorf("%w: got %dx%d", ErrInvalidGrid, rows, cols)
	}
	b := img.Bounds()
	cw, ch := b.Dx()/cols, b.Dy()/rows
	if cw == 0 || ch == 0 {
		return nil, fmt.Errorf("%w: %dx%d image, %dx%d grid", ErrCellTooSmall, b.Dx(), b.Dy(), rows, cols)
	}

	n := rows * cols
	cells := make([]Cell, n)
	for i := 0; i < n; i++ {
		row, col := CellPosition(i, rows, cols, order)
		at := b.Min.Add(image.Pt(col*cw, row*ch))
		r := image.Rectangle{Min: at, Max: at.Add(image.Pt(cw, ch))}

		dst := image.NewNRGBA(image.Rect(0, 0, cw, ch))
		draw.Draw(dst, dst.Bounds(), img, r.Min, draw.Src)
		cells[i] = Cell{Index: i, Row: row, Col: col, Rect: r, Image: dst}
	}
	return cells, nil
}
