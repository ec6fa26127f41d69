package frame

import (
	"errors"
	"fmt"

	"github.com/lixenwraith/termrender/terminal"
)

var (
	// ErrOutOfBounds is returned when indexing outside the frame
	ErrOutOfBounds = errors.New("position out of bounds")
	// ErrDimensionMismatch is returned when two frames of different sizes are compared or copied
	ErrDimensionMismatch = errors.New("frame dimensions differ")
)

// Frame is a width x height grid of cells, row-major
type Frame struct {
	rect  Rect
	cells []terminal.Cell
}

// New allocates a frame covering r, filled with blank cells
func New(r Rect) (*Frame, error) {
	if r.Width < 0 || r.Height < 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidRect, r.Width, r.Height)
	}
	f := &Frame{
		rect:  r,
		cells: make([]terminal.Cell, r.Width*r.Height),
	}
	f.Fill(terminal.BlankCell)
	return f, nil
}

// MustNew is New for rects known to be valid, panics on error
func MustNew(r Rect) *Frame {
	f, err := New(r)
	if err != nil {
		panic(err)
	}
	return f
}

// Width returns the frame width
func (f *Frame) Width() int { return f.rect.Width }

// Height returns the frame height
func (f *Frame) Height() int { return f.rect.Height }

// Rect returns the frame's screen placement
func (f *Frame) Rect() Rect { return f.rect }

// SetOrigin moves the frame on screen without touching its content
func (f *Frame) SetOrigin(x, y int) {
	f.rect.X = x
	f.rect.Y = y
}

// Cells returns the backing row-major slice: cells[y*width + x]
func (f *Frame) Cells() []terminal.Cell { return f.cells }

func (f *Frame) inBounds(x, y int) bool {
	return x >= 0 && x < f.rect.Width && y >= 0 && y < f.rect.Height
}

// At returns the cell at frame-local (x, y)
func (f *Frame) At(x, y int) (terminal.Cell, error) {
	if !f.inBounds(x, y) {
		return terminal.Cell{}, fmt.Errorf("%w: (%d,%d) in %dx%d", ErrOutOfBounds, x, y, f.rect.Width, f.rect.Height)
	}
	return f.cells[y*f.rect.Width+x], nil
}

// Set writes a cell at frame-local (x, y)
// Overwriting half of a wide glyph blanks its other half
func (f *Frame) Set(x, y int, c terminal.Cell) error {
	if !f.inBounds(x, y) {
		return fmt.Errorf("%w: (%d,%d) in %dx%d", ErrOutOfBounds, x, y, f.rect.Width, f.rect.Height)
	}
	f.repairWide(x, y, 1)
	f.cells[y*f.rect.Width+x] = c
	return nil
}

// Row returns row y as a slice sharing the frame's storage, nil when out of range
func (f *Frame) Row(y int) []terminal.Cell {
	if y < 0 || y >= f.rect.Height {
		return nil
	}
	w := f.rect.Width
	return f.cells[y*w : (y+1)*w]
}

// Fill sets every cell
func (f *Frame) Fill(c terminal.Cell) {
	for i := range f.cells {
		f.cells[i] = c
	}
}

// FillRect sets every cell of the frame-local rect r, clipped to the frame
func (f *Frame) FillRect(r Rect, c terminal.Cell) {
	r = r.Intersect(Rect{Width: f.rect.Width, Height: f.rect.Height})
	if r.Empty() {
		return
	}
	f.repairEdges(r)
	for y := r.Y; y < r.Bottom(); y++ {
		row := f.Row(y)
		for x := r.X; x < r.Right(); x++ {
			row[x] = c
		}
	}
}

// Clear fills with blank cells
func (f *Frame) Clear() {
	f.Fill(terminal.BlankCell)
}

// Clone returns a deep copy
func (f *Frame) Clone() *Frame {
	c := &Frame{
		rect:  f.rect,
		cells: make([]terminal.Cell, len(f.cells)),
	}
	copy(c.cells, f.cells)
	return c
}

// Equal reports whether both frames have the same size and cells; placement is ignored
func (f *Frame) Equal(o *Frame) bool {
	if o == nil || f.rect.Width != o.rect.Width || f.rect.Height != o.rect.Height {
		return false
	}
	for i := range f.cells {
		if f.cells[i] != o.cells[i] {
			return false
		}
	}
	return true
}

// CopyFrom overwrites f's cells with src's; sizes must match
func (f *Frame) CopyFrom(src *Frame) error {
	if src.rect.Width != f.rect.Width || src.rect.Height != f.rect.Height {
		return fmt.Errorf("%w: %dx%d vs %dx%d", ErrDimensionMismatch,
			src.rect.Width, src.rect.Height, f.rect.Width, f.rect.Height)
	}
	copy(f.cells, src.cells)
	return nil
}

// Blit copies src into f with src's top-left at frame-local at, limited to the frame-local clip
// Wide glyphs cut by the clip edge are replaced with blanks
func (f *Frame) Blit(src *Frame, at Point, clip Rect) {
	dst := Rect{X: at.X, Y: at.Y, Width: src.rect.Width, Height: src.rect.Height}
	dst = dst.Intersect(clip).Intersect(Rect{Width: f.rect.Width, Height: f.rect.Height})
	if dst.Empty() {
		return
	}
	f.repairEdges(dst)

	for y := dst.Y; y < dst.Bottom(); y++ {
		srcRow := src.Row(y - at.Y)
		dstRow := f.Row(y)
		copy(dstRow[dst.X:dst.Right()], srcRow[dst.X-at.X:dst.Right()-at.X])

		// A continuation whose head fell outside the clip, or a head whose continuation did
		if first := dstRow[dst.X]; first.IsContinuation() {
			dstRow[dst.X] = blankOf(first)
		}
		last := dst.Right() - 1
		if sx := last - at.X; sx+1 < len(srcRow) && srcRow[sx+1].IsContinuation() {
			dstRow[last] = blankOf(dstRow[last])
		}
	}
}

// blankOf returns a space carrying c's colors
func blankOf(c terminal.Cell) terminal.Cell {
	st := c.Style
	st.Attrs &^= terminal.AttrContinuation
	return terminal.Cell{Glyph: " ", Style: st}
}

// repairWide blanks the halves of wide glyphs that a write of width w at (x, y) would split
func (f *Frame) repairWide(x, y, w int) {
	row := f.Row(y)
	if row == nil {
		return
	}
	if x > 0 && x < len(row) && row[x].IsContinuation() {
		row[x-1] = blankOf(row[x-1])
	}
	if end := x + w; end < len(row) && row[end].IsContinuation() {
		row[end] = blankOf(row[end])
	}
}

// repairEdges runs repairWide along the left and right edges of r
func (f *Frame) repairEdges(r Rect) {
	for y := r.Y; y < r.Bottom(); y++ {
		f.repairWide(r.X, y, r.Width)
	}
}
