package widget

import "github.com/lixenwraith/termrender/frame"

// Dim is one coordinate or extent: a cell offset plus a fraction of the area extent
type Dim struct {
	Offset   int
	Fraction float64
}

// Cells is a fixed dimension
func Cells(n int) Dim { return Dim{Offset: n} }

// Percent is a dimension relative to the area, p in 0..1, adjusted by offset cells
func Percent(p float64, offset int) Dim { return Dim{Offset: offset, Fraction: p} }

func (d Dim) resolve(extent int) int {
	return int(float64(extent)*d.Fraction) + d.Offset
}

// Layout places a window relative to the terminal area
type Layout struct {
	X, Y          Dim
	Width, Height Dim
}

// StaticLayout is a fixed placement relative to the area origin
func StaticLayout(x, y, width, height int) Layout {
	return Layout{X: Cells(x), Y: Cells(y), Width: Cells(width), Height: Cells(height)}
}

// Dynamic reports whether the placement depends on the area size
func (l Layout) Dynamic() bool {
	return l.X.Fraction != 0 || l.Y.Fraction != 0 || l.Width.Fraction != 0 || l.Height.Fraction != 0
}

// Resolve computes the screen rect within area; negative sizes clamp to zero
func (l Layout) Resolve(area frame.Rect) frame.Rect {
	return frame.Rect{
		X:      area.X + l.X.resolve(area.Width),
		Y:      area.Y + l.Y.resolve(area.Height),
		Width:  max(l.Width.resolve(area.Width), 0),
		Height: max(l.Height.resolve(area.Height), 0),
	}
}

// placement re-resolves a layout only when the area changes
type placement struct {
	layout Layout
	area   frame.Rect
	placed bool
}

// place moves w to the layout's rect for area
func (p *placement) place(w *Window, area frame.Rect) error {
	if p.placed && area == p.area {
		return nil
	}
	if err := w.SetRect(p.layout.Resolve(area)); err != nil {
		return err
	}
	p.area = area
	p.placed = true
	return nil
}
