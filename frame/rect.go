package frame

import (
	"errors"
	"fmt"
)

// ErrInvalidRect is returned for rectangles with negative dimensions
var ErrInvalidRect = errors.New("invalid rect")

// Point represents a 2D coordinate
type Point struct {
	X, Y int
}

// Rect is a rectangular region, X/Y is the top-left corner
type Rect struct {
	X, Y          int
	Width, Height int
}

// NewRect validates and returns a rect
func NewRect(x, y, width, height int) (Rect, error) {
	if width < 0 || height < 0 {
		return Rect{}, fmt.Errorf("%w: %dx%d", ErrInvalidRect, width, height)
	}
	return Rect{X: x, Y: y, Width: width, Height: height}, nil
}

// Right returns the exclusive right edge
func (r Rect) Right() int { return r.X + r.Width }

// Bottom returns the exclusive bottom edge
func (r Rect) Bottom() int { return r.Y + r.Height }

// Area returns the number of cells covered
func (r Rect) Area() int { return r.Width * r.Height }

// Empty reports whether the rect covers no cells
func (r Rect) Empty() bool { return r.Width <= 0 || r.Height <= 0 }

// Origin returns the top-left corner
func (r Rect) Origin() Point { return Point{X: r.X, Y: r.Y} }

// Size returns width and height as a point
func (r Rect) Size() Point { return Point{X: r.Width, Y: r.Height} }

// Contains reports whether (x, y) lies inside the rect
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}

// Intersect returns the overlap of two rects; empty rects have zero size
func (r Rect) Intersect(o Rect) Rect {
	x0 := max(r.X, o.X)
	y0 := max(r.Y, o.Y)
	x1 := min(r.Right(), o.Right())
	y1 := min(r.Bottom(), o.Bottom())
	if x1 <= x0 || y1 <= y0 {
		return Rect{X: x0, Y: y0}
	}
	return Rect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

// Union returns the smallest rect covering both; empty operands are ignored
func (r Rect) Union(o Rect) Rect {
	if r.Empty() {
		return o
	}
	if o.Empty() {
		return r
	}
	x0 := min(r.X, o.X)
	y0 := min(r.Y, o.Y)
	x1 := max(r.Right(), o.Right())
	y1 := max(r.Bottom(), o.Bottom())
	return Rect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

// Translate returns the rect moved by (dx, dy)
func (r Rect) Translate(dx, dy int) Rect {
	r.X += dx
	r.Y += dy
	return r
}

// Inset returns the rect shrunk by n cells on all sides, never negative
func (r Rect) Inset(n int) Rect {
	r.X += n
	r.Y += n
	r.Width = max(r.Width-2*n, 0)
	r.Height = max(r.Height-2*n, 0)
	return r
}

func (r Rect) String() string {
	return fmt.Sprintf("(%d,%d %dx%d)", r.X, r.Y, r.Width, r.Height)
}
