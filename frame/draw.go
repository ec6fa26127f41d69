package frame

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"

	"github.com/lixenwraith/termrender/terminal"
)

// SetString writes s at frame-local (x, y) one grapheme cluster per cell
// Double-width clusters take a head cell plus a continuation cell; zero-width clusters are skipped
// Output is clipped at the right edge, a wide glyph that does not fit is dropped
// Returns the number of columns written
func (f *Frame) SetString(x, y int, s string, style terminal.Style) int {
	row := f.Row(y)
	if row == nil || x >= len(row) {
		return 0
	}
	start := x
	cont := style
	cont.Attrs |= terminal.AttrContinuation

	state := -1
	for len(s) > 0 {
		var cluster string
		var w int
		cluster, s, w, state = uniseg.FirstGraphemeClusterInString(s, state)
		if w <= 0 {
			continue
		}
		if w > 2 {
			w = 2
		}
		if x+w > len(row) {
			break
		}
		if x < 0 {
			// Left-clipped: advance without drawing
			x += w
			continue
		}
		f.repairWide(x, y, w)
		row[x] = terminal.Cell{Glyph: cluster, Style: style}
		if w == 2 {
			row[x+1] = terminal.Cell{Glyph: "", Style: cont}
		}
		x += w
	}
	if start < 0 {
		start = 0
	}
	return max(x-start, 0)
}

// StringWidth returns the display width of s in cells
func StringWidth(s string) int {
	return uniseg.StringWidth(s)
}

// Truncate shortens s to at most width cells, ending with tail when cut
func Truncate(s string, width int, tail string) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width, tail)
}

// BorderSet holds the glyphs used to draw a box
type BorderSet struct {
	Top, Bottom, Left, Right                   string
	TopLeft, TopRight, BottomLeft, BottomRight string
}

func fromLipgloss(b lipgloss.Border) BorderSet {
	return BorderSet{
		Top:         b.Top,
		Bottom:      b.Bottom,
		Left:        b.Left,
		Right:       b.Right,
		TopLeft:     b.TopLeft,
		TopRight:    b.TopRight,
		BottomLeft:  b.BottomLeft,
		BottomRight: b.BottomRight,
	}
}

// Border glyph sets
var (
	BorderNormal  = fromLipgloss(lipgloss.NormalBorder())  // ┌─┐│└┘
	BorderRounded = fromLipgloss(lipgloss.RoundedBorder()) // ╭─╮│╰╯
	BorderDouble  = fromLipgloss(lipgloss.DoubleBorder())  // ╔═╗║╚╝
	BorderThick   = fromLipgloss(lipgloss.ThickBorder())   // ┏━┓┃┗┛
	BorderBlock   = fromLipgloss(lipgloss.BlockBorder())
	BorderASCII   = fromLipgloss(lipgloss.ASCIIBorder())
	BorderHidden  = fromLipgloss(lipgloss.HiddenBorder()) // spaces (invisible border with padding)
)

// glyph returns the first cluster of s, or a space when s is empty
func glyph(s string) string {
	if s == "" {
		return " "
	}
	c, _, _, _ := uniseg.FirstGraphemeClusterInString(s, -1)
	return c
}

// DrawBorder draws a box along the edge of the frame-local rect r
func (f *Frame) DrawBorder(r Rect, set BorderSet, style terminal.Style) {
	if r.Width < 2 || r.Height < 2 {
		return
	}
	cell := func(x, y int, g string) {
		if f.inBounds(x, y) {
			f.repairWide(x, y, 1)
			f.cells[y*f.rect.Width+x] = terminal.Cell{Glyph: g, Style: style}
		}
	}

	right, bottom := r.Right()-1, r.Bottom()-1

	// Corners
	cell(r.X, r.Y, glyph(set.TopLeft))
	cell(right, r.Y, glyph(set.TopRight))
	cell(r.X, bottom, glyph(set.BottomLeft))
	cell(right, bottom, glyph(set.BottomRight))

	// Horizontal edges
	top, bot := glyph(set.Top), glyph(set.Bottom)
	for x := r.X + 1; x < right; x++ {
		cell(x, r.Y, top)
		cell(x, bottom, bot)
	}

	// Vertical edges
	left, rgt := glyph(set.Left), glyph(set.Right)
	for y := r.Y + 1; y < bottom; y++ {
		cell(r.X, y, left)
		cell(right, y, rgt)
	}
}

// DrawTitle writes " title " into the top edge of r, truncated with an ellipsis to fit between the corners
func (f *Frame) DrawTitle(r Rect, title string, style terminal.Style) {
	if title == "" || r.Width < 5 {
		return
	}
	avail := r.Width - 4 // corner + padding on each side
	f.SetString(r.X+1, r.Y, " "+Truncate(title, avail, "…")+" ", style)
}
