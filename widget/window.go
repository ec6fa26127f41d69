package widget

import (
	"errors"
	"fmt"
	"slices"

	"github.com/lixenwraith/termrender/frame"
	"github.com/lixenwraith/termrender/terminal"
)

// ErrEmptyID is returned when a window or widget is created without an id
var ErrEmptyID = errors.New("empty window id")

// Window is a positioned, optionally bordered frame owned by one widget
// Content is drawn in window-local coordinates; the border occupies the outer ring
type Window struct {
	id    string
	rect  frame.Rect
	frame *frame.Frame
	prev  *frame.Frame // snapshot at last composition

	border      bool
	borderSet   frame.BorderSet
	borderStyle terminal.Style
	title       string
	titleStyle  terminal.Style
	style       terminal.Style // base style of the content area

	depth    int
	hidden   bool
	keywords []string

	dirty    bool
	shown    bool       // visible at last composition
	lastRect frame.Rect // placement at last composition

	scene *Scene
}

// NewWindow creates a window with a blank frame covering r
func NewWindow(id string, r frame.Rect) (*Window, error) {
	if id == "" {
		return nil, ErrEmptyID
	}
	f, err := frame.New(r)
	if err != nil {
		return nil, fmt.Errorf("window %q: %w", id, err)
	}
	return &Window{
		id:        id,
		rect:      r,
		frame:     f,
		borderSet: frame.BorderNormal,
		dirty:     true,
	}, nil
}

// ID returns the window id
func (w *Window) ID() string { return w.id }

// Rect returns the screen placement
func (w *Window) Rect() frame.Rect { return w.rect }

// Frame returns the content frame, positioned at the window's screen placement
func (w *Window) Frame() *frame.Frame { return w.frame }

// SetRect moves and resizes the window
// A size change reallocates the frame blank
func (w *Window) SetRect(r frame.Rect) error {
	if r == w.rect {
		return nil
	}
	if r.Width != w.rect.Width || r.Height != w.rect.Height {
		f, err := frame.New(r)
		if err != nil {
			return fmt.Errorf("window %q: %w", w.id, err)
		}
		w.frame = f
	} else {
		w.frame.SetOrigin(r.X, r.Y)
	}
	w.rect = r
	w.dirty = true
	return nil
}

// Move places the window's top-left corner at screen (x, y)
func (w *Window) Move(x, y int) {
	w.SetRect(frame.Rect{X: x, Y: y, Width: w.rect.Width, Height: w.rect.Height})
}

// Resize changes the window size, keeping its position
func (w *Window) Resize(width, height int) error {
	return w.SetRect(frame.Rect{X: w.rect.X, Y: w.rect.Y, Width: width, Height: height})
}

// Border reports whether the window draws a border
func (w *Window) Border() bool { return w.border }

// BorderSet returns the border glyphs
func (w *Window) BorderSet() frame.BorderSet { return w.borderSet }

// SetBorder enables or disables the border and selects its glyphs
func (w *Window) SetBorder(on bool, set frame.BorderSet) {
	w.border = on
	w.borderSet = set
	w.dirty = true
}

// SetBorderStyle sets the style of border glyphs
func (w *Window) SetBorderStyle(s terminal.Style) {
	w.borderStyle = s
	w.dirty = true
}

// Title returns the title drawn into the top border
func (w *Window) Title() string { return w.title }

// SetTitle sets the title; it is only drawn with a border
func (w *Window) SetTitle(title string) {
	w.title = title
	w.dirty = true
}

// SetTitleStyle sets the style of the title text
func (w *Window) SetTitleStyle(s terminal.Style) {
	w.titleStyle = s
	w.dirty = true
}

// Style returns the base style of the content area
func (w *Window) Style() terminal.Style { return w.style }

// SetStyle sets the base style; WriteLines fills the content area with it
// and spans inherit its colors where they leave them default
func (w *Window) SetStyle(s terminal.Style) {
	w.style = s
	w.dirty = true
}

// ClearStyle resets the base style, reporting whether there was one
func (w *Window) ClearStyle() bool {
	if w.style == terminal.StyleDefault {
		return false
	}
	w.SetStyle(terminal.StyleDefault)
	return true
}

// Depth returns the paint layer, higher depths paint over lower ones
func (w *Window) Depth() int { return w.depth }

// SetDepth changes the paint layer
func (w *Window) SetDepth(d int) {
	if d != w.depth {
		w.depth = d
		w.dirty = true
	}
}

// Hide removes the window from composition without dropping it from the scene
func (w *Window) Hide() { w.hidden = true }

// Show makes a hidden window visible again
func (w *Window) Show() {
	if w.hidden {
		w.hidden = false
		w.dirty = true
	}
}

// Hidden reports whether the window is hidden
func (w *Window) Hidden() bool { return w.hidden }

// Keywords returns the window's tags
func (w *Window) Keywords() []string { return w.keywords }

// SetKeywords replaces the window's tags
func (w *Window) SetKeywords(kw ...string) {
	w.keywords = slices.Clone(kw)
}

// HasKeyword reports whether the window is tagged kw
func (w *Window) HasKeyword(kw string) bool {
	return slices.Contains(w.keywords, kw)
}

// MarkDirty forces the window to be recomposed
func (w *Window) MarkDirty() { w.dirty = true }

// Dirty reports whether the window was explicitly marked since the last commit
func (w *Window) Dirty() bool { return w.dirty }

// Changed reports whether the window needs recomposition
func (w *Window) Changed() bool {
	return w.dirty || w.prev == nil || !w.frame.Equal(w.prev)
}

// pending reports whether the next composition repaints the window's area
func (w *Window) pending() bool {
	return w.hidden == w.shown || (!w.hidden && (w.rect != w.lastRect || w.Changed()))
}

// Commit snapshots the frame as composed and clears the dirty marker
func (w *Window) Commit() {
	if w.prev == nil || w.prev.CopyFrom(w.frame) != nil {
		w.prev = w.frame.Clone()
	}
	w.dirty = false
	w.shown = !w.hidden
	w.lastRect = w.rect
}

// Inner returns the window-local content rect inside the border
func (w *Window) Inner() frame.Rect {
	r := frame.Rect{Width: w.rect.Width, Height: w.rect.Height}
	if !w.border {
		return r
	}
	r = r.Inset(1)
	r.Width = max(r.Width, 0)
	r.Height = max(r.Height, 0)
	return r
}

// Contains reports whether screen (x, y) falls inside the window
func (w *Window) Contains(x, y int) bool {
	return w.rect.Contains(x, y)
}

// Clear blanks the whole frame, border included
func (w *Window) Clear() {
	w.frame.Clear()
}

// DrawChrome draws the border and title when enabled
func (w *Window) DrawChrome() {
	if !w.border {
		return
	}
	local := frame.Rect{Width: w.rect.Width, Height: w.rect.Height}
	w.frame.DrawBorder(local, w.borderSet, w.borderStyle)
	w.frame.DrawTitle(local, w.title, w.titleStyle)
}

// WriteLines fills the content rect with the base style and writes lines into it, one per row, clipped
func (w *Window) WriteLines(lines []Line) {
	inner := w.Inner()
	if inner.Empty() {
		return
	}
	w.frame.FillRect(inner, terminal.Cell{Glyph: " ", Style: w.style})
	for i, line := range lines {
		if i >= inner.Height {
			break
		}
		x := inner.X
		for _, span := range line {
			avail := inner.Right() - x
			if avail <= 0 {
				break
			}
			x += w.frame.SetString(x, inner.Y+i, frame.Truncate(span.Text, avail, ""), span.Style.Over(w.style))
		}
	}
}
