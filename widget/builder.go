package widget

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/lixenwraith/termrender/frame"
	"github.com/lixenwraith/termrender/input"
	"github.com/lixenwraith/termrender/terminal"
)

var (
	// ErrMissingField is returned by Build when required settings were never given
	ErrMissingField = errors.New("missing required field")
	// ErrZeroSize is returned by Build when the layout resolves to an empty rect
	ErrZeroSize = errors.New("widget size resolves to zero")
)

// RenderFunc produces the content lines for a window of the given size at the given screen position
// Returning nil leaves the previous content in place
type RenderFunc func(size, position frame.Point) []Line

// UpdateFunc handles a frame's events for a static widget
type UpdateFunc func(w *StaticWidget, q *input.Queue)

// Builder configures a widget and its window
// Id, position and size are required; everything else has a default
type Builder struct {
	id          string
	border      bool
	borderSet   frame.BorderSet
	borderStyle terminal.Style
	title       string
	titleStyle  terminal.Style
	style       terminal.Style
	depth       int
	keywords    []string
	parent      string

	layout  Layout
	hasPos  bool
	hasSize bool

	render RenderFunc
	update UpdateFunc

	// Button settings
	label        string
	hotkey       string
	onPress      func(*Button)
	buttonRender ButtonRenderFunc
}

// NewBuilder starts a widget with the given window id
func NewBuilder(id string) *Builder {
	return &Builder{id: id, borderSet: frame.BorderNormal}
}

// WithBorder enables or disables the window border
func (b *Builder) WithBorder(on bool) *Builder {
	b.border = on
	return b
}

// WithBorderSet selects the border glyphs and enables the border
func (b *Builder) WithBorderSet(set frame.BorderSet, style terminal.Style) *Builder {
	b.border = true
	b.borderSet = set
	b.borderStyle = style
	return b
}

// WithTitle sets the title drawn into the top border
func (b *Builder) WithTitle(title string, style terminal.Style) *Builder {
	b.title = title
	b.titleStyle = style
	return b
}

// WithStyle sets the base style of the content area
func (b *Builder) WithStyle(style terminal.Style) *Builder {
	b.style = style
	return b
}

// WithParent nests the widget under the widget owning window parentID when added to a scene
func (b *Builder) WithParent(parentID string) *Builder {
	b.parent = parentID
	return b
}

// WithDepth sets the paint layer
func (b *Builder) WithDepth(d int) *Builder {
	b.depth = d
	return b
}

// WithKeywords tags the window
func (b *Builder) WithKeywords(kw ...string) *Builder {
	b.keywords = append(b.keywords, kw...)
	return b
}

// WithRenderer sets the content function
func (b *Builder) WithRenderer(fn RenderFunc) *Builder {
	b.render = fn
	return b
}

// WithUpdateHandler sets the per-frame event handler
func (b *Builder) WithUpdateHandler(fn UpdateFunc) *Builder {
	b.update = fn
	return b
}

// WithPosition places the window at a fixed offset from the area origin
func (b *Builder) WithPosition(x, y int) *Builder {
	b.layout.X, b.layout.Y = Cells(x), Cells(y)
	b.hasPos = true
	return b
}

// WithSize fixes the window size
func (b *Builder) WithSize(width, height int) *Builder {
	b.layout.Width, b.layout.Height = Cells(width), Cells(height)
	b.hasSize = true
	return b
}

// WithDynamicPosition places the window at a fraction of the area plus an offset
func (b *Builder) WithDynamicPosition(x, y Dim) *Builder {
	b.layout.X, b.layout.Y = x, y
	b.hasPos = true
	return b
}

// WithDynamicSize sizes the window as a fraction of the area plus an offset
func (b *Builder) WithDynamicSize(width, height Dim) *Builder {
	b.layout.Width, b.layout.Height = width, height
	b.hasSize = true
	return b
}

// WithLayout sets position and size at once
func (b *Builder) WithLayout(l Layout) *Builder {
	b.layout = l
	b.hasPos, b.hasSize = true, true
	return b
}

// window validates the settings and creates the window for area
func (b *Builder) window(area frame.Rect) (*Window, error) {
	var missing []string
	if b.id == "" {
		missing = append(missing, "id")
	}
	if !b.hasPos {
		missing = append(missing, "position")
	}
	if !b.hasSize {
		missing = append(missing, "size")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingField, strings.Join(missing, ", "))
	}

	r := b.layout.Resolve(area)
	if r.Empty() {
		return nil, fmt.Errorf("%w: %q in %s", ErrZeroSize, b.id, area)
	}

	w, err := NewWindow(b.id, r)
	if err != nil {
		return nil, err
	}
	if b.border {
		w.SetBorder(true, b.borderSet)
	}
	w.borderStyle = b.borderStyle
	w.title = b.title
	w.titleStyle = b.titleStyle
	w.style = b.style
	w.depth = b.depth
	w.keywords = slices.Clone(b.keywords)
	return w, nil
}

// Build creates the widget and its window placed within area
func (b *Builder) Build(area frame.Rect) (*StaticWidget, *Window, error) {
	w, err := b.window(area)
	if err != nil {
		return nil, nil, err
	}
	sw := &StaticWidget{
		id:     b.id,
		place:  placement{layout: b.layout, area: area, placed: true},
		render: b.render,
		update: b.update,
	}
	return sw, w, nil
}

// AddTo builds the widget and adds it to scene
func (b *Builder) AddTo(s *Scene, area frame.Rect) (*StaticWidget, error) {
	sw, w, err := b.Build(area)
	if err != nil {
		return nil, err
	}
	if err := b.add(s, sw, w); err != nil {
		return nil, err
	}
	return sw, nil
}

// add registers wd at the top level or under the configured parent
func (b *Builder) add(s *Scene, wd Widget, w *Window) error {
	if b.parent == "" {
		return s.AddWidget(wd, w)
	}
	return s.AddChild(b.parent, wd, w)
}
