package terminal

// Attr represents text attributes (bitmask)
type Attr uint16

const (
	AttrNone          Attr = 0
	AttrBold          Attr = 1 << 0
	AttrDim           Attr = 1 << 1
	AttrItalic        Attr = 1 << 2
	AttrUnderline     Attr = 1 << 3
	AttrBlink         Attr = 1 << 4
	AttrReverse       Attr = 1 << 5
	AttrHidden        Attr = 1 << 6
	AttrStrikethrough Attr = 1 << 7

	// AttrContinuation marks the trailing cell of a double-width glyph
	// The cell produces no output; its head cell already covers it
	AttrContinuation Attr = 1 << 15
)

// AttrStyle masks only the SGR style bits
const AttrStyle Attr = AttrBold | AttrDim | AttrItalic | AttrUnderline | AttrBlink | AttrReverse | AttrHidden | AttrStrikethrough

// attrSGR lists style bits with their SGR parameter, in emission order
var attrSGR = [...]struct {
	attr  Attr
	param byte
}{
	{AttrBold, '1'},
	{AttrDim, '2'},
	{AttrItalic, '3'},
	{AttrUnderline, '4'},
	{AttrBlink, '5'},
	{AttrReverse, '7'},
	{AttrHidden, '8'},
	{AttrStrikethrough, '9'},
}

// SGRParams calls fn with the SGR parameter digit of every style bit set in a
func (a Attr) SGRParams(fn func(param byte)) {
	for _, e := range attrSGR {
		if a&e.attr != 0 {
			fn(e.param)
		}
	}
}

// Style is the graphic state of a cell
type Style struct {
	Fg    Color
	Bg    Color
	Attrs Attr
}

// StyleDefault uses terminal default colors and no attributes
var StyleDefault = Style{}

// Foreground returns a copy with the foreground set
func (s Style) Foreground(c Color) Style {
	s.Fg = c
	return s
}

// Background returns a copy with the background set
func (s Style) Background(c Color) Style {
	s.Bg = c
	return s
}

// With returns a copy with the attributes added
func (s Style) With(a Attr) Style {
	s.Attrs |= a & AttrStyle
	return s
}

// Without returns a copy with the attributes removed
func (s Style) Without(a Attr) Style {
	s.Attrs &^= a
	return s
}

// Over returns s with default colors taken from base and base's attributes added
func (s Style) Over(base Style) Style {
	if s.Fg == ColorDefault {
		s.Fg = base.Fg
	}
	if s.Bg == ColorDefault {
		s.Bg = base.Bg
	}
	s.Attrs |= base.Attrs
	return s
}

func (s Style) Bold() Style      { return s.With(AttrBold) }
func (s Style) Italic() Style    { return s.With(AttrItalic) }
func (s Style) Underline() Style { return s.With(AttrUnderline) }
func (s Style) Reverse() Style   { return s.With(AttrReverse) }
func (s Style) Dim() Style       { return s.With(AttrDim) }

// Cell represents a single terminal cell
// Glyph holds one grapheme cluster; empty renders as a space
type Cell struct {
	Glyph string
	Style
}

// BlankCell is a space in the default style
var BlankCell = Cell{Glyph: " "}

// NewCell returns a cell with a single rune glyph
func NewCell(r rune, style Style) Cell {
	return Cell{Glyph: string(r), Style: style}
}

// IsContinuation reports whether the cell is the tail of a wide glyph
func (c Cell) IsContinuation() bool {
	return c.Attrs&AttrContinuation != 0
}

// Text returns the bytes to emit for the cell's glyph
func (c Cell) Text() string {
	if c.Glyph == "" {
		return " "
	}
	return c.Glyph
}
