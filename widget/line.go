package widget

import (
	"strings"

	"github.com/lixenwraith/termrender/frame"
	"github.com/lixenwraith/termrender/terminal"
)

// Span is a run of text in one style
type Span struct {
	Text  string
	Style terminal.Style
}

// Line is one row of styled spans
type Line []Span

// Text returns a single-span line
func Text(s string, style terminal.Style) Line {
	return Line{{Text: s, Style: style}}
}

// Width returns the display width of the line
func (l Line) Width() int {
	n := 0
	for _, s := range l {
		n += frame.StringWidth(s.Text)
	}
	return n
}

// Center pads l on the left so it sits centered in width columns
func (l Line) Center(width int) Line {
	pad := (width - l.Width()) / 2
	if pad <= 0 {
		return l
	}
	out := make(Line, 0, len(l)+1)
	out = append(out, Span{Text: strings.Repeat(" ", pad)})
	return append(out, l...)
}
