package render

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/lixenwraith/termrender/frame"
	"github.com/lixenwraith/termrender/terminal"
)

// ErrWrite wraps failures of the underlying terminal writer
var ErrWrite = errors.New("terminal write failed")

// bufferSize covers a full repaint of a large terminal in one write
const bufferSize = 128 * 1024

// countingWriter forwards to the sink and counts accepted bytes
type countingWriter struct {
	w   io.Writer
	n   int64
	err error
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	if err != nil && c.err == nil {
		c.err = err
	}
	return n, err
}

// Encoder turns runs of cells into escape sequences
// It tracks the terminal cursor and graphic state so redundant sequences are never emitted
// The graphic state persists across frames until Reset
type Encoder struct {
	sink      *countingWriter
	w         *bufio.Writer
	colorMode terminal.ColorMode
	width     int
	height    int

	cursorX     int
	cursorY     int
	cursorValid bool

	// Style state for coalescing
	last      terminal.Style
	lastValid bool
}

// NewEncoder creates an encoder writing to w
func NewEncoder(w io.Writer, colorMode terminal.ColorMode) *Encoder {
	sink := &countingWriter{w: w}
	return &Encoder{
		sink:      sink,
		w:         bufio.NewWriterSize(sink, bufferSize),
		colorMode: colorMode,
	}
}

// SetSize records the screen size; writes into the last column invalidate the tracked cursor
func (e *Encoder) SetSize(width, height int) {
	e.width = width
	e.height = height
	e.cursorValid = false
}

// ColorMode returns the color encoding in use
func (e *Encoder) ColorMode() terminal.ColorMode {
	return e.colorMode
}

// Written returns the total bytes accepted by the underlying writer
func (e *Encoder) Written() int64 {
	return e.sink.n
}

// Reset forgets cursor and graphic state and discards unflushed output
// Call after anything else writes to the terminal
func (e *Encoder) Reset() {
	e.sink.err = nil
	e.w.Reset(e.sink)
	e.cursorValid = false
	e.lastValid = false
}

// Encode writes the runs; an empty slice writes nothing
// Output is buffered until Flush
func (e *Encoder) Encode(runs []frame.Run) error {
	w := e.w
	for _, run := range runs {
		if len(run.Cells) == 0 {
			continue
		}
		e.moveTo(run.X, run.Y)

		headBefore := false
		for i, c := range run.Cells {
			x := run.X + i
			if c.IsContinuation() {
				// The head already covered this column; without one the terminal cursor did not move
				if !headBefore {
					e.cursorValid = false
				}
				headBefore = false
				e.advance(x)
				continue
			}
			if !e.cursorValid {
				e.moveTo(x, run.Y)
			}

			e.writeStyle(c.Style)
			w.WriteString(c.Text())
			headBefore = true
			e.advance(x)
		}
	}
	// The buffer spills to the writer when full
	if err := e.sink.err; err != nil {
		e.Reset()
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	return nil
}

// Flush pushes buffered output to the writer
func (e *Encoder) Flush() error {
	if err := e.w.Flush(); err != nil {
		e.Reset()
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	return nil
}

// advance moves the tracked cursor past column x
func (e *Encoder) advance(x int) {
	if e.width > 0 && x >= e.width-1 {
		// Auto-wrap is off: the cursor sticks at the last column in a pending state
		e.cursorValid = false
		return
	}
	e.cursorX = x + 1
}

// moveTo positions the cursor, skipping the sequence when already there
func (e *Encoder) moveTo(x, y int) {
	if e.cursorValid && x == e.cursorX && y == e.cursorY {
		return
	}
	// Always use non-destructive cursor movement
	if e.cursorValid && y == e.cursorY && x > e.cursorX {
		terminal.WriteCursorForward(e.w, x-e.cursorX)
	} else {
		terminal.WriteCursorPos(e.w, x, y)
	}
	e.cursorX = x
	e.cursorY = y
	e.cursorValid = true
}

// writeStyle emits a single combined SGR sequence when style changes
func (e *Encoder) writeStyle(s terminal.Style) {
	s.Attrs &= terminal.AttrStyle
	fgChanged := !e.lastValid || s.Fg != e.last.Fg
	bgChanged := !e.lastValid || s.Bg != e.last.Bg
	attrChanged := !e.lastValid || s.Attrs != e.last.Attrs

	if !fgChanged && !bgChanged && !attrChanged {
		return
	}

	w := e.w
	w.WriteString("\x1b[")
	if attrChanged {
		// Attributes can only be cleared by a reset, which also resets colors
		w.WriteByte('0')
		s.Attrs.SGRParams(func(p byte) {
			w.WriteByte(';')
			w.WriteByte(p)
		})
		if !s.Fg.IsDefault() {
			w.WriteByte(';')
			e.writeColor(s.Fg, '3')
		}
		if !s.Bg.IsDefault() {
			w.WriteByte(';')
			e.writeColor(s.Bg, '4')
		}
	} else {
		// Only colors changed, emit minimal sequence
		sep := false
		if fgChanged {
			e.writeColor(s.Fg, '3')
			sep = true
		}
		if bgChanged {
			if sep {
				w.WriteByte(';')
			}
			e.writeColor(s.Bg, '4')
		}
	}
	w.WriteByte('m')

	e.last = s
	e.lastValid = true
}

// writeColor writes color parameters for layer '3' (fg) or '4' (bg), no CSI prefix or 'm' suffix
func (e *Encoder) writeColor(c terminal.Color, layer byte) {
	w := e.w
	w.WriteByte(layer)
	switch c.Kind {
	case terminal.ColorKindDefault:
		w.WriteByte('9')
	case terminal.ColorKindIndexed:
		w.WriteString("8;5;")
		terminal.WriteInt(w, int(c.Index()))
	case terminal.ColorKindRGB:
		if e.colorMode == terminal.ColorModeTrueColor {
			w.WriteString("8;2;")
			terminal.WriteInt(w, int(c.R))
			w.WriteByte(';')
			terminal.WriteInt(w, int(c.G))
			w.WriteByte(';')
			terminal.WriteInt(w, int(c.B))
		} else {
			// Fallback 256: nearest palette entry
			w.WriteString("8;5;")
			terminal.WriteInt(w, int(terminal.RGBTo256(c)))
		}
	}
}
