package terminal

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
)

// ErrClosed is returned by writes after Fini
var ErrClosed = errors.New("terminal closed")

// Options configures a Terminal
type Options struct {
	ColorMode ColorMode
	MouseMode MouseMode
	// BracketedPaste enables paste reporting as a single event
	BracketedPaste bool
}

// DefaultOptions detects color support and leaves mouse reporting off
func DefaultOptions() Options {
	return Options{
		ColorMode:      DetectColorMode(),
		BracketedPaste: true,
	}
}

// Terminal owns the screen lifecycle on top of a Backend
type Terminal struct {
	backend Backend
	opts    Options

	resizeCh chan ResizeEvent

	mu            sync.Mutex
	initialized   bool
	finalized     bool
	mouseMode     MouseMode
	cursorVisible bool
	seq           bytes.Buffer
}

// New creates a Terminal; nothing is written until Init
func New(backend Backend, opts Options) *Terminal {
	return &Terminal{
		backend:  backend,
		opts:     opts,
		resizeCh: make(chan ResizeEvent, 1),
	}
}

// Init enters raw mode, alternate screen, hides cursor, disables auto-wrap and clears
func (t *Terminal) Init() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.initialized {
		return nil
	}

	if err := t.backend.Init(); err != nil {
		return err
	}

	t.backend.SetResizeHandler(t.notifyResize)

	t.seq.Reset()
	t.seq.Write(csiAltScreenEnter)
	t.seq.Write(csiCursorHide)
	// Prevents terminal scroll/wrap on bottom-right corner write
	t.seq.Write(csiAutoWrapOff)
	if t.opts.BracketedPaste {
		t.seq.Write(csiPasteOn)
	}
	t.writeMouseMode(MouseModeNone, t.opts.MouseMode)
	t.seq.Write(csiSGR0)
	t.seq.Write(csiClear)

	if err := t.backend.Write(t.seq.Bytes()); err != nil {
		t.backend.Fini()
		return fmt.Errorf("terminal setup: %w", err)
	}

	t.mouseMode = t.opts.MouseMode
	t.cursorVisible = false
	t.initialized = true
	return nil
}

// notifyResize keeps only the latest pending size
func (t *Terminal) notifyResize(w, h int) {
	ev := ResizeEvent{Width: w, Height: h}
	select {
	case t.resizeCh <- ev:
	default:
		// Drain and replace to ensure latest size is pending
		select {
		case <-t.resizeCh:
		default:
		}
		select {
		case t.resizeCh <- ev:
		default:
		}
	}
}

// Fini restores terminal state. Safe to call multiple times
func (t *Terminal) Fini() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.initialized || t.finalized {
		return
	}
	t.finalized = true

	t.seq.Reset()
	// Disable mouse before other cleanup
	t.writeMouseMode(t.mouseMode, MouseModeNone)
	if t.opts.BracketedPaste {
		t.seq.Write(csiPasteOff)
	}
	t.seq.Write(csiSGR0)
	t.seq.Write(csiCursorShow)
	t.seq.Write(csiAltScreenExit)
	// Re-enable auto-wrap after leaving the alternate screen so the main buffer wraps
	t.seq.Write(csiAutoWrapOn)
	t.backend.Write(t.seq.Bytes())

	t.backend.Fini()
}

// Write sends raw bytes to the terminal, satisfying io.Writer for the renderer
func (t *Terminal) Write(p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.finalized {
		return 0, ErrClosed
	}
	if err := t.backend.Write(p); err != nil {
		return 0, err
	}
	return len(p), nil
}

// Size returns current terminal dimensions
func (t *Terminal) Size() (int, int) {
	return t.backend.Size()
}

// Resizes delivers the most recent terminal size after each change
func (t *Terminal) Resizes() <-chan ResizeEvent {
	return t.resizeCh
}

// ColorMode returns the configured color capability
func (t *Terminal) ColorMode() ColorMode {
	return t.opts.ColorMode
}

// Backend returns the underlying backend
func (t *Terminal) Backend() Backend {
	return t.backend
}

// MouseMode returns the active mouse reporting mode
func (t *Terminal) MouseMode() MouseMode {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.mouseMode
}

// SetMouseMode enables or disables mouse reporting
// Modes can be combined: MouseModeClick | MouseModeDrag
func (t *Terminal) SetMouseMode(mode MouseMode) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.initialized || t.finalized {
		t.opts.MouseMode = mode
		return nil
	}
	if mode == t.mouseMode {
		return nil
	}

	t.seq.Reset()
	t.writeMouseMode(t.mouseMode, mode)
	t.mouseMode = mode
	return t.backend.Write(t.seq.Bytes())
}

// writeMouseMode appends the transitions from old to mode to the sequence buffer
func (t *Terminal) writeMouseMode(old, mode MouseMode) {
	// Disable modes no longer needed (reverse order of enable)
	if old&MouseModeMotion != 0 && mode&MouseModeMotion == 0 {
		t.seq.Write(csiMouseMotionOff)
	}
	if old&MouseModeDrag != 0 && mode&MouseModeDrag == 0 {
		t.seq.Write(csiMouseDragOff)
	}
	if old&MouseModeClick != 0 && mode&MouseModeClick == 0 {
		t.seq.Write(csiMouseClickOff)
	}
	if mode == MouseModeNone && old != MouseModeNone {
		t.seq.Write(csiMouseSGROff)
	}

	// Enable SGR encoding first so no legacy report slips through
	if mode != MouseModeNone && old == MouseModeNone {
		t.seq.Write(csiMouseSGROn)
	}
	if mode&MouseModeClick != 0 && old&MouseModeClick == 0 {
		t.seq.Write(csiMouseClickOn)
	}
	if mode&MouseModeDrag != 0 && old&MouseModeDrag == 0 {
		t.seq.Write(csiMouseDragOn)
	}
	if mode&MouseModeMotion != 0 && old&MouseModeMotion == 0 {
		t.seq.Write(csiMouseMotionOn)
	}
}

// SetCursorVisible shows/hides cursor
func (t *Terminal) SetCursorVisible(visible bool) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.initialized || t.finalized || t.cursorVisible == visible {
		return nil
	}
	t.cursorVisible = visible
	if visible {
		return t.backend.Write(csiCursorShow)
	}
	return t.backend.Write(csiCursorHide)
}

// Clear resets attributes and erases the screen
// Callers tracking screen contents must invalidate them
func (t *Terminal) Clear() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.initialized || t.finalized {
		return nil
	}
	t.seq.Reset()
	t.seq.Write(csiSGR0)
	t.seq.Write(csiClear)
	return t.backend.Write(t.seq.Bytes())
}

// EmergencyReset attempts to restore terminal to sane state
// Call this from panic recovery if Fini() cannot be called normally
func EmergencyReset(w io.Writer) {
	// Disable mouse tracking
	w.Write(csiMouseMotionOff)
	w.Write(csiMouseDragOff)
	w.Write(csiMouseClickOff)
	w.Write(csiMouseSGROff)
	w.Write(csiPasteOff)

	w.Write(csiCursorShow)
	w.Write(csiAltScreenExit)
	w.Write(csiSGR0)
	w.Write(csiAutoWrapOn)

	// Flush if it's a file
	if f, ok := w.(*os.File); ok {
		f.Sync()
	}

	// Escape sequences alone don't restore termios
	resetTerminalMode()
}
