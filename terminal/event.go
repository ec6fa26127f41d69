package terminal

import "fmt"

// EventType distinguishes input event categories
type EventType uint8

const (
	EventKey EventType = iota
	EventMouse
	EventPaste
	EventResize
	EventError
)

func (t EventType) String() string {
	switch t {
	case EventKey:
		return "key"
	case EventMouse:
		return "mouse"
	case EventPaste:
		return "paste"
	case EventResize:
		return "resize"
	case EventError:
		return "error"
	}
	return "unknown"
}

// Event represents a terminal input event
type Event struct {
	Type      EventType
	Key       Key
	Rune      rune
	Modifiers Modifier
	Width     int    // For EventResize
	Height    int    // For EventResize
	Paste     string // For EventPaste
	Err       error  // For EventError

	// Mouse event fields, 0-indexed cell coordinates
	MouseX      int
	MouseY      int
	MouseBtn    MouseButton
	MouseAction MouseAction
}

// ResizeEvent represents a terminal resize
type ResizeEvent struct {
	Width  int
	Height int
}

// KeyEvent is shorthand for a key event with modifiers
func KeyEvent(k Key, mods ...Modifier) Event {
	ev := Event{Type: EventKey, Key: k}
	for _, m := range mods {
		ev.Modifiers |= m
	}
	return ev
}

// RuneEvent is shorthand for a printable key event
func RuneEvent(r rune, mods ...Modifier) Event {
	ev := KeyEvent(KeyRune, mods...)
	ev.Rune = r
	return ev
}

func (e Event) String() string {
	switch e.Type {
	case EventKey:
		name := e.Key.String()
		if e.Key == KeyRune {
			name = fmt.Sprintf("%q", e.Rune)
		}
		if e.Modifiers != ModNone {
			return e.Modifiers.String() + "+" + name
		}
		return name
	case EventMouse:
		return fmt.Sprintf("mouse %s %s (%d,%d)", e.MouseBtn, e.MouseAction, e.MouseX, e.MouseY)
	case EventPaste:
		return fmt.Sprintf("paste %d bytes", len(e.Paste))
	case EventResize:
		return fmt.Sprintf("resize %dx%d", e.Width, e.Height)
	case EventError:
		return fmt.Sprintf("error: %v", e.Err)
	}
	return "unknown"
}
