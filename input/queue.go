package input

import (
	"time"

	"github.com/lixenwraith/termrender/terminal"
)

// Queue holds the events delivered during the current frame
// Events are cleared every frame; mouse button state and pointer position persist
// Owned by the frame loop, not safe for concurrent use
type Queue struct {
	events []terminal.Event

	buttons  [terminal.MouseBtnForward + 1]bool
	mouseX   int
	mouseY   int
	hasMouse bool

	scroll scrollLog
	now    func() time.Time
}

// NewQueue creates an empty queue
func NewQueue() *Queue {
	return &Queue{
		events: make([]terminal.Event, 0, 64),
		now:    time.Now,
	}
}

// Push appends an event, updating persistent mouse state
func (q *Queue) Push(ev terminal.Event) {
	q.events = append(q.events, ev)
	if ev.Type != terminal.EventMouse {
		return
	}

	q.mouseX, q.mouseY = ev.MouseX, ev.MouseY
	q.hasMouse = true

	switch {
	case ev.MouseBtn.IsWheel():
		dir := 1
		if ev.MouseBtn == terminal.MouseBtnWheelUp || ev.MouseBtn == terminal.MouseBtnWheelLeft {
			dir = -1
		}
		q.scroll.add(q.now(), dir)
	case ev.MouseAction == terminal.MouseActionRelease:
		if ev.MouseBtn == terminal.MouseBtnNone {
			// Legacy reports do not say which button was released
			clear(q.buttons[:])
		} else {
			q.buttons[ev.MouseBtn] = false
		}
	case ev.MouseAction == terminal.MouseActionPress, ev.MouseAction == terminal.MouseActionDrag:
		if ev.MouseBtn != terminal.MouseBtnNone {
			q.buttons[ev.MouseBtn] = true
		}
	}
}

// Events returns this frame's events in arrival order
// The slice is reused after Clear
func (q *Queue) Events() []terminal.Event {
	return q.events
}

// Len returns the number of events this frame
func (q *Queue) Len() int {
	return len(q.events)
}

// Clear drops this frame's events
func (q *Queue) Clear() {
	clear(q.events)
	q.events = q.events[:0]
	q.scroll.expire(q.now())
}

// ContainsKeyCode reports whether a key event for k arrived this frame
// With modifiers given, the event must carry all of them
func (q *Queue) ContainsKeyCode(k terminal.Key, mods ...terminal.Modifier) bool {
	var want terminal.Modifier
	for _, m := range mods {
		want |= m
	}
	for i := range q.events {
		ev := &q.events[i]
		if ev.Type == terminal.EventKey && ev.Key == k && ev.Modifiers.Has(want) {
			return true
		}
	}
	return false
}

// ContainsRune reports whether the printable character r was typed this frame
func (q *Queue) ContainsRune(r rune) bool {
	for i := range q.events {
		ev := &q.events[i]
		if ev.Type == terminal.EventKey && ev.Key == terminal.KeyRune && ev.Rune == r {
			return true
		}
	}
	return false
}

// ContainsModifier reports whether any key or mouse event this frame carried m
func (q *Queue) ContainsModifier(m terminal.Modifier) bool {
	for i := range q.events {
		ev := &q.events[i]
		if (ev.Type == terminal.EventKey || ev.Type == terminal.EventMouse) && ev.Modifiers.Has(m) {
			return true
		}
	}
	return false
}

// KeyEvents returns this frame's key events in order
func (q *Queue) KeyEvents() []terminal.Event {
	return q.filter(terminal.EventKey)
}

// MouseEvents returns this frame's mouse events in order
func (q *Queue) MouseEvents() []terminal.Event {
	return q.filter(terminal.EventMouse)
}

// LastMouse returns the most recent mouse event this frame
func (q *Queue) LastMouse() (terminal.Event, bool) {
	for i := len(q.events) - 1; i >= 0; i-- {
		if q.events[i].Type == terminal.EventMouse {
			return q.events[i], true
		}
	}
	return terminal.Event{}, false
}

// Pastes returns the text of bracketed pastes received this frame
func (q *Queue) Pastes() []string {
	var out []string
	for i := range q.events {
		if q.events[i].Type == terminal.EventPaste {
			out = append(out, q.events[i].Paste)
		}
	}
	return out
}

// ButtonDown reports whether b is held, tracked across frames from press and release reports
func (q *Queue) ButtonDown(b terminal.MouseButton) bool {
	if int(b) >= len(q.buttons) {
		return false
	}
	return q.buttons[b]
}

// MousePosition returns the last reported pointer cell, false before any mouse event
func (q *Queue) MousePosition() (x, y int, ok bool) {
	return q.mouseX, q.mouseY, q.hasMouse
}

// Scroll returns the smoothed wheel velocity, negative is up or left
func (q *Queue) Scroll() float64 {
	return q.scroll.velocity(q.now())
}

func (q *Queue) filter(t terminal.EventType) []terminal.Event {
	var out []terminal.Event
	for i := range q.events {
		if q.events[i].Type == t {
			out = append(out, q.events[i])
		}
	}
	return out
}
