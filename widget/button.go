package widget

import (
	"github.com/lixenwraith/termrender/frame"
	"github.com/lixenwraith/termrender/input"
	"github.com/lixenwraith/termrender/terminal"
)

// ButtonState is the interaction state of a button
type ButtonState uint8

const (
	ButtonNormal ButtonState = iota
	ButtonHovered
	ButtonPressed  // Frame the press arrived
	ButtonHeld     // Following frames until release
	ButtonReleased // Frame the release arrived
)

func (s ButtonState) String() string {
	switch s {
	case ButtonHovered:
		return "hovered"
	case ButtonPressed:
		return "pressed"
	case ButtonHeld:
		return "held"
	case ButtonReleased:
		return "released"
	default:
		return "normal"
	}
}

// ButtonRenderFunc produces button content for its current state
type ButtonRenderFunc func(size, position frame.Point, state ButtonState) []Line

// Button is a clickable widget driven by left mouse presses inside its window or a hotkey
// Presses on cells covered by a window painted above are ignored
type Button struct {
	id      string
	place   placement
	label   string
	render  ButtonRenderFunc
	hotkey  *input.Chord
	onPress func(*Button)

	state ButtonState
	btn   terminal.MouseButton
	scene *Scene
}

// WithLabel sets the text of the default button renderer
func (b *Builder) WithLabel(label string) *Builder {
	b.label = label
	return b
}

// WithHotkey triggers the button from the keyboard, chord syntax as input.ParseChord
func (b *Builder) WithHotkey(chord string) *Builder {
	b.hotkey = chord
	return b
}

// WithOnPress sets the callback run when the button is pressed
func (b *Builder) WithOnPress(fn func(*Button)) *Builder {
	b.onPress = fn
	return b
}

// WithButtonRenderer replaces the default state-aware renderer
func (b *Builder) WithButtonRenderer(fn ButtonRenderFunc) *Builder {
	b.buttonRender = fn
	return b
}

// BuildButton creates a button and its window placed within area
func (b *Builder) BuildButton(area frame.Rect) (*Button, *Window, error) {
	w, err := b.window(area)
	if err != nil {
		return nil, nil, err
	}
	bt := &Button{
		id:      b.id,
		place:   placement{layout: b.layout, area: area, placed: true},
		label:   b.label,
		render:  b.buttonRender,
		onPress: b.onPress,
	}
	if b.hotkey != "" {
		c, err := input.ParseChord(b.hotkey)
		if err != nil {
			return nil, nil, err
		}
		bt.hotkey = &c
	}
	return bt, w, nil
}

// AddButtonTo builds a button and adds it to scene
func (b *Builder) AddButtonTo(s *Scene, area frame.Rect) (*Button, error) {
	bt, w, err := b.BuildButton(area)
	if err != nil {
		return nil, err
	}
	if err := b.add(s, bt, w); err != nil {
		return nil, err
	}
	return bt, nil
}

// WindowID implements Widget
func (bt *Button) WindowID() string { return bt.id }

// AttachScene implements SceneAware
func (bt *Button) AttachScene(s *Scene) { bt.scene = s }

// State returns the current interaction state
func (bt *Button) State() ButtonState { return bt.state }

// Label returns the default renderer's text
func (bt *Button) Label() string { return bt.label }

// SetLabel changes the default renderer's text
func (bt *Button) SetLabel(label string) { bt.label = label }

// reachable reports whether screen (x, y) hits this button's window and no window above it
func (bt *Button) reachable(x, y int) bool {
	if bt.scene == nil {
		return false
	}
	top := bt.scene.WindowAt(x, y)
	return top != nil && top.ID() == bt.id
}

// hovering reports whether the pointer rests on the button's window
func (bt *Button) hovering(q *input.Queue) bool {
	if bt.scene == nil {
		return false
	}
	w := bt.scene.Window(bt.id)
	x, y, ok := q.MousePosition()
	return ok && w != nil && w.Contains(x, y)
}

// UpdateWithEvents implements Widget
func (bt *Button) UpdateWithEvents(q *input.Queue) {
	if bt.hotkey != nil {
		for _, ev := range q.KeyEvents() {
			if input.ChordOf(ev) == *bt.hotkey {
				bt.press(terminal.MouseBtnNone)
				return
			}
		}
	}

	ev, hasMouse := q.LastMouse()
	switch bt.state {
	case ButtonNormal, ButtonHovered:
		if !hasMouse {
			return
		}
		if !bt.hovering(q) || !bt.reachable(ev.MouseX, ev.MouseY) {
			bt.state = ButtonNormal
			return
		}
		if ev.MouseBtn == terminal.MouseBtnLeft && ev.MouseAction == terminal.MouseActionPress {
			bt.press(ev.MouseBtn)
			return
		}
		bt.state = ButtonHovered
	case ButtonPressed:
		bt.state = ButtonHeld
		bt.checkRelease(q)
	case ButtonHeld:
		bt.checkRelease(q)
	case ButtonReleased:
		if bt.hovering(q) {
			bt.state = ButtonHovered
		} else {
			bt.state = ButtonNormal
		}
	}
}

func (bt *Button) press(btn terminal.MouseButton) {
	bt.state = ButtonPressed
	bt.btn = btn
	if bt.onPress != nil {
		bt.onPress(bt)
	}
}

// checkRelease ends a hold; hotkey presses release on the next frame
func (bt *Button) checkRelease(q *input.Queue) {
	if bt.btn == terminal.MouseBtnNone || !q.ButtonDown(bt.btn) {
		bt.state = ButtonReleased
	}
}

// UpdateRender implements Widget
func (bt *Button) UpdateRender(w *Window, area frame.Rect) error {
	if err := bt.place.place(w, area); err != nil {
		return err
	}
	r := w.Rect()
	var lines []Line
	if bt.render != nil {
		lines = bt.render(r.Size(), r.Origin(), bt.state)
	} else {
		lines = bt.defaultLines(w.Inner())
	}
	w.DrawChrome()
	if lines != nil {
		w.WriteLines(lines)
	}
	return nil
}

// defaultLines centers the label vertically and horizontally, styled by state
func (bt *Button) defaultLines(inner frame.Rect) []Line {
	style := terminal.StyleDefault
	switch bt.state {
	case ButtonHovered:
		style = style.Bold()
	case ButtonPressed, ButtonHeld:
		style = style.Reverse()
	}
	row := max((inner.Height-1)/2, 0)
	lines := make([]Line, row+1)
	lines[row] = Text(bt.label, style).Center(inner.Width)
	return lines
}
