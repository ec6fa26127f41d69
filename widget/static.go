package widget

import (
	"github.com/lixenwraith/termrender/frame"
	"github.com/lixenwraith/termrender/input"
)

// StaticWidget renders lines from a function and reacts to events through an optional handler
type StaticWidget struct {
	id     string
	place  placement
	render RenderFunc
	update UpdateFunc
}

// WindowID implements Widget
func (sw *StaticWidget) WindowID() string { return sw.id }

// Layout returns the widget's placement rule
func (sw *StaticWidget) Layout() Layout { return sw.place.layout }

// SetRenderer replaces the content function
func (sw *StaticWidget) SetRenderer(fn RenderFunc) { sw.render = fn }

// UpdateWithEvents implements Widget
func (sw *StaticWidget) UpdateWithEvents(q *input.Queue) {
	if sw.update != nil {
		sw.update(sw, q)
	}
}

// UpdateRender implements Widget
func (sw *StaticWidget) UpdateRender(w *Window, area frame.Rect) error {
	if err := sw.place.place(w, area); err != nil {
		return err
	}
	if sw.render == nil {
		if w.Dirty() {
			w.DrawChrome()
		}
		return nil
	}
	r := w.Rect()
	lines := sw.render(r.Size(), r.Origin())
	if lines == nil {
		if w.Dirty() {
			w.DrawChrome()
		}
		return nil
	}
	w.DrawChrome()
	w.WriteLines(lines)
	return nil
}
