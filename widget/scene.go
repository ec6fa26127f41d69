package widget

import (
	"errors"
	"fmt"
	"slices"

	"github.com/lixenwraith/termrender/frame"
	"github.com/lixenwraith/termrender/input"
	"github.com/lixenwraith/termrender/terminal"
)

var (
	// ErrDuplicateID is returned when adding a widget whose window id is already in the scene
	ErrDuplicateID = errors.New("duplicate window id")
	// ErrIDMismatch is returned when a widget's window id differs from the window's
	ErrIDMismatch = errors.New("widget and window ids differ")
	// ErrNilWidget is returned when adding a nil widget or window
	ErrNilWidget = errors.New("nil widget or window")
	// ErrUnknownID is returned when no widget has the given id
	ErrUnknownID = errors.New("unknown window id")
	// ErrWindowInUse is returned when a window already belongs to a scene
	ErrWindowInUse = errors.New("window belongs to another scene")
)

type entry struct {
	widget   Widget
	window   *Window
	parent   string
	children []string
}

// Scene is the tree of widgets composed into the screen, keyed by window id
// Insertion order is the update order and, within one depth, the paint order
// A parent always precedes its children, so children paint over it at equal depth
// Owned by the frame loop, not safe for concurrent use
type Scene struct {
	entries map[string]*entry
	order   []string

	damage []frame.Rect // regions vacated by removed windows
	full   bool
}

// NewScene creates an empty scene
func NewScene() *Scene {
	return &Scene{
		entries: make(map[string]*entry),
		full:    true,
	}
}

// AddWidget registers a top-level widget with its window
// On error the scene is unchanged
func (s *Scene) AddWidget(wd Widget, w *Window) error {
	return s.add("", wd, w)
}

// AddChild registers a widget nested under the widget owning window parentID
// Removing the parent removes the child; a changed child marks its ancestors for recomposition
func (s *Scene) AddChild(parentID string, wd Widget, w *Window) error {
	if _, ok := s.entries[parentID]; !ok {
		return fmt.Errorf("%w: parent %q", ErrUnknownID, parentID)
	}
	return s.add(parentID, wd, w)
}

func (s *Scene) add(parentID string, wd Widget, w *Window) error {
	if wd == nil || w == nil {
		return ErrNilWidget
	}
	id := w.ID()
	if wd.WindowID() != id {
		return fmt.Errorf("%w: widget %q, window %q", ErrIDMismatch, wd.WindowID(), id)
	}
	if _, exists := s.entries[id]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateID, id)
	}
	if w.scene != nil && w.scene != s {
		return fmt.Errorf("%w: %q", ErrWindowInUse, id)
	}

	w.scene = s
	w.shown = false
	w.MarkDirty()
	s.entries[id] = &entry{widget: wd, window: w, parent: parentID}
	s.order = append(s.order, id)
	if parentID != "" {
		p := s.entries[parentID]
		p.children = append(p.children, id)
	}
	if sa, ok := wd.(SceneAware); ok {
		sa.AttachScene(s)
	}
	return nil
}

// RemoveWidget drops the widget, its descendants and their windows, scheduling their screen areas for repaint
func (s *Scene) RemoveWidget(id string) error {
	if _, ok := s.entries[id]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownID, id)
	}
	doomed := make(map[string]bool)
	s.markAncestors(id)
	s.collect(id, doomed)
	s.removeAll(doomed)
	return nil
}

// collect adds id and all its descendants to into
func (s *Scene) collect(id string, into map[string]bool) {
	into[id] = true
	for _, c := range s.entries[id].children {
		s.collect(c, into)
	}
}

// removeAll drops every widget in ids, returning the count
func (s *Scene) removeAll(ids map[string]bool) int {
	n := 0
	s.order = slices.DeleteFunc(s.order, func(id string) bool {
		if !ids[id] {
			return false
		}
		s.drop(id, s.entries[id])
		n++
		return true
	})
	return n
}

func (s *Scene) drop(id string, e *entry) {
	if e.window.shown {
		s.damage = append(s.damage, e.window.lastRect)
	}
	if p, ok := s.entries[e.parent]; ok {
		p.children = slices.DeleteFunc(p.children, func(c string) bool { return c == id })
	}
	e.window.scene = nil
	e.window.shown = false
	delete(s.entries, id)
}

// markAncestors marks every ancestor window of id dirty
func (s *Scene) markAncestors(id string) {
	for p := s.entries[id].parent; p != ""; {
		e, ok := s.entries[p]
		if !ok {
			return
		}
		e.window.MarkDirty()
		p = e.parent
	}
}

// PruneFunc removes every widget whose window satisfies fn, with its descendants, returning the count
func (s *Scene) PruneFunc(fn func(*Window) bool) int {
	doomed := make(map[string]bool)
	for _, id := range s.order {
		if doomed[id] || !fn(s.entries[id].window) {
			continue
		}
		s.markAncestors(id)
		s.collect(id, doomed)
	}
	if len(doomed) == 0 {
		return 0
	}
	return s.removeAll(doomed)
}

// PruneByKeyword removes every widget whose window is tagged kw, with its descendants, returning the count
func (s *Scene) PruneByKeyword(kw string) int {
	return s.PruneFunc(func(w *Window) bool { return w.HasKeyword(kw) })
}

// IDsFunc returns, in insertion order, the ids of windows satisfying fn
func (s *Scene) IDsFunc(fn func(*Window) bool) []string {
	var ids []string
	for _, id := range s.order {
		if fn(s.entries[id].window) {
			ids = append(ids, id)
		}
	}
	return ids
}

// IDsByKeyword returns, in insertion order, the ids of windows tagged with any of kws
func (s *Scene) IDsByKeyword(kws ...string) []string {
	return s.IDsFunc(func(w *Window) bool {
		return slices.ContainsFunc(kws, w.HasKeyword)
	})
}

// Parent returns the id of the parent of id, empty for a top-level widget
func (s *Scene) Parent(id string) (string, bool) {
	e, ok := s.entries[id]
	if !ok {
		return "", false
	}
	return e.parent, true
}

// Children returns the ids of the direct children of id in insertion order
func (s *Scene) Children(id string) []string {
	if e, ok := s.entries[id]; ok {
		return slices.Clone(e.children)
	}
	return nil
}

// Window returns the window with the given id, nil when absent
func (s *Scene) Window(id string) *Window {
	if e, ok := s.entries[id]; ok {
		return e.window
	}
	return nil
}

// Widget returns the widget owning the given window id, nil when absent
func (s *Scene) Widget(id string) Widget {
	if e, ok := s.entries[id]; ok {
		return e.widget
	}
	return nil
}

// IDs returns window ids in insertion order
func (s *Scene) IDs() []string {
	return slices.Clone(s.order)
}

// Len returns the number of widgets
func (s *Scene) Len() int {
	return len(s.order)
}

// Update hands the frame's events to every widget, then lets each render into its window
// Widgets added or removed by handlers during the pass take effect for the ones not yet visited
func (s *Scene) Update(q *input.Queue, area frame.Rect) error {
	ids := slices.Clone(s.order)
	for _, id := range ids {
		if e, ok := s.entries[id]; ok {
			e.widget.UpdateWithEvents(q)
		}
	}
	for _, id := range ids {
		e, ok := s.entries[id]
		if !ok {
			continue
		}
		if err := e.widget.UpdateRender(e.window, area); err != nil {
			return fmt.Errorf("widget %q: %w", id, err)
		}
	}
	for _, id := range s.order {
		if e := s.entries[id]; e.parent != "" && e.window.pending() {
			s.markAncestors(id)
		}
	}
	return nil
}

// Invalidate forces the next Compose to repaint the whole screen
func (s *Scene) Invalidate() {
	s.full = true
	for _, e := range s.entries {
		e.window.MarkDirty()
	}
}

// paintOrder returns visible and hidden windows sorted by depth, insertion order within a depth
func (s *Scene) paintOrder() []*Window {
	ws := make([]*Window, 0, len(s.order))
	for _, id := range s.order {
		ws = append(ws, s.entries[id].window)
	}
	slices.SortStableFunc(ws, func(a, b *Window) int { return a.depth - b.depth })
	return ws
}

// WindowAt returns the topmost visible window covering screen (x, y), nil when none
func (s *Scene) WindowAt(x, y int) *Window {
	ws := s.paintOrder()
	for i := len(ws) - 1; i >= 0; i-- {
		if !ws[i].hidden && ws[i].Contains(x, y) {
			return ws[i]
		}
	}
	return nil
}

// Compose paints changed windows into dst and returns the screen regions that were repainted
// Windows are painted by depth, then insertion order, clipped to dst; hidden windows are skipped
// Nothing is painted and nil is returned when no window changed
func (s *Scene) Compose(dst *frame.Frame) []frame.Rect {
	bounds := dst.Rect()
	ws := s.paintOrder()

	var damage []frame.Rect
	if s.full {
		damage = []frame.Rect{bounds}
	} else {
		damage = s.damage
		for _, w := range ws {
			visible := !w.hidden
			switch {
			case visible && (!w.shown || w.rect != w.lastRect):
				damage = append(damage, w.rect)
				if w.shown {
					damage = append(damage, w.lastRect)
				}
			case visible && w.Changed():
				damage = append(damage, w.rect)
			case !visible && w.shown:
				damage = append(damage, w.lastRect)
			}
		}
	}
	s.full = false
	s.damage = nil

	// Clip to the screen
	clipped := damage[:0]
	for _, d := range damage {
		if d = d.Intersect(bounds); !d.Empty() {
			clipped = append(clipped, d)
		}
	}
	damage = clipped

	if len(damage) > 0 {
		origin := bounds.Origin()
		for _, d := range damage {
			dst.FillRect(d.Translate(-origin.X, -origin.Y), terminal.BlankCell)
		}
		for _, w := range ws {
			if w.hidden {
				continue
			}
			at := frame.Point{X: w.rect.X - origin.X, Y: w.rect.Y - origin.Y}
			for _, d := range damage {
				clip := d.Intersect(w.rect)
				if clip.Empty() {
					continue
				}
				dst.Blit(w.frame, at, clip.Translate(-origin.X, -origin.Y))
			}
		}
	}

	for _, w := range ws {
		w.Commit()
	}
	if len(damage) == 0 {
		return nil
	}
	return damage
}
