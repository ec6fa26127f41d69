package widget

import (
	"github.com/lixenwraith/termrender/frame"
	"github.com/lixenwraith/termrender/input"
)

// Widget is an application component rendered into its own window
type Widget interface {
	// WindowID names the window the widget renders into
	WindowID() string
	// UpdateWithEvents consumes this frame's input
	UpdateWithEvents(q *input.Queue)
	// UpdateRender draws into the window; area is the terminal area available to the scene
	UpdateRender(w *Window, area frame.Rect) error
}

// SceneAware widgets are told which scene they were added to
type SceneAware interface {
	AttachScene(s *Scene)
}
