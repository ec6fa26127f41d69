package widget

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/termrender/frame"
	"github.com/lixenwraith/termrender/input"
	"github.com/lixenwraith/termrender/terminal"
)

func click(q *input.Queue, action terminal.MouseAction, x, y int) {
	btn := terminal.MouseBtnLeft
	if action == terminal.MouseActionMove {
		btn = terminal.MouseBtnNone
	}
	q.Push(terminal.Event{Type: terminal.EventMouse, MouseBtn: btn, MouseAction: action, MouseX: x, MouseY: y})
}

// frameStep runs one scene update and clears the queue, as the run loop does
func frameStep(t *testing.T, s *Scene, q *input.Queue) {
	t.Helper()
	require.NoError(t, s.Update(q, testArea))
	q.Clear()
}

func newButton(t *testing.T, s *Scene, presses *int) *Button {
	t.Helper()
	bt, err := NewBuilder("ok").
		WithPosition(10, 5).
		WithSize(6, 3).
		WithBorder(true).
		WithLabel("OK").
		WithHotkey("alt+o").
		WithOnPress(func(*Button) { *presses++ }).
		AddButtonTo(s, testArea)
	require.NoError(t, err)
	return bt
}

func TestButtonMouseCycle(t *testing.T) {
	s := NewScene()
	presses := 0
	bt := newButton(t, s, &presses)
	q := input.NewQueue()

	click(q, terminal.MouseActionMove, 12, 6)
	frameStep(t, s, q)
	assert.Equal(t, ButtonHovered, bt.State())

	click(q, terminal.MouseActionPress, 12, 6)
	frameStep(t, s, q)
	assert.Equal(t, ButtonPressed, bt.State())
	assert.Equal(t, 1, presses)

	frameStep(t, s, q)
	assert.Equal(t, ButtonHeld, bt.State())

	click(q, terminal.MouseActionRelease, 12, 6)
	frameStep(t, s, q)
	assert.Equal(t, ButtonReleased, bt.State())

	frameStep(t, s, q)
	assert.Equal(t, ButtonHovered, bt.State())

	click(q, terminal.MouseActionMove, 0, 0)
	frameStep(t, s, q)
	assert.Equal(t, ButtonNormal, bt.State())
	assert.Equal(t, 1, presses)
}

func TestButtonBlockedByWindowAbove(t *testing.T) {
	s := NewScene()
	presses := 0
	bt := newButton(t, s, &presses)
	cover := addFilled(t, s, "cover", frame.Rect{X: 10, Y: 5, Width: 3, Height: 3}, '#')
	cover.SetDepth(1)
	q := input.NewQueue()

	click(q, terminal.MouseActionPress, 11, 6)
	frameStep(t, s, q)
	assert.Equal(t, ButtonNormal, bt.State())
	assert.Zero(t, presses)

	// Uncovered part of the button still works
	click(q, terminal.MouseActionPress, 14, 6)
	frameStep(t, s, q)
	assert.Equal(t, ButtonPressed, bt.State())
}

func TestButtonHotkey(t *testing.T) {
	s := NewScene()
	presses := 0
	bt := newButton(t, s, &presses)
	q := input.NewQueue()

	q.Push(terminal.RuneEvent('o', terminal.ModAlt))
	frameStep(t, s, q)
	assert.Equal(t, ButtonPressed, bt.State())
	assert.Equal(t, 1, presses)

	frameStep(t, s, q)
	assert.Equal(t, ButtonReleased, bt.State())
	frameStep(t, s, q)
	assert.Equal(t, ButtonNormal, bt.State())
}

func TestButtonInvalidHotkey(t *testing.T) {
	_, _, err := NewBuilder("b").WithPosition(0, 0).WithSize(4, 1).WithHotkey("hyper+x").BuildButton(testArea)
	assert.ErrorIs(t, err, input.ErrInvalidBinding)
}

func TestButtonRendersState(t *testing.T) {
	s := NewScene()
	presses := 0
	newButton(t, s, &presses)
	q := input.NewQueue()
	screen := frame.MustNew(testArea)

	frameStep(t, s, q)
	s.Compose(screen)
	// Label centered inside the border: inner is 4 wide at x=11
	assert.Equal(t, "O", glyphAt(t, screen, 12, 6))
	c, err := screen.At(12, 6)
	require.NoError(t, err)
	assert.Zero(t, c.Attrs&terminal.AttrReverse)

	click(q, terminal.MouseActionPress, 12, 6)
	frameStep(t, s, q)
	s.Compose(screen)
	c, err = screen.At(12, 6)
	require.NoError(t, err)
	assert.NotZero(t, c.Attrs&terminal.AttrReverse)
}
