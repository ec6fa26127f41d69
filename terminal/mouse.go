package terminal

// MouseButton represents mouse button identity
type MouseButton uint8

const (
	MouseBtnNone MouseButton = iota
	MouseBtnLeft
	MouseBtnMiddle
	MouseBtnRight
	MouseBtnWheelUp
	MouseBtnWheelDown
	MouseBtnWheelLeft
	MouseBtnWheelRight
	MouseBtnBack    // Button 8
	MouseBtnForward // Button 9
)

// IsWheel reports whether the button is a scroll wheel direction
func (b MouseButton) IsWheel() bool {
	return b >= MouseBtnWheelUp && b <= MouseBtnWheelRight
}

// MouseAction represents the type of mouse event
type MouseAction uint8

const (
	MouseActionNone MouseAction = iota
	MouseActionPress
	MouseActionRelease
	MouseActionMove
	MouseActionDrag
)

// MouseMode controls which mouse events are reported (bitmask)
type MouseMode uint8

const (
	MouseModeNone   MouseMode = 0
	MouseModeClick  MouseMode = 1 << 0 // Press/release events
	MouseModeDrag   MouseMode = 1 << 1 // Drag events (button held + motion)
	MouseModeMotion MouseMode = 1 << 2 // All motion events
)

// String returns human-readable button name
func (b MouseButton) String() string {
	switch b {
	case MouseBtnLeft:
		return "Left"
	case MouseBtnMiddle:
		return "Middle"
	case MouseBtnRight:
		return "Right"
	case MouseBtnWheelUp:
		return "WheelUp"
	case MouseBtnWheelDown:
		return "WheelDown"
	case MouseBtnWheelLeft:
		return "WheelLeft"
	case MouseBtnWheelRight:
		return "WheelRight"
	case MouseBtnBack:
		return "Back"
	case MouseBtnForward:
		return "Forward"
	default:
		return "None"
	}
}

// String returns human-readable action name
func (a MouseAction) String() string {
	switch a {
	case MouseActionPress:
		return "Press"
	case MouseActionRelease:
		return "Release"
	case MouseActionMove:
		return "Move"
	case MouseActionDrag:
		return "Drag"
	default:
		return "None"
	}
}

// decodeMouseButton splits an xterm button code into button, motion flag and modifiers
// Bits 0-1: button, bit 2 shift, bit 3 alt (meta), bit 4 ctrl, bit 5 motion, bits 6-7 wheel/extra
func decodeMouseButton(code int) (MouseButton, bool, Modifier) {
	var mod Modifier
	if code&4 != 0 {
		mod |= ModShift
	}
	if code&8 != 0 {
		mod |= ModAlt
	}
	if code&16 != 0 {
		mod |= ModCtrl
	}
	motion := code&32 != 0
	low := code & 0x03

	var btn MouseButton
	switch {
	case code&128 != 0:
		// Buttons 8-11
		switch low {
		case 0:
			btn = MouseBtnBack
		case 1:
			btn = MouseBtnForward
		default:
			btn = MouseBtnNone
		}
	case code&64 != 0:
		switch low {
		case 0:
			btn = MouseBtnWheelUp
		case 1:
			btn = MouseBtnWheelDown
		case 2:
			btn = MouseBtnWheelLeft
		default:
			btn = MouseBtnWheelRight
		}
	default:
		switch low {
		case 0:
			btn = MouseBtnLeft
		case 1:
			btn = MouseBtnMiddle
		case 2:
			btn = MouseBtnRight
		default:
			btn = MouseBtnNone // Release with no specific button
		}
	}
	return btn, motion, mod
}

// mouseEvent builds a mouse event from a decoded report, x and y are 1-based
func mouseEvent(code, x, y int, release bool) Event {
	btn, motion, mod := decodeMouseButton(code)
	ev := Event{
		Type:      EventMouse,
		MouseX:    x - 1,
		MouseY:    y - 1,
		MouseBtn:  btn,
		Modifiers: mod,
	}
	if ev.MouseX < 0 {
		ev.MouseX = 0
	}
	if ev.MouseY < 0 {
		ev.MouseY = 0
	}

	switch {
	case btn.IsWheel():
		ev.MouseAction = MouseActionPress // Scroll is instantaneous
	case release:
		ev.MouseAction = MouseActionRelease
	case motion && btn != MouseBtnNone:
		ev.MouseAction = MouseActionDrag
	case motion:
		ev.MouseAction = MouseActionMove
	case btn == MouseBtnNone:
		// X10 release reports button 3 without a release final
		ev.MouseAction = MouseActionRelease
	default:
		ev.MouseAction = MouseActionPress
	}
	return ev
}
