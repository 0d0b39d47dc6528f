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
)

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

// MouseModeTransition returns the byte sequence that moves terminal mouse
// reporting from mode old to mode next. SGR extended coordinates are enabled
// with the first mode and disabled with the last, matching what the SGR
// mouse decoder expects
func MouseModeTransition(old, next MouseMode) []byte {
	var out []byte

	// Disable modes no longer needed (reverse order of enable)
	if old&MouseModeMotion != 0 && next&MouseModeMotion == 0 {
		out = append(out, seqMouseMotionOff...)
	}
	if old&MouseModeDrag != 0 && next&MouseModeDrag == 0 {
		out = append(out, seqMouseDragOff...)
	}
	if old&MouseModeClick != 0 && next&MouseModeClick == 0 {
		out = append(out, seqMouseClickOff...)
	}
	if next == MouseModeNone && old != MouseModeNone {
		out = append(out, seqMouseSGROff...)
	}

	if next != MouseModeNone && old == MouseModeNone {
		out = append(out, seqMouseSGROn...)
	}
	// Click is base, drag extends, motion extends further
	if next&MouseModeClick != 0 && old&MouseModeClick == 0 {
		out = append(out, seqMouseClickOn...)
	}
	if next&MouseModeDrag != 0 && old&MouseModeDrag == 0 {
		out = append(out, seqMouseDragOn...)
	}
	if next&MouseModeMotion != 0 && old&MouseModeMotion == 0 {
		out = append(out, seqMouseMotionOn...)
	}
	return out
}
