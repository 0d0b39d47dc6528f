package keypattern

import (
	"github.com/lixenwraith/termsense/terminal"
)

// ss3Keys maps the byte after ESC O to keys
var ss3Keys = map[byte]terminal.Key{
	'A': terminal.KeyUp,
	'B': terminal.KeyDown,
	'C': terminal.KeyRight,
	'D': terminal.KeyLeft,
	'H': terminal.KeyHome,
	'F': terminal.KeyEnd,
	'P': terminal.KeyF1,
	'Q': terminal.KeyF2,
	'R': terminal.KeyF3,
	'S': terminal.KeyF4,
	'T': terminal.KeyF5,
}

// cursorKeys maps CSI cursor finals to keys
var cursorKeys = map[byte]terminal.Key{
	'A': terminal.KeyUp,
	'B': terminal.KeyDown,
	'C': terminal.KeyRight,
	'D': terminal.KeyLeft,
	'H': terminal.KeyHome,
	'F': terminal.KeyEnd,
}

// functionKeys maps CSI 1;<mod> finals P-S to F1-F4
var functionKeys = map[byte]terminal.Key{
	'P': terminal.KeyF1,
	'Q': terminal.KeyF2,
	'R': terminal.KeyF3,
	'S': terminal.KeyF4,
}

// tildeKeys maps the numeric code of ESC [ <code> ~ to keys
var tildeKeys = map[int]terminal.Key{
	1:  terminal.KeyHome, // Home (modern variant)
	2:  terminal.KeyInsert,
	3:  terminal.KeyDelete,
	4:  terminal.KeyEnd, // End (modern variant)
	5:  terminal.KeyPageUp,
	6:  terminal.KeyPageDown,
	7:  terminal.KeyHome, // rxvt
	8:  terminal.KeyEnd,  // rxvt
	11: terminal.KeyF1,
	12: terminal.KeyF2,
	13: terminal.KeyF3,
	14: terminal.KeyF4,
	15: terminal.KeyF5,
	17: terminal.KeyF6,
	18: terminal.KeyF7,
	19: terminal.KeyF8,
	20: terminal.KeyF9,
	21: terminal.KeyF10,
	23: terminal.KeyF11,
	24: terminal.KeyF12,
}

func decodeSS3(b byte) (terminal.Event, bool) {
	k, ok := ss3Keys[b]
	if !ok {
		return terminal.Event{}, false
	}
	return terminal.KeyEvent(k, terminal.ModNone), true
}

func decodeCursor(params string, final byte) (terminal.Event, bool) {
	k, ok := cursorKeys[final]
	if !ok {
		return terminal.Event{}, false
	}
	mod := terminal.ModNone
	if params != "" {
		mod = terminal.ModifierFromParam(modParam(params))
	}
	return terminal.KeyEvent(k, mod), true
}

func decodeTilde(params string) (terminal.Event, bool) {
	code, modDigit, ok := parseTildeParams(params)
	if !ok {
		return terminal.Event{}, false
	}
	k, ok := tildeKeys[code]
	if !ok {
		return terminal.Event{}, false
	}
	return terminal.KeyEvent(k, terminal.ModifierFromParam(modDigit)), true
}

func decodeFunction(params string, final byte) (terminal.Event, bool) {
	if final == 'Z' {
		return terminal.KeyEvent(terminal.KeyBacktab, terminal.ModNone), true
	}
	k, ok := functionKeys[final]
	if !ok {
		return terminal.Event{}, false
	}
	return terminal.KeyEvent(k, terminal.ModifierFromParam(modParam(params))), true
}

// decodeSGRMouse decodes "btn;x;y" with final M (press/motion) or m (release)
func decodeSGRMouse(params string, final byte) (terminal.Event, bool) {
	btn, x, y, ok := parseSGRParams(params)
	if !ok {
		return terminal.Event{}, false
	}

	ev := terminal.Event{Type: terminal.EventMouse, MouseX: x - 1, MouseY: y - 1} // Convert to 0-indexed

	// Bits 0-1: button (0=left, 1=middle, 2=right, 3=release)
	// Bit 5 (32): motion
	// Bit 6 (64): scroll
	buttonID := btn & 0x03
	isMotion := btn&32 != 0
	isScroll := btn&64 != 0

	if isScroll {
		if buttonID == 0 {
			ev.MouseBtn = terminal.MouseBtnWheelUp
		} else {
			ev.MouseBtn = terminal.MouseBtnWheelDown
		}
		ev.MouseAction = terminal.MouseActionPress // Scroll is instantaneous
	} else {
		switch buttonID {
		case 0:
			ev.MouseBtn = terminal.MouseBtnLeft
		case 1:
			ev.MouseBtn = terminal.MouseBtnMiddle
		case 2:
			ev.MouseBtn = terminal.MouseBtnRight
		case 3:
			ev.MouseBtn = terminal.MouseBtnNone // Release with no specific button
		}

		switch {
		case final == 'm':
			ev.MouseAction = terminal.MouseActionRelease
		case isMotion && ev.MouseBtn != terminal.MouseBtnNone:
			ev.MouseAction = terminal.MouseActionDrag
		case isMotion:
			ev.MouseAction = terminal.MouseActionMove
		default:
			ev.MouseAction = terminal.MouseActionPress
		}
	}

	if btn&4 != 0 {
		ev.Modifiers |= terminal.ModShift
	}
	if btn&8 != 0 {
		ev.Modifiers |= terminal.ModAlt
	}
	if btn&16 != 0 {
		ev.Modifiers |= terminal.ModCtrl
	}

	return ev, true
}
