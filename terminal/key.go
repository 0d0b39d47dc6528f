// @focus: #sys { io } #input { keys }
package terminal

import "strings"

// Key represents a parsed input key
type Key uint16

// Key constants - designed for expansion
const (
	KeyNone Key = iota
	KeyRune     // Printable character (check Event.Rune)

	// Control keys
	KeyEscape
	KeyEnter
	KeyTab
	KeyBacktab // Shift+Tab
	KeyBackspace
	KeyDelete

	// Navigation
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
	KeyInsert

	// Function keys
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12

	// Ctrl+letter (Ctrl+A = 0x01, Ctrl+Z = 0x1A)
	KeyCtrlA
	KeyCtrlB
	KeyCtrlC
	KeyCtrlD
	KeyCtrlE
	KeyCtrlF
	KeyCtrlG
	KeyCtrlH // Often same as Backspace
	KeyCtrlI // Often same as Tab
	KeyCtrlJ // Often same as Enter
	KeyCtrlK
	KeyCtrlL
	KeyCtrlM // Often same as Enter
	KeyCtrlN
	KeyCtrlO
	KeyCtrlP
	KeyCtrlQ
	KeyCtrlR
	KeyCtrlS
	KeyCtrlT
	KeyCtrlU
	KeyCtrlV
	KeyCtrlW
	KeyCtrlX
	KeyCtrlY
	KeyCtrlZ

	// Ctrl+special
	KeyCtrlSpace
	KeyCtrlBackslash
	KeyCtrlBracketRight
	KeyCtrlCaret
	KeyCtrlUnderscore
)

// Modifier flags
type Modifier uint8

const (
	ModNone  Modifier = 0
	ModShift Modifier = 1 << 0
	ModAlt   Modifier = 1 << 1
	ModCtrl  Modifier = 1 << 2
)

// String renders modifiers in Ctrl+Alt+Shift order with a trailing '+'
// Returns empty string for ModNone
func (m Modifier) String() string {
	var b strings.Builder
	if m&ModCtrl != 0 {
		b.WriteString("Ctrl+")
	}
	if m&ModAlt != 0 {
		b.WriteString("Alt+")
	}
	if m&ModShift != 0 {
		b.WriteString("Shift+")
	}
	return b.String()
}

// ModifierFromParam maps the xterm modifier parameter (the digit after ';' in
// ESC [ 1 ; m X and ESC [ n ; m ~) to modifier flags
// Values outside 2-8 carry no modifiers
func ModifierFromParam(p int) Modifier {
	switch p {
	case 2:
		return ModShift
	case 3:
		return ModAlt
	case 4:
		return ModAlt | ModShift
	case 5:
		return ModCtrl
	case 6:
		return ModCtrl | ModShift
	case 7:
		return ModCtrl | ModAlt
	case 8:
		return ModCtrl | ModAlt | ModShift
	}
	return ModNone
}

// controlKeys maps C0 control bytes to keys
// 0x1b is absent: a lone ESC is resolved by the escape-sequence path
var controlKeys = [0x20]Key{
	0x00: KeyCtrlSpace,
	0x01: KeyCtrlA,
	0x02: KeyCtrlB,
	0x03: KeyCtrlC,
	0x04: KeyCtrlD,
	0x05: KeyCtrlE,
	0x06: KeyCtrlF,
	0x07: KeyCtrlG,
	0x08: KeyBackspace, // Ctrl+H or Backspace
	0x09: KeyTab,
	0x0a: KeyEnter, // LF
	0x0b: KeyCtrlK,
	0x0c: KeyCtrlL,
	0x0d: KeyEnter, // CR
	0x0e: KeyCtrlN,
	0x0f: KeyCtrlO,
	0x10: KeyCtrlP,
	0x11: KeyCtrlQ,
	0x12: KeyCtrlR,
	0x13: KeyCtrlS,
	0x14: KeyCtrlT,
	0x15: KeyCtrlU,
	0x16: KeyCtrlV,
	0x17: KeyCtrlW,
	0x18: KeyCtrlX,
	0x19: KeyCtrlY,
	0x1a: KeyCtrlZ,
	0x1c: KeyCtrlBackslash,
	0x1d: KeyCtrlBracketRight,
	0x1e: KeyCtrlCaret,
	0x1f: KeyCtrlUnderscore,
}

// ControlKey maps a single non-printable byte to a key event
// DEL (0x7f) is Backspace; ESC and printable bytes yield KeyNone
func ControlKey(b byte) Event {
	if b == 0x7f {
		return Event{Type: EventKey, Key: KeyBackspace, Raw: string(b)}
	}
	if b >= 0x20 {
		return Event{Type: EventKey, Key: KeyNone}
	}
	return Event{Type: EventKey, Key: controlKeys[b], Raw: string(b)}
}
