package terminal

import "github.com/gdamore/tcell/v2"

// tcellKeys maps non-rune keys onto tcell's key space
var tcellKeys = map[Key]tcell.Key{
	KeyEscape:    tcell.KeyEscape,
	KeyEnter:     tcell.KeyEnter,
	KeyTab:       tcell.KeyTab,
	KeyBacktab:   tcell.KeyBacktab,
	KeyBackspace: tcell.KeyBackspace2,
	KeyDelete:    tcell.KeyDelete,

	KeyUp:       tcell.KeyUp,
	KeyDown:     tcell.KeyDown,
	KeyLeft:     tcell.KeyLeft,
	KeyRight:    tcell.KeyRight,
	KeyHome:     tcell.KeyHome,
	KeyEnd:      tcell.KeyEnd,
	KeyPageUp:   tcell.KeyPgUp,
	KeyPageDown: tcell.KeyPgDn,
	KeyInsert:   tcell.KeyInsert,

	KeyF1:  tcell.KeyF1,
	KeyF2:  tcell.KeyF2,
	KeyF3:  tcell.KeyF3,
	KeyF4:  tcell.KeyF4,
	KeyF5:  tcell.KeyF5,
	KeyF6:  tcell.KeyF6,
	KeyF7:  tcell.KeyF7,
	KeyF8:  tcell.KeyF8,
	KeyF9:  tcell.KeyF9,
	KeyF10: tcell.KeyF10,
	KeyF11: tcell.KeyF11,
	KeyF12: tcell.KeyF12,

	KeyCtrlA:            tcell.KeyCtrlA,
	KeyCtrlB:            tcell.KeyCtrlB,
	KeyCtrlC:            tcell.KeyCtrlC,
	KeyCtrlD:            tcell.KeyCtrlD,
	KeyCtrlE:            tcell.KeyCtrlE,
	KeyCtrlF:            tcell.KeyCtrlF,
	KeyCtrlG:            tcell.KeyCtrlG,
	KeyCtrlH:            tcell.KeyCtrlH,
	KeyCtrlI:            tcell.KeyCtrlI,
	KeyCtrlJ:            tcell.KeyCtrlJ,
	KeyCtrlK:            tcell.KeyCtrlK,
	KeyCtrlL:            tcell.KeyCtrlL,
	KeyCtrlM:            tcell.KeyCtrlM,
	KeyCtrlN:            tcell.KeyCtrlN,
	KeyCtrlO:            tcell.KeyCtrlO,
	KeyCtrlP:            tcell.KeyCtrlP,
	KeyCtrlQ:            tcell.KeyCtrlQ,
	KeyCtrlR:            tcell.KeyCtrlR,
	KeyCtrlS:            tcell.KeyCtrlS,
	KeyCtrlT:            tcell.KeyCtrlT,
	KeyCtrlU:            tcell.KeyCtrlU,
	KeyCtrlV:            tcell.KeyCtrlV,
	KeyCtrlW:            tcell.KeyCtrlW,
	KeyCtrlX:            tcell.KeyCtrlX,
	KeyCtrlY:            tcell.KeyCtrlY,
	KeyCtrlZ:            tcell.KeyCtrlZ,
	KeyCtrlSpace:        tcell.KeyCtrlSpace,
	KeyCtrlBackslash:    tcell.KeyCtrlBackslash,
	KeyCtrlBracketRight: tcell.KeyCtrlRightSq,
	KeyCtrlCaret:        tcell.KeyCtrlCarat,
	KeyCtrlUnderscore:   tcell.KeyCtrlUnderscore,
}

// TcellMod converts modifier flags to tcell.ModMask
func TcellMod(m Modifier) tcell.ModMask {
	var result tcell.ModMask
	if m&ModShift != 0 {
		result |= tcell.ModShift
	}
	if m&ModCtrl != 0 {
		result |= tcell.ModCtrl
	}
	if m&ModAlt != 0 {
		result |= tcell.ModAlt
	}
	return result
}

// TcellKey converts a key event into a tcell key event so applications built on
// tcell can consume decoded input. Returns nil for non-key events and keys
// without a tcell equivalent
func TcellKey(e Event) *tcell.EventKey {
	if e.Type != EventKey {
		return nil
	}
	if e.Key == KeyRune {
		return tcell.NewEventKey(tcell.KeyRune, e.Rune, TcellMod(e.Modifiers))
	}
	k, ok := tcellKeys[e.Key]
	if !ok {
		return nil
	}
	return tcell.NewEventKey(k, 0, TcellMod(e.Modifiers))
}
