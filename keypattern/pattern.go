package keypattern

import (
	"github.com/lixenwraith/termsense/terminal"
)

// Family tags one escape-sequence grammar
type Family uint8

const (
	FamilySS3         Family = iota // ESC O <letter>
	FamilyCSICursor                 // ESC [ [1;<mod>] {A,B,C,D,H,F}
	FamilyCSITilde                  // ESC [ <code> [;<mod>] ~
	FamilyCSIFunction               // ESC [ 1;<mod> {P,Q,R,S} and ESC [ Z
	FamilySGRMouse                  // ESC [ < btn;x;y {M,m}
	FamilyEscAlt                    // ESC <alnum|_>, last resort
)

var familyNames = [...]string{
	FamilySS3:         "ss3",
	FamilyCSICursor:   "csi_cursor",
	FamilyCSITilde:    "csi_tilde",
	FamilyCSIFunction: "csi_function",
	FamilySGRMouse:    "sgr_mouse",
	FamilyEscAlt:      "esc_alt",
}

func (f Family) String() string {
	if int(f) < len(familyNames) {
		return familyNames[f]
	}
	return "unknown"
}

// Pattern is one stateless sequence rule
// LastResort patterns overlap other grammars (ESC O is both an SS3 prefix and
// Alt+O) and are only consulted once the resolver has given up
type Pattern struct {
	Family     Family
	LastResort bool
}

// IsMatch reports whether text has the family's exact grammar
// A match may still fail to decode when a numeric code is unassigned
func (p Pattern) IsMatch(text string) bool {
	switch p.Family {
	case FamilySS3:
		return len(text) == 3 && text[:2] == terminal.SS3 && isLetter(text[2])
	case FamilyCSICursor:
		params, final, ok := splitCSI(text)
		return ok && cursorFinal(final) && (params == "" || isModParam(params))
	case FamilyCSITilde:
		params, final, ok := splitCSI(text)
		if !ok || final != '~' {
			return false
		}
		_, _, ok = parseTildeParams(params)
		return ok
	case FamilyCSIFunction:
		params, final, ok := splitCSI(text)
		if !ok {
			return false
		}
		if final == 'Z' {
			return params == ""
		}
		return functionFinal(final) && isModParam(params)
	case FamilySGRMouse:
		params, final, ok := splitCSI(text)
		if !ok || (final != 'M' && final != 'm') || len(params) == 0 || params[0] != '<' {
			return false
		}
		_, _, _, ok = parseSGRParams(params[1:])
		return ok
	case FamilyEscAlt:
		return len(text) == 2 && text[0] == terminal.ESC && isWordByte(text[1])
	}
	return false
}

// Decode extracts the event for text, or false when text does not match or
// names an unassigned code
func (p Pattern) Decode(text string) (terminal.Event, bool) {
	if !p.IsMatch(text) {
		return terminal.Event{}, false
	}

	var ev terminal.Event
	var ok bool
	switch p.Family {
	case FamilySS3:
		ev, ok = decodeSS3(text[2])
	case FamilyCSICursor:
		params, final, _ := splitCSI(text)
		ev, ok = decodeCursor(params, final)
	case FamilyCSITilde:
		params, _, _ := splitCSI(text)
		ev, ok = decodeTilde(params)
	case FamilyCSIFunction:
		params, final, _ := splitCSI(text)
		ev, ok = decodeFunction(params, final)
	case FamilySGRMouse:
		params, final, _ := splitCSI(text)
		ev, ok = decodeSGRMouse(params[1:], final)
	case FamilyEscAlt:
		ev, ok = terminal.RuneEvent(rune(text[1]), terminal.ModAlt), true
	}
	if !ok {
		return terminal.Event{}, false
	}
	ev.Raw = text
	return ev, true
}

// Library is a priority-ordered pattern list
type Library []Pattern

// Default is the standard priority order; the last-resort pattern goes last
var Default = Library{
	{Family: FamilySS3},
	{Family: FamilyCSICursor},
	{Family: FamilyCSITilde},
	{Family: FamilyCSIFunction},
	{Family: FamilySGRMouse},
	{Family: FamilyEscAlt, LastResort: true},
}

// Decode returns the event from the first non-last-resort pattern whose
// grammar matches text
func (l Library) Decode(text string) (terminal.Event, bool) {
	for _, p := range l {
		if p.LastResort || !p.IsMatch(text) {
			continue
		}
		return p.Decode(text)
	}
	return terminal.Event{}, false
}

// DecodeLastResort tries only the last-resort patterns
func (l Library) DecodeLastResort(text string) (terminal.Event, bool) {
	for _, p := range l {
		if !p.LastResort {
			continue
		}
		if ev, ok := p.Decode(text); ok {
			return ev, true
		}
	}
	return terminal.Event{}, false
}

// LastResortCandidate reports whether some last-resort pattern matches text,
// meaning the text must be held until the resolver gives up on it
func (l Library) LastResortCandidate(text string) bool {
	for _, p := range l {
		if p.LastResort && p.IsMatch(text) {
			return true
		}
	}
	return false
}
