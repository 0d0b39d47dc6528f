package keypattern

import (
	"strings"

	"github.com/lixenwraith/termsense/terminal"
)

// Length caps beyond which partial sequences are treated as garbage
const (
	maxCSILen    = 128
	maxStringLen = 4096 // OSC and DCS payloads
)

// Shape classifies partial input against every grammar the layer knows,
// keys and replies alike
type Shape uint8

const (
	// ShapeDeadEnd cannot grow into any known grammar
	ShapeDeadEnd Shape = iota
	// ShapePrefix is a strict prefix of a longer grammar
	ShapePrefix
	// ShapeComplete is a syntactically finished sequence, known or not
	ShapeComplete
)

func (s Shape) String() string {
	switch s {
	case ShapePrefix:
		return "prefix"
	case ShapeComplete:
		return "complete"
	}
	return "dead_end"
}

// ShapeOf reports how text relates to the CSI, SS3, OSC and DCS grammars
// The result is context free; see IsStringForm
func ShapeOf(text string) Shape {
	if len(text) == 0 || text[0] != terminal.ESC {
		return ShapeDeadEnd
	}
	if len(text) == 1 {
		return ShapePrefix
	}

	switch text[1] {
	case '[':
		return csiShape(text)
	case 'O':
		switch {
		case len(text) == 2:
			return ShapePrefix
		case len(text) == 3 && isFinal(text[2]):
			return ShapeComplete
		}
		return ShapeDeadEnd
	case ']':
		return stringShape(text, true)
	case 'P':
		return stringShape(text, false)
	}
	return ShapeDeadEnd
}

// IsStringForm reports whether text opens an OSC or DCS string, whose body
// only ends at ST (or BEL for OSC). ESC P is also Alt+P and ESC ] is ESC then
// ']', so callers hold such text only while a string reply is expected
func IsStringForm(text string) bool {
	return strings.HasPrefix(text, terminal.OSC) || strings.HasPrefix(text, terminal.DCS)
}

// IsReplyForm reports whether text is long enough and shaped like a query
// reply (CSI, OSC or DCS) for terminator matching
func IsReplyForm(text string) bool {
	if len(text) < 3 {
		return false
	}
	return strings.HasPrefix(text, terminal.CSI) ||
		strings.HasPrefix(text, terminal.OSC) ||
		strings.HasPrefix(text, terminal.DCS)
}

// csiShape scans parameter/intermediate bytes (0x20-0x3F) up to a final byte
func csiShape(text string) Shape {
	if len(text) > maxCSILen {
		return ShapeDeadEnd
	}
	for i := 2; i < len(text); i++ {
		b := text[i]
		switch {
		case b >= 0x20 && b <= 0x3f:
			continue
		case isFinal(b):
			if i == len(text)-1 {
				return ShapeComplete
			}
			return ShapeDeadEnd
		default:
			return ShapeDeadEnd
		}
	}
	return ShapePrefix
}

// stringShape handles OSC/DCS bodies terminated by ST, or BEL for OSC
func stringShape(text string, allowBEL bool) Shape {
	if len(text) > maxStringLen {
		return ShapeDeadEnd
	}
	for i := 2; i < len(text); i++ {
		b := text[i]
		if b == terminal.BEL && allowBEL {
			if i == len(text)-1 {
				return ShapeComplete
			}
			return ShapeDeadEnd
		}
		if b == terminal.ESC {
			switch {
			case i == len(text)-1:
				return ShapePrefix // ESC of ST pending
			case text[i+1] == '\\' && i+1 == len(text)-1:
				return ShapeComplete
			default:
				return ShapeDeadEnd
			}
		}
	}
	return ShapePrefix
}

// splitCSI returns the parameter bytes and final byte of a complete CSI sequence
func splitCSI(text string) (params string, final byte, ok bool) {
	if len(text) < 3 || text[:2] != terminal.CSI {
		return "", 0, false
	}
	if csiShape(text) != ShapeComplete {
		return "", 0, false
	}
	return text[2 : len(text)-1], text[len(text)-1], true
}

func isFinal(b byte) bool {
	return b >= 0x40 && b <= 0x7e
}

func isLetter(b byte) bool {
	return (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z')
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

// isWordByte matches [A-Za-z0-9_]
func isWordByte(b byte) bool {
	return isLetter(b) || isDigit(b) || b == '_'
}

func cursorFinal(b byte) bool {
	_, ok := cursorKeys[b]
	return ok
}

func functionFinal(b byte) bool {
	_, ok := functionKeys[b]
	return ok
}

// isModParam matches "1;<digits>"
func isModParam(params string) bool {
	if len(params) < 3 || params[0] != '1' || params[1] != ';' {
		return false
	}
	_, ok := atoi(params[2:])
	return ok
}

// modParam returns the digits after "1;", zero when absent
func modParam(params string) int {
	if !isModParam(params) {
		return 0
	}
	n, _ := atoi(params[2:])
	return n
}

// parseTildeParams parses "<code>" or "<code>;<mod>"
func parseTildeParams(params string) (code, mod int, ok bool) {
	head, tail, hasMod := strings.Cut(params, ";")
	code, ok = atoi(head)
	if !ok {
		return 0, 0, false
	}
	if hasMod {
		mod, ok = atoi(tail)
		if !ok {
			return 0, 0, false
		}
	}
	return code, mod, true
}

// parseSGRParams extracts btn, x, y from "Btn;X;Y" format
func parseSGRParams(data string) (btn, x, y int, ok bool) {
	state := 0 // 0=btn, 1=x, 2=y
	val := 0
	digits := 0

	for i := 0; i < len(data); i++ {
		b := data[i]
		if b == ';' {
			if digits == 0 {
				return 0, 0, 0, false
			}
			switch state {
			case 0:
				btn = val
			case 1:
				x = val
			}
			state++
			val = 0
			digits = 0
			if state > 2 {
				return 0, 0, 0, false
			}
		} else if isDigit(b) {
			val = val*10 + int(b-'0')
			digits++
			if val > 9999 { // Sanity limit
				return 0, 0, 0, false
			}
		} else {
			return 0, 0, 0, false
		}
	}

	if state != 2 || digits == 0 {
		return 0, 0, 0, false
	}
	y = val
	return btn, x, y, true
}

// atoi parses a non-empty run of ASCII digits without allocation
func atoi(s string) (int, bool) {
	if len(s) == 0 || len(s) > 6 {
		return 0, false
	}
	n := 0
	for i := 0; i < len(s); i++ {
		if !isDigit(s[i]) {
			return 0, false
		}
		n = n*10 + int(s[i]-'0')
	}
	return n, true
}
