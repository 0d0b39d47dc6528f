package correlator

import (
	"unicode/utf8"

	"github.com/lixenwraith/termsense/terminal"
)

// feedLiteral decodes one non-ESC unit at the start of data and returns the
// bytes consumed, 0 when a UTF-8 sequence is cut off by the chunk end
func (c *Correlator) feedLiteral(data []byte) int {
	b := data[0]

	// Fast path: printable ASCII
	if b >= 0x20 && b < 0x7f {
		ev := terminal.RuneEvent(rune(b), terminal.ModNone)
		ev.Raw = string(b)
		c.emit(ev)
		return 1
	}

	// Control characters and DEL
	if b < 0x80 {
		c.emit(terminal.ControlKey(b))
		return 1
	}

	seqLen := utf8SeqLen(b)
	if seqLen == 0 {
		// Invalid start byte, skip
		c.discard(string(b))
		return 1
	}
	if len(data) < seqLen {
		return 0
	}

	r, size := utf8.DecodeRune(data[:seqLen])
	if r == utf8.RuneError && size <= 1 {
		c.discard(string(data[:1]))
		return 1
	}
	ev := terminal.RuneEvent(r, terminal.ModNone)
	ev.Raw = string(data[:size])
	c.emit(ev)
	return size
}

// utf8SeqLen returns expected UTF-8 sequence length from start byte, 0 if invalid
func utf8SeqLen(b byte) int {
	if b < 0x80 {
		return 1
	}
	if b&0xe0 == 0xc0 {
		return 2
	}
	if b&0xf0 == 0xe0 {
		return 3
	}
	if b&0xf8 == 0xf0 {
		return 4
	}
	return 0 // Invalid
}
