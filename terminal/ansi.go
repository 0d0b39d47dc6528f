// @focus: #terminal { ansi }
package terminal

// Grammar constants shared with the decoders; these must match real terminals literally
const (
	ESC = 0x1b // Lead-in of every multi-byte sequence
	BEL = 0x07 // OSC terminator (xterm)

	CSI = "\x1b[" // Control Sequence Introducer
	SS3 = "\x1bO" // Single Shift 3
	OSC = "\x1b]" // Operating System Command
	DCS = "\x1bP" // Device Control String
	ST  = "\x1b\\" // String Terminator for OSC/DCS
)

// Pre-allocated mode sequences written by the backend lifecycle and mouse mode changes
var (
	seqCursorShow = []byte("\x1b[?25h")
	seqSGR0       = []byte("\x1b[0m")
	seqRIS        = []byte("\x1bc") // Reset to Initial State (emergency)

	// Mouse reporting (DECSET 1000/1002/1003) and SGR extended coordinates (1006)
	seqMouseClickOn   = []byte("\x1b[?1000h")
	seqMouseClickOff  = []byte("\x1b[?1000l")
	seqMouseDragOn    = []byte("\x1b[?1002h")
	seqMouseDragOff   = []byte("\x1b[?1002l")
	seqMouseMotionOn  = []byte("\x1b[?1003h")
	seqMouseMotionOff = []byte("\x1b[?1003l")
	seqMouseSGROn     = []byte("\x1b[?1006h")
	seqMouseSGROff    = []byte("\x1b[?1006l")
)
