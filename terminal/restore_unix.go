//go:build unix

package terminal

import (
	"io"
	"os"
)

// EmergencyReset attempts to restore terminal to sane state
// Call this from panic recovery if Fini() cannot be called normally
func EmergencyReset(w io.Writer) {
	// Disable mouse tracking
	w.Write(MouseModeTransition(MouseModeClick|MouseModeDrag|MouseModeMotion, MouseModeNone))

	w.Write(seqCursorShow)
	w.Write(seqSGR0)
	w.Write(seqRIS)

	// Flush if it's a file
	if f, ok := w.(*os.File); ok {
		f.Sync()
	}

	// Escape sequences alone don't restore termios
	resetTerminalMode()
}
