package terminal

import "errors"

// ErrNotTerminal is returned by Init when the input file is not a terminal
var ErrNotTerminal = errors.New("input is not a terminal")

// Backend abstracts platform-specific terminal operations.
// It is the byte transport beneath the input layer: it delivers raw terminal
// output as it arrives (no framing beyond byte order) and accepts request
// payloads to send.
type Backend interface {
	// Lifecycle
	Init() error
	Fini()

	// Capabilities
	Size() (width, height int)

	// I/O
	// Write writes raw bytes to the terminal output.
	Write(p []byte) error

	// Read blocks until input is available, the stop channel is closed, or an error occurs.
	// A nil slice with nil error means the stop channel closed or input reached EOF.
	Read(stopCh <-chan struct{}) ([]byte, error)

	// Callbacks
	// SetResizeHandler registers a callback for terminal resize events.
	SetResizeHandler(handler func(width, height int))
}
