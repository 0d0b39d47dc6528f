// Package trace records raw terminal traffic as a CBOR sequence (RFC 8742)
// and replays it through a correlator, so input that once misbehaved on a
// real terminal can be reproduced with its original timing.
//
// A trace is one Header item followed by any number of Frame items.
package trace

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/fxamacker/cbor/v2"
)

// Magic identifies trace files
const Magic = "termsense-trace"

// Version of the frame layout
const Version = 1

// Direction of a recorded frame
type Direction uint8

const (
	DirInput  Direction = iota // Bytes read from the terminal
	DirOutput                  // Query payload written to the terminal
)

func (d Direction) String() string {
	if d == DirOutput {
		return "out"
	}
	return "in"
}

// Header opens every trace
type Header struct {
	Magic   string `cbor:"1,keyasint"`
	Version int    `cbor:"2,keyasint"`
	Started int64  `cbor:"3,keyasint"` // Unix nanoseconds
	Width   int    `cbor:"4,keyasint,omitempty"`
	Height  int    `cbor:"5,keyasint,omitempty"`
}

// Frame is one recorded chunk
type Frame struct {
	Offset     time.Duration `cbor:"1,keyasint"` // Since Header.Started
	Dir        Direction     `cbor:"2,keyasint"`
	Data       []byte        `cbor:"3,keyasint"`
	Terminator string        `cbor:"4,keyasint,omitempty"` // DirOutput only
	Expected   string        `cbor:"5,keyasint,omitempty"` // DirOutput only
}

// ErrBadHeader is returned for streams that are not traces
var ErrBadHeader = errors.New("trace: bad header")

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error
	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("trace: CBOR encoder initialization failed: " + err.Error())
	}
	decMode, err = cbor.DecOptions{}.DecMode()
	if err != nil {
		panic("trace: CBOR decoder initialization failed: " + err.Error())
	}
}

// Writer appends frames to a trace
// Thread-Safety: safe for concurrent use; the reader goroutine records input
// while application goroutines record queries
type Writer struct {
	mu      sync.Mutex
	enc     *cbor.Encoder
	started time.Time
	now     func() time.Time
	err     error
}

// NewWriter writes the header and returns a writer stamping frames with now
func NewWriter(w io.Writer, width, height int, now func() time.Time) (*Writer, error) {
	if now == nil {
		now = time.Now
	}
	tw := &Writer{
		enc:     encMode.NewEncoder(w),
		started: now(),
		now:     now,
	}
	hdr := Header{
		Magic:   Magic,
		Version: Version,
		Started: tw.started.UnixNano(),
		Width:   width,
		Height:  height,
	}
	if err := tw.enc.Encode(hdr); err != nil {
		return nil, fmt.Errorf("trace header: %w", err)
	}
	return tw, nil
}

// Input records bytes read from the terminal
func (w *Writer) Input(data []byte) error {
	return w.write(Frame{Dir: DirInput, Data: data})
}

// Output records a query payload with its correlation terminator
func (w *Writer) Output(payload []byte, terminator, expected string) error {
	return w.write(Frame{Dir: DirOutput, Data: payload, Terminator: terminator, Expected: expected})
}

func (w *Writer) write(f Frame) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return w.err
	}
	f.Offset = w.now().Sub(w.started)
	if err := w.enc.Encode(f); err != nil {
		w.err = fmt.Errorf("trace frame: %w", err)
		return w.err
	}
	return nil
}

// Reader iterates a trace
type Reader struct {
	dec    *cbor.Decoder
	header Header
}

// NewReader reads and validates the header
func NewReader(r io.Reader) (*Reader, error) {
	tr := &Reader{dec: decMode.NewDecoder(r)}
	if err := tr.dec.Decode(&tr.header); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadHeader, err)
	}
	if tr.header.Magic != Magic {
		return nil, fmt.Errorf("%w: magic %q", ErrBadHeader, tr.header.Magic)
	}
	if tr.header.Version != Version {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrBadHeader, tr.header.Version)
	}
	return tr, nil
}

// Header returns the trace header
func (r *Reader) Header() Header {
	return r.header
}

// Next returns the next frame, io.EOF at a clean end
func (r *Reader) Next() (Frame, error) {
	var f Frame
	if err := r.dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return Frame{}, io.EOF
		}
		return Frame{}, fmt.Errorf("trace frame: %w", err)
	}
	return f, nil
}
