package service

import (
	"bufio"
	"fmt"
	"os"
	"sync"

	"github.com/lixenwraith/termsense/trace"
)

// TraceService records terminal traffic to a CBOR trace file
// It is a Recorder; frames offered before Init or after Stop are dropped
type TraceService struct {
	path          string
	width, height int

	mu     sync.Mutex
	file   *os.File
	buf    *bufio.Writer
	writer *trace.Writer
}

// NewTraceService creates a recorder writing to path
func NewTraceService(path string) *TraceService {
	return &TraceService{path: path}
}

// Name implements Service
func (s *TraceService) Name() string {
	return "trace"
}

// Dependencies implements Service
func (s *TraceService) Dependencies() []string {
	return nil
}

// Init implements Service - creates the file and writes the header
// args: a [2]int terminal size is recorded in the header when present
func (s *TraceService) Init(args ...any) error {
	for _, arg := range args {
		if size, ok := arg.([2]int); ok {
			s.width, s.height = size[0], size[1]
		}
	}

	f, err := os.Create(s.path)
	if err != nil {
		return fmt.Errorf("trace init: %w", err)
	}
	buf := bufio.NewWriter(f)
	w, err := trace.NewWriter(buf, s.width, s.height, nil)
	if err != nil {
		f.Close()
		return fmt.Errorf("trace init: %w", err)
	}

	s.mu.Lock()
	s.file, s.buf, s.writer = f, buf, w
	s.mu.Unlock()
	return nil
}

// Start implements Service
func (s *TraceService) Start() error {
	return nil
}

// Stop implements Service - flushes and closes the file
func (s *TraceService) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.file == nil {
		return nil
	}
	flushErr := s.buf.Flush()
	closeErr := s.file.Close()
	s.file, s.buf, s.writer = nil, nil, nil
	if flushErr != nil {
		return fmt.Errorf("trace flush: %w", flushErr)
	}
	return closeErr
}

// Input implements Recorder
func (s *TraceService) Input(data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.writer == nil {
		return nil
	}
	return s.writer.Input(data)
}

// Output implements Recorder
func (s *TraceService) Output(payload []byte, terminator, expected string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.writer == nil {
		return nil
	}
	return s.writer.Output(payload, terminator, expected)
}
