package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime/debug"
	"sync"
	"time"

	"github.com/lixenwraith/termsense/config"
	"github.com/lixenwraith/termsense/correlator"
	"github.com/lixenwraith/termsense/request"
	"github.com/lixenwraith/termsense/resolver"
	"github.com/lixenwraith/termsense/terminal"
	"github.com/lixenwraith/termsense/timeout"
)

// stopWait bounds how long Stop waits for a reader stuck in a blocking read
const stopWait = 100 * time.Millisecond

// TerminalService owns the raw terminal, the request registry and the
// correlator, and runs the single reader goroutine that feeds them
type TerminalService struct {
	backend  terminal.Backend
	recorder Recorder
	logger   *slog.Logger
	onPanic  func(any)
	now      func() time.Time

	cfg      config.Config
	registry *request.Registry
	corr     *correlator.Correlator
	sweep    *timeout.SmoothDecay

	mouseMu sync.Mutex
	mouse   terminal.MouseMode

	stopCh    chan struct{}
	doneCh    chan struct{}
	sweepDone chan struct{}
	mu        sync.Mutex
	inited    bool
	running   bool
	stopped   bool
}

// TerminalOption configures a TerminalService
type TerminalOption func(*TerminalService)

// WithLogger sets the logger passed down to the registry and correlator
func WithLogger(l *slog.Logger) TerminalOption {
	return func(s *TerminalService) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithRecorder records every raw chunk read and every query written
func WithRecorder(r Recorder) TerminalOption {
	return func(s *TerminalService) {
		s.recorder = r
	}
}

// WithPanicHandler replaces the crash path of the reader goroutine, which by
// default restores the terminal, prints the stack and exits
func WithPanicHandler(fn func(any)) TerminalOption {
	return func(s *TerminalService) {
		s.onPanic = fn
	}
}

// NewTerminalService creates a service over backend
func NewTerminalService(backend terminal.Backend, opts ...TerminalOption) *TerminalService {
	s := &TerminalService{
		backend:   backend,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		onPanic:   crash,
		now:       time.Now,
		cfg:       config.Default(),
		stopCh:    make(chan struct{}),
		doneCh:    make(chan struct{}),
		sweepDone: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// crash mirrors the reader crash path: restore the terminal before reporting
func crash(r any) {
	terminal.EmergencyReset(os.Stdout)
	os.Stdout.Sync()
	fmt.Fprintf(os.Stderr, "\r\n\x1b[31mINPUT READER CRASHED: %v\x1b[0m\r\n", r)
	fmt.Fprintf(os.Stderr, "Stack Trace:\r\n%s\r\n", debug.Stack())
	os.Stderr.Sync()
	os.Exit(1)
}

// Name implements Service
func (s *TerminalService) Name() string {
	return "terminal"
}

// Dependencies implements Service
// A recorder that is itself a service must be ready before input flows
func (s *TerminalService) Dependencies() []string {
	if svc, ok := s.recorder.(Service); ok {
		return []string{svc.Name()}
	}
	return nil
}

// Init implements Service
// args: a config.Config (optional, defaults to config.Default())
func (s *TerminalService) Init(args ...any) error {
	for _, arg := range args {
		if cfg, ok := arg.(config.Config); ok {
			s.cfg = cfg
		}
	}

	s.registry = request.NewRegistry(
		request.WithLogger(s.logger),
		request.WithLateWindow(s.cfg.Requests.StaleAfter.Duration),
	)
	res := resolver.New(s.cfg.Resolver.NewResolverPolicy(), resolver.WithMaxStage(s.cfg.Resolver.MaxStage))
	s.corr = correlator.New(s.registry,
		correlator.WithResolver(res),
		correlator.WithLogger(s.logger),
		correlator.WithEventBuffer(s.cfg.Events.Buffer),
		correlator.WithMalformedToOldest(s.cfg.Requests.MalformedToOldest),
	)
	s.sweep = s.cfg.Requests.NewSweepPolicy()

	if err := s.backend.Init(); err != nil {
		return fmt.Errorf("terminal init: %w", err)
	}
	s.backend.SetResizeHandler(func(w, h int) {
		s.corr.Post(terminal.Event{Type: terminal.EventResize, Width: w, Height: h})
	})

	s.mu.Lock()
	s.inited = true
	s.mu.Unlock()
	return nil
}

// Start implements Service - launches the reader and the stale sweeper
func (s *TerminalService) Start() error {
	s.mu.Lock()
	if s.running || s.stopped {
		s.mu.Unlock()
		return nil
	}
	if !s.inited {
		s.mu.Unlock()
		return fmt.Errorf("terminal start: not initialized")
	}
	s.running = true
	s.mu.Unlock()

	go s.readLoop()
	go s.sweepLoop()
	return nil
}

// Stop implements Service - stops the reader, abandons outstanding requests
// and restores the terminal
func (s *TerminalService) Stop() error {
	s.mu.Lock()
	if s.stopped || !s.inited {
		s.mu.Unlock()
		return nil
	}
	s.stopped = true
	running := s.running
	s.running = false
	s.mu.Unlock()

	close(s.stopCh)
	if running {
		// Wait with timeout - don't block forever if read is stuck
		select {
		case <-s.doneCh:
		case <-time.After(stopWait):
			s.logger.Warn("reader did not stop in time")
		}
		<-s.sweepDone
	}

	if err := s.SetMouseMode(terminal.MouseModeNone); err != nil {
		s.logger.Debug("mouse mode reset failed", "err", err)
	}
	s.corr.Shutdown()
	s.backend.Fini()
	return nil
}

// readLoop is the single reader: chunks reach the correlator in arrival order
func (s *TerminalService) readLoop() {
	defer close(s.doneCh)

	defer func() {
		if r := recover(); r != nil {
			s.onPanic(r)
		}
	}()

	for {
		data, err := s.backend.Read(s.stopCh)
		if err != nil {
			s.logger.Error("terminal read failed", "err", err)
			s.corr.Post(terminal.Event{Type: terminal.EventError, Err: err})
			return
		}

		if data == nil {
			select {
			case <-s.stopCh:
			default:
				s.logger.Info("terminal input closed")
				s.corr.Flush()
				s.corr.Post(terminal.Event{Type: terminal.EventClosed})
			}
			return
		}

		if s.recorder != nil {
			if err := s.recorder.Input(data); err != nil {
				s.logger.Warn("trace input failed", "err", err)
			}
		}
		s.corr.Feed(data)
	}
}

// sweepLoop abandons requests the terminal never answered
// The interval decays while requests are outstanding and resets once the
// registry drains
func (s *TerminalService) sweepLoop() {
	defer close(s.sweepDone)

	timer := time.NewTimer(s.sweep.Span())
	defer timer.Stop()

	for {
		select {
		case <-s.stopCh:
			return
		case <-timer.C:
		}

		if n := s.registry.EvictStale(s.now(), s.cfg.Requests.StaleAfter.Duration); n > 0 {
			s.logger.Info("abandoned unanswered requests", "count", n, "stale_after", s.cfg.Requests.StaleAfter.Duration)
		}
		if s.registry.Len() > 0 {
			s.sweep.Advance()
		} else {
			s.sweep.Reset()
		}
		timer.Reset(s.sweep.Span())
	}
}

// Submit enqueues req and writes its payload
// A failed write abandons the request before returning the error
func (s *TerminalService) Submit(req *request.Request) error {
	if err := s.corr.Submit(req); err != nil {
		return err
	}
	if s.recorder != nil {
		if err := s.recorder.Output(req.Payload, req.Terminator, req.ExpectedValue); err != nil {
			s.logger.Warn("trace output failed", "err", err)
		}
	}
	if err := s.backend.Write(req.Payload); err != nil {
		s.registry.Abandon(req)
		return fmt.Errorf("write request %s: %w", req.ID, err)
	}
	return nil
}

// Query sends q and blocks until its reply, abandonment or ctx end
// On ctx end the request is abandoned so it cannot swallow a later reply
func (s *TerminalService) Query(ctx context.Context, q request.Query) (request.Reply, error) {
	req := q.New(nil, nil)
	if err := s.Submit(req); err != nil {
		return request.Reply{}, err
	}
	reply, err := req.Wait(ctx)
	if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
		s.registry.Abandon(req)
	}
	return reply, err
}

// SetMouseMode switches terminal mouse reporting
func (s *TerminalService) SetMouseMode(mode terminal.MouseMode) error {
	s.mouseMu.Lock()
	defer s.mouseMu.Unlock()
	if mode == s.mouse {
		return nil
	}
	if err := s.backend.Write(terminal.MouseModeTransition(s.mouse, mode)); err != nil {
		return fmt.Errorf("set mouse mode: %w", err)
	}
	s.mouse = mode
	return nil
}

// Size returns the terminal size in cells
func (s *TerminalService) Size() (int, int) {
	return s.backend.Size()
}

// Events returns the decoded input stream, closed on Stop
func (s *TerminalService) Events() <-chan terminal.Event {
	return s.corr.Events()
}

// Correlator returns the correlator fed by the reader
func (s *TerminalService) Correlator() *correlator.Correlator {
	return s.corr
}

// Registry returns the outstanding request registry
func (s *TerminalService) Registry() *request.Registry {
	return s.registry
}
