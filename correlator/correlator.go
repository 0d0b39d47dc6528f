// @focus: #sys { input, query }
package correlator

import (
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/lixenwraith/termsense/keypattern"
	"github.com/lixenwraith/termsense/request"
	"github.com/lixenwraith/termsense/resolver"
	"github.com/lixenwraith/termsense/terminal"
	"github.com/lixenwraith/termsense/timeout"
)

// DefaultBaseDelay scales the logarithmic wait of the default resolver
const DefaultBaseDelay = 10 * time.Millisecond

// Outcome is the result of classifying one input unit
type Outcome uint8

const (
	OutcomeDiscarded Outcome = iota // Unrecognized, dropped
	OutcomeCompleted                // Completed the head request
	OutcomeEvent                    // Emitted a key or mouse event
	OutcomePending                  // Prefix of a longer grammar, left to the resolver
	OutcomeLate                     // Reply to a dropped request, swallowed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeCompleted:
		return "completed"
	case OutcomeEvent:
		return "event"
	case OutcomePending:
		return "pending"
	case OutcomeLate:
		return "late"
	}
	return "discarded"
}

// Stats counts classification results since creation
type Stats struct {
	Events    uint64 // Key and mouse events emitted, literal bytes included
	Replies   uint64 // Requests completed with a well-formed reply
	Malformed uint64 // Requests completed with a malformed reply
	Late      uint64 // Replies to dropped requests, swallowed
	Abandoned uint64 // Buffers given up by the resolver
	Discarded uint64 // Unrecognized sequences dropped
	Dropped   uint64 // Events lost to a full channel
}

// Correlator classifies terminal input against outstanding requests and key grammars
type Correlator struct {
	mu       sync.Mutex
	registry *request.Registry
	lib      keypattern.Library
	res      *resolver.Resolver
	logger   *slog.Logger

	malformedToOldest bool
	eventBuffer       int

	events chan terminal.Event
	closed bool

	carry    []byte   // Incomplete UTF-8 tail of the previous chunk
	deferred []func() // Deliveries collected under mu, run after unlock
	stats    Stats
}

// New creates a correlator over registry
func New(registry *request.Registry, opts ...Option) *Correlator {
	c := &Correlator{
		registry:    registry,
		lib:         keypattern.Default,
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		eventBuffer: DefaultEventBuffer,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.res == nil {
		c.res = resolver.New(timeout.NewLogarithmic(DefaultBaseDelay))
	}
	c.events = make(chan terminal.Event, c.eventBuffer)
	return c
}

// Registry returns the request registry the correlator completes against
func (c *Correlator) Registry() *request.Registry {
	return c.registry
}

// Submit enqueues req; the caller writes its payload
func (c *Correlator) Submit(req *request.Request) error {
	if err := c.registry.Enqueue(req); err != nil {
		return fmt.Errorf("submit: %w", err)
	}
	return nil
}

// Events returns the decoded event stream, closed by Shutdown
func (c *Correlator) Events() <-chan terminal.Event {
	return c.events
}

// Post injects a synthetic event such as a resize into the stream
func (c *Correlator) Post(ev terminal.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.emit(ev)
}

// OnInputUnit classifies one complete input unit without touching the resolver
// Exactly one of completion, event emission, pending or discard happens
func (c *Correlator) OnInputUnit(text string) Outcome {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return OutcomeDiscarded
	}
	out := c.classify(text)
	if out == OutcomeDiscarded {
		c.discard(text)
	}
	deferred := c.takeDeferred()
	c.mu.Unlock()

	runAll(deferred)
	return out
}

// Stats returns a snapshot of the counters
func (c *Correlator) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}

// Shutdown cancels the resolver without emitting the pending buffer, closes
// the event stream and abandons every outstanding request
func (c *Correlator) Shutdown() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.res.Cancel()
	c.carry = nil
	close(c.events)
	c.mu.Unlock()

	c.registry.Clear()
	c.logger.Debug("correlator shut down")
}

// classify runs the ordered classification of text; caller holds mu
func (c *Correlator) classify(text string) Outcome {
	// Replies are checked literally against the head terminator, ahead of key
	// grammars: ESC[1;5R is both a cursor report and Ctrl+F3
	if keypattern.IsReplyForm(text) && c.shape(text) == keypattern.ShapeComplete {
		if _, reply, deliver := c.registry.ResolveSuffix(text); deliver != nil {
			c.deferred = append(c.deferred, deliver)
			if reply.Err != nil {
				c.stats.Malformed++
			} else {
				c.stats.Replies++
			}
			return OutcomeCompleted
		}
		// A timed-out query still gets answered; its reply must not leak as keys
		if c.registry.ConsumeLate(text) {
			c.stats.Late++
			c.logger.Debug("late reply swallowed", "text", fmt.Sprintf("%q", text))
			return OutcomeLate
		}
	}

	if ev, ok := c.lib.Decode(text); ok {
		c.emit(ev)
		return OutcomeEvent
	}

	if c.shape(text) == keypattern.ShapePrefix || c.lib.LastResortCandidate(text) {
		return OutcomePending
	}
	return OutcomeDiscarded
}

// shape is keypattern.ShapeOf with OSC and DCS strings held only while a
// string reply is expected; otherwise ESC P is Alt+P and ESC ] is ESC then ']'
func (c *Correlator) shape(text string) keypattern.Shape {
	if keypattern.IsStringForm(text) && !c.expectingString() {
		return keypattern.ShapeDeadEnd
	}
	return keypattern.ShapeOf(text)
}

// expectingString reports whether the head or a dropped request awaits an
// ST or BEL terminated reply
func (c *Correlator) expectingString() bool {
	return c.registry.Awaiting(terminal.ST) || c.registry.Awaiting(string(rune(terminal.BEL)))
}

// abandon reinterprets a buffer the resolver gave up on; caller holds mu
func (c *Correlator) abandon(text string) {
	c.stats.Abandoned++

	if text == "\x1b" {
		ev := terminal.KeyEvent(terminal.KeyEscape, terminal.ModNone)
		ev.Raw = text
		c.emit(ev)
		return
	}

	if ev, ok := c.lib.DecodeLastResort(text); ok {
		c.emit(ev)
		return
	}

	if c.malformedToOldest && keypattern.IsReplyForm(text) {
		if head, deliver := c.registry.ResolveHead(request.Malformed(text)); deliver != nil {
			c.logger.Debug("malformed reply to oldest request", "id", head.ID, "text", fmt.Sprintf("%q", text))
			c.deferred = append(c.deferred, deliver)
			c.stats.Malformed++
			return
		}
	}

	c.discard(text)
}

func (c *Correlator) discard(text string) {
	c.stats.Discarded++
	c.logger.Debug("unrecognized sequence", "text", fmt.Sprintf("%q", text))
}

// emit sends without blocking the reader; caller holds mu
func (c *Correlator) emit(ev terminal.Event) {
	select {
	case c.events <- ev:
		c.stats.Events++
	default:
		c.stats.Dropped++
		c.logger.Warn("event channel full, dropping event", "event", ev.String())
	}
}

func (c *Correlator) takeDeferred() []func() {
	d := c.deferred
	c.deferred = nil
	return d
}

func runAll(fns []func()) {
	for _, fn := range fns {
		fn()
	}
}
