// @focus: #sys { input }
package resolver

import (
	"time"

	"github.com/lixenwraith/termsense/timeout"
)

// State of the ambiguous buffer
type State uint8

const (
	StateEmpty State = iota
	StateAccumulating
	StateResolved
	StateAbandoned
)

func (s State) String() string {
	switch s {
	case StateAccumulating:
		return "accumulating"
	case StateResolved:
		return "resolved"
	case StateAbandoned:
		return "abandoned"
	}
	return "empty"
}

// DefaultMaxStage is the number of waits before a pending buffer is abandoned
const DefaultMaxStage = 4

// Resolver holds the bytes of one input unit that is not yet classified and
// paces re-evaluation with a timeout policy
// Thread-Safety: not safe for concurrent use; the owner serializes byte
// arrivals and timer firings through one lock. Each Arm bumps a generation so
// a timer that fires after the buffer moved on is recognized as stale
type Resolver struct {
	policy   timeout.Policy
	sched    Scheduler
	now      func() time.Time
	maxStage int

	buf     []byte
	started time.Time
	state   State
	timer   Timer
	gen     uint64
	waits   int // Arms since the buffer started; policies may stop advancing their own stage
}

// Option configures a Resolver
type Option func(*Resolver)

// WithScheduler replaces the wall-clock timer source
func WithScheduler(s Scheduler) Option {
	return func(r *Resolver) {
		r.sched = s
	}
}

// WithMaxStage sets the stage bound; values below 1 are ignored
func WithMaxStage(n int) Option {
	return func(r *Resolver) {
		if n > 0 {
			r.maxStage = n
		}
	}
}

// WithClock overrides the time source for the first-byte timestamp
func WithClock(now func() time.Time) Option {
	return func(r *Resolver) {
		r.now = now
	}
}

// New creates an empty resolver driven by policy
func New(policy timeout.Policy, opts ...Option) *Resolver {
	r := &Resolver{
		policy:   policy,
		sched:    wallScheduler{},
		now:      time.Now,
		maxStage: DefaultMaxStage,
		buf:      make([]byte, 0, 64),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Append adds b to the buffer, starting a fresh one when none is accumulating
func (r *Resolver) Append(b byte) {
	if r.state != StateAccumulating {
		r.buf = r.buf[:0]
		r.started = r.now()
		r.state = StateAccumulating
		r.waits = 0
		r.policy.Reset()
	}
	r.buf = append(r.buf, b)
}

// Arm schedules fire after the current stage's span, then advances the stage
// A previously armed timer is stopped; fire receives the generation it was
// armed with so the owner can compare it against Generation
func (r *Resolver) Arm(fire func(gen uint64)) {
	r.stopTimer()
	r.gen++
	gen := r.gen
	r.timer = r.sched.AfterFunc(r.policy.Span(), func() {
		fire(gen)
	})
	r.policy.Advance()
	r.waits++
}

// Current reports whether gen belongs to the pending timer of an accumulating buffer
func (r *Resolver) Current(gen uint64) bool {
	return r.state == StateAccumulating && gen == r.gen
}

// Exceeded reports whether the stage bound has been reached
func (r *Resolver) Exceeded() bool {
	return r.waits >= r.maxStage
}

// Take ends the buffer with the final state (StateResolved or StateAbandoned)
// and returns its bytes; the returned slice is only valid until the next Append
func (r *Resolver) Take(final State) []byte {
	r.stopTimer()
	r.gen++
	out := r.buf
	r.buf = r.buf[:0]
	r.state = final
	r.waits = 0
	r.policy.Reset()
	return out
}

// Cancel drops the buffer and any pending timer without an outcome
func (r *Resolver) Cancel() {
	r.stopTimer()
	r.gen++
	r.buf = r.buf[:0]
	r.state = StateEmpty
	r.waits = 0
	r.policy.Reset()
}

func (r *Resolver) stopTimer() {
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
}

// Bytes returns the accumulated bytes without ending the buffer
func (r *Resolver) Bytes() []byte {
	return r.buf
}

// Pending reports whether a buffer is accumulating
func (r *Resolver) Pending() bool {
	return r.state == StateAccumulating
}

// State returns the buffer state
func (r *Resolver) State() State {
	return r.state
}

// Stage returns the number of waits armed for the current buffer
func (r *Resolver) Stage() int {
	return r.waits
}

// NextSpan returns the delay the next Arm will use
func (r *Resolver) NextSpan() time.Duration {
	return r.policy.Span()
}

// Age returns the time since the buffer's first byte, zero when empty
func (r *Resolver) Age() time.Duration {
	if r.state != StateAccumulating {
		return 0
	}
	return r.now().Sub(r.started)
}

// Generation returns the current timer generation
func (r *Resolver) Generation() uint64 {
	return r.gen
}
