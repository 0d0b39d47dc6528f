package request

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Registry is the FIFO of unanswered requests
// Correlation is strictly head-only: a reply is only ever matched against the
// oldest outstanding request, so equal terminators complete in send order
// Thread-Safety: the mutex is held only across queue mutation; callbacks run
// after it is released
type Registry struct {
	mu      sync.Mutex
	pending []*Request
	late    []lateReply // Oldest first, bounded by maxLate

	lateWindow time.Duration

	now    func() time.Time
	logger *slog.Logger
}

// DefaultLateWindow is how long the reply of a dropped request is still expected
const DefaultLateWindow = time.Second

// maxLate bounds the late-reply list; the oldest entry is forgotten first
const maxLate = 16

// lateReply remembers the terminator of a request dropped unanswered, so the
// terminal's eventual reply is swallowed instead of decoded as keys
type lateReply struct {
	terminator string
	at         time.Time
}

// RegistryOption configures a Registry
type RegistryOption func(*Registry)

// WithClock overrides the time source used to stamp Sent
func WithClock(now func() time.Time) RegistryOption {
	return func(r *Registry) {
		r.now = now
	}
}

// WithLogger sets the registry logger
func WithLogger(l *slog.Logger) RegistryOption {
	return func(r *Registry) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithLateWindow sets how long replies to dropped requests are swallowed
// Zero disables late-reply tracking
func WithLateWindow(d time.Duration) RegistryOption {
	return func(r *Registry) {
		if d >= 0 {
			r.lateWindow = d
		}
	}
}

// NewRegistry creates an empty registry
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		now:        time.Now,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		lateWindow: DefaultLateWindow,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Enqueue appends req in send order
func (r *Registry) Enqueue(req *Request) error {
	if req.Terminator == "" {
		return ErrEmptyTerminator
	}
	select {
	case <-req.doneCh():
		return fmt.Errorf("%w: %s", ErrSettled, req.ID)
	default:
	}

	r.mu.Lock()
	if req.queued {
		r.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrAlreadyQueued, req.ID)
	}
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	req.Sent = r.now()
	req.queued = true
	r.pending = append(r.pending, req)
	n := len(r.pending)
	r.mu.Unlock()

	r.logger.Debug("request enqueued", "id", req.ID, "terminator", req.Terminator, "pending", n)
	return nil
}

// Head returns the oldest outstanding request, nil when empty
func (r *Registry) Head() *Request {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.pending) == 0 {
		return nil
	}
	return r.pending[0]
}

// Len returns the outstanding request count
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.pending)
}

// TryMatch returns the head request if its terminator equals candidate
// Only the head is consulted; a younger request with the same terminator is
// never returned
func (r *Registry) TryMatch(candidate string) *Request {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.pending) == 0 || r.pending[0].Terminator != candidate {
		return nil
	}
	return r.pending[0]
}

// MatchSuffix returns the head request if text ends with its terminator
func (r *Registry) MatchSuffix(text string) *Request {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.pending) == 0 || !strings.HasSuffix(text, r.pending[0].Terminator) {
		return nil
	}
	return r.pending[0]
}

// Complete removes req, which must be the head, and delivers reply
// Panics if req is not the head: completing out of order breaks correlation
func (r *Registry) Complete(req *Request, reply Reply) {
	r.Resolve(req, reply)()
}

// Resolve removes req, which must be the head, and returns the delivery of
// reply to its callback and future; callers holding their own locks run it
// after releasing them
func (r *Registry) Resolve(req *Request, reply Reply) (deliver func()) {
	r.mu.Lock()
	if len(r.pending) == 0 || r.pending[0] != req {
		r.mu.Unlock()
		panic(fmt.Sprintf("request: complete of non-head request %s", req.ID))
	}
	r.pending[0] = nil
	r.pending = r.pending[1:]
	req.queued = false
	r.mu.Unlock()

	r.logger.Debug("request completed", "id", req.ID, "reply", fmt.Sprintf("%q", reply.Text), "err", reply.Err)
	return func() {
		req.complete(reply)
	}
}

// ResolveSuffix removes the head request if text ends with its terminator,
// parsing text as its reply; match and removal happen under one lock so a
// concurrent Abandon or EvictStale cannot detach the head in between
// Returns nil deliver when the head does not match
func (r *Registry) ResolveSuffix(text string) (req *Request, reply Reply, deliver func()) {
	r.mu.Lock()
	if len(r.pending) == 0 || !strings.HasSuffix(text, r.pending[0].Terminator) {
		r.mu.Unlock()
		return nil, Reply{}, nil
	}
	req = r.pending[0]
	r.pending[0] = nil
	r.pending = r.pending[1:]
	req.queued = false
	r.mu.Unlock()

	reply = ParseReply(text, req)
	r.logger.Debug("request completed", "id", req.ID, "reply", fmt.Sprintf("%q", text), "err", reply.Err)
	return req, reply, func() {
		req.complete(reply)
	}
}

// ResolveHead removes the oldest request with reply regardless of terminator
// Returns nil deliver when the registry is empty
func (r *Registry) ResolveHead(reply Reply) (req *Request, deliver func()) {
	r.mu.Lock()
	if len(r.pending) == 0 {
		r.mu.Unlock()
		return nil, nil
	}
	req = r.pending[0]
	r.pending[0] = nil
	r.pending = r.pending[1:]
	req.queued = false
	r.mu.Unlock()

	r.logger.Debug("request resolved at head", "id", req.ID, "reply", fmt.Sprintf("%q", reply.Text), "err", reply.Err)
	return req, func() {
		req.complete(reply)
	}
}

// Abandon removes req from any queue position without completing it
// Returns false when req is not queued
func (r *Registry) Abandon(req *Request) bool {
	r.mu.Lock()
	idx := -1
	for i, p := range r.pending {
		if p == req {
			idx = i
			break
		}
	}
	if idx < 0 {
		r.mu.Unlock()
		return false
	}
	r.pending = append(r.pending[:idx], r.pending[idx+1:]...)
	req.queued = false
	r.expectLateLocked(req)
	r.mu.Unlock()

	r.logger.Debug("request abandoned", "id", req.ID)
	req.abandon()
	return true
}

// EvictStale abandons head requests sent more than maxAge before now
// A stuck head blocks every younger request, so eviction walks from the head
// and stops at the first fresh request
func (r *Registry) EvictStale(now time.Time, maxAge time.Duration) int {
	r.mu.Lock()
	n := 0
	for n < len(r.pending) && now.Sub(r.pending[n].Sent) > maxAge {
		r.pending[n].queued = false
		r.expectLateLocked(r.pending[n])
		n++
	}
	stale := make([]*Request, n)
	copy(stale, r.pending[:n])
	r.pending = r.pending[n:]
	r.mu.Unlock()

	for _, req := range stale {
		r.logger.Debug("request evicted", "id", req.ID, "age", now.Sub(req.Sent))
		req.abandon()
	}
	return n
}

// Clear drops every outstanding request, oldest first
// Dropped requests are abandoned: OnAbandon runs for each of them and Wait
// returns ErrAbandoned; OnComplete is never called. A request re-submitted
// from OnAbandon is queued normally, so a shutdown path that must end empty
// should not re-submit
func (r *Registry) Clear() {
	r.mu.Lock()
	dropped := r.pending
	r.pending = nil
	for _, req := range dropped {
		req.queued = false
		r.expectLateLocked(req)
	}
	r.mu.Unlock()

	if len(dropped) > 0 {
		r.logger.Debug("registry cleared", "abandoned", len(dropped))
	}
	for _, req := range dropped {
		req.abandon()
	}
}

// ConsumeLate reports whether text is the reply to a recently dropped request
// and forgets that request; the oldest matching entry is consumed first
func (r *Registry) ConsumeLate(text string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.pruneLateLocked()
	for i, l := range r.late {
		if strings.HasSuffix(text, l.terminator) {
			r.late = append(r.late[:i], r.late[i+1:]...)
			return true
		}
	}
	return false
}

// Awaiting reports whether a reply ending in terminator is expected, either
// for the head request or as the late reply of a dropped one
func (r *Registry) Awaiting(terminator string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.pending) > 0 && r.pending[0].Terminator == terminator {
		return true
	}
	r.pruneLateLocked()
	for _, l := range r.late {
		if l.terminator == terminator {
			return true
		}
	}
	return false
}

// LateLen returns the number of dropped requests whose reply is still expected
func (r *Registry) LateLen() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pruneLateLocked()
	return len(r.late)
}

// expectLateLocked records the terminator of a dropped request; caller holds mu
func (r *Registry) expectLateLocked(req *Request) {
	if r.lateWindow <= 0 {
		return
	}
	if len(r.late) == maxLate {
		r.late[0] = lateReply{}
		r.late = r.late[1:]
	}
	r.late = append(r.late, lateReply{terminator: req.Terminator, at: r.now()})
}

// pruneLateLocked forgets entries older than the late window; caller holds mu
func (r *Registry) pruneLateLocked() {
	now := r.now()
	n := 0
	for n < len(r.late) && now.Sub(r.late[n].at) > r.lateWindow {
		r.late[n] = lateReply{}
		n++
	}
	r.late = r.late[n:]
}
