// @focus: #sys { query }
package request

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Request is one outstanding query written to the terminal
// Fields are set by the caller before Enqueue and must not change afterwards;
// only the reply is attached once the request is queued
type Request struct {
	ID            string      // Assigned at enqueue when empty
	Payload       []byte      // Bytes written to the terminal
	Terminator    string      // Suffix identifying the reply, never empty
	ExpectedValue string      // Optional first reply parameter, e.g. "8" for ESC[18t
	OnComplete    func(Reply) // Called once with the reply, outside registry locks
	OnAbandon     func()      // Called once when dropped unanswered
	Sent          time.Time   // Set at enqueue

	queued bool // Guarded by the owning registry's mutex

	initOnce   sync.Once
	settleOnce sync.Once
	done       chan struct{}
	reply      Reply
	abandoned  bool
}

// New creates a request with a fresh ID
func New(payload []byte, terminator string) *Request {
	return &Request{
		ID:         uuid.NewString(),
		Payload:    payload,
		Terminator: terminator,
	}
}

func (r *Request) doneCh() chan struct{} {
	r.initOnce.Do(func() {
		r.done = make(chan struct{})
	})
	return r.done
}

// Done is closed when the request is completed or abandoned
func (r *Request) Done() <-chan struct{} {
	return r.doneCh()
}

// Wait blocks until the request settles or ctx ends
// Returns ErrAbandoned for dropped requests; a completed request with a
// malformed reply returns the reply together with its Err
func (r *Request) Wait(ctx context.Context) (Reply, error) {
	select {
	case <-r.doneCh():
	case <-ctx.Done():
		return Reply{}, ctx.Err()
	}
	if r.abandoned {
		return Reply{}, ErrAbandoned
	}
	return r.reply, r.reply.Err
}

// complete settles the request with reply; false if already settled
func (r *Request) complete(reply Reply) bool {
	settled := false
	r.settleOnce.Do(func() {
		r.reply = reply
		close(r.doneCh())
		settled = true
	})
	if settled && r.OnComplete != nil {
		r.OnComplete(reply)
	}
	return settled
}

// abandon settles the request without a reply; false if already settled
func (r *Request) abandon() bool {
	settled := false
	r.settleOnce.Do(func() {
		r.abandoned = true
		close(r.doneCh())
		settled = true
	})
	if settled && r.OnAbandon != nil {
		r.OnAbandon()
	}
	return settled
}
