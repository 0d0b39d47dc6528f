package request

import "errors"

var (
	// ErrEmptyTerminator rejects requests that could never be correlated
	ErrEmptyTerminator = errors.New("request: empty terminator")
	// ErrAlreadyQueued rejects a request enqueued twice
	ErrAlreadyQueued = errors.New("request: already queued")
	// ErrSettled rejects a request that was already completed or abandoned
	ErrSettled = errors.New("request: already settled")
	// ErrAbandoned is returned by Wait for requests that were dropped unanswered
	ErrAbandoned = errors.New("request: abandoned")

	// ErrMalformedReply marks a reply that lacks the ESC lead-in or never terminated
	ErrMalformedReply = errors.New("request: malformed reply")
	// ErrTerminatorMismatch marks a reply that does not end with the request terminator
	ErrTerminatorMismatch = errors.New("request: terminator mismatch")
	// ErrValueMismatch marks a reply whose first parameter differs from the expected value
	ErrValueMismatch = errors.New("request: value mismatch")
)
