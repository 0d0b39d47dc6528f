package request

import (
	"context"
	"errors"
	"testing"
	"time"
)

// fakeClock returns a settable time
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.t
}

func TestEnqueueValidation(t *testing.T) {
	r := NewRegistry()

	if err := r.Enqueue(New([]byte("x"), "")); !errors.Is(err, ErrEmptyTerminator) {
		t.Errorf("empty terminator: err = %v, want ErrEmptyTerminator", err)
	}

	req := New([]byte("\x1b[6n"), "R")
	if err := r.Enqueue(req); err != nil {
		t.Fatalf("Enqueue: %v", err)
	}
	if err := r.Enqueue(req); !errors.Is(err, ErrAlreadyQueued) {
		t.Errorf("double enqueue: err = %v, want ErrAlreadyQueued", err)
	}
	if r.Len() != 1 {
		t.Errorf("Len = %d, want 1", r.Len())
	}
}

func TestEnqueueAssignsIDAndSent(t *testing.T) {
	clock := &fakeClock{t: time.Unix(100, 0)}
	r := NewRegistry(WithClock(clock.Now))

	req := &Request{Payload: []byte("\x1b[0c"), Terminator: "c"}
	if err := r.Enqueue(req); err != nil {
		t.Fatalf("Enqueue: %v", err)
	}
	if req.ID == "" {
		t.Error("ID not assigned")
	}
	if !req.Sent.Equal(clock.t) {
		t.Errorf("Sent = %v, want %v", req.Sent, clock.t)
	}
}

func TestFIFOCompletionSameTerminator(t *testing.T) {
	r := NewRegistry()

	var order []string
	a := New([]byte("\x1b[0c"), "c")
	a.OnComplete = func(rep Reply) { order = append(order, "a:"+rep.Text) }
	b := New([]byte("\x1b[>0c"), "c")
	b.OnComplete = func(rep Reply) { order = append(order, "b:"+rep.Text) }

	_ = r.Enqueue(a)
	_ = r.Enqueue(b)

	for _, text := range []string{"\x1b[?1;2c", "\x1b[>41;354;0c"} {
		head := r.MatchSuffix(text)
		if head == nil {
			t.Fatalf("MatchSuffix(%q) = nil", text)
		}
		r.Complete(head, ParseReply(text, head))
	}

	want := []string{"a:\x1b[?1;2c", "b:\x1b[>41;354;0c"}
	if len(order) != 2 || order[0] != want[0] || order[1] != want[1] {
		t.Errorf("completion order = %q, want %q", order, want)
	}
	if r.Len() != 0 {
		t.Errorf("Len = %d after completions", r.Len())
	}
}

func TestHeadOnlyMatching(t *testing.T) {
	r := NewRegistry()
	cpr := CursorPosition.New(nil, nil)
	da := DeviceAttributes.New(nil, nil)
	_ = r.Enqueue(cpr)
	_ = r.Enqueue(da)

	if got := r.TryMatch("c"); got != nil {
		t.Errorf("TryMatch(c) = %v, want nil while R is at head", got.ID)
	}
	if got := r.MatchSuffix("\x1b[?1;2c"); got != nil {
		t.Error("MatchSuffix matched a non-head request")
	}
	if got := r.TryMatch("R"); got != cpr {
		t.Error("TryMatch(R) did not return head")
	}
	if r.Len() != 2 {
		t.Errorf("Len = %d, matching must not remove", r.Len())
	}
}

func TestCompleteNonHeadPanics(t *testing.T) {
	r := NewRegistry()
	a := New([]byte("a"), "R")
	b := New([]byte("b"), "c")
	_ = r.Enqueue(a)
	_ = r.Enqueue(b)

	defer func() {
		if recover() == nil {
			t.Error("Complete of non-head did not panic")
		}
	}()
	r.Complete(b, Reply{})
}

func TestClearAbandonsWithoutCompletion(t *testing.T) {
	r := NewRegistry()

	completed, abandoned := 0, 0
	reqs := make([]*Request, 3)
	for i := range reqs {
		reqs[i] = New([]byte("\x1b[6n"), "R")
		reqs[i].OnComplete = func(Reply) { completed++ }
		reqs[i].OnAbandon = func() { abandoned++ }
		_ = r.Enqueue(reqs[i])
	}

	r.Clear()

	if completed != 0 {
		t.Errorf("completed = %d, want 0", completed)
	}
	if abandoned != 3 {
		t.Errorf("abandoned = %d, want 3", abandoned)
	}
	if r.Len() != 0 || r.Head() != nil {
		t.Error("registry not empty after Clear")
	}
	for i, req := range reqs {
		if _, err := req.Wait(context.Background()); !errors.Is(err, ErrAbandoned) {
			t.Errorf("request %d Wait err = %v, want ErrAbandoned", i, err)
		}
	}
}

func TestAbandonAnyPosition(t *testing.T) {
	r := NewRegistry()
	a := New([]byte("a"), "R")
	b := New([]byte("b"), "c")
	c := New([]byte("c"), "t")
	_ = r.Enqueue(a)
	_ = r.Enqueue(b)
	_ = r.Enqueue(c)

	called := false
	b.OnAbandon = func() { called = true }

	if !r.Abandon(b) {
		t.Fatal("Abandon(b) = false")
	}
	if !called {
		t.Error("OnAbandon not called")
	}
	if r.Abandon(b) {
		t.Error("second Abandon(b) = true")
	}
	if r.Len() != 2 || r.Head() != a {
		t.Errorf("unexpected queue after abandon: len=%d", r.Len())
	}

	r.Complete(a, Reply{Text: "\x1b[1;1R"})
	if r.Head() != c {
		t.Error("c not promoted to head")
	}
}

func TestEvictStale(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	r := NewRegistry(WithClock(clock.Now))

	old1 := New([]byte("1"), "R")
	old2 := New([]byte("2"), "c")
	_ = r.Enqueue(old1)
	_ = r.Enqueue(old2)
	clock.t = clock.t.Add(900 * time.Millisecond)
	fresh := New([]byte("3"), "t")
	_ = r.Enqueue(fresh)

	now := clock.t.Add(200 * time.Millisecond)
	if n := r.EvictStale(now, time.Second); n != 2 {
		t.Errorf("EvictStale = %d, want 2", n)
	}
	if r.Head() != fresh {
		t.Error("fresh request should remain at head")
	}
	select {
	case <-old1.Done():
	default:
		t.Error("evicted request not settled")
	}
	if n := r.EvictStale(now, time.Second); n != 0 {
		t.Errorf("second EvictStale = %d, want 0", n)
	}
}

func TestWait(t *testing.T) {
	r := NewRegistry()
	req := TerminalSizeChars.New(nil, nil)
	_ = r.Enqueue(req)

	go func() {
		r.Complete(req, ParseReply("\x1b[8;24;80t", req))
	}()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	rep, err := req.Wait(ctx)
	if err != nil {
		t.Fatalf("Wait: %v", err)
	}
	ints, err := rep.Ints()
	if err != nil || len(ints) != 3 || ints[1] != 24 || ints[2] != 80 {
		t.Errorf("Ints = %v, %v", ints, err)
	}
}

func TestWaitContextCancel(t *testing.T) {
	req := CursorPosition.New(nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := req.Wait(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Wait err = %v, want context.Canceled", err)
	}
}

func TestSettlesOnce(t *testing.T) {
	completions, abandons := 0, 0
	req := New([]byte("x"), "R")
	req.OnComplete = func(Reply) { completions++ }
	req.OnAbandon = func() { abandons++ }

	if !req.complete(Reply{Text: "\x1b[1;1R"}) {
		t.Fatal("first complete failed")
	}
	if req.complete(Reply{}) || req.abandon() {
		t.Error("request settled twice")
	}
	if completions != 1 || abandons != 0 {
		t.Errorf("completions=%d abandons=%d", completions, abandons)
	}
}

func TestResolveDefersDelivery(t *testing.T) {
	r := NewRegistry()
	called := false
	req := New([]byte("\x1b[6n"), "R")
	req.OnComplete = func(Reply) { called = true }
	_ = r.Enqueue(req)

	deliver := r.Resolve(req, Reply{Text: "\x1b[1;1R"})
	if called {
		t.Fatal("callback ran before deliver")
	}
	if r.Len() != 0 {
		t.Error("request still queued after Resolve")
	}
	deliver()
	if !called {
		t.Error("deliver did not run callback")
	}
}

func TestResolveSuffix(t *testing.T) {
	r := NewRegistry()
	cpr := CursorPosition.New(nil, nil)
	_ = r.Enqueue(cpr)

	if req, _, deliver := r.ResolveSuffix("\x1b[?1;2c"); req != nil || deliver != nil {
		t.Fatal("ResolveSuffix matched a different terminator")
	}
	req, reply, deliver := r.ResolveSuffix("\x1b[5;9R")
	if req != cpr || deliver == nil {
		t.Fatal("ResolveSuffix did not take head")
	}
	if reply.Value != "5" || reply.Err != nil {
		t.Errorf("reply = %+v", reply)
	}
	deliver()
	got, err := cpr.Wait(context.Background())
	if err != nil || got.Text != "\x1b[5;9R" {
		t.Errorf("Wait = %+v, %v", got, err)
	}
}

func TestResolveHead(t *testing.T) {
	r := NewRegistry()
	if req, deliver := r.ResolveHead(Malformed("\x1b[1")); req != nil || deliver != nil {
		t.Fatal("ResolveHead on empty registry")
	}

	da := DeviceAttributes.New(nil, nil)
	_ = r.Enqueue(da)
	req, deliver := r.ResolveHead(Malformed("\x1b[?1;"))
	if req != da {
		t.Fatal("ResolveHead did not take oldest")
	}
	deliver()
	if _, err := da.Wait(context.Background()); !errors.Is(err, ErrMalformedReply) {
		t.Errorf("Wait err = %v, want ErrMalformedReply", err)
	}
}

func TestEnqueueRejectsSettled(t *testing.T) {
	r := NewRegistry()
	completions := 0
	req := CursorPosition.New(func(Reply) { completions++ }, nil)
	_ = r.Enqueue(req)
	r.Complete(req, Reply{Text: "\x1b[1;1R"})

	if err := r.Enqueue(req); !errors.Is(err, ErrSettled) {
		t.Fatalf("re-enqueue of completed request: err = %v, want ErrSettled", err)
	}
	if r.Len() != 0 {
		t.Errorf("settled request queued, Len = %d", r.Len())
	}

	dropped := CursorPosition.New(nil, nil)
	_ = r.Enqueue(dropped)
	r.Abandon(dropped)
	if err := r.Enqueue(dropped); !errors.Is(err, ErrSettled) {
		t.Errorf("re-enqueue of abandoned request: err = %v, want ErrSettled", err)
	}
	if completions != 1 {
		t.Errorf("completions = %d, want 1", completions)
	}
}

func TestLateReplies(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	r := NewRegistry(WithClock(clock.Now), WithLateWindow(time.Second))

	cpr := CursorPosition.New(nil, nil)
	da := DeviceAttributes.New(nil, nil)
	_ = r.Enqueue(cpr)
	_ = r.Enqueue(da)
	r.Abandon(cpr)

	if r.ConsumeLate("\x1b[?62c") {
		t.Error("reply of a live request consumed as late")
	}
	if !r.Awaiting("R") || !r.Awaiting("c") || r.Awaiting("t") {
		t.Error("Awaiting does not cover the head and the dropped request")
	}
	if !r.ConsumeLate("\x1b[1;5R") {
		t.Fatal("late cursor report not consumed")
	}
	if r.ConsumeLate("\x1b[1;5R") {
		t.Error("late entry consumed twice")
	}

	// Entries expire after the window
	r.Clear()
	if r.LateLen() != 1 {
		t.Fatalf("LateLen after Clear = %d, want 1", r.LateLen())
	}
	clock.t = clock.t.Add(1500 * time.Millisecond)
	if r.ConsumeLate("\x1b[?62c") || r.LateLen() != 0 {
		t.Error("expired late entry still consumed")
	}
}

func TestLateRepliesFromEviction(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	r := NewRegistry(WithClock(clock.Now))
	for i := 0; i < maxLate+4; i++ {
		_ = r.Enqueue(TerminalSizeChars.New(nil, nil))
	}
	clock.t = clock.t.Add(2 * time.Second)
	r.EvictStale(clock.t, time.Second)

	if n := r.LateLen(); n != maxLate {
		t.Errorf("LateLen = %d, want bound %d", n, maxLate)
	}
	if !r.ConsumeLate("\x1b[8;24;80t") {
		t.Error("late size report after eviction not consumed")
	}
}

func TestLateWindowDisabled(t *testing.T) {
	r := NewRegistry(WithLateWindow(0))
	req := CursorPosition.New(nil, nil)
	_ = r.Enqueue(req)
	r.Abandon(req)
	if r.ConsumeLate("\x1b[1;1R") {
		t.Error("late reply consumed with tracking disabled")
	}
}
