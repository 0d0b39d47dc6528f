package trace

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/lixenwraith/termsense/correlator"
	"github.com/lixenwraith/termsense/request"
)

// ReplayOptions controls replay pacing
type ReplayOptions struct {
	// Speed scales recorded gaps; 1 is real time, 0 replays without delay
	Speed float64
	// OnRequest observes each re-submitted query, e.g. to attach callbacks
	OnRequest func(*request.Request)
}

// Replay feeds input frames into c and re-submits recorded queries so replies
// correlate as they did live. The pending buffer is flushed at the end, as a
// real terminal would have let it time out. Returns the number of frames read
func Replay(ctx context.Context, r *Reader, c *correlator.Correlator, opts ReplayOptions) (int, error) {
	start := time.Now()
	n := 0
	for {
		f, err := r.Next()
		if errors.Is(err, io.EOF) {
			c.Flush()
			return n, nil
		}
		if err != nil {
			return n, err
		}
		n++

		if opts.Speed > 0 {
			due := time.Duration(float64(f.Offset) / opts.Speed)
			if wait := due - time.Since(start); wait > 0 {
				t := time.NewTimer(wait)
				select {
				case <-ctx.Done():
					t.Stop()
					return n, ctx.Err()
				case <-t.C:
				}
			}
		} else if err := ctx.Err(); err != nil {
			return n, err
		}

		switch f.Dir {
		case DirInput:
			c.Feed(f.Data)
		case DirOutput:
			req := request.New(f.Data, f.Terminator)
			req.ExpectedValue = f.Expected
			if opts.OnRequest != nil {
				opts.OnRequest(req)
			}
			if err := c.Submit(req); err != nil {
				return n, fmt.Errorf("replay frame %d: %w", n, err)
			}
		}
	}
}
