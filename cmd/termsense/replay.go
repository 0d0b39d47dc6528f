package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/lixenwraith/termsense/correlator"
	"github.com/lixenwraith/termsense/request"
	"github.com/lixenwraith/termsense/resolver"
	"github.com/lixenwraith/termsense/trace"
)

func newReplayCmd(flags *globalFlags) *cobra.Command {
	var speed float64

	cmd := &cobra.Command{
		Use:   "replay <file>",
		Short: "Replay a trace file through the correlator",
		Long: `Feed a recorded trace through a fresh correlator without a terminal and
print the decoded events and correlated replies. Speed 1 keeps the recorded
timing, which matters for sequences split across reads; 0 replays at once.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := flags.load(cmd.Flags())
			if err != nil {
				return err
			}
			defer st.Close()

			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			return runReplay(cmd.Context(), cmd.OutOrStdout(), f, st, speed)
		},
	}
	cmd.Flags().Float64VarP(&speed, "speed", "s", 1, "timing scale, 0 replays without delay")
	return cmd
}

func runReplay(ctx context.Context, out io.Writer, src io.Reader, st *setup, speed float64) error {
	if ctx == nil {
		ctx = context.Background()
	}
	r, err := trace.NewReader(src)
	if err != nil {
		return err
	}
	hdr := r.Header()
	fmt.Fprintf(out, "%s %s, %dx%d\n", styleHeader.Render("trace"),
		time.Unix(0, hdr.Started).Format(time.RFC3339), hdr.Width, hdr.Height)

	registry := request.NewRegistry(
		request.WithLogger(st.logger),
		request.WithLateWindow(st.cfg.Requests.StaleAfter.Duration),
	)
	corr := correlator.New(registry,
		correlator.WithResolver(resolver.New(st.cfg.Resolver.NewResolverPolicy(), resolver.WithMaxStage(st.cfg.Resolver.MaxStage))),
		correlator.WithLogger(st.logger),
		correlator.WithEventBuffer(st.cfg.Events.Buffer),
		correlator.WithMalformedToOldest(st.cfg.Requests.MalformedToOldest),
	)

	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	emit := func(line string) {
		mu.Lock()
		defer mu.Unlock()
		fmt.Fprintln(out, line)
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		for ev := range corr.Events() {
			emit(describe(ev))
		}
	}()

	n, err := trace.Replay(ctx, r, corr, trace.ReplayOptions{
		Speed: speed,
		OnRequest: func(req *request.Request) {
			payload := fmt.Sprintf("%q", req.Payload)
			req.OnComplete = func(reply request.Reply) {
				status := styleOK.Render(fmt.Sprintf("%q", reply.Text))
				if reply.Err != nil {
					status = styleError.Render(reply.Err.Error())
				}
				emit(row([]int{28}, styleName.Render("reply to "+payload), status))
			}
			req.OnAbandon = func() {
				emit(row([]int{28}, styleName.Render("reply to "+payload), styleError.Render("abandoned")))
			}
		},
	})
	corr.Shutdown()
	wg.Wait()

	stats := corr.Stats()
	fmt.Fprintf(out, "%s frames=%d events=%d replies=%d malformed=%d late=%d abandoned=%d discarded=%d dropped=%d\n",
		styleHeader.Render("summary"), n, stats.Events, stats.Replies, stats.Malformed,
		stats.Late, stats.Abandoned, stats.Discarded, stats.Dropped)
	return err
}
