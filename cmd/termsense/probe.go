package main

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/lixenwraith/termsense/request"
	"github.com/lixenwraith/termsense/service"
)

type probeResult struct {
	query request.Query
	reply request.Reply
	err   error
	took  time.Duration
}

func newProbeCmd(flags *globalFlags) *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "probe [query...]",
		Short: "Send terminal queries and print the replies",
		Long: `Send the named queries (all well-known queries when none are given) and
print each reply. Queries are sent one at a time so every reply is matched
to the query that produced it.

Known queries: ` + strings.Join(queryNames(), ", "),
		RunE: func(cmd *cobra.Command, args []string) error {
			queries, err := selectQueries(args)
			if err != nil {
				return err
			}
			st, err := flags.load(cmd.Flags())
			if err != nil {
				return err
			}
			defer st.Close()

			results, err := runProbe(cmd.Context(), flags, st, queries, timeout)
			if err != nil {
				return err
			}
			printProbe(cmd, results)
			return nil
		},
	}
	cmd.Flags().DurationVarP(&timeout, "timeout", "t", 500*time.Millisecond, "wait per query before giving up")
	return cmd
}

func queryNames() []string {
	names := make([]string, 0, len(request.Queries))
	for name := range request.Queries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func selectQueries(args []string) ([]request.Query, error) {
	if len(args) == 0 {
		args = queryNames()
	}
	queries := make([]request.Query, 0, len(args))
	for _, name := range args {
		q, ok := request.Queries[name]
		if !ok {
			return nil, fmt.Errorf("unknown query %q", name)
		}
		queries = append(queries, q)
	}
	return queries, nil
}

// runProbe holds the terminal in raw mode only while queries are in flight
func runProbe(ctx context.Context, flags *globalFlags, st *setup, queries []request.Query, timeout time.Duration) ([]probeResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	backend, release, err := flags.backend()
	if err != nil {
		return nil, err
	}
	defer release()

	term := service.NewTerminalService(backend, service.WithLogger(st.logger))
	if err := term.Init(st.cfg); err != nil {
		return nil, err
	}
	if err := term.Start(); err != nil {
		term.Stop()
		return nil, err
	}

	results := make([]probeResult, 0, len(queries))
	for _, q := range queries {
		qctx, cancel := context.WithTimeout(ctx, timeout)
		start := time.Now()
		reply, err := term.Query(qctx, q)
		cancel()
		results = append(results, probeResult{query: q, reply: reply, err: err, took: time.Since(start)})
		st.logger.Debug("probe", "query", q.Name, "reply", reply.Text, "err", err)
	}

	if err := term.Stop(); err != nil {
		return results, err
	}
	return results, nil
}

func printProbe(cmd *cobra.Command, results []probeResult) {
	out := cmd.OutOrStdout()
	widths := []int{28, 10, 24}
	fmt.Fprintln(out, row(widths, styleHeader.Render("QUERY"), styleHeader.Render("TIME"), styleHeader.Render("REPLY"), styleHeader.Render("PARAMS")))

	for _, r := range results {
		took := styleDim.Render(r.took.Round(time.Microsecond).String())
		switch {
		case r.err != nil:
			fmt.Fprintln(out, row(widths, styleName.Render(r.query.Name), took, styleError.Render(probeError(r.err)), ""))
		case r.reply.Err != nil:
			fmt.Fprintln(out, row(widths, styleName.Render(r.query.Name), took, styleError.Render(fmt.Sprintf("%q", r.reply.Text)), r.reply.Err.Error()))
		default:
			fmt.Fprintln(out, row(widths, styleName.Render(r.query.Name), took, styleOK.Render(fmt.Sprintf("%q", r.reply.Text)), strings.Join(r.reply.Params, ";")))
		}
	}
}

func probeError(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "no reply"
	}
	return err.Error()
}
