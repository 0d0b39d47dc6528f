package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/lixenwraith/termsense/service"
	"github.com/lixenwraith/termsense/terminal"
)

func newRecordCmd(flags *globalFlags) *cobra.Command {
	var (
		mouse   bool
		probe   bool
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "record <file>",
		Short: "Record raw terminal traffic to a trace file",
		Long: `Record every chunk read from the terminal and every query written to it
into a CBOR trace file while printing decoded events. With --probe the
well-known queries are sent first so the trace captures their replies.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := flags.load(cmd.Flags())
			if err != nil {
				return err
			}
			defer st.Close()

			backend, release, err := flags.backend()
			if err != nil {
				return err
			}
			defer release()

			rec := service.NewTraceService(args[0])
			term := service.NewTerminalService(backend, service.WithLogger(st.logger), service.WithRecorder(rec))

			hub := service.NewHub()
			if err := hub.Register(rec); err != nil {
				return err
			}
			if err := hub.Register(term); err != nil {
				return err
			}

			w, h := backend.Size()
			if err := hub.InitAll(st.cfg, [2]int{w, h}); err != nil {
				return err
			}
			defer hub.StopAll()
			if err := hub.StartAll(); err != nil {
				return err
			}
			st.logger.Info("recording", "file", args[0], "services", hub.Names())

			if mouse {
				if err := term.SetMouseMode(terminal.MouseModeClick | terminal.MouseModeDrag); err != nil {
					return err
				}
			}
			if probe {
				queries, _ := selectQueries(nil)
				for _, q := range queries {
					ctx, cancel := context.WithTimeout(context.Background(), timeout)
					if _, err := term.Query(ctx, q); err != nil {
						st.logger.Warn("probe query unanswered", "query", q.Name, "err", err)
					}
					cancel()
				}
			}

			return printEvents(cmd.OutOrStdout(), term.Events(), nil)
		},
	}
	cmd.Flags().BoolVarP(&mouse, "mouse", "m", false, "enable mouse reporting")
	cmd.Flags().BoolVar(&probe, "probe", false, "send the well-known queries before recording keys")
	cmd.Flags().DurationVarP(&timeout, "timeout", "t", 500*time.Millisecond, "wait per probe query")
	return cmd
}
