package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lixenwraith/termsense/service"
	"github.com/lixenwraith/termsense/terminal"
)

func newKeysCmd(flags *globalFlags) *cobra.Command {
	var (
		mouse bool
		names []string
	)

	cmd := &cobra.Command{
		Use:   "keys",
		Short: "Print decoded key and mouse events until Ctrl+C",
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, err := parseKeyFilter(names)
			if err != nil {
				return err
			}
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

			term := service.NewTerminalService(backend, service.WithLogger(st.logger))
			if err := term.Init(st.cfg); err != nil {
				return err
			}
			defer term.Stop()
			if err := term.Start(); err != nil {
				return err
			}
			if mouse {
				if err := term.SetMouseMode(terminal.MouseModeClick | terminal.MouseModeDrag); err != nil {
					return err
				}
			}

			return printEvents(cmd.OutOrStdout(), term.Events(), filter)
		},
	}
	cmd.Flags().BoolVarP(&mouse, "mouse", "m", false, "enable mouse reporting")
	cmd.Flags().StringSliceVarP(&names, "filter", "f", nil, "print only these keys, by name (up, f3, ctrl_a, esc)")
	return cmd
}

// keyFilter selects the named keys to print; empty prints every event
type keyFilter map[terminal.Key]bool

func parseKeyFilter(names []string) (keyFilter, error) {
	f := make(keyFilter, len(names))
	for _, name := range names {
		k, ok := terminal.KeyByName(strings.ToLower(strings.TrimSpace(name)))
		if !ok {
			return nil, fmt.Errorf("unknown key name %q", name)
		}
		f[k] = true
	}
	return f, nil
}

func (f keyFilter) allows(ev terminal.Event) bool {
	if len(f) == 0 {
		return true
	}
	return ev.Type == terminal.EventKey && f[ev.Key]
}

// printEvents writes one line per event until Ctrl+C or end of input
// Lines end in CRLF since the terminal is in raw mode
func printEvents(out io.Writer, events <-chan terminal.Event, filter keyFilter) error {
	fmt.Fprintf(out, "%s\r\n", styleDim.Render("press keys, Ctrl+C to quit"))
	for ev := range events {
		switch ev.Type {
		case terminal.EventError:
			return ev.Err
		case terminal.EventClosed:
			return nil
		case terminal.EventKey:
			if ev.Key == terminal.KeyCtrlC {
				return nil
			}
		}
		if filter.allows(ev) {
			fmt.Fprintf(out, "%s\r\n", describe(ev))
		}
	}
	return nil
}
