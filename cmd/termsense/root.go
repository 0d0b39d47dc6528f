package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/lixenwraith/termsense/config"
	"github.com/lixenwraith/termsense/logging"
	"github.com/lixenwraith/termsense/terminal"
)

// globalFlags are shared by every subcommand
type globalFlags struct {
	configPath string
	logLevel   string
	logFile    string
	tty        string
}

func (g *globalFlags) register(fs *pflag.FlagSet) {
	fs.StringVarP(&g.configPath, "config", "c", "termsense.toml", "config file, missing file uses defaults")
	fs.StringVar(&g.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	fs.StringVar(&g.logFile, "log-file", "", `override log destination, "off" disables`)
	fs.StringVar(&g.tty, "tty", "", "terminal device to use instead of stdin/stdout, e.g. /dev/tty")
}

// setup is the loaded configuration and logger for one command run
type setup struct {
	cfg    config.Config
	logger *slog.Logger
	closer io.Closer
}

func (s *setup) Close() error {
	return s.closer.Close()
}

// load reads the config file, applies flag overrides and opens the log
func (g *globalFlags) load(fs *pflag.FlagSet) (*setup, error) {
	cfg, err := config.Load(g.configPath)
	if err != nil {
		return nil, err
	}
	if fs.Changed("log-level") {
		cfg.Log.Level = g.logLevel
	}
	if fs.Changed("log-file") {
		cfg.Log.File = g.logFile
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger, closer, err := logging.Setup(cfg.Log)
	if err != nil {
		return nil, err
	}
	return &setup{cfg: cfg, logger: logger, closer: closer}, nil
}

// backend opens the raw terminal, the controlling tty when --tty is set
func (g *globalFlags) backend() (terminal.Backend, func(), error) {
	if g.tty == "" {
		return terminal.NewBackend(), func() {}, nil
	}
	f, err := os.OpenFile(g.tty, os.O_RDWR, 0)
	if err != nil {
		return nil, nil, fmt.Errorf("open tty: %w", err)
	}
	return terminal.NewFileBackend(f, f), func() { f.Close() }, nil
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:   "termsense",
		Short: "Terminal input decoder and reply correlator",
		Long: `termsense reads raw terminal input, decodes key and mouse sequences and
matches terminal replies (cursor position, device attributes, window size)
to the queries that asked for them.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	flags.register(root.PersistentFlags())

	root.AddCommand(
		newProbeCmd(flags),
		newKeysCmd(flags),
		newRecordCmd(flags),
		newReplayCmd(flags),
		newConfigCmd(flags),
	)
	return root
}
