package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lixenwraith/termsense/config"
)

func newConfigCmd(flags *globalFlags) *cobra.Command {
	var defaults bool

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as TOML",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Default()
			if !defaults {
				st, err := flags.load(cmd.Flags())
				if err != nil {
					return err
				}
				defer st.Close()
				cfg = st.cfg
			}
			data, err := config.Encode(cfg)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), string(data))
			return nil
		},
	}
	cmd.Flags().BoolVar(&defaults, "defaults", false, "print built-in defaults, ignoring file and environment")
	return cmd
}
