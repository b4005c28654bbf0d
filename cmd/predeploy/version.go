package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/predeploy/internal/config"
)

// Set through -ldflags at release time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Display build information and the built-in sequence",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeVersion(cmd.OutOrStdout())
		},
	}
}

func writeVersion(out io.Writer) error {
	builtin := config.DefaultConfig()
	_, err := fmt.Fprintf(out,
		"predeploy %s\ncommit: %s\nbuilt: %s\nconfig schema: %s\nbuilt-in sequence: %s (%d steps)\n",
		version, commit, date, config.DefaultVersion, builtin.Name, len(builtin.EnabledSteps()),
	)
	return err
}
