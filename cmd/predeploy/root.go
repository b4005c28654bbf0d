package main

import (
	"github.com/spf13/cobra"
)

type rootFlags struct {
	configPath string
	workDir    string
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}
	opts := runOptions{}

	cmd := &cobra.Command{
		Use:   "predeploy",
		Short: "Install dependencies, collect static files and migrate before a deploy",
		Long: `predeploy runs the pre-deploy steps of a Django backend in order:

  1. pip install -r requirements.txt
  2. pip install gunicorn psycopg2-binary
  3. python manage.py collectstatic --no-input
  4. python manage.py migrate

It stops at the first step that fails and exits with that step's exit code.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.ConfigPath = flags.configPath
			opts.WorkDir = flags.workDir

			if err := validateRunOptions(opts); err != nil {
				return err
			}

			return runCmdRunner(cmd.Context(), opts, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	cmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "Path to a sequence file (defaults to the built-in steps)")
	cmd.PersistentFlags().StringVarP(&flags.workDir, "workdir", "C", "", "Directory the steps run in (defaults to the current directory)")

	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "Print the steps without running them")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Enable debug logging")
	cmd.Flags().BoolVar(&opts.Plain, "plain", false, "Always print plain status lines instead of the interactive view")
	cmd.Flags().StringVar(&opts.LogFormat, "log-format", "console", "Log format: console or json")

	cmd.AddCommand(newPlanCmd(flags))
	cmd.AddCommand(newVersionCmd())

	return cmd
}
