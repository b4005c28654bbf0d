package main

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/predeploy/internal/config"
)

func newPlanCmd(root *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "List the steps in execution order without running them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if root.configPath != "" {
				if err := validateConfigPath(root.configPath); err != nil {
					return err
				}
			}
			if root.workDir != "" {
				if err := validateWorkDir(root.workDir); err != nil {
					return err
				}
			}
			return runPlan(cmd.OutOrStdout(), root.configPath, root.workDir)
		},
	}

	return cmd
}

func runPlan(out io.Writer, configPath, workDirFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	workDir, err := resolveWorkDir(workDirFlag, cfg.Settings.WorkDir)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "%s: %d of %d steps enabled, workdir %s\n", cfg.Name, len(cfg.EnabledSteps()), len(cfg.Steps), workDir)

	table := tablewriter.NewWriter(out)
	table.Header("#", "ID", "Name", "Command")

	index := 0
	for _, step := range cfg.Steps {
		position := "-"
		if step.Enabled {
			index++
			position = fmt.Sprintf("%d", index)
		}
		name := step.Name
		if !step.Enabled {
			name += " (disabled)"
		}
		if err := table.Append(position, step.ID, name, step.Run); err != nil {
			return err
		}
	}

	return table.Render()
}
