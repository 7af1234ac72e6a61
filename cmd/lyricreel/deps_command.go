package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"lyricreel/internal/deps"
	"lyricreel/internal/services"
)

func newDepsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "deps",
		Short: "Check external tools used by lyricreel",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			statuses := deps.CheckBinaries(deps.VideoRequirements(cfg.Video))
			rows := make([][]string, 0, len(statuses))
			for _, status := range statuses {
				state := "ok"
				switch {
				case !status.Available && status.Optional:
					state = "missing (optional)"
				case !status.Available:
					state = "missing"
				}
				rows = append(rows, []string{status.Name, status.Command, state, status.Description})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable([]string{"Dependency", "Command", "Status", "Purpose"}, rows, nil))

			if missing := deps.MissingRequired(statuses); len(missing) > 0 {
				return services.Wrap(services.ErrConfiguration, "deps", "check", fmt.Sprintf("%d required dependencies missing", len(missing)), nil)
			}
			fmt.Fprintln(out, "All required dependencies available")
			return nil
		},
	}
}
