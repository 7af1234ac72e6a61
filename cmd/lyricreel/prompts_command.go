package main

import (
	"github.com/spf13/cobra"

	"lyricreel/internal/history"
	"lyricreel/internal/pipeline"
)

func newPromptsCommand(ctx *commandContext) *cobra.Command {
	var styleFile string
	var baseStyle string

	cmd := &cobra.Command{
		Use:   "prompts <input.srt> <output.json> [style.txt] [base_style]",
		Short: "Generate scene prompts from a lyric subtitle file",
		Long: `Parse an SRT lyric file into timed scenes and write one image prompt per
scene to a JSON document. An optional style description (for example the
song's Suno style text) contributes genre keywords and a mood.`,
		Args: cobra.RangeArgs(2, 4),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			req := pipeline.PromptsRequest{
				SRTPath:    args[0],
				OutputPath: args[1],
				StyleFile:  firstNonEmpty(styleFile, argAt(args, 2), cfg.Prompts.StyleFile),
				BaseStyle:  firstNonEmpty(baseStyle, argAt(args, 3), cfg.Prompts.BaseStyle),
			}
			_, err = runPromptsStage(cmd, ctx, req)
			return err
		},
	}

	cmd.Flags().StringVar(&styleFile, "style-file", "", "Style description file (overrides the third argument)")
	cmd.Flags().StringVar(&baseStyle, "base-style", "", "Base style prefixed to every prompt (overrides the fourth argument)")
	return cmd
}

func runPromptsStage(cmd *cobra.Command, ctx *commandContext, req pipeline.PromptsRequest) (pipeline.PromptsReport, error) {
	run, err := ctx.beginStage(cmd, history.KindPrompts, req.SRTPath)
	if err != nil {
		return pipeline.PromptsReport{}, err
	}
	report, err := pipeline.RunPrompts(run.ctx, req, run.logger)
	finish := history.Finish{Output: req.OutputPath}
	if err == nil {
		total := report.Document.Metadata.TotalSegments
		finish.Counts = history.Counts{Total: total, Succeeded: total, Skipped: report.Skipped}
		err = report.Render(cmd.OutOrStdout())
	}
	return report, run.finish(finish, err)
}
