package main

import (
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"lyricreel/internal/history"
	"lyricreel/internal/imagegen"
	"lyricreel/internal/manifest"
	"lyricreel/internal/services"
	"lyricreel/internal/textutil"
)

func newImagesCommand(ctx *commandContext) *cobra.Command {
	var provider string
	var apiKey string
	var interval float64

	cmd := &cobra.Command{
		Use:   "images <prompts.json> <output_dir> [provider] [api_key]",
		Short: "Generate one image per scene of a prompts document",
		Long: `Render every scene prompt with an image provider (openai, grok, gemini, or
the offline placeholder). Scenes whose image file already exists are skipped,
so an interrupted run can simply be repeated.`,
		Args: cobra.RangeArgs(2, 4),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := imagesRequest{
				PromptsPath: args[0],
				OutputDir:   args[1],
				Provider:    firstNonEmpty(provider, argAt(args, 2)),
				APIKey:      firstNonEmpty(apiKey, argAt(args, 3)),
				Interval:    -1,
			}
			if cmd.Flags().Changed("interval") {
				req.Interval = interval
			}
			_, err := runImagesStage(cmd, ctx, req)
			return err
		},
	}

	cmd.Flags().StringVar(&provider, "provider", "", "Image provider: openai, grok, gemini, placeholder")
	cmd.Flags().StringVar(&apiKey, "api-key", "", "API key for the provider (defaults to config or environment)")
	cmd.Flags().Float64Var(&interval, "interval", 0, "Minimum seconds between provider requests (defaults to images.request_interval_seconds)")
	return cmd
}

type imagesRequest struct {
	PromptsPath string
	OutputDir   string
	Provider    string
	APIKey      string
	// Interval below zero uses the configured value.
	Interval float64
}

func runImagesStage(cmd *cobra.Command, ctx *commandContext, req imagesRequest) (imagegen.Summary, error) {
	run, err := ctx.beginStage(cmd, history.KindImages, req.PromptsPath)
	if err != nil {
		return imagegen.Summary{}, err
	}
	finish := history.Finish{Output: req.OutputDir}

	doc, err := loadPrompts(req.PromptsPath, "images")
	if err != nil {
		return imagegen.Summary{}, run.finish(finish, err)
	}
	provider, err := imagegen.NewProvider(run.ctx, run.cfg, req.Provider, req.APIKey)
	if err != nil {
		return imagegen.Summary{}, run.finish(finish, err)
	}
	finish.Provider = provider.Name()

	seconds := run.cfg.Images.RequestIntervalSeconds
	if req.Interval >= 0 {
		seconds = req.Interval
	}
	interval := time.Duration(seconds * float64(time.Second))

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Generating %d images with %s into %s\n", len(doc.Segments), provider.Name(), req.OutputDir)

	summary, err := imagegen.NewRunner(provider, interval, run.logger).Run(run.ctx, doc, req.OutputDir)
	run.recordScenes(summary.Results)
	finish.Counts = history.Counts{
		Total:     summary.Total,
		Succeeded: summary.Succeeded,
		Skipped:   summary.Skipped,
		Failed:    summary.Failed,
	}
	if len(summary.Results) > 0 {
		fmt.Fprintln(out, renderSceneResults(summary.Results))
	}
	fmt.Fprintf(out, "Successful: %d/%d (skipped existing: %d, failed: %d)\n",
		summary.Succeeded, summary.Total, summary.Skipped, summary.Failed)
	return summary, run.finish(finish, err)
}

func renderSceneResults(results []imagegen.SceneResult) string {
	rows := make([][]string, 0, len(results))
	for _, result := range results {
		detail := ""
		switch {
		case result.Err != nil:
			detail = textutil.Truncate(result.Err.Error(), 60)
		case result.Bytes > 0:
			detail = formatBytes(int64(result.Bytes))
		}
		rows = append(rows, []string{strconv.Itoa(result.Sequence), result.Filename, result.Status, detail})
	}
	return renderTable([]string{"Scene", "File", "Status", "Detail"}, rows, []columnAlignment{alignRight})
}

func loadPrompts(path, stage string) (manifest.Document, error) {
	doc, err := manifest.Load(path)
	if err != nil {
		marker := services.ErrValidation
		if errors.Is(err, fs.ErrNotExist) {
			marker = services.ErrNotFound
		}
		return doc, services.Wrap(marker, stage, "load prompts", path, err)
	}
	return doc, nil
}
