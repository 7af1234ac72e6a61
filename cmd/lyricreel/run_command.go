package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"lyricreel/internal/pipeline"
	"lyricreel/internal/services"
	"lyricreel/internal/textutil"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var workdir string
	var styleFile string
	var baseStyle string
	var provider string
	var apiKey string
	var output string
	var assumeYes bool

	cmd := &cobra.Command{
		Use:   "run <input.srt> <audio>",
		Short: "Run prompts, images, and assemble in one working directory",
		Long: `Chain the three stages. The working directory receives prompts.json, an
images/ directory, and the final video. Re-running the command reuses images
that already exist.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			srtPath, audioPath := args[0], args[1]
			dir := firstNonEmpty(workdir, textutil.StemName(srtPath, "lyricreel")+"_video")
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return services.Wrap(services.ErrValidation, "run", "create working directory", dir, err)
			}
			promptsPath := filepath.Join(dir, "prompts.json")
			imagesDir := filepath.Join(dir, "images")
			outputPath := firstNonEmpty(output, filepath.Join(dir, cfg.Video.OutputFile))

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "== Step 1/3: prompts")
			if _, err := runPromptsStage(cmd, ctx, pipeline.PromptsRequest{
				SRTPath:    srtPath,
				OutputPath: promptsPath,
				StyleFile:  firstNonEmpty(styleFile, cfg.Prompts.StyleFile),
				BaseStyle:  firstNonEmpty(baseStyle, cfg.Prompts.BaseStyle),
			}); err != nil {
				return err
			}

			fmt.Fprintln(out, "\n== Step 2/3: images")
			if _, err := runImagesStage(cmd, ctx, imagesRequest{
				PromptsPath: promptsPath,
				OutputDir:   imagesDir,
				Provider:    provider,
				APIKey:      apiKey,
				Interval:    -1,
			}); err != nil {
				return err
			}

			fmt.Fprintln(out, "\n== Step 3/3: assemble")
			_, err = runAssembleStage(cmd, ctx, assembleRequest{
				PromptsPath: promptsPath,
				ImagesDir:   imagesDir,
				AudioPath:   audioPath,
				OutputPath:  outputPath,
				AssumeYes:   assumeYes,
			})
			return err
		},
	}

	cmd.Flags().StringVarP(&workdir, "workdir", "w", "", "Working directory (defaults to <srt name>_video)")
	cmd.Flags().StringVar(&styleFile, "style-file", "", "Style description file")
	cmd.Flags().StringVar(&baseStyle, "base-style", "", "Base style prefixed to every prompt")
	cmd.Flags().StringVar(&provider, "provider", "", "Image provider: openai, grok, gemini, placeholder")
	cmd.Flags().StringVar(&apiKey, "api-key", "", "API key for the provider")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output video path (defaults to <workdir>/<video.output_file>)")
	cmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Continue without asking when scene images are missing")
	return cmd
}
