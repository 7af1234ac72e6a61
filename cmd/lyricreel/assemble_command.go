package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"lyricreel/internal/deps"
	"lyricreel/internal/history"
	"lyricreel/internal/services"
	"lyricreel/internal/video"
)

func newAssembleCommand(ctx *commandContext) *cobra.Command {
	var assumeYes bool

	cmd := &cobra.Command{
		Use:   "assemble <prompts.json> <images_dir> <audio> [output.mp4]",
		Short: "Assemble scene images and the song audio into a video",
		Long: `Show each scene image for its subtitle duration, hold the last image until
the audio ends, and encode the result with ffmpeg. When scene images are
missing you are asked whether to continue; --yes continues without asking.`,
		Args: cobra.RangeArgs(3, 4),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			req := assembleRequest{
				PromptsPath: args[0],
				ImagesDir:   args[1],
				AudioPath:   args[2],
				OutputPath:  firstNonEmpty(argAt(args, 3), cfg.Video.OutputFile),
				AssumeYes:   assumeYes,
			}
			_, err = runAssembleStage(cmd, ctx, req)
			return err
		},
	}

	cmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Continue without asking when scene images are missing")
	return cmd
}

type assembleRequest struct {
	PromptsPath string
	ImagesDir   string
	AudioPath   string
	OutputPath  string
	AssumeYes   bool
}

func runAssembleStage(cmd *cobra.Command, ctx *commandContext, req assembleRequest) (video.Result, error) {
	run, err := ctx.beginStage(cmd, history.KindAssemble, req.PromptsPath)
	if err != nil {
		return video.Result{}, err
	}
	finish := history.Finish{Output: req.OutputPath}

	statuses := deps.CheckBinaries(deps.VideoRequirements(run.cfg.Video))
	if missing := deps.MissingRequired(statuses); len(missing) > 0 {
		return video.Result{}, run.finish(finish, services.Wrap(
			services.ErrConfiguration, "assemble", "check dependencies",
			fmt.Sprintf("%s is required (%s); install it or set video.ffmpeg_binary", missing[0].Name, missing[0].Detail), nil))
	}

	doc, err := loadPrompts(req.PromptsPath, "assemble")
	if err != nil {
		return video.Result{}, run.finish(finish, err)
	}
	if missing := video.Missing(doc.Segments, req.ImagesDir); len(missing) > 0 {
		if err := confirmMissing(cmd, missing, req.AssumeYes); err != nil {
			return video.Result{}, run.finish(finish, err)
		}
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Assembling %d scenes into %s\n", len(doc.Segments), req.OutputPath)
	assembler := video.NewAssembler(video.SettingsFromConfig(run.cfg.Video), run.logger)
	result, err := assembler.Assemble(run.ctx, video.Request{
		Scenes:     doc.Segments,
		ImagesDir:  req.ImagesDir,
		AudioPath:  req.AudioPath,
		OutputPath: req.OutputPath,
	})
	finish.Counts = history.Counts{
		Total:     len(doc.Segments),
		Succeeded: result.Scenes,
		Failed:    len(result.Missing),
	}
	if err != nil {
		return result, run.finish(finish, err)
	}

	fmt.Fprintf(out, "Video created: %s\n", result.OutputPath)
	fmt.Fprintf(out, "  Size:       %s\n", formatBytes(result.SizeBytes))
	fmt.Fprintf(out, "  Duration:   %s\n", formatSeconds(result.DurationSeconds))
	fmt.Fprintf(out, "  Resolution: %dx%d\n", result.Width, result.Height)
	return result, run.finish(finish, nil)
}

func confirmMissing(cmd *cobra.Command, missing []string, assumeYes bool) error {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Missing %d scene images:\n", len(missing))
	for _, name := range missing {
		fmt.Fprintf(out, "  - %s\n", name)
	}
	if assumeYes {
		fmt.Fprintln(out, "Continuing without them (--yes)")
		return nil
	}
	in := cmd.InOrStdin()
	if !isTerminal(in) {
		return services.Wrap(services.ErrAborted, "assemble", "confirm missing images",
			"stdin is not a terminal; pass --yes to continue without them", nil)
	}
	fmt.Fprint(out, "Continue anyway? [y/N] ")
	line, _ := bufio.NewReader(in).ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return nil
	default:
		return services.Wrap(services.ErrAborted, "assemble", "confirm missing images", "cancelled", nil)
	}
}
