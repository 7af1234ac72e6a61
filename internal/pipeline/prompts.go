package pipeline

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"lyricreel/internal/logging"
	"lyricreel/internal/lyrics"
	"lyricreel/internal/manifest"
	"lyricreel/internal/services"
)

const stagePrompts = "prompts"

// PromptsRequest names the inputs and output of one prompt run.
type PromptsRequest struct {
	SRTPath    string
	OutputPath string
	StyleFile  string
	BaseStyle  string
}

// PromptsReport describes a completed prompt run.
type PromptsReport struct {
	SRTPath      string
	OutputPath   string
	StyleFile    string
	StyleMissing bool
	Document     manifest.Document
	Skipped      int
}

// RunPrompts synthesizes scene prompts from req.SRTPath and writes the
// document to req.OutputPath.
func RunPrompts(ctx context.Context, req PromptsRequest, logger *slog.Logger) (PromptsReport, error) {
	ctx = services.WithStage(ctx, stagePrompts)
	logger = logging.WithContext(ctx, logging.NewComponentLogger(logger, "pipeline"))
	report := PromptsReport{SRTPath: req.SRTPath, OutputPath: req.OutputPath, StyleFile: req.StyleFile}

	if err := ctx.Err(); err != nil {
		return report, services.Wrap(services.ErrAborted, stagePrompts, "start", "", err)
	}
	if strings.TrimSpace(req.OutputPath) == "" {
		return report, services.Wrap(services.ErrValidation, stagePrompts, "resolve output", "output path required", nil)
	}

	srt, err := os.ReadFile(req.SRTPath)
	if err != nil {
		marker := services.ErrValidation
		if errors.Is(err, fs.ErrNotExist) {
			marker = services.ErrNotFound
		}
		return report, services.Wrap(marker, stagePrompts, "read subtitles", req.SRTPath, err)
	}

	styleText := ""
	if strings.TrimSpace(req.StyleFile) != "" {
		data, err := os.ReadFile(req.StyleFile)
		if err != nil {
			report.StyleMissing = true
			logging.WarnWithContext(logger, "style file unreadable; continuing without style", "style_file_missing",
				logging.String("style_file", req.StyleFile),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check the style file path"),
				logging.String(logging.FieldImpact, "prompts carry no genre keywords or mood"),
			)
		} else {
			styleText = strings.TrimSpace(string(data))
		}
	}

	baseStyle := strings.TrimSpace(req.BaseStyle)
	if baseStyle == "" {
		baseStyle = lyrics.DefaultBaseStyle
	}

	result := lyrics.Synthesize(string(srt), styleText, baseStyle)
	report.Skipped = result.Stats.Skipped()
	if report.Skipped > 0 {
		logging.WarnWithContext(logger, "skipped malformed subtitle blocks", "srt_blocks_skipped",
			logging.Int("skipped", report.Skipped),
			logging.Int("short_blocks", result.Stats.ShortBlocks),
			logging.Int("bad_timing", result.Stats.BadTiming),
			logging.String(logging.FieldErrorHint, "each block needs an index, a timing line, and text"),
			logging.String(logging.FieldImpact, "those cues get no scene"),
		)
	}
	if len(result.Records) == 0 {
		return report, services.Wrap(services.ErrValidation, stagePrompts, "parse subtitles",
			"no subtitle segments found in "+req.SRTPath, nil)
	}

	doc := manifest.Build(manifest.Sources{
		SRTFile:   req.SRTPath,
		StyleFile: strings.TrimSpace(req.StyleFile),
		StyleText: styleText,
		BaseStyle: baseStyle,
	}, result)
	report.Document = doc

	if dir := filepath.Dir(req.OutputPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return report, services.Wrap(services.ErrValidation, stagePrompts, "create output directory", dir, err)
		}
	}
	if err := manifest.Save(req.OutputPath, doc); err != nil {
		return report, services.Wrap(services.ErrExternalTool, stagePrompts, "write prompts", req.OutputPath, err)
	}

	logger.Info("prompts written",
		logging.String("output", req.OutputPath),
		logging.Int("segments", doc.Metadata.TotalSegments),
		logging.Float64("total_duration", doc.Metadata.TotalDuration),
	)
	return report, nil
}
