package video

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"lyricreel/internal/config"
	"lyricreel/internal/fileutil"
	"lyricreel/internal/logging"
	"lyricreel/internal/lyrics"
	"lyricreel/internal/services"
)

const stageName = "assemble"

type commandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)

func defaultCommandRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	output, err := cmd.CombinedOutput()
	if err != nil {
		return output, fmt.Errorf("%s: %w: %s", name, err, tail(string(output), 20))
	}
	return output, nil
}

// Settings are the encoder parameters used for every assembly.
type Settings struct {
	FFmpegBinary  string
	FFprobeBinary string
	Width         int
	Height        int
	VideoCodec    string
	Preset        string
	CRF           int
	AudioCodec    string
	AudioBitrate  string
}

// SettingsFromConfig copies the [video] section.
func SettingsFromConfig(cfg config.Video) Settings {
	return Settings{
		FFmpegBinary:  cfg.FFmpegBinary,
		FFprobeBinary: cfg.FFprobeBinary,
		Width:         cfg.Width,
		Height:        cfg.Height,
		VideoCodec:    cfg.VideoCodec,
		Preset:        cfg.Preset,
		CRF:           cfg.CRF,
		AudioCodec:    cfg.AudioCodec,
		AudioBitrate:  cfg.AudioBitrate,
	}
}

// DefaultSettings returns 1920x1080 libx264/aac settings.
func DefaultSettings() Settings {
	return SettingsFromConfig(config.Default().Video)
}

// Request describes one assembly.
type Request struct {
	Scenes     []lyrics.PromptRecord
	ImagesDir  string
	AudioPath  string
	OutputPath string
}

// Result reports the produced video.
type Result struct {
	OutputPath      string
	Scenes          int
	Missing         []string
	SizeBytes       int64
	DurationSeconds float64
	Width           int
	Height          int
}

// Assembler muxes scene images and audio into a video with ffmpeg.
type Assembler struct {
	settings Settings
	logger   *slog.Logger
	run      commandRunner
}

// NewAssembler constructs an assembler.
func NewAssembler(settings Settings, logger *slog.Logger) *Assembler {
	return &Assembler{
		settings: settings,
		logger:   logging.NewComponentLogger(logger, "video"),
		run:      defaultCommandRunner,
	}
}

// WithCommandRunner allows injecting a custom command runner for tests.
func (a *Assembler) WithCommandRunner(r commandRunner) {
	if a != nil && r != nil {
		a.run = r
	}
}

// Assemble validates inputs, writes the concat script next to the output,
// runs ffmpeg, and probes the result. A failed probe reports zero duration
// and falls back to the file size on disk.
func (a *Assembler) Assemble(ctx context.Context, req Request) (Result, error) {
	ctx = services.WithStage(ctx, stageName)
	logger := logging.WithContext(ctx, a.logger)

	if !fileutil.FileExists(req.AudioPath) {
		return Result{}, services.Wrap(services.ErrNotFound, stageName, "validate", "audio file not found: "+req.AudioPath, nil)
	}
	if !fileutil.DirExists(req.ImagesDir) {
		return Result{}, services.Wrap(services.ErrNotFound, stageName, "validate", "images directory not found: "+req.ImagesDir, nil)
	}
	if strings.TrimSpace(req.OutputPath) == "" {
		return Result{}, services.Wrap(services.ErrValidation, stageName, "validate", "output path required", nil)
	}

	outDir := filepath.Dir(req.OutputPath)
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return Result{}, services.Wrap(services.ErrConfiguration, stageName, "prepare", "create output directory", err)
	}
	concat, err := os.CreateTemp(outDir, ".lyricreel-concat-*.txt")
	if err != nil {
		return Result{}, services.Wrap(services.ErrConfiguration, stageName, "prepare", "create concat file", err)
	}
	concatPath := concat.Name()
	defer os.Remove(concatPath)

	summary, err := WriteConcatFile(concat, req.Scenes, req.ImagesDir)
	closeErr := concat.Close()
	if err != nil {
		return Result{}, services.Wrap(services.ErrTransient, stageName, "prepare", "write concat file", err)
	}
	if closeErr != nil {
		return Result{}, services.Wrap(services.ErrTransient, stageName, "prepare", "close concat file", closeErr)
	}
	for _, name := range summary.Missing {
		logging.WarnWithContext(logger, "scene image missing", "scene_image_missing",
			logging.String("file", name),
			logging.String(logging.FieldImpact, "scene is dropped from the video"),
			logging.String(logging.FieldErrorHint, "re-run lyricreel images to fill gaps"),
		)
	}
	if summary.Entries == 0 {
		return Result{}, services.Wrap(services.ErrNotFound, stageName, "prepare", "no scene images found in "+req.ImagesDir, nil)
	}

	args := BuildFFmpegArgs(a.settings, concatPath, req.AudioPath, req.OutputPath)
	logger.Info("running ffmpeg",
		logging.Int("scenes", summary.Entries),
		logging.String("output", req.OutputPath),
	)
	logger.Debug("ffmpeg arguments", logging.String("args", strings.Join(args, " ")))
	if _, err := a.run(ctx, a.ffmpegBinary(), args...); err != nil {
		_ = os.Remove(req.OutputPath)
		return Result{}, services.Wrap(services.ErrExternalTool, stageName, "ffmpeg", "assembly failed", err)
	}

	info, err := os.Stat(req.OutputPath)
	if err != nil {
		return Result{}, services.Wrap(services.ErrExternalTool, stageName, "verify", "ffmpeg did not produce "+req.OutputPath, err)
	}

	result := Result{
		OutputPath: req.OutputPath,
		Scenes:     summary.Entries,
		Missing:    summary.Missing,
		SizeBytes:  info.Size(),
		Width:      a.settings.Width,
		Height:     a.settings.Height,
	}
	probe, err := Probe(ctx, a.run, a.settings.FFprobeBinary, req.OutputPath)
	if err != nil {
		logging.WarnWithContext(logger, "ffprobe failed", "probe_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "duration reported as 0"),
		)
	} else {
		result.DurationSeconds = probe.DurationSeconds()
		if size := probe.SizeBytes(); size > 0 {
			result.SizeBytes = size
		}
	}

	logger.Info("video assembled",
		logging.String("output", result.OutputPath),
		logging.Int64("size_bytes", result.SizeBytes),
		logging.Float64("duration_seconds", result.DurationSeconds),
	)
	return result, nil
}

func (a *Assembler) ffmpegBinary() string {
	if bin := strings.TrimSpace(a.settings.FFmpegBinary); bin != "" {
		return bin
	}
	return "ffmpeg"
}

// BuildFFmpegArgs returns the ffmpeg argument list for an assembly. Images
// are scaled to fit the frame and letterboxed in black.
func BuildFFmpegArgs(s Settings, concatPath, audioPath, outputPath string) []string {
	w, h := strconv.Itoa(s.Width), strconv.Itoa(s.Height)
	filter := fmt.Sprintf(
		"scale=%s:%s:force_original_aspect_ratio=decrease,pad=%s:%s:(ow-iw)/2:(oh-ih)/2:black,format=yuv420p",
		w, h, w, h,
	)
	return []string{
		"-f", "concat",
		"-safe", "0",
		"-i", concatPath,
		"-i", audioPath,
		"-vf", filter,
		"-c:v", s.VideoCodec,
		"-preset", s.Preset,
		"-crf", strconv.Itoa(s.CRF),
		"-c:a", s.AudioCodec,
		"-b:a", s.AudioBitrate,
		"-shortest",
		"-pix_fmt", "yuv420p",
		"-y",
		outputPath,
	}
}

// tail keeps the last n lines of tool output for error messages.
func tail(output string, n int) string {
	lines := strings.Split(strings.TrimSpace(output), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n")
}
