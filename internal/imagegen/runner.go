package imagegen

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/h2non/filetype"
	"golang.org/x/time/rate"

	"lyricreel/internal/fileutil"
	"lyricreel/internal/logging"
	"lyricreel/internal/lyrics"
	"lyricreel/internal/manifest"
	"lyricreel/internal/services"
)

const lockFileName = ".lyricreel.lock"

// Scene outcome values.
const (
	StatusGenerated = "generated"
	StatusSkipped   = "skipped"
	StatusFailed    = "failed"
)

// SceneResult is the outcome of one scene.
type SceneResult struct {
	Sequence int
	Filename string
	Path     string
	Status   string
	Bytes    int
	Elapsed  time.Duration
	Err      error
}

// Summary totals a run. Skipped scenes also count as succeeded.
type Summary struct {
	Provider  string
	OutputDir string
	Total     int
	Succeeded int
	Skipped   int
	Failed    int
	Results   []SceneResult
}

// Runner generates scene images with a single provider.
type Runner struct {
	provider Provider
	limiter  *rate.Limiter
	logger   *slog.Logger
}

// NewRunner constructs a runner that spaces provider requests at least
// interval apart. A zero interval disables pacing.
func NewRunner(provider Provider, interval time.Duration, logger *slog.Logger) *Runner {
	r := &Runner{
		provider: provider,
		logger:   logging.NewComponentLogger(logger, "imagegen"),
	}
	if o, ok := provider.(offline); ok && o.Offline() {
		interval = 0
	}
	if interval > 0 {
		r.limiter = rate.NewLimiter(rate.Every(interval), 1)
	}
	return r
}

// Run generates every scene of doc into outDir.
func (r *Runner) Run(ctx context.Context, doc manifest.Document, outDir string) (Summary, error) {
	summary := Summary{
		Provider:  r.provider.Name(),
		OutputDir: outDir,
		Total:     len(doc.Segments),
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return summary, services.Wrap(services.ErrValidation, "images", "create output directory", outDir, err)
	}

	lock := flock.New(filepath.Join(outDir, lockFileName))
	locked, err := lock.TryLock()
	if err != nil {
		return summary, services.Wrap(services.ErrExternalTool, "images", "lock output directory", outDir, err)
	}
	if !locked {
		return summary, services.Wrap(services.ErrValidation, "images", "lock output directory",
			fmt.Sprintf("another run is writing to %s", outDir), nil)
	}
	defer func() {
		_ = lock.Unlock()
	}()

	r.logger.Info("image generation started",
		logging.String("provider", summary.Provider),
		logging.Int("scenes", summary.Total),
		logging.String("output_dir", outDir),
	)

	for _, seg := range doc.Segments {
		if err := ctx.Err(); err != nil {
			return summary, services.Wrap(services.ErrAborted, "images", "generate", "run cancelled", err)
		}
		result := r.scene(ctx, seg, outDir)
		if result.Err != nil && ctx.Err() != nil {
			return summary, services.Wrap(services.ErrAborted, "images", "generate", "run cancelled", ctx.Err())
		}
		switch result.Status {
		case StatusSkipped:
			summary.Skipped++
			summary.Succeeded++
		case StatusGenerated:
			summary.Succeeded++
		default:
			summary.Failed++
		}
		summary.Results = append(summary.Results, result)
	}

	r.logger.Info("image generation finished",
		logging.String("provider", summary.Provider),
		logging.Int("succeeded", summary.Succeeded),
		logging.Int("skipped", summary.Skipped),
		logging.Int("failed", summary.Failed),
		logging.Int("total", summary.Total),
	)
	return summary, nil
}

func (r *Runner) scene(ctx context.Context, seg lyrics.PromptRecord, outDir string) SceneResult {
	filename := seg.Filename
	if filename == "" {
		filename = lyrics.SceneFilename(seg.Sequence)
	}
	result := SceneResult{
		Sequence: seg.Sequence,
		Filename: filename,
		Path:     filepath.Join(outDir, filename),
	}
	ctx = services.WithScene(ctx, seg.Sequence)
	logger := logging.WithContext(ctx, r.logger)

	if filepath.Base(filename) != filename {
		return r.fail(logger, result, fmt.Errorf("filename %q must not contain a directory", filename))
	}
	if fileutil.FileExists(result.Path) {
		result.Status = StatusSkipped
		logger.Info("scene image exists, skipping", logging.String("file", filename))
		return result
	}

	if r.limiter != nil {
		if err := r.limiter.Wait(ctx); err != nil {
			return r.fail(logger, result, err)
		}
	}

	started := time.Now()
	data, err := r.provider.Generate(ctx, seg.Prompt)
	result.Elapsed = time.Since(started)
	if err != nil {
		return r.fail(logger, result, err)
	}
	if !filetype.IsImage(data) {
		return r.fail(logger, result, errors.New("provider response is not an image"))
	}
	if err := fileutil.WriteFileAtomic(result.Path, data, 0o644); err != nil {
		return r.fail(logger, result, err)
	}
	result.Status = StatusGenerated
	result.Bytes = len(data)
	logger.Info("scene image saved",
		logging.String("file", filename),
		logging.Int("bytes", len(data)),
		logging.Duration("elapsed", result.Elapsed),
	)
	return result
}

func (r *Runner) fail(logger *slog.Logger, result SceneResult, err error) SceneResult {
	result.Status = StatusFailed
	result.Err = err
	logging.WarnWithContext(logger, "scene image failed", "scene_failed",
		logging.String("file", result.Filename),
		logging.Error(err),
		logging.String(logging.FieldErrorHint, "re-run the images command to retry missing scenes"),
		logging.String(logging.FieldImpact, "scene will be missing from the video"),
	)
	return result
}
