package main

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"lyricreel/internal/config"
	"lyricreel/internal/history"
	"lyricreel/internal/imagegen"
	"lyricreel/internal/logging"
	"lyricreel/internal/services"
)

// stageRun carries the identity and ledger handle of one stage invocation.
type stageRun struct {
	ctx    context.Context
	id     string
	kind   string
	cfg    *config.Config
	logger *slog.Logger
	store  *history.Store
}

func (c *commandContext) beginStage(cmd *cobra.Command, kind, input string) (*stageRun, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := c.loggerFor(cmd)
	if err != nil {
		return nil, err
	}
	base := cmd.Context()
	if base == nil {
		base = context.Background()
	}
	id := newRunID()
	ctx := services.WithStage(services.WithRunID(base, id), kind)
	run := &stageRun{ctx: ctx, id: id, kind: kind, cfg: cfg, logger: logger}

	run.store = c.openHistory(ctx, logger)
	if run.store != nil {
		if err := run.store.StartRun(ctx, id, kind, input); err != nil {
			run.warnHistory(err)
			_ = run.store.Close()
			run.store = nil
		}
	}

	logging.WithContext(ctx, logger).Debug("stage started", logging.String("input", input))
	return run, nil
}

// finish records the outcome and closes the ledger. err is returned unchanged.
func (s *stageRun) finish(finish history.Finish, err error) error {
	if services.Outcome(err) == services.OutcomeFailed {
		logging.ErrorWithContext(logging.WithContext(s.ctx, s.logger), "stage failed", s.kind+"_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check the external tool output above and rerun the stage"),
		)
	}
	if s.store == nil {
		return err
	}
	defer func() {
		_ = s.store.Close()
	}()
	finish.Status = services.Outcome(err)
	finish.Err = err
	// The run context may already be cancelled; the ledger write must still land.
	if recErr := s.store.FinishRun(context.WithoutCancel(s.ctx), s.id, finish); recErr != nil {
		s.warnHistory(recErr)
	}
	return err
}

func (s *stageRun) recordScenes(results []imagegen.SceneResult) {
	if s.store == nil {
		return
	}
	ctx := context.WithoutCancel(s.ctx)
	for _, result := range results {
		rec := history.SceneRecord{
			Sequence: result.Sequence,
			Filename: result.Filename,
			Status:   result.Status,
			Bytes:    result.Bytes,
		}
		if result.Err != nil {
			rec.Error = result.Err.Error()
		}
		if err := s.store.RecordScene(ctx, s.id, rec); err != nil {
			s.warnHistory(err)
			return
		}
	}
}

func (s *stageRun) warnHistory(err error) {
	logging.WarnWithContext(logging.WithContext(s.ctx, s.logger), "run history write failed", "history_write_failed",
		logging.Error(err),
		logging.String(logging.FieldImpact, "this run may be missing from lyricreel history"),
	)
}
