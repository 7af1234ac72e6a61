package main

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"lyricreel/internal/config"
	"lyricreel/internal/history"
	"lyricreel/internal/logging"
	"lyricreel/internal/services"
)

type commandContext struct {
	configFlag   *string
	logLevelFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(configFlag, logLevelFlag *string) *commandContext {
	return &commandContext{
		configFlag:   configFlag,
		logLevelFlag: logLevelFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = services.Wrap(services.ErrConfiguration, "config", "load", "", err)
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = services.Wrap(services.ErrConfiguration, "config", "ensure directories", "", err)
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// loggerFor builds the process logger once. Console output goes to the
// command's stderr so tests can capture it.
func (c *commandContext) loggerFor(cmd *cobra.Command) (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		override := ""
		if c.logLevelFlag != nil {
			override = *c.logLevelFlag
		}
		c.logger, c.loggerErr = logging.NewFromConfig(cfg, override, cmd.ErrOrStderr())
		if c.loggerErr != nil {
			c.loggerErr = services.Wrap(services.ErrConfiguration, "config", "create logger", "", c.loggerErr)
		}
	})
	return c.logger, c.loggerErr
}

// openHistory returns the run ledger, or nil when it is disabled or cannot
// be opened. Failures are logged and never stop a run.
func (c *commandContext) openHistory(ctx context.Context, logger *slog.Logger) *history.Store {
	cfg, err := c.ensureConfig()
	if err != nil || !cfg.History.Enabled {
		return nil
	}
	store, err := history.Open(cfg.HistoryPath())
	if err != nil {
		logging.WarnWithContext(logging.WithContext(ctx, logger), "run history unavailable", "history_open_failed",
			logging.String("path", cfg.HistoryPath()),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check permissions on the state directory or set history.enabled = false"),
			logging.String(logging.FieldImpact, "this run is not recorded"),
		)
		return nil
	}
	return store
}

func newRunID() string {
	return uuid.NewString()
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
