// Package logging assembles structured slog loggers and formatting helpers used
// across lyricreel.
//
// It owns the configurable console/JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so stage code can tag log lines
// with the run identifier, stage, and scene sequence. Logs go to stderr by
// default; stdout is reserved for the reports printed by the CLI.
package logging
