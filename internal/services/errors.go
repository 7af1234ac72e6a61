package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Markers classify stage errors. Wrap attaches exactly one of them.
var (
	ErrExternalTool  = errors.New("external tool error")
	ErrValidation    = errors.New("validation error")
	ErrConfiguration = errors.New("configuration error")
	ErrNotFound      = errors.New("not found")
	ErrTransient     = errors.New("transient failure")
	ErrAborted       = errors.New("aborted")
)

// Outcome values persisted in the run history.
const (
	OutcomeSucceeded = "succeeded"
	OutcomeFailed    = "failed"
	OutcomeInvalid   = "invalid"
	OutcomeAborted   = "aborted"
)

// Wrap tags err with marker and prefixes it with "stage: operation: message".
// A nil marker means ErrTransient; a nil err yields a marker-only error.
func Wrap(marker error, stage, operation, message string, err error) error {
	if marker == nil {
		marker = ErrTransient
	}
	detail := joinDetail(stage, operation, message)
	if err == nil {
		return fmt.Errorf("%w: %s", marker, detail)
	}
	return fmt.Errorf("%w: %s: %w", marker, detail, err)
}

// Outcome maps a stage error to the outcome recorded for the run.
// Context cancellation counts as an abort.
func Outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeSucceeded
	case errors.Is(err, ErrAborted), errors.Is(err, context.Canceled):
		return OutcomeAborted
	case errors.Is(err, ErrValidation), errors.Is(err, ErrConfiguration), errors.Is(err, ErrNotFound):
		return OutcomeInvalid
	default:
		return OutcomeFailed
	}
}

// ExitCode maps an error to the process exit status. Input problems exit 2,
// everything else that failed exits 1.
func ExitCode(err error) int {
	switch Outcome(err) {
	case OutcomeSucceeded:
		return 0
	case OutcomeInvalid:
		return 2
	default:
		return 1
	}
}

func joinDetail(fields ...string) string {
	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		if field = strings.TrimSpace(field); field != "" {
			parts = append(parts, field)
		}
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
