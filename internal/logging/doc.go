// Package logging assembles the structured slog loggers used across autosrt.
//
// It owns the console and JSON handlers, level and output plumbing, and the
// context helpers that tag log lines with the batch run, item, stage, and
// media path. A no-op logger is provided for tests and for library callers
// that do not pass one.
package logging
