package logging

import (
	"context"
	"log/slog"
	"time"
)

type Attr = slog.Attr

func Bool(key string, value bool) Attr { return slog.Bool(key, value) }

func Float64(key string, value float64) Attr { return slog.Float64(key, value) }

func Int(key string, value int) Attr { return slog.Int(key, value) }

func Int64(key string, value int64) Attr { return slog.Int64(key, value) }

func String(key string, value string) Attr { return slog.String(key, value) }

func Error(err error) Attr {
	if err == nil {
		return slog.String(FieldError, "<nil>")
	}
	return slog.Any(FieldError, err)
}

// Caption pipeline attributes. Shared keys keep the console highlight order
// and the JSON log schema in step across packages.

func Script(mode string) Attr { return slog.String(FieldScript, mode) }

// Language records a transcription language code, or "auto" when the code
// is unknown.
func Language(code string) Attr {
	if code == "" {
		code = "auto"
	}
	return slog.String(FieldLanguage, code)
}

func Segments(n int) Attr { return slog.Int(FieldSegments, n) }

func Captions(n int) Attr { return slog.Int(FieldCaptions, n) }

func Output(path string) Attr { return slog.String(FieldOutput, path) }

// Elapsed rounds to milliseconds; console output never shows finer steps.
func Elapsed(d time.Duration) Attr { return slog.Duration(FieldElapsed, d.Round(time.Millisecond)) }

// Args converts attributes into the variadic form slog.Logger methods take.
func Args(attrs ...Attr) []any {
	args := make([]any, 0, len(attrs))
	for _, attr := range attrs {
		args = append(args, attr)
	}
	return args
}

func NewNop() *slog.Logger {
	return slog.New(discardHandler{})
}

// NewComponentLogger tags logger with a component name shown in brackets on
// console lines. A nil logger yields a no-op logger.
func NewComponentLogger(logger *slog.Logger, component string) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	return logger.With(String(FieldComponent, component))
}

// HasAttrKey reports whether any attribute in attrs uses key.
func HasAttrKey(attrs []Attr, key string) bool {
	for _, a := range attrs {
		if a.Key == key {
			return true
		}
	}
	return false
}

const (
	defaultErrorHint = "rerun with --log-level debug and check the log file"
	defaultImpact    = "subtitles for this file may be empty or incomplete"
)

// WarnWithContext logs a warning that always carries event_type, error_hint
// and impact, filling the defaults when attrs omits them.
func WarnWithContext(logger *slog.Logger, msg, eventType string, attrs ...Attr) {
	if logger == nil {
		return
	}
	attrs = withDefault(attrs, FieldImpact, defaultImpact)
	logger.Warn(msg, Args(eventAttrs(eventType, attrs)...)...)
}

// ErrorWithContext logs an error that always carries event_type and
// error_hint.
func ErrorWithContext(logger *slog.Logger, msg, eventType string, attrs ...Attr) {
	if logger == nil {
		return
	}
	logger.Error(msg, Args(eventAttrs(eventType, attrs)...)...)
}

func eventAttrs(eventType string, attrs []Attr) []Attr {
	attrs = withDefault(attrs, FieldEventType, eventType)
	return withDefault(attrs, FieldErrorHint, defaultErrorHint)
}

func withDefault(attrs []Attr, key, value string) []Attr {
	if HasAttrKey(attrs, key) {
		return attrs
	}
	return append(attrs, String(key, value))
}

type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool { return false }

func (discardHandler) Handle(context.Context, slog.Record) error { return nil }

func (h discardHandler) WithAttrs([]slog.Attr) slog.Handler { return h }

func (h discardHandler) WithGroup(string) slog.Handler { return h }
