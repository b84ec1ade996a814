package logging_test

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"autosrt/internal/config"
	"autosrt/internal/logging"
	"autosrt/internal/services"
)

func newFileLogger(t *testing.T, format, level string) (*slog.Logger, func() string) {
	t.Helper()
	logPath := filepath.Join(t.TempDir(), "test.log")
	logger, err := logging.New(logging.Options{
		Format:           format,
		Level:            level,
		OutputPaths:      []string{logPath},
		ErrorOutputPaths: []string{logPath},
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	return logger, func() string {
		content, err := os.ReadFile(logPath)
		if err != nil {
			t.Fatalf("read log file: %v", err)
		}
		return string(content)
	}
}

func TestNewFromConfigWritesLogFile(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.LogDir = t.TempDir()

	logger, err := logging.NewFromConfig(&cfg)
	if err != nil {
		t.Fatalf("NewFromConfig returned error: %v", err)
	}
	logger.Info("hello from config")

	content, err := os.ReadFile(cfg.LogPath())
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(content), "hello from config") {
		t.Fatalf("expected message in log file, got %q", content)
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestConsoleLoggerOmitsSourceForInfo(t *testing.T) {
	logger, read := newFileLogger(t, "console", "info")
	logger.Info("message without caller")

	content := read()
	if strings.Contains(content, ".go:") {
		t.Fatalf("expected no caller information in info logs, got %q", content)
	}
	if !strings.Contains(content, "INFO") || !strings.Contains(content, "message without caller") {
		t.Fatalf("unexpected console output %q", content)
	}
}

func TestConsoleLoggerIncludesSourceForDebug(t *testing.T) {
	logger, read := newFileLogger(t, "console", "debug")
	logger.Debug("message with caller", "segment_index", 3)

	content := read()
	if !strings.Contains(content, "logger_test.go:") {
		t.Fatalf("expected caller information in debug logs, got %q", content)
	}
	if !strings.Contains(content, "segment_index: 3") {
		t.Fatalf("expected debug field listing, got %q", content)
	}
}

func TestConsoleLoggerFormatsComponentAndItem(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "console.log")
	base, err := logging.New(logging.Options{Format: "console", Level: "info", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	ctx := services.WithItemID(context.Background(), 7)
	ctx = services.WithStage(ctx, "captions")
	ctx = services.WithSource(ctx, "/media/shows/a.mkv")
	logger := logging.WithContext(ctx, logging.NewComponentLogger(base, "batch"))
	logger.Info("subtitle written",
		logging.Output("/media/shows/a.srt"),
		logging.Captions(12),
		logging.Elapsed(1500*time.Millisecond),
	)

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	text := string(content)
	for _, fragment := range []string{"[batch] #7 a.mkv (captions) – subtitle written", "- Output: /media/shows/a.srt", "- Captions: 12", "- Elapsed: 1.5s"} {
		if !strings.Contains(text, fragment) {
			t.Fatalf("expected %q in output %q", fragment, text)
		}
	}
}

func TestConsoleSubjectWithoutItem(t *testing.T) {
	logger, read := newFileLogger(t, "console", "info")
	ctx := services.WithStage(context.Background(), "transcribe")
	logging.WithContext(ctx, logger).Info("extracting audio")
	if content := read(); !strings.Contains(content, "INFO transcribe – extracting audio") {
		t.Fatalf("expected bare stage subject, got %q", content)
	}
}

func TestCaptionAttrsUseSharedKeys(t *testing.T) {
	logger, read := newFileLogger(t, "json", "info")
	logger.Info("captions built",
		logging.Script("logographic"),
		logging.Language(""),
		logging.Segments(4),
		logging.Captions(9),
		logging.Elapsed(1234567*time.Microsecond),
	)
	var payload map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(read())), &payload); err != nil {
		t.Fatalf("decode json log: %v", err)
	}
	if payload[logging.FieldScript] != "logographic" || payload[logging.FieldLanguage] != "auto" {
		t.Fatalf("unexpected script or language in %+v", payload)
	}
	if payload[logging.FieldSegments] != float64(4) || payload[logging.FieldCaptions] != float64(9) {
		t.Fatalf("unexpected counts in %+v", payload)
	}
	if payload[logging.FieldElapsed] != float64(1235*time.Millisecond) {
		t.Fatalf("expected elapsed rounded to milliseconds, got %v", payload[logging.FieldElapsed])
	}
}

func TestJSONLoggerUsesShortKeys(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "json.log")
	logger, err := logging.New(logging.Options{Format: "json", Level: "info", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Info("structured", logging.Script("space"))

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	var payload map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(string(content))), &payload); err != nil {
		t.Fatalf("decode json log: %v (%q)", err, content)
	}
	if payload["msg"] != "structured" || payload["level"] != "info" || payload["script"] != "space" {
		t.Fatalf("unexpected payload %+v", payload)
	}
	if _, ok := payload["ts"]; !ok {
		t.Fatalf("expected ts key, got %+v", payload)
	}
}

func TestWarnWithContextInjectsDefaults(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "warn.log")
	logger, err := logging.New(logging.Options{Format: "json", Level: "info", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logging.WarnWithContext(logger, "fallback used", "gpu_fallback", logging.Error(errors.New("cuda missing")))

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	var payload map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(string(content))), &payload); err != nil {
		t.Fatalf("decode json log: %v", err)
	}
	if payload[logging.FieldEventType] != "gpu_fallback" {
		t.Fatalf("expected event type, got %+v", payload)
	}
	if payload[logging.FieldErrorHint] == nil || payload[logging.FieldImpact] == nil {
		t.Fatalf("expected injected hint and impact, got %+v", payload)
	}
}

func TestContextFieldsIncludeRunAndSource(t *testing.T) {
	ctx := services.WithRequestID(context.Background(), "run-1")
	ctx = services.WithSource(ctx, "/media/a.mp4")
	fields := logging.ContextFields(ctx)
	keys := map[string]bool{}
	for _, f := range fields {
		keys[f.Key] = true
	}
	if !keys[logging.FieldCorrelationID] || !keys[logging.FieldSource] {
		t.Fatalf("unexpected context fields %+v", fields)
	}
	if logging.WithContext(context.Background(), nil) == nil {
		t.Fatal("expected nop logger for nil base")
	}
}

func TestPruneLogsRemovesOnlyOldLogFiles(t *testing.T) {
	dir := t.TempDir()
	old := filepath.Join(dir, "old.log")
	fresh := filepath.Join(dir, "fresh.log")
	keep := filepath.Join(dir, "autosrt.log")
	other := filepath.Join(dir, "notes.txt")
	for _, p := range []string{old, fresh, keep, other} {
		if err := os.WriteFile(p, []byte("x"), 0o644); err != nil {
			t.Fatalf("write %s: %v", p, err)
		}
	}
	past := time.Now().AddDate(0, 0, -90)
	for _, p := range []string{old, keep, other} {
		if err := os.Chtimes(p, past, past); err != nil {
			t.Fatalf("chtimes %s: %v", p, err)
		}
	}

	removed := logging.PruneLogs(logging.NewNop(), dir, 30, keep)
	if removed != 1 {
		t.Fatalf("expected 1 removal, got %d", removed)
	}
	if _, err := os.Stat(old); !os.IsNotExist(err) {
		t.Fatalf("expected old log removed, stat err=%v", err)
	}
	for _, p := range []string{fresh, keep, other} {
		if _, err := os.Stat(p); err != nil {
			t.Fatalf("expected %s to remain: %v", p, err)
		}
	}
	if logging.PruneLogs(nil, dir, 0) != 0 {
		t.Fatal("expected retention 0 to disable pruning")
	}
}
