package services_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"autosrt/internal/history"
	"autosrt/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrExternalTool, "transcription", "whisperx", "failed", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"transcription", "whisperx", "failed"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapWithoutDetailOrMarker(t *testing.T) {
	err := services.Wrap(nil, "", "", "", nil)
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected transient marker default, got %v", err)
	}
	if !strings.Contains(err.Error(), "service failure") {
		t.Fatalf("expected placeholder detail, got %q", err)
	}
}

func TestFailureStatusMapping(t *testing.T) {
	timeoutErr := services.Wrap(services.ErrTimeout, "transcription", "run", "took too long", nil)
	if status := services.FailureStatus(timeoutErr); status != history.StatusTimedOut {
		t.Fatalf("expected timed_out for timeout error, got %s", status)
	}

	deadline := fmt.Errorf("transcribe: %w", context.DeadlineExceeded)
	if status := services.FailureStatus(deadline); status != history.StatusTimedOut {
		t.Fatalf("expected timed_out for deadline, got %s", status)
	}

	missing := services.Wrap(services.ErrNotFound, "batch", "stat", "media vanished", nil)
	if status := services.FailureStatus(missing); status != history.StatusSkipped {
		t.Fatalf("expected skipped for not-found error, got %s", status)
	}

	outputErr := services.Wrap(services.ErrOutput, "captions", "write srt", "disk full", errors.New("io"))
	if status := services.FailureStatus(outputErr); status != history.StatusFailed {
		t.Fatalf("expected failed for output error, got %s", status)
	}

	if status := services.FailureStatus(nil); status != history.StatusFailed {
		t.Fatalf("expected failed for nil error, got %s", status)
	}
}
