package batch_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/gofrs/flock"

	"autosrt/internal/batch"
	"autosrt/internal/captions"
	"autosrt/internal/config"
	"autosrt/internal/history"
	"autosrt/internal/logging"
	"autosrt/internal/services"
	"autosrt/internal/testsupport"
	"autosrt/internal/transcript"
)

type fakeTranscriber struct {
	mu      sync.Mutex
	results map[string]transcript.Transcript
	errs    map[string]error
	calls   []string
	hook    func(ctx context.Context, source string) error
}

func (f *fakeTranscriber) Transcribe(ctx context.Context, source, _, _ string) (transcript.Transcript, error) {
	f.mu.Lock()
	f.calls = append(f.calls, filepath.Base(source))
	f.mu.Unlock()
	if f.hook != nil {
		if err := f.hook(ctx, source); err != nil {
			return transcript.Transcript{}, err
		}
	}
	name := filepath.Base(source)
	if err := f.errs[name]; err != nil {
		return transcript.Transcript{}, err
	}
	return f.results[name], nil
}

func speech(lang string, texts ...string) transcript.Transcript {
	tr := transcript.Transcript{Language: lang}
	for i, text := range texts {
		start := float64(i * 3)
		tr.Segments = append(tr.Segments, captions.Segment{Start: start, End: start + 2.5, Text: text})
	}
	return tr
}

func setup(t *testing.T, opts ...testsupport.ConfigOption) (*config.Config, string, *history.Store) {
	t.Helper()
	cfg := testsupport.NewConfig(t, append([]testsupport.ConfigOption{testsupport.WithMinSize(1)}, opts...)...)
	cfg.Captions.Tokenizer = "character"
	root := filepath.Join(testsupport.BaseDir(cfg), "media")
	return cfg, root, testsupport.MustOpenHistory(t, cfg)
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}

func TestRunProcessesEveryFile(t *testing.T) {
	cfg, root, store := setup(t)
	for _, name := range []string{"a.mp4", "b.mkv", "c.avi", "d.mp4"} {
		testsupport.WriteFile(t, filepath.Join(root, name), 64)
	}
	testsupport.WriteText(t, filepath.Join(root, "d.srt"), "1\n00:00:00,000 --> 00:00:01,000\nold\n\n")

	fake := &fakeTranscriber{
		results: map[string]transcript.Transcript{
			"a.mp4": speech("en", "hello world", "this is a test"),
			"b.mkv": {Language: "en"},
		},
		errs: map[string]error{
			"c.avi": services.Wrap(services.ErrExternalTool, "transcription", "whisperx", "c.avi", errors.New("exit status 1")),
		},
	}
	runner := batch.NewRunner(cfg, fake, store, logging.NewNop())
	summary, err := runner.Run(context.Background(), root, batch.RunOptions{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.RunID == "" {
		t.Fatal("expected a run id")
	}
	if summary.Found != 4 || summary.Succeeded != 1 || summary.Empty != 1 || summary.Failed != 1 || summary.Skipped != 1 {
		t.Fatalf("unexpected summary %+v", summary)
	}
	if len(fake.calls) != 3 {
		t.Fatalf("expected 3 transcriptions, got %v", fake.calls)
	}

	srt := readFile(t, filepath.Join(root, "a.srt"))
	if !strings.HasPrefix(srt, "1\n00:00:00,000 --> ") || !strings.Contains(srt, "Hello world") {
		t.Fatalf("unexpected srt:\n%s", srt)
	}
	for _, name := range []string{"b.srt", "c.srt"} {
		if got := readFile(t, filepath.Join(root, name)); got != "" {
			t.Fatalf("%s should be empty, got %q", name, got)
		}
	}

	counts, err := store.CountByStatus(context.Background(), summary.RunID)
	if err != nil {
		t.Fatalf("CountByStatus: %v", err)
	}
	if counts[history.StatusSucceeded] != 1 || counts[history.StatusEmpty] != 1 || counts[history.StatusFailed] != 1 {
		t.Fatalf("unexpected ledger counts %v", counts)
	}
	failed, ok, err := store.LastForSource(context.Background(), filepath.Join(root, "c.avi"))
	if err != nil || !ok || !strings.Contains(failed.ErrorMessage, "exit status 1") {
		t.Fatalf("failed entry not recorded: %+v, %v, %v", failed, ok, err)
	}
}

func TestRunRetriesFailuresButNotSilentMedia(t *testing.T) {
	cfg, root, store := setup(t)
	testsupport.WriteFile(t, filepath.Join(root, "silent.mp4"), 64)
	testsupport.WriteFile(t, filepath.Join(root, "broken.mp4"), 64)
	fake := &fakeTranscriber{
		results: map[string]transcript.Transcript{"silent.mp4": {}},
		errs:    map[string]error{"broken.mp4": errors.New("boom")},
	}
	runner := batch.NewRunner(cfg, fake, store, logging.NewNop())
	if _, err := runner.Run(context.Background(), root, batch.RunOptions{}); err != nil {
		t.Fatalf("first run: %v", err)
	}

	fake.calls = nil
	fake.errs = nil
	fake.results["broken.mp4"] = speech("en", "fixed now")
	summary, err := runner.Run(context.Background(), root, batch.RunOptions{})
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if len(fake.calls) != 1 || fake.calls[0] != "broken.mp4" {
		t.Fatalf("expected only the failed file to be retried, got %v", fake.calls)
	}
	if summary.Succeeded != 1 || summary.Skipped != 1 {
		t.Fatalf("unexpected summary %+v", summary)
	}

	fake.calls = nil
	if _, err := runner.Run(context.Background(), root, batch.RunOptions{Force: true}); err != nil {
		t.Fatalf("forced run: %v", err)
	}
	if len(fake.calls) != 2 {
		t.Fatalf("force should regenerate everything, got %v", fake.calls)
	}
}

func TestRunResolvesLogographicScript(t *testing.T) {
	cfg, root, store := setup(t)
	testsupport.WriteFile(t, filepath.Join(root, "clip.mp4"), 64)
	fake := &fakeTranscriber{results: map[string]transcript.Transcript{
		"clip.mp4": speech("zh", "你好，世界。今天天气很好，我们一起去公园散步吧。"),
	}}
	summary, err := batch.NewRunner(cfg, fake, store, nil).Run(context.Background(), root, batch.RunOptions{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(summary.Items) != 1 || summary.Items[0].Script != string(captions.ScriptLogographic) {
		t.Fatalf("expected logographic script, got %+v", summary.Items)
	}
	srt := readFile(t, filepath.Join(root, "clip.srt"))
	for _, block := range strings.Split(strings.TrimSpace(srt), "\n\n") {
		lines := strings.Split(block, "\n")
		if len(lines) != 3 {
			t.Fatalf("logographic caption should have one text line: %q", block)
		}
	}
}

func TestRunWritesWebVTT(t *testing.T) {
	cfg, root, store := setup(t)
	testsupport.WriteFile(t, filepath.Join(root, "clip.mp4"), 64)
	fake := &fakeTranscriber{results: map[string]transcript.Transcript{"clip.mp4": speech("en", "hello there")}}
	if _, err := batch.NewRunner(cfg, fake, store, nil).Run(context.Background(), root, batch.RunOptions{Format: "webvtt"}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	vtt := readFile(t, filepath.Join(root, "clip.vtt"))
	if !strings.HasPrefix(vtt, "WEBVTT") || !strings.Contains(vtt, "Hello there") {
		t.Fatalf("unexpected vtt:\n%s", vtt)
	}
	if _, err := os.Stat(filepath.Join(root, "clip.srt")); !os.IsNotExist(err) {
		t.Fatal("vtt run should not write an srt")
	}
}

func TestRunRefusesConcurrentBatch(t *testing.T) {
	cfg, root, store := setup(t)
	testsupport.WriteFile(t, filepath.Join(root, "clip.mp4"), 64)
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	held := flock.New(cfg.LockPath())
	if ok, err := held.TryLock(); err != nil || !ok {
		t.Fatalf("TryLock: %v %v", ok, err)
	}
	defer held.Unlock()

	_, err := batch.NewRunner(cfg, &fakeTranscriber{}, store, nil).Run(context.Background(), root, batch.RunOptions{})
	if !errors.Is(err, batch.ErrBusy) {
		t.Fatalf("expected ErrBusy, got %v", err)
	}
}

func TestRunStopsOnCancellation(t *testing.T) {
	cfg, root, store := setup(t)
	for _, name := range []string{"a.mp4", "b.mp4", "c.mp4"} {
		testsupport.WriteFile(t, filepath.Join(root, name), 64)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	fake := &fakeTranscriber{hook: func(ctx context.Context, _ string) error {
		cancel()
		return ctx.Err()
	}}
	summary, err := batch.NewRunner(cfg, fake, store, nil).Run(ctx, root, batch.RunOptions{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(fake.calls) != 1 || len(summary.Items) != 0 {
		t.Fatalf("batch continued after cancellation: calls=%v items=%d", fake.calls, len(summary.Items))
	}
	if _, err := os.Stat(filepath.Join(root, "a.srt")); !os.IsNotExist(err) {
		t.Fatal("cancelled item should not get a placeholder subtitle")
	}
}

func TestRunRecordsTimeouts(t *testing.T) {
	cfg, root, store := setup(t, testsupport.WithTimeout(1))
	testsupport.WriteFile(t, filepath.Join(root, "slow.mp4"), 64)
	fake := &fakeTranscriber{hook: func(ctx context.Context, _ string) error {
		<-ctx.Done()
		return ctx.Err()
	}}
	summary, err := batch.NewRunner(cfg, fake, store, nil).Run(context.Background(), root, batch.RunOptions{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.Failed != 1 || summary.Items[0].Status != history.StatusTimedOut {
		t.Fatalf("expected timed out item, got %+v", summary.Items)
	}
}

func TestRunRejectsMissingRoot(t *testing.T) {
	cfg, root, store := setup(t)
	_, err := batch.NewRunner(cfg, &fakeTranscriber{}, store, nil).Run(context.Background(), filepath.Join(root, "nope"), batch.RunOptions{})
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
