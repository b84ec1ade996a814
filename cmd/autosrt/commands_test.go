package main

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"autosrt/internal/captions"
	"autosrt/internal/services"
	"autosrt/internal/testsupport"
	"autosrt/internal/transcript"
)

const sampleTranscript = `{"language":"en","segments":[{"start":0,"end":2,"text":"hello world"}]}`

func TestConfigInitAndValidate(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"config", "validate"}, env.configPath)
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Configuration valid")
	requireContains(t, out, env.configPath)

	target := filepath.Join(t.TempDir(), "config.toml")
	out, _, err = runCLI(t, []string{"config", "init", "--path", target}, "")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	if _, _, err := runCLI(t, []string{"config", "init", "--path", target}, ""); err == nil {
		t.Fatal("expected init to refuse overwriting")
	}
	if _, _, err := runCLI(t, []string{"config", "init", "--path", target, "--overwrite"}, ""); err != nil {
		t.Fatalf("config init --overwrite: %v", err)
	}
}

func TestConfigShowPrintsEffectiveConfig(t *testing.T) {
	env := setupCLITestEnv(t)
	out, _, err := runCLI(t, []string{"config", "show"}, env.configPath)
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	requireContains(t, out, "max_line_chars = 42")
	requireContains(t, out, env.cfg.Paths.StateDir)
}

func TestWriteCommandBuildsSRT(t *testing.T) {
	env := setupCLITestEnv(t)
	input := filepath.Join(env.baseDir, "talk.json")
	testsupport.WriteText(t, input, sampleTranscript)

	out, _, err := runCLI(t, []string{"write", input}, env.configPath)
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	requireContains(t, out, "Wrote 1 captions")
	requireContains(t, out, "script: space")

	data, err := os.ReadFile(filepath.Join(env.baseDir, "talk.srt"))
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	want := "1\n00:00:00,000 --> 00:00:02,000\nHello world\n\n"
	if string(data) != want {
		t.Fatalf("unexpected srt:\n%q\nwant:\n%q", data, want)
	}
}

func TestWriteCommandWebVTT(t *testing.T) {
	env := setupCLITestEnv(t)
	input := filepath.Join(env.baseDir, "talk.json")
	testsupport.WriteText(t, input, sampleTranscript)
	output := filepath.Join(env.baseDir, "out", "talk.vtt")
	if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
		t.Fatal(err)
	}

	if _, _, err := runCLI(t, []string{"write", input, "--format", "webvtt", "-o", output}, env.configPath); err != nil {
		t.Fatalf("write: %v", err)
	}
	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !strings.HasPrefix(string(data), "WEBVTT") || !strings.Contains(string(data), "Hello world") {
		t.Fatalf("unexpected vtt output:\n%s", data)
	}
}

func TestWriteCommandRejectsBadFlags(t *testing.T) {
	env := setupCLITestEnv(t)
	input := filepath.Join(env.baseDir, "talk.json")
	testsupport.WriteText(t, input, sampleTranscript)

	if _, _, err := runCLI(t, []string{"write", input, "--format", "ass"}, env.configPath); err == nil {
		t.Fatal("expected unsupported format error")
	}
	if _, _, err := runCLI(t, []string{"write", input, "--script", "runic"}, env.configPath); err == nil {
		t.Fatal("expected unsupported script error")
	}
	_, _, err := runCLI(t, []string{"write", filepath.Join(env.baseDir, "missing.json")}, env.configPath)
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestInspectCommand(t *testing.T) {
	env := setupCLITestEnv(t)
	good := filepath.Join(env.baseDir, "good.srt")
	testsupport.WriteText(t, good, "1\n00:00:00,000 --> 00:00:02,000\nHello world\n\n2\n00:00:02,000 --> 00:00:04,000\nAgain\n\n")

	out, _, err := runCLI(t, []string{"inspect", good}, env.configPath)
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	requireContains(t, out, "Cues")
	requireContains(t, out, "00:00:04,000")
	requireContains(t, out, "[OK] none")

	bad := filepath.Join(env.baseDir, "bad.srt")
	testsupport.WriteText(t, bad, "1\n00:00:00,000 --> 00:00:03,000\nHello\n\n2\n00:00:02,000 --> 00:00:04,000\nAgain\n\n")
	out, _, err = runCLI(t, []string{"inspect", bad}, env.configPath)
	if err == nil {
		t.Fatal("expected inspect to fail on overlapping cues")
	}
	requireContains(t, out, "overlapping_cues")
}

func TestInspectCommandJSON(t *testing.T) {
	env := setupCLITestEnv(t)
	path := filepath.Join(env.baseDir, "good.srt")
	testsupport.WriteText(t, path, "1\n00:00:00,500 --> 00:00:02,000\nHello world\n\n2\n00:00:02,000 --> 00:00:04,000\nAgain\n\n")

	out, _, err := runCLI(t, []string{"inspect", "--json", path}, env.configPath)
	if err != nil {
		t.Fatalf("inspect --json: %v", err)
	}
	var record inspectRecord
	if err := json.Unmarshal([]byte(out), &record); err != nil {
		t.Fatalf("decode inspect json: %v (%q)", err, out)
	}
	if record.Cues != 2 || !record.Healthy {
		t.Fatalf("unexpected record %+v", record)
	}
	if record.FirstCue != "00:00:00,500" || record.LastCueEnd != "00:00:04,000" {
		t.Fatalf("unexpected cue times %+v", record)
	}
	if record.Issues == nil || len(record.Issues) != 0 {
		t.Fatalf("expected empty issue list, got %#v", record.Issues)
	}
}

func TestGenerateCommandProcessesDirectory(t *testing.T) {
	env := setupCLITestEnv(t)
	media := filepath.Join(env.baseDir, "media")
	testsupport.WriteFile(t, filepath.Join(media, "clip.mp4"), 128)
	stub := &stubTranscriber{result: transcript.Transcript{
		Language: "en",
		Segments: []captions.Segment{{Start: 0, End: 2, Text: "hello from the test"}},
	}}
	useTranscriber(t, stub)

	out, _, err := runCLI(t, []string{"generate", media}, env.configPath)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	requireContains(t, out, "clip.mp4")
	requireContains(t, out, "1 succeeded")
	if stub.calls != 1 {
		t.Fatalf("expected one transcription, got %d", stub.calls)
	}
	data, err := os.ReadFile(filepath.Join(media, "clip.srt"))
	if err != nil {
		t.Fatalf("read subtitle: %v", err)
	}
	requireContains(t, string(data), "Hello from the test")

	out, _, err = runCLI(t, []string{"history"}, env.configPath)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	requireContains(t, out, "succeeded")
	requireContains(t, out, "clip.mp4")

	out, _, err = runCLI(t, []string{"history", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("history --json: %v", err)
	}
	var records []historyRecord
	if err := json.Unmarshal([]byte(out), &records); err != nil {
		t.Fatalf("decode history json: %v (%q)", err, out)
	}
	if len(records) != 1 || records[0].Status != "succeeded" || filepath.Base(records[0].Source) != "clip.mp4" {
		t.Fatalf("unexpected history records %+v", records)
	}

	out, _, err = runCLI(t, []string{"generate", media}, env.configPath)
	if err != nil {
		t.Fatalf("second generate: %v", err)
	}
	requireContains(t, out, "1 skipped")
	if stub.calls != 1 {
		t.Fatalf("expected existing subtitle to be skipped, got %d calls", stub.calls)
	}
}

func TestGenerateCommandWritesEmptySubtitleOnFailure(t *testing.T) {
	env := setupCLITestEnv(t)
	media := filepath.Join(env.baseDir, "media")
	testsupport.WriteFile(t, filepath.Join(media, "broken.mkv"), 128)
	useTranscriber(t, &stubTranscriber{err: services.Wrap(services.ErrExternalTool, "transcription", "whisperx", "exit status 1", nil)})

	out, _, err := runCLI(t, []string{"generate", media, "en"}, env.configPath)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	requireContains(t, out, "1 failed")
	info, err := os.Stat(filepath.Join(media, "broken.srt"))
	if err != nil {
		t.Fatalf("expected placeholder subtitle: %v", err)
	}
	if info.Size() != 0 {
		t.Fatalf("expected empty placeholder, got %d bytes", info.Size())
	}
}

func TestGenerateCommandStopsOnFailedPreflight(t *testing.T) {
	env := setupCLITestEnv(t)
	media := filepath.Join(env.baseDir, "media")
	testsupport.WriteFile(t, filepath.Join(media, "clip.mp4"), 128)
	stub := &stubTranscriber{}
	useTranscriber(t, stub)
	t.Setenv("PATH", t.TempDir())

	_, _, err := runCLI(t, []string{"generate", media}, env.configPath)
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected preflight configuration error, got %v", err)
	}
	if stub.calls != 0 {
		t.Fatalf("expected no transcription after failed preflight")
	}
}

func TestGenerateCommandValidatesArguments(t *testing.T) {
	env := setupCLITestEnv(t)
	if _, _, err := runCLI(t, []string{"generate"}, env.configPath); err == nil {
		t.Fatal("expected missing directory error")
	}
	if _, _, err := runCLI(t, []string{"generate", env.baseDir, "--format", "ass"}, env.configPath); err == nil {
		t.Fatal("expected unsupported format error")
	}
}

func TestHistoryCommandEmpty(t *testing.T) {
	env := setupCLITestEnv(t)
	out, _, err := runCLI(t, []string{"history"}, env.configPath)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	requireContains(t, out, "No runs recorded yet")

	if _, _, err := runCLI(t, []string{"history", "--limit", "-1"}, env.configPath); err == nil {
		t.Fatal("expected negative limit to be rejected")
	}
}

func TestPreflightCommand(t *testing.T) {
	env := setupCLITestEnv(t)
	out, _, err := runCLI(t, []string{"preflight"}, env.configPath)
	if err != nil {
		t.Fatalf("preflight: %v\n%s", err, out)
	}
	requireContains(t, out, "FFmpeg")
	requireContains(t, out, "[OK] ready")

	t.Setenv("PATH", t.TempDir())
	out, _, err = runCLI(t, []string{"preflight"}, env.configPath)
	if err == nil {
		t.Fatal("expected preflight failure without binaries")
	}
	requireContains(t, out, "2 check(s) failed")
}
