package transcript_test

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"autosrt/internal/services"
	"autosrt/internal/transcript"
)

func TestParseWhisperXObject(t *testing.T) {
	data := []byte(`{
	  "language": "EN",
	  "segments": [
	    {"start": 0.5, "end": 2.25, "text": " Hello there.",
	     "words": [{"word": "Hello", "start": 0.5, "end": 0.9}, {"word": "there.", "start": 1.0}]},
	    {"start": 3, "end": 4, "text": "General Kenobi"}
	  ]
	}`)
	tr, err := transcript.Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if tr.Language != "en" || len(tr.Segments) != 2 {
		t.Fatalf("unexpected transcript %+v", tr)
	}
	first := tr.Segments[0]
	if first.Start != 0.5 || first.End != 2.25 || first.Text != " Hello there." {
		t.Fatalf("unexpected first segment %+v", first)
	}
	if len(first.Words) != 2 || !math.IsNaN(first.Words[1].End) {
		t.Fatalf("expected missing word end to be NaN: %+v", first.Words)
	}
	if tr.Text() != "Hello there. General Kenobi" {
		t.Fatalf("Text() = %q", tr.Text())
	}
}

func TestParseBareArray(t *testing.T) {
	tr, err := transcript.Parse([]byte("\xef\xbb\xbf [{\"start\":0,\"end\":3,\"text\":\"你好，世界。\"},{\"end\":5,\"text\":\"x\"}]"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if tr.Language != "" || len(tr.Segments) != 2 {
		t.Fatalf("unexpected transcript %+v", tr)
	}
	if !math.IsNaN(tr.Segments[1].Start) {
		t.Fatalf("missing start should be NaN, got %v", tr.Segments[1].Start)
	}
	if tr.Segments[1].Duration() != 0 {
		t.Fatal("segment with missing start should report zero duration")
	}
}

func TestParseRejectsMalformedInput(t *testing.T) {
	for _, in := range []string{"", "   ", "42", `{"segments": "nope"}`, `[{"start": "zero"}]`} {
		if _, err := transcript.Parse([]byte(in)); !errors.Is(err, services.ErrValidation) {
			t.Fatalf("Parse(%q): expected validation error, got %v", in, err)
		}
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "clip.json")
	if err := os.WriteFile(path, []byte(`{"segments":[{"start":0,"end":1,"text":"hi"}]}`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	tr, err := transcript.Load(path)
	if err != nil || len(tr.Segments) != 1 {
		t.Fatalf("Load = %+v, %v", tr, err)
	}
	if _, err := transcript.Load(filepath.Join(dir, "missing.json")); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
