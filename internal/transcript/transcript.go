// Package transcript loads recognized speech from WhisperX-style JSON.
//
// Two layouts are accepted: the WhisperX result object
// ({"language": "en", "segments": [...]}) and a bare array of segments.
// Segments missing a start or end time are kept with NaN timing so the
// caption sanitizer drops and counts them like any other malformed input.
package transcript

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"strings"

	"autosrt/internal/captions"
	"autosrt/internal/services"
)

// Transcript is a loaded recognition result.
type Transcript struct {
	// Language is the code reported by the recognizer, if any.
	Language string
	Segments []captions.Segment
}

// Text joins every segment's trimmed text with spaces.
func (t Transcript) Text() string {
	parts := make([]string, 0, len(t.Segments))
	for _, seg := range t.Segments {
		if text := strings.TrimSpace(seg.Text); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, " ")
}

// Texts returns each segment's raw text in order.
func (t Transcript) Texts() []string {
	texts := make([]string, len(t.Segments))
	for i, seg := range t.Segments {
		texts[i] = seg.Text
	}
	return texts
}

type wireWord struct {
	Word  string   `json:"word"`
	Start *float64 `json:"start"`
	End   *float64 `json:"end"`
}

type wireSegment struct {
	Text  string     `json:"text"`
	Start *float64   `json:"start"`
	End   *float64   `json:"end"`
	Words []wireWord `json:"words"`
}

type wirePayload struct {
	Language string        `json:"language"`
	Segments []wireSegment `json:"segments"`
}

// Load reads and parses the transcript at path.
func Load(path string) (Transcript, error) {
	if strings.TrimSpace(path) == "" {
		return Transcript{}, services.Wrap(services.ErrValidation, "transcript", "load", "transcript path is empty", nil)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		marker := services.ErrTransient
		if errors.Is(err, os.ErrNotExist) {
			marker = services.ErrNotFound
		}
		return Transcript{}, services.Wrap(marker, "transcript", "read", path, err)
	}
	t, err := Parse(data)
	if err != nil {
		return Transcript{}, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// Parse decodes transcript JSON in either accepted layout.
func Parse(data []byte) (Transcript, error) {
	data = bytes.TrimPrefix(bytes.TrimSpace(data), []byte("\xef\xbb\xbf"))
	if len(data) == 0 {
		return Transcript{}, services.Wrap(services.ErrValidation, "transcript", "parse", "transcript is empty", nil)
	}

	var payload wirePayload
	switch data[0] {
	case '[':
		if err := json.Unmarshal(data, &payload.Segments); err != nil {
			return Transcript{}, services.Wrap(services.ErrValidation, "transcript", "parse", "invalid segment array", err)
		}
	case '{':
		if err := json.Unmarshal(data, &payload); err != nil {
			return Transcript{}, services.Wrap(services.ErrValidation, "transcript", "parse", "invalid transcript object", err)
		}
	default:
		return Transcript{}, services.Wrap(services.ErrValidation, "transcript", "parse", "expected a JSON object or array", nil)
	}

	t := Transcript{
		Language: strings.ToLower(strings.TrimSpace(payload.Language)),
		Segments: make([]captions.Segment, 0, len(payload.Segments)),
	}
	for _, ws := range payload.Segments {
		seg := captions.Segment{
			Start: orNaN(ws.Start),
			End:   orNaN(ws.End),
			Text:  ws.Text,
		}
		for _, ww := range ws.Words {
			seg.Words = append(seg.Words, captions.Word{
				Start: orNaN(ww.Start),
				End:   orNaN(ww.End),
				Text:  ww.Word,
			})
		}
		t.Segments = append(t.Segments, seg)
	}
	return t, nil
}

func orNaN(v *float64) float64 {
	if v == nil {
		return math.NaN()
	}
	return *v
}
