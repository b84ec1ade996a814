package captions

import (
	"math"
	"strings"
)

// Word is a recognized word with its own timing. Word timings are carried
// through loading so transcripts stay intact; caption rules do not use them.
type Word struct {
	Start float64
	End   float64
	Text  string
}

// Segment is one span of recognized speech as produced by the transcriber.
type Segment struct {
	Start float64
	End   float64
	Text  string
	Words []Word
}

// Duration returns the span length, or zero when the span is malformed.
func (s Segment) Duration() float64 {
	if !s.validTiming() {
		return 0
	}
	return s.End - s.Start
}

func (s Segment) validTiming() bool {
	for _, v := range []float64{s.Start, s.End} {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return false
		}
	}
	return s.End >= s.Start
}

// Caption is a timed, laid-out subtitle entry.
type Caption struct {
	Index int
	Start float64
	End   float64
	Lines []string
}

// Text returns the display text with lines separated by newlines.
func (c Caption) Text() string {
	return strings.Join(c.Lines, "\n")
}

// span is a sanitized or merged segment.
type span struct {
	start float64
	end   float64
	text  string
}
