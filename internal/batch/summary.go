package batch

import (
	"time"

	"autosrt/internal/history"
)

// Outcome describes what happened to one media file.
type Outcome struct {
	Source   string
	Output   string
	Status   history.Status
	Language string
	Script   string
	Segments int
	Dropped  int
	Captions int
	Elapsed  time.Duration
	Err      error
}

// Summary totals a batch.
type Summary struct {
	RunID     string
	Found     int
	Succeeded int
	Empty     int
	Skipped   int
	Failed    int
	Elapsed   time.Duration
	Items     []Outcome
}

func (s *Summary) add(o Outcome) {
	s.Items = append(s.Items, o)
	switch o.Status {
	case history.StatusSucceeded:
		s.Succeeded++
	case history.StatusEmpty:
		s.Empty++
	case history.StatusSkipped:
		s.Skipped++
	default:
		s.Failed++
	}
}

// Processed counts files that ended with a subtitle written by this run.
func (s Summary) Processed() int {
	return s.Succeeded + s.Empty
}
