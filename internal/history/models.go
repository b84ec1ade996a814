package history

import "time"

// Status is the recorded outcome for one media file.
type Status string

const (
	// StatusSucceeded marks a subtitle written with at least one caption.
	StatusSucceeded Status = "succeeded"
	// StatusEmpty marks a subtitle written with no captions, such as for
	// silent media.
	StatusEmpty Status = "empty"
	// StatusSkipped marks media left alone, usually because a subtitle
	// already existed.
	StatusSkipped Status = "skipped"
	// StatusFailed marks media whose processing failed; an empty subtitle
	// stands in its place.
	StatusFailed Status = "failed"
	// StatusTimedOut marks media that exceeded the per-item time limit.
	StatusTimedOut Status = "timed_out"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusSucceeded, StatusEmpty, StatusSkipped, StatusFailed, StatusTimedOut:
		return true
	}
	return false
}

// Entry is one ledger row.
type Entry struct {
	ID           int64
	RunID        string
	SourcePath   string
	OutputPath   string
	Status       Status
	Language     string
	Script       string
	Segments     int
	Dropped      int
	Captions     int
	Elapsed      time.Duration
	ErrorMessage string
	CreatedAt    time.Time
}

// IsFailure reports whether the entry records an unsuccessful attempt.
func (e Entry) IsFailure() bool {
	return e.Status == StatusFailed || e.Status == StatusTimedOut
}
