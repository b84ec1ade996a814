package captions

import (
	"errors"
	"fmt"
	"math"

	"autosrt/internal/services"
)

// Options are the readability limits applied while building captions.
type Options struct {
	// MaxLineChars is the display width of one caption line, in characters.
	MaxLineChars int
	// MaxLinesPerCaption bounds how many lines one caption may show.
	MaxLinesPerCaption int
	// TargetCPS is the reading speed (characters per second) durations aim for.
	TargetCPS float64
	// MinDuration and MaxDuration clamp each caption's display time in seconds.
	MinDuration float64
	MaxDuration float64
	// MergeShortGap joins segments separated by less than this many seconds.
	MergeShortGap float64
	// MergeMaxChars stops merging once the combined text would reach this size.
	MergeMaxChars int
}

// Defaults for space-delimited text.
const (
	defaultMaxLineChars       = 42
	defaultMaxLinesPerCaption = 2
	defaultTargetCPS          = 15.0
	defaultMinDuration        = 1.0
	defaultMaxDuration        = 6.0
	defaultMergeShortGap      = 1.0
	defaultMergeMaxChars      = 200
)

// Defaults for logographic text. Chinese and Japanese captions carry far
// more meaning per character and are conventionally one short line.
const (
	defaultLogographicMaxLineChars  = 16
	defaultLogographicTargetCPS     = 6.0
	defaultLogographicMergeMaxChars = 80
)

// DefaultOptions returns the limits used for space-delimited scripts.
func DefaultOptions() Options {
	return Options{
		MaxLineChars:       defaultMaxLineChars,
		MaxLinesPerCaption: defaultMaxLinesPerCaption,
		TargetCPS:          defaultTargetCPS,
		MinDuration:        defaultMinDuration,
		MaxDuration:        defaultMaxDuration,
		MergeShortGap:      defaultMergeShortGap,
		MergeMaxChars:      defaultMergeMaxChars,
	}
}

// DefaultLogographicOptions returns the limits used for logographic scripts.
func DefaultLogographicOptions() Options {
	return Options{
		MaxLineChars:       defaultLogographicMaxLineChars,
		MaxLinesPerCaption: 1,
		TargetCPS:          defaultLogographicTargetCPS,
		MinDuration:        defaultMinDuration,
		MaxDuration:        defaultMaxDuration,
		MergeShortGap:      defaultMergeShortGap,
		MergeMaxChars:      defaultLogographicMergeMaxChars,
	}
}

// Validate reports the first unusable limit.
func (o Options) Validate() error {
	var problem error
	switch {
	case o.MaxLineChars <= 0:
		problem = errors.New("max_line_chars must be positive")
	case o.MaxLinesPerCaption <= 0:
		problem = errors.New("max_lines_per_caption must be positive")
	case !finite(o.TargetCPS) || o.TargetCPS <= 0:
		problem = errors.New("target_cps must be positive")
	case !finite(o.MinDuration) || o.MinDuration < 0:
		problem = errors.New("min_duration must not be negative")
	case !finite(o.MaxDuration) || o.MaxDuration <= 0:
		problem = errors.New("max_duration must be positive")
	case o.MinDuration > o.MaxDuration:
		problem = fmt.Errorf("min_duration (%.2f) must not exceed max_duration (%.2f)", o.MinDuration, o.MaxDuration)
	case !finite(o.MergeShortGap) || o.MergeShortGap < 0:
		problem = errors.New("merge_short_gap must not be negative")
	case o.MergeMaxChars < 0:
		problem = errors.New("merge_max_chars must not be negative")
	}
	if problem == nil {
		return nil
	}
	return services.Wrap(services.ErrValidation, "captions", "validate options", problem.Error(), nil)
}

// captionLimit is the character ceiling for one caption.
func (o Options) captionLimit() int {
	return o.MaxLineChars * o.MaxLinesPerCaption
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
