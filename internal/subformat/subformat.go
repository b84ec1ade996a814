// Package subformat reads finished subtitle files back for inspection and
// converts rendered SRT into other formats.
package subformat

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/asticode/go-astisub"
	"github.com/rivo/uniseg"

	"autosrt/internal/services"
)

// Output formats.
const (
	FormatSRT    = "srt"
	FormatWebVTT = "vtt"
)

// Issue identifiers reported by Inspect.
const (
	IssueEmptyFile     = "empty_subtitle_file"
	IssueOverlap       = "overlapping_cues"
	IssueLineTooLong   = "line_too_long"
	IssueNonMonotonic  = "non_monotonic_timestamps"
	IssueInvertedTimes = "cue_ends_before_start"
)

// Extension returns the file extension, with dot, for format.
func Extension(format string) string {
	if format == FormatWebVTT {
		return ".vtt"
	}
	return ".srt"
}

// Report summarizes one subtitle file.
type Report struct {
	Path         string
	Bytes        int64
	Cues         int
	Lines        int
	First        time.Duration
	Last         time.Duration
	MaxLineWidth int
	Issues       []string
}

// Healthy reports whether Inspect found nothing wrong. An empty file is
// healthy: it is how silent media is represented.
func (r Report) Healthy() bool {
	for _, issue := range r.Issues {
		if issue != IssueEmptyFile {
			return false
		}
	}
	return true
}

// Inspect parses the subtitle file at path and checks it. maxLineChars of
// zero disables the line width check.
func Inspect(path string, maxLineChars int) (Report, error) {
	report := Report{Path: path}
	info, err := os.Stat(path)
	if err != nil {
		marker := services.ErrTransient
		if errors.Is(err, os.ErrNotExist) {
			marker = services.ErrNotFound
		}
		return report, services.Wrap(marker, "subformat", "inspect", path, err)
	}
	report.Bytes = info.Size()
	if info.Size() == 0 {
		report.Issues = append(report.Issues, IssueEmptyFile)
		return report, nil
	}
	subs, err := astisub.OpenFile(path)
	if err != nil {
		return report, services.Wrap(services.ErrValidation, "subformat", "parse", path, err)
	}
	analyze(&report, subs, maxLineChars)
	return report, nil
}

// InspectSRT checks rendered SRT held in memory.
func InspectSRT(data []byte, maxLineChars int) (Report, error) {
	report := Report{Bytes: int64(len(data))}
	if len(bytes.TrimSpace(data)) == 0 {
		report.Issues = append(report.Issues, IssueEmptyFile)
		return report, nil
	}
	subs, err := astisub.ReadFromSRT(bytes.NewReader(data))
	if err != nil {
		return report, services.Wrap(services.ErrValidation, "subformat", "parse", "srt", err)
	}
	analyze(&report, subs, maxLineChars)
	return report, nil
}

func analyze(report *Report, subs *astisub.Subtitles, maxLineChars int) {
	seen := make(map[string]struct{})
	flag := func(issue string) {
		if _, ok := seen[issue]; ok {
			return
		}
		seen[issue] = struct{}{}
		report.Issues = append(report.Issues, issue)
	}

	report.Cues = len(subs.Items)
	if report.Cues == 0 {
		flag(IssueEmptyFile)
		return
	}
	report.First = subs.Items[0].StartAt
	var prev *astisub.Item
	for _, item := range subs.Items {
		if item.EndAt < item.StartAt {
			flag(IssueInvertedTimes)
		}
		if prev != nil {
			if item.StartAt < prev.StartAt {
				flag(IssueNonMonotonic)
			} else if item.StartAt < prev.EndAt {
				flag(IssueOverlap)
			}
		}
		report.Last = max(report.Last, item.EndAt)
		for _, line := range item.Lines {
			report.Lines++
			width := uniseg.GraphemeClusterCount(line.String())
			report.MaxLineWidth = max(report.MaxLineWidth, width)
			if maxLineChars > 0 && width > maxLineChars {
				flag(IssueLineTooLong)
			}
		}
		prev = item
	}
}

// WriteWebVTT converts rendered SRT to WebVTT. Empty SRT becomes a header
// only document.
func WriteWebVTT(srt []byte, out io.Writer) error {
	if len(bytes.TrimSpace(srt)) == 0 {
		_, err := io.WriteString(out, "WEBVTT\n")
		return err
	}
	subs, err := astisub.ReadFromSRT(bytes.NewReader(srt))
	if err != nil {
		return fmt.Errorf("parse srt: %w", err)
	}
	if err := subs.WriteToWebVTT(out); err != nil {
		return fmt.Errorf("write webvtt: %w", err)
	}
	return nil
}

// Convert renders srt in format. SRT passes through unchanged.
func Convert(srt []byte, format string) ([]byte, error) {
	if format != FormatWebVTT {
		return srt, nil
	}
	var buf bytes.Buffer
	if err := WriteWebVTT(srt, &buf); err != nil {
		return nil, services.Wrap(services.ErrOutput, "subformat", "convert", format, err)
	}
	return buf.Bytes(), nil
}
