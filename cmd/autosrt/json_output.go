package main

import (
	"encoding/json"
	"time"

	"github.com/spf13/cobra"

	"autosrt/internal/history"
	"autosrt/internal/subformat"
)

// writeJSON encodes v as indented JSON to the command's stdout.
func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// historyRecord is the --json shape of one ledger row. Durations are
// seconds and timestamps RFC 3339 so scripts need no Go conventions.
type historyRecord struct {
	ID             int64   `json:"id"`
	RunID          string  `json:"run_id"`
	Source         string  `json:"source"`
	Output         string  `json:"output,omitempty"`
	Status         string  `json:"status"`
	Language       string  `json:"language,omitempty"`
	Script         string  `json:"script,omitempty"`
	Segments       int     `json:"segments"`
	Dropped        int     `json:"dropped"`
	Captions       int     `json:"captions"`
	ElapsedSeconds float64 `json:"elapsed_seconds"`
	Error          string  `json:"error,omitempty"`
	CreatedAt      string  `json:"created_at"`
}

func historyRecords(entries []history.Entry) []historyRecord {
	records := make([]historyRecord, 0, len(entries))
	for _, e := range entries {
		records = append(records, historyRecord{
			ID:             e.ID,
			RunID:          e.RunID,
			Source:         e.SourcePath,
			Output:         e.OutputPath,
			Status:         string(e.Status),
			Language:       e.Language,
			Script:         e.Script,
			Segments:       e.Segments,
			Dropped:        e.Dropped,
			Captions:       e.Captions,
			ElapsedSeconds: e.Elapsed.Round(time.Millisecond).Seconds(),
			Error:          e.ErrorMessage,
			CreatedAt:      e.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return records
}

// inspectRecord is the --json shape of a subtitle report. Cue times use the
// SRT timestamp form so they can be compared against the file by eye.
type inspectRecord struct {
	Path         string   `json:"path"`
	Bytes        int64    `json:"bytes"`
	Cues         int      `json:"cues"`
	Lines        int      `json:"lines"`
	FirstCue     string   `json:"first_cue"`
	LastCueEnd   string   `json:"last_cue_end"`
	MaxLineWidth int      `json:"max_line_width"`
	Healthy      bool     `json:"healthy"`
	Issues       []string `json:"issues"`
}

func newInspectRecord(r subformat.Report) inspectRecord {
	issues := r.Issues
	if issues == nil {
		issues = []string{}
	}
	return inspectRecord{
		Path:         r.Path,
		Bytes:        r.Bytes,
		Cues:         r.Cues,
		Lines:        r.Lines,
		FirstCue:     formatCueTime(r.First),
		LastCueEnd:   formatCueTime(r.Last),
		MaxLineWidth: r.MaxLineWidth,
		Healthy:      r.Healthy(),
		Issues:       issues,
	}
}
