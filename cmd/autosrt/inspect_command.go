package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"autosrt/internal/captions"
	"autosrt/internal/config"
	"autosrt/internal/subformat"
)

func newInspectCommand(ctx *commandContext) *cobra.Command {
	var maxLineChars int
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "inspect <subtitle-file>",
		Short: "Check a subtitle file for overlaps, ordering and line width",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}
			path, err := config.ExpandPath(strings.TrimSpace(args[0]))
			if err != nil {
				return err
			}
			limit := maxLineChars
			if !cmd.Flags().Changed("max-line-chars") {
				limit = cfg.Captions.MaxLineChars
			}

			report, err := subformat.Inspect(path, limit)
			if err != nil {
				return err
			}
			if jsonOutput {
				if err := writeJSON(cmd, newInspectRecord(report)); err != nil {
					return err
				}
			} else {
				printReport(cmd.OutOrStdout(), report, shouldColorize(cmd.OutOrStdout()))
			}
			if !report.Healthy() {
				return fmt.Errorf("%s: %d issue(s) found", path, len(report.Issues))
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&maxLineChars, "max-line-chars", 0, "Line width limit to check (default: captions.max_line_chars; 0 disables)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the report as JSON")
	return cmd
}

func printReport(out io.Writer, report subformat.Report, colorize bool) {
	rows := [][]string{
		{"Path", report.Path},
		{"Size", strconv.FormatInt(report.Bytes, 10) + " bytes"},
		{"Cues", strconv.Itoa(report.Cues)},
		{"Lines", strconv.Itoa(report.Lines)},
		{"First cue", formatCueTime(report.First)},
		{"Last cue end", formatCueTime(report.Last)},
		{"Widest line", strconv.Itoa(report.MaxLineWidth)},
	}
	fmt.Fprintln(out, renderTable(reportColumns, rows))

	if len(report.Issues) == 0 {
		fmt.Fprintln(out, renderStatusLine("Issues", statusOK, "none", colorize))
		return
	}
	kind := statusError
	if report.Healthy() {
		kind = statusInfo
	}
	for _, issue := range report.Issues {
		fmt.Fprintln(out, renderStatusLine("Issue", kind, issue, colorize))
	}
}

func formatCueTime(d time.Duration) string {
	return captions.FormatTimestamp(d.Seconds())
}
