package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"autosrt/internal/batch"
	"autosrt/internal/config"
	"autosrt/internal/history"
	"autosrt/internal/preflight"
)

func newGenerateCommand(ctx *commandContext) *cobra.Command {
	var language string
	var script string
	var format string
	var force bool
	var skipPreflight bool

	cmd := &cobra.Command{
		Use:   "generate <dir> [language]",
		Short: "Create subtitles for every media file under a directory",
		Long: `Transcribe every media file under <dir> and write a subtitle next to it.

Files that already have a subtitle are skipped unless --force is given. A file
that fails gets an empty subtitle and is retried on the next run.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) < 1 || len(args) > 2 {
				return fmt.Errorf("provide the media directory and optionally a language. Example: autosrt generate ~/Videos en\nRun autosrt generate --help for more details")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}
			root, err := config.ExpandPath(strings.TrimSpace(args[0]))
			if err != nil {
				return err
			}
			lang := strings.TrimSpace(language)
			if lang == "" && len(args) == 2 {
				lang = strings.TrimSpace(args[1])
			}
			scriptValue, err := parseScriptFlag(script)
			if err != nil {
				return err
			}
			formatValue, err := parseFormatFlag(format)
			if err != nil {
				return err
			}

			if !skipPreflight {
				if err := preflight.Err(preflight.RunAll(cmd.Context(), cfg)); err != nil {
					return err
				}
			}

			logger, err := ctx.logger()
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			store, err := history.Open(cfg.HistoryPath())
			if err != nil {
				return err
			}
			defer store.Close()

			runner := batch.NewRunner(cfg, transcriberFactory(cfg, logger), store, logger)
			summary, err := runner.Run(cmd.Context(), root, batch.RunOptions{
				Language: lang,
				Script:   scriptValue,
				Format:   formatValue,
				Force:    force,
			})
			if err != nil {
				return err
			}
			printSummary(cmd.OutOrStdout(), root, summary, shouldColorize(cmd.OutOrStdout()))
			return nil
		},
	}

	cmd.Flags().StringVarP(&language, "language", "l", "", "Spoken language (ISO code or name); default detects")
	cmd.Flags().StringVar(&script, "script", "", "Caption script: auto, space or logographic (default from config)")
	cmd.Flags().StringVarP(&format, "format", "f", "", "Subtitle format: srt or vtt (default from config)")
	cmd.Flags().BoolVar(&force, "force", false, "Regenerate subtitles that already exist")
	cmd.Flags().BoolVar(&skipPreflight, "skip-preflight", false, "Do not check ffmpeg and uvx before starting")
	return cmd
}

func printSummary(out io.Writer, root string, summary batch.Summary, colorize bool) {
	if len(summary.Items) > 0 {
		rows := make([][]string, 0, len(summary.Items))
		for _, item := range summary.Items {
			status := paint(string(item.Status), historyStatusKind(item.Status), colorize)
			detail := ""
			if item.Err != nil {
				detail = item.Err.Error()
			}
			rows = append(rows, []string{
				shortPath(root, item.Source),
				status,
				dashIfEmpty(item.Language),
				dashIfEmpty(item.Script),
				strconv.Itoa(item.Captions),
				formatElapsed(item.Elapsed),
				detail,
			})
		}
		fmt.Fprintln(out, renderTable(summaryColumns, rows))
	}
	fmt.Fprintf(out, "Found %d media files: %d succeeded, %d empty, %d skipped, %d failed (%s)\n",
		summary.Found, summary.Succeeded, summary.Empty, summary.Skipped, summary.Failed, formatElapsed(summary.Elapsed))
}
