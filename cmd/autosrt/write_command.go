package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"autosrt/internal/batch"
	"autosrt/internal/config"
	langpkg "autosrt/internal/language"
	"autosrt/internal/subformat"
	"autosrt/internal/transcript"
)

func newWriteCommand(ctx *commandContext) *cobra.Command {
	var outputPath string
	var language string
	var script string
	var format string

	cmd := &cobra.Command{
		Use:   "write <transcript.json>",
		Short: "Build a subtitle from an existing transcript",
		Long: `Read a WhisperX JSON transcript (or a bare array of segments) and write the
caption track without running speech recognition.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}
			input, err := config.ExpandPath(strings.TrimSpace(args[0]))
			if err != nil {
				return err
			}
			scriptValue, err := parseScriptFlag(script)
			if err != nil {
				return err
			}
			if scriptValue == "" {
				scriptValue = cfg.Captions.Script
			}
			formatValue, err := parseFormatFlag(format)
			if err != nil {
				return err
			}
			if formatValue == "" {
				formatValue = cfg.Captions.OutputFormat
			}

			tr, err := transcript.Load(input)
			if err != nil {
				return err
			}
			lang := langpkg.ToISO2(strings.TrimSpace(language))
			if lang == "" {
				lang = tr.Language
			}
			mode := langpkg.ResolveScript(scriptValue, lang, tr.Texts())

			out := strings.TrimSpace(outputPath)
			if out == "" {
				out = strings.TrimSuffix(input, filepath.Ext(input)) + subformat.Extension(formatValue)
			} else if out, err = config.ExpandPath(out); err != nil {
				return err
			}

			logger, err := ctx.logger()
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			writer, err := batch.NewCaptionWriter(cfg, mode, lang, logger)
			if err != nil {
				return err
			}
			stats, err := batch.WriteSubtitle(cmd.Context(), writer, out, formatValue, tr.Segments)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d captions to %s (script: %s, language: %s, segments: %d, dropped: %d)\n",
				stats.Captions, out, mode, dashIfEmpty(lang), stats.Segments, stats.Dropped)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output subtitle path (default: transcript path with the subtitle extension)")
	cmd.Flags().StringVarP(&language, "language", "l", "", "Language of the transcript (default: the language recorded in it)")
	cmd.Flags().StringVar(&script, "script", "", "Caption script: auto, space or logographic (default from config)")
	cmd.Flags().StringVarP(&format, "format", "f", "", "Subtitle format: srt or vtt (default from config)")
	return cmd
}
