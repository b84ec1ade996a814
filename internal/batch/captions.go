package batch

import (
	"context"
	"log/slog"

	"autosrt/internal/captions"
	"autosrt/internal/config"
	"autosrt/internal/fileutil"
	"autosrt/internal/segmenter"
	"autosrt/internal/services"
	"autosrt/internal/subformat"
)

// OptionsFromProfile converts a configured profile to caption options.
func OptionsFromProfile(p config.CaptionProfile) captions.Options {
	return captions.Options{
		MaxLineChars:       p.MaxLineChars,
		MaxLinesPerCaption: p.MaxLinesPerCaption,
		TargetCPS:          p.TargetCPS,
		MinDuration:        p.MinDuration,
		MaxDuration:        p.MaxDuration,
		MergeShortGap:      p.MergeShortGap,
		MergeMaxChars:      p.MergeMaxChars,
	}
}

// ProfileFor returns the configured limits for mode.
func ProfileFor(cfg *config.Config, mode captions.ScriptMode) config.CaptionProfile {
	if mode == captions.ScriptLogographic {
		return cfg.Captions.Logographic
	}
	return cfg.Captions.SpaceProfile()
}

// NewCaptionWriter builds a caption writer for mode using the configured
// profile. languageCode picks the segmentation dictionary for logographic
// text.
func NewCaptionWriter(cfg *config.Config, mode captions.ScriptMode, languageCode string, logger *slog.Logger) (*captions.Writer, error) {
	var tokenizer captions.Tokenizer
	if mode == captions.ScriptLogographic {
		tokenizer = segmenter.New(cfg.Captions.Tokenizer, languageCode, logger)
	}
	script, err := captions.ScriptFor(mode, tokenizer)
	if err != nil {
		return nil, err
	}
	return captions.NewWriter(OptionsFromProfile(ProfileFor(cfg, mode)), script, logger)
}

// WriteSubtitle renders segments with writer and stores them at out in
// format. SRT goes straight through the writer; WebVTT is converted from the
// rendered SRT first.
func WriteSubtitle(ctx context.Context, writer *captions.Writer, out, format string, segments []captions.Segment) (captions.Stats, error) {
	if format != subformat.FormatWebVTT {
		return writer.WriteFile(ctx, out, segments)
	}
	data, stats := writer.Render(segments)
	if err := ctx.Err(); err != nil {
		return stats, err
	}
	converted, err := subformat.Convert(data, subformat.FormatWebVTT)
	if err != nil {
		return stats, err
	}
	if err := fileutil.WriteFileAtomic(out, converted, 0o644); err != nil {
		return stats, services.Wrap(services.ErrOutput, "captions", "write vtt", out, err)
	}
	return stats, nil
}
