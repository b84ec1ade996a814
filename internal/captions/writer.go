package captions

import (
	"context"
	"fmt"
	"log/slog"

	"autosrt/internal/fileutil"
	"autosrt/internal/logging"
	"autosrt/internal/services"
)

// Stats summarizes one pass over a transcript.
type Stats struct {
	Segments int            // raw segments received
	Dropped  int            // segments removed by the sanitizer
	Spans    int            // spans left after merging
	Failed   int            // spans abandoned because processing failed
	Captions int            // captions produced
	Reasons  map[string]int // drop counts keyed by reason
}

// Writer turns segments into a caption track under fixed options and a
// fixed script strategy.
type Writer struct {
	opts   Options
	script Script
	logger *slog.Logger
}

// NewWriter validates opts and binds them to script. A nil script selects
// the space-delimited strategy.
func NewWriter(opts Options, script Script, logger *slog.Logger) (*Writer, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if script == nil {
		script = SpaceDelimited()
	}
	return &Writer{
		opts:   opts,
		script: script,
		logger: logging.NewComponentLogger(logger, "captions"),
	}, nil
}

// Options returns the limits the writer was built with.
func (w *Writer) Options() Options { return w.opts }

// Script returns the writer's strategy.
func (w *Writer) Script() Script { return w.script }

// Build runs the caption pipeline. Captions are numbered from 1 in emission
// order.
func (w *Writer) Build(segments []Segment) ([]Caption, Stats) {
	return w.build(w.logger, segments)
}

func (w *Writer) build(logger *slog.Logger, segments []Segment) ([]Caption, Stats) {
	stats := Stats{Segments: len(segments)}
	spans := make([]span, 0, len(segments))
	for i, seg := range segments {
		sp, reason := sanitize(seg, w.script)
		if reason != "" {
			stats.Dropped++
			if stats.Reasons == nil {
				stats.Reasons = make(map[string]int)
			}
			stats.Reasons[reason]++
			logger.Debug("segment dropped",
				logging.Int("segment_index", i),
				logging.String("reason", reason),
				logging.Float64("start", seg.Start),
				logging.Float64("end", seg.End),
			)
			continue
		}
		spans = append(spans, sp)
	}

	spans = merge(spans, w.script, w.opts)
	stats.Spans = len(spans)

	var captions []Caption
	for i, sp := range spans {
		built, err := w.buildSpan(sp)
		if err != nil {
			stats.Failed++
			logging.WarnWithContext(logger, "caption span skipped", "caption_span_failed",
				logging.Int("span_index", i),
				logging.Float64("start", sp.start),
				logging.Float64("end", sp.end),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "inspect the transcript text around this time"),
				logging.String(logging.FieldImpact, "speech in this span has no subtitle"),
			)
			continue
		}
		captions = append(captions, built...)
	}
	for i := range captions {
		captions[i].Index = i + 1
	}
	stats.Captions = len(captions)
	return captions, stats
}

// buildSpan chunks and times one span. Zero-length spans yield nothing.
func (w *Writer) buildSpan(sp span) (captions []Caption, err error) {
	defer func() {
		if r := recover(); r != nil {
			captions, err = nil, fmt.Errorf("caption pipeline panic: %v", r)
		}
	}()
	if sp.end-sp.start <= 0 {
		return nil, nil
	}
	chunks := w.script.chunk(sp.text, w.opts)
	if len(chunks) == 0 {
		return nil, nil
	}
	return timeCaptions(sp, chunks, w.script, w.opts), nil
}

// Render builds the track and returns it as SRT.
func (w *Writer) Render(segments []Segment) ([]byte, Stats) {
	captions, stats := w.Build(segments)
	return FormatSRT(captions), stats
}

// WriteFile renders segments and atomically writes the SRT to path. A track
// with no captions is written as an empty file. The returned error is
// either the context error or a write failure matching services.ErrOutput.
func (w *Writer) WriteFile(ctx context.Context, path string, segments []Segment) (Stats, error) {
	logger := logging.WithContext(ctx, w.logger)
	if err := ctx.Err(); err != nil {
		return Stats{}, err
	}
	captions, stats := w.build(logger, segments)
	if err := fileutil.WriteFileAtomic(path, FormatSRT(captions), 0o644); err != nil {
		return stats, services.Wrap(services.ErrOutput, "captions", "write srt", path, err)
	}
	logger.Info("subtitle written",
		logging.String("path", path),
		logging.Script(string(w.script.Mode())),
		logging.Segments(stats.Segments),
		logging.Int("dropped", stats.Dropped),
		logging.Int("spans", stats.Spans),
		logging.Captions(stats.Captions),
	)
	return stats, nil
}
