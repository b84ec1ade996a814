package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"autosrt/internal/config"
	"autosrt/internal/fileutil"
	"autosrt/internal/history"
	langpkg "autosrt/internal/language"
	"autosrt/internal/logging"
	"autosrt/internal/mediascan"
	"autosrt/internal/services"
	"autosrt/internal/subformat"
	"autosrt/internal/transcript"
)

// ErrBusy reports that another batch holds the lock.
var ErrBusy = errors.New("another autosrt batch is already running")

// Transcriber recognizes the speech in a media file.
type Transcriber interface {
	Transcribe(ctx context.Context, source, workDir, language string) (transcript.Transcript, error)
}

// RunOptions override configuration for one batch.
type RunOptions struct {
	// Language forces the spoken language; "" or "auto" uses the
	// configured language or detection.
	Language string
	// Script forces the caption script mode; "" uses the configured mode.
	Script string
	// Format selects "srt" or "vtt"; "" uses the configured format.
	Format string
	// Force regenerates subtitles that already exist.
	Force bool
}

// Runner processes media directories.
type Runner struct {
	cfg         *config.Config
	transcriber Transcriber
	store       *history.Store
	logger      *slog.Logger
}

// NewRunner wires a runner. store may be nil to skip the ledger.
func NewRunner(cfg *config.Config, transcriber Transcriber, store *history.Store, logger *slog.Logger) *Runner {
	return &Runner{
		cfg:         cfg,
		transcriber: transcriber,
		store:       store,
		logger:      logging.NewComponentLogger(logger, "batch"),
	}
}

type settings struct {
	language string
	script   string
	format   string
	force    bool
}

func (r *Runner) settings(opts RunOptions) settings {
	s := settings{
		language: strings.ToLower(strings.TrimSpace(opts.Language)),
		script:   strings.ToLower(strings.TrimSpace(opts.Script)),
		format:   strings.ToLower(strings.TrimSpace(opts.Format)),
		force:    opts.Force,
	}
	if s.language == "" || s.language == "auto" {
		s.language = r.cfg.Transcription.Language
	}
	if s.script == "" {
		s.script = r.cfg.Captions.Script
	}
	if s.format == "webvtt" {
		s.format = subformat.FormatWebVTT
	}
	if s.format == "" {
		s.format = r.cfg.Captions.OutputFormat
	}
	return s
}

// Run processes every media file found under root. It returns ctx.Err() if
// the batch is cancelled; per-file failures only show up in the summary.
func (r *Runner) Run(ctx context.Context, root string, opts RunOptions) (Summary, error) {
	started := time.Now()
	summary := Summary{RunID: uuid.NewString()}
	set := r.settings(opts)

	if err := r.cfg.EnsureDirectories(); err != nil {
		return summary, services.Wrap(services.ErrConfiguration, "batch", "ensure directories", "", err)
	}
	lock := flock.New(r.cfg.LockPath())
	ok, err := lock.TryLock()
	if err != nil {
		return summary, services.Wrap(services.ErrConfiguration, "batch", "acquire lock", r.cfg.LockPath(), err)
	}
	if !ok {
		return summary, ErrBusy
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			r.logger.Warn("failed to release batch lock", logging.Error(err))
		}
	}()

	ctx = services.WithRequestID(ctx, summary.RunID)
	logger := logging.WithContext(ctx, r.logger)
	logging.PruneLogs(logger, r.cfg.Paths.LogDir, r.cfg.Logging.RetentionDays, r.cfg.LogPath())

	scan := mediascan.FromConfig(r.cfg)
	scan.SubtitleExt = subformat.Extension(set.format)
	scan.SkipProcessed = scan.SkipProcessed && !set.force
	found, err := mediascan.Find(root, scan)
	if err != nil {
		return summary, err
	}
	summary.Found = len(found.Files) + found.Processed
	summary.Skipped = found.Processed
	logger.Info("batch started",
		logging.String("root", root),
		logging.Int("media_files", len(found.Files)),
		logging.Int("already_processed", found.Processed),
		logging.Int("ignored", found.Ignored),
		logging.Int64("total_bytes", found.TotalBytes),
		logging.Language(set.language),
		logging.Script(set.script),
		logging.String("format", set.format),
	)

	sampler := logging.NewProgressSampler(10)
	for i, file := range found.Files {
		if err := ctx.Err(); err != nil {
			summary.Elapsed = time.Since(started)
			return summary, err
		}
		itemCtx := services.WithItemID(ctx, int64(i+1))
		itemCtx = services.WithSource(itemCtx, file.Path)
		outcome := r.processItem(itemCtx, file.Path, set)
		if err := ctx.Err(); err != nil {
			summary.Elapsed = time.Since(started)
			return summary, err
		}
		summary.add(outcome)
		r.record(itemCtx, summary.RunID, outcome)
		if sampler.ShouldLog(i+1, len(found.Files)) {
			logger.Info("batch progress",
				logging.Int("done", i+1),
				logging.Int("total", len(found.Files)),
				logging.Float64("progress_percent", logging.Percent(i+1, len(found.Files))),
			)
		}
	}

	summary.Elapsed = time.Since(started)
	logger.Info("batch complete",
		logging.Int("found", summary.Found),
		logging.Int("succeeded", summary.Succeeded),
		logging.Int("empty", summary.Empty),
		logging.Int("skipped", summary.Skipped),
		logging.Int("failed", summary.Failed),
		logging.Elapsed(summary.Elapsed),
	)
	return summary, nil
}

func (r *Runner) processItem(ctx context.Context, source string, set settings) Outcome {
	logger := logging.WithContext(ctx, r.logger)
	started := time.Now()
	out := mediascan.SubtitlePathFor(source, subformat.Extension(set.format))
	outcome := Outcome{Source: source, Output: out}

	if !set.force && r.alreadyDone(ctx, source, out) {
		outcome.Status = history.StatusSkipped
		logger.Info("subtitle already exists; skipping", logging.Output(out))
		return outcome
	}

	itemCtx := ctx
	if seconds := r.cfg.Transcription.TimeoutSeconds; seconds > 0 {
		var cancel context.CancelFunc
		itemCtx, cancel = context.WithTimeout(ctx, time.Duration(seconds)*time.Second)
		defer cancel()
	}

	err := r.generate(itemCtx, source, out, set, &outcome)
	outcome.Elapsed = time.Since(started)
	if err == nil {
		logger.Info("subtitle generated",
			logging.Output(out),
			logging.String("status", string(outcome.Status)),
			logging.Language(outcome.Language),
			logging.Script(outcome.Script),
			logging.Captions(outcome.Captions),
			logging.Elapsed(outcome.Elapsed),
		)
		return outcome
	}

	outcome.Err = err
	if ctx.Err() != nil {
		return outcome
	}
	outcome.Status = services.FailureStatus(err)
	if writeErr := fileutil.WriteFileAtomic(out, nil, 0o644); writeErr != nil {
		logger.Error("failed to write placeholder subtitle",
			logging.Output(out),
			logging.Error(writeErr),
		)
	}
	logging.WarnWithContext(logger, "subtitle generation failed; wrote empty subtitle", "subtitle_failed",
		logging.Output(out),
		logging.String("status", string(outcome.Status)),
		logging.Error(err),
		logging.String(logging.FieldErrorHint, "run autosrt preflight and check the transcription logs"),
		logging.String(logging.FieldImpact, "this file has an empty subtitle and is retried next run"),
	)
	return outcome
}

// alreadyDone reports whether out already holds a subtitle. An empty file
// only counts when the ledger says the media was silent; empty files left by
// failures are retried.
func (r *Runner) alreadyDone(ctx context.Context, source, out string) bool {
	if fileutil.NonEmptyFile(out) {
		return true
	}
	if _, err := os.Stat(out); err != nil || r.store == nil {
		return false
	}
	last, ok, err := r.store.LastForSource(ctx, source)
	return err == nil && ok && last.Status == history.StatusEmpty
}

func (r *Runner) generate(ctx context.Context, source, out string, set settings, outcome *Outcome) error {
	tr, err := r.transcriber.Transcribe(services.WithStage(ctx, "transcribe"), source, r.cfg.WorkDir(), set.language)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return wrapContextErr(err)
	}
	lang := tr.Language
	if lang == "" {
		lang = langpkg.ToISO2(set.language)
	}
	mode := langpkg.ResolveScript(set.script, lang, tr.Texts())
	outcome.Language = lang
	outcome.Script = string(mode)

	ctx = services.WithStage(ctx, "captions")
	writer, err := NewCaptionWriter(r.cfg, mode, lang, logging.WithContext(ctx, r.logger))
	if err != nil {
		return err
	}

	stats, err := WriteSubtitle(ctx, writer, out, set.format, tr.Segments)
	if err != nil {
		return err
	}

	outcome.Segments = stats.Segments
	outcome.Dropped = stats.Dropped
	outcome.Captions = stats.Captions
	outcome.Status = history.StatusSucceeded
	if stats.Captions == 0 {
		outcome.Status = history.StatusEmpty
	}
	return nil
}

func wrapContextErr(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return services.Wrap(services.ErrTimeout, "batch", "process item", "per-item time limit reached", err)
	}
	return err
}

func (r *Runner) record(ctx context.Context, runID string, o Outcome) {
	if r.store == nil {
		return
	}
	entry := history.Entry{
		RunID:      runID,
		SourcePath: o.Source,
		OutputPath: o.Output,
		Status:     o.Status,
		Language:   o.Language,
		Script:     o.Script,
		Segments:   o.Segments,
		Dropped:    o.Dropped,
		Captions:   o.Captions,
		Elapsed:    o.Elapsed,
	}
	if o.Err != nil {
		entry.ErrorMessage = o.Err.Error()
	}
	if _, err := r.store.Record(ctx, entry); err != nil {
		logging.WarnWithContext(logging.WithContext(ctx, r.logger), "history entry not recorded", "history_write_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, fmt.Sprintf("check that %s is writable", r.store.Path())),
			logging.String(logging.FieldImpact, "autosrt history will not list this file"),
		)
	}
}
