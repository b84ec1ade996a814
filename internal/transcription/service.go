package transcription

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	langpkg "autosrt/internal/language"
	"autosrt/internal/logging"
	"autosrt/internal/services"
	"autosrt/internal/transcript"
)

// CommandRunner executes an external command to completion.
type CommandRunner func(ctx context.Context, name string, args ...string) error

// Service transcribes media files with WhisperX.
type Service struct {
	cfg    Config
	runner CommandRunner
	logger *slog.Logger
}

// NewService builds a service. Empty binaries and model fall back to
// defaults.
func NewService(cfg Config, logger *slog.Logger) *Service {
	if cfg.FFmpegBinary == "" {
		cfg.FFmpegBinary = DefaultFFmpeg
	}
	if cfg.UVXBinary == "" {
		cfg.UVXBinary = DefaultUVX
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.BeamSize <= 0 {
		cfg.BeamSize = DefaultBeamSize
	}
	if cfg.VADMethod == "" {
		cfg.VADMethod = VADMethodSilero
	}
	return &Service{
		cfg:    cfg,
		runner: execRunner,
		logger: logging.NewComponentLogger(logger, "transcription"),
	}
}

// WithCommandRunner replaces process execution, for tests.
func (s *Service) WithCommandRunner(runner CommandRunner) {
	if runner != nil {
		s.runner = runner
	}
}

// Model returns the configured model name.
func (s *Service) Model() string { return s.cfg.Model }

// Transcribe extracts the audio of source and recognizes it. language may be
// empty to let WhisperX detect it. Scratch files live in a fresh directory
// under workDir and are removed afterwards.
func (s *Service) Transcribe(ctx context.Context, source, workDir, language string) (transcript.Transcript, error) {
	logger := logging.WithContext(ctx, s.logger)
	if strings.TrimSpace(source) == "" {
		return transcript.Transcript{}, services.Wrap(services.ErrValidation, "transcription", "transcribe", "source path required", nil)
	}
	if workDir == "" {
		workDir = os.TempDir()
	}
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return transcript.Transcript{}, services.Wrap(services.ErrConfiguration, "transcription", "ensure work dir", workDir, err)
	}
	scratch, err := os.MkdirTemp(workDir, "autosrt-*")
	if err != nil {
		return transcript.Transcript{}, services.Wrap(services.ErrConfiguration, "transcription", "create scratch dir", workDir, err)
	}
	defer func() { _ = os.RemoveAll(scratch) }()

	audioPath := filepath.Join(scratch, "audio.wav")
	started := time.Now()
	if err := s.runner(ctx, s.cfg.FFmpegBinary, extractArgs(source, audioPath)...); err != nil {
		return transcript.Transcript{}, s.wrapRunError(ctx, "extract audio", source, err)
	}
	logger.Debug("audio extracted",
		logging.String("audio_path", audioPath),
		logging.Elapsed(time.Since(started)),
	)

	started = time.Now()
	cuda := s.cfg.CUDAEnabled
	err = s.runner(ctx, s.cfg.UVXBinary, s.whisperArgs(audioPath, scratch, language, cuda)...)
	if err != nil && cuda && ctx.Err() == nil {
		logging.WarnWithContext(logger, "gpu transcription failed; retrying on cpu", "whisperx_cpu_fallback",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check the CUDA driver or set transcription.cuda_enabled = false"),
			logging.String(logging.FieldImpact, "transcription runs slower on the cpu"),
		)
		cuda = false
		err = s.runner(ctx, s.cfg.UVXBinary, s.whisperArgs(audioPath, scratch, language, cuda)...)
	}
	if err != nil {
		return transcript.Transcript{}, s.wrapRunError(ctx, "whisperx", source, err)
	}

	result, err := transcript.Load(filepath.Join(scratch, "audio.json"))
	if err != nil {
		return transcript.Transcript{}, services.Wrap(services.ErrExternalTool, "transcription", "load whisperx output", source, err)
	}
	if result.Language == "" {
		result.Language = langpkg.ToISO2(language)
	}
	logger.Info("transcription complete",
		logging.String("model", s.cfg.Model),
		logging.Bool("cuda", cuda),
		logging.Language(result.Language),
		logging.Segments(len(result.Segments)),
		logging.Elapsed(time.Since(started)),
	)
	return result, nil
}

func (s *Service) wrapRunError(ctx context.Context, operation, source string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		if errors.Is(ctxErr, context.DeadlineExceeded) {
			return services.Wrap(services.ErrTimeout, "transcription", operation, source, ctxErr)
		}
		return ctxErr
	}
	var execErr *exec.Error
	if errors.As(err, &execErr) {
		return services.Wrap(services.ErrConfiguration, "transcription", operation, "required binary is not installed", err)
	}
	return services.Wrap(services.ErrExternalTool, "transcription", operation, source, err)
}

func extractArgs(source, dest string) []string {
	return []string{
		"-y",
		"-hide_banner",
		"-loglevel", "error",
		"-i", source,
		"-map", "0:a:0",
		"-vn",
		"-sn",
		"-dn",
		"-ac", "1",
		"-ar", "16000",
		"-c:a", "pcm_s16le",
		dest,
	}
}

// whisperArgs builds the uvx command line for WhisperX.
func (s *Service) whisperArgs(audioPath, outputDir, language string, cuda bool) []string {
	args := make([]string, 0, 32)
	if cuda {
		args = append(args, "--index-url", CUDAIndexURL, "--extra-index-url", PypiIndexURL)
	} else {
		args = append(args, "--index-url", PypiIndexURL)
	}
	args = append(args,
		"whisperx",
		audioPath,
		"--model", s.cfg.Model,
		"--batch_size", BatchSize,
		"--output_dir", outputDir,
		"--output_format", OutputFormat,
		"--segment_resolution", SegmentResolution,
		"--beam_size", strconv.Itoa(s.cfg.BeamSize),
		"--vad_method", s.cfg.VADMethod,
	)
	if s.cfg.VADMethod == VADMethodPyannote && s.cfg.HFToken != "" {
		args = append(args, "--hf_token", s.cfg.HFToken)
	}
	if !s.cfg.WordTimestamps {
		args = append(args, "--no_align")
	}
	if lang := langpkg.ToISO2(language); lang != "" {
		args = append(args, "--language", lang)
	}
	if cuda {
		args = append(args, "--device", CUDADevice)
	} else {
		args = append(args, "--device", CPUDevice, "--compute_type", CPUComputeType)
	}
	return args
}

func execRunner(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	// Torch 2.6 defaults torch.load to weights_only, which breaks the
	// WhisperX and pyannote checkpoints.
	if os.Getenv("TORCH_FORCE_NO_WEIGHTS_ONLY_LOAD") == "" {
		cmd.Env = append(os.Environ(), "TORCH_FORCE_NO_WEIGHTS_ONLY_LOAD=1")
	}
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(string(output)))
	}
	return nil
}
