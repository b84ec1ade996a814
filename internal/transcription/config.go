package transcription

import "autosrt/internal/config"

// Config captures WhisperX runtime settings.
type Config struct {
	Model          string
	CUDAEnabled    bool
	BeamSize       int
	VADMethod      string
	HFToken        string
	WordTimestamps bool
	FFmpegBinary   string
	UVXBinary      string
}

// FromConfig extracts transcription settings from the application config.
func FromConfig(cfg *config.Config) Config {
	return Config{
		Model:          cfg.Transcription.Model,
		CUDAEnabled:    cfg.Transcription.CUDAEnabled,
		BeamSize:       cfg.Transcription.BeamSize,
		VADMethod:      cfg.Transcription.VADMethod,
		HFToken:        cfg.Transcription.HFToken,
		WordTimestamps: cfg.Transcription.WordTimestamps,
		FFmpegBinary:   cfg.FFmpegBinary(),
		UVXBinary:      cfg.UVXBinary(),
	}
}

// WhisperX invocation constants.
const (
	DefaultModel      = "small"
	DefaultBeamSize   = 5
	CUDAIndexURL      = "https://download.pytorch.org/whl/cu128"
	PypiIndexURL      = "https://pypi.org/simple"
	BatchSize         = "8"
	SegmentResolution = "sentence"
	OutputFormat      = "json"
	CPUDevice         = "cpu"
	CUDADevice        = "cuda"
	CPUComputeType    = "int8"
	VADMethodSilero   = "silero"
	VADMethodPyannote = "pyannote"
	DefaultFFmpeg     = "ffmpeg"
	DefaultUVX        = "uvx"
)
