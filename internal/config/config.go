package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains state and scratch directory configuration.
type Paths struct {
	StateDir string `toml:"state_dir"`
	LogDir   string `toml:"log_dir"`
	WorkDir  string `toml:"work_dir"`
}

// CaptionProfile holds the readability limits for one script family.
type CaptionProfile struct {
	MaxLineChars       int     `toml:"max_line_chars"`
	MaxLinesPerCaption int     `toml:"max_lines_per_caption"`
	TargetCPS          float64 `toml:"target_cps"`
	MinDuration        float64 `toml:"min_duration"`
	MaxDuration        float64 `toml:"max_duration"`
	MergeShortGap      float64 `toml:"merge_short_gap"`
	MergeMaxChars      int     `toml:"merge_max_chars"`
}

// Captions contains caption building configuration. The top-level limits
// apply to space-delimited scripts; Logographic applies to Chinese and
// Japanese text.
type Captions struct {
	Script             string         `toml:"script"`
	Tokenizer          string         `toml:"tokenizer"`
	OutputFormat       string         `toml:"output_format"`
	MaxLineChars       int            `toml:"max_line_chars"`
	MaxLinesPerCaption int            `toml:"max_lines_per_caption"`
	TargetCPS          float64        `toml:"target_cps"`
	MinDuration        float64        `toml:"min_duration"`
	MaxDuration        float64        `toml:"max_duration"`
	MergeShortGap      float64        `toml:"merge_short_gap"`
	MergeMaxChars      int            `toml:"merge_max_chars"`
	Logographic        CaptionProfile `toml:"logographic"`
}

// SpaceProfile returns the top-level limits as a profile.
func (c Captions) SpaceProfile() CaptionProfile {
	return CaptionProfile{
		MaxLineChars:       c.MaxLineChars,
		MaxLinesPerCaption: c.MaxLinesPerCaption,
		TargetCPS:          c.TargetCPS,
		MinDuration:        c.MinDuration,
		MaxDuration:        c.MaxDuration,
		MergeShortGap:      c.MergeShortGap,
		MergeMaxChars:      c.MergeMaxChars,
	}
}

// Transcription contains speech recognition settings.
type Transcription struct {
	Model          string `toml:"model"`
	Language       string `toml:"language"`
	CUDAEnabled    bool   `toml:"cuda_enabled"`
	BeamSize       int    `toml:"beam_size"`
	VADMethod      string `toml:"vad_method"`
	HFToken        string `toml:"hf_token"`
	WordTimestamps bool   `toml:"word_timestamps"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Scan contains media discovery settings.
type Scan struct {
	Extensions    []string `toml:"extensions"`
	MinSizeBytes  int64    `toml:"min_size_bytes"`
	SkipProcessed bool     `toml:"skip_processed"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format        string `toml:"format"`
	Level         string `toml:"level"`
	RetentionDays int    `toml:"retention_days"`
}

// Config encapsulates all configuration values for autosrt.
//
// Configuration sections by subsystem:
//   - Paths: state (history, lock), logs and scratch audio
//   - Captions: readability limits per script family and output format
//   - Transcription: WhisperX model and runtime options
//   - Scan: which media files a batch picks up
//   - Logging: log format, level, and retention
type Config struct {
	Paths         Paths         `toml:"paths"`
	Captions      Captions      `toml:"captions"`
	Transcription Transcription `toml:"transcription"`
	Scan          Scan          `toml:"scan"`
	Logging       Logging       `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/autosrt/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("autosrt.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the state and log directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.StateDir, c.Paths.LogDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	if c.Paths.WorkDir != "" {
		if err := os.MkdirAll(c.Paths.WorkDir, 0o755); err != nil {
			return fmt.Errorf("create work directory %q: %w", c.Paths.WorkDir, err)
		}
	}
	return nil
}

// HistoryPath is the SQLite ledger location.
func (c *Config) HistoryPath() string {
	return filepath.Join(c.Paths.StateDir, "history.db")
}

// LockPath is the batch single-instance lock file.
func (c *Config) LockPath() string {
	return filepath.Join(c.Paths.StateDir, "autosrt.lock")
}

// LogPath is the persistent log file inside the log directory.
func (c *Config) LogPath() string {
	return filepath.Join(c.Paths.LogDir, "autosrt.log")
}

// WorkDir returns the scratch directory, falling back to the OS temp dir.
func (c *Config) WorkDir() string {
	if c.Paths.WorkDir != "" {
		return c.Paths.WorkDir
	}
	return os.TempDir()
}

// FFmpegBinary returns the ffmpeg executable name used for audio extraction.
func (c *Config) FFmpegBinary() string {
	return "ffmpeg"
}

// UVXBinary returns the uvx executable name used to launch WhisperX.
func (c *Config) UVXBinary() string {
	return "uvx"
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

// Encode writes the effective configuration as TOML.
func (c *Config) Encode(w io.Writer) error {
	encoder := toml.NewEncoder(w)
	encoder.SetIndentTables(true)
	if err := encoder.Encode(c); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return nil
}
