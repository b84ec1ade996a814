package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateCaptions(); err != nil {
		return err
	}
	if err := c.validateTranscription(); err != nil {
		return err
	}
	if err := c.validateScan(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateCaptions() error {
	switch c.Captions.Script {
	case "auto", "space", "logographic":
	default:
		return fmt.Errorf("captions.script must be auto, space, or logographic (got %q)", c.Captions.Script)
	}
	switch c.Captions.Tokenizer {
	case "dictionary", "character":
	default:
		return fmt.Errorf("captions.tokenizer must be dictionary or character (got %q)", c.Captions.Tokenizer)
	}
	switch c.Captions.OutputFormat {
	case "srt", "vtt":
	default:
		return fmt.Errorf("captions.output_format must be srt or vtt (got %q)", c.Captions.OutputFormat)
	}
	if err := validateProfile("captions", c.Captions.SpaceProfile()); err != nil {
		return err
	}
	return validateProfile("captions.logographic", c.Captions.Logographic)
}

func validateProfile(section string, p CaptionProfile) error {
	switch {
	case p.MaxLineChars <= 0:
		return fmt.Errorf("%s.max_line_chars must be positive", section)
	case p.MaxLinesPerCaption <= 0:
		return fmt.Errorf("%s.max_lines_per_caption must be positive", section)
	case p.TargetCPS <= 0:
		return fmt.Errorf("%s.target_cps must be positive", section)
	case p.MinDuration < 0:
		return fmt.Errorf("%s.min_duration must not be negative", section)
	case p.MaxDuration <= 0:
		return fmt.Errorf("%s.max_duration must be positive", section)
	case p.MinDuration > p.MaxDuration:
		return fmt.Errorf("%s.min_duration must not exceed %s.max_duration", section, section)
	case p.MergeShortGap < 0:
		return fmt.Errorf("%s.merge_short_gap must not be negative", section)
	case p.MergeMaxChars < 0:
		return fmt.Errorf("%s.merge_max_chars must not be negative", section)
	}
	return nil
}

func (c *Config) validateTranscription() error {
	switch c.Transcription.VADMethod {
	case "", "silero", "pyannote":
	default:
		return fmt.Errorf("transcription.vad_method must be silero or pyannote (got %q)", c.Transcription.VADMethod)
	}
	if c.Transcription.VADMethod == "pyannote" && c.Transcription.HFToken == "" {
		return errors.New("transcription.hf_token is required for the pyannote VAD; set HF_TOKEN or use vad_method = \"silero\"")
	}
	return nil
}

func (c *Config) validateScan() error {
	if len(c.Scan.Extensions) == 0 {
		return errors.New("scan.extensions must list at least one extension")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error (got %q)", c.Logging.Level)
	}
}
