package config

const (
	defaultStateDir         = "~/.local/share/autosrt"
	defaultLogDir           = "~/.local/share/autosrt/logs"
	defaultLogRetentionDays = 30
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"

	defaultScript       = "auto"
	defaultTokenizer    = "dictionary"
	defaultOutputFormat = "srt"

	defaultWhisperModel   = "small"
	defaultBeamSize       = 5
	defaultVADMethod      = "silero"
	defaultMinMediaBytes  = 100 * 1024
	defaultMergeShortGap  = 1.0
	defaultMinDuration    = 1.0
	defaultMaxDuration    = 6.0
	defaultSkipProcessed  = true
	defaultSpaceLineChars = 42
	defaultCJKLineChars   = 16
)

// DefaultExtensions lists the media container extensions a batch scans for.
var DefaultExtensions = []string{
	".mp4", ".mov", ".avi", ".mkv", ".flv", ".wmv", ".webm", ".m4v", ".mpg",
	".mpeg", ".3gp", ".ogv", ".ts", ".mts", ".m2ts", ".vob", ".mp2", ".mpe",
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StateDir: defaultStateDir,
			LogDir:   defaultLogDir,
		},
		Captions: Captions{
			Script:             defaultScript,
			Tokenizer:          defaultTokenizer,
			OutputFormat:       defaultOutputFormat,
			MaxLineChars:       defaultSpaceLineChars,
			MaxLinesPerCaption: 2,
			TargetCPS:          15,
			MinDuration:        defaultMinDuration,
			MaxDuration:        defaultMaxDuration,
			MergeShortGap:      defaultMergeShortGap,
			MergeMaxChars:      200,
			Logographic: CaptionProfile{
				MaxLineChars:       defaultCJKLineChars,
				MaxLinesPerCaption: 1,
				TargetCPS:          6,
				MinDuration:        defaultMinDuration,
				MaxDuration:        defaultMaxDuration,
				MergeShortGap:      defaultMergeShortGap,
				MergeMaxChars:      80,
			},
		},
		Transcription: Transcription{
			Model:     defaultWhisperModel,
			BeamSize:  defaultBeamSize,
			VADMethod: defaultVADMethod,
		},
		Scan: Scan{
			Extensions:    append([]string(nil), DefaultExtensions...),
			MinSizeBytes:  defaultMinMediaBytes,
			SkipProcessed: defaultSkipProcessed,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultLogRetentionDays,
		},
	}
}
