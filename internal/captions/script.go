package captions

import (
	"fmt"
	"strings"
)

// ScriptMode names a caption breaking strategy.
type ScriptMode string

const (
	// ScriptSpaceDelimited covers writing systems that separate words with spaces.
	ScriptSpaceDelimited ScriptMode = "space"
	// ScriptLogographic covers unspaced writing systems such as Chinese and Japanese.
	ScriptLogographic ScriptMode = "logographic"
)

// ParseScriptMode accepts the canonical mode names and common aliases.
func ParseScriptMode(value string) (ScriptMode, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "space", "space-delimited", "spaced", "latin", "alphabetic":
		return ScriptSpaceDelimited, nil
	case "logographic", "cjk", "unspaced":
		return ScriptLogographic, nil
	default:
		return "", fmt.Errorf("unknown script mode %q", value)
	}
}

// Script holds every pipeline rule that differs between writing systems.
// Implementations are provided by SpaceDelimited and Logographic.
type Script interface {
	// Mode identifies the strategy.
	Mode() ScriptMode

	normalize(text string) string
	minChars() int
	joiner() string
	chunk(text string, opts Options) []string
	layout(chunk string, opts Options) []string
}

// ScriptFor returns the strategy for mode. The tokenizer is only used by the
// logographic strategy and may be nil.
func ScriptFor(mode ScriptMode, tokenizer Tokenizer) (Script, error) {
	switch mode {
	case ScriptSpaceDelimited, "":
		return SpaceDelimited(), nil
	case ScriptLogographic:
		return Logographic(tokenizer), nil
	default:
		return nil, fmt.Errorf("unknown script mode %q", mode)
	}
}

type spaceDelimited struct{}

// SpaceDelimited returns the word-based strategy.
func SpaceDelimited() Script { return spaceDelimited{} }

func (spaceDelimited) Mode() ScriptMode { return ScriptSpaceDelimited }
func (spaceDelimited) minChars() int    { return 2 }
func (spaceDelimited) joiner() string   { return " " }

type logographic struct {
	tokenizer Tokenizer
}

// Logographic returns the token-based strategy. A nil tokenizer means one
// grapheme per token.
func Logographic(tokenizer Tokenizer) Script {
	return logographic{tokenizer: tokenizer}
}

func (logographic) Mode() ScriptMode { return ScriptLogographic }

// A single ideograph can be a complete utterance.
func (logographic) minChars() int  { return 1 }
func (logographic) joiner() string { return "" }
