// Package segmenter provides dictionary-backed word segmentation for Chinese
// and Japanese caption text. Dictionaries are compiled into the binary, so
// segmentation does not depend on files next to the module source.
package segmenter

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/go-ego/gse"

	"autosrt/internal/captions"
	"autosrt/internal/logging"
)

// Tokenizer modes accepted by New.
const (
	ModeDictionary = "dictionary"
	ModeCharacter  = "character"
)

// Dictionary tokenizes with a gse dictionary loaded on first use. Loading
// failures are logged once and the tokenizer then returns nothing, which
// the caption engine treats as a request for per-character tokens.
type Dictionary struct {
	dict   string
	logger *slog.Logger

	once sync.Once
	seg  gse.Segmenter
	err  error
}

// NewDictionary returns a lazily loaded dictionary tokenizer for the given
// language code. Japanese uses the bundled Japanese dictionary; everything
// else uses the Chinese one.
func NewDictionary(languageCode string, logger *slog.Logger) *Dictionary {
	return &Dictionary{
		dict:   dictionaryFor(languageCode),
		logger: logging.NewComponentLogger(logger, "segmenter"),
	}
}

func dictionaryFor(code string) string {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "ja" || code == "jpn" || strings.HasPrefix(code, "ja-") {
		return "ja"
	}
	return "zh"
}

func (d *Dictionary) load() error {
	d.once.Do(func() {
		defer func() {
			if r := recover(); r != nil {
				d.err = fmt.Errorf("load %s dictionary: %v", d.dict, r)
			}
		}()
		// gse reports progress through the standard logger.
		d.seg.SkipLog = true
		if d.dict == "ja" {
			d.err = d.seg.LoadDictEmbed("ja")
		} else {
			d.err = d.seg.LoadDictEmbed()
		}
		if d.err != nil {
			d.err = fmt.Errorf("load %s dictionary: %w", d.dict, d.err)
			logging.WarnWithContext(d.logger, "dictionary unavailable; using per-character tokens", "tokenizer_fallback",
				logging.String("dictionary", d.dict),
				logging.Error(d.err),
				logging.String(logging.FieldErrorHint, "reinstall autosrt or set captions.tokenizer = \"character\""),
				logging.String(logging.FieldImpact, "logographic captions break between characters instead of words"),
			)
			return
		}
		d.logger.Debug("dictionary loaded", logging.String("dictionary", d.dict))
	})
	return d.err
}

// Err reports the dictionary load error, loading it if needed.
func (d *Dictionary) Err() error { return d.load() }

// Tokenize implements captions.Tokenizer.
func (d *Dictionary) Tokenize(text string) []string {
	if text == "" || d.load() != nil {
		return nil
	}
	return d.seg.Cut(text, true)
}

// New returns the tokenizer selected by mode. Unknown modes fall back to
// per-character tokens.
func New(mode, languageCode string, logger *slog.Logger) captions.Tokenizer {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case ModeDictionary, "":
		return NewDictionary(languageCode, logger)
	default:
		return captions.GraphemeTokenizer{}
	}
}
