package language

import (
	"strings"
	"unicode"

	xlanguage "golang.org/x/text/language"

	"autosrt/internal/captions"
)

// logographicScripts are ISO 15924 codes written without word spacing.
var logographicScripts = map[string]struct{}{
	"Hans": {},
	"Hant": {},
	"Hani": {},
	"Jpan": {},
	"Hira": {},
	"Kana": {},
}

// ScriptModeFor maps a language code to a caption script strategy. The
// boolean is false when the code is empty or names no known script.
func ScriptModeFor(code string) (captions.ScriptMode, bool) {
	code = strings.TrimSpace(code)
	if code == "" {
		return "", false
	}
	if e := lookup(code); e != nil {
		code = e.code2
	}
	tag, err := xlanguage.Parse(code)
	if err != nil {
		return "", false
	}
	script, confidence := tag.Script()
	if confidence == xlanguage.No {
		return "", false
	}
	if _, ok := logographicScripts[script.String()]; ok {
		return captions.ScriptLogographic, true
	}
	return captions.ScriptSpaceDelimited, true
}

// logographicShare is the fraction of letters that must be Han or kana
// before text is treated as logographic.
const logographicShare = 0.5

// DetectScript inspects recognized text. The boolean is false when the text
// holds no letters at all.
func DetectScript(texts []string) (captions.ScriptMode, bool) {
	letters, logographic := 0, 0
	for _, text := range texts {
		for _, r := range text {
			if !unicode.IsLetter(r) {
				continue
			}
			letters++
			if unicode.In(r, unicode.Han, unicode.Hiragana, unicode.Katakana) {
				logographic++
			}
		}
	}
	if letters == 0 {
		return "", false
	}
	if float64(logographic)/float64(letters) >= logographicShare {
		return captions.ScriptLogographic, true
	}
	return captions.ScriptSpaceDelimited, true
}

// ResolveScript picks the strategy for one media file. An explicit
// configured mode wins, then the language code, then the text itself;
// space-delimited is the fallback.
func ResolveScript(configured, languageCode string, texts []string) captions.ScriptMode {
	if mode, err := captions.ParseScriptMode(configured); err == nil {
		return mode
	}
	if mode, ok := ScriptModeFor(languageCode); ok {
		return mode
	}
	if mode, ok := DetectScript(texts); ok {
		return mode
	}
	return captions.ScriptSpaceDelimited
}
