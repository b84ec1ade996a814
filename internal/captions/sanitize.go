package captions

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// Drop reasons reported in debug logs and stats.
const (
	dropInvalidTiming = "invalid_timing"
	dropEmpty         = "empty"
	dropPunctuation   = "punctuation_only"
	dropMusic         = "music_marker"
	dropNoise         = "noise_marker"
	dropTooShort      = "too_short"
)

var (
	punctuationOnlyPattern = regexp.MustCompile(`^[\s\p{Z}\p{P}\p{S}]+$`)
	musicPattern           = regexp.MustCompile(`(?i)^[\s\p{Z}\[\(（【♪♫]*(?:[♪♫¶]+|music|música|musica|musique|musik|музыка|音楽|音乐|音樂|음악)[\s\p{Z}\]\)）】♪♫]*$`)
	noisePattern           = regexp.MustCompile(`(?i)^[\s\p{Z}\[\(（【]*(?:noise|static|silence|inaudible|unintelligible|ruido|silencio|bruit|geräusch|stille|шум|тишина|噪音|杂音|雜音|静音|靜音|无声|無聲|雑音|無音|소음|침묵)[\s\p{Z}\]\)）】]*$`)

	whitespaceRun       = regexp.MustCompile(`[\s\p{Z}]+`)
	lineBreakRun        = regexp.MustCompile(`[\t\n\v\f\r\x{85}\x{2028}\x{2029}]+`)
	spaceBeforePunct    = regexp.MustCompile(`[\s\p{Z}]+([,.!?;:])`)
	sentencePunctuation = ",.!?;:"
)

// sanitize normalizes one raw segment. A non-empty reason means the segment
// carries nothing worth captioning and must be dropped.
func sanitize(seg Segment, script Script) (span, string) {
	if !seg.validTiming() {
		return span{}, dropInvalidTiming
	}
	text := script.normalize(seg.Text)
	if reason := dropReason(text, script.minChars()); reason != "" {
		return span{}, reason
	}
	return span{start: seg.Start, end: seg.End, text: text}, ""
}

func dropReason(text string, minChars int) string {
	switch {
	case text == "":
		return dropEmpty
	case punctuationOnlyPattern.MatchString(text):
		return dropPunctuation
	case musicPattern.MatchString(text):
		return dropMusic
	case noisePattern.MatchString(text):
		return dropNoise
	case charCount(text) < minChars:
		return dropTooShort
	}
	return ""
}

func (spaceDelimited) normalize(text string) string {
	text = norm.NFC.String(text)
	text = whitespaceRun.ReplaceAllString(text, " ")
	text = spaceBeforePunct.ReplaceAllString(text, "$1")
	text = spaceAfterPunctuation(text)
	return capitalizeFirst(strings.TrimSpace(text))
}

// Logographic text is kept character-faithful. Line breaks are flattened so a
// caption can never contain an SRT block separator.
func (logographic) normalize(text string) string {
	text = lineBreakRun.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// spaceAfterPunctuation inserts a space between a sentence mark and a letter
// or digit that follows it directly. Numbers such as 3.14 and 1,000 are left
// alone.
func spaceAfterPunctuation(text string) string {
	runes := []rune(text)
	var b strings.Builder
	b.Grow(len(text) + 8)
	for i, r := range runes {
		b.WriteRune(r)
		if !strings.ContainsRune(sentencePunctuation, r) || i+1 >= len(runes) {
			continue
		}
		next := runes[i+1]
		if !unicode.IsLetter(next) && !unicode.IsDigit(next) {
			continue
		}
		if i > 0 && unicode.IsDigit(runes[i-1]) && unicode.IsDigit(next) {
			continue
		}
		b.WriteByte(' ')
	}
	return b.String()
}

func capitalizeFirst(text string) string {
	chars := graphemes(text)
	if len(chars) == 0 {
		return text
	}
	first := []rune(chars[0])[0]
	if !unicode.IsLower(first) {
		return text
	}
	// Casers are stateful; build one per call so Writers stay goroutine safe.
	upper := cases.Upper(language.Und)
	return upper.String(chars[0]) + text[len(chars[0]):]
}
