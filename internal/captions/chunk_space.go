package captions

import (
	"math"
	"strings"
	"unicode"
)

const sentenceEnders = ".?!;:"

// chunk splits space-delimited text into caption-sized pieces: greedy word
// accumulation, a sentence-boundary pass for anything still oversized, then
// bisection until the reading-speed minimum caption count is reached.
func (spaceDelimited) chunk(text string, opts Options) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	chunks := greedyWordChunks(words, opts)
	chunks = refineAtSentenceBreaks(chunks, opts.captionLimit())
	return ensureMinimumChunks(chunks, minimumCaptions(text, opts))
}

func greedyWordChunks(words []string, opts Options) []string {
	limit := opts.captionLimit()
	var chunks []string
	var current []string
	for _, w := range words {
		candidate := append(current[:len(current):len(current)], w)
		if fitsCaption(candidate, opts) {
			current = candidate
			continue
		}
		if len(current) > 0 {
			chunks = append(chunks, strings.Join(current, " "))
			current = nil
		}
		if fitsCaption([]string{w}, opts) {
			current = []string{w}
			continue
		}
		chunks = append(chunks, hardCut(w, limit)...)
	}
	if len(current) > 0 {
		chunks = append(chunks, strings.Join(current, " "))
	}
	return chunks
}

// fitsCaption reports whether words stay under the character ceiling and
// still wrap into the allowed number of lines.
func fitsCaption(words []string, opts Options) bool {
	if joinedWidth(words) > opts.captionLimit() {
		return false
	}
	return len(wrapLines(words, opts.MaxLineChars)) <= opts.MaxLinesPerCaption
}

// refineAtSentenceBreaks re-splits oversized chunks at sentence punctuation,
// hard-cutting only what no natural boundary can shrink.
func refineAtSentenceBreaks(chunks []string, limit int) []string {
	refined := make([]string, 0, len(chunks))
	for _, c := range chunks {
		if charCount(c) <= limit {
			refined = append(refined, c)
			continue
		}
		for _, piece := range packSentences(splitSentences(c), limit) {
			if charCount(piece) > limit {
				refined = append(refined, hardCut(piece, limit)...)
				continue
			}
			refined = append(refined, piece)
		}
	}
	return refined
}

// splitSentences cuts after every sentence mark that ends a word.
func splitSentences(text string) []string {
	runes := []rune(text)
	var out []string
	start := 0
	for i, r := range runes {
		if !strings.ContainsRune(sentenceEnders, r) {
			continue
		}
		if i+1 < len(runes) && !unicode.IsSpace(runes[i+1]) {
			continue
		}
		if s := strings.TrimSpace(string(runes[start : i+1])); s != "" {
			out = append(out, s)
		}
		start = i + 1
	}
	if s := strings.TrimSpace(string(runes[start:])); s != "" {
		out = append(out, s)
	}
	return out
}

func packSentences(sentences []string, limit int) []string {
	var out []string
	var buf string
	for _, s := range sentences {
		if buf == "" {
			buf = s
			continue
		}
		if charCount(buf)+1+charCount(s) <= limit {
			buf += " " + s
			continue
		}
		out = append(out, buf)
		buf = s
	}
	if buf != "" {
		out = append(out, buf)
	}
	return out
}

// minimumCaptions estimates how many captions the text needs so none has to
// be shown longer than MaxDuration at the target reading speed.
func minimumCaptions(text string, opts Options) int {
	perCaption := opts.TargetCPS * opts.MaxDuration
	if perCaption <= 0 {
		return 1
	}
	return max(1, int(math.Ceil(float64(charCount(text))/perCaption)))
}

// ensureMinimumChunks bisects the longest chunk until there are at least want
// chunks or nothing left can be split.
func ensureMinimumChunks(chunks []string, want int) []string {
	for len(chunks) < want {
		idx := 0
		longest := -1
		for i, c := range chunks {
			if n := charCount(c); n > longest {
				idx, longest = i, n
			}
		}
		left, right, ok := bisect(chunks[idx])
		if !ok {
			break
		}
		chunks = append(chunks[:idx], append([]string{left, right}, chunks[idx+1:]...)...)
	}
	return chunks
}

// bisect splits s at the whitespace nearest its middle, or at the middle
// character when s has no usable whitespace.
func bisect(s string) (string, string, bool) {
	chars := graphemes(s)
	if len(chars) < 2 {
		return "", "", false
	}
	mid := len(chars) / 2
	for d := 0; d <= len(chars); d++ {
		for _, p := range []int{mid + d, mid - d} {
			if p <= 0 || p >= len(chars)-1 || strings.TrimSpace(chars[p]) != "" {
				continue
			}
			left := strings.TrimSpace(strings.Join(chars[:p], ""))
			right := strings.TrimSpace(strings.Join(chars[p+1:], ""))
			if left != "" && right != "" {
				return left, right, true
			}
		}
	}
	return strings.Join(chars[:mid], ""), strings.Join(chars[mid:], ""), true
}
