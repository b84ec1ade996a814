package captions

import (
	"math"
	"strings"
	"unicode"
)

// nearFullRatio marks a chunk as approximately full for the soft break rule.
const nearFullRatio = 0.8

// chunk accumulates tokens up to the line width, breaking after punctuation
// and at natural stops once the chunk is nearly full.
func (l logographic) chunk(text string, opts Options) []string {
	limit := opts.MaxLineChars
	nearFull := int(math.Ceil(nearFullRatio * float64(limit)))
	tokens := tokenize(l.tokenizer, text)

	var chunks []string
	var cur []string
	curLen := 0
	flush := func() {
		if s := strings.TrimSpace(strings.Join(cur, "")); s != "" {
			chunks = append(chunks, s)
		}
		cur, curLen = nil, 0
	}

	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		n := charCount(tok)
		if curLen > 0 && curLen+n > limit {
			switch {
			case !isClosingPunct(tok):
				flush()
			case len(cur) > 1:
				// Carry the previous token so the mark does not open a line.
				carried := cur[len(cur)-1]
				cur = cur[:len(cur)-1]
				flush()
				cur, curLen = []string{carried}, charCount(carried)
			default:
				// A single token fills the line. The mark overflows here and
				// cutKeepingMarks moves a character down with it.
			}
		}
		cur = append(cur, tok)
		curLen += n

		if isClosingPunct(tok) {
			for i+1 < len(tokens) && isClosingPunct(tokens[i+1]) && curLen+charCount(tokens[i+1]) <= limit {
				i++
				cur = append(cur, tokens[i])
				curLen += charCount(tokens[i])
			}
			flush()
			continue
		}
		if curLen >= nearFull {
			if i+1 == len(tokens) {
				flush()
				continue
			}
			if next := tokens[i+1]; isClosingPunct(next) && curLen+charCount(next) <= limit {
				i++
				cur = append(cur, next)
				curLen += charCount(next)
				flush()
			}
		}
	}
	flush()

	out := make([]string, 0, len(chunks))
	for _, c := range chunks {
		out = append(out, cutKeepingMarks(c, limit)...)
	}
	return out
}

// cutKeepingMarks splits s into pieces of at most limit characters like
// hardCut, except that a piece never starts with closing punctuation: the
// last character of the previous piece moves down with the mark.
func cutKeepingMarks(s string, limit int) []string {
	chars := graphemes(s)
	if limit <= 0 || len(chars) <= limit {
		return []string{s}
	}
	var pieces []string
	var cur []string
	for _, g := range chars {
		if len(cur) >= limit {
			if isClosingPunct(g) && len(cur) > 1 {
				last := cur[len(cur)-1]
				pieces = append(pieces, strings.Join(cur[:len(cur)-1], ""))
				cur = []string{last}
			} else {
				pieces = append(pieces, strings.Join(cur, ""))
				cur = nil
			}
		}
		cur = append(cur, g)
	}
	if len(cur) > 0 {
		pieces = append(pieces, strings.Join(cur, ""))
	}
	return pieces
}

// isClosingPunct reports tokens made only of punctuation that ends a phrase
// and so must not start a line. Opening brackets and quotes are excluded.
func isClosingPunct(tok string) bool {
	tok = strings.TrimSpace(tok)
	if tok == "" {
		return false
	}
	for _, r := range tok {
		if !unicode.IsPunct(r) || unicode.In(r, unicode.Ps, unicode.Pi) {
			return false
		}
	}
	return true
}
