package captions

import "strings"

// wrapLines greedily fills lines of at most width characters. Words wider
// than a whole line are cut, and the final piece keeps filling its line.
func wrapLines(words []string, width int) []string {
	var lines []string
	var line string
	lineLen := 0
	place := func(w string, n int) {
		switch {
		case lineLen == 0:
			line, lineLen = w, n
		case lineLen+1+n <= width:
			line += " " + w
			lineLen += 1 + n
		default:
			lines = append(lines, line)
			line, lineLen = w, n
		}
	}
	for _, w := range words {
		n := charCount(w)
		if n <= width {
			place(w, n)
			continue
		}
		if lineLen > 0 {
			lines = append(lines, line)
			line, lineLen = "", 0
		}
		pieces := hardCut(w, width)
		for _, p := range pieces[:len(pieces)-1] {
			lines = append(lines, p)
		}
		last := pieces[len(pieces)-1]
		line, lineLen = last, charCount(last)
	}
	if lineLen > 0 {
		lines = append(lines, line)
	}
	return lines
}

// layout wraps a chunk into display lines. Two-line captions are rebalanced
// so the lines read at similar lengths.
func (spaceDelimited) layout(chunk string, opts Options) []string {
	words := strings.Fields(chunk)
	if len(words) == 0 {
		return nil
	}
	lines := wrapLines(words, opts.MaxLineChars)
	if len(lines) == 2 && opts.MaxLinesPerCaption >= 2 {
		if balanced, ok := balanceTwoLines(words, opts.MaxLineChars); ok {
			return balanced
		}
	}
	return lines
}

// balanceTwoLines picks the word boundary that minimises the longer line.
// Ties prefer the shorter first line.
func balanceTwoLines(words []string, width int) ([]string, bool) {
	best := -1
	bestLonger := 0
	bestFirst := 0
	for i := 1; i < len(words); i++ {
		first := joinedWidth(words[:i])
		second := joinedWidth(words[i:])
		if first > width || second > width {
			continue
		}
		longer := max(first, second)
		if best < 0 || longer < bestLonger || (longer == bestLonger && first < bestFirst) {
			best, bestLonger, bestFirst = i, longer, first
		}
	}
	if best < 0 {
		return nil, false
	}
	return []string{strings.Join(words[:best], " "), strings.Join(words[best:], " ")}, true
}

// layout keeps logographic captions on a single line. The logographic
// chunker already bounds chunks by the line width.
func (logographic) layout(chunk string, _ Options) []string {
	chunk = strings.TrimSpace(chunk)
	if chunk == "" {
		return nil
	}
	return []string{chunk}
}
