package captions

// merge coalesces adjacent spans separated by less than MergeShortGap while
// the combined text stays under MergeMaxChars. It is a greedy single pass:
// only the accumulator and the next span are ever compared.
func merge(spans []span, script Script, opts Options) []span {
	if len(spans) == 0 {
		return nil
	}
	merged := make([]span, 0, len(spans))
	cur := spans[0]
	curLen := charCount(cur.text)
	for _, next := range spans[1:] {
		nextLen := charCount(next.text)
		gap := next.start - cur.end
		if gap < opts.MergeShortGap && curLen+nextLen < opts.MergeMaxChars {
			cur.end = max(cur.end, next.end)
			cur.text += script.joiner() + next.text
			curLen = charCount(cur.text)
			continue
		}
		merged = append(merged, cur)
		// Overlapping spans that could not be merged are trimmed so the
		// emitted track never runs backwards.
		if next.start < cur.end {
			next.start = cur.end
			next.end = max(next.end, next.start)
		}
		cur = next
		curLen = nextLen
	}
	return append(merged, cur)
}
