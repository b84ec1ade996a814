package captions

import "math"

// allocateDurations splits total seconds across chunks in proportion to each
// chunk's reading time. The result always sums to total.
//
// The clamp bounds widen to total/n when the configured limits cannot be
// met at all, so a short segment with many chunks or a long segment with
// few still conserves its span.
func allocateDurations(chunks []string, total float64, opts Options) []float64 {
	n := len(chunks)
	if n == 0 {
		return nil
	}
	durations := make([]float64, n)
	if total <= 0 {
		return durations
	}
	even := total / float64(n)
	lo := min(opts.MinDuration, even)
	hi := max(opts.MaxDuration, even)

	sum := 0.0
	for i, c := range chunks {
		durations[i] = clamp(float64(charCount(c))/opts.TargetCPS, opts.MinDuration, opts.MaxDuration)
		sum += durations[i]
	}
	if sum <= 0 {
		for i := range durations {
			durations[i] = even
		}
		return durations
	}
	scale := total / sum
	for i := range durations {
		durations[i] = clamp(durations[i]*scale, lo, hi)
	}
	conserveTotal(durations, total, lo, hi)
	return durations
}

// conserveTotal removes the residual left by clamping. Each pass spreads the
// residual evenly over the durations that can still move in its direction;
// every pass either clears the residual or pins at least one duration to a
// bound, so len(durations) passes suffice. Whatever floating-point dust is
// left goes onto the last duration.
func conserveTotal(durations []float64, total, lo, hi float64) {
	if len(durations) == 0 {
		return
	}
	for pass := 0; pass < len(durations); pass++ {
		residual := total - sumOf(durations)
		if residual == 0 {
			break
		}
		open := make([]int, 0, len(durations))
		for i, d := range durations {
			if (residual > 0 && d < hi) || (residual < 0 && d > lo) {
				open = append(open, i)
			}
		}
		if len(open) == 0 {
			break
		}
		share := residual / float64(len(open))
		for _, i := range open {
			durations[i] = clamp(durations[i]+share, lo, hi)
		}
	}
	last := len(durations) - 1
	durations[last] = math.Max(0, durations[last]+total-sumOf(durations))
}

// timeCaptions lays chunks end to end from the span start. The final caption
// ends exactly at the span end so rounding never drifts past it.
func timeCaptions(sp span, chunks []string, script Script, opts Options) []Caption {
	durations := allocateDurations(chunks, sp.end-sp.start, opts)
	captions := make([]Caption, 0, len(chunks))
	t := sp.start
	for i, chunk := range chunks {
		lines := script.layout(chunk, opts)
		if len(lines) == 0 {
			continue
		}
		end := t + durations[i]
		if i == len(chunks)-1 || end > sp.end {
			end = sp.end
		}
		end = max(end, t)
		captions = append(captions, Caption{Start: t, End: end, Lines: lines})
		t = end
	}
	return captions
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}

func sumOf(values []float64) float64 {
	total := 0.0
	for _, v := range values {
		total += v
	}
	return total
}
