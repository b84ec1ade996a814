package captions

import (
	"bytes"
	"fmt"
	"math"
)

// FormatTimestamp renders seconds as an SRT timestamp, rounded to the
// nearest millisecond. Negative and non-finite values render as zero.
func FormatTimestamp(seconds float64) string {
	if seconds < 0 || math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		seconds = 0
	}
	msTotal := int64(seconds*1000 + 0.5)
	hours := msTotal / 3_600_000
	msTotal %= 3_600_000
	minutes := msTotal / 60_000
	msTotal %= 60_000
	secs := msTotal / 1_000
	millis := msTotal % 1_000
	return fmt.Sprintf("%02d:%02d:%02d,%03d", hours, minutes, secs, millis)
}

// FormatSRT renders captions as SRT, numbering them from 1 in slice order.
// An empty slice renders as zero bytes.
func FormatSRT(captions []Caption) []byte {
	var buf bytes.Buffer
	for i, c := range captions {
		fmt.Fprintf(&buf, "%d\n", i+1)
		fmt.Fprintf(&buf, "%s --> %s\n", FormatTimestamp(c.Start), FormatTimestamp(c.End))
		for _, line := range c.Lines {
			buf.WriteString(line)
			buf.WriteByte('\n')
		}
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}
