package captions

import (
	"strings"

	"github.com/rivo/uniseg"
)

// charCount counts user-perceived characters so combining marks and emoji
// sequences count once.
func charCount(s string) int {
	return uniseg.GraphemeClusterCount(s)
}

func graphemes(s string) []string {
	if s == "" {
		return nil
	}
	out := make([]string, 0, len(s))
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		out = append(out, g.Str())
	}
	return out
}

// hardCut splits s into pieces of at most size characters.
func hardCut(s string, size int) []string {
	if size <= 0 {
		return []string{s}
	}
	chars := graphemes(s)
	if len(chars) <= size {
		return []string{s}
	}
	pieces := make([]string, 0, len(chars)/size+1)
	for start := 0; start < len(chars); start += size {
		end := min(start+size, len(chars))
		pieces = append(pieces, strings.Join(chars[start:end], ""))
	}
	return pieces
}

// joinedWidth is the character count of words joined by single spaces.
func joinedWidth(words []string) int {
	if len(words) == 0 {
		return 0
	}
	total := len(words) - 1
	for _, w := range words {
		total += charCount(w)
	}
	return total
}
