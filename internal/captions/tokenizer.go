package captions

import "strings"

// Tokenizer splits unspaced text into minimal lexical units. The tokens must
// reassemble the input exactly when concatenated.
type Tokenizer interface {
	Tokenize(text string) []string
}

// TokenizerFunc adapts an ordinary function to the Tokenizer interface.
type TokenizerFunc func(text string) []string

// Tokenize calls f(text).
func (f TokenizerFunc) Tokenize(text string) []string { return f(text) }

// GraphemeTokenizer emits one user-perceived character per token. It is the
// fallback whenever a dictionary tokenizer is missing or misbehaves.
type GraphemeTokenizer struct{}

// Tokenize implements Tokenizer.
func (GraphemeTokenizer) Tokenize(text string) []string { return graphemes(text) }

// tokenize never fails: a nil tokenizer, a panic, an empty result, or tokens
// that do not reassemble the input all fall back to graphemes.
func tokenize(tokenizer Tokenizer, text string) (tokens []string) {
	if tokenizer == nil {
		return graphemes(text)
	}
	defer func() {
		if recover() != nil {
			tokens = graphemes(text)
		}
	}()
	tokens = tokenizer.Tokenize(text)
	if len(tokens) == 0 || strings.Join(tokens, "") != text {
		return graphemes(text)
	}
	return tokens
}
