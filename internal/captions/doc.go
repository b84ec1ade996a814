// Package captions turns coarse transcription segments into a readable
// subtitle track.
//
// The pipeline is strictly sequential: segments are sanitized (noise and
// music markers dropped, spacing normalized), adjacent fragments merged,
// each merged span chunked into caption-sized pieces, and every chunk given
// a start/end time inside its span before the track is rendered as SubRip.
//
// Everything that depends on the writing system lives behind the Script
// strategy. Space-delimited scripts break on words and fold captions into up
// to two balanced lines; logographic scripts tokenize through an injectable
// Tokenizer (falling back to one grapheme per token) and break on
// punctuation and fill level, one line per caption.
//
// A Writer holds only immutable configuration and may be shared between
// goroutines. Bad segments are dropped individually; the only error a Writer
// reports is a failure to write the output file.
package captions
