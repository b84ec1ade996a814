// Package batch generates subtitles for every media file under a directory.
//
// A Runner holds a single-instance lock for the whole batch, tags the run
// with a fresh id, and processes files one at a time: transcribe, resolve
// the caption script, build captions, write the subtitle beside the media.
// A failing file gets an empty subtitle and a ledger entry; it never stops
// the batch. Cancelling the context does.
package batch
