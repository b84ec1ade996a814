// Command autosrt generates subtitle files for media directories.
//
// The generate command transcribes every media file it finds and writes a
// sibling .srt (or .vtt); write builds a subtitle from an existing
// transcript JSON without touching audio. inspect, history and preflight
// report on produced files, past runs and the local toolchain.
package main
