// Package transcription runs speech recognition for a media file.
//
// Audio is extracted with ffmpeg to a mono 16 kHz WAV, then WhisperX is
// launched through uvx and its JSON result is loaded with the transcript
// package. A CUDA run that fails is retried once on the CPU. External
// commands go through a replaceable runner so tests never spawn processes.
package transcription
