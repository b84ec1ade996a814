// Package services defines shared utilities consumed by the batch runner and
// the external tool adapters.
//
// Key responsibilities:
//   - Context helpers that stamp batch item IDs, stage names, media paths, and
//     run identifiers for logging.
//   - Structured error markers plus the Wrap helper that translate failures
//     into consistent history statuses.
//
// Use these helpers when wiring new processing steps so error handling and
// observability stay uniform across the pipeline.
package services
