package main

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"autosrt/internal/captions"
	"autosrt/internal/subformat"
)

// parseFormatFlag accepts srt, vtt or webvtt. Empty means "use config".
func parseFormatFlag(value string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "":
		return "", nil
	case subformat.FormatSRT:
		return subformat.FormatSRT, nil
	case subformat.FormatWebVTT, "webvtt":
		return subformat.FormatWebVTT, nil
	default:
		return "", fmt.Errorf("unsupported format %q (use srt or vtt)", value)
	}
}

// parseScriptFlag accepts auto or any caption script mode. Empty means
// "use config".
func parseScriptFlag(value string) (string, error) {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" || value == "auto" {
		return value, nil
	}
	if _, err := captions.ParseScriptMode(value); err != nil {
		return "", fmt.Errorf("unsupported script %q (use auto, space or logographic)", value)
	}
	return value, nil
}

func formatElapsed(d time.Duration) string {
	switch {
	case d <= 0:
		return "-"
	case d < time.Second:
		return d.Round(time.Millisecond).String()
	default:
		return d.Round(100 * time.Millisecond).String()
	}
}

// shortPath shows path relative to root when it lives under it.
func shortPath(root, path string) string {
	if root == "" {
		return path
	}
	rel, err := filepath.Rel(root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return rel
}

func dashIfEmpty(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
