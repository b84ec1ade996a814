// Package mediascan finds media files that need subtitles.
package mediascan

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"autosrt/internal/config"
	"autosrt/internal/fileutil"
	"autosrt/internal/services"
)

// Options control which files Find reports.
type Options struct {
	// Extensions are lowercase and dot-prefixed.
	Extensions   []string
	MinSizeBytes int64
	// SkipProcessed leaves out media whose subtitle already exists and has
	// content.
	SkipProcessed bool
	// SubtitleExt is the subtitle extension checked by SkipProcessed.
	// Empty means ".srt".
	SubtitleExt string
}

// FromConfig builds scan options from the application config.
func FromConfig(cfg *config.Config) Options {
	ext := ".srt"
	if cfg.Captions.OutputFormat == "vtt" {
		ext = ".vtt"
	}
	return Options{
		Extensions:    cfg.Scan.Extensions,
		MinSizeBytes:  cfg.Scan.MinSizeBytes,
		SkipProcessed: cfg.Scan.SkipProcessed,
		SubtitleExt:   ext,
	}
}

// File is one discovered media file.
type File struct {
	Path string
	Size int64
}

// Result lists discovered media, sorted by path.
type Result struct {
	Files      []File
	TotalBytes int64
	// Processed counts media skipped because a subtitle exists.
	Processed int
	// Ignored counts hidden, temporary, unreadable, or undersized media.
	Ignored int
}

// Paths returns the discovered file paths.
func (r Result) Paths() []string {
	paths := make([]string, len(r.Files))
	for i, f := range r.Files {
		paths[i] = f.Path
	}
	return paths
}

// Find walks root recursively. Hidden directories are not entered.
func Find(root string, opts Options) (Result, error) {
	var result Result
	info, err := os.Stat(root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return result, services.Wrap(services.ErrNotFound, "mediascan", "find", root, err)
		}
		return result, services.Wrap(services.ErrTransient, "mediascan", "find", root, err)
	}
	if !info.IsDir() {
		return result, services.Wrap(services.ErrValidation, "mediascan", "find", fmt.Sprintf("%s is not a directory", root), nil)
	}
	subtitleExt := opts.SubtitleExt
	if subtitleExt == "" {
		subtitleExt = ".srt"
	}

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			if d != nil && d.IsDir() && path != root {
				return fs.SkipDir
			}
			return walkErr
		}
		name := d.Name()
		if d.IsDir() {
			if path != root && strings.HasPrefix(name, ".") {
				return fs.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() || !slices.Contains(opts.Extensions, strings.ToLower(filepath.Ext(name))) {
			return nil
		}
		if isHiddenOrTemp(name) {
			result.Ignored++
			return nil
		}
		if opts.SkipProcessed && fileutil.NonEmptyFile(SubtitlePathFor(path, subtitleExt)) {
			result.Processed++
			return nil
		}
		fi, err := d.Info()
		if err != nil || fi.Size() < opts.MinSizeBytes {
			result.Ignored++
			return nil
		}
		result.Files = append(result.Files, File{Path: path, Size: fi.Size()})
		result.TotalBytes += fi.Size()
		return nil
	})
	if err != nil {
		return result, services.Wrap(services.ErrTransient, "mediascan", "walk", root, err)
	}
	slices.SortFunc(result.Files, func(a, b File) int { return strings.Compare(a.Path, b.Path) })
	return result, nil
}

func isHiddenOrTemp(name string) bool {
	return strings.HasPrefix(name, ".") || strings.HasPrefix(name, "~") || strings.HasSuffix(strings.ToLower(name), ".tmp")
}

// SubtitlePath returns the SRT path that sits beside media.
func SubtitlePath(media string) string {
	return SubtitlePathFor(media, ".srt")
}

// SubtitlePathFor swaps the media extension for ext.
func SubtitlePathFor(media, ext string) string {
	return strings.TrimSuffix(media, filepath.Ext(media)) + ext
}
