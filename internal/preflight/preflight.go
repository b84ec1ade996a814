package preflight

import (
	"context"
	"fmt"
	"strings"

	"autosrt/internal/config"
	"autosrt/internal/deps"
	"autosrt/internal/services"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes all applicable preflight checks for the given config.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("State directory", cfg.Paths.StateDir),
		CheckDirectoryAccess("Log directory", cfg.Paths.LogDir),
	}
	if cfg.Paths.WorkDir != "" {
		results = append(results, CheckDirectoryAccess("Work directory", cfg.Paths.WorkDir))
	}
	for _, status := range CheckSystemDeps(ctx, cfg) {
		results = append(results, fromStatus(status))
	}
	if strings.EqualFold(cfg.Transcription.VADMethod, "pyannote") {
		results = append(results, CheckHFToken(cfg.Transcription.HFToken))
	}
	return results
}

// Err folds failed results into a single configuration error, or nil when
// every check passed.
func Err(results []Result) error {
	var failed []string
	for _, r := range results {
		if !r.Passed {
			failed = append(failed, fmt.Sprintf("%s: %s", r.Name, r.Detail))
		}
	}
	if len(failed) == 0 {
		return nil
	}
	return services.Wrap(
		services.ErrConfiguration,
		"preflight",
		"check",
		strings.Join(failed, "; "),
		nil,
	)
}

func fromStatus(status deps.Status) Result {
	if status.Available {
		detail := status.Path
		if status.Version != "" {
			detail = fmt.Sprintf("%s (%s)", status.Path, status.Version)
		}
		return Result{Name: status.Name, Passed: true, Detail: detail}
	}
	if status.Optional {
		return Result{Name: status.Name, Passed: true, Detail: status.Detail + " (optional)"}
	}
	return Result{Name: status.Name, Detail: status.Detail}
}
