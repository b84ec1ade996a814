package history

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"
)

func scanEntry(scanner interface{ Scan(dest ...any) error }) (Entry, error) {
	var (
		entry        Entry
		outputPath   sql.NullString
		status       string
		language     sql.NullString
		script       sql.NullString
		elapsedMS    int64
		errorMessage sql.NullString
		createdRaw   string
	)
	if err := scanner.Scan(
		&entry.ID,
		&entry.RunID,
		&entry.SourcePath,
		&outputPath,
		&status,
		&language,
		&script,
		&entry.Segments,
		&entry.Dropped,
		&entry.Captions,
		&elapsedMS,
		&errorMessage,
		&createdRaw,
	); err != nil {
		return Entry{}, err
	}
	entry.OutputPath = outputPath.String
	entry.Status = Status(status)
	entry.Language = language.String
	entry.Script = script.String
	entry.Elapsed = time.Duration(elapsedMS) * time.Millisecond
	entry.ErrorMessage = errorMessage.String
	if created, err := time.Parse(time.RFC3339Nano, createdRaw); err == nil {
		entry.CreatedAt = created
	}
	return entry, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func ensureContext(ctx context.Context) context.Context {
	if ctx != nil {
		return ctx
	}
	return context.Background()
}

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code() == sqliteBusyCode {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

// retryOnBusy retries op with exponential backoff while SQLite reports the
// database as busy.
func retryOnBusy(ctx context.Context, op func() error) error {
	delay := busyRetryInitialBackoff
	var lastErr error
	for attempt := 0; attempt < busyRetryAttempts; attempt++ {
		lastErr = op()
		if lastErr == nil || !isSQLiteBusy(lastErr) || attempt == busyRetryAttempts-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		delay = min(delay*2, busyRetryMaxBackoff)
	}
	return lastErr
}
