package ai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// fallbackCompleter wraps two Completer implementations. It calls the primary
// first; if that returns an error it logs the failure and tries the
// secondary. Which provider is primary is decided in main.go.
type fallbackCompleter struct {
	primary   Completer
	secondary Completer
	logger    *slog.Logger
}

// NewFallbackCompleter returns a Completer that calls primary and, on
// failure, falls back to secondary. If primary is nil it goes straight to
// secondary; if secondary is nil and primary fails, the primary error is
// returned. Both nil is a configuration error reported on every call.
func NewFallbackCompleter(primary, secondary Completer, logger *slog.Logger) Completer {
	return &fallbackCompleter{
		primary:   primary,
		secondary: secondary,
		logger:    logger,
	}
}

// Complete tries the primary Completer, then the secondary.
func (f *fallbackCompleter) Complete(ctx context.Context, c Completion) (string, error) {
	if f.primary == nil && f.secondary == nil {
		return "", errors.New("ai: no completer configured")
	}

	if f.primary != nil {
		text, err := f.primary.Complete(ctx, c)
		if err == nil {
			return text, nil
		}
		f.logger.Warn("ai: primary completer failed, trying secondary",
			"error", err,
			"prompt_chars", len(c.Prompt),
		)
		if f.secondary == nil {
			return "", fmt.Errorf("ai: primary failed and no secondary configured: %w", err)
		}
		if ctx.Err() != nil {
			return "", fmt.Errorf("ai: primary failed: %w", err)
		}
	}

	return f.secondary.Complete(ctx, c)
}

// Chain folds completers into nested fallbacks, first entry tried first.
// Nil entries are skipped. It returns nil when no completer is given.
func Chain(logger *slog.Logger, completers ...Completer) Completer {
	var out Completer
	for i := len(completers) - 1; i >= 0; i-- {
		c := completers[i]
		if c == nil {
			continue
		}
		if out == nil {
			out = c
			continue
		}
		out = NewFallbackCompleter(c, out, logger)
	}
	return out
}
