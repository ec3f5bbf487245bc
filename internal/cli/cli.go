// Package cli implements the dxfscope command-line interface.
//
// The CLI wraps the analysis pipeline in four commands:
//   - analyze: run the full pipeline (stats, reports, previews, exports)
//   - stats: statistics and reports only
//   - preview: preview rendering only
//   - cache: manage the preview artifact cache
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context so nested code logs with the command's
// configuration. A dxfscope.toml file (or --config) supplies defaults for
// most flags; explicitly set flags always win.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"github.com/dxfscope/dxfscope/pkg/cache"
	"github.com/dxfscope/dxfscope/pkg/errors"
	"github.com/dxfscope/dxfscope/pkg/pipeline"
)

// appName is the application name used for directories and display.
const appName = "dxfscope"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// newLogger creates a logger with timestamp formatting, writing to w at the
// given level.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with
// the elapsed duration. Sequential use only.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time, rounded to milliseconds.
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

// ctxKey is the type for context keys used in this package.
type ctxKey int

const loggerKey ctxKey = 0

// withLogger returns a new context with the given logger attached.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext retrieves the logger from ctx, falling back to
// log.Default so commands always have a valid logger.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}

// userMessage returns the short user-facing message for an error, without
// the wrapped cause chain.
func userMessage(err error) string {
	return errors.UserMessage(err)
}

// newRunner creates a pipeline runner for CLI use.
func newRunner(noCache bool, logger *log.Logger) *pipeline.Runner {
	return pipeline.NewRunner(newCache(noCache), nil, logger)
}

// newCache builds the artifact cache, degrading to the null cache when the
// cache directory cannot be resolved or created.
func newCache(noCache bool) cache.Cache {
	if noCache {
		return cache.NewNullCache()
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache()
	}
	c, err := cache.NewFileCache(dir)
	if err != nil {
		return cache.NewNullCache()
	}
	return c
}

// cacheDir returns the cache directory using the XDG standard
// (~/.cache/dxfscope/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
