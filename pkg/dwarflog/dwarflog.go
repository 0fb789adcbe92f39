// Package dwarflog is the ambient structured-logging seam: log/slog fanned
// out with github.com/samber/slog-multi. The pkg/dwarf packages do not log;
// cmd/dwarfdump records through the logger this package builds instead of
// constructing its own.
package dwarflog

import (
	"io"
	"log/slog"
	"os"

	slogmulti "github.com/samber/slog-multi"
)

// Options configures the fan-out logger New builds.
type Options struct {
	// Level is the minimum level emitted to either destination.
	Level slog.Leveler

	// FilePath, if non-empty, adds a second handler writing JSON records
	// to the file at this path (created/appended), in addition to the
	// always-present stderr text handler.
	FilePath string
}

// New builds the ambient logger: a text handler to stderr, plus — when
// opts.FilePath is set — a JSON handler fanned out to a log file via
// slogmulti.Fanout, so every record reaches both destinations.
func New(opts Options) (*slog.Logger, func() error, error) {
	level := opts.Level
	if level == nil {
		level = slog.LevelInfo
	}

	handlers := []slog.Handler{
		slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}),
	}

	closer := func() error { return nil }

	if opts.FilePath != "" {
		f, err := os.OpenFile(opts.FilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, err
		}
		handlers = append(handlers, slog.NewJSONHandler(f, &slog.HandlerOptions{Level: level}))
		closer = f.Close
	}

	return slog.New(slogmulti.Fanout(handlers...)), closer, nil
}

// Discard returns a logger that drops every record, for callers (tests,
// library consumers embedding dwarfkit without their own logging setup)
// that have no use for the ambient stream.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
