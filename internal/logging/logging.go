// Package logging builds the process-wide slog.Logger.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Options configures New.
type Options struct {
	// Level is one of debug, info, warn, error. Anything else means info.
	Level string

	// File, when non-empty, receives a copy of every line through a
	// size-rotated lumberjack writer.
	File string
}

// ParseLevel maps a LOG_LEVEL string to a slog.Level, defaulting to Info.
func ParseLevel(s string) slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo
	}
	return lvl
}

// New returns a JSON logger writing to stdout (and the rotated file, if
// configured) plus a close func that releases the file. The close func is
// always safe to call.
func New(opts Options) (*slog.Logger, func() error) {
	return newLogger(os.Stdout, opts)
}

// NewFile is New without stdout: lines go only to opts.File. It is meant for
// the CLI, whose stdout is the command output. An empty File discards.
func NewFile(opts Options) (*slog.Logger, func() error) {
	return newLogger(io.Discard, opts)
}

func newLogger(stdout io.Writer, opts Options) (*slog.Logger, func() error) {
	out := stdout
	closeFn := func() error { return nil }

	if opts.File != "" {
		rotator := newRotator(opts.File)
		if stdout == io.Discard {
			out = rotator
		} else {
			out = io.MultiWriter(stdout, rotator)
		}
		closeFn = rotator.Close
	}

	handler := slog.NewJSONHandler(out, &slog.HandlerOptions{Level: ParseLevel(opts.Level)})
	return slog.New(handler), closeFn
}

func newRotator(path string) *lumberjack.Logger {
	return &lumberjack.Logger{
		Filename:   path,
		MaxSize:    10, // megabytes
		MaxBackups: 7,
		MaxAge:     7, // days
		Compress:   true,
	}
}
