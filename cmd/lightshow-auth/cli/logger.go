// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"io"
	"log/slog"
	"os"

	"golang.org/x/term"
)

// DebugEnvironmentVariable enables debug-level logging when set to any
// non-empty value.
const DebugEnvironmentVariable = "LIGHTSHOW_DEBUG"

// NewCommandLogger creates the logger for CLI commands on stderr. A
// terminal gets slog.TextHandler output; a pipe or file gets
// slog.JSONHandler so scripts and log shippers can parse it.
func NewCommandLogger() *slog.Logger {
	return newLogger(os.Stderr, term.IsTerminal(int(os.Stderr.Fd())), os.Getenv(DebugEnvironmentVariable) != "")
}

func newLogger(w io.Writer, terminal, debug bool) *slog.Logger {
	options := &slog.HandlerOptions{Level: slog.LevelInfo}
	if debug {
		options.Level = slog.LevelDebug
	}
	var handler slog.Handler
	if terminal {
		handler = slog.NewTextHandler(w, options)
	} else {
		handler = slog.NewJSONHandler(w, options)
	}
	return slog.New(handler)
}
