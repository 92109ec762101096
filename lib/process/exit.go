// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package process

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// exitCoder is implemented by errors that carry their own exit status
// and have already reported themselves (cli.ExitError).
type exitCoder interface {
	ExitCode() int
}

// Fatal writes "error: err" to stderr and exits with code 1. Use it in
// main() for errors from run() where the structured logger may not be
// initialized. An error carrying an exit code exits with that code and
// prints nothing.
func Fatal(err error) {
	os.Exit(report(os.Stderr, err))
}

// report writes err to w unless it carries an exit code, and returns
// the status to exit with.
func report(w io.Writer, err error) int {
	var coder exitCoder
	if errors.As(err, &coder) {
		return coder.ExitCode()
	}
	fmt.Fprintf(w, "error: %v\n", err)
	return 1
}
