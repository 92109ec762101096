// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides shared test helpers for lightshow packages.
//
// [WriteFile] writes fixture files (configuration layers, state files),
// creating parent directories as needed.
//
// [Logger] returns an slog.Logger that routes records through t.Log so
// they appear only for failing or verbose tests. [CaptureLogger]
// records output for tests asserting that a degraded value was logged
// rather than silently accepted.
//
// [RequireReceive] encapsulates the timeout safety valve pattern
// (select with time.After fallback) so tests waiting on goroutines
// cannot hang forever.
//
// All helpers call t.Fatalf on failure rather than returning errors,
// since test setup failures are not recoverable.
//
// This package has no lightshow-internal dependencies.
package testutil
