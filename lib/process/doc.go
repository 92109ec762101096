// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package process holds the entrypoint helpers for light show binaries:
// reporting a fatal error on stderr before (or instead of) the
// structured logger, and leaving main with a specific exit status.
package process
