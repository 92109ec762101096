// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli is the small command framework behind lightshow-auth: a
// tree of [Command] values dispatched by the first positional argument,
// pflag flag sets parsed per command, structured help output, and
// typo suggestions for unknown commands and flags.
//
// Commands signal a handled non-zero status (a denied check) by
// returning an [ExitError]; process.Fatal exits with its code without
// printing anything further.
package cli
