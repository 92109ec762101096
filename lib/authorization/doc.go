// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package authorization decides whether a user may run a light show
// command right now.
//
// An [Engine] combines the static [permission.Table] with the shared
// throttle counters in [throttle.Store]. [Engine.Authorize] evaluates,
// in order:
//
//  1. Blacklist: a blacklisted user is always denied, before anything
//     else is consulted and without touching the throttle counters.
//  2. Grant: the user must be granted "all", or the command must be
//     granted to "all", or the command must be granted to the user.
//  3. Throttle: the first declared group that contains the user and
//     limits the command (or "all") governs the call. Its "all" limit
//     is checked and counted first, then its per-command limit. Either
//     limit already reached denies the call.
//
// Command words are resolved through the table's aliases first, so
// "p" and "play" share one grant and one counter.
//
// The throttle step is a single read-modify-write under the state
// file's exclusive lock, so concurrent callers in different processes
// never admit more calls than a limit allows.
package authorization
