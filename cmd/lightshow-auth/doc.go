// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Lightshow-auth is the operator tool for the light show's command
// permissions. It loads the same configuration layers and shares the
// same state file as the light show processes, so what it reports is
// what they enforce.
//
//	lightshow-auth check --user +15551234567 --command play
//	lightshow-auth permissions
//	lightshow-auth state get|set|dump
//	lightshow-auth throttle show|reset
//
// The installation directory comes from --home or LIGHTSHOW_HOME. The
// state file defaults to <home>/config/state.yaml; --state overrides
// it. Set LIGHTSHOW_DEBUG for debug logging on stderr.
//
// "check" runs a real authorization: an allowed, throttled command is
// counted exactly as if it had arrived by SMS. It exits 0 when the
// command is allowed and 1 when it is denied.
package main
