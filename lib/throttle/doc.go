// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package throttle keeps the per-group command counters that enforce
// throttle limits, persisted in the application state file so every
// light show process shares them.
//
// A [Window] is a start time plus, per throttled group, a count for
// each limited command and for "all". The whole window is one JSON
// value under the "throttle" state key. A window lasts for the
// configured throttle limit (sms.throttle_time_limit_seconds, global
// to all groups). The first check after the window's stop time, or
// the first check ever, replaces it with a fresh window starting now
// and with no counts, before anything is evaluated against it.
//
// [Store.Update] is the only way counters change: it holds the state
// file's exclusive lock across reload, reset, mutation and write, so
// two processes checking the same group at the same moment cannot both
// act on the same count. An unparsable window is logged and treated as
// empty; losing counts is preferable to refusing every command.
package throttle
