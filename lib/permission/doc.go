// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package permission builds the permission table from the [sms]
// configuration section: which commands exist and what they are also
// called, which groups exist and in what order, who belongs to each
// group, what each group may run, how often, and who may run nothing
// at all.
//
// The configuration keys, all delimited lists:
//
//	commands        = help, play, volume
//	play_aliases    = p, song              (optional, per command)
//	groups          = admin, vip, guest    (declaration order matters)
//	vip_users       = +15555550100         (optional, per group)
//	vip_commands    = play, volume         (optional, per group)
//	vip_throttle    = all:10, play:3       (optional, per group)
//	blacklist       = +15555550199
//
// # Grants
//
// Every (granted command, member) pair of every group is recorded in
// the WhoCan index. The reserved identifier [All] works in both
// directions: a group granting the command "all" puts its members in
// WhoCan["all"] (they may run every command), and a group whose member
// list contains "all" grants its commands to everyone. A user is
// granted a command when they are in WhoCan["all"], when "all" is in
// WhoCan[command], or when they are in WhoCan[command]. The blacklist
// overrides every grant; that check belongs to the caller (see the
// authorization package) and is exposed here as [Table.IsBlacklisted].
//
// # Throttles
//
// A group's throttle maps a command, or "all", to the number of times
// members may run it per throttle window. When a user belongs to
// several groups, the first group in declaration order that contains
// the user and limits either "all" or the command governs
// ([Table.ThrottledGroup]); later groups are never consulted.
//
// # Errors
//
// commands, groups and blacklist are required; their absence is
// [ErrMissingRequiredSetting]. Everything else is optional and defaults
// to empty with a logged warning. Malformed throttle tokens are logged
// and skipped individually.
//
// A [Table] is immutable after [Build] and safe for concurrent use. It
// is built once at startup and passed to whatever needs it; the
// configuration is not reloaded while the process runs.
package permission
