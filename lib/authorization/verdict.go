// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package authorization

// Verdict is the outcome of an authorization check.
type Verdict int

const (
	// Allowed means the command may run.
	Allowed Verdict = iota

	// DeniedBlacklist means the user is blacklisted.
	DeniedBlacklist

	// DeniedPermission means no grant covers the user and command.
	DeniedPermission

	// DeniedThrottled means the user's group has used up a limit for
	// the current window.
	DeniedThrottled
)

// String returns a short lower-case name for the verdict.
func (v Verdict) String() string {
	switch v {
	case Allowed:
		return "allowed"
	case DeniedBlacklist:
		return "denied-blacklist"
	case DeniedPermission:
		return "denied-permission"
	case DeniedThrottled:
		return "denied-throttled"
	default:
		return "unknown"
	}
}

// DenyReason describes why a check was denied.
type DenyReason int

const (
	// ReasonNone is the reason of an allowed verdict.
	ReasonNone DenyReason = iota

	// ReasonBlacklisted means the user appears in the blacklist.
	ReasonBlacklisted

	// ReasonNoGrant means neither the user nor "all" was granted the
	// command or "all".
	ReasonNoGrant

	// ReasonAllLimit means the group's "all" limit was reached.
	ReasonAllLimit

	// ReasonCommandLimit means the group's limit for the command was
	// reached.
	ReasonCommandLimit
)

// String returns a human-readable reason.
func (r DenyReason) String() string {
	switch r {
	case ReasonNone:
		return "none"
	case ReasonBlacklisted:
		return "user is blacklisted"
	case ReasonNoGrant:
		return "no matching grant"
	case ReasonAllLimit:
		return "group limit for all commands reached"
	case ReasonCommandLimit:
		return "group limit for command reached"
	default:
		return "unknown"
	}
}

// ThrottleResult is the outcome of a throttle check.
type ThrottleResult int

const (
	// NotThrottled means no group limits the user for the command.
	// Nothing was counted.
	NotThrottled ThrottleResult = iota

	// Incremented means the call was within every applicable limit and
	// has been counted.
	Incremented

	// Exceeded means a limit was already reached.
	Exceeded
)

// String returns a short lower-case name for the result.
func (r ThrottleResult) String() string {
	switch r {
	case NotThrottled:
		return "not-throttled"
	case Incremented:
		return "incremented"
	case Exceeded:
		return "exceeded"
	default:
		return "unknown"
	}
}

// Decision is the full outcome of [Engine.Authorize].
type Decision struct {
	// Verdict is Allowed or one of the denials.
	Verdict Verdict

	// Reason is ReasonNone when Verdict is Allowed.
	Reason DenyReason

	// User is the user as given.
	User string

	// Command is the resolved command name. Words that are neither a
	// command nor an alias are kept as given.
	Command string

	// Throttle is the throttle outcome. NotThrottled when the check
	// was denied before the throttle step.
	Throttle ThrottleResult

	// Group is the throttled group that governed the call, if any.
	Group string
}

// Allowed reports whether the command may run.
func (d Decision) Allowed() bool {
	return d.Verdict == Allowed
}
