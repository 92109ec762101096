// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package authorization

import (
	"fmt"
	"log/slog"

	"github.com/bureau-foundation/lightshow/lib/permission"
	"github.com/bureau-foundation/lightshow/lib/throttle"
)

// Engine authorizes commands against a permission table and the shared
// throttle counters. It holds no mutable state of its own and is safe
// for concurrent use.
type Engine struct {
	table    *permission.Table
	throttle *throttle.Store
	logger   *slog.Logger
}

// NewEngine returns an Engine. A nil throttle store disables
// throttling: every granted command is allowed.
func NewEngine(table *permission.Table, throttleStore *throttle.Store, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{table: table, throttle: throttleStore, logger: logger}
}

// Table returns the permission table the engine evaluates.
func (e *Engine) Table() *permission.Table { return e.table }

// HasPermission evaluates the blacklist and grants for user running
// command. It does not touch the throttle counters.
func (e *Engine) HasPermission(user, command string) (Verdict, DenyReason) {
	command = e.resolve(command)
	if e.table.IsBlacklisted(user) {
		return DeniedBlacklist, ReasonBlacklisted
	}
	if !e.table.Granted(user, command) {
		return DeniedPermission, ReasonNoGrant
	}
	return Allowed, ReasonNone
}

// CheckThrottle counts one call of command by user against the governing
// group's limits and reports the outcome. It does not evaluate grants.
func (e *Engine) CheckThrottle(user, command string) (ThrottleResult, error) {
	outcome, err := e.checkThrottle(user, e.resolve(command))
	if err != nil {
		return NotThrottled, err
	}
	return outcome.result, nil
}

// Authorize evaluates the blacklist, the grants and, for a permitted
// call, the throttle. A throttled call that is allowed has been counted
// when Authorize returns. Every denial is logged.
func (e *Engine) Authorize(user, command string) (Decision, error) {
	decision := Decision{User: user, Command: e.resolve(command)}

	decision.Verdict, decision.Reason = e.HasPermission(user, decision.Command)
	if decision.Verdict != Allowed {
		e.logDenial(decision)
		return decision, nil
	}

	outcome, err := e.checkThrottle(user, decision.Command)
	if err != nil {
		return Decision{}, fmt.Errorf("checking throttle for %q running %q: %w", user, decision.Command, err)
	}
	decision.Throttle = outcome.result
	decision.Group = outcome.group
	if outcome.result == Exceeded {
		decision.Verdict = DeniedThrottled
		decision.Reason = outcome.reason
		e.logDenial(decision)
		return decision, nil
	}

	e.logger.Debug("command authorized",
		"user", user,
		"command", decision.Command,
		"throttle", decision.Throttle.String(),
		"group", decision.Group,
	)
	return decision, nil
}

type throttleOutcome struct {
	result ThrottleResult
	group  string
	reason DenyReason
}

// checkThrottle runs the whole limit evaluation inside one
// throttle.Store.Update so the counts it decides on are the counts it
// writes. The window is persisted even when nothing is counted, which
// records a reset of an expired window.
func (e *Engine) checkThrottle(user, command string) (throttleOutcome, error) {
	if e.throttle == nil {
		return throttleOutcome{result: NotThrottled}, nil
	}

	group, throttled := e.table.ThrottledGroup(user, command)

	var outcome throttleOutcome
	_, err := e.throttle.Update(func(window *throttle.Window) error {
		outcome = evaluate(window, group, throttled, command)
		return nil
	})
	if err != nil {
		return throttleOutcome{}, err
	}
	if outcome.result == Exceeded {
		e.logger.Debug("throttle limit reached",
			"user", user,
			"command", command,
			"group", outcome.group,
			"reason", outcome.reason.String(),
		)
	}
	return outcome, nil
}

// evaluate applies group's limits for command to window. The "all"
// limit is checked first; reaching it counts nothing. Reaching the
// command limit after the "all" count was taken leaves that count in
// place.
func evaluate(window *throttle.Window, group permission.Group, throttled bool, command string) throttleOutcome {
	if !throttled {
		return throttleOutcome{result: NotThrottled}
	}
	outcome := throttleOutcome{result: NotThrottled, group: group.Name}

	if limit, ok := group.Limit(permission.All); ok {
		if window.Count(group.Name, permission.All) >= limit {
			outcome.result = Exceeded
			outcome.reason = ReasonAllLimit
			return outcome
		}
		window.Increment(group.Name, permission.All)
		outcome.result = Incremented
	}

	if command == permission.All {
		return outcome
	}
	if limit, ok := group.Limit(command); ok {
		if window.Count(group.Name, command) >= limit {
			outcome.result = Exceeded
			outcome.reason = ReasonCommandLimit
			return outcome
		}
		window.Increment(group.Name, command)
		outcome.result = Incremented
	}
	return outcome
}

func (e *Engine) resolve(word string) string {
	if command, ok := e.table.Resolve(word); ok {
		return command
	}
	return word
}

func (e *Engine) logDenial(decision Decision) {
	e.logger.Info("command denied",
		"user", decision.User,
		"command", decision.Command,
		"verdict", decision.Verdict.String(),
		"reason", decision.Reason.String(),
		"group", decision.Group,
	)
}
