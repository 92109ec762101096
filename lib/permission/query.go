// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package permission

import (
	"sort"
	"strings"
)

// Commands returns the configured commands in order.
func (t *Table) Commands() []string {
	return append([]string(nil), t.commands...)
}

// Aliases returns the aliases configured for command.
func (t *Table) Aliases(command string) []string {
	return append([]string(nil), t.aliases[command]...)
}

// Resolve maps an inbound word to its command. Commands and aliases
// match case-insensitively after trimming whitespace.
func (t *Table) Resolve(word string) (string, bool) {
	command, ok := t.resolve[strings.ToLower(strings.TrimSpace(word))]
	return command, ok
}

// Groups returns every group in declaration order. The returned
// groups share no memory with the table.
func (t *Table) Groups() []Group {
	groups := make([]Group, len(t.groups))
	for i, group := range t.groups {
		groups[i] = copyGroup(group)
	}
	return groups
}

// Group returns the named group.
func (t *Table) Group(name string) (Group, bool) {
	index, ok := t.groupIndex[name]
	if !ok {
		return Group{}, false
	}
	return copyGroup(t.groups[index]), true
}

// Blacklist returns the blacklisted users in configured order.
func (t *Table) Blacklist() []string {
	return append([]string(nil), t.blacklist...)
}

// IsBlacklisted reports whether user is on the blacklist.
func (t *Table) IsBlacklisted(user string) bool {
	_, blocked := t.blocked[user]
	return blocked
}

// Granted reports whether some group grants command to user. It does
// not consult the blacklist.
func (t *Table) Granted(user, command string) bool {
	if _, ok := t.whoCan[All][user]; ok {
		return true
	}
	users := t.whoCan[command]
	if _, ok := users[All]; ok {
		return true
	}
	_, ok := users[user]
	return ok
}

// WhoCan returns the users explicitly granted command, sorted. Pass
// All for the users granted every command.
func (t *Table) WhoCan(command string) []string {
	users := make([]string, 0, len(t.whoCan[command]))
	for user := range t.whoCan[command] {
		users = append(users, user)
	}
	sort.Strings(users)
	return users
}

// ThrottledGroup returns the group whose throttle governs user running
// command: the first group in declaration order that lists user and
// limits All or command.
func (t *Table) ThrottledGroup(user, command string) (Group, bool) {
	for _, group := range t.groups {
		if group.Throttle == nil || !group.HasMember(user) {
			continue
		}
		_, limitsAll := group.Throttle[All]
		_, limitsCommand := group.Throttle[command]
		if limitsAll || limitsCommand {
			return copyGroup(group), true
		}
	}
	return Group{}, false
}

// Fingerprint identifies the table's content. Processes that built
// their tables from the same effective configuration report the same
// fingerprint.
func (t *Table) Fingerprint() string {
	return t.fingerprint
}

func copyGroup(group Group) Group {
	copied := Group{
		Name:     group.Name,
		Users:    append([]string(nil), group.Users...),
		Commands: append([]string(nil), group.Commands...),
	}
	if group.Throttle != nil {
		copied.Throttle = make(map[string]int, len(group.Throttle))
		for key, limit := range group.Throttle {
			copied.Throttle[key] = limit
		}
	}
	return copied
}
