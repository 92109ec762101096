// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package permission

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/bureau-foundation/lightshow/lib/config"
)

// All is the reserved identifier meaning every command (in grants and
// throttles) or every user (in member lists).
const All = "all"

// ErrMissingRequiredSetting is returned by Build when commands, groups
// or blacklist is absent from the [sms] section.
var ErrMissingRequiredSetting = errors.New("missing required sms setting")

// Group is one configured group.
type Group struct {
	// Name is the group identifier.
	Name string `json:"name"`

	// Users lists members in configured order.
	Users []string `json:"users"`

	// Commands lists granted commands in configured order.
	Commands []string `json:"commands"`

	// Throttle maps a command or All to its per-window limit. Nil when
	// the group has no throttle definition; an empty non-nil map when
	// the definition exists but every token was malformed.
	Throttle map[string]int `json:"throttle,omitempty"`
}

// HasMember reports whether user is listed in the group.
func (g Group) HasMember(user string) bool {
	for _, member := range g.Users {
		if member == user {
			return true
		}
	}
	return false
}

// Limit returns the throttle limit for key (a command or All).
func (g Group) Limit(key string) (int, bool) {
	limit, ok := g.Throttle[key]
	return limit, ok
}

// Table is the permission data derived from the [sms] section.
type Table struct {
	commands   []string
	aliases    map[string][]string
	resolve    map[string]string
	groups     []Group
	groupIndex map[string]int
	whoCan     map[string]map[string]struct{}
	blacklist  []string
	blocked    map[string]struct{}

	fingerprint string
}

// FromSettings builds the table from the [sms] section of settings.
func FromSettings(settings *config.Settings, logger *slog.Logger) (*Table, error) {
	sms, err := settings.SMS()
	if err != nil {
		return nil, err
	}
	return Build(sms.Section, logger)
}

// Build derives the permission table from an [sms] section.
func Build(section config.Section, logger *slog.Logger) (*Table, error) {
	if logger == nil {
		logger = slog.Default()
	}

	table := &Table{
		aliases:    make(map[string][]string),
		resolve:    make(map[string]string),
		groupIndex: make(map[string]int),
		whoCan:     map[string]map[string]struct{}{All: {}},
		blocked:    make(map[string]struct{}),
	}

	commands, err := requiredList(section, "commands")
	if err != nil {
		return nil, err
	}
	groups, err := requiredList(section, "groups")
	if err != nil {
		return nil, err
	}
	blacklist, err := requiredList(section, "blacklist")
	if err != nil {
		return nil, err
	}

	for _, command := range commands {
		if command == "" {
			continue
		}
		table.commands = append(table.commands, command)
		table.whoCan[command] = make(map[string]struct{})
		table.resolve[strings.ToLower(command)] = command

		aliases := optionalList(section, command+"_aliases", logger, slog.LevelDebug)
		table.aliases[command] = aliases
		for _, alias := range aliases {
			if alias == "" {
				continue
			}
			key := strings.ToLower(alias)
			if existing, taken := table.resolve[key]; taken && existing != command {
				logger.Warn("alias already resolves to another command, ignoring",
					"alias", alias, "command", command, "existing", existing)
				continue
			}
			table.resolve[key] = command
		}
	}

	for _, name := range groups {
		if name == "" {
			continue
		}
		if _, duplicate := table.groupIndex[name]; duplicate {
			logger.Warn("group declared twice, keeping first declaration", "group", name)
			continue
		}

		group := Group{
			Name:     name,
			Users:    optionalList(section, name+"_users", logger, slog.LevelWarn),
			Commands: optionalList(section, name+"_commands", logger, slog.LevelWarn),
			Throttle: parseThrottle(section, name, logger),
		}

		for _, command := range group.Commands {
			users, known := table.whoCan[command]
			if !known {
				logger.Warn("group grants a command that is not in the command list",
					"group", name, "command", command)
				users = make(map[string]struct{})
				table.whoCan[command] = users
			}
			for _, user := range group.Users {
				users[user] = struct{}{}
			}
		}

		table.groupIndex[name] = len(table.groups)
		table.groups = append(table.groups, group)
	}

	for _, user := range blacklist {
		if user == "" {
			continue
		}
		table.blacklist = append(table.blacklist, user)
		table.blocked[user] = struct{}{}
	}

	if table.fingerprint, err = fingerprint(table); err != nil {
		return nil, err
	}

	logger.Debug("built permission table",
		"commands", len(table.commands),
		"groups", len(table.groups),
		"blacklisted", len(table.blacklist),
		"fingerprint", table.fingerprint,
	)
	return table, nil
}

func requiredList(section config.Section, key string) ([]string, error) {
	values, err := section.List(key, ",")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMissingRequiredSetting, err)
	}
	return values, nil
}

// optionalList returns the list under key, or an empty list (logged at
// level) when the key is absent.
func optionalList(section config.Section, key string, logger *slog.Logger, level slog.Level) []string {
	values, err := section.List(key, ",")
	if err != nil {
		logger.Log(context.Background(), level, "optional sms setting not defined, using empty list", "key", key)
		return []string{}
	}
	return values
}

// parseThrottle parses <group>_throttle. Tokens have the form
// command:limit; a malformed token is logged and skipped.
func parseThrottle(section config.Section, group string, logger *slog.Logger) map[string]int {
	key := group + "_throttle"
	tokens, err := section.List(key, ",")
	if err != nil {
		logger.Warn("throttle definition does not exist for group", "group", group, "key", key)
		return nil
	}

	throttle := make(map[string]int, len(tokens))
	for _, token := range tokens {
		parts := strings.Split(token, ":")
		if len(parts) != 2 {
			logger.Warn("throttle definitions should be in the form command:limit, skipping",
				"group", group, "token", token)
			continue
		}

		command := strings.TrimSpace(parts[0])
		limit, err := strconv.Atoi(strings.TrimSpace(parts[1]))
		if command == "" || err != nil || limit < 0 {
			logger.Warn("throttle definition has an empty command or invalid limit, skipping",
				"group", group, "token", token)
			continue
		}

		throttle[command] = limit
	}
	return throttle
}
