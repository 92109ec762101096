// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/lightshow/cmd/lightshow-auth/cli"
	"github.com/bureau-foundation/lightshow/lib/permission"
)

type permissionsReport struct {
	Fingerprint string             `json:"fingerprint"`
	Commands    []commandReport    `json:"commands"`
	Groups      []permission.Group `json:"groups"`
	Blacklist   []string           `json:"blacklist"`
	GrantedAll  []string           `json:"granted_all"`
}

type commandReport struct {
	Name    string   `json:"name"`
	Aliases []string `json:"aliases"`
	WhoCan  []string `json:"who_can"`
}

func (a *app) permissionsCommand() *cli.Command {
	var output cli.JSONOutput
	return &cli.Command{
		Name:    "permissions",
		Summary: "Show commands, groups, grants, throttles and the blacklist",
		Description: "Show the permission table built from the [sms] section, and its\n" +
			"fingerprint. Processes whose fingerprints match enforce identical rules.",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("permissions", pflag.ContinueOnError)
			output.AddFlag(flagSet)
			return flagSet
		},
		Run: func(args []string) error {
			if len(args) > 0 {
				return fmt.Errorf("unexpected argument: %s", args[0])
			}
			table, err := a.table()
			if err != nil {
				return err
			}

			report := permissionsReport{
				Fingerprint: table.Fingerprint(),
				Groups:      table.Groups(),
				Blacklist:   table.Blacklist(),
				GrantedAll:  table.WhoCan(permission.All),
			}
			for _, command := range table.Commands() {
				report.Commands = append(report.Commands, commandReport{
					Name:    command,
					Aliases: table.Aliases(command),
					WhoCan:  table.WhoCan(command),
				})
			}

			if done, err := output.EmitJSON(a.stdout, report); done {
				return err
			}
			return a.printPermissions(report)
		},
	}
}

func (a *app) printPermissions(report permissionsReport) error {
	w := tabwriter.NewWriter(a.stdout, 2, 0, 2, ' ', 0)

	fmt.Fprintf(w, "Fingerprint:\t%s\n", report.Fingerprint)
	fmt.Fprintf(w, "Blacklist:\t%s\n", listOrNone(report.Blacklist))
	fmt.Fprintf(w, "Granted all:\t%s\n", listOrNone(report.GrantedAll))

	fmt.Fprintf(w, "\nCOMMAND\tALIASES\tWHO CAN\n")
	for _, command := range report.Commands {
		fmt.Fprintf(w, "%s\t%s\t%s\n", command.Name, listOrNone(command.Aliases), listOrNone(command.WhoCan))
	}

	fmt.Fprintf(w, "\nGROUP\tUSERS\tCOMMANDS\tTHROTTLE\n")
	for _, group := range report.Groups {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			group.Name, listOrNone(group.Users), listOrNone(group.Commands), formatThrottle(group.Throttle))
	}
	return w.Flush()
}

func listOrNone(values []string) string {
	if len(values) == 0 {
		return "-"
	}
	return strings.Join(values, ", ")
}

// formatThrottle renders limits as "all:10, play:3" with "all" first
// and the rest sorted.
func formatThrottle(limits map[string]int) string {
	if limits == nil {
		return "-"
	}
	keys := make([]string, 0, len(limits))
	for key := range limits {
		if key != permission.All {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	if _, ok := limits[permission.All]; ok {
		keys = append([]string{permission.All}, keys...)
	}

	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, fmt.Sprintf("%s:%d", key, limits[key]))
	}
	if len(parts) == 0 {
		return "(empty)"
	}
	return strings.Join(parts, ", ")
}
