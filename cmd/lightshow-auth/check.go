// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/lightshow/cmd/lightshow-auth/cli"
	"github.com/bureau-foundation/lightshow/lib/authorization"
)

type checkResult struct {
	User     string `json:"user"`
	Command  string `json:"command"`
	Verdict  string `json:"verdict"`
	Reason   string `json:"reason,omitempty"`
	Throttle string `json:"throttle"`
	Group    string `json:"group,omitempty"`
}

func (a *app) checkCommand() *cli.Command {
	var (
		user    string
		command string
		output  cli.JSONOutput
	)
	return &cli.Command{
		Name:    "check",
		Summary: "Authorize one command as if it arrived by SMS",
		Description: "Authorize one command for one user. An allowed command that a throttle\n" +
			"governs is counted against the current window. Exits 0 when allowed and\n" +
			"1 when denied.",
		Usage: "lightshow-auth check --user USER --command COMMAND [--json]",
		Examples: []cli.Example{
			{Description: "Can this number request a song right now?", Command: "lightshow-auth check --user +15551234567 --command play"},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("check", pflag.ContinueOnError)
			flagSet.StringVar(&user, "user", "", "user identifier (phone number)")
			flagSet.StringVar(&command, "command", "", "command word or alias")
			output.AddFlag(flagSet)
			return flagSet
		},
		Run: func(args []string) error {
			if len(args) > 0 {
				return fmt.Errorf("unexpected argument: %s", args[0])
			}
			if user == "" || command == "" {
				return fmt.Errorf("--user and --command are required")
			}

			table, err := a.table()
			if err != nil {
				return err
			}
			store, err := a.throttleStore()
			if err != nil {
				return err
			}

			decision, err := authorization.NewEngine(table, store, a.logger).Authorize(user, command)
			if err != nil {
				return err
			}

			result := checkResult{
				User:     decision.User,
				Command:  decision.Command,
				Verdict:  decision.Verdict.String(),
				Throttle: decision.Throttle.String(),
				Group:    decision.Group,
			}
			if !decision.Allowed() {
				result.Reason = decision.Reason.String()
			}

			if done, err := output.EmitJSON(a.stdout, result); done {
				if err != nil {
					return err
				}
			} else {
				a.printCheck(result)
			}

			if !decision.Allowed() {
				return &cli.ExitError{Code: 1}
			}
			return nil
		},
	}
}

func (a *app) printCheck(result checkResult) {
	fmt.Fprintf(a.stdout, "%s %s: %s", result.User, result.Command, result.Verdict)
	if result.Reason != "" {
		fmt.Fprintf(a.stdout, " (%s)", result.Reason)
	}
	if result.Group != "" {
		fmt.Fprintf(a.stdout, " [group %s, %s]", result.Group, result.Throttle)
	}
	fmt.Fprintln(a.stdout)
}
