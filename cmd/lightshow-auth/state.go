// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/lightshow/cmd/lightshow-auth/cli"
)

func (a *app) stateCommand() *cli.Command {
	return &cli.Command{
		Name:    "state",
		Summary: "Read and write the shared application state",
		Description: "Read and write values in the shared state file. Every light show\n" +
			"process sees a change as soon as it is written.",
		Subcommands: []*cli.Command{
			{
				Name:    "get",
				Summary: "Print one state value",
				Usage:   "lightshow-auth state get NAME",
				Run: func(args []string) error {
					if len(args) != 1 {
						return fmt.Errorf("expected exactly one NAME, got %d arguments", len(args))
					}
					state, err := a.state()
					if err != nil {
						return err
					}
					values, err := state.Load()
					if err != nil {
						return err
					}
					value, ok := values[args[0]]
					if !ok {
						return fmt.Errorf("state value %q is not set", args[0])
					}
					fmt.Fprintln(a.stdout, value)
					return nil
				},
			},
			{
				Name:    "set",
				Summary: "Set one state value",
				Usage:   "lightshow-auth state set NAME VALUE",
				Examples: []cli.Example{
					{Description: "Queue the third song", Command: "lightshow-auth state set song_to_play 3"},
				},
				Run: func(args []string) error {
					if len(args) != 2 {
						return fmt.Errorf("expected NAME and VALUE, got %d arguments", len(args))
					}
					state, err := a.state()
					if err != nil {
						return err
					}
					return state.Update(args[0], args[1])
				},
			},
			a.stateDumpCommand(),
		},
	}
}

func (a *app) stateDumpCommand() *cli.Command {
	var output cli.JSONOutput
	return &cli.Command{
		Name:    "dump",
		Summary: "Print every state value",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("dump", pflag.ContinueOnError)
			output.AddFlag(flagSet)
			return flagSet
		},
		Run: func(args []string) error {
			if len(args) > 0 {
				return fmt.Errorf("unexpected argument: %s", args[0])
			}
			state, err := a.state()
			if err != nil {
				return err
			}
			values, err := state.Load()
			if err != nil {
				return err
			}
			if done, err := output.EmitJSON(a.stdout, values); done {
				return err
			}

			for _, name := range sortedKeys(values) {
				fmt.Fprintf(a.stdout, "%s=%s\n", name, values[name])
			}
			return nil
		},
	}
}
