// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/lightshow/cmd/lightshow-auth/cli"
	"github.com/bureau-foundation/lightshow/lib/throttle"
)

type windowReport struct {
	Start   *time.Time                `json:"start,omitempty"`
	Stop    *time.Time                `json:"stop,omitempty"`
	Limit   string                    `json:"limit"`
	Expired bool                      `json:"expired"`
	Counts  map[string]map[string]int `json:"counts"`
}

func (a *app) throttleCommand() *cli.Command {
	return &cli.Command{
		Name:    "throttle",
		Summary: "Show or reset the throttle window",
		Subcommands: []*cli.Command{
			a.throttleShowCommand(),
			{
				Name:        "reset",
				Summary:     "Start a fresh throttle window now",
				Description: "Discard every group's counts and start a new throttle window now.",
				Run: func(args []string) error {
					if len(args) > 0 {
						return fmt.Errorf("unexpected argument: %s", args[0])
					}
					store, err := a.throttleStore()
					if err != nil {
						return err
					}
					window, err := store.Reset()
					if err != nil {
						return err
					}
					fmt.Fprintf(a.stdout, "throttle window reset at %s\n", window.Start.Format(time.RFC3339))
					return nil
				},
			},
		},
	}
}

func (a *app) throttleShowCommand() *cli.Command {
	var output cli.JSONOutput
	return &cli.Command{
		Name:    "show",
		Summary: "Show the current window and its counts",
		Description: "Show the persisted throttle window. An expired window is reported as\n" +
			"such; it is replaced by the next check, not by this command.",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("show", pflag.ContinueOnError)
			output.AddFlag(flagSet)
			return flagSet
		},
		Run: func(args []string) error {
			if len(args) > 0 {
				return fmt.Errorf("unexpected argument: %s", args[0])
			}
			store, err := a.throttleStore()
			if err != nil {
				return err
			}
			window, err := store.Load()
			if err != nil {
				return err
			}

			report := newWindowReport(window, store.Limit(), a.clock.Now())
			if done, err := output.EmitJSON(a.stdout, report); done {
				return err
			}
			return a.printWindow(report)
		},
	}
}

func newWindowReport(window throttle.Window, limit time.Duration, now time.Time) windowReport {
	report := windowReport{
		Limit:   limit.String(),
		Expired: window.Expired(now, limit),
		Counts:  window.Clone().Counts,
	}
	if report.Counts == nil {
		report.Counts = map[string]map[string]int{}
	}
	if !window.Start.IsZero() {
		start := window.Start
		stop := window.Stop(limit)
		report.Start, report.Stop = &start, &stop
	}
	return report
}

func (a *app) printWindow(report windowReport) error {
	if report.Start == nil {
		fmt.Fprintf(a.stdout, "no throttle window yet (limit %s)\n", report.Limit)
		return nil
	}

	status := "active"
	if report.Expired {
		status = "expired"
	}
	fmt.Fprintf(a.stdout, "window %s to %s (limit %s, %s)\n",
		report.Start.Format(time.RFC3339), report.Stop.Format(time.RFC3339), report.Limit, status)

	if len(report.Counts) == 0 {
		fmt.Fprintln(a.stdout, "no counts")
		return nil
	}

	w := tabwriter.NewWriter(a.stdout, 2, 0, 2, ' ', 0)
	fmt.Fprintf(w, "GROUP\tCOMMAND\tCOUNT\n")
	for _, group := range sortedKeys(report.Counts) {
		for _, command := range sortedKeys(report.Counts[group]) {
			fmt.Fprintf(w, "%s\t%s\t%d\n", group, command, report.Counts[group][command])
		}
	}
	return w.Flush()
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
