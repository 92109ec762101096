// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/lightshow/cmd/lightshow-auth/cli"
	"github.com/bureau-foundation/lightshow/lib/clock"
	"github.com/bureau-foundation/lightshow/lib/config"
	"github.com/bureau-foundation/lightshow/lib/permission"
	"github.com/bureau-foundation/lightshow/lib/process"
	"github.com/bureau-foundation/lightshow/lib/statefile"
	"github.com/bureau-foundation/lightshow/lib/throttle"
	"github.com/bureau-foundation/lightshow/lib/version"
)

func main() {
	a := &app{
		stdout: os.Stdout,
		stderr: os.Stderr,
		logger: cli.NewCommandLogger(),
		clock:  clock.Real(),
	}
	if err := a.run(os.Args[1:]); err != nil {
		process.Fatal(err)
	}
}

// app holds what every subcommand shares: the global flags, output
// streams and the lazily loaded configuration.
type app struct {
	home      string
	statePath string

	stdout io.Writer
	stderr io.Writer
	logger *slog.Logger
	clock  clock.Clock

	loaded *config.Settings
}

func (a *app) run(args []string) error {
	var showVersion bool
	global := pflag.NewFlagSet("lightshow-auth", pflag.ContinueOnError)
	global.SetInterspersed(false)
	global.SetOutput(io.Discard)
	global.StringVar(&a.home, "home", os.Getenv(config.HomeEnvironmentVariable),
		"light show installation directory (default $"+config.HomeEnvironmentVariable+")")
	global.StringVar(&a.statePath, "state", "", "state file (default <home>/config/state.yaml)")
	global.BoolVar(&showVersion, "version", false, "print version information and exit")

	root := a.rootCommand()
	if err := global.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			root.PrintHelp(a.stderr)
			return nil
		}
		return fmt.Errorf("%w\n\nRun 'lightshow-auth --help' for usage.", err)
	}
	if showVersion {
		fmt.Fprintf(a.stdout, "lightshow-auth %s\n", version.Info())
		return nil
	}

	return root.Execute(global.Args())
}

func (a *app) rootCommand() *cli.Command {
	return &cli.Command{
		Name:    "lightshow-auth",
		Summary: "Inspect and exercise light show command permissions",
		Description: "Inspect and exercise light show command permissions.\n\n" +
			"Global flags (before the command):\n" +
			"  --home DIR     installation directory (default $" + config.HomeEnvironmentVariable + ")\n" +
			"  --state FILE   state file (default <home>/config/state.yaml)\n" +
			"  --version      print version information and exit",
		Output: a.stderr,
		Subcommands: []*cli.Command{
			a.checkCommand(),
			a.permissionsCommand(),
			a.stateCommand(),
			a.throttleCommand(),
		},
	}
}

func (a *app) settings() (*config.Settings, error) {
	if a.loaded != nil {
		return a.loaded, nil
	}
	if a.home == "" {
		return nil, fmt.Errorf("no installation directory: set %s or pass --home", config.HomeEnvironmentVariable)
	}
	settings, err := config.Load(a.home, a.logger)
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}
	a.loaded = settings
	return settings, nil
}

func (a *app) table() (*permission.Table, error) {
	settings, err := a.settings()
	if err != nil {
		return nil, err
	}
	return permission.FromSettings(settings, a.logger)
}

func (a *app) state() (*statefile.Store, error) {
	path := a.statePath
	if path == "" {
		if a.home == "" {
			return nil, fmt.Errorf("no state file: set %s, pass --home or pass --state", config.HomeEnvironmentVariable)
		}
		path = filepath.Join(a.home, "config", "state.yaml")
	}
	return statefile.Open(path, a.logger)
}

func (a *app) throttleStore() (*throttle.Store, error) {
	settings, err := a.settings()
	if err != nil {
		return nil, err
	}
	sms, err := settings.SMS()
	if err != nil {
		return nil, err
	}
	state, err := a.state()
	if err != nil {
		return nil, err
	}
	return throttle.New(state, sms.ThrottleLimit, a.clock, a.logger), nil
}
