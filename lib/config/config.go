// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"
)

// HomeEnvironmentVariable names the environment variable holding the
// light show installation directory.
const HomeEnvironmentVariable = "LIGHTSHOW_HOME"

var (
	// ErrMissingSection is returned when a requested section is not
	// present in any configuration layer.
	ErrMissingSection = errors.New("missing configuration section")

	// ErrMissingKey is returned when a requested key is not present in
	// its section.
	ErrMissingKey = errors.New("missing configuration key")

	// ErrParse is returned when a value is present but cannot be
	// interpreted as the requested type.
	ErrParse = errors.New("malformed configuration value")
)

// Settings is the resolved configuration: every layer merged and every
// value expanded. It is immutable after construction and safe for
// concurrent use. Typed views are computed on first access and cached.
type Settings struct {
	sections map[string]map[string]string
	home     string
	logger   *slog.Logger

	hardwareOnce sync.Once
	hardware     *Hardware
	hardwareErr  error

	lightshowOnce sync.Once
	lightshow     *Lightshow
	lightshowErr  error

	smsOnce sync.Once
	sms     *SMS
	smsErr  error
}

// New builds Settings from an already-resolved mapping. The mapping is
// copied, so later changes by the caller do not leak in. Values are
// not expanded. Use this when configuration comes from somewhere other
// than the standard YAML layers (and in tests).
func New(sections map[string]map[string]string, logger *slog.Logger) *Settings {
	if logger == nil {
		logger = slog.Default()
	}
	copied := make(map[string]map[string]string, len(sections))
	for name, values := range sections {
		inner := make(map[string]string, len(values))
		for key, value := range values {
			inner[key] = value
		}
		copied[name] = inner
	}
	return &Settings{sections: copied, logger: logger}
}

// LoadFromEnvironment loads the standard layers rooted at the directory
// named by LIGHTSHOW_HOME. There is no fallback: when the variable is
// unset this fails.
func LoadFromEnvironment(logger *slog.Logger) (*Settings, error) {
	home := os.Getenv(HomeEnvironmentVariable)
	if home == "" {
		return nil, fmt.Errorf("%s environment variable not set; "+
			"set it to the light show installation directory, or use --home", HomeEnvironmentVariable)
	}
	return Load(home, logger)
}

// Load loads the standard configuration layers for an installation
// rooted at home. Only the defaults file is required.
func Load(home string, logger *slog.Logger) (*Settings, error) {
	optional := []string{
		filepath.Join(home, "config", "overrides.yaml"),
		"/home/pi/.lights.yaml",
	}
	if userHome, err := os.UserHomeDir(); err == nil {
		optional = append(optional, filepath.Join(userHome, ".lights.yaml"))
	}

	settings, err := LoadLayers(logger, filepath.Join(home, "config", "defaults.yaml"), optional...)
	if err != nil {
		return nil, err
	}
	settings.home = home
	settings.expandVariables()
	return settings, nil
}

// LoadLayers reads required and then each optional layer in order,
// merging them key by key. Optional layers that do not exist are
// skipped. Values are not expanded; Load does that once the home
// directory is known.
func LoadLayers(logger *slog.Logger, required string, optional ...string) (*Settings, error) {
	settings := New(nil, logger)

	if err := settings.loadFile(required); err != nil {
		return nil, err
	}

	for _, path := range optional {
		err := settings.loadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			settings.logger.Debug("optional configuration layer not present", "path", path)
			continue
		}
		if err != nil {
			return nil, err
		}
	}

	return settings, nil
}

// loadFile merges a single YAML layer into the current settings.
func (s *Settings) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading configuration layer: %w", err)
	}

	var layer map[string]map[string]string
	if err := yaml.Unmarshal(data, &layer); err != nil {
		return fmt.Errorf("parsing configuration layer %s: %w", path, err)
	}

	for name, values := range layer {
		section := s.sections[name]
		if section == nil {
			section = make(map[string]string, len(values))
			s.sections[name] = section
		}
		for key, value := range values {
			section[key] = value
		}
	}

	s.logger.Debug("loaded configuration layer", "path", path, "sections", len(layer))
	return nil
}

// Home returns the installation directory the settings were loaded
// from, or "" when they were built with New or LoadLayers.
func (s *Settings) Home() string {
	return s.home
}

// Section returns the named section.
func (s *Settings) Section(name string) (Section, error) {
	values, ok := s.sections[name]
	if !ok {
		return Section{}, fmt.Errorf("[%s]: %w", name, ErrMissingSection)
	}
	return Section{name: name, values: values}, nil
}

// SectionNames returns the names of every loaded section, sorted.
func (s *Settings) SectionNames() []string {
	names := make([]string, 0, len(s.sections))
	for name := range s.sections {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// expandVariables expands ${VAR} and ${VAR:-default} patterns in every
// value.
func (s *Settings) expandVariables() {
	vars := map[string]string{
		HomeEnvironmentVariable:    s.home,
		"SYNCHRONIZED_LIGHTS_HOME": s.home,
		"HOME":                     os.Getenv("HOME"),
	}

	for _, values := range s.sections {
		for key, value := range values {
			values[key] = expandVars(value, vars)
		}
	}
}

var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

// expandVars expands ${VAR} and ${VAR:-default} patterns.
func expandVars(s string, vars map[string]string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		name := parts[1]
		defaultValue := ""
		if len(parts) >= 3 {
			defaultValue = parts[2]
		}

		// Check provided vars first, then environment.
		if value, ok := vars[name]; ok && value != "" {
			return value
		}
		if value := os.Getenv(name); value != "" {
			return value
		}
		return defaultValue
	})
}
