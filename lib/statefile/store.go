// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package statefile

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Section is the reserved section holding every state value.
const Section = "do_not_modify"

// Well-known state keys shared between processes.
const (
	KeyThrottle    = "throttle"
	KeySongToPlay  = "song_to_play"
	KeyCurrentSong = "current_song"
	KeyPlayNow     = "play_now"
)

// Store is a handle on the application state file. A Store holds no
// open file between calls and caches nothing: every call sees what is
// on disk. It is safe for concurrent use.
type Store struct {
	path   string
	logger *slog.Logger
}

// document is the on-disk layout.
type document struct {
	Values map[string]string `yaml:"do_not_modify"`
}

// Open returns a Store for path, creating an empty file (and its parent
// directory) when none exists.
func Open(path string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("creating state directory: %w", err)
	}
	file, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0644)
	if err != nil {
		return nil, fmt.Errorf("creating state file: %w", err)
	}
	if err := file.Close(); err != nil {
		return nil, fmt.Errorf("closing state file: %w", err)
	}

	return &Store{path: path, logger: logger}, nil
}

// Path returns the state file path.
func (s *Store) Path() string { return s.path }

// Load reads every value under a shared lock. A corrupt file is logged
// and reads as empty.
func (s *Store) Load() (map[string]string, error) {
	file, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("opening state file: %w", err)
	}
	defer file.Close()

	unlock, err := lockFile(file, shared)
	if err != nil {
		return nil, err
	}
	defer unlock()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("reading state file: %w", err)
	}
	return s.decode(data), nil
}

// Get returns the value of name, or fallback when it is not set.
func (s *Store) Get(name, fallback string) (string, error) {
	values, err := s.Load()
	if err != nil {
		return "", err
	}
	if value, ok := values[name]; ok {
		return value, nil
	}
	return fallback, nil
}

// Update sets name to value. Other keys written concurrently by other
// processes are preserved: the file is re-read under the exclusive
// lock before writing.
func (s *Store) Update(name, value string) error {
	s.logger.Info("updating application state", "name", name, "value", value)
	return s.Transact(func(values map[string]string) error {
		values[name] = value
		return nil
	})
}

// Remove deletes name. Removing an unset name is not an error.
func (s *Store) Remove(name string) error {
	return s.Transact(func(values map[string]string) error {
		delete(values, name)
		return nil
	})
}

// Transact runs fn with the current values while holding the exclusive
// lock, then writes the (possibly modified) values back before
// releasing it. When fn returns an error nothing is written and the
// error is returned unchanged.
func (s *Store) Transact(fn func(values map[string]string) error) error {
	file, err := os.OpenFile(s.path, os.O_RDWR|os.O_CREATE, 0644)
	if err != nil {
		return fmt.Errorf("opening state file: %w", err)
	}
	defer file.Close()

	unlock, err := lockFile(file, exclusive)
	if err != nil {
		return err
	}
	defer unlock()

	data, err := io.ReadAll(file)
	if err != nil {
		return fmt.Errorf("reading state file: %w", err)
	}
	values := s.decode(data)

	if err := fn(values); err != nil {
		return err
	}

	encoded, err := yaml.Marshal(document{Values: values})
	if err != nil {
		return fmt.Errorf("encoding state: %w", err)
	}

	// Write, truncate, sync. Truncating after the write means a
	// shorter document never leaves trailing bytes of the old one.
	if _, err := file.WriteAt(encoded, 0); err != nil {
		return fmt.Errorf("writing state file: %w", err)
	}
	if err := file.Truncate(int64(len(encoded))); err != nil {
		return fmt.Errorf("truncating state file: %w", err)
	}
	if err := file.Sync(); err != nil {
		return fmt.Errorf("syncing state file: %w", err)
	}

	s.logger.Debug("wrote application state", "path", s.path, "keys", len(values))
	return nil
}

// decode parses file content. Empty or corrupt content yields an empty
// (non-nil) map.
func (s *Store) decode(data []byte) map[string]string {
	var parsed document
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		s.logger.Warn("state file corrupt, treating as empty", "path", s.path, "error", err)
		return map[string]string{}
	}
	if parsed.Values == nil {
		return map[string]string{}
	}
	return parsed.Values
}
