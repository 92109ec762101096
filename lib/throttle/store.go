// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package throttle

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/bureau-foundation/lightshow/lib/clock"
	"github.com/bureau-foundation/lightshow/lib/statefile"
)

// Store reads and writes the throttle window in the application state
// file.
type Store struct {
	state  *statefile.Store
	limit  time.Duration
	clock  clock.Clock
	logger *slog.Logger
}

// New returns a Store keeping windows of length limit in state.
func New(state *statefile.Store, limit time.Duration, clk clock.Clock, logger *slog.Logger) *Store {
	if clk == nil {
		clk = clock.Real()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{state: state, limit: limit, clock: clk, logger: logger}
}

// Limit returns the configured window length.
func (s *Store) Limit() time.Duration { return s.limit }

// Load returns the persisted window as stored, without applying expiry.
// A missing window is the zero Window.
func (s *Store) Load() (Window, error) {
	raw, err := s.state.Get(statefile.KeyThrottle, "")
	if err != nil {
		return Window{}, fmt.Errorf("loading throttle window: %w", err)
	}
	return s.decode(raw), nil
}

// Save persists window as is.
func (s *Store) Save(window Window) error {
	encoded, err := encode(window)
	if err != nil {
		return err
	}
	return s.state.Transact(func(values map[string]string) error {
		values[statefile.KeyThrottle] = encoded
		return nil
	})
}

// Reset replaces the persisted window with an empty one starting now.
func (s *Store) Reset() (Window, error) {
	window := NewWindow(s.clock.Now())
	if err := s.Save(window); err != nil {
		return Window{}, err
	}
	s.logger.Info("throttle window reset", "start", window.Start)
	return window, nil
}

// Update runs fn against the current window under the state file's
// exclusive lock and persists the result before the lock is released.
// An expired window is replaced by a fresh one before fn sees it. When
// fn returns an error nothing is written, including any reset.
//
// The returned window is the one that was persisted.
func (s *Store) Update(fn func(window *Window) error) (Window, error) {
	var result Window
	err := s.state.Transact(func(values map[string]string) error {
		window := s.decode(values[statefile.KeyThrottle])

		now := s.clock.Now()
		if window.Expired(now, s.limit) {
			s.logger.Debug("starting new throttle window",
				"previous_start", window.Start, "start", now, "limit", s.limit)
			window = NewWindow(now)
		}

		if err := fn(&window); err != nil {
			return err
		}

		encoded, err := encode(window)
		if err != nil {
			return err
		}
		values[statefile.KeyThrottle] = encoded
		result = window
		return nil
	})
	if err != nil {
		return Window{}, err
	}
	return result, nil
}

func (s *Store) decode(raw string) Window {
	if raw == "" {
		return Window{}
	}
	var window Window
	if err := json.Unmarshal([]byte(raw), &window); err != nil {
		s.logger.Warn("throttle state corrupt, starting from an empty window", "error", err)
		return Window{}
	}
	return window
}

func encode(window Window) (string, error) {
	data, err := json.Marshal(window)
	if err != nil {
		return "", fmt.Errorf("encoding throttle window: %w", err)
	}
	return string(data), nil
}
