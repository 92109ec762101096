// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package throttle

import "time"

// Window is one throttle period and the counts recorded in it.
type Window struct {
	// Start is when the window opened. Zero for a window that has
	// never been persisted.
	Start time.Time `json:"start"`

	// Counts maps group name to command (or "all") to the number of
	// counted calls in this window.
	Counts map[string]map[string]int `json:"counts,omitempty"`
}

// NewWindow returns an empty window starting at start.
func NewWindow(start time.Time) Window {
	return Window{Start: start, Counts: make(map[string]map[string]int)}
}

// Stop returns when a window of the given length ends.
func (w Window) Stop(limit time.Duration) time.Time {
	return w.Start.Add(limit)
}

// Expired reports whether the window must be replaced at now: it has
// no start, or now is past its stop time.
func (w Window) Expired(now time.Time, limit time.Duration) bool {
	return w.Start.IsZero() || now.After(w.Stop(limit))
}

// Count returns the count for key (a command or "all") in group.
func (w Window) Count(group, key string) int {
	return w.Counts[group][key]
}

// Increment adds one to the count for key in group and returns the new
// count.
func (w *Window) Increment(group, key string) int {
	if w.Counts == nil {
		w.Counts = make(map[string]map[string]int)
	}
	counts := w.Counts[group]
	if counts == nil {
		counts = make(map[string]int)
		w.Counts[group] = counts
	}
	counts[key]++
	return counts[key]
}

// Clone returns a deep copy.
func (w Window) Clone() Window {
	clone := Window{Start: w.Start}
	if w.Counts != nil {
		clone.Counts = make(map[string]map[string]int, len(w.Counts))
		for group, counts := range w.Counts {
			copied := make(map[string]int, len(counts))
			for key, count := range counts {
				copied[key] = count
			}
			clone.Counts[group] = copied
		}
	}
	return clone
}
