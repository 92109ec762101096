// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"testing"

	"github.com/spf13/pflag"
)

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"", "state", 5},
		{"state", "state", 0},
		{"stat", "state", 1},
		{"throtle", "throttle", 1},
		{"chekc", "check", 2},
		{"kitten", "sitting", 3},
	}
	for _, test := range tests {
		if got := levenshtein(test.a, test.b); got != test.want {
			t.Errorf("levenshtein(%q, %q) = %d, want %d", test.a, test.b, got, test.want)
		}
		if got := levenshtein(test.b, test.a); got != test.want {
			t.Errorf("levenshtein(%q, %q) = %d, want %d (symmetry)", test.b, test.a, got, test.want)
		}
	}
}

func TestSuggestFlag(t *testing.T) {
	flagSet := pflag.NewFlagSet("check", pflag.ContinueOnError)
	flagSet.String("user", "", "")
	flagSet.Bool("j", false, "")

	tests := []struct {
		args []string
		want string
	}{
		{[]string{"--usr", "alice"}, "--user"},
		{[]string{"--user=alice", "--k"}, "-j"},
		{[]string{"--nothing-like-it"}, ""},
		{[]string{"positional"}, ""},
	}
	for _, test := range tests {
		if got := suggestFlag(test.args, flagSet); got != test.want {
			t.Errorf("suggestFlag(%v) = %q, want %q", test.args, got, test.want)
		}
	}
}
