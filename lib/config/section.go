// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Section is a read-only view of one configuration section.
type Section struct {
	name   string
	values map[string]string
}

// Name returns the section name.
func (s Section) Name() string { return s.name }

// Has reports whether key is present, even with an empty value.
func (s Section) Has(key string) bool {
	_, ok := s.values[key]
	return ok
}

// Keys returns every key in the section, sorted.
func (s Section) Keys() []string {
	keys := make([]string, 0, len(s.values))
	for key := range s.values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// String returns the raw value for key, or an error wrapping
// ErrMissingKey.
func (s Section) String(key string) (string, error) {
	value, ok := s.values[key]
	if !ok {
		return "", s.missing(key)
	}
	return value, nil
}

// Get returns the raw value for key, or fallback when key is absent.
func (s Section) Get(key, fallback string) string {
	if value, ok := s.values[key]; ok {
		return value
	}
	return fallback
}

// Int parses the value for key as a base-10 integer.
func (s Section) Int(key string) (int, error) {
	value, err := s.String(key)
	if err != nil {
		return 0, err
	}
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("[%s] %s = %q: %w", s.name, key, value, ErrParse)
	}
	return parsed, nil
}

// Bool parses the value for key. Accepted spellings are 1/yes/true/on
// and 0/no/false/off, case-insensitively.
func (s Section) Bool(key string) (bool, error) {
	value, err := s.String(key)
	if err != nil {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "yes", "true", "on":
		return true, nil
	case "0", "no", "false", "off":
		return false, nil
	}
	return false, fmt.Errorf("[%s] %s = %q: %w", s.name, key, value, ErrParse)
}

// List splits the value for key with SplitList.
func (s Section) List(key, delimiter string) ([]string, error) {
	value, err := s.String(key)
	if err != nil {
		return nil, err
	}
	return SplitList(value, delimiter), nil
}

// IntList splits the value for key and parses every item as an integer.
func (s Section) IntList(key, delimiter string) ([]int, error) {
	items, err := s.List(key, delimiter)
	if err != nil {
		return nil, err
	}
	result := make([]int, 0, len(items))
	for _, item := range items {
		parsed, err := strconv.Atoi(item)
		if err != nil {
			return nil, fmt.Errorf("[%s] %s item %q: %w", s.name, key, item, ErrParse)
		}
		result = append(result, parsed)
	}
	return result, nil
}

func (s Section) missing(key string) error {
	return fmt.Errorf("[%s] %s: %w", s.name, key, ErrMissingKey)
}

// SplitList returns the items of a delimited string with surrounding
// whitespace removed from each, in their original order. An empty
// delimiter means ",". A value that is empty or only whitespace yields
// an empty list; interior empty items are kept.
func SplitList(value, delimiter string) []string {
	if delimiter == "" {
		delimiter = ","
	}
	if strings.TrimSpace(value) == "" {
		return []string{}
	}
	parts := strings.Split(value, delimiter)
	for i, part := range parts {
		parts[i] = strings.TrimSpace(part)
	}
	return parts
}
